package quote

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitfaber/preventivo/internal/domain/catalog"
)

var (
	lampada = catalog.Product{ID: "p1", Name: "Lampada LED", UnitPrice: 24.9, TaxRate: 22}
	cavo    = catalog.Product{ID: "p2", Name: "Cavo 3x1.5", UnitPrice: 1.2, TaxRate: 10}
	presa   = catalog.Product{ID: "p3", Name: "Presa Schuko", UnitPrice: 6.5, TaxRate: 22}
)

func TestNewLineItemsStartsWithOneBlankRow(t *testing.T) {
	s := NewLineItems()
	require.Equal(t, 1, s.Len())
	require.True(t, s.Items()[0].Empty())
	require.Equal(t, 1, s.Items()[0].Quantity)
}

func TestSelectProductSnapshotsAndPreservesQuantity(t *testing.T) {
	s := NewLineItems()
	require.NoError(t, s.SetQuantity(0, 3))
	require.NoError(t, s.SelectProduct(0, lampada))

	got := s.Items()[0]
	require.Equal(t, "p1", got.ProductID)
	require.Equal(t, "Lampada LED", got.Name)
	require.Equal(t, 24.9, got.UnitPrice)
	require.Equal(t, 22, got.TaxRate)
	require.Equal(t, 3, got.Quantity)
}

func TestSnapshotSurvivesCatalogChangeUntilReselected(t *testing.T) {
	s := NewLineItems()
	require.NoError(t, s.SelectProduct(0, lampada))

	// Catalog price changes elsewhere; the row keeps its snapshot.
	changed := lampada
	changed.UnitPrice = 29.9
	require.Equal(t, 24.9, s.Items()[0].UnitPrice)

	// Re-selecting the same product replaces the whole snapshot.
	require.NoError(t, s.SelectProduct(0, changed))
	require.Equal(t, 29.9, s.Items()[0].UnitPrice)
}

func TestSetQuantityRejectsNonPositive(t *testing.T) {
	s := NewLineItems()
	require.ErrorIs(t, s.SetQuantity(0, 0), ErrQuantityTooSmall)
	require.ErrorIs(t, s.SetQuantity(0, -2), ErrQuantityTooSmall)
	require.NoError(t, s.SetQuantity(0, 1))
}

func TestMutationsCheckBounds(t *testing.T) {
	s := NewLineItems()
	require.ErrorIs(t, s.SelectProduct(1, lampada), ErrIndexOutOfRange)
	require.ErrorIs(t, s.SetQuantity(-1, 2), ErrIndexOutOfRange)
	require.ErrorIs(t, s.Remove(5), ErrIndexOutOfRange)
}

func TestAddBlankAndRemove(t *testing.T) {
	s := NewLineItems()
	require.NoError(t, s.SelectProduct(0, lampada))
	s.AddBlank()
	require.NoError(t, s.SelectProduct(1, cavo))
	s.AddBlank()
	require.Equal(t, 3, s.Len())

	require.NoError(t, s.Remove(0))
	require.Equal(t, 2, s.Len())
	require.Equal(t, "p2", s.Items()[0].ProductID)
}

func TestSelectableProductsHidesOtherRowsSelections(t *testing.T) {
	all := []catalog.Product{lampada, cavo, presa}

	s := NewLineItems()
	require.NoError(t, s.SelectProduct(0, lampada))
	s.AddBlank()
	require.NoError(t, s.SelectProduct(1, cavo))

	// Row 1 must still see its own selection, but not row 0's.
	got := s.SelectableProducts(1, all)
	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	require.Equal(t, []string{"p2", "p3"}, ids)

	// A fresh row sees only unselected products.
	s.AddBlank()
	got = s.SelectableProducts(2, all)
	require.Len(t, got, 1)
	require.Equal(t, "p3", got[0].ID)
}

func TestLineItemsFromSeedsBlankRowWhenEmpty(t *testing.T) {
	s := LineItemsFrom(nil)
	require.Equal(t, 1, s.Len())
	require.True(t, s.Items()[0].Empty())
}
