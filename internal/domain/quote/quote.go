// Package quote implements the quoting aggregate: line items snapshotted
// from the product catalog, a quote-level discount, and the totals derived
// from them. Persistence goes through the remote storage collaborator.
package quote

import (
	"github.com/bitfaber/preventivo/internal/domain/catalog"
	"github.com/bitfaber/preventivo/internal/domain/pricing"
)

// LineItem is one product row of a quote. Name, UnitPrice and TaxRate are
// copied from the catalog entry when the product is selected; a later
// catalog change never alters an existing quote.
type LineItem struct {
	ProductID string
	Name      string
	UnitPrice float64
	Quantity  int
	TaxRate   int
}

// Empty reports whether the row has no product selected yet.
func (li LineItem) Empty() bool { return li.ProductID == "" }

// Line returns the priced view used by the totals engine.
func (li LineItem) Line() pricing.Line {
	return pricing.Line{UnitPrice: li.UnitPrice, Quantity: li.Quantity, TaxRate: li.TaxRate}
}

// Quote is a persisted proposal: one customer, the item snapshots, the
// discount and the totals computed at submit time.
type Quote struct {
	ID       string
	Customer catalog.Customer
	Items    []LineItem
	Discount pricing.Discount
	Totals   pricing.Totals
}

// Lines returns the priced view of all items.
func (q Quote) Lines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(q.Items))
	for _, it := range q.Items {
		lines = append(lines, it.Line())
	}
	return lines
}
