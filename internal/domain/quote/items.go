package quote

import (
	"errors"

	"github.com/bitfaber/preventivo/internal/domain/catalog"
	"github.com/bitfaber/preventivo/internal/domain/pricing"
)

var (
	// ErrIndexOutOfRange is returned for a line item position that does
	// not exist.
	ErrIndexOutOfRange = errors.New("line item index out of range")
	// ErrQuantityTooSmall is returned when a quantity below 1 is set.
	ErrQuantityTooSmall = errors.New("quantity must be at least 1")
)

// LineItems is the ordered set of rows being quoted, keyed by position. A
// row may exist without a selected product while the draft is edited. The
// store knows nothing about totals; callers recompute after every
// mutation.
type LineItems struct {
	items []LineItem
}

// NewLineItems returns a store holding one blank row, the editable
// starting state of a new draft.
func NewLineItems() *LineItems {
	return &LineItems{items: []LineItem{{Quantity: 1}}}
}

// LineItemsFrom seeds the store from a persisted quote's items. A quote
// persisted with no items still gets one blank editable row.
func LineItemsFrom(items []LineItem) *LineItems {
	s := &LineItems{items: append([]LineItem(nil), items...)}
	if len(s.items) == 0 {
		s.items = append(s.items, LineItem{Quantity: 1})
	}
	return s
}

// Len returns the number of rows.
func (s *LineItems) Len() int { return len(s.items) }

// Items returns a copy of the rows.
func (s *LineItems) Items() []LineItem {
	return append([]LineItem(nil), s.items...)
}

// Lines returns the priced view of all rows. Blank rows carry a zero
// price and contribute nothing.
func (s *LineItems) Lines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(s.items))
	for _, it := range s.items {
		lines = append(lines, it.Line())
	}
	return lines
}

// SelectProduct replaces the row at index with a fresh snapshot of the
// given product, preserving the quantity already chosen. Re-selecting the
// same product refreshes the snapshot too.
func (s *LineItems) SelectProduct(index int, p catalog.Product) error {
	if index < 0 || index >= len(s.items) {
		return ErrIndexOutOfRange
	}
	s.items[index] = LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		Quantity:  s.items[index].Quantity,
		TaxRate:   p.TaxRate,
	}
	return nil
}

// SetQuantity replaces the quantity of the row at index.
func (s *LineItems) SetQuantity(index, qty int) error {
	if index < 0 || index >= len(s.items) {
		return ErrIndexOutOfRange
	}
	if qty < 1 {
		return ErrQuantityTooSmall
	}
	s.items[index].Quantity = qty
	return nil
}

// AddBlank appends an empty row with quantity 1.
func (s *LineItems) AddBlank() {
	s.items = append(s.items, LineItem{Quantity: 1})
}

// Remove drops the row at index.
func (s *LineItems) Remove(index int) error {
	if index < 0 || index >= len(s.items) {
		return ErrIndexOutOfRange
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return nil
}

// SelectableProducts filters the catalog for the selector of the row at
// index: products taken by other rows are hidden, but the row's own
// current selection stays visible so it cannot disappear from its own
// selector.
func (s *LineItems) SelectableProducts(index int, products []catalog.Product) []catalog.Product {
	taken := make(map[string]bool, len(s.items))
	for i, it := range s.items {
		if i != index && !it.Empty() {
			taken[it.ProductID] = true
		}
	}
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if !taken[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
