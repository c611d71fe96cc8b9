package quote

import (
	"fmt"
	"strings"

	"github.com/bitfaber/preventivo/internal/domain/pricing"
)

// FieldError ties a validation failure to the offending field, using the
// positional paths the client renders inline (customer, discount,
// products[i].product, products[i].quantity).
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates a draft's field errors. Submission is blocked
// while any are present; nothing is partially persisted.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "invalid draft: " + strings.Join(msgs, "; ")
}

// Draft is an in-memory quote being composed or edited. Totals are never
// stored on the draft; every consumer recomputes from the current rows and
// discount.
type Draft struct {
	ID         string // empty until first persisted
	CustomerID string
	Items      *LineItems
	Discount   pricing.Discount
}

// NewDraft starts a blank draft: one empty row, zero percent discount.
func NewDraft() *Draft {
	return &Draft{
		Items:    NewLineItems(),
		Discount: pricing.Discount{Kind: pricing.DiscountPercent},
	}
}

// EditDraft seeds a draft from a persisted quote.
func EditDraft(q Quote) *Draft {
	return &Draft{
		ID:         q.ID,
		CustomerID: q.Customer.ID,
		Items:      LineItemsFrom(q.Items),
		Discount:   q.Discount,
	}
}

// Recompute derives fresh totals from the current rows and discount.
func (d *Draft) Recompute() pricing.Totals {
	return pricing.ComputeTotals(d.Items.Lines(), d.Discount)
}

// Validate checks the submit-time rules against the current subtotal:
// customer set, every row holding a product with quantity ≥ 1, discount
// consistent with the subtotal as it stands now.
func (d *Draft) Validate() error {
	var fields []FieldError
	if strings.TrimSpace(d.CustomerID) == "" {
		fields = append(fields, FieldError{Field: "customer", Message: "customer is required"})
	}

	var subtotal float64
	for i, it := range d.Items.Items() {
		if it.Empty() {
			fields = append(fields, FieldError{
				Field:   fmt.Sprintf("products[%d].product", i),
				Message: "product is required",
			})
		}
		if it.Quantity < 1 {
			fields = append(fields, FieldError{
				Field:   fmt.Sprintf("products[%d].quantity", i),
				Message: ErrQuantityTooSmall.Error(),
			})
		}
		subtotal += it.Line().Total()
	}

	if err := d.Discount.Validate(subtotal); err != nil {
		fields = append(fields, FieldError{Field: "discount", Message: err.Error()})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
