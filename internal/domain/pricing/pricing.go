package pricing

import "errors"

var (
	// ErrNegativeDiscount is returned when the discount amount is below zero.
	ErrNegativeDiscount = errors.New("discount cannot be negative")
	// ErrPercentTooLarge is returned when a percent discount exceeds 100.
	ErrPercentTooLarge = errors.New("percent discount cannot exceed 100")
	// ErrFlatExceedsSubtotal is returned when a flat discount is larger than
	// the current pre-discount subtotal.
	ErrFlatExceedsSubtotal = errors.New("flat discount cannot exceed the subtotal")
	// ErrUnknownDiscountKind is returned for discount kinds other than
	// percent or euro.
	ErrUnknownDiscountKind = errors.New("unknown discount kind")
)

// DiscountKind tags how a discount amount is interpreted.
type DiscountKind string

const (
	DiscountPercent DiscountKind = "percent"
	DiscountFlat    DiscountKind = "euro"
)

// Discount is a quote-level reduction, either a percentage of the subtotal
// or a flat euro amount.
type Discount struct {
	Amount float64
	Kind   DiscountKind
}

// Validate checks the discount against the current pre-discount subtotal.
// A flat discount depends on the subtotal, so callers must re-validate
// whenever the line items change, not only at submit time.
func (d Discount) Validate(subtotal float64) error {
	if d.Amount < 0 {
		return ErrNegativeDiscount
	}
	switch d.Kind {
	case DiscountPercent:
		if d.Amount > 100 {
			return ErrPercentTooLarge
		}
	case DiscountFlat:
		if d.Amount > subtotal {
			return ErrFlatExceedsSubtotal
		}
	default:
		return ErrUnknownDiscountKind
	}
	return nil
}

// Value resolves the discount into a euro amount for the given subtotal.
// No clamping happens here: an invalid discount produces an inconsistent
// result, validation is the caller's responsibility.
func (d Discount) Value(subtotal float64) float64 {
	switch d.Kind {
	case DiscountPercent:
		return subtotal * d.Amount / 100
	case DiscountFlat:
		return d.Amount
	}
	return 0
}

// Line is the priced view of one quote row: the unit price and tax rate
// snapshotted at product selection time, plus the chosen quantity.
type Line struct {
	UnitPrice float64
	Quantity  int
	TaxRate   int
}

// Total returns the undiscounted line amount.
func (l Line) Total() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Totals is derived from (lines, discount) and never mutated on its own.
type Totals struct {
	Subtotal   float64 // before discount
	Discount   float64 // resolved euro value
	Tax22      float64
	Tax10      float64
	Tax4       float64
	GrandTotal float64
}

// TaxDue is the sum of the three bracket amounts.
func (t Totals) TaxDue() float64 {
	return t.Tax22 + t.Tax10 + t.Tax4
}

// ComputeTotals derives the quote totals from the lines and the discount.
// The discount is spread across tax brackets with a uniform ratio
// discount/subtotal, so every bracket is reduced proportionally. Rates
// other than 22, 10 and 4 accumulate into no bracket; product creation
// restricts rates to {0,4,10,22} so only legacy data can hit that path.
func ComputeTotals(lines []Line, d Discount) Totals {
	var t Totals
	for _, l := range lines {
		t.Subtotal += l.Total()
	}

	t.Discount = d.Value(t.Subtotal)

	ratio := 0.0
	if t.Subtotal > 0 {
		ratio = t.Discount / t.Subtotal
	}

	for _, l := range lines {
		taxed := l.Total() * (float64(l.TaxRate) / 100) * (1 - ratio)
		switch l.TaxRate {
		case 22:
			t.Tax22 += taxed
		case 10:
			t.Tax10 += taxed
		case 4:
			t.Tax4 += taxed
		}
	}

	t.GrandTotal = (t.Subtotal - t.Discount) + t.Tax22 + t.Tax10 + t.Tax4
	return t
}
