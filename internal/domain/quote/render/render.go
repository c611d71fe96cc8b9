// Package render turns a persisted quote into the ordered text lines of
// the printable export. Every figure is recomputed here from the item
// snapshots; cached totals on the quote are never trusted across the
// export boundary.
package render

import (
	"fmt"

	"github.com/bitfaber/preventivo/internal/domain/pricing"
	"github.com/bitfaber/preventivo/internal/domain/quote"
)

// Document is the fully materialized export: the complete line sequence
// (produced before any emission starts) plus the figures derived while
// rendering, kept for callers that need to cross-check them.
type Document struct {
	QuoteID  string
	Subtotal float64 // discounted, pre-tax
	Tax22    float64
	Tax10    float64
	Tax4     float64
	TaxDue   float64
	Total    float64

	Lines []string
}

// Filename returns the export file name for the given extension.
func (d Document) Filename(ext string) string {
	return fmt.Sprintf("quote_%s.%s", d.QuoteID, ext)
}

// Render produces the document for a quote. Line order is fixed: title,
// customer identity, billing address, optional fiscal identifiers,
// itemized products, discount summary when present, per-bracket tax lines
// for non-zero brackets, total tax due, grand total.
//
// The per-line discount rule differs from the pricing engine for flat
// discounts: the engine spreads the discount proportionally to line value,
// the document splits it evenly across lines. Both behaviors are kept on
// purpose; the engine's totals are what gets persisted and listed, the
// document's total is what the printed export shows.
func Render(q quote.Quote) Document {
	d := Document{QuoteID: q.ID}

	d.push("Dettagli Preventivo")
	d.push("Cliente: %s", q.Customer.Name)
	d.push("Email: %s", q.Customer.Email)
	d.push("Telefono: %s", q.Customer.Phone)
	d.push("Indirizzo di Fatturazione:")
	d.push("Via: %s", q.Customer.BillingAddress.Street)
	d.push("Città: %s", q.Customer.BillingAddress.City)
	d.push("Codice Postale: %s", q.Customer.BillingAddress.PostalCode)
	d.push("Paese: %s", q.Customer.BillingAddress.Country)
	if q.Customer.TaxCode != "" {
		d.push("Codice Fiscale: %s", q.Customer.TaxCode)
	}
	if q.Customer.VatNumber != "" {
		d.push("Partita IVA: %s", q.Customer.VatNumber)
	}
	if q.Customer.CompanyName != "" {
		d.push("Ragione Sociale: %s", q.Customer.CompanyName)
	}

	d.push("Prodotti:")
	for i, it := range q.Items {
		lineTotal := it.Line().Total()
		discounted := lineTotal
		var lineDiscount float64
		if q.Discount.Amount > 0 {
			switch q.Discount.Kind {
			case pricing.DiscountPercent:
				lineDiscount = lineTotal * q.Discount.Amount / 100
			case pricing.DiscountFlat:
				lineDiscount = q.Discount.Amount / float64(len(q.Items))
			}
			discounted -= lineDiscount
		}

		tax := discounted * float64(it.TaxRate) / 100
		switch it.TaxRate {
		case 22:
			d.Tax22 += tax
		case 10:
			d.Tax10 += tax
		case 4:
			d.Tax4 += tax
		}
		d.Subtotal += discounted

		line := fmt.Sprintf("%d. %s - Quantità: %d - Prezzo: €%.2f - Totale: €%.2f",
			i+1, it.Name, it.Quantity, it.UnitPrice, lineTotal)
		if q.Discount.Amount > 0 && q.Discount.Kind == pricing.DiscountPercent {
			line += fmt.Sprintf(" - Sconto: %s%% (€%.2f)", trimZeros(q.Discount.Amount), lineDiscount)
		} else if q.Discount.Amount > 0 && q.Discount.Kind == pricing.DiscountFlat {
			line += fmt.Sprintf(" - Sconto: €%.2f", lineDiscount)
		}
		line += fmt.Sprintf(" - IVA: %d%% (€%.2f)", it.TaxRate, tax)
		d.Lines = append(d.Lines, line)
	}

	d.TaxDue = d.Tax22 + d.Tax10 + d.Tax4
	d.Total = d.Subtotal + d.TaxDue

	if q.Discount.Amount > 0 {
		if q.Discount.Kind == pricing.DiscountPercent {
			d.push("Sconto totale applicato: %s%%", trimZeros(q.Discount.Amount))
		} else {
			d.push("Sconto totale applicato: €%.2f", q.Discount.Amount)
		}
	}
	if d.Tax22 > 0 {
		d.push("IVA al 22%%: €%.2f", d.Tax22)
	}
	if d.Tax10 > 0 {
		d.push("IVA al 10%%: €%.2f", d.Tax10)
	}
	if d.Tax4 > 0 {
		d.push("IVA al 4%%: €%.2f", d.Tax4)
	}
	d.push("IVA Totale Dovuta: €%.2f", d.TaxDue)
	d.push("Prezzo Totale (IVA inclusa): €%.2f", d.Total)

	return d
}

func (d *Document) push(format string, args ...any) {
	d.Lines = append(d.Lines, fmt.Sprintf(format, args...))
}

// trimZeros renders a discount percentage the way the form shows it: no
// decimals for whole numbers, two otherwise.
func trimZeros(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
