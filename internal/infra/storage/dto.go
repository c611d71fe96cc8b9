package storage

import (
	"encoding/json"

	"github.com/bitfaber/preventivo/internal/domain/catalog"
	"github.com/bitfaber/preventivo/internal/domain/pricing"
	"github.com/bitfaber/preventivo/internal/domain/quote"
)

// Wire documents of the legacy storage service: Mongo-style `_id`, product
// price under `price`, tax rate under `iva`, discount kind under
// `discountType` (percent|euro). References inside a quote arrive either
// as a bare id string or as a fully embedded object depending on the
// endpoint, so they decode through the *Ref types below and are never
// assumed to be denormalized.

type addressDoc struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type customerDoc struct {
	ID             string     `json:"_id,omitempty"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	BillingAddress addressDoc `json:"billingAddress"`
	TaxCode        string     `json:"taxCode,omitempty"`
	VatNumber      string     `json:"vatNumber,omitempty"`
	CompanyName    string     `json:"companyName,omitempty"`
}

type productDoc struct {
	ID          string  `json:"_id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Iva         int     `json:"iva"`
}

// customerRef decodes a customer reference that may be a bare id or an
// embedded document. It always encodes as the id, which is what the
// service expects on writes.
type customerRef struct {
	ID  string
	Doc *customerDoc
}

func (r *customerRef) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &r.ID)
	}
	var doc customerDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	r.Doc = &doc
	r.ID = doc.ID
	return nil
}

func (r customerRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// productRef is the product counterpart of customerRef.
type productRef struct {
	ID  string
	Doc *productDoc
}

func (r *productRef) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &r.ID)
	}
	var doc productDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	r.Doc = &doc
	r.ID = doc.ID
	return nil
}

func (r productRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

type quoteLineDoc struct {
	Product  productRef `json:"product"`
	Name     string     `json:"name"`
	Price    float64    `json:"price"`
	Quantity int        `json:"quantity"`
	Iva      int        `json:"iva"`
}

type quoteDoc struct {
	ID           string         `json:"_id,omitempty"`
	Customer     customerRef    `json:"customer"`
	Products     []quoteLineDoc `json:"products"`
	TotalPrice   float64        `json:"totalPrice"`
	Vat22        float64        `json:"vat22"`
	Vat10        float64        `json:"vat10"`
	Vat4         float64        `json:"vat4"`
	Discount     float64        `json:"discount"`
	DiscountType string         `json:"discountType"`
}

func customerToDomain(doc customerDoc) catalog.Customer {
	return catalog.Customer{
		ID:    doc.ID,
		Name:  doc.Name,
		Email: doc.Email,
		Phone: doc.Phone,
		BillingAddress: catalog.Address{
			Street:     doc.BillingAddress.Street,
			City:       doc.BillingAddress.City,
			PostalCode: doc.BillingAddress.PostalCode,
			Country:    doc.BillingAddress.Country,
		},
		TaxCode:     doc.TaxCode,
		VatNumber:   doc.VatNumber,
		CompanyName: doc.CompanyName,
	}
}

func customerFromDomain(c catalog.Customer) customerDoc {
	return customerDoc{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
		BillingAddress: addressDoc{
			Street:     c.BillingAddress.Street,
			City:       c.BillingAddress.City,
			PostalCode: c.BillingAddress.PostalCode,
			Country:    c.BillingAddress.Country,
		},
		TaxCode:     c.TaxCode,
		VatNumber:   c.VatNumber,
		CompanyName: c.CompanyName,
	}
}

func productToDomain(doc productDoc) catalog.Product {
	return catalog.Product{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		UnitPrice:   doc.Price,
		TaxRate:     doc.Iva,
	}
}

func productFromDomain(p catalog.Product) productDoc {
	return productDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.UnitPrice,
		Iva:         p.TaxRate,
	}
}

// quoteToDomain maps a wire quote. The customer is taken from the embedded
// document when present and otherwise left as a bare reference for the
// caller to resolve. Line snapshots come from the stored line fields, not
// from the embedded product, so a catalog change or deletion never leaks
// into an existing quote. Totals are recomputed from the lines rather than
// read back from the document.
func quoteToDomain(doc quoteDoc) quote.Quote {
	q := quote.Quote{
		ID:       doc.ID,
		Customer: catalog.Customer{ID: doc.Customer.ID},
		Discount: pricing.Discount{Amount: doc.Discount, Kind: pricing.DiscountKind(doc.DiscountType)},
	}
	if doc.Customer.Doc != nil {
		q.Customer = customerToDomain(*doc.Customer.Doc)
	}
	for _, line := range doc.Products {
		q.Items = append(q.Items, quote.LineItem{
			ProductID: line.Product.ID,
			Name:      line.Name,
			UnitPrice: line.Price,
			Quantity:  line.Quantity,
			TaxRate:   line.Iva,
		})
	}
	q.Totals = pricing.ComputeTotals(q.Lines(), q.Discount)
	return q
}

func quoteFromSubmission(sub quote.Submission) quoteDoc {
	doc := quoteDoc{
		ID:           sub.ID,
		Customer:     customerRef{ID: sub.CustomerID},
		TotalPrice:   sub.Totals.GrandTotal,
		Vat22:        sub.Totals.Tax22,
		Vat10:        sub.Totals.Tax10,
		Vat4:         sub.Totals.Tax4,
		Discount:     sub.Discount.Amount,
		DiscountType: string(sub.Discount.Kind),
	}
	for _, it := range sub.Items {
		doc.Products = append(doc.Products, quoteLineDoc{
			Product:  productRef{ID: it.ProductID},
			Name:     it.Name,
			Price:    it.UnitPrice,
			Quantity: it.Quantity,
			Iva:      it.TaxRate,
		})
	}
	return doc
}
