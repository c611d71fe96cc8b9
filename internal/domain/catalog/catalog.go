// Package catalog holds the customer and product records owned by the
// remote storage service. Quotes copy read-only snapshots out of these at
// selection time.
package catalog

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Address is a customer's billing address.
type Address struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// Customer is a billable party. At least one of TaxCode or VatNumber must
// be present at creation time; the rule is not re-enforced afterwards.
type Customer struct {
	ID             string  `json:"id"`
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          string  `json:"phone" validate:"required"`
	BillingAddress Address `json:"billingAddress"`
	TaxCode        string  `json:"taxCode,omitempty" validate:"required_without=VatNumber"`
	VatNumber      string  `json:"vatNumber,omitempty"`
	CompanyName    string  `json:"companyName,omitempty"`
}

// Validate checks the creation-time constraints.
func (c Customer) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	return validate.Struct(c.BillingAddress)
}

// Product is a catalog entry. TaxRate is restricted to the supported
// brackets plus zero so that quote tax aggregation never drops an amount.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	TaxRate     int     `json:"taxRate" validate:"oneof=0 4 10 22"`
}

// Validate checks the creation-time constraints.
func (p Product) Validate() error {
	return validate.Struct(p)
}
