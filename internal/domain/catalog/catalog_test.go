package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validCustomer() Customer {
	return Customer{
		Name:  "Rossi Impianti",
		Email: "info@rossi-impianti.it",
		Phone: "3331234567",
		BillingAddress: Address{
			Street:     "Via Garibaldi 12",
			City:       "Ancona",
			PostalCode: "60121",
			Country:    "Italia",
		},
		VatNumber: "IT01234567890",
	}
}

func TestCustomerValidate(t *testing.T) {
	require.NoError(t, validCustomer().Validate())
}

func TestCustomerRequiresTaxCodeOrVatNumber(t *testing.T) {
	c := validCustomer()
	c.VatNumber = ""
	c.TaxCode = ""
	require.Error(t, c.Validate())

	c.TaxCode = "RSSMRA80A01A271K"
	require.NoError(t, c.Validate())
}

func TestCustomerRequiresBillingAddress(t *testing.T) {
	c := validCustomer()
	c.BillingAddress.City = ""
	require.Error(t, c.Validate())
}

func TestProductValidate(t *testing.T) {
	p := Product{Name: "Quadro elettrico", Description: "Quadro 24 moduli", UnitPrice: 189.9, TaxRate: 22}
	require.NoError(t, p.Validate())

	p.TaxRate = 21
	require.Error(t, p.Validate(), "unsupported tax rate must be rejected at creation")

	p.TaxRate = 0
	require.NoError(t, p.Validate())

	p.UnitPrice = -1
	require.Error(t, p.Validate())
}
