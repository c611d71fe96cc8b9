package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/bitfaber/preventivo/internal/app/config"
	apphttp "github.com/bitfaber/preventivo/internal/app/http"
	"github.com/bitfaber/preventivo/internal/app/http/handlers"
	"github.com/bitfaber/preventivo/internal/domain/quote"
	pdfgen "github.com/bitfaber/preventivo/internal/domain/quote/pdf/gofpdf"
	"github.com/bitfaber/preventivo/internal/infra/storage"
	"github.com/bitfaber/preventivo/internal/infra/storage/memstore"
)

func newTestServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()

	backend := httptest.NewServer(memstore.New().Handler())
	t.Cleanup(backend.Close)

	log := zerolog.Nop()
	client := storage.NewClient(backend.URL, log)
	svc := quote.NewService(client, log)
	h := handlers.New(client, svc, pdfgen.New(), log)

	api := httptest.NewServer(apphttp.NewRouter(cfg, log, h))
	t.Cleanup(api.Close)
	return api
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

type errorBody struct {
	Error  string `json:"error"`
	Fields []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
}

func fieldNames(e errorBody) []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

type quoteBody struct {
	ID       string `json:"id"`
	Customer struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"customer"`
	Products []struct {
		ProductID string  `json:"productId"`
		Name      string  `json:"name"`
		UnitPrice float64 `json:"unitPrice"`
		Quantity  int     `json:"quantity"`
		TaxRate   int     `json:"taxRate"`
	} `json:"products"`
	Discount     float64 `json:"discount"`
	DiscountType string  `json:"discountType"`
	Totals       struct {
		Subtotal   float64 `json:"subtotal"`
		Discount   float64 `json:"discount"`
		Tax22      float64 `json:"tax22"`
		Tax10      float64 `json:"tax10"`
		Tax4       float64 `json:"tax4"`
		TaxDue     float64 `json:"taxDue"`
		GrandTotal float64 `json:"grandTotal"`
	} `json:"totals"`
}

func createCustomer(t *testing.T, base string) string {
	t.Helper()
	resp, raw := doJSON(t, http.MethodPost, base+"/v1/customers", map[string]any{
		"name":  "Rossi Impianti",
		"email": "info@rossi-impianti.it",
		"phone": "0712345678",
		"billingAddress": map[string]string{
			"street": "Via Garibaldi 12", "city": "Ancona", "postalCode": "60121", "country": "Italia",
		},
		"vatNumber": "IT01234567890",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func createProduct(t *testing.T, base, name string, price float64, rate int) string {
	t.Helper()
	resp, raw := doJSON(t, http.MethodPost, base+"/v1/products", map[string]any{
		"name": name, "description": name, "unitPrice": price, "taxRate": rate,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))
	return created.ID
}

func TestHealth(t *testing.T) {
	api := newTestServer(t, config.Config{})
	resp, _ := doJSON(t, http.MethodGet, api.URL+"/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCustomerCRUD(t *testing.T) {
	api := newTestServer(t, config.Config{})

	// Missing email and fiscal identifiers must be rejected field by field.
	resp, raw := doJSON(t, http.MethodPost, api.URL+"/v1/customers", map[string]any{
		"name":  "Senza Email",
		"phone": "0712345678",
		"billingAddress": map[string]string{
			"street": "Via Roma 1", "city": "Ancona", "postalCode": "60121", "country": "Italia",
		},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp errorBody
	require.NoError(t, json.Unmarshal(raw, &errResp))
	require.Contains(t, fieldNames(errResp), "email")
	require.Contains(t, fieldNames(errResp), "taxCode")

	id := createCustomer(t, api.URL)

	resp, raw = doJSON(t, http.MethodGet, api.URL+"/v1/customers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(raw, &listed))
	require.Len(t, listed, 1)

	resp, raw = doJSON(t, http.MethodPut, api.URL+"/v1/customers/"+id, map[string]any{
		"name":  "Rossi Impianti",
		"email": "info@rossi-impianti.it",
		"phone": "0719999999",
		"billingAddress": map[string]string{
			"street": "Via Garibaldi 12", "city": "Ancona", "postalCode": "60121", "country": "Italia",
		},
		"vatNumber": "IT01234567890",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated map[string]any
	require.NoError(t, json.Unmarshal(raw, &updated))
	require.Equal(t, "0719999999", updated["phone"])

	resp, _ = doJSON(t, http.MethodDelete, api.URL+"/v1/customers/"+id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, api.URL+"/v1/customers/"+id, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductTaxRateWhitelist(t *testing.T) {
	api := newTestServer(t, config.Config{})

	resp, raw := doJSON(t, http.MethodPost, api.URL+"/v1/products", map[string]any{
		"name": "Aliquota strana", "description": "test", "unitPrice": 10.0, "taxRate": 21,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp errorBody
	require.NoError(t, json.Unmarshal(raw, &errResp))
	require.Contains(t, fieldNames(errResp), "taxRate")
}

func TestQuoteLifecycle(t *testing.T) {
	api := newTestServer(t, config.Config{})
	custID := createCustomer(t, api.URL)
	prodID := createProduct(t, api.URL, "Quadro elettrico 24M", 100, 22)

	resp, raw := doJSON(t, http.MethodPost, api.URL+"/v1/quotes", map[string]any{
		"customer":     custID,
		"products":     []map[string]any{{"product": prodID, "quantity": 2}},
		"discount":     10,
		"discountType": "percent",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created quoteBody
	require.NoError(t, json.Unmarshal(raw, &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Rossi Impianti", created.Customer.Name)
	require.Equal(t, "Quadro elettrico 24M", created.Products[0].Name)
	require.InDelta(t, 200, created.Totals.Subtotal, 0.001)
	require.InDelta(t, 20, created.Totals.Discount, 0.001)
	require.InDelta(t, 39.6, created.Totals.Tax22, 0.001)
	require.InDelta(t, 219.6, created.Totals.GrandTotal, 0.001)

	resp, raw = doJSON(t, http.MethodGet, api.URL+"/v1/quotes", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []quoteBody
	require.NoError(t, json.Unmarshal(raw, &listed))
	require.Len(t, listed, 1)
	require.Equal(t, created.ID, listed[0].ID)

	resp, raw = doJSON(t, http.MethodPut, api.URL+"/v1/quotes/"+created.ID, map[string]any{
		"customer":     custID,
		"products":     []map[string]any{{"product": prodID, "quantity": 3}},
		"discount":     10,
		"discountType": "percent",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var updated quoteBody
	require.NoError(t, json.Unmarshal(raw, &updated))
	require.Equal(t, created.ID, updated.ID)
	require.InDelta(t, 329.4, updated.Totals.GrandTotal, 0.001)

	resp, _ = doJSON(t, http.MethodDelete, api.URL+"/v1/quotes/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, api.URL+"/v1/quotes/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestQuoteValidationFields(t *testing.T) {
	api := newTestServer(t, config.Config{})

	resp, raw := doJSON(t, http.MethodPost, api.URL+"/v1/quotes", map[string]any{
		"products":     []map[string]any{},
		"discount":     0,
		"discountType": "percent",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp errorBody
	require.NoError(t, json.Unmarshal(raw, &errResp))
	require.Equal(t, "validation failed", errResp.Error)
	names := fieldNames(errResp)
	require.Contains(t, names, "customer")
	require.Contains(t, names, "products[0].product")
}

func TestQuoteEditKeepsSnapshot(t *testing.T) {
	api := newTestServer(t, config.Config{})
	custID := createCustomer(t, api.URL)
	prodID := createProduct(t, api.URL, "Punto luce", 45, 10)

	resp, raw := doJSON(t, http.MethodPost, api.URL+"/v1/quotes", map[string]any{
		"customer":     custID,
		"products":     []map[string]any{{"product": prodID, "quantity": 4}},
		"discount":     0,
		"discountType": "percent",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created quoteBody
	require.NoError(t, json.Unmarshal(raw, &created))

	// The catalog price moves on, but the edit resubmits the original
	// snapshot, which must win over the current catalog entry.
	resp, _ = doJSON(t, http.MethodPut, api.URL+"/v1/products/"+prodID, map[string]any{
		"name": "Punto luce", "description": "Punto luce", "unitPrice": 60.0, "taxRate": 10,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = doJSON(t, http.MethodPut, api.URL+"/v1/quotes/"+created.ID, map[string]any{
		"customer": custID,
		"products": []map[string]any{{
			"product": prodID, "quantity": 4, "name": "Punto luce", "unitPrice": 45.0, "taxRate": 10,
		}},
		"discount":     0,
		"discountType": "percent",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated quoteBody
	require.NoError(t, json.Unmarshal(raw, &updated))
	require.Equal(t, 45.0, updated.Products[0].UnitPrice)
	require.InDelta(t, 180, updated.Totals.Subtotal, 0.001)
}

func TestQuotePDFExport(t *testing.T) {
	api := newTestServer(t, config.Config{})
	custID := createCustomer(t, api.URL)
	prodID := createProduct(t, api.URL, "Montascale", 2500, 4)

	resp, raw := doJSON(t, http.MethodPost, api.URL+"/v1/quotes", map[string]any{
		"customer":     custID,
		"products":     []map[string]any{{"product": prodID, "quantity": 1}},
		"discount":     0,
		"discountType": "percent",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created quoteBody
	require.NoError(t, json.Unmarshal(raw, &created))

	resp, raw = doJSON(t, http.MethodGet, api.URL+"/v1/quotes/"+created.ID+"/pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), "quote_"+created.ID+".pdf")
	require.True(t, bytes.HasPrefix(raw, []byte("%PDF")), "body must be a pdf")

	resp, _ = doJSON(t, http.MethodGet, api.URL+"/v1/quotes/unknown/pdf", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInternalToken(t *testing.T) {
	api := newTestServer(t, config.Config{InternalToken: "s3cret"})

	resp, _ := doJSON(t, http.MethodGet, api.URL+"/v1/customers", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, api.URL+"/v1/customers", nil)
	require.NoError(t, err)
	req.Header.Set("X-Internal-Token", "s3cret")
	authed, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer authed.Body.Close()
	require.Equal(t, http.StatusOK, authed.StatusCode)

	// Health stays open for probes.
	resp, _ = doJSON(t, http.MethodGet, api.URL+"/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
