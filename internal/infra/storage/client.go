// Package storage is the HTTP client for the remote storage service that
// owns all persistence: customers, products and quotes behind a REST API.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bitfaber/preventivo/internal/domain/catalog"
	"github.com/bitfaber/preventivo/internal/domain/quote"
)

// StatusError is a non-2xx reply from the storage service. Body carries
// at most the first 2 KiB of the response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("storage status %d: %s", e.Status, e.Body)
}

// Client talks to the storage service. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient constructs a Client for the given base URL, e.g.
// http://localhost:5000/api.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Int64("duration_ms", time.Since(started).Milliseconds()).
		Msg("storage_request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ListCustomers fetches the customer catalog.
func (c *Client) ListCustomers(ctx context.Context) ([]catalog.Customer, error) {
	var docs []customerDoc
	if err := c.do(ctx, http.MethodGet, "/customers", nil, &docs); err != nil {
		return nil, err
	}
	customers := make([]catalog.Customer, 0, len(docs))
	for _, doc := range docs {
		customers = append(customers, customerToDomain(doc))
	}
	return customers, nil
}

// CreateCustomer persists a new customer and returns it with its id.
func (c *Client) CreateCustomer(ctx context.Context, cust catalog.Customer) (catalog.Customer, error) {
	doc := customerFromDomain(cust)
	doc.ID = ""
	var created customerDoc
	if err := c.do(ctx, http.MethodPost, "/customers", doc, &created); err != nil {
		return catalog.Customer{}, err
	}
	return customerToDomain(created), nil
}

// UpdateCustomer replaces the customer with the given id.
func (c *Client) UpdateCustomer(ctx context.Context, cust catalog.Customer) (catalog.Customer, error) {
	var updated customerDoc
	if err := c.do(ctx, http.MethodPut, "/customers/"+cust.ID, customerFromDomain(cust), &updated); err != nil {
		return catalog.Customer{}, err
	}
	return customerToDomain(updated), nil
}

// DeleteCustomer removes the customer with the given id.
func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/customers/"+id, nil, nil)
}

// ListProducts fetches the product catalog.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var docs []productDoc
	if err := c.do(ctx, http.MethodGet, "/products", nil, &docs); err != nil {
		return nil, err
	}
	products := make([]catalog.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, productToDomain(doc))
	}
	return products, nil
}

// CreateProduct persists a new product and returns it with its id.
func (c *Client) CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	doc := productFromDomain(p)
	doc.ID = ""
	var created productDoc
	if err := c.do(ctx, http.MethodPost, "/products", doc, &created); err != nil {
		return catalog.Product{}, err
	}
	return productToDomain(created), nil
}

// UpdateProduct replaces the product with the given id.
func (c *Client) UpdateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	var updated productDoc
	if err := c.do(ctx, http.MethodPut, "/products/"+p.ID, productFromDomain(p), &updated); err != nil {
		return catalog.Product{}, err
	}
	return productToDomain(updated), nil
}

// DeleteProduct removes the product with the given id.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id, nil, nil)
}

// ListQuotes fetches all quotes. The service denormalizes customer and
// product references on this endpoint, but nothing is assumed: whatever
// shape comes back decodes through the ref types.
func (c *Client) ListQuotes(ctx context.Context) ([]quote.Quote, error) {
	var docs []quoteDoc
	if err := c.do(ctx, http.MethodGet, "/quotes", nil, &docs); err != nil {
		return nil, err
	}
	quotes := make([]quote.Quote, 0, len(docs))
	for _, doc := range docs {
		quotes = append(quotes, quoteToDomain(doc))
	}
	return quotes, nil
}

// CreateQuote persists a draft submission and returns the stored quote.
func (c *Client) CreateQuote(ctx context.Context, sub quote.Submission) (quote.Quote, error) {
	doc := quoteFromSubmission(sub)
	doc.ID = ""
	var created quoteDoc
	if err := c.do(ctx, http.MethodPost, "/quotes", doc, &created); err != nil {
		return quote.Quote{}, err
	}
	return quoteToDomain(created), nil
}

// UpdateQuote full-replaces the quote. The response may be partial; the
// caller merges it with the submitted values.
func (c *Client) UpdateQuote(ctx context.Context, sub quote.Submission) (quote.Quote, error) {
	var updated quoteDoc
	if err := c.do(ctx, http.MethodPut, "/quotes/"+sub.ID, quoteFromSubmission(sub), &updated); err != nil {
		return quote.Quote{}, err
	}
	return quoteToDomain(updated), nil
}

// DeleteQuote removes the quote with the given id.
func (c *Client) DeleteQuote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/quotes/"+id, nil, nil)
}
