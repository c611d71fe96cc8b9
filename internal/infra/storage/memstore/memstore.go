// Package memstore is an in-memory stand-in for the remote storage
// service, speaking its wire dialect (`_id`, `price`/`iva`, id-or-object
// references). It backs cmd/storaged for local development and the
// integration tests.
package memstore

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Customer mirrors the service's customer document.
type Customer struct {
	ID             string  `json:"_id,omitempty"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	BillingAddress Address `json:"billingAddress"`
	TaxCode        string  `json:"taxCode,omitempty"`
	VatNumber      string  `json:"vatNumber,omitempty"`
	CompanyName    string  `json:"companyName,omitempty"`
}

// Address mirrors the billing address block.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Product mirrors the service's product document.
type Product struct {
	ID          string  `json:"_id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Iva         int     `json:"iva"`
}

type quoteLine struct {
	Product  string  `json:"product"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Iva      int     `json:"iva"`
}

type quoteRecord struct {
	ID           string      `json:"_id,omitempty"`
	Customer     string      `json:"customer"`
	Products     []quoteLine `json:"products"`
	TotalPrice   float64     `json:"totalPrice"`
	Vat22        float64     `json:"vat22"`
	Vat10        float64     `json:"vat10"`
	Vat4         float64     `json:"vat4"`
	Discount     float64     `json:"discount"`
	DiscountType string      `json:"discountType"`
}

// Store holds the in-memory collections.
type Store struct {
	mu        sync.Mutex
	seq       uint64
	customers map[string]Customer
	products  map[string]Product
	quotes    map[string]quoteRecord
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		customers: make(map[string]Customer),
		products:  make(map[string]Product),
		quotes:    make(map[string]quoteRecord),
	}
}

// newID mints an ObjectId-style 24-char hex id: unix seconds, a process
// sequence, random tail. Lexicographic order follows creation order.
func (s *Store) newID() string {
	s.seq++
	u := uuid.New()
	return fmt.Sprintf("%08x%06x%s", time.Now().Unix(), s.seq&0xffffff, hex.EncodeToString(u[:5]))
}

// Seed loads a small Italian catalog, handy when running storaged locally.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range []Customer{
		{
			Name: "Rossi Impianti", Email: "info@rossi-impianti.it", Phone: "0712345678",
			BillingAddress: Address{Street: "Via Garibaldi 12", City: "Ancona", PostalCode: "60121", Country: "Italia"},
			VatNumber:      "IT01234567890", CompanyName: "Rossi Impianti SRL",
		},
		{
			Name: "Mario Bianchi", Email: "mario.bianchi@example.it", Phone: "3339876543",
			BillingAddress: Address{Street: "Corso Mazzini 4", City: "Jesi", PostalCode: "60035", Country: "Italia"},
			TaxCode:        "BNCMRA75C10E388V",
		},
	} {
		c.ID = s.newID()
		s.customers[c.ID] = c
	}
	for _, p := range []Product{
		{Name: "Quadro elettrico 24M", Description: "Quadro da incasso 24 moduli", Price: 189.9, Iva: 22},
		{Name: "Punto luce", Description: "Punto luce a parete completo", Price: 45, Iva: 10},
		{Name: "Montascale", Description: "Installazione montascale", Price: 2500, Iva: 4},
	} {
		p.ID = s.newID()
		s.products[p.ID] = p
	}
}

// Handler serves the storage REST API.
func (s *Store) Handler() http.Handler {
	r := chi.NewRouter()

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", s.listCustomers)
		r.Post("/", s.createCustomer)
		r.Put("/{id}", s.updateCustomer)
		r.Delete("/{id}", s.deleteCustomer)
	})
	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.listProducts)
		r.Post("/", s.createProduct)
		r.Put("/{id}", s.updateProduct)
		r.Delete("/{id}", s.deleteProduct)
	})
	r.Route("/quotes", func(r chi.Router) {
		r.Get("/", s.listQuotes)
		r.Post("/", s.createQuote)
		r.Put("/{id}", s.updateQuote)
		r.Delete("/{id}", s.deleteQuote)
	})

	return r
}

func (s *Store) listCustomers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Store) createCustomer(w http.ResponseWriter, r *http.Request) {
	var c Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	c.ID = s.newID()
	s.customers[c.ID] = c
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, c)
}

func (s *Store) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var c Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[id]; !ok {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	c.ID = id
	s.customers[id] = c
	writeJSON(w, http.StatusOK, c)
}

func (s *Store) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[id]; !ok {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	delete(s.customers, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Store) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Store) createProduct(w http.ResponseWriter, r *http.Request) {
	var p Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	p.ID = s.newID()
	s.products[p.ID] = p
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, p)
}

func (s *Store) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var p Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	p.ID = id
	s.products[id] = p
	writeJSON(w, http.StatusOK, p)
}

func (s *Store) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	delete(s.products, id)
	w.WriteHeader(http.StatusNoContent)
}

// listQuotes denormalizes references the way the real service does:
// embedded objects where the referenced document still exists, a bare id
// string where it has been deleted in the meantime.
func (s *Store) listQuotes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	records := make([]quoteRecord, 0, len(s.quotes))
	for _, q := range s.quotes {
		records = append(records, q)
	}
	views := make([]map[string]any, 0, len(records))
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	for _, q := range records {
		views = append(views, s.denormalize(q))
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, views)
}

func (s *Store) denormalize(q quoteRecord) map[string]any {
	var customer any = q.Customer
	if c, ok := s.customers[q.Customer]; ok {
		customer = c
	}
	lines := make([]map[string]any, 0, len(q.Products))
	for _, line := range q.Products {
		var product any = line.Product
		if p, ok := s.products[line.Product]; ok {
			product = p
		}
		lines = append(lines, map[string]any{
			"product":  product,
			"name":     line.Name,
			"price":    line.Price,
			"quantity": line.Quantity,
			"iva":      line.Iva,
		})
	}
	return map[string]any{
		"_id":          q.ID,
		"customer":     customer,
		"products":     lines,
		"totalPrice":   q.TotalPrice,
		"vat22":        q.Vat22,
		"vat10":        q.Vat10,
		"vat4":         q.Vat4,
		"discount":     q.Discount,
		"discountType": q.DiscountType,
	}
}

func (s *Store) createQuote(w http.ResponseWriter, r *http.Request) {
	var q quoteRecord
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	q.ID = s.newID()
	s.quotes[q.ID] = q
	s.mu.Unlock()
	// Creation answers with the stored record, references undenormalized.
	writeJSON(w, http.StatusCreated, q)
}

// updateQuote replies with a partial document (id and totals only), which
// is what forces clients to rebuild the full representation locally.
func (s *Store) updateQuote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var q quoteRecord
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quotes[id]; !ok {
		writeError(w, http.StatusNotFound, "quote not found")
		return
	}
	q.ID = id
	s.quotes[id] = q
	writeJSON(w, http.StatusOK, map[string]any{
		"_id":        q.ID,
		"totalPrice": q.TotalPrice,
	})
}

func (s *Store) deleteQuote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quotes[id]; !ok {
		writeError(w, http.StatusNotFound, "quote not found")
		return
	}
	delete(s.quotes, id)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
