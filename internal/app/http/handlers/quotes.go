package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bitfaber/preventivo/internal/domain/catalog"
	"github.com/bitfaber/preventivo/internal/domain/pricing"
	"github.com/bitfaber/preventivo/internal/domain/quote"
)

type quoteLineRequest struct {
	Product   string   `json:"product"`
	Quantity  int      `json:"quantity"`
	Name      string   `json:"name,omitempty"`
	UnitPrice *float64 `json:"unitPrice,omitempty"`
	TaxRate   *int     `json:"taxRate,omitempty"`
}

type quoteRequest struct {
	Customer     string             `json:"customer"`
	Products     []quoteLineRequest `json:"products"`
	Discount     float64            `json:"discount"`
	DiscountType string             `json:"discountType"`
}

type quoteItemResponse struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	TaxRate   int     `json:"taxRate"`
}

type quoteTotalsResponse struct {
	Subtotal   float64 `json:"subtotal"`
	Discount   float64 `json:"discount"`
	Tax22      float64 `json:"tax22"`
	Tax10      float64 `json:"tax10"`
	Tax4       float64 `json:"tax4"`
	TaxDue     float64 `json:"taxDue"`
	GrandTotal float64 `json:"grandTotal"`
}

type quoteResponse struct {
	ID           string              `json:"id"`
	Customer     catalog.Customer    `json:"customer"`
	Products     []quoteItemResponse `json:"products"`
	Discount     float64             `json:"discount"`
	DiscountType string              `json:"discountType"`
	Totals       quoteTotalsResponse `json:"totals"`
}

func toQuoteResponse(q quote.Quote) quoteResponse {
	resp := quoteResponse{
		ID:           q.ID,
		Customer:     q.Customer,
		Products:     make([]quoteItemResponse, 0, len(q.Items)),
		Discount:     q.Discount.Amount,
		DiscountType: string(q.Discount.Kind),
		Totals: quoteTotalsResponse{
			Subtotal:   pricing.Round2(q.Totals.Subtotal),
			Discount:   pricing.Round2(q.Totals.Discount),
			Tax22:      pricing.Round2(q.Totals.Tax22),
			Tax10:      pricing.Round2(q.Totals.Tax10),
			Tax4:       pricing.Round2(q.Totals.Tax4),
			TaxDue:     pricing.Round2(q.Totals.TaxDue()),
			GrandTotal: pricing.Round2(q.Totals.GrandTotal),
		},
	}
	for _, it := range q.Items {
		resp.Products = append(resp.Products, quoteItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			TaxRate:   it.TaxRate,
		})
	}
	return resp
}

func toQuoteResponses(quotes []quote.Quote) []quoteResponse {
	out := make([]quoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, toQuoteResponse(q))
	}
	return out
}

// buildDraft turns a request into a draft. Rows are snapshotted from the
// current catalog; snapshot fields sent by the caller win, so an edited
// quote keeps the figures it was created with even if the catalog moved
// on since.
func (h *Handlers) buildDraft(ctx context.Context, id string, req quoteRequest) (*quote.Draft, error) {
	products, err := h.Quotes.Products(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]quote.LineItem, 0, len(req.Products))
	for _, row := range req.Products {
		it := quote.LineItem{ProductID: row.Product, Quantity: row.Quantity}
		if p, ok := byID[row.Product]; ok {
			it.Name = p.Name
			it.UnitPrice = p.UnitPrice
			it.TaxRate = p.TaxRate
		}
		if row.Name != "" {
			it.Name = row.Name
		}
		if row.UnitPrice != nil {
			it.UnitPrice = *row.UnitPrice
		}
		if row.TaxRate != nil {
			it.TaxRate = *row.TaxRate
		}
		items = append(items, it)
	}

	kind := pricing.DiscountKind(req.DiscountType)
	if req.DiscountType == "" {
		kind = pricing.DiscountPercent
	}

	return &quote.Draft{
		ID:         id,
		CustomerID: req.Customer,
		Items:      quote.LineItemsFrom(items),
		Discount:   pricing.Discount{Amount: req.Discount, Kind: kind},
	}, nil
}

func (h *Handlers) submitDraft(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req quoteRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	draft, err := h.buildDraft(r.Context(), id, req)
	if err != nil {
		h.respondStorageError(w, err)
		return
	}

	q, err := h.Quotes.Submit(r.Context(), draft)
	if err != nil {
		var verr *quote.ValidationError
		if errors.As(err, &verr) {
			h.respondFields(w, verr.Fields)
			return
		}
		h.respondStorageError(w, err)
		return
	}
	h.respond(w, status, toQuoteResponse(q))
}

func (h *Handlers) ListQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.Quotes.Load(r.Context())
	if err != nil {
		h.respondStorageError(w, err)
		return
	}
	h.respond(w, http.StatusOK, toQuoteResponses(quotes))
}

func (h *Handlers) CreateQuote(w http.ResponseWriter, r *http.Request) {
	h.submitDraft(w, r, "", http.StatusCreated)
}

func (h *Handlers) UpdateQuote(w http.ResponseWriter, r *http.Request) {
	h.submitDraft(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (h *Handlers) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	if err := h.Quotes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
