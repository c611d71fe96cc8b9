package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bitfaber/preventivo/internal/domain/catalog"
)

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		h.respondStorageError(w, err)
		return
	}
	h.respond(w, http.StatusOK, products)
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := decodeJSON(r, &p); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	p.ID = ""
	if err := p.Validate(); err != nil {
		h.respondFields(w, validatorFields(err))
		return
	}
	created, err := h.Store.CreateProduct(r.Context(), p)
	if err != nil {
		h.respondStorageError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, created)
}

// UpdateProduct re-validates: a rate outside the supported brackets would
// silently drop tax on every quote that later snapshots this product.
func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := decodeJSON(r, &p); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	p.ID = chi.URLParam(r, "id")
	if err := p.Validate(); err != nil {
		h.respondFields(w, validatorFields(err))
		return
	}
	updated, err := h.Store.UpdateProduct(r.Context(), p)
	if err != nil {
		h.respondStorageError(w, err)
		return
	}
	h.respond(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
