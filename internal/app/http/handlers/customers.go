package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bitfaber/preventivo/internal/domain/catalog"
)

func (h *Handlers) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Store.ListCustomers(r.Context())
	if err != nil {
		h.respondStorageError(w, err)
		return
	}
	h.respond(w, http.StatusOK, customers)
}

func (h *Handlers) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var c catalog.Customer
	if err := decodeJSON(r, &c); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	c.ID = ""
	if err := c.Validate(); err != nil {
		h.respondFields(w, validatorFields(err))
		return
	}
	created, err := h.Store.CreateCustomer(r.Context(), c)
	if err != nil {
		h.respondStorageError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, created)
}

// UpdateCustomer full-replaces the customer. The taxCode/vatNumber rule is
// a creation-time constraint and is not re-enforced here.
func (h *Handlers) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var c catalog.Customer
	if err := decodeJSON(r, &c); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	c.ID = chi.URLParam(r, "id")
	updated, err := h.Store.UpdateCustomer(r.Context(), c)
	if err != nil {
		h.respondStorageError(w, err)
		return
	}
	h.respond(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
