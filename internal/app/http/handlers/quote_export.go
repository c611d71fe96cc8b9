package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bitfaber/preventivo/internal/domain/quote"
	"github.com/bitfaber/preventivo/internal/domain/quote/render"
)

// ExportQuotePDF renders the quote's printable document and streams it as
// an attachment. Figures are recomputed from the stored line snapshots,
// never read back from cached totals.
func (h *Handlers) ExportQuotePDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	q, err := h.Quotes.Find(r.Context(), id)
	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "quote not found")
			return
		}
		h.respondStorageError(w, err)
		return
	}

	doc := render.Render(q)
	pdfBytes, err := h.PDF.Generate(doc)
	if err != nil {
		h.Log.Error().Err(err).Str("quote_id", id).Msg("pdf generation failed")
		h.respondError(w, http.StatusInternalServerError, "pdf generation failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename("pdf")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}
