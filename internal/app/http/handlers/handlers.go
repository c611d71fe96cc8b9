// Package handlers implements the HTTP surface: catalog CRUD proxied to
// the storage service, quote composition and submission, and the PDF
// export.
package handlers

import (
	"github.com/rs/zerolog"

	"github.com/bitfaber/preventivo/internal/domain/quote"
	"github.com/bitfaber/preventivo/internal/domain/quote/pdf"
	"github.com/bitfaber/preventivo/internal/infra/storage"
)

type Handlers struct {
	Store  *storage.Client
	Quotes *quote.Service
	PDF    pdf.Generator
	Log    zerolog.Logger
}

func New(store *storage.Client, quotes *quote.Service, gen pdf.Generator, log zerolog.Logger) *Handlers {
	return &Handlers{
		Store:  store,
		Quotes: quotes,
		PDF:    gen,
		Log:    log,
	}
}
