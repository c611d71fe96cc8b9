package pdf

import "github.com/bitfaber/preventivo/internal/domain/quote/render"

// Generator lays a rendered document out as a PDF file.
type Generator interface {
	Generate(doc render.Document) ([]byte, error)
}
