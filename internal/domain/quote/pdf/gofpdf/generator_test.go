package gofpdf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitfaber/preventivo/internal/domain/quote/render"
)

func TestGenerateProducesPDF(t *testing.T) {
	doc := render.Document{
		QuoteID: "65f000000000000000000001",
		Lines: []string{
			"Dettagli Preventivo",
			"Cliente: Rossi Impianti",
			"Prezzo Totale (IVA inclusa): 219.6€",
		},
	}

	out, err := New().Generate(doc)
	require.NoError(t, err)
	require.True(t, len(out) > 4)
	require.Equal(t, "%PDF", string(out[:4]))
}
