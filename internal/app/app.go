package app

import (
	"net/http"
	"time"

	"github.com/bitfaber/preventivo/internal/app/config"
	apphttp "github.com/bitfaber/preventivo/internal/app/http"
	"github.com/bitfaber/preventivo/internal/app/http/handlers"
	"github.com/bitfaber/preventivo/internal/domain/quote"
	pdfgen "github.com/bitfaber/preventivo/internal/domain/quote/pdf/gofpdf"
	"github.com/bitfaber/preventivo/internal/infra/storage"
	"github.com/bitfaber/preventivo/internal/obs"
)

func Run() {
	cfg := config.MustLoad()
	log := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)

	store := storage.NewClient(cfg.StorageURL, log)
	quotes := quote.NewService(store, log)
	h := handlers.New(store, quotes, pdfgen.New(), log)

	router := apphttp.NewRouter(cfg, log, h)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", cfg.HTTPAddr).Str("storage_url", cfg.StorageURL).Msg("listening")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
