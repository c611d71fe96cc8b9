// storaged runs the in-memory storage stand-in. It speaks the same wire
// dialect as the real storage service, so the API can be pointed at it
// during local development:
//
//	storaged -addr :5000 -seed
//	STORAGE_URL=http://localhost:5000 api
package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/bitfaber/preventivo/internal/infra/storage/memstore"
	"github.com/bitfaber/preventivo/internal/obs"
)

func main() {
	addr := flag.String("addr", ":5000", "listen address")
	seed := flag.Bool("seed", false, "preload a small demo catalog")
	flag.Parse()

	log := obs.NewLogger("console", "debug")

	store := memstore.New()
	if *seed {
		store.Seed()
		log.Info().Msg("demo catalog seeded")
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           store.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", *addr).Msg("storaged listening")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
