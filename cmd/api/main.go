package main

import (
	"net/http"
	"os"
	"time"

	"pet-market/internal/adapters/auth/odin"
	"pet-market/internal/platform/logger"
	"pet-market/internal/ports/auth"
	"pet-market/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Verifier solo si Odin está configurado; sin Odin queda modo dev
	// (X-Debug-User-ID).
	var verifier auth.AuthVerifier
	if baseURL := os.Getenv("ODIN_BASE_URL"); baseURL != "" {
		client, err := odin.NewClient(odin.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("ODIN_API_KEY"),
		})
		if err != nil {
			log.Error("odin config invalid", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		verifier = odin.NewVerifier(client)
		log.Info("auth: odin verifier", map[string]any{"base_url": baseURL})
	} else {
		log.Warn("auth: dev mode (no verifier)", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Log:          log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
