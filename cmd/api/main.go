package main

import (
	"net/http"
	"os"
	"time"

	"vet-connect/internal/platform/logger"
	"vet-connect/internal/router"

	"github.com/joho/godotenv"
)

// @title VetConnect API
// @version 1.0
// @description Coordinación de servicios veterinarios: citas y alertas SMS.
// @BasePath /api
func main() {
	_ = godotenv.Load() // .env opcional, no falla si no existe

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := router.NewRouter(router.Options{Logger: log})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second, // los envíos SMS secuenciales pueden tardar
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
