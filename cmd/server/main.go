package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rcampano/vaquita/internal/auth"
	"github.com/rcampano/vaquita/internal/notify"
	"github.com/rcampano/vaquita/internal/server"
	"github.com/rcampano/vaquita/internal/settlement"
	"github.com/rcampano/vaquita/internal/storage/sqlite"
	"github.com/rcampano/vaquita/pkg/logging"
)

const tokenDuration = 24 * time.Hour

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/vaquita.db")
	addr := getEnv("ADDR", ":8080")
	metricsAddr := getEnv("METRICS_ADDR", ":9090")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	hub := notify.New(slog.Default())
	svc := settlement.New(store, hub)

	authn := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(jwtSecret, tokenDuration)

	// Prometheus scrapes a separate listener so the API surface stays
	// clean.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		slog.Info("Metrics server starting", "address", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			slog.Error("Metrics server failed", "error", err)
		}
	}()

	srv := server.New(svc, authn, jwtManager, hub, slog.Default())
	slog.Info("Server starting", "address", addr)
	if err := srv.Listen(addr); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
