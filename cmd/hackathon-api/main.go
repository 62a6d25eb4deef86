// main is the entry point of the hackathon registration API.
//
// Startup sequence:
//  1. Load .env (if present) and the YAML configuration
//  2. Initialise the logger
//  3. Open the SQLite database
//  4. Build the verifier and stats aggregator
//  5. Register routes and start the HTTP server in a goroutine
//  6. Block until an OS signal, then shut down gracefully
//
// Running locally:
//
//	go run ./cmd/hackathon-api --config=config/local.yaml
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hackfest-dev/hackathon-api/internal/config"
	"github.com/hackfest-dev/hackathon-api/internal/http/handlers/participant"
	"github.com/hackfest-dev/hackathon-api/internal/http/handlers/profile"
	"github.com/hackfest-dev/hackathon-api/internal/http/middleware"
	"github.com/hackfest-dev/hackathon-api/internal/stats"
	"github.com/hackfest-dev/hackathon-api/internal/storage/sqlite"
	"github.com/hackfest-dev/hackathon-api/internal/validation"
	"github.com/hackfest-dev/hackathon-api/internal/verify"
)

func main() {
	// A missing .env is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting hackathon-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	store, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("storage initialised", slog.String("path", cfg.StoragePath))

	engine := validation.New()
	verifier := verify.New(cfg.Verifier)
	aggregator := stats.New(store)

	router := http.NewServeMux()

	router.HandleFunc("GET /api/participants", participant.GetList(store))
	router.HandleFunc("POST /api/participants", participant.New(store, engine))
	router.HandleFunc("POST /api/participants/validate", participant.ValidateSection(engine))
	router.HandleFunc("GET /api/participants/{id}", participant.GetByID(store))
	router.HandleFunc("PUT /api/participants/{id}", participant.Update(store, engine))
	router.HandleFunc("DELETE /api/participants/{id}", participant.Delete(store))
	router.HandleFunc("PUT /api/participants/{id}/verify", participant.VerifyStatus(store))
	router.HandleFunc("GET /api/stats", participant.GetStats(aggregator))
	router.HandleFunc("POST /api/profiles/verify", profile.Verify(verifier))

	router.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hackathon Registration API is running"))
	})

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: middleware.Logger(middleware.CORS(router)),

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a slog.Logger for the environment: readable text
// in dev, JSON for log aggregation elsewhere.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	case "staging":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
}
