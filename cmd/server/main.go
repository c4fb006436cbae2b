package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/quizdrill/backend/internal/api"
	"github.com/quizdrill/backend/internal/domain/quiz"
	"github.com/quizdrill/backend/internal/explainer"
	"github.com/quizdrill/backend/internal/infrastructure/config"
	"github.com/quizdrill/backend/internal/service"
	"github.com/quizdrill/backend/internal/simulation"
	"github.com/quizdrill/backend/internal/store"
	"github.com/quizdrill/backend/internal/worker"
)

// @title           QuizDrill API
// @version         1.0
// @description     Self-study quiz backend — organize questions into decks, drill them with fuzzy answer matching, and track mastery per topic.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if cfg.Simulate {
		simulation.Run(logger)
		return
	}

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	pool := worker.NewPool(3, 16)
	defer pool.Close()

	sessions := service.NewSessionService(db, pool, logger)

	var explain explainer.Explainer
	if cfg.LLMURL != "" {
		explain = explainer.NewOllamaExplainer(cfg.LLMURL, cfg.LLMModel)
	}

	defaultCfg := quiz.Config{
		Threshold:     cfg.MatchThreshold,
		Shuffle:       cfg.Shuffle,
		PracticeCount: cfg.PracticeCount,
	}
	handler := api.NewHandler(db, sessions, explain, defaultCfg, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
