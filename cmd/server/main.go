package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/prepquest/prepquest-backend/internal/config"
	"github.com/prepquest/prepquest-backend/internal/handler"
	"github.com/prepquest/prepquest-backend/internal/logger"
	"github.com/prepquest/prepquest-backend/internal/model"
	"github.com/prepquest/prepquest-backend/internal/quest"
	"github.com/prepquest/prepquest-backend/internal/router"
	"github.com/prepquest/prepquest-backend/internal/session"
	"github.com/prepquest/prepquest-backend/internal/store"
	"github.com/prepquest/prepquest-backend/internal/validator"
	"github.com/prepquest/prepquest-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting PrepQuest Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Open History Store ────────────────────────────────────────────
	st, err := store.New(cfg.HistoryDBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.HistoryDBPath).Msg("Failed to open history store")
	}
	defer st.Close()

	// ─── Question Source ───────────────────────────────────────────────
	qc := quest.NewClient(cfg.QuestBaseURL, cfg.QuestTimeout, log)

	// ─── Session Manager ───────────────────────────────────────────────
	mgr := session.NewManager(qc, cfg.SessionTTL, log)

	// Submitted exams feed the history queue. The send never blocks: a
	// full queue drops the record rather than stalling submission.
	historyQueue := make(chan store.Attempt, 256)
	mgr.OnResult(func(s *session.Session, rs *model.ResultSet) {
		attempt := store.Attempt{
			SessionID:  s.ID.String(),
			UserID:     s.Owner(),
			Exam:       s.Exam,
			Mode:       string(s.Mode),
			Score:      rs.OverallScore,
			Total:      rs.OverallTotal,
			Percentage: rs.OverallPercentage(),
			Grade:      model.Grade(rs.OverallPercentage()),
			TakenAt:    time.Now().UTC(),
			Subjects:   rs.PerSubject,
		}
		select {
		case historyQueue <- attempt:
		default:
			log.Warn().Str("session_id", attempt.SessionID).Msg("History queue full, dropping attempt")
		}
	})

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	historyWorker := worker.NewHistoryWorker(st, historyQueue, log)

	go historyWorker.Start(workerCtx)
	go mgr.Start(workerCtx)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Session: handler.NewSessionHandler(mgr),
		Catalog: handler.NewCatalogHandler(qc, log),
		History: handler.NewHistoryHandler(st, log),
		WS:      handler.NewWSHandler(mgr, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the worker and reaper; the worker flushes its batch on exit.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow the history queue to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
