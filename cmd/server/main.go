package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/edinfinite/aiworkshop-backend/internal/config"
	"github.com/edinfinite/aiworkshop-backend/internal/database"
	"github.com/edinfinite/aiworkshop-backend/internal/handlers"
	"github.com/edinfinite/aiworkshop-backend/internal/middleware"
	"github.com/edinfinite/aiworkshop-backend/internal/observability"
	"github.com/edinfinite/aiworkshop-backend/internal/routes"
	"github.com/edinfinite/aiworkshop-backend/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load env
	envErr := godotenv.Load()

	// Load configuration
	cfg := config.Load()

	logger := observability.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()
	if envErr != nil {
		logger.Info("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	logger.Info("Connecting to PostgreSQL...")
	db, err := database.ConnectPostgres(ctx, cfg.DatabaseURL, database.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer db.Close()

	// Cooldown ledger: Redis when configured so every replica shares it
	var ledger services.CooldownLedger = services.NewMemoryCooldownLedger(cfg.FeedbackCooldown)
	if cfg.RedisURI != "" {
		logger.Info("Connecting to Redis...")
		rdb, err := database.ConnectRedis(ctx, cfg.RedisURI)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer rdb.Close()
		ledger = services.NewRedisCooldownLedger(rdb, cfg.FeedbackCooldown)
	} else {
		logger.Warn("REDIS_URI not set, feedback cooldown is per-process")
	}

	redactor, err := services.NewRedactor()
	if err != nil {
		logger.Fatal("Failed to load PII patterns", zap.Error(err))
	}

	feedbackService := services.NewFeedbackService(
		services.NewSpamGate(ledger, logger),
		redactor,
		services.NewFileIssueRecorder(cfg.BeadsDir),
		database.NewFeedbackRepository(db),
		logger,
	)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimw.StripSlashes)

	sweeperStop := make(chan struct{})
	defer close(sweeperStop)
	if cfg.IsProduction() {
		throttle := middleware.NewIPThrottle(1, 10, 10*time.Minute)
		go throttle.RunSweeper(time.Minute, sweeperStop)
		for _, mw := range middleware.ProductionSecurity(throttle) {
			r.Use(mw)
		}
		logger.Info("Production security enabled (security headers, per-IP throttle)")
	}

	routes.SetupRoutes(r, handlers.NewFeedbackHandler(feedbackService))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("AI workshop backend running",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Environment),
			zap.String("beads_dir", cfg.BeadsDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}
