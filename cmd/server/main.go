package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"volunteer-backend/internal/auth"
	"volunteer-backend/internal/cache"
	"volunteer-backend/internal/config"
	_ "volunteer-backend/internal/docs"
	"volunteer-backend/internal/handlers"
	"volunteer-backend/internal/logging"
	"volunteer-backend/internal/natsbus"
	"volunteer-backend/internal/notify"
	"volunteer-backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := connectDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	store := storage.NewStorage(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	notifier, closeNotifier, err := buildNotifier(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeNotifier()

	codec, err := auth.NewTokenCodec([]byte(cfg.JWTSecret))
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}

	authService, err := auth.NewService(store, codec, auth.NewHasher(cfg.BcryptCost), notifier, logger.Named("auth"), auth.Options{
		SessionTTL:    cfg.SessionTTL,
		ResetTokenTTL: cfg.ResetTokenTTL,
	})
	if err != nil {
		return err
	}

	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Name:   cfg.SessionCookie,
		Secure: cfg.CookieSecure,
	}, logger.Named("auth"))
	h := handlers.New(store, logger.Named("http"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logging.RequestLogger(logger.Named("http")))
	r.Use(middleware.Recoverer)
	authHandler.RegisterRoutes(r)
	h.RegisterRoutes(r, authHandler.RequireSession)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}

func connectDB(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	for i := 0; i < cfg.DBConnectAttempts; i++ {
		db, err = sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseURL)
		if err == nil {
			logger.Info("connected to database")
			return db, nil
		}
		logger.Warn("database connection attempt failed", zap.Int("attempt", i+1), zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return nil, fmt.Errorf("connect to database: %w", err)
}

func buildNotifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) (notify.Notifier, func(), error) {
	switch cfg.ResetDelivery {
	case config.DeliveryRedis:
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("reset tokens delivered via redis outbox", zap.String("key", notify.ResetOutboxKey))
		return notify.NewRedisOutbox(redisClient), func() { _ = redisClient.Close() }, nil
	case config.DeliveryNATS:
		natsClient, err := natsbus.Connect(cfg.NATSURL, logger.Named("nats"))
		if err != nil {
			return nil, nil, err
		}
		logger.Info("reset tokens delivered via NATS", zap.String("subject", notify.ResetSubject))
		return notify.NewNATSNotifier(natsClient), func() { _ = natsClient.Close() }, nil
	default:
		logger.Warn("reset tokens are written to the log; use RESET_DELIVERY=redis or nats in production")
		return notify.NewLogNotifier(logger.Named("notify")), func() {}, nil
	}
}
