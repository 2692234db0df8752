package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/passiton/backend/internal/client"
	"github.com/passiton/backend/internal/config"
	"github.com/passiton/backend/internal/handler"
	"github.com/passiton/backend/internal/ratelimit"
	"github.com/passiton/backend/internal/service"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Hour
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply PostgreSQL migrations on startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg.Store, !skipMigrations)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Error("failed to close store", slog.Any("error", err))
		}
	}()

	codec, err := service.NewTokenCodec(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}
	resolver := service.NewSessionResolver(codec, st, logger)
	authSvc, err := service.NewAuthService(st, codec, cfg.Auth, cfg.IsProduction(), logger)
	if err != nil {
		return err
	}

	counter, closeCounter, err := newCounter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCounter()

	cooldown := ratelimit.NewCooldown(cfg.Listing.Cooldown)
	go pruneCooldown(ctx, cooldown, janitorInterval)

	var presigner service.Presigner
	if cfg.Storage.Enabled() {
		storage, err := client.NewImageStorage(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("image storage: %w", err)
		}
		presigner = storage
	} else {
		logger.Info("S3 storage not configured; uploads disabled")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	sessions := handler.NewSessions(resolver, logger)
	router := handler.NewRouter(handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc, sessions, logger),
		Products:      handler.NewProductHandler(service.NewProductService(st, cooldown, logger), sessions, logger),
		Opportunities: handler.NewOpportunityHandler(service.NewOpportunityService(st, cooldown, logger), sessions, logger),
		Colleges:      handler.NewCollegeHandler(service.NewCollegeService(st, logger), sessions, logger),
		Admin:         handler.NewAdminHandler(service.NewAdminService(st, logger), sessions, logger),
		Uploads:       handler.NewUploadHandler(service.NewUploadService(presigner, logger), sessions, logger),
		Health:        handler.NewHealthHandler(st, logger),
		Pages:         handler.NewPageHandler(cfg.WebDir),
	}, handler.RouterOptions{
		Resolver:       resolver,
		Counter:        counter,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		TrustedProxies: cfg.TrustedProxies,
		Log:            logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", srv.Addr), slog.String("mode", cfg.Mode), slog.String("version", version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newCounter backs the login and signup limits. Redis shares counts across
// instances; without it production counts in memory and development runs
// unthrottled.
func newCounter(ctx context.Context, c config.Config) (ratelimit.Counter, func(), error) {
	if c.Redis.URL != "" {
		rc, err := ratelimit.NewRedisCounterWithURL(c.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unreachable; rate limits fail open until it recovers", slog.Any("error", err))
		}
		return rc, func() { _ = rc.Close() }, nil
	}
	if c.IsProduction() {
		mc := ratelimit.NewMemoryCounter()
		mc.StartJanitor(ctx, janitorInterval)
		return mc, func() {}, nil
	}
	return ratelimit.Disabled{}, func() {}, nil
}

func pruneCooldown(ctx context.Context, c *ratelimit.Cooldown, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Prune(); n > 0 {
				logger.Debug("pruned listing cooldowns", slog.Int("removed", n))
			}
		}
	}
}
