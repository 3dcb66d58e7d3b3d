package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"

	"github.com/robfig/cron/v3"

	"github.com/jaekwang-park/todotodo-api/internal/config"
	"github.com/jaekwang-park/todotodo-api/internal/googleauth"
	todohttp "github.com/jaekwang-park/todotodo-api/internal/http"
	"github.com/jaekwang-park/todotodo-api/internal/http/handler"
	"github.com/jaekwang-park/todotodo-api/internal/middleware"
	"github.com/jaekwang-park/todotodo-api/internal/notify"
	"github.com/jaekwang-park/todotodo-api/internal/push"
	"github.com/jaekwang-park/todotodo-api/internal/repository"
	"github.com/jaekwang-park/todotodo-api/internal/service"
)

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"auth_dev_mode", cfg.AuthDevMode,
		"log_level", cfg.LogLevel,
		"timezone", cfg.Notify.Timezone,
	)

	loc := cfg.Notify.Location()

	// Database connection
	db, err := repository.NewDB(cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected")

	// Repositories
	todoRepo := repository.NewPostgresTodo(db)
	userRepo := repository.NewPostgresUser(db)
	subRepo := repository.NewPostgresSubscription(db)

	// Services
	todoSvc := service.NewTodoService(todoRepo, loc)
	pushSvc := service.NewPushService(subRepo)

	verifier := googleauth.NewVerifier(cfg.Auth.GoogleClientID, googleauth.NewJWKSClient(googleauth.DefaultJWKSURL))
	authSvc := service.NewAuthService(verifier, userRepo, []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)

	// Auth middleware
	auth, err := middleware.NewAuth(middleware.AuthConfig{
		DevMode:   cfg.AuthDevMode,
		JWTSecret: []byte(cfg.Auth.JWTSecret),
	})
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	// Reminder scheduler + cron
	var scheduler *notify.Scheduler
	c := cron.New(cron.WithLocation(loc))
	if cfg.Push.Enabled() {
		sender := push.NewWebPushSender(cfg.Push.Subject, cfg.Push.PublicKey, cfg.Push.PrivateKey)
		scheduler = notify.NewScheduler(todoRepo, subRepo, sender, logger, loc)

		if _, err := c.AddFunc(cfg.Notify.Schedule, func() {
			if err := scheduler.Run(context.Background()); err != nil {
				logger.Error("scheduled scan failed", "error", err)
			}
		}); err != nil {
			return fmt.Errorf("invalid NOTIFY_SCHEDULE %q: %w", cfg.Notify.Schedule, err)
		}
		c.Start()
		defer c.Stop()
		logger.Info("reminder scheduler started", "schedule", cfg.Notify.Schedule)
	} else {
		logger.Warn("push delivery disabled: VAPID keys not set")
	}

	// HTTP Server
	routerCfg := todohttp.RouterConfig{
		TodoSvc: todoSvc,
		AuthSvc: authSvc,
		PushSvc: pushSvc,
		Cookie:  handler.CookieConfig{Secure: cfg.Auth.CookieSecure},
		Logger:  logger,
	}
	// Manual scan trigger is local-only; everywhere else scans run on cron.
	if cfg.AppEnv == "local" && scheduler != nil {
		routerCfg.Scanner = scheduler
	}

	srv := todohttp.NewServer(cfg.ServerPort, logger, cfg.ClientOrigin, auth, routerCfg)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	logger.Info("server starting", "port", cfg.ServerPort)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
