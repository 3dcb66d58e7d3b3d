package http

import (
	"log/slog"
	"net/http"

	"github.com/jaekwang-park/todotodo-api/internal/http/handler"
	"github.com/jaekwang-park/todotodo-api/internal/service"
)

type RouterConfig struct {
	TodoSvc *service.TodoService
	AuthSvc *service.AuthService
	PushSvc *service.PushService
	Cookie  handler.CookieConfig

	// Scanner enables POST /api/v1/notifications/scan when set. Wired only
	// in local environments; production scans run on the cron schedule.
	Scanner handler.Scanner
	Logger  *slog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	// Health check - intentionally outside /api/v1 for ALB health check compatibility
	health := handler.NewHealthHandler()
	mux.Handle("/health", health)

	// Todo CRUD API
	todoHandler := handler.NewTodoHandler(cfg.TodoSvc)
	mux.Handle("/api/v1/todos", todoHandler)
	mux.Handle("/api/v1/todos/", todoHandler)

	// Google login + session cookie
	authHandler := handler.NewAuthHandler(cfg.AuthSvc, cfg.Cookie)
	mux.Handle("/api/v1/auth/", authHandler)

	// Push subscription registration
	pushHandler := handler.NewPushHandler(cfg.PushSvc)
	mux.Handle("/api/v1/push/", pushHandler)

	if cfg.Scanner != nil {
		notifHandler := handler.NewNotificationHandler(cfg.Scanner, cfg.Logger)
		mux.Handle("/api/v1/notifications/", notifHandler)
	}

	return mux
}
