package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// Scanner triggers one reminder scan. Implemented by notify.Scheduler.
type Scanner interface {
	Run(ctx context.Context) error
}

// NotificationHandler exposes a manual scan trigger for local development,
// so reminders can be tested without waiting for the cron schedule.
type NotificationHandler struct {
	scanner Scanner
	logger  *slog.Logger
}

func NewNotificationHandler(scanner Scanner, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{scanner: scanner, logger: logger}
}

// ServeHTTP routes /api/v1/notifications/* requests.
func (h *NotificationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/notifications/")
	path = strings.TrimRight(path, "/")

	switch path {
	case "scan":
		h.handleScan(w, r)
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

func (h *NotificationHandler) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	// Detached from the request context so the scan survives the response.
	go func() {
		if err := h.scanner.Run(context.Background()); err != nil {
			h.logger.Error("manual scan failed", "error", err)
		}
	}()

	WriteJSON(w, http.StatusAccepted, map[string]string{"message": "scan started"})
}
