package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jaekwang-park/todotodo-api/internal/service"
)

// PushHandler handles browser push subscription registration.
type PushHandler struct {
	svc *service.PushService
}

func NewPushHandler(svc *service.PushService) *PushHandler {
	return &PushHandler{svc: svc}
}

// ServeHTTP routes /api/v1/push/* requests.
func (h *PushHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/push/")
	path = strings.TrimRight(path, "/")

	switch path {
	case "subscribe":
		h.handleSubscribe(w, r)
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

// subscribeRequest mirrors the serialized PushSubscription object the
// browser's Push API produces (sub.toJSON()).
type subscribeRequest struct {
	Subscription struct {
		Endpoint string `json:"endpoint"`
		Keys     struct {
			P256dh string `json:"p256dh"`
			Auth   string `json:"auth"`
		} `json:"keys"`
	} `json:"subscription"`
}

func (h *PushHandler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	userID := getUserID(r)

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	input := service.SubscribeInput{
		Endpoint: req.Subscription.Endpoint,
		P256dh:   req.Subscription.Keys.P256dh,
		Auth:     req.Subscription.Keys.Auth,
	}

	sub, err := h.svc.Subscribe(r.Context(), userID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, sub)
}
