// Package push delivers browser push messages over the Web Push protocol
// with VAPID authentication.
package push

import (
	"context"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/jaekwang-park/todotodo-api/internal/model"
	"github.com/jaekwang-park/todotodo-api/internal/notify"
)

// WebPushSender sends payloads to subscription endpoints using the
// application's VAPID key pair.
type WebPushSender struct {
	subject    string
	publicKey  string
	privateKey string
	ttl        int
}

func NewWebPushSender(subject, publicKey, privateKey string) *WebPushSender {
	return &WebPushSender{
		subject:    subject,
		publicKey:  publicKey,
		privateKey: privateKey,
		// Push services may hold the message for a day before the next
		// scan supersedes it.
		ttl: 24 * 60 * 60,
	}
}

func (s *WebPushSender) Send(ctx context.Context, sub model.PushSubscription, payload []byte) error {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.subject,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             s.ttl,
	})
	if err != nil {
		return fmt.Errorf("failed to send web push: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("push service returned %d: %w", resp.StatusCode, notify.ErrEndpointGone)
	case resp.StatusCode >= 400:
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}

	return nil
}

var _ notify.Sender = (*WebPushSender)(nil)
