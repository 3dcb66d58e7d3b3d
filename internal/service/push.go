package service

import (
	"context"
	"fmt"

	"github.com/jaekwang-park/todotodo-api/internal/model"
	"github.com/jaekwang-park/todotodo-api/internal/repository"
)

type SubscribeInput struct {
	Endpoint string
	P256dh   string
	Auth     string
}

type PushService struct {
	subs repository.SubscriptionRepository
}

func NewPushService(subs repository.SubscriptionRepository) *PushService {
	return &PushService{subs: subs}
}

// Subscribe registers a browser push subscription for the user. Re-registering
// an endpoint rebinds it, so a shared browser follows the current login.
func (s *PushService) Subscribe(ctx context.Context, userID string, input SubscribeInput) (model.PushSubscription, error) {
	if input.Endpoint == "" {
		return model.PushSubscription{}, fmt.Errorf("%w: endpoint is required", ErrInvalidInput)
	}
	if input.P256dh == "" || input.Auth == "" {
		return model.PushSubscription{}, fmt.Errorf("%w: subscription keys are required", ErrInvalidInput)
	}

	sub := model.PushSubscription{
		Endpoint: input.Endpoint,
		UserID:   userID,
		P256dh:   input.P256dh,
		Auth:     input.Auth,
	}

	saved, err := s.subs.Upsert(ctx, sub)
	if err != nil {
		return model.PushSubscription{}, fmt.Errorf("failed to save push subscription: %w", err)
	}

	return saved, nil
}
