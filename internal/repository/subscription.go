package repository

import (
	"context"

	"github.com/jaekwang-park/todotodo-api/internal/model"
)

type SubscriptionRepository interface {
	// Upsert stores the subscription, rebinding an existing endpoint to the
	// given user with fresh keys.
	Upsert(ctx context.Context, sub model.PushSubscription) (model.PushSubscription, error)
	ListByUser(ctx context.Context, userID string) ([]model.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}
