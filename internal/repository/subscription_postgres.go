package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jaekwang-park/todotodo-api/internal/model"
)

type PostgresSubscriptionRepository struct {
	db *sql.DB
}

func NewPostgresSubscription(db *sql.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

func (r *PostgresSubscriptionRepository) Upsert(ctx context.Context, sub model.PushSubscription) (model.PushSubscription, error) {
	query := `
		INSERT INTO push_subscriptions (endpoint, user_id, p256dh, auth)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (endpoint) DO UPDATE SET user_id = EXCLUDED.user_id, p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth
		RETURNING endpoint, user_id, p256dh, auth, created_at`

	row := r.db.QueryRowContext(ctx, query, sub.Endpoint, sub.UserID, sub.P256dh, sub.Auth)
	return scanSubscription(row)
}

func (r *PostgresSubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]model.PushSubscription, error) {
	query := `
		SELECT endpoint, user_id, p256dh, auth, created_at
		FROM push_subscriptions
		WHERE user_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query push subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []model.PushSubscription{}
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate push subscriptions: %w", err)
	}

	return subs, nil
}

// DeleteByEndpoint is a no-op when the endpoint is unknown: the scheduler
// calls it on a "gone" push response, and the record may already be removed.
func (r *PostgresSubscriptionRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	query := `DELETE FROM push_subscriptions WHERE endpoint = $1`

	if _, err := r.db.ExecContext(ctx, query, endpoint); err != nil {
		return fmt.Errorf("failed to delete push subscription: %w", err)
	}
	return nil
}

func scanSubscription(row scannable) (model.PushSubscription, error) {
	var s model.PushSubscription
	err := row.Scan(&s.Endpoint, &s.UserID, &s.P256dh, &s.Auth, &s.CreatedAt)
	if err != nil {
		return model.PushSubscription{}, fmt.Errorf("failed to scan push subscription: %w", err)
	}
	return s, nil
}

var _ SubscriptionRepository = (*PostgresSubscriptionRepository)(nil)
