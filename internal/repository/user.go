package repository

import (
	"context"

	"github.com/jaekwang-park/todotodo-api/internal/model"
)

type UserRepository interface {
	// Upsert creates the user on first login and refreshes the display name
	// on subsequent ones. Email is the unique key.
	Upsert(ctx context.Context, email, name string) (model.User, error)
	GetByID(ctx context.Context, userID string) (model.User, error)
}
