package repository

import (
	"context"
	"time"

	"github.com/jaekwang-park/todotodo-api/internal/model"
	"github.com/jaekwang-park/todotodo-api/internal/notify"
)

type TodoRepository interface {
	Create(ctx context.Context, todo model.Todo) (model.Todo, error)
	GetByID(ctx context.Context, userID, todoID string) (model.Todo, error)
	Update(ctx context.Context, todo model.Todo) (model.Todo, error)
	Delete(ctx context.Context, userID, todoID string) error
	List(ctx context.Context, userID string) ([]model.Todo, error)
	ListByDueRange(ctx context.Context, userID string, from, to time.Time) ([]model.Todo, error)

	// Scheduler-facing reads/writes.
	ListOpenWithDue(ctx context.Context) ([]model.Todo, error)
	MarkNotified(ctx context.Context, todoID string, th notify.Threshold) error
}
