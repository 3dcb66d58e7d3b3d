package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jaekwang-park/todotodo-api/internal/model"
)

// ErrEndpointGone signals that the push service reported a subscription
// endpoint as permanently invalid (HTTP 404/410). The scheduler deletes the
// subscription record when a send fails with this error.
var ErrEndpointGone = errors.New("push endpoint gone")

// TodoStore is the slice of todo storage the scheduler needs.
type TodoStore interface {
	// ListOpenWithDue returns all todos with status != DONE and a due date set.
	ListOpenWithDue(ctx context.Context) ([]model.Todo, error)
	// MarkNotified sets the flag for the given threshold. It must be a no-op
	// when the flag is already set.
	MarkNotified(ctx context.Context, todoID string, th Threshold) error
}

// SubscriptionStore is the slice of push-subscription storage the scheduler needs.
type SubscriptionStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}

// Sender delivers one serialized payload to one subscription endpoint.
type Sender interface {
	Send(ctx context.Context, sub model.PushSubscription, payload []byte) error
}

// Scheduler runs the daily reminder scan: query open todos, classify them
// against the D-7/D-3/D-1 thresholds, collapse them into one push per
// (user, due day, threshold), deliver, and record the sent flag.
type Scheduler struct {
	todos   TodoStore
	subs    SubscriptionStore
	sender  Sender
	logger  *slog.Logger
	loc     *time.Location
	running atomic.Bool
}

func NewScheduler(todos TodoStore, subs SubscriptionStore, sender Sender, logger *slog.Logger, loc *time.Location) *Scheduler {
	return &Scheduler{
		todos:  todos,
		subs:   subs,
		sender: sender,
		logger: logger,
		loc:    loc,
	}
}

// Run executes one scan relative to the current wall clock. It is the entry
// point for the cron trigger and the manual trigger alike.
func (s *Scheduler) Run(ctx context.Context) error {
	return s.RunAt(ctx, time.Now())
}

// RunAt executes one scan as if now were the current time. If a scan is
// still in flight the trigger is skipped; the conditional flag update in the
// store keeps overlapping scans from other processes from double-sending.
func (s *Scheduler) RunAt(ctx context.Context, now time.Time) error {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("notification scan already running, skipping trigger")
		return nil
	}
	defer s.running.Store(false)

	log := s.logger.With("scan_id", uuid.NewString())

	todos, err := s.todos.ListOpenWithDue(ctx)
	if err != nil {
		log.Error("failed to query open todos", "error", err)
		return fmt.Errorf("failed to query open todos: %w", err)
	}

	groups := s.group(now, todos)
	log.Info("notification scan started", "candidates", len(todos), "groups", len(groups))

	sent := 0
	for _, g := range groups {
		n, err := s.deliver(ctx, log, g)
		if err != nil {
			// subscription lookup failed; the next scheduled scan retries
			return err
		}
		sent += n

		// Flag the representative even on per-endpoint failures: the flag
		// records that a notification attempt was made for the group.
		if err := s.todos.MarkNotified(ctx, g.todo.ID, g.threshold); err != nil {
			log.Error("failed to record sent flag",
				"todo_id", g.todo.ID,
				"threshold", g.threshold,
				"error", err,
			)
		}
	}

	log.Info("notification scan complete", "groups", len(groups), "pushes_sent", sent)
	return nil
}

// group is one (user, due day, threshold) bucket with its earliest-due todo.
type group struct {
	todo      model.Todo
	threshold Threshold
}

func (s *Scheduler) group(now time.Time, todos []model.Todo) map[string]group {
	groups := make(map[string]group)

	for _, todo := range todos {
		th, ok := Classify(now, todo, s.loc)
		if !ok {
			continue
		}

		key := todo.UserID + "-" + DayString(*todo.DueAt, s.loc) + "-" + string(th)

		// Earliest due time wins; the strict Before keeps the first-seen
		// todo on an exact tie.
		prev, exists := groups[key]
		if !exists || todo.DueAt.Before(*prev.todo.DueAt) {
			groups[key] = group{todo: todo, threshold: th}
		}
	}

	return groups
}

// deliver sends the group's payload to every subscription of its user.
// Per-endpoint failures are logged and skipped; only a subscription lookup
// failure propagates, aborting the scan.
func (s *Scheduler) deliver(ctx context.Context, log *slog.Logger, g group) (int, error) {
	subs, err := s.subs.ListByUser(ctx, g.todo.UserID)
	if err != nil {
		log.Error("failed to list push subscriptions", "user_id", g.todo.UserID, "error", err)
		return 0, fmt.Errorf("failed to list push subscriptions: %w", err)
	}

	payload, err := json.Marshal(BuildPayload(g.todo, g.threshold, s.loc))
	if err != nil {
		return 0, fmt.Errorf("failed to marshal push payload: %w", err)
	}

	sent := 0
	for _, sub := range subs {
		if err := s.sender.Send(ctx, sub, payload); err != nil {
			if errors.Is(err, ErrEndpointGone) {
				log.Info("push endpoint gone, removing subscription", "endpoint", sub.Endpoint)
				if delErr := s.subs.DeleteByEndpoint(ctx, sub.Endpoint); delErr != nil {
					log.Error("failed to delete stale subscription",
						"endpoint", sub.Endpoint,
						"error", delErr,
					)
				}
			} else {
				log.Error("push delivery failed", "endpoint", sub.Endpoint, "error", err)
			}
			continue
		}
		sent++
	}

	return sent, nil
}
