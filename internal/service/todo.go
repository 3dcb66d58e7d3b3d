package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jaekwang-park/todotodo-api/internal/model"
	"github.com/jaekwang-park/todotodo-api/internal/repository"
)

// parseDueAt parses an RFC3339 string into *time.Time.
// Returns nil if input is nil.
func parseDueAt(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	if *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid due_at format, expected RFC3339", ErrInvalidInput)
	}
	return &t, nil
}

type CreateTodoInput struct {
	Title       string
	Description string
	Priority    *int
	DueAt       *string // RFC3339 string, parsed in handler
}

type UpdateTodoInput struct {
	Title       *string
	Description *string
	Priority    *int
	DueAt       *string
}

type TodoService struct {
	repo repository.TodoRepository
	loc  *time.Location
}

// NewTodoService creates the todo service. loc is the application timezone
// used to resolve calendar-day queries.
func NewTodoService(repo repository.TodoRepository, loc *time.Location) *TodoService {
	return &TodoService{repo: repo, loc: loc}
}

func (s *TodoService) Create(ctx context.Context, userID string, input CreateTodoInput) (model.Todo, error) {
	if input.Title == "" {
		return model.Todo{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	dueAt, err := parseDueAt(input.DueAt)
	if err != nil {
		return model.Todo{}, err
	}

	priority := model.PriorityNormal
	if input.Priority != nil {
		if err := validatePriority(*input.Priority); err != nil {
			return model.Todo{}, err
		}
		priority = *input.Priority
	}

	todo := model.Todo{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		Status:      model.TodoStatusOpen,
		DueAt:       dueAt,
	}

	created, err := s.repo.Create(ctx, todo)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to create todo: %w", err)
	}

	return created, nil
}

func (s *TodoService) GetByID(ctx context.Context, userID, todoID string) (model.Todo, error) {
	todo, err := s.repo.GetByID(ctx, userID, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("failed to get todo: %w", err)
	}
	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, userID, todoID string, input UpdateTodoInput) (model.Todo, error) {
	existing, err := s.repo.GetByID(ctx, userID, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("failed to get todo for update: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return model.Todo{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		existing.Title = *input.Title
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.Priority != nil {
		if err := validatePriority(*input.Priority); err != nil {
			return model.Todo{}, err
		}
		existing.Priority = *input.Priority
	}
	if input.DueAt != nil {
		// Moving or clearing the due date does not reset the notification
		// flags; they record history, not intent.
		dueAt, err := parseDueAt(input.DueAt)
		if err != nil {
			return model.Todo{}, err
		}
		existing.DueAt = dueAt
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to update todo: %w", err)
	}

	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, todoID string) error {
	err := s.repo.Delete(ctx, userID, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

func (s *TodoService) UpdateStatus(ctx context.Context, userID, todoID string, status model.TodoStatus) (model.Todo, error) {
	if !status.IsValid() {
		return model.Todo{}, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, status)
	}

	existing, err := s.repo.GetByID(ctx, userID, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("failed to get todo for status update: %w", err)
	}

	existing.Status = status

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to update todo status: %w", err)
	}

	return updated, nil
}

// Toggle flips a todo between OPEN and DONE.
func (s *TodoService) Toggle(ctx context.Context, userID, todoID string) (model.Todo, error) {
	existing, err := s.repo.GetByID(ctx, userID, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("failed to get todo for toggle: %w", err)
	}

	if existing.Status == model.TodoStatusDone {
		existing.Status = model.TodoStatusOpen
	} else {
		existing.Status = model.TodoStatusDone
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to toggle todo: %w", err)
	}

	return updated, nil
}

func (s *TodoService) List(ctx context.Context, userID string) ([]model.Todo, error) {
	todos, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// ListByDate returns the todos due on the given local calendar day
// (YYYY-MM-DD) in the application timezone, ordered by due time.
func (s *TodoService) ListByDate(ctx context.Context, userID, date string) ([]model.Todo, error) {
	day, err := time.ParseInLocation("2006-01-02", date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}

	from := day
	to := day.AddDate(0, 0, 1)

	todos, err := s.repo.ListByDueRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos by date: %w", err)
	}
	return todos, nil
}

func validatePriority(p int) error {
	if p < model.PriorityHigh || p > model.PriorityLow {
		return fmt.Errorf("%w: priority must be between %d and %d", ErrInvalidInput, model.PriorityHigh, model.PriorityLow)
	}
	return nil
}
