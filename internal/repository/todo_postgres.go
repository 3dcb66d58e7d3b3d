package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jaekwang-park/todotodo-api/internal/model"
	"github.com/jaekwang-park/todotodo-api/internal/notify"
)

const todoColumns = `id, user_id, title, description, priority, status, due_at,
		notify_d7_sent, notify_d3_sent, notify_d1_sent, created_at, updated_at`

type PostgresTodoRepository struct {
	db *sql.DB
}

func NewPostgresTodo(db *sql.DB) *PostgresTodoRepository {
	return &PostgresTodoRepository{db: db}
}

func (r *PostgresTodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	query := `
		INSERT INTO todos (user_id, title, description, priority, status, due_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + todoColumns

	row := r.db.QueryRowContext(ctx, query,
		todo.UserID, todo.Title, todo.Description, todo.Priority, todo.Status, todo.DueAt,
	)

	return scanTodo(row)
}

func (r *PostgresTodoRepository) GetByID(ctx context.Context, userID, todoID string) (model.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE id = $1 AND user_id = $2`

	row := r.db.QueryRowContext(ctx, query, todoID, userID)
	return scanTodo(row)
}

// Update never touches the notify_* flags: they are monotonic and owned by
// the notification scheduler.
func (r *PostgresTodoRepository) Update(ctx context.Context, todo model.Todo) (model.Todo, error) {
	query := `
		UPDATE todos
		SET title = $1, description = $2, priority = $3, status = $4, due_at = $5, updated_at = now()
		WHERE id = $6 AND user_id = $7
		RETURNING ` + todoColumns

	row := r.db.QueryRowContext(ctx, query,
		todo.Title, todo.Description, todo.Priority, todo.Status, todo.DueAt, todo.ID, todo.UserID,
	)

	return scanTodo(row)
}

func (r *PostgresTodoRepository) Delete(ctx context.Context, userID, todoID string) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, todoID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *PostgresTodoRepository) List(ctx context.Context, userID string) ([]model.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at DESC`

	return r.queryTodos(ctx, query, userID)
}

func (r *PostgresTodoRepository) ListByDueRange(ctx context.Context, userID string, from, to time.Time) ([]model.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1 AND due_at >= $2 AND due_at < $3
		ORDER BY due_at ASC`

	return r.queryTodos(ctx, query, userID, from, to)
}

func (r *PostgresTodoRepository) ListOpenWithDue(ctx context.Context) ([]model.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE status <> 'DONE' AND due_at IS NOT NULL`

	return r.queryTodos(ctx, query)
}

// MarkNotified is a single conditional update: the flag flips only if it is
// still false, so concurrent scans cannot both claim it and it is a no-op
// when already set.
func (r *PostgresTodoRepository) MarkNotified(ctx context.Context, todoID string, th notify.Threshold) error {
	col, err := notifyColumn(th)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		`UPDATE todos SET %s = TRUE, updated_at = now() WHERE id = $1 AND %s = FALSE`,
		col, col,
	)

	if _, err := r.db.ExecContext(ctx, query, todoID); err != nil {
		return fmt.Errorf("failed to mark todo notified: %w", err)
	}
	return nil
}

func notifyColumn(th notify.Threshold) (string, error) {
	switch th {
	case notify.ThresholdD7:
		return "notify_d7_sent", nil
	case notify.ThresholdD3:
		return "notify_d3_sent", nil
	case notify.ThresholdD1:
		return "notify_d1_sent", nil
	}
	return "", fmt.Errorf("unknown notification threshold %q", th)
}

func (r *PostgresTodoRepository) queryTodos(ctx context.Context, query string, args ...any) ([]model.Todo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTodo(row scannable) (model.Todo, error) {
	var t model.Todo
	var dueAt sql.NullTime
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority, &t.Status, &dueAt,
		&t.NotifyD7Sent, &t.NotifyD3Sent, &t.NotifyD1Sent, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to scan todo: %w", err)
	}
	if dueAt.Valid {
		t.DueAt = &dueAt.Time
	}
	return t, nil
}

// ensure compile-time interface compliance
var _ TodoRepository = (*PostgresTodoRepository)(nil)
