package model

import "time"

type TodoStatus string

const (
	TodoStatusOpen TodoStatus = "OPEN"
	TodoStatusDone TodoStatus = "DONE"
)

func (s TodoStatus) IsValid() bool {
	return s == TodoStatusOpen || s == TodoStatusDone
}

const (
	PriorityHigh   = 1
	PriorityNormal = 2
	PriorityLow    = 3
)

type Todo struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	Status      TodoStatus `json:"status"`
	DueAt       *time.Time `json:"due_at,omitempty"`

	// Per-threshold reminder flags. Once set they never revert; the
	// notification scheduler is their only writer.
	NotifyD7Sent bool `json:"notify_d7_sent"`
	NotifyD3Sent bool `json:"notify_d3_sent"`
	NotifyD1Sent bool `json:"notify_d1_sent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
