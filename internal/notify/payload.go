package notify

import (
	"time"

	"github.com/jaekwang-park/todotodo-api/internal/model"
)

// Payload is the wire contract with the client-side push handler, which
// renders these fields positionally. Field names and the YYYY-MM-DD form of
// dateStr must not change.
type Payload struct {
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle"`
	Body     string      `json:"body"`
	Data     PayloadData `json:"data"`
}

// PayloadData lets the client deep-link into the calendar view.
type PayloadData struct {
	TodoID  string `json:"todoId"`
	DateStr string `json:"dateStr"`
}

// BuildPayload renders the push message for a group's representative todo.
func BuildPayload(todo model.Todo, th Threshold, loc *time.Location) Payload {
	due := todo.DueAt.In(loc)

	return Payload{
		Title:    "TodoTodo",
		Subtitle: "⏰ " + string(th) + " reminder",
		Body:     due.Format("Jan 2 (Mon) · 15:04") + "\n" + todo.Title,
		Data: PayloadData{
			TodoID:  todo.ID,
			DateStr: due.Format("2006-01-02"),
		},
	}
}
