package notify

import (
	"math"
	"time"

	"github.com/jaekwang-park/todotodo-api/internal/model"
)

// Threshold is a fixed day offset before a due date at which a reminder
// should fire.
type Threshold string

const (
	ThresholdD7 Threshold = "D-7"
	ThresholdD3 Threshold = "D-3"
	ThresholdD1 Threshold = "D-1"
)

// thresholdByDays maps an exact day distance to its threshold. Any other
// distance, including overdue (negative) ones, carries no reminder.
var thresholdByDays = map[int]Threshold{
	7: ThresholdD7,
	3: ThresholdD3,
	1: ThresholdD1,
}

// Sent reports whether the reminder for this threshold was already recorded
// on the todo.
func (t Threshold) Sent(todo model.Todo) bool {
	switch t {
	case ThresholdD7:
		return todo.NotifyD7Sent
	case ThresholdD3:
		return todo.NotifyD3Sent
	case ThresholdD1:
		return todo.NotifyD1Sent
	}
	return false
}

// Classify maps a todo to the threshold it crosses relative to now, if any.
// Todos whose flag for the matching threshold is already set are skipped.
// The caller guarantees status != DONE and a non-nil due date; a nil due date
// is still tolerated here and yields no threshold.
func Classify(now time.Time, todo model.Todo, loc *time.Location) (Threshold, bool) {
	if todo.DueAt == nil {
		return "", false
	}

	th, ok := thresholdByDays[daysBetween(now, *todo.DueAt, loc)]
	if !ok || th.Sent(todo) {
		return "", false
	}
	return th, true
}

// daysBetween returns the whole-day distance from from to to. Both sides are
// truncated to local midnight in loc before subtracting; the rounded hour
// division absorbs the one-hour skew a DST transition introduces.
func daysBetween(from, to time.Time, loc *time.Location) int {
	f := truncateToDay(from.In(loc))
	t := truncateToDay(to.In(loc))
	return int(math.Round(t.Sub(f).Hours() / 24))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayString renders the local calendar day of t in loc as YYYY-MM-DD.
func DayString(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
