package task

import (
	"time"
)

type Task struct {
	ID        string    `json:"id" db:"id"`
	Text      string    `json:"task" db:"task"`
	Status    Status    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Status string

const StatusTodo Status = "todo"
const StatusDone Status = "done"

func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// ParseCreatedAt reads a stored created_at value. Values written without a zone
// are taken as UTC; anything unparseable yields the zero time.
func ParseCreatedAt(raw string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if ts, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

func FormatCreatedAt(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339Nano)
}
