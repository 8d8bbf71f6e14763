package event

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusOpen     Status = "open"
	StatusFinished Status = "finished"
)

// ErrFinished guards operations that require an open event.
// Finalization is one-way; there is no reopen.
var ErrFinished = errors.New("event already finished")

// ErrClosed guards prediction writes: the event is past its close
// date or already finished.
var ErrClosed = errors.New("event closed for predictions")

// Event is one competition round: a named set of matches with a
// shared prediction deadline.
type Event struct {
	ID        string
	Name      string
	Status    Status
	CloseDate time.Time
	CreatedAt time.Time
}

func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if e.Name == "" {
		return fmt.Errorf("event name is required")
	}
	if e.CloseDate.IsZero() {
		return fmt.Errorf("event close date is required")
	}

	return nil
}

// AcceptsPredictions reports whether prediction writes are still
// allowed at the given instant.
func (e Event) AcceptsPredictions(now time.Time) bool {
	return e.Status == StatusOpen && !now.After(e.CloseDate)
}
