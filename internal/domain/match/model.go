package match

import (
	"errors"
	"fmt"
	"time"
)

// ErrStarted guards operations that must happen before kickoff.
var ErrStarted = errors.New("match already started")

// Match is one fixture inside an event. Results stay nil until an
// admin enters them.
type Match struct {
	ID            string
	EventID       string
	LocalTeam     string
	VisitorTeam   string
	MatchDatetime time.Time
	ResultLocal   *int
	ResultVisitor *int
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.EventID == "" {
		return fmt.Errorf("match event id is required")
	}
	if m.LocalTeam == "" {
		return fmt.Errorf("match local team is required")
	}
	if m.VisitorTeam == "" {
		return fmt.Errorf("match visitor team is required")
	}
	if m.MatchDatetime.IsZero() {
		return fmt.Errorf("match datetime is required")
	}

	return nil
}

// HasResult reports whether both sides of the real score are set.
// A half-entered result counts as no result.
func (m Match) HasResult() bool {
	return m.ResultLocal != nil && m.ResultVisitor != nil
}

func (m Match) Started(now time.Time) bool {
	return !now.Before(m.MatchDatetime)
}
