package core

import (
	"strings"
	"time"
)

const (
	SessionNone      Session = "None"
	SessionBreakfast Session = "Breakfast"
	SessionLunch     Session = "Lunch"
	SessionDinner    Session = "Dinner"
)

// Session is a named meal period. It defines both the valid ingestion window
// and the scope for kitchen/packing aggregation.
type Session string

// Sessions lists the meal sessions in chronological order, SessionNone excluded.
func Sessions() []Session {
	return []Session{SessionBreakfast, SessionLunch, SessionDinner}
}

// Classify maps a timestamp to the meal session whose window contains its
// wall-clock hour: Breakfast [06,10), Lunch [11,15), Dinner [17,22).
// All other hours return SessionNone.
func Classify(t time.Time) Session {
	hour := t.Hour()
	switch {
	case hour >= 6 && hour < 10:
		return SessionBreakfast
	case hour >= 11 && hour < 15:
		return SessionLunch
	case hour >= 17 && hour < 22:
		return SessionDinner
	}
	return SessionNone
}

// ParseSession resolves a session name case-insensitively. Unknown names
// resolve to SessionNone with ok=false; callers treat that as "no data",
// never as an error.
func ParseSession(name string) (Session, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "breakfast":
		return SessionBreakfast, true
	case "lunch":
		return SessionLunch, true
	case "dinner":
		return SessionDinner, true
	}
	return SessionNone, false
}

// Active reports whether the session is a real meal period.
func (s Session) Active() bool {
	return s == SessionBreakfast || s == SessionLunch || s == SessionDinner
}

func (s Session) String() string { return string(s) }
