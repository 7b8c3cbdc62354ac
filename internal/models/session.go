package models

import "fmt"

// SessionType identifies which interval of the cycle is running
type SessionType int

const (
	Work SessionType = iota
	ShortBreak
	LongBreak
)

// AllSessionTypes lists the session types in cycle order
var AllSessionTypes = []SessionType{Work, ShortBreak, LongBreak}

// IsWork reports whether the session counts towards the daily record
func (s SessionType) IsWork() bool {
	return s == Work
}

func (s SessionType) String() string {
	switch s {
	case Work:
		return "work"
	case ShortBreak:
		return "short_break"
	case LongBreak:
		return "long_break"
	default:
		return "unknown"
	}
}

// Label returns a human-readable name for display
func (s SessionType) Label() string {
	switch s {
	case Work:
		return "Focus"
	case ShortBreak:
		return "Short Break"
	case LongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// ParseSessionType parses the String() form of a session type
func ParseSessionType(s string) (SessionType, error) {
	for _, st := range AllSessionTypes {
		if st.String() == s {
			return st, nil
		}
	}
	return Work, fmt.Errorf("unknown session type: %q", s)
}
