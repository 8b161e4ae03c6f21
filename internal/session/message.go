package session

import "time"

// Level tags a status message for display styling and fade policy.
type Level int

const (
	// Info messages persist until replaced.
	Info Level = iota
	// Warning messages fade after 5 seconds.
	Warning
	// Error messages fade after 8 seconds.
	Error
)

func (l Level) String() string {
	switch l {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

const (
	warningFade = 5 * time.Second
	errorFade   = 8 * time.Second
)

// DefaultHint is the status line shown when no message is active.
const DefaultHint = "Press / to search, q to quit, Enter to navigate"

// StatusMessage is one transient status line. A zero TTL means the message
// never fades.
type StatusMessage struct {
	Text  string
	Level Level

	setAt time.Time
	ttl   time.Duration
}

// expired reports whether the message should revert to the default hint.
// Fade is evaluated once per render tick, not via timers.
func (m StatusMessage) expired(now time.Time) bool {
	return m.ttl > 0 && now.Sub(m.setAt) > m.ttl
}
