package aptitude

import "time"

// WindowState classifies a moment against a test's availability window.
type WindowState int

const (
	WindowNotStarted WindowState = iota
	WindowActive
	WindowEnded
)

func (s WindowState) String() string {
	switch s {
	case WindowNotStarted:
		return "not_started"
	case WindowActive:
		return "active"
	case WindowEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Classify places now in exactly one of {NotStarted, Active, Ended} relative
// to the half-open window [StartTime, StartTime+Duration*60). A zero-duration
// test is never active. Called fresh on every read and write path.
func Classify(t Test, now time.Time) WindowState {
	ts := now.Unix()
	end := t.StartTime + int64(t.Duration)*60
	switch {
	case ts < t.StartTime:
		return WindowNotStarted
	case ts < end:
		return WindowActive
	default:
		return WindowEnded
	}
}

// windowErr maps a non-active window state to its business error.
func windowErr(s WindowState) error {
	if s == WindowNotStarted {
		return ErrNotStarted
	}
	return ErrEnded
}
