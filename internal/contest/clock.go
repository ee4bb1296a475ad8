package contest

import "time"

// Window is the configured competition window. The zero value (no start, no
// end) is always open.
type Window struct {
	Start time.Time
	End   time.Time
}

// Check reports whether the competition is open at the given instant. It
// returns ErrNotStarted before the window and ErrEnded after it, so callers
// can tell the two apart.
func (w Window) Check(now time.Time) error {
	if !w.Start.IsZero() && now.Before(w.Start) {
		return ErrNotStarted
	}
	if !w.End.IsZero() && now.After(w.End) {
		return ErrEnded
	}
	return nil
}

// IsOpen is Check collapsed to a boolean for callers that do not care why
// the window is closed.
func (w Window) IsOpen(now time.Time) bool {
	return w.Check(now) == nil
}
