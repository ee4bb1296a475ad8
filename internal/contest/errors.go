package contest

import "errors"

// Domain errors. These are expected user-facing outcomes, never logged as
// system failures; the API layer maps each to a status code.
var (
	// ErrNotStarted and ErrEnded are the two halves of "competition closed".
	ErrNotStarted = errors.New("the competition has not started yet")
	ErrEnded      = errors.New("the competition has ended")

	// ErrProblemLocked means the team has not met the problem's
	// prerequisites (or the problem is hidden).
	ErrProblemLocked = errors.New("problem is locked")

	// ErrLockTimeout is returned when the per-(team, problem) lock could not
	// be acquired within its deadline. Unlike the errors above it is
	// transient: the caller may retry.
	ErrLockTimeout = errors.New("submission lock contention timeout")
)
