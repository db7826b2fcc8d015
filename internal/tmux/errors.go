package tmux

import "errors"

// Custom error types for tmux-specific failures.
var (
	// ErrTmuxNotRunning is returned when tmux server is not available.
	ErrTmuxNotRunning = errors.New("tmux server is not running")

	// ErrSessionNotFound is returned when a tmux session cannot be found.
	ErrSessionNotFound = errors.New("tmux session not found")

	// ErrWindowNotFound is returned when a tab index maps to no known window.
	ErrWindowNotFound = errors.New("tmux window not found")

	// ErrInvalidTarget is returned when a tmux target specification is invalid.
	ErrInvalidTarget = errors.New("invalid tmux target specification")

	// ErrUnexpectedOutput is returned when tmux output does not match the
	// requested format.
	ErrUnexpectedOutput = errors.New("unexpected tmux output")
)
