package prompt

import "errors"

var (
	// ErrCancelled signals the user dismissed the prompt (e.g. Ctrl+C).
	ErrCancelled = errors.New("prompt: cancelled")
)
