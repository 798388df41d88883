package agent

import (
	"errors"
	"fmt"
)

// ErrNoAPIKey is returned before any model call when no backend credential
// is configured.
var ErrNoAPIKey = errors.New("GROQ_API_KEY is not configured; add it to your config or environment and restart")

// QuotaExhaustedError means every candidate in the model cascade reported a
// rate/quota limit. Tried is the number of candidates attempted.
type QuotaExhaustedError struct {
	Tried int
}

func (e *QuotaExhaustedError) Error() string {
	return fmt.Sprintf("all %d cascade models are rate-limited", e.Tried)
}

// BackendError wraps a non-quota backend failure (auth, malformed response,
// network). These are not recoverable by candidate substitution and fail
// the query immediately.
type BackendError struct {
	Model string
	Err   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("model backend failed (%s): %v", e.Model, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ExecutionFailedError means both the original execution and the single
// correction attempt failed. Detail is logged by the caller, never shown
// verbatim to the end user.
type ExecutionFailedError struct {
	Detail string
}

func (e *ExecutionFailedError) Error() string {
	return fmt.Sprintf("analysis execution failed after correction attempt: %s", e.Detail)
}
