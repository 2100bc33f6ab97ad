package llm

import (
	"fmt"
	"time"
)

// ErrHTTPStatus indicates the generation endpoint answered with a
// non-success HTTP status. The body is captured for operator logs.
type ErrHTTPStatus struct {
	StatusCode int
	Body       string
}

func (e *ErrHTTPStatus) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("generation endpoint returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("generation endpoint returned HTTP %d: %s", e.StatusCode, e.Body)
}

// ErrUnavailable indicates the endpoint is down, unreachable, or the
// request timed out before a status line arrived.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation endpoint unavailable: %v", e.Err)
	}
	return "generation endpoint unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the model returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content string
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid model response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }
