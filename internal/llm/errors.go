package llm

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoCredentials is returned by NewClient when no API key is configured.
	ErrNoCredentials = errors.New("llm: at least one API key is required")

	// ErrGenerationExhausted matches every *ExhaustedError.
	ErrGenerationExhausted = errors.New("llm: all API keys exhausted")
)

// Outcome classifies a single request to the generation service.
type Outcome string

const (
	OutcomeOK                Outcome = "ok"
	OutcomeRateLimited       Outcome = "rate_limited"
	OutcomeTransportError    Outcome = "transport_error"
	OutcomeMalformedResponse Outcome = "malformed_response"
)

// RateLimitError indicates a 429 or 403 (quota) response. RetryAfter is the
// server suggested delay, zero when the response carried none.
type RateLimitError struct {
	StatusCode int
	RetryAfter time.Duration
	Body       string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (status %d, retry after %s)", e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited (status %d)", e.StatusCode)
}

// RequestError covers transport failures and non-success statuses other than
// rate limiting. StatusCode is zero for transport failures.
type RequestError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("generation request failed (status %d): %v", e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("generation request failed (status %d): %s", e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("generation request failed: %v", e.Err)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// MalformedResponseError indicates a successful status whose payload did not
// contain generated text.
type MalformedResponseError struct {
	Body string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed generation response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Attempt records one request made while serving a Generate call.
type Attempt struct {
	Credential string // masked
	Outcome    Outcome
	Err        error
}

// ExhaustedError is returned when every configured key failed.
type ExhaustedError struct {
	Attempts []Attempt
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all API keys failed after %d attempts, last error: %v", len(e.Attempts), e.Last)
}

func (e *ExhaustedError) Is(target error) bool { return target == ErrGenerationExhausted }

func (e *ExhaustedError) Unwrap() error { return e.Last }

func outcomeOf(err error) Outcome {
	var rl *RateLimitError
	var mal *MalformedResponseError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &rl):
		return OutcomeRateLimited
	case errors.As(err, &mal):
		return OutcomeMalformedResponse
	default:
		return OutcomeTransportError
	}
}
