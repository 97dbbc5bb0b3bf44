package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds. Every typed error below matches exactly one of these via errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrUpstream      = errors.New("upstream request failed")
	ErrPartialWrite  = errors.New("partial write")
	ErrUnknownAction = errors.New("unknown action")
	ErrUnknownScope  = errors.New("unknown scope")
)

// ValidationError reports caller input that was rejected before any network call.
type ValidationError struct {
	Message string
	// Missing names mandatory parameters that were absent or empty.
	Missing []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required parameter(s): %s", strings.Join(e.Missing, ", "))
	}
	return e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UpstreamFailureKind distinguishes how an upstream call failed.
type UpstreamFailureKind string

const (
	UpstreamTransport UpstreamFailureKind = "transport"
	UpstreamStatus    UpstreamFailureKind = "status"
	UpstreamDecode    UpstreamFailureKind = "decode"
)

// UpstreamError is a failed call to the Freshservice API. StatusCode and
// Body are set whenever a response was received.
type UpstreamError struct {
	Kind       UpstreamFailureKind
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case UpstreamStatus:
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
	case UpstreamDecode:
		return fmt.Sprintf("%s %s: malformed response body (HTTP %d): %v", e.Method, e.Path, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// PartialWriteError reports that the first call of a multi-step write
// created an instance but a follow-up call did not complete. ID is the
// identifier of the created instance so the caller can finish the write
// with an update instead of creating a duplicate.
type PartialWriteError struct {
	Resource       string
	ID             any
	CompletedSteps int
	FailedStep     int
	Err            error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%s %v created but follow-up step %d failed: %v", e.Resource, e.ID, e.FailedStep, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

func (e *PartialWriteError) Is(target error) bool { return target == ErrPartialWrite }

// UnknownActionError reports an action not configured for a resource.
type UnknownActionError struct {
	Resource string
	Action   string
	Valid    []string
}

func (e *UnknownActionError) Error() string {
	if len(e.Valid) == 0 {
		return fmt.Sprintf("unknown resource '%s'", e.Resource)
	}
	return fmt.Sprintf("unknown action '%s' for %s. Valid: %s", e.Action, e.Resource, strings.Join(e.Valid, ", "))
}

func (e *UnknownActionError) Is(target error) bool { return target == ErrUnknownAction }

// UnknownScopeError reports scope names that are not registered.
type UnknownScopeError struct {
	Scopes []string
	Valid  []string
}

func (e *UnknownScopeError) Error() string {
	return fmt.Sprintf("unknown scope(s): %s (valid scopes: %s)", strings.Join(e.Scopes, ", "), strings.Join(e.Valid, ", "))
}

func (e *UnknownScopeError) Is(target error) bool { return target == ErrUnknownScope }
