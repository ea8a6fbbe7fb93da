package provider

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a single-article lookup matched nothing. An empty
// result set from a provider is not a failure, it is this outcome.
var ErrNotFound = errors.New("article not found")

// ClientInputError marks failures caused by what the caller sent (unknown
// source discriminator, missing parameter, invalid stored preferences). The
// HTTP layer maps it to 400.
type ClientInputError struct {
	Message string
}

func (e *ClientInputError) Error() string {
	return e.Message
}

func NewClientInputError(format string, args ...interface{}) *ClientInputError {
	return &ClientInputError{Message: fmt.Sprintf(format, args...)}
}

// UnsupportedSourceError is a programming-contract violation: a source value
// inside the closed enum reached a dispatch point that has no adapter for
// it. Validated user input can never produce this.
type UnsupportedSourceError struct {
	Source Source
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("no adapter registered for source %q", e.Source)
}

// FailureReason distinguishes the three ways an upstream call can go wrong.
type FailureReason string

const (
	ReasonNetwork FailureReason = "network"
	ReasonStatus  FailureReason = "status"
	ReasonDecode  FailureReason = "decode"
)

// ProviderError wraps any upstream failure with enough context to diagnose
// it: which provider, why, and the raw status/body when one was received.
type ProviderError struct {
	Source     Source
	Reason     FailureReason
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	switch e.Reason {
	case ReasonStatus:
		return fmt.Sprintf("provider %s returned status %d: %s", e.Source, e.StatusCode, e.Body)
	case ReasonDecode:
		return fmt.Sprintf("provider %s returned unparseable body: %v", e.Source, e.Err)
	default:
		return fmt.Sprintf("provider %s request failed: %v", e.Source, e.Err)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
