package domain

import (
	"errors"
	"fmt"
)

// ErrAnalysisUnavailable indicates the analysis delegate could not serve the
// request at all (unreachable, open circuit, or no usable response). Wrapped
// by *AnalysisError so callers can test with errors.Is.
var ErrAnalysisUnavailable = errors.New("analysis delegate unavailable")

// FetchError indicates a failure retrieving raw data from a remote source
// (network, timeout, auth, non-2xx status).
type FetchError struct {
	Source string // "modeldata", "visualcrossing"
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError indicates a source payload was retrieved but could not be decoded.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s payload: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError indicates a profile violated a SoundingProfile invariant.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid sounding profile: " + e.Reason
}

// AnalysisError indicates the analysis delegate failed or returned an
// unusable response.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
