package domain

import "fmt"

// FetchError indicates the dataset could not be retrieved: the endpoint was
// unreachable or answered with a non-success status.
type FetchError struct {
	URL        string
	StatusCode int // 0 when the request never completed
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError indicates the downloaded content is not well-formed CSV.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse dataset: %v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError indicates an expected column is absent or has an unusable type.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: column %s %s", e.Column, e.Reason)
}

// ModelFitError indicates a regression could not be fit, typically because
// the input has fewer rows than free parameters.
type ModelFitError struct {
	Model  string
	Reason string
}

func (e *ModelFitError) Error() string {
	return fmt.Sprintf("fit %s: %s", e.Model, e.Reason)
}
