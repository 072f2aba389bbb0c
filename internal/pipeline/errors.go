package pipeline

import "fmt"

// InvalidInputError reports a payload that cannot start a run: malformed
// JSON, a missing or empty beardline, or bad parameter values. It is the
// only fatal error before mesh work begins and no partial output is
// written.
type InvalidInputError struct {
	Reason string
	Err    error
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Reason, e.Err)
	}
	return "invalid input: " + e.Reason
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

func invalidInput(reason string, err error) *InvalidInputError {
	return &InvalidInputError{Reason: reason, Err: err}
}

// ExportError reports a failed final export. The stats sidecar has already
// been written by the time export runs, so callers treat this as a partial
// success with the sidecar as the surviving artifact.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export to %s failed: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
