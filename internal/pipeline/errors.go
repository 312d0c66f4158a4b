package pipeline

import "errors"

// Sentinel errors for pipeline stages.
var (
	// ErrHTMLConversion indicates HTML conversion failed.
	ErrHTMLConversion = errors.New("HTML conversion failed")
	// ErrMathResolution indicates the sanitized fragment could not be walked.
	ErrMathResolution = errors.New("math resolution failed")
)
