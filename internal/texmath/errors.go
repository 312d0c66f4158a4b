package texmath

import (
	"errors"
	"fmt"
)

// Sentinel errors reported in strict mode.
var (
	ErrUnknownCommand      = errors.New("unknown command")
	ErrUnknownEnvironment  = errors.New("unknown environment")
	ErrUnbalancedBraces    = errors.New("unbalanced braces")
	ErrMissingArgument     = errors.New("missing argument")
	ErrEnvironmentMismatch = errors.New("environment mismatch")
	ErrUnexpectedToken     = errors.New("unexpected token")
	ErrTooDeep             = errors.New("expression nested too deeply")
	ErrInputTooLarge       = errors.New("expression too large")
)

// ParseError locates a strict-mode failure in the expression source.
type ParseError struct {
	Pos    int
	Err    error
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %s at offset %d", e.Err, e.Detail, e.Pos)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
