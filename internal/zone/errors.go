package zone

import (
	"errors"
	"fmt"
)

// Error kinds raised by the evaluator. Construction failures wrap one of
// these inside a LineError; query failures wrap ErrNotFound directly.
var (
	ErrSyntax        = errors.New("syntax error")
	ErrShape         = errors.New("invalid shape")
	ErrReference     = errors.New("unknown zone")
	ErrEmptyResult   = errors.New("empty result")
	ErrDuplicateName = errors.New("duplicate zone name")
	ErrNotFound      = errors.New("zone not found")
)

// LineError attributes a construction failure to a 1-based source line.
type LineError struct {
	Line int
	Kind error
	Msg  string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *LineError) Unwrap() error { return e.Kind }

func lineErr(line int, kind error, format string, args ...any) *LineError {
	return &LineError{Line: line, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
