package ocr

import (
	"errors"
	"fmt"
)

// ErrFilenameCountMismatch means the predictor produced a different number of
// pages than there are filenames to attribute them to.
var ErrFilenameCountMismatch = errors.New("filename count mismatch")

// InputError marks failures caused by the client: unreadable uploads,
// unsupported file types or invalid predictor options.
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return e.Err.Error()
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// InputErrorf formats an InputError
func InputErrorf(format string, args ...any) error {
	return &InputError{Err: fmt.Errorf(format, args...)}
}

// IsInputError reports whether err, or anything it wraps, is an InputError
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
