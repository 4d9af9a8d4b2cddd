package dbrt

import (
	"errors"
)

var (
	// ErrReleased is returned when a released statement is executed.
	ErrReleased = errors.New("statement already released")
	// ErrNoTransaction is returned when a transaction is ended that was not begun.
	ErrNoTransaction = errors.New("no transaction in progress")
)

// Error is the single error kind returned by generated methods. It carries
// the underlying data-access failure.
type Error struct {
	Cause error
}

func (e *Error) Error() string {
	return "dbrt: " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Translate wraps err into an *Error. nil stays nil and an error that
// already is an *Error is returned as is.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}

	return &Error{Cause: err}
}
