// Package errs classifies errors by who is to blame for them.
//
// Human errors are caused by bad input (a malformed manifest, conflicting
// dependency versions, a missing script) and are reported as a single line.
// Everything else is internal and may be reported with more detail.
package errs

import (
	"errors"
	"fmt"
)

type Blame int

const (
	BlameInternal Blame = iota
	BlameHuman
)

func (b Blame) String() string {
	if b == BlameHuman {
		return "human"
	}
	return "internal"
}

// Error attaches a Blame to an underlying error.
type Error struct {
	Blame Blame
	Err   error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Human marks err as caused by user input. A nil err stays nil.
func Human(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Blame: BlameHuman, Err: err}
}

// Humanf formats a new human-blamed error.
func Humanf(format string, args ...any) error {
	return &Error{Blame: BlameHuman, Err: fmt.Errorf(format, args...)}
}

// BlameOf reports the outermost blame recorded on err's chain.
// Errors without a recorded blame are internal.
func BlameOf(err error) Blame {
	var e *Error
	if errors.As(err, &e) {
		return e.Blame
	}
	var h interface{ HumanError() bool }
	if errors.As(err, &h) && h.HumanError() {
		return BlameHuman
	}
	return BlameInternal
}

// IsHuman reports whether err should be shown to the user as a one-line message.
func IsHuman(err error) bool {
	return BlameOf(err) == BlameHuman
}
