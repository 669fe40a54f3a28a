package dispatch

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed dispatch outcome.
type ErrorKind string

const (
	// KindValidation covers malformed requests rejected before any analysis.
	KindValidation ErrorKind = "validation"
	// KindUnsupportedLanguage covers language tags outside the supported set.
	KindUnsupportedLanguage ErrorKind = "unsupported_language"
	// KindDelegateFailure covers any failure reported by the model delegate:
	// timeout, quota, remote error, or malformed output.
	KindDelegateFailure ErrorKind = "delegate_failure"
)

// Error is a terminal dispatch failure. The message is safe to surface to
// the caller.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts a dispatch *Error from err, if present.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func validationErr(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func unsupportedErr(msg string) *Error {
	return &Error{Kind: KindUnsupportedLanguage, Message: msg}
}

func delegateErr(msg string, err error) *Error {
	return &Error{Kind: KindDelegateFailure, Message: msg, Err: err}
}
