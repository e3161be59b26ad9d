// Package apperr defines the error kinds services hand to the HTTP layer.
package apperr

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindExternal   Kind = "external_service"
	KindPersist    Kind = "persistence"
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg != "" {
		return e.Msg + ": " + e.Err.Error()
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, apperr.ErrNotFound) match on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrExternal   = &Error{Kind: KindExternal}
	ErrPersist    = &Error{Kind: KindPersist}
)

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(what string) error {
	return &Error{Kind: KindNotFound, Msg: what + " not found"}
}

func External(msg string, err error) error {
	return &Error{Kind: KindExternal, Msg: msg, Err: err}
}

func Persistence(msg string, err error) error {
	return &Error{Kind: KindPersist, Msg: msg, Err: err}
}

// FromDB translates a repository error: a missing row becomes NotFound(what),
// anything else Persistence. Errors already in the taxonomy pass through.
func FromDB(err error, what string) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != "" {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(what)
	}
	return Persistence(what, err)
}

// KindOf reports the kind of err, or "" for errors outside the taxonomy.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// Message is the client-safe text for err. Persistence details stay in logs.
func Message(err error) string {
	var ae *Error
	if !errors.As(err, &ae) {
		return "internal server error"
	}
	if ae.Kind == KindPersist {
		return "internal server error"
	}
	if ae.Kind == KindExternal {
		if ae.Msg != "" {
			return ae.Msg
		}
		return "upstream service unavailable"
	}
	return ae.Error()
}
