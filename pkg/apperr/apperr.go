// Package apperr defines the error type returned by domain operations.
// Every error carries the failing operation and a Kind so the API layer can
// report it without inspecting store or driver errors.
package apperr

import "errors"

type Kind uint8

const (
	Unknown Kind = iota
	Validation
	NotFound
	Credentials
	Conflict
	Store
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "VALIDATION"
	case NotFound:
		return "NOT_FOUND"
	case Credentials:
		return "INVALID_CREDENTIALS"
	case Conflict:
		return "CONFLICT"
	case Store:
		return "STORE"
	default:
		return "UNKNOWN"
	}
}

type Error struct {
	Op   string
	Kind Kind
	Err  error
}

// E builds an *Error. A nil err yields nil.
func E(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Extensions is picked up by the GraphQL executor and reported next to the
// error message.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Kind.String()}
}

// KindOf returns the Kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

func IsNotFound(err error) bool {
	return KindOf(err) == NotFound
}

func IsValidation(err error) bool {
	return KindOf(err) == Validation
}
