// Package errors defines the structured errors returned by the Seax compiler.
package errors

import "errors"

// Kind is the category of a compile error.
type Kind int

const (
	// MalformedForm indicates a special form with the wrong operand count
	// or shape, such as an if with two operands.
	MalformedForm Kind = iota + 1
	// UnboundIdentifier indicates a name that is neither a primitive nor
	// bound in any enclosing scope.
	UnboundIdentifier
	// Unimplemented indicates a construct the compiler does not support yet.
	Unimplemented
)

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case MalformedForm:
		return "malformed form"
	case UnboundIdentifier:
		return "unbound identifier"
	case Unimplemented:
		return "unimplemented"
	default:
		return "error"
	}
}

// Sentinel errors matching each kind, for use with errors.Is.
var (
	ErrMalformed     = errors.New("malformed form")
	ErrUnbound       = errors.New("unbound identifier")
	ErrUnimplemented = errors.New("unimplemented")
)

func (k Kind) sentinel() error {
	switch k {
	case MalformedForm:
		return ErrMalformed
	case UnboundIdentifier:
		return ErrUnbound
	case Unimplemented:
		return ErrUnimplemented
	default:
		return nil
	}
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// As is errors.As from the standard library, re-exported so callers that
// import this package do not also need the standard one.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is is errors.Is from the standard library.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
