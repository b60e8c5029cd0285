package tree

import (
	"errors"
	"fmt"
)

var (
	ErrTypeMismatch = errors.New("type mismatch")
	ErrMissingField = errors.New("missing field")
)

// TypeMismatchError reports a node whose variant (or scalar content) is not
// what the reader asked for.
type TypeMismatchError struct {
	Path string
	Want string
	Got  string
	Err  error
}

func (e *TypeMismatchError) Error() string {
	msg := fmt.Sprintf("expected %s, got %s", e.Want, e.Got)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("type mismatch at %s: %s", e.Path, msg)
	}
	return "type mismatch: " + msg
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

func (e *TypeMismatchError) Unwrap() error { return e.Err }

// MissingFieldError reports a required mapping key that is absent.
type MissingFieldError struct {
	Path string
	Key  string
}

func (e *MissingFieldError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("missing field %q at %s", e.Key, e.Path)
	}
	return fmt.Sprintf("missing field %q", e.Key)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

func mismatch(n *Node, want string) *TypeMismatchError {
	return &TypeMismatchError{Path: n.Path(), Want: want, Got: n.describe()}
}
