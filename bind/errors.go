package bind

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrResolution           = errors.New("model resolution failed")
	ErrAmbiguousConstructor = errors.New("ambiguous binding constructor")
	ErrDuplicateModel       = errors.New("duplicate model")
	ErrBadConstructor       = errors.New("bad binding constructor")
)

// ResolutionError reports that no model could be produced for a type, or
// that a factory failed while producing one.
type ResolutionError struct {
	Type    reflect.Type
	Factory string // empty unless a factory failed
	Message string
	Err     error
}

func (e *ResolutionError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Factory != "" {
		return fmt.Sprintf("cannot resolve model for %s (factory %s): %s", e.Type, e.Factory, msg)
	}
	return fmt.Sprintf("cannot resolve model for %s: %s", e.Type, msg)
}

func (e *ResolutionError) Is(target error) bool { return target == ErrResolution }

func (e *ResolutionError) Unwrap() error { return e.Err }

// AmbiguousConstructorError reports a second binding constructor for a type.
type AmbiguousConstructorError struct {
	Type     reflect.Type
	Existing reflect.Type
	Added    reflect.Type
}

func (e *AmbiguousConstructorError) Error() string {
	return fmt.Sprintf("ambiguous binding constructor for %s: %s already registered, got %s", e.Type, e.Existing, e.Added)
}

func (e *AmbiguousConstructorError) Is(target error) bool { return target == ErrAmbiguousConstructor }

// MarshalError represents an error while writing a value.
type MarshalError struct {
	Path    string
	Message string
	Err     error
}

func (e *MarshalError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("marshal error at %s: %s", e.Path, msg)
	}
	return "marshal error: " + msg
}

func (e *MarshalError) Unwrap() error { return e.Err }

// UnmarshalError represents an error while reading a value which is not a
// shape problem of the tree itself, such as a failing constructor.
type UnmarshalError struct {
	Path    string
	Message string
	Err     error
}

func (e *UnmarshalError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("unmarshal error at %s: %s", e.Path, msg)
	}
	return "unmarshal error: " + msg
}

func (e *UnmarshalError) Unwrap() error { return e.Err }
