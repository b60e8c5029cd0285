package bind

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/signadot/databind/tree"
)

// Parameter is a named, typed slot of a model's schema.
type Parameter struct {
	Name     string
	Type     reflect.Type
	Optional bool
}

// Param declares a required parameter of type T.
func Param[T any](name string) Parameter {
	return Parameter{Name: name, Type: reflect.TypeFor[T]()}
}

// OptionalParam declares a parameter which may be absent on read.
func OptionalParam[T any](name string) Parameter {
	return Parameter{Name: name, Type: reflect.TypeFor[T](), Optional: true}
}

func (p Parameter) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	b.WriteString(" ")
	b.WriteString(p.Type.String())
	if p.Optional {
		b.WriteString(" (optional)")
	}
	return b.String()
}

// Model is the type-erased form of a binding strategy for exactly one Go
// type. Models are immutable and safe for concurrent use.
type Model interface {
	Type() reflect.Type
	Parameters() []Parameter
	WriteValue(v reflect.Value, ctx *Context) (*tree.Node, error)
	ReadValue(n *tree.Node, ctx *Context) (reflect.Value, error)
}

// DataModel is a Model with typed Write and Read.
type DataModel[T any] interface {
	Model
	Write(v T, ctx *Context) (*tree.Node, error)
	Read(n *tree.Node, ctx *Context) (T, error)
}

// Typed adapts m to a DataModel[T]. It fails if m binds another type.
func Typed[T any](m Model) (DataModel[T], error) {
	if dm, ok := m.(DataModel[T]); ok {
		return dm, nil
	}
	want := reflect.TypeFor[T]()
	if m.Type() != want {
		return nil, fmt.Errorf("model for %s cannot bind %s", m.Type(), want)
	}
	return &typedModel[T]{Model: m}, nil
}

type typedModel[T any] struct {
	Model
}

func (m *typedModel[T]) Write(v T, ctx *Context) (*tree.Node, error) {
	return m.WriteValue(reflect.ValueOf(&v).Elem(), ctx)
}

func (m *typedModel[T]) Read(n *tree.Node, ctx *Context) (T, error) {
	rv, err := m.ReadValue(n, ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return fromValue[T](rv), nil
}

func fromValue[T any](v reflect.Value) T {
	var zero T
	if !v.IsValid() {
		return zero
	}
	if t, ok := v.Interface().(T); ok {
		return t
	}
	return zero
}

func paramsCopy(ps []Parameter) []Parameter {
	if len(ps) == 0 {
		return nil
	}
	res := make([]Parameter, len(ps))
	copy(res, ps)
	return res
}

// conform returns v as a value of type t when v's type is assignable to t.
func conform(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	if !v.IsValid() {
		return reflect.Zero(t), true
	}
	if v.Type() == t {
		return v, true
	}
	if v.Type().AssignableTo(t) {
		res := reflect.New(t).Elem()
		res.Set(v)
		return res, true
	}
	return v, false
}
