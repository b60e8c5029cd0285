package bind

import (
	"fmt"
	"reflect"

	"github.com/signadot/databind/tree"
)

// Binder is a hand written binding for T.
type Binder[T any] interface {
	Write(v T, ctx *Context) (*tree.Node, error)
	Read(n *tree.Node, ctx *Context) (T, error)
}

// Custom wraps b as a model for T. params describe the keys b writes and
// are informational.
func Custom[T any](b Binder[T], params ...Parameter) DataModel[T] {
	return CustomFunc(b.Write, b.Read, params...)
}

// CustomFunc is Custom for a pair of functions.
func CustomFunc[T any](
	write func(v T, ctx *Context) (*tree.Node, error),
	read func(n *tree.Node, ctx *Context) (T, error),
	params ...Parameter,
) DataModel[T] {
	return &funcModel[T]{
		typ:    reflect.TypeFor[T](),
		params: paramsCopy(params),
		write:  write,
		read:   read,
	}
}

type funcModel[T any] struct {
	typ    reflect.Type
	params []Parameter
	write  func(T, *Context) (*tree.Node, error)
	read   func(*tree.Node, *Context) (T, error)
}

func (m *funcModel[T]) Type() reflect.Type { return m.typ }

func (m *funcModel[T]) Parameters() []Parameter { return paramsCopy(m.params) }

func (m *funcModel[T]) Write(v T, ctx *Context) (*tree.Node, error) {
	return m.write(v, ctx)
}

func (m *funcModel[T]) Read(n *tree.Node, ctx *Context) (T, error) {
	return m.read(n, ctx)
}

func (m *funcModel[T]) WriteValue(v reflect.Value, ctx *Context) (*tree.Node, error) {
	cv, ok := conform(v, m.typ)
	if !ok {
		return nil, &MarshalError{Path: ctx.Path(), Message: fmt.Sprintf("cannot write %s with the model for %s", v.Type(), m.typ)}
	}
	return m.write(fromValue[T](cv), ctx)
}

func (m *funcModel[T]) ReadValue(n *tree.Node, ctx *Context) (reflect.Value, error) {
	v, err := m.read(n, ctx)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(&v).Elem(), nil
}

// ByReflection returns the reflection model of T, bypassing declared models
// and factories. Custom binders use it to delegate after remapping keys.
func ByReflection[T any](ctx *Context) (DataModel[T], error) {
	m, err := ctx.reg.reflection(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return Typed[T](m)
}
