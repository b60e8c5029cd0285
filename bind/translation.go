package bind

import (
	"reflect"

	"github.com/signadot/databind/tree"
)

// Translation is implemented by models which bind a type through another
// resource type.
type Translation interface {
	Model
	Resource() reflect.Type
}

// Translate binds T by converting it to and from a resource type U, which
// is in turn bound by whatever model the Registry resolves for U. The
// conversion may be lossy.
func Translate[T, U any](toModel func(U) T, toResource func(T) U) DataModel[T] {
	return &translateModel[T, U]{
		funcModel: funcModel[T]{
			typ: reflect.TypeFor[T](),
			write: func(v T, ctx *Context) (*tree.Node, error) {
				return Write(ctx, toResource(v))
			},
			read: func(n *tree.Node, ctx *Context) (T, error) {
				u, err := Read[U](ctx, n)
				if err != nil {
					var zero T
					return zero, err
				}
				return toModel(u), nil
			},
		},
	}
}

type translateModel[T, U any] struct {
	funcModel[T]
}

func (m *translateModel[T, U]) Resource() reflect.Type { return reflect.TypeFor[U]() }

// ResourceParameters returns the parameters of the resource type of m when
// m is a Translation, otherwise those of m.
func ResourceParameters(reg *Registry, m Model) ([]Parameter, error) {
	tm, ok := m.(Translation)
	if !ok {
		return m.Parameters(), nil
	}
	rm, err := reg.Resolve(tm.Resource())
	if err != nil {
		return nil, err
	}
	return ResourceParameters(reg, rm)
}
