package bind

import (
	"reflect"

	"github.com/signadot/databind/tree"
)

// TreeMarshaler is implemented by types which write themselves.
type TreeMarshaler interface {
	MarshalTree(ctx *Context) (*tree.Node, error)
}

// TreeUnmarshaler is implemented by pointers to types which read
// themselves.
type TreeUnmarshaler interface {
	UnmarshalTree(n *tree.Node, ctx *Context) error
}

var (
	treeMarshalerType   = reflect.TypeFor[TreeMarshaler]()
	treeUnmarshalerType = reflect.TypeFor[TreeUnmarshaler]()
)

// MethodFactory binds types T where T or *T implements TreeMarshaler and *T
// implements TreeUnmarshaler.
func MethodFactory() Factory {
	return NewFactory("method", func(t reflect.Type, _ *Registry) (Model, error) {
		if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
			return nil, nil
		}
		pt := reflect.PointerTo(t)
		if !pt.Implements(treeMarshalerType) || !pt.Implements(treeUnmarshalerType) {
			return nil, nil
		}
		return methodModel{typ: t}, nil
	})
}

type methodModel struct{ typ reflect.Type }

func (m methodModel) Type() reflect.Type      { return m.typ }
func (m methodModel) Parameters() []Parameter { return nil }

func (m methodModel) WriteValue(v reflect.Value, ctx *Context) (*tree.Node, error) {
	if tm, ok := v.Interface().(TreeMarshaler); ok {
		return tm.MarshalTree(ctx)
	}
	return addressable(v).Interface().(TreeMarshaler).MarshalTree(ctx)
}

func (m methodModel) ReadValue(n *tree.Node, ctx *Context) (reflect.Value, error) {
	p := reflect.New(m.typ)
	if err := p.Interface().(TreeUnmarshaler).UnmarshalTree(n, ctx); err != nil {
		return reflect.Value{}, err
	}
	return p.Elem(), nil
}
