package bind

import (
	"fmt"
	"reflect"

	"github.com/signadot/databind/tree"
)

// Exportable is a type with a stable public resource form U.
type Exportable[U any] interface {
	ToResource() U
}

// Resource is a resource form which converts back to its model type T.
type Resource[T any] interface {
	ToModel() T
}

// Exported is the translation model of an exportable type T with resource
// type U.
func Exported[T Exportable[U], U Resource[T]]() DataModel[T] {
	return Translate(
		func(u U) T { return u.ToModel() },
		func(t T) U { return t.ToResource() },
	)
}

// ExportableFactory binds any type T with a method ToResource() U where U
// (or *U) has a method ToModel() returning T or *T. The resource type comes
// from the method signature.
func ExportableFactory() Factory {
	return NewFactory("exportable", func(t reflect.Type, _ *Registry) (Model, error) {
		if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
			return nil, nil
		}
		toRes, ok := reflect.PointerTo(t).MethodByName("ToResource")
		if !ok || toRes.Type.NumIn() != 1 || toRes.Type.NumOut() != 1 {
			return nil, nil
		}
		res := toRes.Type.Out(0)
		base := res
		if base.Kind() == reflect.Pointer {
			base = base.Elem()
		}
		if base == t {
			return nil, fmt.Errorf("%s.ToResource returns its own type", t)
		}
		toModel, ok := reflect.PointerTo(base).MethodByName("ToModel")
		if !ok || toModel.Type.NumIn() != 1 || toModel.Type.NumOut() != 1 {
			return nil, nil
		}
		m := &exportModel{
			typ:     t,
			res:     res,
			toRes:   toRes.Index,
			toModel: toModel.Index,
		}
		switch toModel.Type.Out(0) {
		case t:
		case reflect.PointerTo(t):
			m.modelPtr = true
		default:
			return nil, nil
		}
		return m, nil
	})
}

type exportModel struct {
	typ      reflect.Type
	res      reflect.Type
	toRes    int
	toModel  int
	modelPtr bool
}

func (m *exportModel) Type() reflect.Type      { return m.typ }
func (m *exportModel) Parameters() []Parameter { return nil }
func (m *exportModel) Resource() reflect.Type  { return m.res }

func (m *exportModel) WriteValue(v reflect.Value, ctx *Context) (*tree.Node, error) {
	rv := addressable(v).Method(m.toRes).Call(nil)[0]
	return ctx.writeAs(m.res, rv)
}

func (m *exportModel) ReadValue(n *tree.Node, ctx *Context) (reflect.Value, error) {
	rv, err := ctx.ReadValue(m.res, n)
	if err != nil {
		return reflect.Value{}, err
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, &UnmarshalError{Path: ctx.Path(), Message: fmt.Sprintf("null %s", m.res)}
		}
		rv = rv.Elem()
	}
	out := addressable(rv).Method(m.toModel).Call(nil)[0]
	if m.modelPtr {
		if out.IsNil() {
			return reflect.Value{}, &UnmarshalError{Path: ctx.Path(), Message: fmt.Sprintf("%s.ToModel returned nil", m.res)}
		}
		out = out.Elem()
	}
	return out, nil
}
