package bind

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"

	"github.com/signadot/databind/tree"
)

var (
	nodeType            = reflect.TypeFor[*tree.Node]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

	errOverflow = errors.New("value out of range")
)

// builtinModel returns the model for a type which is not a struct. It
// returns nil for structs.
func builtinModel(t reflect.Type) (Model, error) {
	if t == nodeType {
		return nodeModel{}, nil
	}
	if isText(t) {
		return textModel{typ: t}, nil
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return scalarModel{typ: t}, nil
	case reflect.Slice:
		return sliceModel{typ: t}, nil
	case reflect.Array:
		return arrayModel{typ: t}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map keys must be strings, got %s", t.Key())
		}
		return mapModel{typ: t}, nil
	case reflect.Pointer:
		return pointerModel{typ: t}, nil
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return nil, fmt.Errorf("interface %s needs a registered model or factory", t)
		}
		return anyModel{typ: t}, nil
	case reflect.Struct:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported kind %s", t.Kind())
	}
}

func isText(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
		return false
	}
	pt := reflect.PointerTo(t)
	return (t.Implements(textMarshalerType) || pt.Implements(textMarshalerType)) && pt.Implements(textUnmarshalerType)
}

type scalarModel struct{ typ reflect.Type }

func (m scalarModel) Type() reflect.Type      { return m.typ }
func (m scalarModel) Parameters() []Parameter { return nil }

func (m scalarModel) WriteValue(v reflect.Value, ctx *Context) (*tree.Node, error) {
	switch m.typ.Kind() {
	case reflect.Bool:
		return tree.FromBool(v.Bool()), nil
	case reflect.String:
		return tree.FromString(v.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return tree.FromInt(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return tree.FromUint(v.Uint()), nil
	case reflect.Float32:
		return tree.FromFloat(float32(v.Float())), nil
	default:
		return tree.FromFloat(v.Float()), nil
	}
}

func (m scalarModel) ReadValue(n *tree.Node, ctx *Context) (reflect.Value, error) {
	res := reflect.New(m.typ).Elem()
	switch m.typ.Kind() {
	case reflect.Bool:
		b, err := n.Bool()
		if err != nil {
			return res, err
		}
		res.SetBool(b)
	case reflect.String:
		s, err := n.Text()
		if err != nil {
			return res, err
		}
		res.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := n.Int()
		if err != nil {
			return res, err
		}
		if res.OverflowInt(i) {
			return res, overflow(n, m.typ)
		}
		res.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := n.Uint()
		if err != nil {
			return res, err
		}
		if res.OverflowUint(u) {
			return res, overflow(n, m.typ)
		}
		res.SetUint(u)
	default:
		f, err := n.Float()
		if err != nil {
			return res, err
		}
		if res.OverflowFloat(f) {
			return res, overflow(n, m.typ)
		}
		res.SetFloat(f)
	}
	return res, nil
}

func overflow(n *tree.Node, t reflect.Type) error {
	return &tree.TypeMismatchError{Path: n.Path(), Want: t.String(), Got: strconv.Quote(n.Value), Err: errOverflow}
}

// textModel binds encoding.TextMarshaler types to string scalars.
type textModel struct{ typ reflect.Type }

func (m textModel) Type() reflect.Type      { return m.typ }
func (m textModel) Parameters() []Parameter { return nil }

func (m textModel) WriteValue(v reflect.Value, ctx *Context) (*tree.Node, error) {
	tm, ok := v.Interface().(encoding.TextMarshaler)
	if !ok {
		tm = addressable(v).Interface().(encoding.TextMarshaler)
	}
	text, err := tm.MarshalText()
	if err != nil {
		return nil, &MarshalError{Path: ctx.Path(), Message: "MarshalText failed", Err: err}
	}
	return tree.FromString(string(text)), nil
}

func (m textModel) ReadValue(n *tree.Node, ctx *Context) (reflect.Value, error) {
	s, err := n.Text()
	if err != nil {
		return reflect.Value{}, err
	}
	p := reflect.New(m.typ)
	if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		return reflect.Value{}, &tree.TypeMismatchError{Path: n.Path(), Want: m.typ.String(), Got: strconv.Quote(s), Err: err}
	}
	return p.Elem(), nil
}

type sliceModel struct{ typ reflect.Type }

func (m sliceModel) Type() reflect.Type      { return m.typ }
func (m sliceModel) Parameters() []Parameter { return nil }

func (m sliceModel) WriteValue(v reflect.Value, ctx *Context) (*tree.Node, error) {
	if v.IsNil() {
		return tree.Null(), nil
	}
	return writeElems(v, m.typ.Elem(), ctx)
}

func (m sliceModel) ReadValue(n *tree.Node, ctx *Context) (reflect.Value, error) {
	if n.IsNull() {
		return reflect.Zero(m.typ), nil
	}
	seq, err := n.AsSequence()
	if err != nil {
		return reflect.Value{}, err
	}
	res := reflect.MakeSlice(m.typ, len(seq.Values), len(seq.Values))
	return res, readElems(res, seq, ctx)
}

type arrayModel struct{ typ reflect.Type }

func (m arrayModel) Type() reflect.Type      { return m.typ }
func (m arrayModel) Parameters() []Parameter { return nil }

func (m arrayModel) WriteValue(v reflect.Value, ctx *Context) (*tree.Node, error) {
	return writeElems(v, m.typ.Elem(), ctx)
}

func (m arrayModel) ReadValue(n *tree.Node, ctx *Context) (reflect.Value, error) {
	seq, err := n.AsSequence()
	if err != nil {
		return reflect.Value{}, err
	}
	if len(seq.Values) != m.typ.Len() {
		return reflect.Value{}, &tree.TypeMismatchError{
			Path: n.Path(),
			Want: fmt.Sprintf("Sequence of length %d", m.typ.Len()),
			Got:  fmt.Sprintf("Sequence of length %d", len(seq.Values)),
		}
	}
	res := reflect.New(m.typ).Elem()
	return res, readElems(res, seq, ctx)
}

func writeElems(v reflect.Value, elem reflect.Type, ctx *Context) (*tree.Node, error) {
	res := tree.NewSequence()
	for i := range v.Len() {
		node, err := ctx.Index(i).writeAs(elem, v.Index(i))
		if err != nil {
			return nil, err
		}
		res.Append(node)
	}
	return res, nil
}

func readElems(dst reflect.Value, seq *tree.Node, ctx *Context) error {
	elem := dst.Type().Elem()
	for i, child := range seq.Values {
		ev, err := ctx.Index(i).ReadValue(elem, child)
		if err != nil {
			return err
		}
		dst.Index(i).Set(ev)
	}
	return nil
}

// mapModel binds string keyed maps to mappings with sorted keys.
type mapModel struct{ typ reflect.Type }

func (m mapModel) Type() reflect.Type      { return m.typ }
func (m mapModel) Parameters() []Parameter { return nil }

func (m mapModel) WriteValue(v reflect.Value, ctx *Context) (*tree.Node, error) {
	if v.IsNil() {
		return tree.Null(), nil
	}
	keys := v.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		}
		return 0
	})
	res := tree.NewMapping()
	for _, k := range keys {
		node, err := ctx.At(k.String()).writeAs(m.typ.Elem(), v.MapIndex(k))
		if err != nil {
			return nil, err
		}
		res.Put(k.String(), node)
	}
	return res, nil
}

func (m mapModel) ReadValue(n *tree.Node, ctx *Context) (reflect.Value, error) {
	if n.IsNull() {
		return reflect.Zero(m.typ), nil
	}
	mp, err := n.AsMapping()
	if err != nil {
		return reflect.Value{}, err
	}
	res := reflect.MakeMapWithSize(m.typ, len(mp.Fields))
	for i, f := range mp.Fields {
		ev, err := ctx.At(f).ReadValue(m.typ.Elem(), mp.Values[i])
		if err != nil {
			return reflect.Value{}, err
		}
		key := reflect.New(m.typ.Key()).Elem()
		key.SetString(f)
		res.SetMapIndex(key, ev)
	}
	return res, nil
}

// pointerModel writes nil as Null and otherwise the pointee.
type pointerModel struct{ typ reflect.Type }

func (m pointerModel) Type() reflect.Type      { return m.typ }
func (m pointerModel) Parameters() []Parameter { return nil }

func (m pointerModel) WriteValue(v reflect.Value, ctx *Context) (*tree.Node, error) {
	if v.IsNil() {
		return tree.Null(), nil
	}
	if ctx.visiting(v) {
		return nil, &MarshalError{Path: ctx.Path(), Message: fmt.Sprintf("circular reference through %s", m.typ)}
	}
	return ctx.enter(v).writeAs(m.typ.Elem(), v.Elem())
}

func (m pointerModel) ReadValue(n *tree.Node, ctx *Context) (reflect.Value, error) {
	if n.IsNull() {
		return reflect.Zero(m.typ), nil
	}
	ev, err := ctx.ReadValue(m.typ.Elem(), n)
	if err != nil {
		return reflect.Value{}, err
	}
	p := reflect.New(m.typ.Elem())
	p.Elem().Set(ev)
	return p, nil
}

// nodeModel binds *tree.Node to itself.
type nodeModel struct{}

func (nodeModel) Type() reflect.Type      { return nodeType }
func (nodeModel) Parameters() []Parameter { return nil }

func (nodeModel) WriteValue(v reflect.Value, ctx *Context) (*tree.Node, error) {
	n, _ := v.Interface().(*tree.Node)
	if n == nil {
		return tree.Null(), nil
	}
	return n.Clone(), nil
}

func (nodeModel) ReadValue(n *tree.Node, ctx *Context) (reflect.Value, error) {
	if n == nil {
		n = tree.Null()
	}
	return reflect.ValueOf(n.Clone()), nil
}

// anyModel writes the dynamic value of an empty interface and reads plain
// values.
type anyModel struct{ typ reflect.Type }

func (m anyModel) Type() reflect.Type      { return m.typ }
func (m anyModel) Parameters() []Parameter { return nil }

func (m anyModel) WriteValue(v reflect.Value, ctx *Context) (*tree.Node, error) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return tree.Null(), nil
		}
		v = v.Elem()
	}
	return ctx.WriteValue(v)
}

func (m anyModel) ReadValue(n *tree.Node, ctx *Context) (reflect.Value, error) {
	res := reflect.New(m.typ).Elem()
	if x := tree.ToAny(n); x != nil {
		res.Set(reflect.ValueOf(x))
	}
	return res, nil
}
