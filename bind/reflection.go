package bind

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
	"unsafe"

	"github.com/signadot/databind/tree"
)

type getter func(v reflect.Value) reflect.Value

// reflectModel binds a type to a mapping with one entry per parameter.
// Parameters come from a binding constructor or from struct fields.
type reflectModel struct {
	typ    reflect.Type
	params []Parameter
	get    []getter
	build  func(args []reflect.Value, ctx *Context) (reflect.Value, error)
	source string
}

func (m *reflectModel) Type() reflect.Type { return m.typ }

func (m *reflectModel) Parameters() []Parameter { return paramsCopy(m.params) }

func (m *reflectModel) WriteValue(v reflect.Value, ctx *Context) (*tree.Node, error) {
	v, ok := conform(v, m.typ)
	if !ok {
		return nil, &MarshalError{Path: ctx.Path(), Message: fmt.Sprintf("cannot write %s with the model for %s", v.Type(), m.typ)}
	}
	res := tree.NewMapping()
	for i, p := range m.params {
		sub := ctx.At(p.Name)
		fv, ok := conform(m.get[i](v), p.Type)
		if !ok {
			return nil, &MarshalError{Path: sub.Path(), Message: fmt.Sprintf("accessor result %s is not a %s", fv.Type(), p.Type)}
		}
		node, err := sub.writeAs(p.Type, fv)
		if err != nil {
			return nil, err
		}
		res.Put(p.Name, node)
	}
	return res, nil
}

func (m *reflectModel) ReadValue(n *tree.Node, ctx *Context) (reflect.Value, error) {
	mp, err := n.AsMapping()
	if err != nil {
		return reflect.Value{}, err
	}
	args := make([]reflect.Value, len(m.params))
	for i, p := range m.params {
		child, ok := mp.Lookup(p.Name)
		if !ok {
			if p.Optional {
				args[i] = reflect.Zero(p.Type)
				continue
			}
			return reflect.Value{}, &tree.MissingFieldError{Path: n.Path(), Key: p.Name}
		}
		av, err := ctx.At(p.Name).ReadValue(p.Type, child)
		if err != nil {
			return reflect.Value{}, err
		}
		args[i] = av
	}
	return m.build(args, ctx)
}

// structModel derives parameters from the exported fields of a struct.
func structModel(t reflect.Type) (*reflectModel, error) {
	fields, err := structFields(t, nil)
	if err != nil {
		return nil, err
	}
	seen := map[string]string{}
	m := &reflectModel{typ: t, source: "fields"}
	for _, f := range fields {
		if prev, dup := seen[f.name]; dup {
			return nil, fmt.Errorf("fields %s and %s both bind key %q", prev, f.goName, f.name)
		}
		seen[f.name] = f.goName
		m.params = append(m.params, Parameter{Name: f.name, Type: f.typ, Optional: f.optional})
		index := f.index
		m.get = append(m.get, func(v reflect.Value) reflect.Value {
			return v.FieldByIndex(index)
		})
	}
	m.build = func(args []reflect.Value, _ *Context) (reflect.Value, error) {
		res := reflect.New(t).Elem()
		for i, f := range fields {
			res.FieldByIndex(f.index).Set(args[i])
		}
		return res, nil
	}
	return m, nil
}

type structField struct {
	name     string
	goName   string
	index    []int
	typ      reflect.Type
	optional bool
}

func structFields(t reflect.Type, index []int) ([]structField, error) {
	var res []structField
	for i := range t.NumField() {
		f := t.Field(i)
		tag, err := parseTag(f.Tag.Get("bind"))
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t, f.Name, err)
		}
		if tag.Omit {
			continue
		}
		idx := append(append([]int(nil), index...), i)
		if f.Anonymous && tag.Field == "" && f.Type.Kind() == reflect.Struct {
			sub, err := structFields(f.Type, idx)
			if err != nil {
				return nil, err
			}
			res = append(res, sub...)
			continue
		}
		if !f.IsExported() {
			continue
		}
		name := tag.Field
		if name == "" {
			name = f.Name
		}
		res = append(res, structField{
			name:     name,
			goName:   f.Name,
			index:    idx,
			typ:      f.Type,
			optional: tag.Optional,
		})
	}
	return res, nil
}

// constructor is a registered binding constructor. Its inputs are the
// parameters of the bound type, read back from values through accessors.
type constructor struct {
	fn     reflect.Value
	typ    reflect.Type
	params []Parameter
	get    []getter
	ptrOut bool
	errOut bool
}

var errorType = reflect.TypeFor[error]()

func newConstructor(fn any, names []string) (*constructor, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, fmt.Errorf("%w: %T is not a function", ErrBadConstructor, fn)
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		return nil, fmt.Errorf("%w: %s is variadic", ErrBadConstructor, ft)
	}
	if ft.NumIn() != len(names) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d names", ErrBadConstructor, ft, ft.NumIn(), len(names))
	}
	c := &constructor{fn: fv}
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorType {
			return nil, fmt.Errorf("%w: second result of %s must be error", ErrBadConstructor, ft)
		}
		c.errOut = true
	default:
		return nil, fmt.Errorf("%w: %s must return T, *T, (T, error) or (*T, error)", ErrBadConstructor, ft)
	}
	c.typ = ft.Out(0)
	if c.typ.Kind() == reflect.Pointer {
		c.typ = c.typ.Elem()
		c.ptrOut = true
	}
	switch c.typ.Kind() {
	case reflect.Pointer, reflect.Interface:
		return nil, fmt.Errorf("%w: %s does not construct a concrete type", ErrBadConstructor, ft)
	}
	seen := map[string]bool{}
	for i, decl := range names {
		name, optional, err := parseParamName(decl)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadConstructor, err)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate parameter %q", ErrBadConstructor, name)
		}
		seen[name] = true
		p := Parameter{Name: name, Type: ft.In(i), Optional: optional}
		get, err := findAccessor(c.typ, p)
		if err != nil {
			return nil, err
		}
		c.params = append(c.params, p)
		c.get = append(c.get, get)
	}
	return c, nil
}

func (c *constructor) model() *reflectModel {
	return &reflectModel{
		typ:    c.typ,
		params: c.params,
		get:    c.get,
		build:  c.call,
		source: "constructor",
	}
}

func (c *constructor) call(args []reflect.Value, ctx *Context) (reflect.Value, error) {
	out := c.fn.Call(args)
	if c.errOut && !out[1].IsNil() {
		return reflect.Value{}, &UnmarshalError{
			Path:    ctx.Path(),
			Message: fmt.Sprintf("constructor for %s failed", c.typ),
			Err:     out[1].Interface().(error),
		}
	}
	res := out[0]
	if c.ptrOut {
		if res.IsNil() {
			return reflect.Value{}, &UnmarshalError{
				Path:    ctx.Path(),
				Message: fmt.Sprintf("constructor for %s returned nil", c.typ),
			}
		}
		res = res.Elem()
	}
	return res, nil
}

// findAccessor locates how to read parameter p back from a value of type t:
// a method P(), IsP() or GetP(), else a field named p ignoring case.
func findAccessor(t reflect.Type, p Parameter) (getter, error) {
	exported := upperFirst(p.Name)
	pt := reflect.PointerTo(t)
	for _, name := range []string{exported, "Is" + exported, "Get" + exported} {
		meth, ok := pt.MethodByName(name)
		if !ok {
			continue
		}
		mt := meth.Type
		if mt.NumIn() != 1 || mt.NumOut() != 1 || !mt.Out(0).AssignableTo(p.Type) {
			continue
		}
		idx := meth.Index
		return func(v reflect.Value) reflect.Value {
			return addressable(v).Method(idx).Call(nil)[0]
		}, nil
	}
	if t.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(t) {
			if !strings.EqualFold(f.Name, p.Name) || !f.Type.AssignableTo(p.Type) || throughPointer(t, f.Index) {
				continue
			}
			index := f.Index
			return func(v reflect.Value) reflect.Value {
				fv := addressable(v).Elem().FieldByIndex(index)
				if !fv.CanInterface() {
					fv = reflect.NewAt(fv.Type(), unsafe.Pointer(fv.UnsafeAddr())).Elem()
				}
				return fv
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: no accessor for parameter %q of %s (want method %s, Is%s or Get%s, or a field)",
		ErrBadConstructor, p.Name, t, exported, exported, exported)
}

func throughPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Pointer {
			return true
		}
		t = f.Type
	}
	return false
}

// addressable returns a pointer to v, copying v when it is not addressable.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v.Addr()
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
