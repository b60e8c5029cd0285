package bind

import (
	"log/slog"
	"reflect"
	"slices"
	"strconv"

	"github.com/signadot/databind/tree"
)

// Context is threaded through every Write and Read. It gives models access
// to the Registry for nested values and tracks the path of the value being
// bound. Contexts are immutable: At and Index return derived contexts.
type Context struct {
	reg    *Registry
	log    *slog.Logger
	parent *Context
	seg    string
	ptr    ptrKey
}

// ptrKey identifies a pointer being written. A struct and its first field
// share an address, so the type is part of the key.
type ptrKey struct {
	typ reflect.Type
	p   uintptr
}

// NewContext returns a root context for reg.
func NewContext(reg *Registry) *Context {
	return &Context{reg: reg, log: reg.log}
}

func (c *Context) Registry() *Registry { return c.reg }

func (c *Context) Logger() *slog.Logger { return c.log }

// At returns the context of the value under key.
func (c *Context) At(key string) *Context {
	return &Context{reg: c.reg, log: c.log, parent: c, seg: pathField(key)}
}

// Index returns the context of the i'th element of a sequence.
func (c *Context) Index(i int) *Context {
	return &Context{reg: c.reg, log: c.log, parent: c, seg: "[" + strconv.Itoa(i) + "]"}
}

// Path returns the location of the current value, e.g. "$.data[1].ripe".
func (c *Context) Path() string {
	var segs []string
	for x := c; x != nil; x = x.parent {
		if x.seg != "" {
			segs = append(segs, x.seg)
		}
	}
	slices.Reverse(segs)
	res := "$"
	for _, s := range segs {
		res += s
	}
	return res
}

// visiting reports whether the pointer v is being written by an enclosing
// context.
func (c *Context) visiting(v reflect.Value) bool {
	k := ptrKey{typ: v.Type(), p: v.Pointer()}
	for x := c; x != nil; x = x.parent {
		if x.ptr == k {
			return true
		}
	}
	return false
}

func (c *Context) enter(v reflect.Value) *Context {
	k := ptrKey{typ: v.Type(), p: v.Pointer()}
	return &Context{reg: c.reg, log: c.log, parent: c, ptr: k}
}

// WriteValue writes v with the model the Registry resolves for its type.
func (c *Context) WriteValue(v reflect.Value) (*tree.Node, error) {
	if !v.IsValid() {
		return tree.Null(), nil
	}
	return c.writeAs(v.Type(), v)
}

// writeAs writes v with the model of its declared type t.
func (c *Context) writeAs(t reflect.Type, v reflect.Value) (*tree.Node, error) {
	m, err := c.reg.Resolve(t)
	if err != nil {
		return nil, err
	}
	return m.WriteValue(v, c)
}

// ReadValue reads a value of type t from n with the model the Registry
// resolves for t.
func (c *Context) ReadValue(t reflect.Type, n *tree.Node) (reflect.Value, error) {
	m, err := c.reg.Resolve(t)
	if err != nil {
		return reflect.Value{}, err
	}
	return m.ReadValue(n, c)
}

// Write writes v through the model resolved for T in ctx's Registry.
func Write[T any](ctx *Context, v T) (*tree.Node, error) {
	m, err := Resolve[T](ctx.reg)
	if err != nil {
		return nil, err
	}
	return m.Write(v, ctx)
}

// Read reads a T from n through the model resolved for T in ctx's Registry.
func Read[T any](ctx *Context, n *tree.Node) (T, error) {
	m, err := Resolve[T](ctx.reg)
	if err != nil {
		var zero T
		return zero, err
	}
	return m.Read(n, ctx)
}

// Marshal writes v in a fresh root context of reg.
func Marshal[T any](reg *Registry, v T) (*tree.Node, error) {
	return Write(NewContext(reg), v)
}

// Unmarshal reads a T from n in a fresh root context of reg.
func Unmarshal[T any](reg *Registry, n *tree.Node) (T, error) {
	return Read[T](NewContext(reg), n)
}

func pathField(f string) string {
	plain := f != ""
	for _, r := range f {
		if !(r == '_' || r == '-' || r == '$' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			plain = false
			break
		}
	}
	if plain {
		return "." + f
	}
	return "[" + strconv.Quote(f) + "]"
}
