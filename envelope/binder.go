package envelope

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/signadot/databind/bind"
	"github.com/signadot/databind/debug"
	"github.com/signadot/databind/tree"
)

type options struct {
	tagger Tagger
	log    *slog.Logger
}

type Option func(*options)

// WithTagger selects how element names are written. The default is KeyTag.
func WithTagger(t Tagger) Option {
	return func(o *options) { o.tagger = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Binder writes and reads envelopes of T. Element models come from the
// Registry and element names from the Catalog.
type Binder[T any] struct {
	reg    *bind.Registry
	cat    *Catalog
	tagger Tagger
	log    *slog.Logger
}

func NewBinder[T any](reg *bind.Registry, cat *Catalog, opts ...Option) *Binder[T] {
	o := &options{tagger: KeyTag{}}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		if debug.Envelope() {
			o.log = debug.Logger()
		} else {
			o.log = debug.Discard()
		}
	}
	return &Binder[T]{reg: reg, cat: cat, tagger: o.tagger, log: o.log}
}

func (b *Binder[T]) Registry() *bind.Registry { return b.reg }
func (b *Binder[T]) Catalog() *Catalog        { return b.cat }

// Write produces {version: N, data: [...]}.
func (b *Binder[T]) Write(env Envelope[T]) (*tree.Node, error) {
	switch env.Version {
	case Version1:
		data, err := b.writeV1(env.Data)
		if err != nil {
			return nil, err
		}
		return tree.FromKeyVals([]tree.KeyVal{
			{Key: "version", Val: tree.FromInt(env.Version)},
			{Key: "data", Val: data},
		}), nil
	default:
		return nil, &UnsupportedVersionError{Version: int64(env.Version)}
	}
}

func (b *Binder[T]) writeV1(data []T) (*tree.Node, error) {
	ctx := b.reg.Context().At("data")
	res := tree.NewSequence()
	for i := range data {
		ectx := ctx.Index(i)
		v := reflect.ValueOf(&data[i]).Elem()
		if v.Kind() == reflect.Interface {
			if v.IsNil() {
				return nil, &bind.MarshalError{Path: ectx.Path(), Message: "nil element"}
			}
			v = v.Elem()
		}
		name, ok := b.cat.NameOf(v.Type())
		if !ok {
			return nil, &bind.ResolutionError{Type: v.Type(), Message: "type has no catalog name at " + ectx.Path()}
		}
		n, err := b.tagger.Within(ectx, name).WriteValue(v)
		if err != nil {
			return nil, err
		}
		tagged, err := b.tagger.Tag(name, n)
		if err != nil {
			return nil, &bind.MarshalError{Path: ectx.Path(), Message: "cannot tag element", Err: err}
		}
		b.log.Debug("wrote element", "path", ectx.Path(), "name", name, "type", v.Type())
		if err := res.Append(tagged); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Read binds an envelope from n. Only version 1 is understood; any other
// version is an *UnsupportedVersionError. The first failing element aborts
// the read.
func (b *Binder[T]) Read(n *tree.Node) (Envelope[T], error) {
	var zero Envelope[T]
	vn, err := n.Get("version")
	if err != nil {
		return zero, err
	}
	version, err := vn.Int()
	if err != nil {
		return zero, err
	}
	switch version {
	case Version1:
		data, err := b.readV1(n)
		if err != nil {
			return zero, err
		}
		return Envelope[T]{Version: Version1, Data: data}, nil
	default:
		b.log.Debug("rejected envelope", "version", version)
		return zero, &UnsupportedVersionError{Version: version, Path: vn.Path()}
	}
}

func (b *Binder[T]) readV1(n *tree.Node) ([]T, error) {
	dn, err := n.Get("data")
	if err != nil {
		return nil, err
	}
	if _, err := dn.AsSequence(); err != nil {
		return nil, err
	}
	elemType := reflect.TypeFor[T]()
	ctx := b.reg.Context().At("data")
	res := make([]T, 0, len(dn.Values))
	for i, en := range dn.Values {
		name, elem, err := b.tagger.Untag(en)
		if err != nil {
			return nil, err
		}
		t, ok := b.cat.TypeOf(name)
		if !ok {
			return nil, &bind.ResolutionError{Message: fmt.Sprintf("unknown type name %q at %s", name, en.Path())}
		}
		if !t.AssignableTo(elemType) {
			return nil, &bind.ResolutionError{Type: t, Message: fmt.Sprintf("not assignable to %s at %s", elemType, en.Path())}
		}
		ectx := b.tagger.Within(ctx.Index(i), name)
		v, err := ectx.ReadValue(t, elem)
		if err != nil {
			return nil, err
		}
		b.log.Debug("read element", "path", ectx.Path(), "name", name, "type", t)
		var x T
		reflect.ValueOf(&x).Elem().Set(v)
		res = append(res, x)
	}
	return res, nil
}

// Names returns the catalog names of the elements of env, in order.
func (b *Binder[T]) Names(env Envelope[T]) ([]string, error) {
	res := make([]string, len(env.Data))
	for i := range env.Data {
		v := reflect.ValueOf(&env.Data[i]).Elem()
		if v.Kind() == reflect.Interface && !v.IsNil() {
			v = v.Elem()
		}
		name, ok := b.cat.NameOf(v.Type())
		if !ok {
			return nil, &bind.ResolutionError{Type: v.Type(), Message: "type has no catalog name"}
		}
		res[i] = name
	}
	return res, nil
}
