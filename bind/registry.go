package bind

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/signadot/databind/debug"
)

// Registry maps types to models. Resolution order for a type is fixed:
//
//  1. the model declared with Register
//  2. user factories, in the order they were added
//  3. the default factories (method hooks, exportable types)
//  4. reflection: a binding constructor, else builtin kinds and struct
//     fields
//
// The first non-nil model wins. Results are cached per type and never
// invalidated; when two goroutines resolve the same type concurrently both
// observe the first stored model.
type Registry struct {
	mu        sync.RWMutex
	declared  map[reflect.Type]Model
	ctors     map[reflect.Type]*constructor
	factories []Factory
	defaults  []Factory
	gen       uint64 // bumped by every change to the tables above

	cache     sync.Map // reflect.Type -> Model
	reflected sync.Map // reflect.Type -> Model

	log *slog.Logger
}

type RegistryOption func(*Registry)

// WithFactory appends a factory consulted before the default factories.
func WithFactory(f Factory) RegistryOption {
	return func(r *Registry) { r.factories = append(r.factories, f) }
}

func WithoutDefaultFactories() RegistryOption {
	return func(r *Registry) { r.defaults = nil }
}

func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		declared: map[reflect.Type]Model{},
		ctors:    map[reflect.Type]*constructor{},
		defaults: DefaultFactories(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		if debug.Resolve() {
			r.log = debug.Logger()
		} else {
			r.log = debug.Discard()
		}
	}
	return r
}

// Register declares m as the model of m.Type(). A type has at most one
// declared model, and it must be declared before the type is first
// resolved.
func (r *Registry) Register(m Model) error {
	if m == nil || m.Type() == nil {
		return fmt.Errorf("%w: nil model", ErrDuplicateModel)
	}
	t := m.Type()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.declared[t]; exists {
		return fmt.Errorf("%w: model for %s already registered", ErrDuplicateModel, t)
	}
	if _, resolved := r.cache.Load(t); resolved {
		return fmt.Errorf("%w: %s was already resolved", ErrDuplicateModel, t)
	}
	r.declared[t] = m
	r.gen++
	return nil
}

// MustRegister is Register for use at program start up.
func (r *Registry) MustRegister(m Model) {
	if err := r.Register(m); err != nil {
		panic(err)
	}
}

// AddFactory appends f after the factories already added.
func (r *Registry) AddFactory(f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = append(r.factories, f)
	r.gen++
}

// Constructor declares fn as the binding constructor of the type it
// returns. names gives the parameter name of each argument, optionally
// followed by ",optional". fn may return T, *T, (T, error) or (*T, error).
// Values are read back through accessors: a method Name(), IsName() or
// GetName(), else a field matching the name ignoring case.
//
// A second constructor for the same type is an AmbiguousConstructorError.
func (r *Registry) Constructor(fn any, names ...string) error {
	c, err := newConstructor(fn, names)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, exists := r.ctors[c.typ]; exists {
		return &AmbiguousConstructorError{Type: c.typ, Existing: prev.fn.Type(), Added: c.fn.Type()}
	}
	if _, resolved := r.cache.Load(c.typ); resolved {
		return fmt.Errorf("%w: %s was already resolved", ErrBadConstructor, c.typ)
	}
	r.ctors[c.typ] = c
	r.reflected.Delete(c.typ)
	r.gen++
	return nil
}

// Resolve returns the model for t.
func (r *Registry) Resolve(t reflect.Type) (Model, error) {
	if t == nil {
		return nil, &ResolutionError{Message: "nil type"}
	}
	for {
		if m, ok := r.cache.Load(t); ok {
			return m.(Model), nil
		}
		m, source, gen, err := r.build(t)
		if err != nil {
			r.log.Debug("resolution failed", "type", t, "error", err)
			return nil, err
		}
		// A registration made while building may change the outcome.
		r.mu.Lock()
		if gen != r.gen {
			r.mu.Unlock()
			continue
		}
		actual, loaded := r.cache.LoadOrStore(t, m)
		r.mu.Unlock()
		if !loaded {
			r.log.Debug("resolved model", "type", t, "source", source)
		}
		return actual.(Model), nil
	}
}

// Resolve returns the model for T as a DataModel[T].
func Resolve[T any](reg *Registry) (DataModel[T], error) {
	m, err := reg.Resolve(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return Typed[T](m)
}

// Context returns a root context for this registry.
func (r *Registry) Context() *Context {
	return NewContext(r)
}

func (r *Registry) build(t reflect.Type) (Model, string, uint64, error) {
	r.mu.RLock()
	gen := r.gen
	declared := r.declared[t]
	factories := make([]Factory, 0, len(r.factories)+len(r.defaults))
	factories = append(factories, r.factories...)
	factories = append(factories, r.defaults...)
	r.mu.RUnlock()

	if declared != nil {
		return declared, "declared", gen, nil
	}
	for _, f := range factories {
		m, err := callFactory(f, t, r)
		if err != nil {
			return nil, "", 0, &ResolutionError{Type: t, Factory: f.Name(), Err: err}
		}
		if m == nil {
			continue
		}
		if m.Type() != t {
			return nil, "", 0, &ResolutionError{
				Type:    t,
				Factory: f.Name(),
				Message: fmt.Sprintf("factory returned a model for %s", m.Type()),
			}
		}
		return m, f.Name(), gen, nil
	}
	m, err := r.reflection(t)
	if err != nil {
		return nil, "", 0, err
	}
	return m, "reflection", gen, nil
}

func callFactory(f Factory, t reflect.Type, r *Registry) (m Model, err error) {
	defer func() {
		if p := recover(); p != nil {
			m, err = nil, fmt.Errorf("factory panicked: %v", p)
		}
	}()
	return f.Model(t, r)
}

// reflection returns the reflection model of t.
func (r *Registry) reflection(t reflect.Type) (Model, error) {
	if m, ok := r.reflected.Load(t); ok {
		return m.(Model), nil
	}
	r.mu.RLock()
	c := r.ctors[t]
	gen := r.gen
	r.mu.RUnlock()

	var (
		m   Model
		err error
	)
	switch {
	case c != nil:
		m = c.model()
	default:
		m, err = builtinModel(t)
		if err == nil && m == nil {
			m, err = structModel(t)
		}
	}
	if err != nil {
		return nil, &ResolutionError{Type: t, Err: err}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return m, nil
	}
	actual, _ := r.reflected.LoadOrStore(t, m)
	return actual.(Model), nil
}
