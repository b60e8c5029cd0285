package bind

import "reflect"

// Factory produces models for families of types. Model returns nil, nil
// when the factory has no opinion about t.
type Factory interface {
	Name() string
	Model(t reflect.Type, reg *Registry) (Model, error)
}

// NewFactory makes a Factory from a function.
func NewFactory(name string, fn func(t reflect.Type, reg *Registry) (Model, error)) Factory {
	return &funcFactory{name: name, fn: fn}
}

type funcFactory struct {
	name string
	fn   func(reflect.Type, *Registry) (Model, error)
}

func (f *funcFactory) Name() string { return f.name }

func (f *funcFactory) Model(t reflect.Type, reg *Registry) (Model, error) {
	return f.fn(t, reg)
}

// DefaultFactories are consulted after user factories unless the registry
// is built WithoutDefaultFactories.
func DefaultFactories() []Factory {
	return []Factory{MethodFactory(), ExportableFactory()}
}
