package bind

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/signadot/databind/tree"
)

type widget struct {
	N int `bind:"field=n"`
}

var widgetType = reflect.TypeFor[widget]()

func constModel(label string) DataModel[widget] {
	return CustomFunc(
		func(widget, *Context) (*tree.Node, error) { return tree.FromString(label), nil },
		func(*tree.Node, *Context) (widget, error) { return widget{}, nil },
	)
}

func constFactory(label string) Factory {
	return NewFactory(label, func(t reflect.Type, _ *Registry) (Model, error) {
		if t != widgetType {
			return nil, nil
		}
		return constModel(label), nil
	})
}

func writeWidget(t *testing.T, reg *Registry) *tree.Node {
	t.Helper()
	n, err := Marshal(reg, widget{N: 1})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestResolutionOrder(t *testing.T) {
	t.Run("declared first", func(t *testing.T) {
		reg := NewRegistry(WithFactory(constFactory("factory")))
		if err := reg.Register(constModel("declared")); err != nil {
			t.Fatal(err)
		}
		if got := writeWidget(t, reg).Value; got != "declared" {
			t.Errorf("got %q", got)
		}
	})
	t.Run("factories in order", func(t *testing.T) {
		reg := NewRegistry(WithFactory(constFactory("first")))
		reg.AddFactory(constFactory("second"))
		if got := writeWidget(t, reg).Value; got != "first" {
			t.Errorf("got %q", got)
		}
	})
	t.Run("user factory before defaults", func(t *testing.T) {
		reg := NewRegistry(WithFactory(NewFactory("celsius", func(t reflect.Type, _ *Registry) (Model, error) {
			if t != reflect.TypeFor[celsius]() {
				return nil, nil
			}
			return CustomFunc(
				func(c celsius, _ *Context) (*tree.Node, error) { return tree.FromString("user"), nil },
				func(*tree.Node, *Context) (celsius, error) { return 0, nil },
			), nil
		})))
		n, err := Marshal(reg, celsius(3))
		if err != nil {
			t.Fatal(err)
		}
		if n.Value != "user" {
			t.Errorf("got %v", tree.ToAny(n))
		}
	})
	t.Run("reflection last", func(t *testing.T) {
		reg := NewRegistry(WithFactory(NewFactory("none", func(reflect.Type, *Registry) (Model, error) {
			return nil, nil
		})))
		n := writeWidget(t, reg)
		if n.Type != tree.MappingType || n.Keys()[0] != "n" {
			t.Errorf("got %v", tree.ToAny(n))
		}
	})
	t.Run("without defaults", func(t *testing.T) {
		reg := NewRegistry(WithoutDefaultFactories())
		n, err := Marshal(reg, celsius(3))
		if err != nil {
			t.Fatal(err)
		}
		if n.Type != tree.ScalarType || n.Value != "3" {
			t.Errorf("got %v", tree.ToAny(n))
		}
	})
}

func TestFactoryFailures(t *testing.T) {
	tests := []struct {
		name    string
		factory Factory
	}{
		{
			name: "error",
			factory: NewFactory("failing", func(t reflect.Type, _ *Registry) (Model, error) {
				if t == widgetType {
					return nil, errors.New("no widgets today")
				}
				return nil, nil
			}),
		},
		{
			name: "panic",
			factory: NewFactory("failing", func(t reflect.Type, _ *Registry) (Model, error) {
				if t == widgetType {
					panic("boom")
				}
				return nil, nil
			}),
		},
		{
			name: "wrong type",
			factory: NewFactory("failing", func(t reflect.Type, _ *Registry) (Model, error) {
				if t == widgetType {
					return CustomFunc[int](nil, nil), nil
				}
				return nil, nil
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry(WithFactory(tt.factory))
			_, err := reg.Resolve(widgetType)
			if !errors.Is(err, ErrResolution) {
				t.Fatalf("got %v", err)
			}
			var re *ResolutionError
			if !errors.As(err, &re) || re.Factory != "failing" || re.Type != widgetType {
				t.Errorf("got %#v", err)
			}
			// failures are not cached
			if _, err := reg.Resolve(widgetType); err == nil {
				t.Error("second resolution succeeded")
			}
		})
	}
}

func TestRegister(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(constModel("a")); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(constModel("b")); !errors.Is(err, ErrDuplicateModel) {
		t.Errorf("second model: %v", err)
	}
	if _, err := reg.Resolve(reflect.TypeFor[apple]()); err != nil {
		t.Fatal(err)
	}
	late := CustomFunc(
		func(apple, *Context) (*tree.Node, error) { return tree.Null(), nil },
		func(*tree.Node, *Context) (apple, error) { return apple{}, nil },
	)
	if err := reg.Register(late); !errors.Is(err, ErrDuplicateModel) {
		t.Errorf("register after resolve: %v", err)
	}
	if err := reg.Constructor(func(seeds int) apple { return apple{Seeds: seeds} }, "seeds"); !errors.Is(err, ErrBadConstructor) {
		t.Errorf("constructor after resolve: %v", err)
	}
}

func TestRegisterWhileResolving(t *testing.T) {
	calls := 0
	reg := NewRegistry(WithFactory(NewFactory("racing", func(t reflect.Type, reg *Registry) (Model, error) {
		if t != widgetType {
			return nil, nil
		}
		calls++
		if calls == 1 {
			if err := reg.Register(constModel("declared")); err != nil {
				return nil, err
			}
		}
		return constModel("factory"), nil
	})))
	if got := writeWidget(t, reg).Value; got != "declared" {
		t.Errorf("got %q, want the model registered during resolution", got)
	}
	if calls != 1 {
		t.Errorf("factory called %d times", calls)
	}
	if err := reg.Register(constModel("late")); !errors.Is(err, ErrDuplicateModel) {
		t.Errorf("register after resolve: %v", err)
	}
}

func TestResolveCaches(t *testing.T) {
	reg := NewRegistry()
	a, err := reg.Resolve(widgetType)
	if err != nil {
		t.Fatal(err)
	}
	b, err := reg.Resolve(widgetType)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("resolution returned distinct models")
	}
	n1, _ := a.WriteValue(reflect.ValueOf(widget{N: 4}), reg.Context())
	n2, _ := b.WriteValue(reflect.ValueOf(widget{N: 4}), reg.Context())
	if !tree.Equal(n1, n2) {
		t.Error("outputs differ")
	}
}

func TestConcurrentResolve(t *testing.T) {
	reg := NewRegistry()
	const n = 64
	models := make([]Model, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := reg.Resolve(reflect.TypeFor[basket]())
			if err != nil {
				t.Error(err)
				return
			}
			models[i] = m
		}()
	}
	wg.Wait()
	for i := range models {
		if models[i] != models[0] {
			t.Fatalf("goroutine %d saw a different model", i)
		}
	}
}

func TestTyped(t *testing.T) {
	reg := NewRegistry()
	m, err := reg.Resolve(widgetType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Typed[apple](m); err == nil {
		t.Error("expected error adapting a widget model to apple")
	}
	dm, err := Typed[widget](m)
	if err != nil {
		t.Fatal(err)
	}
	n, err := dm.Write(widget{N: 9}, reg.Context())
	if err != nil {
		t.Fatal(err)
	}
	w, err := dm.Read(n, reg.Context())
	if err != nil {
		t.Fatal(err)
	}
	if w.N != 9 {
		t.Errorf("got %+v", w)
	}
}
