package envelope

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Catalog is a table of stable names for concrete element types. Names and
// types are each unique.
type Catalog struct {
	mu     sync.RWMutex
	byName map[string]reflect.Type
	byType map[reflect.Type]string
}

func NewCatalog() *Catalog {
	return &Catalog{
		byName: map[string]reflect.Type{},
		byType: map[reflect.Type]string{},
	}
}

// Add names t.
func (c *Catalog) Add(name string, t reflect.Type) error {
	if name == "" || t == nil {
		return fmt.Errorf("catalog entry needs a name and a type, got %q, %v", name, t)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.byName[name]; ok {
		return fmt.Errorf("%w: name %q already used by %s", ErrDuplicateName, name, prev)
	}
	if prev, ok := c.byType[t]; ok {
		return fmt.Errorf("%w: %s already named %q", ErrDuplicateName, t, prev)
	}
	c.byName[name] = t
	c.byType[t] = name
	return nil
}

// Add names the type T in c.
func Add[T any](c *Catalog, name string) error {
	return c.Add(name, reflect.TypeFor[T]())
}

func (c *Catalog) NameOf(t reflect.Type) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.byType[t]
	return name, ok
}

func (c *Catalog) TypeOf(name string) (reflect.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.byName[name]
	return t, ok
}

// Names returns every name in c, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res := make([]string, 0, len(c.byName))
	for name := range c.byName {
		res = append(res, name)
	}
	slices.Sort(res)
	return res
}

// Implementations returns the names of the types in c assignable to base,
// sorted by name.
func (c *Catalog) Implementations(base reflect.Type) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var res []string
	for name, t := range c.byName {
		if t.AssignableTo(base) {
			res = append(res, name)
		}
	}
	slices.Sort(res)
	return res
}
