// Package fruit is a small polymorphic domain used by bindctl and the rpc
// service. Each fruit is bound by a different kind of model.
package fruit

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/signadot/databind/bind"
	"github.com/signadot/databind/envelope"
	"github.com/signadot/databind/tree"
)

// Fruit is the capability every envelope element implements.
type Fruit interface {
	Describe() string
}

// Apple is bound by reflection over its fields.
type Apple struct {
	Seeds int `bind:"field=seeds"`
}

func (a Apple) Describe() string { return fmt.Sprintf("apple with %d seeds", a.Seeds) }

// Banana is bound by a custom model which stores Yellow under "ripe".
type Banana struct {
	Yellow bool `bind:"field=yellow"`
}

func (b Banana) Describe() string {
	if b.Yellow {
		return "yellow banana"
	}
	return "green banana"
}

// Cherry is written as its color alone.
type Cherry struct {
	color string
}

var ErrNoColor = errors.New("cherry without a color")

func NewCherry(color string) (Cherry, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return Cherry{}, ErrNoColor
	}
	return Cherry{color: color}, nil
}

func (c Cherry) Color() string    { return c.color }
func (c Cherry) Describe() string { return c.color + " cherry" }

// Durian is bound through DurianResource, which only records whether it
// smells. Reading back gives a representative age.
type Durian struct {
	Age int
}

func (d Durian) Describe() string { return fmt.Sprintf("durian, %d days old", d.Age) }

type DurianResource struct {
	Smelly bool `bind:"field=smelly"`
}

const (
	smellyAge = 30
	oldAge    = 45
	youngAge  = 15
)

func (d Durian) toResource() DurianResource {
	return DurianResource{Smelly: d.Age > smellyAge}
}

func (r DurianResource) toModel() Durian {
	if r.Smelly {
		return Durian{Age: oldAge}
	}
	return Durian{Age: youngAge}
}

// Eggfruit exports itself as an EggfruitResource and is picked up by
// bind.ExportableFactory.
type Eggfruit struct {
	grams int
}

func NewEggfruit(grams int) Eggfruit { return Eggfruit{grams: grams} }

func (e Eggfruit) Grams() int       { return e.grams }
func (e Eggfruit) Describe() string { return fmt.Sprintf("eggfruit of %dg", e.grams) }

func (e Eggfruit) ToResource() EggfruitResource {
	return EggfruitResource{Weight: e.grams}
}

type EggfruitResource struct {
	Weight int `bind:"field=weight"`
}

func (r EggfruitResource) ToModel() Eggfruit { return Eggfruit{grams: r.Weight} }

type bananaModel struct{}

func (bananaModel) Write(b Banana, ctx *bind.Context) (*tree.Node, error) {
	m, err := bind.ByReflection[Banana](ctx)
	if err != nil {
		return nil, err
	}
	n, err := m.Write(b, ctx)
	if err != nil {
		return nil, err
	}
	return n.Rename("yellow", "ripe")
}

func (bananaModel) Read(n *tree.Node, ctx *bind.Context) (Banana, error) {
	m, err := bind.ByReflection[Banana](ctx)
	if err != nil {
		return Banana{}, err
	}
	r, err := n.Rename("ripe", "yellow")
	if err != nil {
		return Banana{}, err
	}
	return m.Read(r, ctx)
}

func writeCherry(c Cherry, _ *bind.Context) (*tree.Node, error) {
	return tree.FromString(c.color), nil
}

func readCherry(n *tree.Node, ctx *bind.Context) (Cherry, error) {
	s, err := n.Text()
	if err != nil {
		return Cherry{}, err
	}
	c, err := NewCherry(s)
	if err != nil {
		return Cherry{}, &bind.UnmarshalError{Path: n.Path(), Message: "bad cherry", Err: err}
	}
	return c, nil
}

// Models returns the declared models of the fruit types. Apple and
// Eggfruit are left to reflection and the exportable factory.
func Models() []bind.Model {
	return []bind.Model{
		bind.Custom[Banana](bananaModel{}, bind.Param[bool]("ripe")),
		bind.CustomFunc(writeCherry, readCherry, bind.Param[string]("color")),
		bind.Translate(DurianResource.toModel, Durian.toResource),
	}
}

var names = []struct {
	name string
	typ  reflect.Type
}{
	{"Apple", reflect.TypeFor[Apple]()},
	{"Banana", reflect.TypeFor[Banana]()},
	{"Cherry", reflect.TypeFor[Cherry]()},
	{"Durian", reflect.TypeFor[Durian]()},
	{"Eggfruit", reflect.TypeFor[Eggfruit]()},
}

// Register declares the fruit models in reg and names the fruit types in
// cat.
func Register(reg *bind.Registry, cat *envelope.Catalog) error {
	for _, m := range Models() {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	for _, e := range names {
		if err := cat.Add(e.name, e.typ); err != nil {
			return err
		}
	}
	return nil
}

// NewBinder returns an envelope binder over a fresh registry and catalog
// holding the fruit types.
func NewBinder(regOpts []bind.RegistryOption, opts ...envelope.Option) (*envelope.Binder[Fruit], error) {
	reg := bind.NewRegistry(regOpts...)
	cat := envelope.NewCatalog()
	if err := Register(reg, cat); err != nil {
		return nil, err
	}
	return envelope.NewBinder[Fruit](reg, cat, opts...), nil
}

// Sample returns one of each fruit.
func Sample() envelope.Envelope[Fruit] {
	return envelope.New[Fruit](envelope.Version1,
		Apple{Seeds: 3},
		Banana{Yellow: true},
		Cherry{color: "orange"},
		Durian{Age: 40},
		Eggfruit{grams: 120},
	)
}
