package envelope

import (
	"fmt"

	"github.com/signadot/databind/bind"
	"github.com/signadot/databind/tree"
)

// Tagger attaches the catalog name of an element to its tree and recovers
// it on read.
type Tagger interface {
	Tag(name string, elem *tree.Node) (*tree.Node, error)
	Untag(n *tree.Node) (name string, elem *tree.Node, err error)
	// Within returns the context an element named name is bound in.
	Within(ctx *bind.Context, name string) *bind.Context
}

// KeyTag writes each element as a mapping with a single key, the name.
//
//	{"Apple": {"seeds": 3}}
type KeyTag struct{}

func (KeyTag) Tag(name string, elem *tree.Node) (*tree.Node, error) {
	res := tree.NewMapping()
	if err := res.Put(name, elem); err != nil {
		return nil, err
	}
	return res, nil
}

func (KeyTag) Untag(n *tree.Node) (string, *tree.Node, error) {
	if _, err := n.AsMapping(); err != nil {
		return "", nil, err
	}
	if n.Len() != 1 {
		return "", nil, &tree.TypeMismatchError{
			Path: n.Path(),
			Want: "mapping with a single type key",
			Got:  fmt.Sprintf("mapping with %d keys", n.Len()),
		}
	}
	return n.Fields[0], n.Values[0], nil
}

func (KeyTag) Within(ctx *bind.Context, name string) *bind.Context {
	return ctx.At(name)
}

// FieldTag stores the name under a reserved key of the element's own
// mapping. Elements which are not written as mappings cannot be tagged.
//
//	{"$class": "Apple", "seeds": 3}
type FieldTag struct {
	Key string
}

func (f FieldTag) Tag(name string, elem *tree.Node) (*tree.Node, error) {
	if _, err := elem.AsMapping(); err != nil {
		return nil, err
	}
	if _, ok := elem.Lookup(f.Key); ok {
		return nil, fmt.Errorf("element %s already has the reserved key %q", name, f.Key)
	}
	res := tree.NewMapping()
	if err := res.Put(f.Key, tree.FromString(name)); err != nil {
		return nil, err
	}
	for i, k := range elem.Fields {
		if err := res.Put(k, elem.Values[i]); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Untag returns the element without the reserved key. The returned tree is
// detached, so paths in later errors are relative to the element.
func (f FieldTag) Untag(n *tree.Node) (string, *tree.Node, error) {
	k, err := n.Get(f.Key)
	if err != nil {
		return "", nil, err
	}
	name, err := k.Text()
	if err != nil {
		return "", nil, err
	}
	elem, err := n.Without(f.Key)
	if err != nil {
		return "", nil, err
	}
	return name, elem, nil
}

func (FieldTag) Within(ctx *bind.Context, _ string) *bind.Context {
	return ctx
}
