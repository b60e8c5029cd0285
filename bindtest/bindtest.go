// Package bindtest has helpers for testing models.
package bindtest

import (
	"reflect"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/databind/bind"
	"github.com/signadot/databind/codec"
	"github.com/signadot/databind/tree"
)

// NodeComparer compares *tree.Node values structurally. Nodes point at
// their parents, so cmp cannot walk them on its own.
var NodeComparer = cmp.Comparer(func(a, b *tree.Node) bool {
	return tree.Equal(a, b)
})

// RoundTrip writes v with the model reg resolves for T, reads the tree
// back and fails t if the result differs from v. It returns the tree.
func RoundTrip[T any](t testing.TB, reg *bind.Registry, v T, opts ...cmp.Option) *tree.Node {
	t.Helper()
	n, err := bind.Marshal(reg, v)
	if err != nil {
		t.Fatalf("write %T: %v", v, err)
	}
	got, err := bind.Unmarshal[T](reg, n)
	if err != nil {
		t.Fatalf("read %T: %v\n%s", v, err, codec.MustString(n))
	}
	opts = append(opts, NodeComparer)
	if diff := cmp.Diff(v, got, opts...); diff != "" {
		t.Errorf("%T round trip (-want +got):\n%s", v, diff)
	}
	return n
}

// ResourceRoundTrip is RoundTrip for lossy models: the value read back may
// differ from v, but writing it again must give the same tree.
func ResourceRoundTrip[T any](t testing.TB, reg *bind.Registry, v T) *tree.Node {
	t.Helper()
	n, err := bind.Marshal(reg, v)
	if err != nil {
		t.Fatalf("write %T: %v", v, err)
	}
	back, err := bind.Unmarshal[T](reg, n)
	if err != nil {
		t.Fatalf("read %T: %v", v, err)
	}
	again, err := bind.Marshal(reg, back)
	if err != nil {
		t.Fatalf("rewrite %T: %v", v, err)
	}
	if d := TreeDiff(n, again); d != "" {
		t.Errorf("%T resource round trip:\n%s", v, d)
	}
	return n
}

// SchemaKeys checks that the mapping n has exactly the keys of the
// parameters of m, in order. Translation models are checked against their
// resource parameters.
func SchemaKeys(t testing.TB, reg *bind.Registry, m bind.Model, n *tree.Node) {
	t.Helper()
	ps, err := bind.ResourceParameters(reg, m)
	if err != nil {
		t.Fatal(err)
	}
	want := make([]string, len(ps))
	for i, p := range ps {
		want[i] = p.Name
	}
	if n.Type != tree.MappingType {
		t.Fatalf("%s: expected a mapping, got %s", m.Type(), codec.MustString(n))
	}
	if got := n.Keys(); !slices.Equal(got, want) {
		t.Errorf("%s: keys %v, want %v", m.Type(), got, want)
	}
}

// Resolve is reg.Resolve for T which fails t on error.
func Resolve[T any](t testing.TB, reg *bind.Registry) bind.Model {
	t.Helper()
	m, err := reg.Resolve(reflect.TypeFor[T]())
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// TreeDiff returns a line diff of the YAML renderings of a and b, or "" if
// they are equal.
func TreeDiff(a, b *tree.Node) string {
	d, err := codec.Diff(a, b)
	if err != nil {
		return err.Error()
	}
	return d
}
