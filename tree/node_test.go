package tree

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestPutGet(t *testing.T) {
	m := NewMapping()
	if err := m.Put("seeds", FromInt(3)); err != nil {
		t.Fatal(err)
	}
	if err := m.Put("name", FromString("Apple")); err != nil {
		t.Fatal(err)
	}
	if err := m.Put("seeds", FromInt(4)); err != nil {
		t.Fatal(err)
	}
	if got, want := m.Keys(), []string{"seeds", "name"}; !reflect.DeepEqual(got, want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
	v, err := m.Get("seeds")
	if err != nil {
		t.Fatal(err)
	}
	i, err := v.Int()
	if err != nil {
		t.Fatal(err)
	}
	if i != 4 {
		t.Errorf("seeds = %d, want 4", i)
	}
	if v.Parent != m || v.ParentIndex != 0 || v.ParentField != "seeds" {
		t.Errorf("bad parent links on overwritten value: %+v", v)
	}
}

func TestGetMissing(t *testing.T) {
	root := NewMapping()
	inner := NewMapping()
	root.Put("inner", inner)
	_, err := inner.Get("nope")
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected missing field, got %v", err)
	}
	var mf *MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("expected *MissingFieldError, got %T", err)
	}
	if mf.Path != "$.inner" || mf.Key != "nope" {
		t.Errorf("got path %q key %q", mf.Path, mf.Key)
	}
}

func TestVariantMismatch(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		call func(*Node) error
	}{
		{
			name: "mapping as sequence",
			node: NewMapping(),
			call: func(n *Node) error { _, err := n.AsSequence(); return err },
		},
		{
			name: "sequence as mapping",
			node: NewSequence(),
			call: func(n *Node) error { _, err := n.AsMapping(); return err },
		},
		{
			name: "scalar as mapping",
			node: FromString("x"),
			call: func(n *Node) error { _, err := n.Get("x"); return err },
		},
		{
			name: "mapping as scalar",
			node: NewMapping(),
			call: func(n *Node) error { _, err := n.AsScalar(); return err },
		},
		{
			name: "put into sequence",
			node: NewSequence(),
			call: func(n *Node) error { return n.Put("a", Null()) },
		},
		{
			name: "append to mapping",
			node: NewMapping(),
			call: func(n *Node) error { return n.Append(Null()) },
		},
		{
			name: "text of null",
			node: Null(),
			call: func(n *Node) error { _, err := n.Text(); return err },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call(tt.node)
			if !errors.Is(err, ErrTypeMismatch) {
				t.Errorf("expected type mismatch, got %v", err)
			}
		})
	}
}

func TestNoAliasing(t *testing.T) {
	other := NewMapping()
	v := FromString("shared")
	other.Put("k", v)

	m := NewMapping()
	m.Put("k", v)
	got, _ := m.Lookup("k")
	if got == v {
		t.Fatal("value owned by another tree was inserted without cloning")
	}
	if v.Parent != other {
		t.Error("original value was detached from its tree")
	}

	seq := NewSequence()
	seq.Append(v)
	if seq.Values[0] == v {
		t.Fatal("sequence shares a node with another tree")
	}
}

func TestPath(t *testing.T) {
	root := NewMapping()
	data := NewSequence()
	root.Put("data", data)
	el := NewMapping()
	data.Append(FromInt(1))
	data.Append(el)
	ripe := FromBool(true)
	el.Put("ripe", ripe)
	odd := FromString("x")
	el.Put("a b", odd)

	if got := ripe.Path(); got != "$.data[1].ripe" {
		t.Errorf("path = %q", got)
	}
	if got := odd.Path(); got != `$.data[1]["a b"]` {
		t.Errorf("path = %q", got)
	}
	if got := root.Path(); got != "$" {
		t.Errorf("root path = %q", got)
	}
}

func TestRenameWithout(t *testing.T) {
	m := FromKeyVals([]KeyVal{
		{Key: "ripe", Val: FromBool(true)},
		{Key: "size", Val: FromInt(2)},
	})
	r, err := m.Rename("ripe", "yellow")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := r.Keys(), []string{"yellow", "size"}; !reflect.DeepEqual(got, want) {
		t.Errorf("renamed keys = %v, want %v", got, want)
	}
	if got, want := m.Keys(), []string{"ripe", "size"}; !reflect.DeepEqual(got, want) {
		t.Errorf("input was modified: keys = %v", got)
	}

	w, err := m.Without("size")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := w.Keys(), []string{"ripe"}; !reflect.DeepEqual(got, want) {
		t.Errorf("without keys = %v, want %v", got, want)
	}

	if _, err := m.Rename("nope", "x"); !errors.Is(err, ErrMissingField) {
		t.Errorf("rename of absent key: %v", err)
	}
}

func TestScalarCoercion(t *testing.T) {
	tests := []struct {
		name    string
		node    *Node
		get     func(*Node) (any, error)
		want    any
		wantErr bool
	}{
		{"int", FromInt(42), func(n *Node) (any, error) { return n.Int() }, int64(42), false},
		{"int from string", FromString("7"), func(n *Node) (any, error) { return n.Int() }, int64(7), false},
		{"int from whole float", FromNumber("3.0"), func(n *Node) (any, error) { return n.Int() }, int64(3), false},
		{"int from text", FromString("abc"), func(n *Node) (any, error) { return n.Int() }, nil, true},
		{"int from bool", FromBool(true), func(n *Node) (any, error) { return n.Int() }, nil, true},
		{"uint", FromUint(uint64(1) << 63), func(n *Node) (any, error) { return n.Uint() }, uint64(1) << 63, false},
		{"float32", FromFloat(float32(1.5)), func(n *Node) (any, error) { return n.Float() }, 1.5, false},
		{"bool", FromBool(false), func(n *Node) (any, error) { return n.Bool() }, false, false},
		{"bool from string", FromString("true"), func(n *Node) (any, error) { return n.Bool() }, true, false},
		{"bool from number", FromInt(1), func(n *Node) (any, error) { return n.Bool() }, nil, true},
		{"text", FromString("orange"), func(n *Node) (any, error) { return n.Text() }, "orange", false},
		{"text of sequence", NewSequence(), func(n *Node) (any, error) { return n.Text() }, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.get(tt.node)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrTypeMismatch) {
					t.Errorf("expected type mismatch, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestCoercionErrorMentionsValue(t *testing.T) {
	m := NewMapping()
	m.Put("seeds", FromString("many"))
	v, _ := m.Get("seeds")
	_, err := v.Int()
	if err == nil || !strings.Contains(err.Error(), `"many"`) || !strings.Contains(err.Error(), "$.seeds") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestClone(t *testing.T) {
	m := FromMap(map[string]*Node{
		"a": FromSlice([]*Node{FromInt(1), FromString("x")}),
		"b": FromBool(true),
	})
	c := m.Clone()
	if !Equal(m, c) {
		t.Fatal("clone differs")
	}
	c.Values[0].Values[0].Value = "2"
	if Equal(m, c) {
		t.Fatal("clone shares nodes with original")
	}
	if c.Parent != nil {
		t.Error("clone has a parent")
	}
}

func TestVisit(t *testing.T) {
	n := FromSlice([]*Node{FromInt(1), FromSlice([]*Node{FromInt(2)})})
	var pre []string
	err := n.Visit(func(y *Node, isPost bool) (bool, error) {
		if !isPost {
			pre = append(pre, y.Path())
		}
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"$", "$[0]", "$[1]", "$[1][0]"}
	if !reflect.DeepEqual(pre, want) {
		t.Errorf("visit order = %v, want %v", pre, want)
	}
}
