package tree

import (
	"reflect"
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b *Node
		want int
	}{
		{"null eq", Null(), Null(), 0},
		{"null lt bool", Null(), FromBool(false), -1},
		{"bool lt number", FromBool(true), FromInt(0), -1},
		{"number lt string", FromInt(9), FromString("1"), -1},
		{"numbers", FromInt(2), FromInt(10), -1},
		{"int float eq", FromInt(1), FromNumber("1.0"), 0},
		{"strings", FromString("b"), FromString("a"), 1},
		{"seq prefix", FromSlice([]*Node{FromInt(1)}), FromSlice([]*Node{FromInt(1), FromInt(2)}), -1},
		{
			"mapping order irrelevant",
			FromKeyVals([]KeyVal{{"a", FromInt(1)}, {"b", FromInt(2)}}),
			FromKeyVals([]KeyVal{{"b", FromInt(2)}, {"a", FromInt(1)}}),
			0,
		},
		{
			"mapping values",
			FromKeyVals([]KeyVal{{"a", FromInt(1)}}),
			FromKeyVals([]KeyVal{{"a", FromInt(2)}}),
			-1,
		},
		{"seq lt mapping", NewSequence(), NewMapping(), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare = %d, want %d", got, tt.want)
			}
			if got := Compare(tt.b, tt.a); got != -tt.want {
				t.Errorf("reverse Compare = %d, want %d", got, -tt.want)
			}
		})
	}
}

func TestAnyRoundTrip(t *testing.T) {
	in := map[string]any{
		"name":  "Charlie",
		"age":   int64(35),
		"ratio": 0.5,
		"ok":    true,
		"none":  nil,
		"tags":  []any{"a", int64(1)},
		"inner": map[string]any{"x": "y"},
	}
	n, err := FromAny(in)
	if err != nil {
		t.Fatal(err)
	}
	if got := n.Keys(); !reflect.DeepEqual(got, []string{"age", "inner", "name", "none", "ok", "ratio", "tags"}) {
		t.Errorf("keys not sorted: %v", got)
	}
	out := ToAny(n)
	if !reflect.DeepEqual(out, in) {
		t.Errorf("ToAny(FromAny(x)) = %#v, want %#v", out, in)
	}
	if _, err := FromAny(struct{}{}); err == nil {
		t.Error("expected error for struct value")
	}
}
