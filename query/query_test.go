package query

import (
	"strings"
	"testing"

	"github.com/signadot/databind/tree"
)

func apple(seeds int) *tree.Node {
	return tree.FromKeyVals([]tree.KeyVal{
		{Key: "seeds", Val: tree.FromInt(seeds)},
		{Key: "tags", Val: tree.FromSlice([]*tree.Node{tree.FromString("red"), tree.FromString("sweet")})},
	})
}

func TestMatch(t *testing.T) {
	tests := []struct {
		src  string
		name string
		node *tree.Node
		want bool
	}{
		{`type == "Apple"`, "Apple", apple(1), true},
		{`type == "Apple"`, "Banana", apple(1), false},
		{`type == "Apple" && value.seeds > 2`, "Apple", apple(3), true},
		{`type == "Apple" && value.seeds > 2`, "Apple", apple(2), false},
		{`has(value, "seeds")`, "Apple", apple(0), true},
		{`has(value, "ripe")`, "Apple", apple(0), false},
		{`has(value, "ripe")`, "Cherry", tree.FromString("orange"), false},
		{`get(value, "tags.1") == "sweet"`, "Apple", apple(0), true},
		{`get(value, "tags.7") == nil`, "Apple", apple(0), true},
		{`get(value, "seeds.x") == nil`, "Apple", apple(0), true},
		{`value == "orange"`, "Cherry", tree.FromString("orange"), true},
		{`"sweet" in value.tags`, "Apple", apple(0), true},
	}
	for _, tt := range tests {
		t.Run(tt.src+"/"+tt.name, func(t *testing.T) {
			q, err := Compile(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			got, err := q.Match(tt.name, tt.node)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	for _, src := range []string{
		`type +`,
		`type`,
		`nosuchvar == 1`,
	} {
		_, err := Compile(src)
		if err == nil {
			t.Errorf("%q: expected error", src)
			continue
		}
		if !strings.Contains(err.Error(), src) {
			t.Errorf("%q: error does not name the query: %v", src, err)
		}
	}
}
