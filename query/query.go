// Package query filters envelope elements with boolean expressions.
//
// An expression sees two variables: type, the catalog name of the element,
// and value, the element's tree as plain maps, lists and scalars.
//
//	type == "Apple" && value.seeds > 2
//	has(value, "ripe") && get(value, "ripe") == true
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/databind/tree"
)

// Env is the environment an expression runs in.
type Env struct {
	Type  string `expr:"type"`
	Value any    `expr:"value"`
}

type Query struct {
	src string
	prg *vm.Program
}

// Compile checks src and returns a query. src must evaluate to a bool.
func Compile(src string) (*Query, error) {
	opts := append(exprOpts(), expr.Env(Env{}), expr.AsBool())
	prg, err := expr.Compile(src, opts...)
	if err != nil {
		return nil, fmt.Errorf("bad query %q: %w", src, err)
	}
	return &Query{src: src, prg: prg}, nil
}

func (q *Query) String() string { return q.src }

// Match runs q against an element with catalog name name and tree n.
func (q *Query) Match(name string, n *tree.Node) (bool, error) {
	res, err := expr.Run(q.prg, Env{Type: name, Value: tree.ToAny(n)})
	if err != nil {
		return false, fmt.Errorf("query %q on %s: %w", q.src, name, err)
	}
	b, ok := res.(bool)
	if !ok {
		return false, fmt.Errorf("query %q returned %T", q.src, res)
	}
	return b, nil
}

func exprOpts() []expr.Option {
	return []expr.Option{
		expr.Function("has", func(params ...any) (any, error) {
			m, ok := params[0].(map[string]any)
			if !ok {
				return false, nil
			}
			_, ok = m[params[1].(string)]
			return ok, nil
		},
			new(func(any, string) bool)),
		expr.Function("get", func(params ...any) (any, error) {
			return get(params[0], params[1].(string)), nil
		},
			new(func(any, string) any)),
	}
}

// get follows a dotted path of keys and list indices, giving nil when
// anything along the way is absent.
func get(v any, path string) any {
	if path == "" {
		return v
	}
	for _, seg := range strings.Split(path, ".") {
		switch x := v.(type) {
		case map[string]any:
			v = x[seg]
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(x) {
				return nil
			}
			v = x[i]
		default:
			return nil
		}
	}
	return v
}
