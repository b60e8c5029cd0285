package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/signadot/databind/debug"
	"github.com/signadot/databind/format"
	"github.com/signadot/databind/tree"
)

var (
	ErrDecoding = errors.New("decoding error")
	ErrEmpty    = errors.New("empty document")
)

type decState struct {
	format   *format.Format
	maxDepth int
}

// Decode reads a single JSON or YAML document from r.
func Decode(r io.Reader, opts ...DecodeOption) (*tree.Node, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(d, opts...)
}

// DecodeBytes parses d into a tree. Mapping key order is kept. Aliases,
// merge keys and multi-document input are rejected.
func DecodeBytes(d []byte, opts ...DecodeOption) (*tree.Node, error) {
	ds := &decState{maxDepth: 10000}
	for _, opt := range opts {
		opt(ds)
	}
	if ds.format != nil && ds.format.IsJSON() && !json.Valid(d) {
		return nil, fmt.Errorf("%w: invalid json", ErrDecoding)
	}
	f, err := parser.ParseBytes(d, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecoding, err)
	}
	var docs []*ast.DocumentNode
	for _, doc := range f.Docs {
		if doc == nil || doc.Body == nil {
			continue
		}
		docs = append(docs, doc)
	}
	switch len(docs) {
	case 0:
		return nil, ErrEmpty
	case 1:
	default:
		return nil, fmt.Errorf("%w: %d documents, expected 1", ErrDecoding, len(docs))
	}
	n, err := ds.node(docs[0].Body, 0)
	if err != nil {
		return nil, err
	}
	if debug.Codec() {
		debug.Logf("decoded %d bytes: %v\n", len(d), n)
	}
	return n, nil
}

func (ds *decState) node(n ast.Node, depth int) (*tree.Node, error) {
	if depth > ds.maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrDecoding, ds.maxDepth)
	}
	switch x := n.(type) {
	case *ast.MappingNode:
		res := tree.NewMapping()
		for _, mv := range x.Values {
			if err := ds.entry(res, mv, depth); err != nil {
				return nil, err
			}
		}
		return res, nil
	case *ast.MappingValueNode:
		// a single entry mapping
		res := tree.NewMapping()
		if err := ds.entry(res, x, depth); err != nil {
			return nil, err
		}
		return res, nil
	case *ast.SequenceNode:
		res := tree.NewSequence()
		for _, v := range x.Values {
			vn, err := ds.node(v, depth+1)
			if err != nil {
				return nil, err
			}
			res.Append(vn)
		}
		return res, nil
	case *ast.AnchorNode:
		return ds.node(x.Value, depth)
	case *ast.AliasNode:
		return nil, fmt.Errorf("%w: aliases are not supported (%s)", ErrDecoding, pos(x))
	case *ast.TagNode:
		return ds.tagged(x, depth)
	case *ast.NullNode:
		return tree.Null(), nil
	case *ast.BoolNode:
		return tree.FromBool(x.Value), nil
	case *ast.IntegerNode:
		switch v := x.Value.(type) {
		case int64:
			return tree.FromInt(v), nil
		case uint64:
			return tree.FromUint(v), nil
		}
		return nil, fmt.Errorf("%w: bad integer %q (%s)", ErrDecoding, x.Token.Value, pos(x))
	case *ast.FloatNode:
		return tree.FromFloat(x.Value), nil
	case *ast.InfinityNode, *ast.NanNode:
		return nil, fmt.Errorf("%w: non-finite number (%s)", ErrDecoding, pos(n))
	case *ast.StringNode:
		return tree.FromString(x.Value), nil
	case *ast.LiteralNode:
		return tree.FromString(x.Value.Value), nil
	case nil:
		return tree.Null(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported %s node (%s)", ErrDecoding, n.Type(), pos(n))
	}
}

func (ds *decState) entry(m *tree.Node, mv *ast.MappingValueNode, depth int) error {
	key, err := keyText(mv.Key)
	if err != nil {
		return err
	}
	if _, dup := m.Lookup(key); dup {
		return fmt.Errorf("%w: duplicate key %q (%s)", ErrDecoding, key, pos(mv.Key))
	}
	v, err := ds.node(mv.Value, depth+1)
	if err != nil {
		return err
	}
	return m.Put(key, v)
}

func (ds *decState) tagged(x *ast.TagNode, depth int) (*tree.Node, error) {
	switch x.Start.Value {
	case "!!str":
		if s, ok := x.Value.(ast.ScalarNode); ok {
			return tree.FromString(scalarToken(s)), nil
		}
	case "!!int", "!!float", "!!bool", "!!null", "!!map", "!!seq":
		return ds.node(x.Value, depth)
	}
	return nil, fmt.Errorf("%w: unsupported tag %s (%s)", ErrDecoding, x.Start.Value, pos(x))
}

func keyText(k ast.MapKeyNode) (string, error) {
	if k.IsMergeKey() {
		return "", fmt.Errorf("%w: merge keys are not supported (%s)", ErrDecoding, pos(k))
	}
	switch x := k.(type) {
	case *ast.StringNode:
		return x.Value, nil
	case *ast.MappingKeyNode:
		if s, ok := x.Value.(ast.ScalarNode); ok {
			return keyText(s)
		}
	case *ast.TagNode:
		if s, ok := x.Value.(ast.ScalarNode); ok {
			return scalarToken(s), nil
		}
	case ast.ScalarNode:
		return scalarToken(x), nil
	}
	return "", fmt.Errorf("%w: unsupported %s key (%s)", ErrDecoding, k.Type(), pos(k))
}

func scalarToken(s ast.ScalarNode) string {
	if str, ok := s.(*ast.StringNode); ok {
		return str.Value
	}
	if tk := s.GetToken(); tk != nil {
		return tk.Value
	}
	return s.String()
}

func pos(n ast.Node) string {
	tk := n.GetToken()
	if tk == nil || tk.Position == nil {
		return "unknown position"
	}
	return "line " + strconv.Itoa(tk.Position.Line) + " column " + strconv.Itoa(tk.Position.Column)
}
