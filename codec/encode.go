package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml/token"
	"github.com/signadot/databind/format"
	"github.com/signadot/databind/tree"
)

var ErrEncoding = errors.New("encoding error")

type EncState struct {
	col, depth, indent int

	format format.Format
	wire   bool

	Color func(*tree.Node, ColorAttr, string) string
}

// Encode writes node to w. Mapping key order is kept.
func Encode(node *tree.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
	}
	for _, opt := range opts {
		opt(es)
	}
	switch es.format {
	case format.JSONFormat:
		if err := es.json(w, node); err != nil {
			return err
		}
		if es.wire {
			return nil
		}
		return writeString(w, "\n")
	case format.YAMLFormat:
		es.Color = nil
		if isBlock(node) {
			return es.yamlBlock(w, node, 0, false)
		}
		s, err := es.yamlFlow(node)
		if err != nil {
			return err
		}
		return writeString(w, s+"\n")
	default:
		return fmt.Errorf("%w: unknown format %d", ErrEncoding, es.format)
	}
}

// MustString renders node in the given format, panicking on error. It is
// meant for logs and tests.
func MustString(node *tree.Node, opts ...EncodeOption) string {
	buf := &bytes.Buffer{}
	if err := Encode(node, buf, opts...); err != nil {
		panic(err)
	}
	return buf.String()
}

func (es *EncState) json(w io.Writer, n *tree.Node) error {
	switch n.Type {
	case tree.MappingType:
		if len(n.Fields) == 0 {
			return writeString(w, es.sep(n, "{}"))
		}
		if err := writeString(w, es.sep(n, "{")); err != nil {
			return err
		}
		es.depth++
		for i, f := range n.Fields {
			if i > 0 {
				if err := writeString(w, es.sep(n, ",")); err != nil {
					return err
				}
			}
			if err := es.writeNL(w); err != nil {
				return err
			}
			key := applyColor(es, n, FieldColor, quoteJSON(f))
			colon := es.sep(n, ":")
			if !es.wire {
				colon += " "
			}
			if err := writeString(w, key+colon); err != nil {
				return err
			}
			if err := es.json(w, n.Values[i]); err != nil {
				return err
			}
		}
		es.depth--
		if err := es.writeNL(w); err != nil {
			return err
		}
		return writeString(w, es.sep(n, "}"))
	case tree.SequenceType:
		if len(n.Values) == 0 {
			return writeString(w, es.sep(n, "[]"))
		}
		if err := writeString(w, es.sep(n, "[")); err != nil {
			return err
		}
		es.depth++
		for i, v := range n.Values {
			if i > 0 {
				if err := writeString(w, es.sep(n, ",")); err != nil {
					return err
				}
			}
			if err := es.writeNL(w); err != nil {
				return err
			}
			if err := es.json(w, v); err != nil {
				return err
			}
		}
		es.depth--
		if err := es.writeNL(w); err != nil {
			return err
		}
		return writeString(w, es.sep(n, "]"))
	default:
		s, err := scalarText(n, quoteJSON)
		if err != nil {
			return err
		}
		return writeString(w, applyColor(es, n, ValueColor, s))
	}
}

func (es *EncState) yamlBlock(w io.Writer, n *tree.Node, col int, inline bool) error {
	pad := strings.Repeat(" ", col)
	switch n.Type {
	case tree.MappingType:
		for i, f := range n.Fields {
			if i > 0 || !inline {
				if err := writeString(w, pad); err != nil {
					return err
				}
			}
			if err := writeString(w, quoteYAML(f)+":"); err != nil {
				return err
			}
			if err := es.yamlChild(w, n.Values[i], col+es.indent); err != nil {
				return err
			}
		}
	case tree.SequenceType:
		for i, v := range n.Values {
			if i > 0 || !inline {
				if err := writeString(w, pad); err != nil {
					return err
				}
			}
			if err := writeString(w, "- "); err != nil {
				return err
			}
			if isBlock(v) {
				if err := es.yamlBlock(w, v, col+2, true); err != nil {
					return err
				}
				continue
			}
			s, err := es.yamlFlow(v)
			if err != nil {
				return err
			}
			if err := writeString(w, s+"\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func (es *EncState) yamlChild(w io.Writer, v *tree.Node, col int) error {
	if isBlock(v) {
		if err := writeString(w, "\n"); err != nil {
			return err
		}
		return es.yamlBlock(w, v, col, false)
	}
	s, err := es.yamlFlow(v)
	if err != nil {
		return err
	}
	return writeString(w, " "+s+"\n")
}

// yamlFlow renders scalars and empty collections.
func (es *EncState) yamlFlow(n *tree.Node) (string, error) {
	switch n.Type {
	case tree.MappingType:
		return "{}", nil
	case tree.SequenceType:
		return "[]", nil
	}
	return scalarText(n, quoteYAML)
}

func isBlock(n *tree.Node) bool {
	return n.Type != tree.ScalarType && len(n.Values) > 0
}

func scalarText(n *tree.Node, quote func(string) string) (string, error) {
	switch n.Kind {
	case tree.NullKind:
		return "null", nil
	case tree.BoolKind:
		if n.Value != "true" && n.Value != "false" {
			return "", fmt.Errorf("%w: bad bool %q at %s", ErrEncoding, n.Value, n.Path())
		}
		return n.Value, nil
	case tree.NumberKind:
		if !json.Valid([]byte(n.Value)) {
			return "", fmt.Errorf("%w: bad number %q at %s", ErrEncoding, n.Value, n.Path())
		}
		return n.Value, nil
	default:
		return quote(n.Value), nil
	}
}

func (es *EncState) writeNL(w io.Writer) error {
	if es.wire {
		return nil
	}
	return writeString(w, "\n"+strings.Repeat(" ", es.indent*es.depth))
}

func (es *EncState) sep(n *tree.Node, s string) string {
	return applyColor(es, n, SepColor, s)
}

func applyColor(es *EncState, n *tree.Node, attr ColorAttr, v string) string {
	if es.Color == nil {
		return v
	}
	return es.Color(n, attr, v)
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func quoteJSON(v string) string {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		panic(err)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func quoteYAML(v string) string {
	if v == "" || v == "<<" || token.IsNeedQuoted(v) || isSpecialFloat(v) {
		return quoteJSON(v)
	}
	switch v[0] {
	case '*', '&', '%', '@', ':', '#', ',', '{', '[', '-', '?', '!', '|', '>', '\'', '"', '`':
		return quoteJSON(v)
	}
	if strings.ContainsAny(v, "\n\t") || strings.Contains(v, ": ") || strings.Contains(v, " #") {
		return quoteJSON(v)
	}
	return v
}

// isSpecialFloat reports whether v would read back as a YAML infinity or
// NaN, e.g. ".inf", "-.Inf" or ".NAN".
func isSpecialFloat(v string) bool {
	v = strings.TrimLeft(v, "+-")
	switch strings.ToLower(v) {
	case ".inf", ".nan":
		return true
	}
	return false
}
