package codec

import (
	"strings"

	"github.com/fatih/color"
	"github.com/signadot/databind/tree"
)

type Colorable struct {
	Type tree.Type
	Kind tree.ScalarKind
	Attr ColorAttr
}

type ColorAttr int

const (
	FieldColor ColorAttr = iota
	ValueColor
	SepColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	sep := color.RGB(196, 128, 128).SprintfFunc()
	for _, t := range []tree.Type{tree.MappingType, tree.SequenceType} {
		colors.Map[Colorable{Type: t, Attr: SepColor}] = sep
	}
	colors.Map[Colorable{Type: tree.MappingType, Attr: FieldColor}] = color.RGB(128, 168, 196).SprintfFunc()

	able := Colorable{Type: tree.ScalarType, Attr: ValueColor}
	able.Kind = tree.StringKind
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()
	able.Kind = tree.NumberKind
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	able.Kind = tree.BoolKind
	colors.Map[able] = color.CyanString
	able.Kind = tree.NullKind
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()

	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(n *tree.Node, a ColorAttr, s string) string {
	return c.Get(n, a)(s)
}

func (c *Colors) Get(n *tree.Node, a ColorAttr) func(string, ...any) string {
	able := Colorable{Type: n.Type, Attr: a}
	if n.Type == tree.ScalarType {
		able.Kind = n.Kind
	}
	f := c.Map[able]
	if f == nil {
		return c.Default
	}
	return f
}
