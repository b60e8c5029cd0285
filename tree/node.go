package tree

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Node is a tree value: a Mapping, a Sequence or a Scalar.
//
// For MappingType nodes, Fields[i] is the key for Values[i]. For
// SequenceType nodes only Values is used. Scalars hold their canonical text
// in Value and the literal kind in Kind.
type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentField string

	Fields []string
	Values []*Node

	Kind  ScalarKind
	Value string
}

// NewMapping returns an empty mapping.
func NewMapping() *Node {
	return &Node{Type: MappingType}
}

// NewSequence returns an empty sequence.
func NewSequence() *Node {
	return &Node{Type: SequenceType}
}

func FromString(v string) *Node {
	return &Node{Type: ScalarType, Kind: StringKind, Value: v}
}

func FromInt[T constraints.Integer](v T) *Node {
	return &Node{Type: ScalarType, Kind: NumberKind, Value: strconv.FormatInt(int64(v), 10)}
}

func FromUint[T constraints.Unsigned](v T) *Node {
	return &Node{Type: ScalarType, Kind: NumberKind, Value: strconv.FormatUint(uint64(v), 10)}
}

func FromFloat[T constraints.Float](v T) *Node {
	bits := 8 * int(unsafe.Sizeof(v))
	return &Node{Type: ScalarType, Kind: NumberKind, Value: strconv.FormatFloat(float64(v), 'g', -1, bits)}
}

func FromBool(v bool) *Node {
	return &Node{Type: ScalarType, Kind: BoolKind, Value: strconv.FormatBool(v)}
}

// FromNumber makes a number scalar from already formatted text.
func FromNumber(text string) *Node {
	return &Node{Type: ScalarType, Kind: NumberKind, Value: text}
}

func Null() *Node {
	return &Node{Type: ScalarType, Kind: NullKind, Value: "null"}
}

// FromMap builds a mapping with keys in sorted order.
func FromMap(m map[string]*Node) *Node {
	res := NewMapping()
	for _, key := range slices.Sorted(maps.Keys(m)) {
		res.set(key, m[key])
	}
	return res
}

type KeyVal struct {
	Key string
	Val *Node
}

// FromKeyVals builds a mapping preserving the order of kvs. Later
// duplicates overwrite earlier ones.
func FromKeyVals(kvs []KeyVal) *Node {
	res := NewMapping()
	for _, kv := range kvs {
		res.set(kv.Key, kv.Val)
	}
	return res
}

func FromSlice(vs []*Node) *Node {
	res := NewSequence()
	for _, v := range vs {
		res.add(v)
	}
	return res
}

// IsNull reports whether n is a null scalar. A nil node counts as null.
func (n *Node) IsNull() bool {
	return n == nil || (n.Type == ScalarType && n.Kind == NullKind)
}

func (n *Node) AsMapping() (*Node, error) {
	if n.Type != MappingType {
		return nil, mismatch(n, "Mapping")
	}
	return n, nil
}

func (n *Node) AsSequence() (*Node, error) {
	if n.Type != SequenceType {
		return nil, mismatch(n, "Sequence")
	}
	return n, nil
}

func (n *Node) AsScalar() (*Node, error) {
	if n.Type != ScalarType {
		return nil, mismatch(n, "Scalar")
	}
	return n, nil
}

// Put inserts or overwrites key in the mapping n. A value that already
// belongs to another tree is cloned first, so trees never share nodes.
func (n *Node) Put(key string, v *Node) error {
	if n.Type != MappingType {
		return mismatch(n, "Mapping")
	}
	n.set(key, v)
	return nil
}

// Append adds v to the end of the sequence n.
func (n *Node) Append(v *Node) error {
	if n.Type != SequenceType {
		return mismatch(n, "Sequence")
	}
	n.add(v)
	return nil
}

// Get returns the value of key, failing with a MissingFieldError when it is
// absent.
func (n *Node) Get(key string) (*Node, error) {
	m, err := n.AsMapping()
	if err != nil {
		return nil, err
	}
	v, ok := m.Lookup(key)
	if !ok {
		return nil, &MissingFieldError{Path: n.Path(), Key: key}
	}
	return v, nil
}

// Lookup returns the value of key in a mapping.
func (n *Node) Lookup(key string) (*Node, bool) {
	if n.Type != MappingType {
		return nil, false
	}
	i := slices.Index(n.Fields, key)
	if i < 0 {
		return nil, false
	}
	return n.Values[i], true
}

// Keys returns the mapping keys in order.
func (n *Node) Keys() []string {
	return slices.Clone(n.Fields)
}

func (n *Node) Len() int {
	if n.Type == ScalarType {
		return 0
	}
	return len(n.Values)
}

// Without returns a copy of the mapping n with keys removed.
func (n *Node) Without(keys ...string) (*Node, error) {
	if _, err := n.AsMapping(); err != nil {
		return nil, err
	}
	res := NewMapping()
	for i, f := range n.Fields {
		if slices.Contains(keys, f) {
			continue
		}
		res.set(f, n.Values[i].Clone())
	}
	return res, nil
}

// Rename returns a copy of the mapping n in which the entry under from is
// stored under to instead. The position of the entry is kept. It is a
// MissingFieldError if from is absent.
func (n *Node) Rename(from, to string) (*Node, error) {
	if _, err := n.Get(from); err != nil {
		return nil, err
	}
	res := NewMapping()
	for i, f := range n.Fields {
		switch f {
		case from:
			res.set(to, n.Values[i].Clone())
		case to:
			// replaced by from
		default:
			res.set(f, n.Values[i].Clone())
		}
	}
	return res, nil
}

func (n *Node) set(key string, v *Node) {
	if v == nil {
		v = Null()
	}
	i := slices.Index(n.Fields, key)
	if v.Parent != nil && !(v.Parent == n && i == v.ParentIndex) {
		v = v.Clone()
	}
	v.Parent = n
	v.ParentField = key
	if i >= 0 {
		old := n.Values[i]
		if old != v {
			old.Parent = nil
		}
		v.ParentIndex = i
		n.Values[i] = v
		return
	}
	v.ParentIndex = len(n.Values)
	n.Fields = append(n.Fields, key)
	n.Values = append(n.Values, v)
}

func (n *Node) add(v *Node) {
	if v == nil {
		v = Null()
	}
	if v.Parent != nil {
		v = v.Clone()
	}
	v.Parent = n
	v.ParentIndex = len(n.Values)
	v.ParentField = ""
	n.Values = append(n.Values, v)
}

// Clone returns a deep copy of n detached from any parent.
func (n *Node) Clone() *Node {
	res := &Node{
		Type:  n.Type,
		Kind:  n.Kind,
		Value: n.Value,
	}
	switch n.Type {
	case MappingType:
		for i, f := range n.Fields {
			res.set(f, n.Values[i].Clone())
		}
	case SequenceType:
		for _, v := range n.Values {
			res.add(v.Clone())
		}
	}
	return res
}

func (n *Node) Root() *Node {
	res := n
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

// Path returns the location of n from its root, e.g. "$.data[1].ripe".
func (n *Node) Path() string {
	if n == nil {
		return "$"
	}
	var parts []string
	for x := n; x.Parent != nil; x = x.Parent {
		if x.Parent.Type == SequenceType {
			parts = append(parts, "["+strconv.Itoa(x.ParentIndex)+"]")
			continue
		}
		parts = append(parts, pathField(x.ParentField))
	}
	slices.Reverse(parts)
	return "$" + strings.Join(parts, "")
}

func pathField(f string) string {
	plain := f != ""
	for _, r := range f {
		if !(r == '_' || r == '-' || r == '$' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			plain = false
			break
		}
	}
	if plain {
		return "." + f
	}
	return "[" + strconv.Quote(f) + "]"
}

// Visit calls f on n and, while f returns true, on its descendants, then
// calls f again with isPost set.
func (n *Node) Visit(f func(n *Node, isPost bool) (bool, error)) error {
	dive, err := f(n, false)
	if err != nil {
		return err
	}
	if dive {
		for _, v := range n.Values {
			if err := v.Visit(f); err != nil {
				return err
			}
		}
	}
	_, err = f(n, true)
	return err
}

func (n *Node) describe() string {
	if n.Type == ScalarType {
		return n.Kind.String() + " scalar"
	}
	return n.Type.String()
}
