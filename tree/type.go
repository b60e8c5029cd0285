package tree

import "fmt"

// Type is the variant of a Node.
type Type int

const (
	ScalarType Type = iota
	SequenceType
	MappingType
)

func (t Type) String() string {
	s, ok := map[Type]string{
		ScalarType:   "Scalar",
		SequenceType: "Sequence",
		MappingType:  "Mapping",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, ok := map[string]Type{
		"Scalar":   ScalarType,
		"Sequence": SequenceType,
		"Mapping":  MappingType,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized type %q", d)
	}
	*t = tt
	return nil
}

// ScalarKind records which kind of primitive literal a scalar was written
// from, so that codecs can emit it faithfully. The value itself is always
// held as text.
type ScalarKind int

const (
	StringKind ScalarKind = iota
	NumberKind
	BoolKind
	NullKind
)

func (k ScalarKind) String() string {
	switch k {
	case StringKind:
		return "string"
	case NumberKind:
		return "number"
	case BoolKind:
		return "bool"
	case NullKind:
		return "null"
	default:
		return "<unknown kind>"
	}
}
