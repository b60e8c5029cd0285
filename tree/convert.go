package tree

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ToAny converts n to plain Go values: map[string]any, []any, string,
// int64, float64, bool or nil.
func ToAny(n *Node) any {
	if n == nil {
		return nil
	}
	switch n.Type {
	case MappingType:
		res := make(map[string]any, len(n.Fields))
		for i, f := range n.Fields {
			res[f] = ToAny(n.Values[i])
		}
		return res
	case SequenceType:
		res := make([]any, len(n.Values))
		for i, v := range n.Values {
			res[i] = ToAny(v)
		}
		return res
	}
	switch n.Kind {
	case NullKind:
		return nil
	case BoolKind:
		return n.Value == "true"
	case NumberKind:
		if i, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return f
		}
	}
	return n.Value
}

// FromAny is the inverse of ToAny. Maps produce mappings with sorted keys.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return x.Clone(), nil
	case string:
		return FromString(x), nil
	case bool:
		return FromBool(x), nil
	case int:
		return FromInt(x), nil
	case int8:
		return FromInt(x), nil
	case int16:
		return FromInt(x), nil
	case int32:
		return FromInt(x), nil
	case int64:
		return FromInt(x), nil
	case uint:
		return FromUint(x), nil
	case uint8:
		return FromUint(x), nil
	case uint16:
		return FromUint(x), nil
	case uint32:
		return FromUint(x), nil
	case uint64:
		return FromUint(x), nil
	case float32:
		return FromFloat(x), nil
	case float64:
		return FromFloat(x), nil
	case json.Number:
		return FromNumber(x.String()), nil
	case []any:
		res := NewSequence()
		for _, e := range x {
			en, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			res.add(en)
		}
		return res, nil
	case map[string]any:
		m := make(map[string]*Node, len(x))
		for k, e := range x {
			en, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			m[k] = en
		}
		return FromMap(m), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to a tree node", v)
	}
}
