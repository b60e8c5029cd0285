package tree

import (
	"strconv"
)

// Text returns the text of a non-null scalar.
func (n *Node) Text() (string, error) {
	if _, err := n.AsScalar(); err != nil {
		return "", err
	}
	if n.Kind == NullKind {
		return "", mismatch(n, "text")
	}
	return n.Value, nil
}

// Int coerces a number or string scalar to an int64.
func (n *Node) Int() (int64, error) {
	if err := n.numeric("int"); err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(n.Value, 64)
		if ferr == nil && f == float64(int64(f)) {
			return int64(f), nil
		}
		return 0, n.coerceErr("int", err)
	}
	return v, nil
}

func (n *Node) Uint() (uint64, error) {
	if err := n.numeric("uint"); err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(n.Value, 10, 64)
	if err != nil {
		return 0, n.coerceErr("uint", err)
	}
	return v, nil
}

func (n *Node) Float() (float64, error) {
	if err := n.numeric("float"); err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(n.Value, 64)
	if err != nil {
		return 0, n.coerceErr("float", err)
	}
	return v, nil
}

// Bool coerces a bool or string scalar to a bool.
func (n *Node) Bool() (bool, error) {
	if _, err := n.AsScalar(); err != nil {
		return false, err
	}
	switch n.Kind {
	case BoolKind, StringKind:
	default:
		return false, mismatch(n, "bool")
	}
	v, err := strconv.ParseBool(n.Value)
	if err != nil {
		return false, n.coerceErr("bool", err)
	}
	return v, nil
}

func (n *Node) numeric(want string) error {
	if _, err := n.AsScalar(); err != nil {
		return err
	}
	switch n.Kind {
	case NumberKind, StringKind:
		return nil
	default:
		return mismatch(n, want)
	}
}

func (n *Node) coerceErr(want string, err error) error {
	e := mismatch(n, want)
	e.Got = strconv.Quote(n.Value)
	e.Err = err
	return e
}
