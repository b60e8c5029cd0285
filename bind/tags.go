package bind

import (
	"fmt"
	"strings"
)

// fieldTag is the parsed form of a `bind:"..."` struct tag or a constructor
// parameter name.
//
//	bind:"field=ripe,optional"
//	bind:"omit"
type fieldTag struct {
	Field    string
	Optional bool
	Omit     bool
}

func parseTag(tag string) (fieldTag, error) {
	res := fieldTag{}
	if tag == "" {
		return res, nil
	}
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, isKV := strings.Cut(part, "=")
		if isKV {
			key = strings.TrimSpace(key)
			value = strings.Trim(strings.TrimSpace(value), "'")
			switch key {
			case "field":
				if value == "" {
					return res, fmt.Errorf("invalid tag %q: empty field name", tag)
				}
				res.Field = value
			default:
				return res, fmt.Errorf("invalid tag %q: unknown key %q", tag, key)
			}
			continue
		}
		switch part {
		case "optional":
			res.Optional = true
		case "omit":
			res.Omit = true
		default:
			return res, fmt.Errorf("invalid tag %q: unknown flag %q", tag, part)
		}
	}
	return res, nil
}

// parseParamName parses a constructor parameter declaration such as
// "color" or "color,optional".
func parseParamName(s string) (string, bool, error) {
	name, rest, _ := strings.Cut(s, ",")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false, fmt.Errorf("empty parameter name in %q", s)
	}
	switch strings.TrimSpace(rest) {
	case "":
		return name, false, nil
	case "optional":
		return name, true, nil
	default:
		return "", false, fmt.Errorf("invalid parameter %q: unknown flag %q", s, rest)
	}
}
