package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Format is a wire format of trees.
type Format int

const (
	JSONFormat Format = iota
	YAMLFormat
)

var ErrBadFormat = errors.New("bad format")

type info struct {
	names       []string // first is canonical
	exts        []string
	contentType string
}

var table = map[Format]info{
	JSONFormat: {names: []string{"json", "j"}, exts: []string{".json"}, contentType: "application/json"},
	YAMLFormat: {names: []string{"yaml", "y", "yml"}, exts: []string{".yaml", ".yml"}, contentType: "application/yaml"},
}

// ParseFormat accepts a format name or its short form, ignoring case.
func ParseFormat(v string) (Format, error) {
	v = strings.ToLower(v)
	for _, f := range AllFormats() {
		if slices.Contains(table[f].names, v) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	in, ok := table[f]
	if !ok {
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
	return []byte(in.names[0]), nil
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsJSON() bool { return f == JSONFormat }
func (f Format) IsYAML() bool { return f == YAMLFormat }

// ContentType is the media type of documents in f, "" for an unknown format.
func (f Format) ContentType() string {
	return table[f].contentType
}

// FromPath guesses the format of a file from its extension.
func FromPath(p string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(p))
	for _, f := range AllFormats() {
		if slices.Contains(table[f].exts, ext) {
			return f, true
		}
	}
	return 0, false
}

// AllFormats returns all supported formats in preference order.
func AllFormats() []Format {
	return []Format{JSONFormat, YAMLFormat}
}
