package codec

import "github.com/signadot/databind/format"

type EncodeOption func(*EncState)

func EncodeFormat(f format.Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

// FormatFromOpts extracts the format from encode options.
func FormatFromOpts(opts ...EncodeOption) format.Format {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es.format
}

func EncodeIndent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

// EncodeColors colours JSON output. It has no effect on YAML.
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c == nil {
			es.Color = nil
			return
		}
		es.Color = c.Color
	}
}

// EncodeWire writes compact single line JSON. YAML output is unaffected.
func EncodeWire(v bool) EncodeOption {
	return func(es *EncState) { es.wire = v }
}

type DecodeOption func(*decState)

// DecodeFormat records the expected input format. JSON input is checked
// for validity before parsing; YAML accepts JSON as well.
func DecodeFormat(f format.Format) DecodeOption {
	return func(ds *decState) { ds.format = &f }
}

// DecodeMaxDepth bounds the nesting depth of decoded documents.
func DecodeMaxDepth(n int) DecodeOption {
	return func(ds *decState) { ds.maxDepth = n }
}
