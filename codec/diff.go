package codec

import (
	"strings"

	"github.com/signadot/databind/format"
	"github.com/signadot/databind/tree"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders from and to (YAML unless opts say otherwise) and returns a
// line diff with "-", "+" and " " prefixes. Structurally equal trees give
// "".
func Diff(from, to *tree.Node, opts ...EncodeOption) (string, error) {
	if tree.Equal(from, to) {
		return "", nil
	}
	opts = append([]EncodeOption{EncodeFormat(format.YAMLFormat)}, opts...)
	a, err := render(from, opts)
	if err != nil {
		return "", err
	}
	b, err := render(to, opts)
	if err != nil {
		return "", err
	}
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	buf := &strings.Builder{}
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+"
		case diffpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			buf.WriteString(prefix)
			buf.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				buf.WriteByte('\n')
			}
		}
	}
	return buf.String(), nil
}

func render(n *tree.Node, opts []EncodeOption) (string, error) {
	buf := &strings.Builder{}
	if err := Encode(n, buf, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}
