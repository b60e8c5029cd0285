package debug

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/signadot/databind/tree"
)

func TestLogf(t *testing.T) {
	defer func(w io.Writer) { logOut = w }(logOut)
	buf := &bytes.Buffer{}
	logOut = buf

	n := tree.NewMapping()
	n.Put("seeds", tree.FromInt(3))
	var none *tree.Node
	Logf("decoded %d bytes: %v %v\n", 12, n, none)

	got := buf.String()
	if !strings.HasPrefix(got, "decoded 12 bytes: {") {
		t.Errorf("unexpected prefix: %q", got)
	}
	if !strings.Contains(got, `"seeds": 3`) {
		t.Errorf("tree not rendered as JSON: %q", got)
	}
	if !strings.HasSuffix(got, "<nil>\n") {
		t.Errorf("nil tree not rendered: %q", got)
	}
}
