package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/signadot/databind/tree"
)

var logOut io.Writer = os.Stderr

// Logf prints to stderr, rendering trees and plain JSON values as indented
// JSON.
func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case map[string]any, []any, json.Number:
			args[i] = indent(a)
		case *tree.Node:
			if x == nil {
				args[i] = "<nil>"
				continue
			}
			args[i] = indent(tree.ToAny(x))
		}
	}
	fmt.Fprintf(logOut, msg, args...)
}

func indent(v any) string {
	d, err := json.MarshalIndent(v, "   |", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(d)
}
