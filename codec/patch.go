package codec

import (
	"bytes"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/signadot/databind/format"
	"github.com/signadot/databind/tree"
)

// Patch applies an RFC 6902 JSON patch to doc and returns the result as a
// new tree. doc is left untouched. Keys of patched mappings come back in
// sorted order.
func Patch(doc *tree.Node, patch []byte) (*tree.Node, error) {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("bad json patch: %w", err)
	}
	d, err := MarshalJSON(doc)
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(d)
	if err != nil {
		return nil, fmt.Errorf("could not apply json patch: %w", err)
	}
	return DecodeBytes(out, DecodeFormat(format.JSONFormat))
}

// MergePatch applies an RFC 7386 merge patch to doc.
func MergePatch(doc *tree.Node, patch []byte) (*tree.Node, error) {
	d, err := MarshalJSON(doc)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(d, patch)
	if err != nil {
		return nil, fmt.Errorf("could not apply merge patch: %w", err)
	}
	return DecodeBytes(out, DecodeFormat(format.JSONFormat))
}

// MergeDiff returns the merge patch which turns from into to.
func MergeDiff(from, to *tree.Node) (*tree.Node, error) {
	a, err := MarshalJSON(from)
	if err != nil {
		return nil, err
	}
	b, err := MarshalJSON(to)
	if err != nil {
		return nil, err
	}
	d, err := jsonpatch.CreateMergePatch(a, b)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(d, DecodeFormat(format.JSONFormat))
}

// MarshalJSON renders node as compact JSON.
func MarshalJSON(node *tree.Node) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := Encode(node, buf, EncodeFormat(format.JSONFormat), EncodeWire(true)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
