// Package codec reads and writes trees as JSON or YAML.
//
// # Encoding
//
//	err := codec.Encode(node, os.Stdout, codec.EncodeFormat(format.YAMLFormat))
//
// Mapping keys are written in tree order. Options select the format, the
// indent, compact single line JSON (EncodeWire) and terminal colours
// (EncodeColors, JSON only).
//
// # Decoding
//
// Decode and DecodeBytes parse a single document through the goccy/go-yaml
// AST, so JSON and YAML are both accepted and key order is kept. Aliases,
// merge keys, duplicate keys, non-finite numbers and multi-document input are
// rejected since a tree never shares nodes. Empty input is ErrEmpty.
//
// # Patching
//
// Patch applies an RFC 6902 JSON patch and MergePatch an RFC 7386 merge
// patch. Both return new trees.
package codec
