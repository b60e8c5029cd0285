// Package tree provides the neutral tree representation used as the
// boundary between domain objects and wire formats.
//
// # Node Structure
//
// A Node is one of three variants, indicated by its Type:
//
//   - MappingType: string keys to nodes. Keys are unique. Insertion order is
//     kept for codecs but is not significant for equality.
//   - SequenceType: an ordered list of nodes.
//   - ScalarType: a single primitive value held as text, with a ScalarKind
//     (string, number, bool, null) recording how it should be written.
//
// Trees are finite and acyclic, and no node is shared between two trees:
// Put and Append clone a value that already has a parent.
//
// # Creating Nodes
//
//	m := tree.NewMapping()
//	m.Put("seeds", tree.FromInt(3))
//	seq := tree.FromSlice([]*tree.Node{tree.FromString("a"), tree.FromBool(true)})
//
// # Reading Nodes
//
// AsMapping, AsSequence and AsScalar check the variant and fail with a
// *TypeMismatchError otherwise. Get fails with a *MissingFieldError for an
// absent key. Scalar coercion (Int, Float, Bool, Text) happens at the point
// of extraction and reports failures as type mismatches. All errors carry the
// path of the offending node, e.g. "$.data[1].ripe".
//
// Transformations such as Rename and Without return new trees and leave the
// input untouched.
package tree
