// Package envelope binds versioned lists of polymorphic elements.
//
// An envelope is written as
//
//	{"version": 1, "data": [{"Apple": {"seeds": 3}}, {"Cherry": "orange"}]}
//
// Each element carries the name its concrete type has in a Catalog. How the
// name is attached is up to the Tagger: KeyTag (the default) wraps the
// element in a single key mapping and FieldTag adds a reserved key to the
// element's own mapping.
//
// Reading fails closed: an unknown version is an *UnsupportedVersionError
// and the first element which cannot be bound aborts the read without a
// partial result.
package envelope
