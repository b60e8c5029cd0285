package envelope

// Version1 is the only envelope version: data is a flat list of tagged
// elements.
const Version1 = 1

// Envelope is a versioned list of polymorphic elements. T is usually an
// interface implemented by every element type in the Catalog.
type Envelope[T any] struct {
	Version int
	Data    []T
}

// New returns an envelope of the given version holding data.
func New[T any](version int, data ...T) Envelope[T] {
	return Envelope[T]{Version: version, Data: data}
}
