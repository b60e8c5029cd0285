package envelope

import (
	"io"

	"github.com/signadot/databind/codec"
	"github.com/signadot/databind/format"
)

// Serializer moves envelopes of T to and from bytes in one format.
type Serializer[T any] struct {
	binder *Binder[T]
	opts   []codec.EncodeOption
}

// NewSerializer returns a serializer writing with opts. The input format
// for Decode is taken from opts as well.
func NewSerializer[T any](b *Binder[T], opts ...codec.EncodeOption) *Serializer[T] {
	return &Serializer[T]{binder: b, opts: opts}
}

func (s *Serializer[T]) Format() format.Format {
	return codec.FormatFromOpts(s.opts...)
}

// ContentType is the media type of the documents Encode writes.
func (s *Serializer[T]) ContentType() string {
	return s.Format().ContentType()
}

func (s *Serializer[T]) Encode(w io.Writer, env Envelope[T]) error {
	n, err := s.binder.Write(env)
	if err != nil {
		return err
	}
	return codec.Encode(n, w, s.opts...)
}

func (s *Serializer[T]) Decode(r io.Reader) (Envelope[T], error) {
	n, err := codec.Decode(r, codec.DecodeFormat(s.Format()))
	if err != nil {
		return Envelope[T]{}, err
	}
	return s.binder.Read(n)
}
