package envelope_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/signadot/databind/bind"
	"github.com/signadot/databind/codec"
	"github.com/signadot/databind/envelope"
	"github.com/signadot/databind/format"
	"github.com/signadot/databind/internal/fruit"
	"github.com/signadot/databind/tree"
	"github.com/stretchr/testify/require"
)

func newBinder(t *testing.T, opts ...envelope.Option) *envelope.Binder[fruit.Fruit] {
	t.Helper()
	b, err := fruit.NewBinder(nil, opts...)
	require.NoError(t, err)
	return b
}

func mustNode(t *testing.T, s string) *tree.Node {
	t.Helper()
	n, err := codec.DecodeBytes([]byte(s))
	require.NoError(t, err)
	return n
}

func threeFruit(t *testing.T) envelope.Envelope[fruit.Fruit] {
	t.Helper()
	c, err := fruit.NewCherry("orange")
	require.NoError(t, err)
	return envelope.New[fruit.Fruit](1, fruit.Apple{Seeds: 3}, fruit.Banana{Yellow: true}, c)
}

func TestRoundTrip(t *testing.T) {
	b := newBinder(t)
	env := threeFruit(t)

	n, err := b.Write(env)
	require.NoError(t, err)
	want := mustNode(t, `{"version": 1, "data": [{"Apple": {"seeds": 3}}, {"Banana": {"ripe": true}}, {"Cherry": "orange"}]}`)
	require.True(t, tree.Equal(want, n), codec.MustString(n))

	got, err := b.Read(n)
	require.NoError(t, err)
	require.Equal(t, env, got)

	banana, ok := got.Data[1].(fruit.Banana)
	require.True(t, ok)
	require.True(t, banana.Yellow)
}

func TestEmptyData(t *testing.T) {
	b := newBinder(t)
	n, err := b.Write(envelope.New[fruit.Fruit](1))
	require.NoError(t, err)
	env, err := b.Read(n)
	require.NoError(t, err)
	require.Empty(t, env.Data)
}

func TestFieldTag(t *testing.T) {
	b := newBinder(t, envelope.WithTagger(envelope.FieldTag{Key: "$class"}))
	env := envelope.New[fruit.Fruit](1, fruit.Apple{Seeds: 3}, fruit.Banana{Yellow: false})
	n, err := b.Write(env)
	require.NoError(t, err)
	want := mustNode(t, `{"version": 1, "data": [{"$class": "Apple", "seeds": 3}, {"$class": "Banana", "ripe": false}]}`)
	require.True(t, tree.Equal(want, n), codec.MustString(n))
	require.Equal(t, []string{"$class", "seeds"}, n.Values[1].Values[0].Keys())

	got, err := b.Read(n)
	require.NoError(t, err)
	require.Equal(t, env, got)

	// a cherry is a scalar and has nowhere to put the key
	_, err = b.Write(threeFruit(t))
	require.ErrorIs(t, err, tree.ErrTypeMismatch)
}

func TestUnsupportedVersion(t *testing.T) {
	b := newBinder(t)

	_, err := b.Write(envelope.New[fruit.Fruit](2, fruit.Apple{Seeds: 1}))
	require.ErrorIs(t, err, envelope.ErrUnsupportedVersion)

	got, err := b.Read(mustNode(t, `{"version": 2, "data": [{"Apple": {"seeds": 3}}]}`))
	require.ErrorIs(t, err, envelope.ErrUnsupportedVersion)
	var uv *envelope.UnsupportedVersionError
	require.ErrorAs(t, err, &uv)
	require.EqualValues(t, 2, uv.Version)
	require.Equal(t, "$.version", uv.Path)
	require.Zero(t, got)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		is   error
		path string
	}{
		{
			name: "no version",
			in:   `{"data": []}`,
			is:   tree.ErrMissingField,
		},
		{
			name: "version not a number",
			in:   `{"version": "one", "data": []}`,
			is:   tree.ErrTypeMismatch,
			path: "$.version",
		},
		{
			name: "data not a list",
			in:   `{"version": 1, "data": {}}`,
			is:   tree.ErrTypeMismatch,
			path: "$.data",
		},
		{
			name: "unknown name",
			in:   `{"version": 1, "data": [{"Apple": {"seeds": 1}}, {"Fig": {}}]}`,
			is:   bind.ErrResolution,
			path: "$.data[1]",
		},
		{
			name: "two keys",
			in:   `{"version": 1, "data": [{"Apple": {"seeds": 1}, "Banana": {"ripe": true}}]}`,
			is:   tree.ErrTypeMismatch,
			path: "$.data[0]",
		},
		{
			name: "banana missing ripe",
			in:   `{"version": 1, "data": [{"Apple": {"seeds": 1}}, {"Banana": {"yellow": true}}]}`,
			is:   tree.ErrMissingField,
			path: "$.data[1].Banana",
		},
		{
			name: "bad seeds",
			in:   `{"version": 1, "data": [{"Apple": {"seeds": "many"}}]}`,
			is:   tree.ErrTypeMismatch,
			path: "$.data[0].Apple.seeds",
		},
	}
	b := newBinder(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := b.Read(mustNode(t, tt.in))
			require.ErrorIs(t, err, tt.is)
			require.Nil(t, env.Data)
			if tt.path != "" {
				require.Contains(t, err.Error(), tt.path)
			}
		})
	}
}

type pear struct{}

func TestNotAssignable(t *testing.T) {
	reg := bind.NewRegistry()
	cat := envelope.NewCatalog()
	require.NoError(t, fruit.Register(reg, cat))
	require.NoError(t, envelope.Add[pear](cat, "Pear"))
	b := envelope.NewBinder[fruit.Fruit](reg, cat)

	_, err := b.Read(mustNode(t, `{"version": 1, "data": [{"Pear": {}}]}`))
	require.ErrorIs(t, err, bind.ErrResolution)
	var re *bind.ResolutionError
	require.ErrorAs(t, err, &re)
	require.Equal(t, reflect.TypeFor[pear](), re.Type)
}

type plum struct{}

func (plum) Describe() string { return "plum" }

func TestWriteUnnamed(t *testing.T) {
	b := newBinder(t)
	_, err := b.Write(envelope.New[fruit.Fruit](1, fruit.Apple{}, plum{}))
	require.ErrorIs(t, err, bind.ErrResolution)
	require.Contains(t, err.Error(), "$.data[1]")

	_, err = b.Write(envelope.New[fruit.Fruit](1, nil))
	var me *bind.MarshalError
	require.ErrorAs(t, err, &me)
	require.Equal(t, "$.data[0]", me.Path)
}

func TestNames(t *testing.T) {
	b := newBinder(t)
	names, err := b.Names(threeFruit(t))
	require.NoError(t, err)
	require.Equal(t, []string{"Apple", "Banana", "Cherry"}, names)
}

func TestCatalog(t *testing.T) {
	cat := envelope.NewCatalog()
	require.NoError(t, envelope.Add[fruit.Apple](cat, "Apple"))
	require.NoError(t, envelope.Add[fruit.Banana](cat, "Banana"))
	require.NoError(t, envelope.Add[pear](cat, "Pear"))
	require.ErrorIs(t, envelope.Add[fruit.Durian](cat, "Apple"), envelope.ErrDuplicateName)
	require.ErrorIs(t, envelope.Add[fruit.Apple](cat, "Malus"), envelope.ErrDuplicateName)

	name, ok := cat.NameOf(reflect.TypeFor[fruit.Banana]())
	require.True(t, ok)
	require.Equal(t, "Banana", name)
	typ, ok := cat.TypeOf("Pear")
	require.True(t, ok)
	require.Equal(t, reflect.TypeFor[pear](), typ)
	_, ok = cat.TypeOf("Fig")
	require.False(t, ok)

	require.Equal(t, []string{"Apple", "Banana"}, cat.Implementations(reflect.TypeFor[fruit.Fruit]()))
	require.Equal(t, []string{"Apple", "Banana", "Pear"}, cat.Names())
}

func TestSerializer(t *testing.T) {
	b := newBinder(t)
	for _, f := range format.AllFormats() {
		t.Run(f.String(), func(t *testing.T) {
			s := envelope.NewSerializer(b, codec.EncodeFormat(f))
			require.Equal(t, f.ContentType(), s.ContentType())
			buf := &bytes.Buffer{}
			require.NoError(t, s.Encode(buf, threeFruit(t)))
			if f.IsYAML() {
				require.True(t, strings.HasPrefix(buf.String(), "version: 1\n"), buf.String())
			}
			got, err := s.Decode(buf)
			require.NoError(t, err)
			require.Equal(t, threeFruit(t), got)
		})
	}
}
