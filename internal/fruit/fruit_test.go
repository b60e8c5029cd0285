package fruit

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/databind/bind"
	"github.com/signadot/databind/bindtest"
	"github.com/signadot/databind/codec"
	"github.com/signadot/databind/envelope"
	"github.com/signadot/databind/format"
	"github.com/signadot/databind/tree"
	"github.com/stretchr/testify/require"
)

const sampleWire = `{"version":1,"data":[{"Apple":{"seeds":3}},{"Banana":{"ripe":true}},{"Cherry":"orange"},{"Durian":{"smelly":true}},{"Eggfruit":{"weight":120}}]}`

func TestSampleWire(t *testing.T) {
	b, err := NewBinder(nil)
	require.NoError(t, err)
	n, err := b.Write(Sample())
	require.NoError(t, err)
	require.Equal(t, sampleWire, codec.MustString(n, codec.EncodeWire(true)))
}

func TestSampleReadBack(t *testing.T) {
	b, err := NewBinder(nil)
	require.NoError(t, err)
	n, err := codec.DecodeBytes([]byte(sampleWire), codec.DecodeFormat(format.JSONFormat))
	require.NoError(t, err)
	env, err := b.Read(n)
	require.NoError(t, err)
	require.Equal(t, envelope.Version1, env.Version)
	require.Equal(t, []Fruit{
		Apple{Seeds: 3},
		Banana{Yellow: true},
		Cherry{color: "orange"},
		Durian{Age: oldAge},
		Eggfruit{grams: 120},
	}, env.Data)
}

func TestCherry(t *testing.T) {
	reg := bind.NewRegistry()
	require.NoError(t, Register(reg, envelope.NewCatalog()))

	_, err := bind.Unmarshal[Cherry](reg, tree.FromString("  "))
	require.ErrorIs(t, err, ErrNoColor)

	_, err = bind.Unmarshal[Cherry](reg, tree.NewMapping())
	require.ErrorIs(t, err, tree.ErrTypeMismatch)

	c, err := bind.Unmarshal[Cherry](reg, tree.FromString("red"))
	require.NoError(t, err)
	require.Equal(t, "red", c.Color())
}

func TestDurianIsLossy(t *testing.T) {
	reg := bind.NewRegistry()
	require.NoError(t, Register(reg, envelope.NewCatalog()))
	for _, tc := range []struct{ age, back int }{{2, youngAge}, {30, youngAge}, {31, oldAge}, {90, oldAge}} {
		n, err := bind.Marshal(reg, Durian{Age: tc.age})
		require.NoError(t, err)
		d, err := bind.Unmarshal[Durian](reg, n)
		require.NoError(t, err)
		require.Equal(t, tc.back, d.Age, "age %d", tc.age)
	}
}

func TestRegisterTwice(t *testing.T) {
	reg := bind.NewRegistry()
	cat := envelope.NewCatalog()
	require.NoError(t, Register(reg, cat))
	require.ErrorIs(t, Register(reg, cat), bind.ErrDuplicateModel)
}

func TestSampleYAML(t *testing.T) {
	b, err := NewBinder(nil)
	require.NoError(t, err)
	s := envelope.NewSerializer(b, codec.EncodeFormat(format.YAMLFormat))
	buf := &bytes.Buffer{}
	require.NoError(t, s.Encode(buf, Sample()))
	env, err := s.Decode(buf)
	require.NoError(t, err)
	require.Len(t, env.Data, 5)
	require.Equal(t, "yellow banana", env.Data[1].Describe())
	require.Equal(t, "eggfruit of 120g", env.Data[4].Describe())
}

func TestModels(t *testing.T) {
	reg := bind.NewRegistry()
	require.NoError(t, Register(reg, envelope.NewCatalog()))

	n := bindtest.RoundTrip(t, reg, Apple{Seeds: 3})
	bindtest.SchemaKeys(t, reg, bindtest.Resolve[Apple](t, reg), n)

	n = bindtest.RoundTrip(t, reg, Banana{Yellow: true})
	bindtest.SchemaKeys(t, reg, bindtest.Resolve[Banana](t, reg), n)

	bindtest.RoundTrip(t, reg, Cherry{color: "red"}, cmp.AllowUnexported(Cherry{}))
	bindtest.RoundTrip(t, reg, NewEggfruit(80), cmp.AllowUnexported(Eggfruit{}))

	n = bindtest.ResourceRoundTrip(t, reg, Durian{Age: 12})
	bindtest.SchemaKeys(t, reg, bindtest.Resolve[Durian](t, reg), n)
	n = bindtest.ResourceRoundTrip(t, reg, NewEggfruit(80))
	bindtest.SchemaKeys(t, reg, bindtest.Resolve[Eggfruit](t, reg), n)
}
