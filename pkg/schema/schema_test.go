package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	cases := []struct {
		in   string
		want Tag
	}{
		{"", Tag{}},
		{"-", Tag{Skip: true}},
		{"skip", Tag{Skip: true}},
		{"index=4", Tag{Index: 4, HasIndex: true}},
		{"with=unixnano", Tag{With: "unixnano"}},
		{"index=1, with=layout", Tag{Index: 1, HasIndex: true, With: "layout"}},
	}
	for _, c := range cases {
		got, err := ParseTag(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
	for _, bad := range []string{"index", "index=-1", "index=x", "with=", "color=red", "skip=1"} {
		_, err := ParseTag(bad)
		require.ErrorIs(t, err, ErrBadTag, bad)
	}
}

func TestFromStructOrder(t *testing.T) {
	type rec struct {
		A      uint8
		B      string `tierbin:"index=5"`
		hidden int
		C      int32 `tierbin:"-"`
		D      bool  `tierbin:"index=1,with=flag"`
	}
	rs, err := FromStruct(reflect.TypeFor[rec]())
	require.NoError(t, err)
	var names []string
	for _, f := range rs.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"A", "D", "B"}, names)
	assert.Equal(t, "flag", rs.Fields[1].With)
	assert.Equal(t, 4, rs.Fields[1].Position)
	require.Len(t, rs.Skipped, 1)
	assert.Equal(t, "C", rs.Skipped[0].Name)
}

func TestFromStructDuplicateIndex(t *testing.T) {
	type rec struct {
		A uint8
		B string `tierbin:"index=0"`
	}
	_, err := FromStruct(reflect.TypeFor[rec]())
	require.ErrorIs(t, err, ErrDuplicateIndex)
}

func TestResolveRecordSorts(t *testing.T) {
	fields := []FieldSpec{
		{Name: "X", Position: 0, Index: 5, HasIndex: true},
		{Name: "Y", Position: 1},
		{Name: "Z", Position: 2, Skip: true},
		{Name: "W", Position: 3, Index: 2, HasIndex: true},
	}
	rs, err := ResolveRecord(reflect.TypeFor[struct{}](), fields)
	require.NoError(t, err)
	var names []string
	for _, f := range rs.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Y", "W", "X"}, names)
	assert.False(t, rs.IsUnit())
	require.Len(t, rs.Skipped, 1)
}

func TestFromStructRejectsNonStruct(t *testing.T) {
	_, err := FromStruct(reflect.TypeFor[int]())
	require.ErrorIs(t, err, ErrNotStruct)
}

type shape interface{ area() float64 }

type circle struct{ R float64 }
type square struct{ S float64 }
type empty struct{}
type pair struct{ A, B int }

func (circle) area() float64  { return 0 }
func (square) area() float64  { return 0 }
func (empty) area() float64   { return 0 }
func (*pair) area() float64   { return 0 }
func (pair) Arity() int       { return 2 }
func (named) area() float64   { return 0 }
func (counter) area() float64 { return 0 }

type named struct{ hidden int }
type counter uint16

func TestShapeOf(t *testing.T) {
	assert.Equal(t, Named, ShapeOf(reflect.TypeFor[circle]()))
	assert.Equal(t, Unit, ShapeOf(reflect.TypeFor[empty]()))
	assert.Equal(t, Unit, ShapeOf(reflect.TypeFor[named]()))
	assert.Equal(t, Unnamed, ShapeOf(reflect.TypeFor[*pair]()))
	assert.Equal(t, Unnamed, ShapeOf(reflect.TypeFor[counter]()))
}

func TestResolveUnionTags(t *testing.T) {
	iface := reflect.TypeFor[shape]()
	us, err := ResolveUnion(iface, []VariantSpec{
		VariantOf[circle](),
		VariantOf[square]().WithTag(7),
		VariantOf[empty]().LinkedTo("nothing"),
	}, Discriminants{"nothing": 42})
	require.NoError(t, err)
	var tags []uint8
	for _, v := range us.Variants {
		tags = append(tags, v.Tag)
		assert.Equal(t, Explicit, v.Kind)
	}
	assert.Equal(t, []uint8{0, 7, 42}, tags)
	assert.False(t, us.AllUnit())
}

func TestResolveUnionErrors(t *testing.T) {
	iface := reflect.TypeFor[shape]()

	_, err := ResolveUnion(iface, nil, nil)
	require.ErrorIs(t, err, ErrNoVariants)

	_, err = ResolveUnion(iface, []VariantSpec{VariantOf[circle](), VariantOf[square]().WithTag(0)}, nil)
	require.ErrorIs(t, err, ErrDuplicateTag)

	_, err = ResolveUnion(iface, []VariantSpec{VariantOf[circle]().LinkedTo("missing")}, Discriminants{})
	require.ErrorIs(t, err, ErrUnknownDiscriminant)

	// pair only implements through its pointer
	_, err = ResolveUnion(iface, []VariantSpec{VariantOf[pair]()}, nil)
	require.ErrorIs(t, err, ErrNotImplements)

	_, err = ResolveUnion(reflect.TypeFor[int](), []VariantSpec{VariantOf[circle]()}, nil)
	require.Error(t, err)
}

func TestResolveTagsRange(t *testing.T) {
	variants := make([]VariantSpec, 257)
	for i := range variants {
		variants[i] = VariantSpec{Name: "v"}
	}
	_, err := ResolveTags(variants, nil)
	require.ErrorIs(t, err, ErrTagRange)

	_, err = ResolveTags(variants[:256], nil)
	require.NoError(t, err)
}

func TestAllUnit(t *testing.T) {
	us, err := ResolveUnion(reflect.TypeFor[shape](), []VariantSpec{VariantOf[empty](), VariantOf[named]()}, nil)
	require.NoError(t, err)
	assert.True(t, us.AllUnit())
}
