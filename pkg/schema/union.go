package schema

import (
	"fmt"
	"reflect"
)

// TagKind is where a variant's tag byte comes from.
type TagKind uint8

const (
	// Positional tags equal the variant's 0-based declaration index.
	Positional TagKind = iota
	// Explicit tags are given directly.
	Explicit
	// Linked tags are looked up by name in a Discriminants table.
	Linked
)

// Shape is the payload shape of a variant.
type Shape uint8

const (
	Unit Shape = iota
	// Unnamed payloads are tuples or a single non-struct value.
	Unnamed
	// Named payloads are records.
	Named
)

func (s Shape) String() string {
	switch s {
	case Unit:
		return "unit"
	case Unnamed:
		return "unnamed"
	case Named:
		return "named"
	}
	return "unknown"
}

// Discriminants maps variant names to tag bytes defined elsewhere, such as
// a protocol's message-type table.
type Discriminants map[string]uint8

type VariantSpec struct {
	Name  string
	Type  reflect.Type
	Kind  TagKind
	Tag   uint8
	Link  string
	Shape Shape
}

var arityType = reflect.TypeOf((*interface{ Arity() int })(nil)).Elem()

// Variant describes a positionally tagged variant of type t. Pointer types
// are allowed when the pointer implements the union interface.
func Variant(t reflect.Type) VariantSpec {
	name := t.Name()
	if t.Kind() == reflect.Pointer {
		name = t.Elem().Name()
	}
	return VariantSpec{Name: name, Type: t, Kind: Positional, Shape: ShapeOf(t)}
}

// VariantOf is Variant for a type parameter.
func VariantOf[T any]() VariantSpec {
	return Variant(reflect.TypeFor[T]())
}

// WithTag returns a copy of v with an explicit tag.
func (v VariantSpec) WithTag(tag uint8) VariantSpec {
	v.Kind, v.Tag = Explicit, tag
	return v
}

// LinkedTo returns a copy of v whose tag is looked up under name.
func (v VariantSpec) LinkedTo(name string) VariantSpec {
	v.Kind, v.Link = Linked, name
	return v
}

// ShapeOf classifies the payload of a variant type.
func ShapeOf(t reflect.Type) Shape {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t.Implements(arityType) {
		return Unnamed
	}
	rs, err := FromStruct(t)
	if err == nil && rs.IsUnit() {
		return Unit
	}
	return Named
}

// UnionSchema is a union with every variant tag resolved.
type UnionSchema struct {
	Interface reflect.Type
	Variants  []VariantSpec
}

// AllUnit reports whether no variant carries a payload.
func (us *UnionSchema) AllUnit() bool {
	for _, v := range us.Variants {
		if v.Shape != Unit {
			return false
		}
	}
	return true
}

// ResolveUnion checks every variant against iface and resolves its tag.
// On success every variant's Kind is Explicit and Tag is final.
func ResolveUnion(iface reflect.Type, variants []VariantSpec, disc Discriminants) (*UnionSchema, error) {
	if iface.Kind() != reflect.Interface {
		return nil, fmt.Errorf("union type %s is not an interface", iface)
	}
	for _, v := range variants {
		if !v.Type.Implements(iface) {
			return nil, fmt.Errorf("%w: %s does not implement %s", ErrNotImplements, v.Type, iface)
		}
	}
	resolved, err := ResolveTags(variants, disc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", iface, err)
	}
	return &UnionSchema{Interface: iface, Variants: resolved}, nil
}

// ResolveTags assigns the final tag byte of every variant and checks
// that tags are unique.
func ResolveTags(variants []VariantSpec, disc Discriminants) ([]VariantSpec, error) {
	if len(variants) == 0 {
		return nil, ErrNoVariants
	}
	out := make([]VariantSpec, len(variants))
	var seen [256]string
	var used [256]bool
	for i, v := range variants {
		switch v.Kind {
		case Positional:
			if i > 255 {
				return nil, fmt.Errorf("%w: %s at position %d", ErrTagRange, v.Name, i)
			}
			v.Tag = uint8(i)
		case Linked:
			tag, ok := disc[v.Link]
			if !ok {
				return nil, fmt.Errorf("%w: %q for %s", ErrUnknownDiscriminant, v.Link, v.Name)
			}
			v.Tag = tag
		}
		v.Kind = Explicit
		if used[v.Tag] {
			return nil, fmt.Errorf("%w: %d used by %s and %s", ErrDuplicateTag, v.Tag, seen[v.Tag], v.Name)
		}
		used[v.Tag], seen[v.Tag] = true, v.Name
		out[i] = v
	}
	return out, nil
}
