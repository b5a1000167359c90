// Package schema resolves the wire shape of records and tagged unions:
// field order, skipped fields, override codec names and variant tags.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

var (
	ErrDuplicateIndex      = errors.New("duplicate field index")
	ErrBadTag              = errors.New("malformed tierbin tag")
	ErrTagRange            = errors.New("variant tag out of range 0..255")
	ErrDuplicateTag        = errors.New("duplicate variant tag")
	ErrNoVariants          = errors.New("union has no variants")
	ErrUnknownDiscriminant = errors.New("unknown discriminant")
	ErrNotImplements       = errors.New("variant does not implement union interface")
	ErrNotStruct           = errors.New("record type must be a struct")
)

// FieldSpec describes one struct field.
type FieldSpec struct {
	Name string
	// Position is the field's index in the struct declaration.
	Position int
	Type     reflect.Type
	Index    int
	HasIndex bool
	// With names an override codec registered with the codec registry.
	With string
	Skip bool
}

// Order is the effective sort key: the explicit index when present,
// otherwise the declaration position.
func (f FieldSpec) Order() int {
	if f.HasIndex {
		return f.Index
	}
	return f.Position
}

// RecordSchema is a record with its wire fields in resolved order.
type RecordSchema struct {
	Type    reflect.Type
	Fields  []FieldSpec
	Skipped []FieldSpec
}

// ResolveRecord sorts the wire fields by effective index and sets skipped
// fields aside. Effective indices must be unique.
func ResolveRecord(t reflect.Type, fields []FieldSpec) (*RecordSchema, error) {
	rs := &RecordSchema{Type: t}
	for _, f := range fields {
		if f.Skip {
			rs.Skipped = append(rs.Skipped, f)
			continue
		}
		rs.Fields = append(rs.Fields, f)
	}
	sort.SliceStable(rs.Fields, func(i, j int) bool {
		return rs.Fields[i].Order() < rs.Fields[j].Order()
	})
	for i := 1; i < len(rs.Fields); i++ {
		if rs.Fields[i].Order() == rs.Fields[i-1].Order() {
			return nil, fmt.Errorf("%w: %s: %s and %s both at %d", ErrDuplicateIndex, t,
				rs.Fields[i-1].Name, rs.Fields[i].Name, rs.Fields[i].Order())
		}
	}
	return rs, nil
}

// FromStruct builds the record schema of a struct type from its `tierbin`
// tags. Unexported fields never reach the wire.
func FromStruct(t reflect.Type) (*RecordSchema, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}
	fields := make([]FieldSpec, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, err := ParseTag(sf.Tag.Get(TagName))
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t, sf.Name, err)
		}
		fields = append(fields, FieldSpec{
			Name:     sf.Name,
			Position: i,
			Type:     sf.Type,
			Index:    tag.Index,
			HasIndex: tag.HasIndex,
			With:     tag.With,
			Skip:     tag.Skip,
		})
	}
	return ResolveRecord(t, fields)
}

// IsUnit reports whether the record puts no fields on the wire.
func (rs *RecordSchema) IsUnit() bool { return len(rs.Fields) == 0 }
