package record

import "github.com/pkg/errors"

// Schema is the fixed byte layout of one record type. Schemas are built once
// at package initialisation and shared read only.
type Schema struct {
	Name   string
	Size   int
	Fields []Field
}

// NewSchema builds a schema and checks that its fields add up to size.
func NewSchema(name string, size int, fields ...Field) (*Schema, error) {
	s := &Schema{Name: name, Size: size, Fields: fields}
	seen := make(map[string]struct{}, len(fields))
	computed := 0
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			return nil, errors.Wrapf(ErrPrecondition, "schema %s: duplicate field %s", name, f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Kind == Block && f.Nested == nil {
			return nil, errors.Wrapf(ErrPrecondition, "schema %s: block field %s has no nested schema", name, f.Name)
		}
		if f.Size() == 0 {
			return nil, errors.Wrapf(ErrPrecondition, "schema %s: field %s has zero size", name, f.Name)
		}
		computed += f.Size()
	}
	if computed != size {
		return nil, errors.Wrapf(ErrPrecondition, "schema %s: fields occupy %d bytes, declared %d", name, computed, size)
	}
	return s, nil
}

// MustSchema is NewSchema for package level tables.
func MustSchema(name string, size int, fields ...Field) *Schema {
	s, err := NewSchema(name, size, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Offset returns the byte offset of the named field.
func (s *Schema) Offset(name string) (int, bool) {
	off := 0
	for _, f := range s.Fields {
		if f.Name == name {
			return off, true
		}
		off += f.Size()
	}
	return 0, false
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
