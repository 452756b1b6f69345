package record

import (
	"encoding/binary"
	"fmt"
)

// Kind is the on-disk encoding of a field.
type Kind int

const (
	Int8 Kind = iota
	Uint8
	Bool
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Float32
	Float64
	String
	Bytes
	Block
)

var kindNames = map[Kind]string{
	Int8:    "int8",
	Uint8:   "uint8",
	Bool:    "bool",
	Int16:   "int16",
	Uint16:  "uint16",
	Int32:   "int32",
	Uint32:  "uint32",
	Int64:   "int64",
	Float32: "float32",
	Float64: "float64",
	String:  "string",
	Bytes:   "bytes",
	Block:   "block",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// width is the byte width of one element of a fixed width kind. String,
// Bytes and Block are sized by the field.
func (k Kind) width() int {
	switch k {
	case Int8, Uint8, Bool:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Float64:
		return 8
	}
	return 0
}

// DecodeFunc translates the raw bytes of a single field into a semantic value.
// It only ever sees the bytes of its own field.
type DecodeFunc func(b []byte, order binary.ByteOrder) (any, error)

// Field describes one entry of a record layout.
type Field struct {
	Name   string
	Kind   Kind
	Count  int // repeat count; 0 and 1 both mean a single element
	Len    int // byte width of String and Bytes elements
	Nested *Schema
	Decode DecodeFunc
}

// Size is the number of bytes the field occupies in a record.
func (f Field) Size() int {
	n := f.count()
	switch f.Kind {
	case String, Bytes:
		return n * f.Len
	case Block:
		if f.Nested == nil {
			return 0
		}
		return n * f.Nested.Size
	}
	return n * f.Kind.width()
}

func (f Field) count() int {
	if f.Count < 1 {
		return 1
	}
	return f.Count
}

// Times turns a scalar field into a fixed size array of n elements.
func (f Field) Times(n int) Field {
	f.Count = n
	return f
}

// With attaches a decoding function to the field.
func (f Field) With(fn DecodeFunc) Field {
	f.Decode = fn
	return f
}

func I8(name string) Field      { return Field{Name: name, Kind: Int8} }
func U8(name string) Field      { return Field{Name: name, Kind: Uint8} }
func Boolean(name string) Field { return Field{Name: name, Kind: Bool} }
func I16(name string) Field     { return Field{Name: name, Kind: Int16} }
func U16(name string) Field     { return Field{Name: name, Kind: Uint16} }
func I32(name string) Field     { return Field{Name: name, Kind: Int32} }
func U32(name string) Field     { return Field{Name: name, Kind: Uint32} }
func I64(name string) Field     { return Field{Name: name, Kind: Int64} }
func F32(name string) Field     { return Field{Name: name, Kind: Float32} }
func F64(name string) Field     { return Field{Name: name, Kind: Float64} }

// Str is a NUL padded text field of n bytes.
func Str(name string, n int) Field { return Field{Name: name, Kind: String, Len: n} }

// Raw keeps n bytes undecoded. Fillers and spares use it.
func Raw(name string, n int) Field { return Field{Name: name, Kind: Bytes, Len: n} }

// Nest embeds count consecutive records laid out by schema.
func Nest(name string, schema *Schema, count int) Field {
	return Field{Name: name, Kind: Block, Nested: schema, Count: count}
}
