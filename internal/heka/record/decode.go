package record

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// Decode unpacks buf according to schema. buf must be exactly schema.Size
// bytes long.
//
// Integer kinds decode to int64, float kinds to float64, Bool to bool,
// String to a string cut at the first NUL and Bytes to a copy of the raw
// bytes. Repeated scalars decode to slices of those types. Block fields
// decode to []Header. A field with a DecodeFunc yields whatever the function
// returns instead.
func Decode(schema *Schema, buf []byte, order binary.ByteOrder) (Header, error) {
	if schema == nil {
		return nil, errors.Wrap(ErrPrecondition, "decode with nil schema")
	}
	if len(buf) != schema.Size {
		return nil, errors.Wrapf(ErrPrecondition, "%s: buffer is %d bytes, schema is %d",
			schema.Name, len(buf), schema.Size)
	}

	h := make(Header, len(schema.Fields))
	off := 0
	for _, f := range schema.Fields {
		size := f.Size()
		raw := buf[off : off+size]
		off += size

		v, err := decodeField(f, raw, order)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", schema.Name, f.Name)
		}
		h[f.Name] = v
	}
	return h, nil
}

func decodeField(f Field, raw []byte, order binary.ByteOrder) (any, error) {
	if f.Decode != nil {
		return f.Decode(raw, order)
	}

	n := f.count()
	switch f.Kind {
	case Block:
		if len(raw) != n*f.Nested.Size {
			return nil, errors.Wrapf(ErrFormatViolation, "block is %d bytes, want %d x %d",
				len(raw), n, f.Nested.Size)
		}
		out := make([]Header, n)
		for i := range out {
			sub, err := Decode(f.Nested, raw[i*f.Nested.Size:(i+1)*f.Nested.Size], order)
			if err != nil {
				return nil, err
			}
			out[i] = sub
		}
		return out, nil

	case String:
		if n == 1 {
			return CString(raw), nil
		}
		out := make([]string, n)
		for i := range out {
			out[i] = CString(raw[i*f.Len : (i+1)*f.Len])
		}
		return out, nil

	case Bytes:
		return append([]byte(nil), raw...), nil

	case Bool:
		if n == 1 {
			return raw[0] != 0, nil
		}
		out := make([]bool, n)
		for i := range out {
			out[i] = raw[i] != 0
		}
		return out, nil

	case Float32, Float64:
		w := f.Kind.width()
		if n == 1 {
			return float(f.Kind, raw, order), nil
		}
		out := make([]float64, n)
		for i := range out {
			out[i] = float(f.Kind, raw[i*w:(i+1)*w], order)
		}
		return out, nil
	}

	w := f.Kind.width()
	if w == 0 {
		return nil, errors.Wrapf(ErrPrecondition, "unknown field kind %s", f.Kind)
	}
	if n == 1 {
		return integer(f.Kind, raw, order), nil
	}
	out := make([]int64, n)
	for i := range out {
		out[i] = integer(f.Kind, raw[i*w:(i+1)*w], order)
	}
	return out, nil
}

func integer(k Kind, b []byte, order binary.ByteOrder) int64 {
	switch k {
	case Int8:
		return int64(int8(b[0]))
	case Uint8:
		return int64(b[0])
	case Int16:
		return int64(int16(order.Uint16(b)))
	case Uint16:
		return int64(order.Uint16(b))
	case Int32:
		return int64(int32(order.Uint32(b)))
	case Uint32:
		return int64(order.Uint32(b))
	}
	return int64(order.Uint64(b))
}

func float(k Kind, b []byte, order binary.ByteOrder) float64 {
	if k == Float32 {
		return float64(math.Float32frombits(order.Uint32(b)))
	}
	return math.Float64frombits(order.Uint64(b))
}

// CString returns the text before the first NUL byte.
func CString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
