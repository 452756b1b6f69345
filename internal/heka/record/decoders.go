package record

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// Flags is a decoded bit set keyed by bit name.
type Flags map[string]bool

// Has reports whether the named bit is set.
func (f Flags) Has(name string) bool { return f[name] }

// Set returns the names of the set bits in bit order of names.
func (f Flags) Set(names []string) []string {
	var out []string
	for _, n := range names {
		if f[n] {
			out = append(out, n)
		}
	}
	return out
}

// BitFlags decodes an unsigned little or big endian bit field whose bit i is
// named names[i]. Bits past the end of names are ignored.
func BitFlags(names ...string) DecodeFunc {
	return func(b []byte, order binary.ByteOrder) (any, error) {
		var bits uint64
		switch len(b) {
		case 1:
			bits = uint64(b[0])
		case 2:
			bits = uint64(order.Uint16(b))
		case 4:
			bits = uint64(order.Uint32(b))
		default:
			return nil, errors.Wrapf(ErrPrecondition, "flag field of %d bytes", len(b))
		}
		out := make(Flags, len(names))
		for i, n := range names {
			out[n] = bits&(1<<uint(i)) != 0
		}
		return out, nil
	}
}

// Enum decodes a one byte code to its label. Unknown codes decode to
// "Unknown(n)" so that an unexpected value is visible rather than fatal;
// consumers that depend on a label validate it themselves.
func Enum(labels ...string) DecodeFunc {
	return func(b []byte, _ binary.ByteOrder) (any, error) {
		if len(b) != 1 {
			return nil, errors.Wrapf(ErrPrecondition, "enum field of %d bytes", len(b))
		}
		if int(b[0]) < len(labels) && labels[b[0]] != "" {
			return labels[b[0]], nil
		}
		return fmt.Sprintf("Unknown(%d)", b[0]), nil
	}
}
