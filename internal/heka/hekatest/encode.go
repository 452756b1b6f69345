// Package hekatest builds synthetic bundles for tests. It writes records with
// the same layouts the decoder reads, so decode paths can be exercised
// without binary fixtures.
package hekatest

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/spectriclabs/heka-data-service/internal/heka/record"
	"github.com/spectriclabs/heka-data-service/internal/heka/tree"
)

var le = binary.LittleEndian

// Encode packs h into a little endian record laid out by schema. Absent
// fields are zero. Fields with a decoding function (flags, enums) take
// their raw integer code.
func Encode(schema *record.Schema, h record.Header) []byte {
	buf := make([]byte, 0, schema.Size)
	for _, f := range schema.Fields {
		buf = appendField(buf, f, h[f.Name])
	}
	if len(buf) != schema.Size {
		panic(fmt.Sprintf("hekatest: %s encoded to %d bytes, want %d", schema.Name, len(buf), schema.Size))
	}
	return buf
}

func appendField(buf []byte, f record.Field, v any) []byte {
	n := f.Count
	if n < 1 {
		n = 1
	}

	switch f.Kind {
	case record.Block:
		var subs []record.Header
		switch x := v.(type) {
		case record.Header:
			subs = []record.Header{x}
		case []record.Header:
			subs = x
		}
		for i := 0; i < n; i++ {
			var h record.Header
			if i < len(subs) {
				h = subs[i]
			}
			buf = append(buf, Encode(f.Nested, h)...)
		}
		return buf

	case record.String, record.Bytes:
		var items []string
		switch x := v.(type) {
		case string:
			items = []string{x}
		case []string:
			items = x
		case []byte:
			items = []string{string(x)}
		}
		for i := 0; i < n; i++ {
			cell := make([]byte, f.Len)
			if i < len(items) {
				copy(cell, items[i])
			}
			buf = append(buf, cell...)
		}
		return buf
	}

	vals := scalars(v, n)
	for _, x := range vals {
		switch f.Kind {
		case record.Int8, record.Uint8:
			buf = append(buf, byte(int64(x)))
		case record.Bool:
			if x != 0 {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		case record.Int16, record.Uint16:
			buf = le.AppendUint16(buf, uint16(int64(x)))
		case record.Int32, record.Uint32:
			buf = le.AppendUint32(buf, uint32(int64(x)))
		case record.Int64:
			buf = le.AppendUint64(buf, uint64(int64(x)))
		case record.Float32:
			buf = le.AppendUint32(buf, math.Float32bits(float32(x)))
		case record.Float64:
			buf = le.AppendUint64(buf, math.Float64bits(x))
		}
	}
	return buf
}

func scalars(v any, n int) []float64 {
	out := make([]float64, n)
	switch x := v.(type) {
	case int:
		out[0] = float64(x)
	case int64:
		out[0] = float64(x)
	case int32:
		out[0] = float64(x)
	case uint16:
		out[0] = float64(x)
	case float64:
		out[0] = x
	case bool:
		if x {
			out[0] = 1
		}
	case []int64:
		for i := range x {
			if i < n {
				out[i] = float64(x[i])
			}
		}
	case []float64:
		copy(out, x)
	}
	return out
}

// Node is a tree to serialise.
type Node struct {
	Header   record.Header
	Children []*Node
}

// Tree serialises a sub-bundle: magic, level sizes and the records in
// depth first order, each followed by its child count.
func Tree(levels tree.Levels, root *Node) []byte {
	depth := levels.Depth()
	buf := []byte("eerT")
	buf = le.AppendUint32(buf, uint32(depth))
	for i := 0; i < depth; i++ {
		buf = le.AppendUint32(buf, uint32(levels[i].Size))
	}
	return appendNode(buf, levels, root, 0)
}

func appendNode(buf []byte, levels tree.Levels, n *Node, level int) []byte {
	buf = append(buf, Encode(levels[level], n.Header)...)
	buf = le.AppendUint32(buf, uint32(len(n.Children)))
	for _, c := range n.Children {
		buf = appendNode(buf, levels, c, level+1)
	}
	return buf
}
