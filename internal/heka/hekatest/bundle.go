package hekatest

import (
	"math"

	"github.com/spectriclabs/heka-data-service/internal/heka/record"
	"github.com/spectriclabs/heka-data-service/internal/heka/tree"
	"github.com/spectriclabs/heka-data-service/internal/heka/trees"
)

// Bundle assembles a bundle file: the 256 byte header, a region of raw
// sample data and the sub-bundle trees.
type Bundle struct {
	Signature      string
	Version        string
	IsLittleEndian bool

	data  []byte
	items []item
}

type item struct {
	ext string
	raw []byte
}

func NewBundle(version string) *Bundle {
	return &Bundle{Signature: "DAT2", Version: version, IsLittleEndian: true}
}

// Int16Data appends raw int16 samples and returns their file offset.
func (b *Bundle) Int16Data(vals ...int16) int64 {
	off := int64(trees.BundleHeader.Size + len(b.data))
	for _, v := range vals {
		b.data = le.AppendUint16(b.data, uint16(v))
	}
	return off
}

// Float32Data appends raw float32 samples and returns their file offset.
func (b *Bundle) Float32Data(vals ...float32) int64 {
	off := int64(trees.BundleHeader.Size + len(b.data))
	for _, v := range vals {
		b.data = le.AppendUint32(b.data, math.Float32bits(v))
	}
	return off
}

// Add serialises a tree as the sub-bundle for ext.
func (b *Bundle) Add(ext string, levels tree.Levels, root *Node) {
	b.AddRaw(ext, Tree(levels, root))
}

// AddRaw stores pre-encoded sub-bundle bytes.
func (b *Bundle) AddRaw(ext string, raw []byte) {
	b.items = append(b.items, item{ext: ext, raw: raw})
}

// Bytes lays out the whole file.
func (b *Bundle) Bytes() []byte {
	pos := int64(trees.BundleHeader.Size + len(b.data))
	entries := make([]record.Header, 0, len(b.items))
	for _, it := range b.items {
		entries = append(entries, record.Header{
			"oStart":     pos,
			"oLength":    int64(len(it.raw)),
			"oExtension": it.ext,
		})
		pos += int64(len(it.raw))
	}

	out := Encode(trees.BundleHeader, record.Header{
		"oSignature":      b.Signature,
		"oVersion":        b.Version,
		"oItems":          int64(len(b.items)),
		"oIsLittleEndian": b.IsLittleEndian,
		"oBundleItems":    entries,
	})
	out = append(out, b.data...)
	for _, it := range b.items {
		out = append(out, it.raw...)
	}
	return out
}
