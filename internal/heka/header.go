package heka

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/spectriclabs/heka-data-service/internal/heka/record"
	"github.com/spectriclabs/heka-data-service/internal/heka/trees"
)

const signature = "DAT2"

type BundleItem struct {
	Extension string `json:"extension"`
	Start     int64  `json:"start"`
	Length    int64  `json:"length"`
}

// BundleHeader is the fixed header at offset 0 of a bundle file.
type BundleHeader struct {
	Signature      string       `json:"signature"`
	Version        string       `json:"version"`
	Time           float64      `json:"time"`
	Items          int          `json:"items"`
	IsLittleEndian bool         `json:"is_little_endian"`
	BundleItems    []BundleItem `json:"bundle_items"`
}

// Item looks up a sub-bundle by extension. Sub-bundles that are absent or
// empty report false.
func (h *BundleHeader) Item(ext string) (BundleItem, bool) {
	for _, it := range h.BundleItems {
		if it.Extension == ext && it.Length > 0 {
			return it, true
		}
	}
	return BundleItem{}, false
}

// ReadBundleHeader decodes the bundle header. Only little endian DAT2
// bundles are accepted.
func ReadBundleHeader(r io.ReadSeeker) (*BundleHeader, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seek to bundle header")
	}
	buf := make([]byte, trees.BundleHeader.Size)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, errors.Wrap(record.ErrFormatViolation, "file shorter than bundle header")
		}
		return nil, errors.Wrap(err, "read bundle header")
	}
	h, err := record.Decode(trees.BundleHeader, buf, binary.LittleEndian)
	if err != nil {
		return nil, err
	}

	if !h.Bool("oIsLittleEndian") {
		return nil, errors.Wrap(record.ErrUnsupportedVariant, "big endian bundle header not supported")
	}
	switch sig := h.String("oSignature"); sig {
	case signature:
	case "DAT1":
		return nil, errors.Wrap(record.ErrFormatViolation, "DAT1 bundles not supported")
	default:
		return nil, errors.Wrapf(record.ErrFormatViolation, "bad bundle signature %q", sig)
	}

	out := &BundleHeader{
		Signature:      h.String("oSignature"),
		Version:        h.String("oVersion"),
		Time:           h.Float("oTime"),
		Items:          int(h.Int("oItems")),
		IsLittleEndian: true,
	}
	for _, it := range h.Headers("oBundleItems") {
		ext := it.String("oExtension")
		if ext == "" {
			continue
		}
		out.BundleItems = append(out.BundleItems, BundleItem{
			Extension: ext,
			Start:     it.Int("oStart"),
			Length:    it.Int("oLength"),
		})
	}
	return out, nil
}
