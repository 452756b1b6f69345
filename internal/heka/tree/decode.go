package tree

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/spectriclabs/heka-data-service/internal/heka/record"
)

const (
	magicLittle = "eerT"
	magicBig    = "Tree"
)

// LeafFunc post-processes the header of every leaf record.
type LeafFunc func(record.Header)

// Decode reads the sub-bundle that starts at start and spans length bytes.
// It returns the root node and the record sizes the file declares for each
// level.
func Decode(r io.ReadSeeker, start, length int64, levels Levels, leaf LeafFunc) (*Node, []int32, error) {
	depth := levels.Depth()
	if depth == 0 {
		return nil, nil, errors.Wrap(record.ErrPrecondition, "tree without levels")
	}
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, nil, errors.Wrapf(err, "seek to tree at %d", start)
	}

	d := &decoder{r: r, levels: levels, depth: depth, leaf: leaf}
	sizes, err := d.magic()
	if err != nil {
		return nil, nil, truncated(err)
	}
	if len(sizes) < depth {
		return nil, nil, errors.Wrapf(record.ErrFormatViolation,
			"tree declares %d levels, layout needs %d", len(sizes), depth)
	}
	for i := 0; i < depth; i++ {
		if int(sizes[i]) != levels[i].Size {
			return nil, nil, errors.Wrapf(record.ErrFormatViolation,
				"level %d (%s) declared %d bytes, layout is %d",
				i+1, levels[i].Name, sizes[i], levels[i].Size)
		}
	}

	root, err := d.node(0)
	if err != nil {
		return nil, nil, truncated(err)
	}

	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, nil, errors.Wrap(err, "tell")
	}
	if pos != start+length {
		return nil, nil, errors.Wrapf(record.ErrFormatViolation,
			"trailing/missing bytes: tree ended at %d, expected %d", pos, start+length)
	}
	return root, sizes, nil
}

// truncated reports a read past the end of the file as a format violation.
func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errors.Wrap(record.ErrFormatViolation, err.Error())
	}
	return err
}

type decoder struct {
	r      io.Reader
	order  binary.ByteOrder
	levels Levels
	depth  int
	leaf   LeafFunc
}

func (d *decoder) magic() ([]int32, error) {
	var tag [4]byte
	if _, err := io.ReadFull(d.r, tag[:]); err != nil {
		return nil, errors.Wrap(err, "read tree magic")
	}
	switch string(tag[:]) {
	case magicLittle:
		d.order = binary.LittleEndian
	case magicBig:
		return nil, errors.Wrap(record.ErrUnsupportedVariant, "big endian tree not tested")
	default:
		return nil, errors.Wrapf(record.ErrFormatViolation, "bad tree magic %q", tag[:])
	}

	n, err := d.int32()
	if err != nil {
		return nil, errors.Wrap(err, "read level count")
	}
	if n < 1 || n > MaxLevels {
		return nil, errors.Wrapf(record.ErrFormatViolation, "level count %d", n)
	}
	sizes := make([]int32, n)
	if err := binary.Read(d.r, d.order, sizes); err != nil {
		return nil, errors.Wrap(err, "read level sizes")
	}
	return sizes, nil
}

func (d *decoder) int32() (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, err
	}
	return int32(d.order.Uint32(b[:])), nil
}

func (d *decoder) node(level int) (*Node, error) {
	schema := d.levels[level]
	buf := make([]byte, schema.Size)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, errors.Wrapf(err, "read %s record", schema.Name)
	}
	h, err := record.Decode(schema, buf, d.order)
	if err != nil {
		return nil, err
	}
	nchildren, err := d.int32()
	if err != nil {
		return nil, errors.Wrapf(err, "read %s child count", schema.Name)
	}

	n := &Node{Header: h}
	if level == d.depth-1 {
		if nchildren != 0 {
			return nil, errors.Wrapf(record.ErrFormatViolation,
				"%s leaf declares %d children", schema.Name, nchildren)
		}
		if d.leaf != nil {
			d.leaf(h)
		}
		return n, nil
	}
	if nchildren < 0 {
		return nil, errors.Wrapf(record.ErrFormatViolation,
			"%s declares %d children", schema.Name, nchildren)
	}

	for i := int32(0); i < nchildren; i++ {
		c, err := d.node(level + 1)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}
