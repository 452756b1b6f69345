package heka

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/spectriclabs/heka-data-service/internal/heka/record"
	"github.com/spectriclabs/heka-data-service/internal/heka/tree"
	"github.com/spectriclabs/heka-data-service/internal/heka/trees"
)

// File is an open bundle with its decoded trees. Trees are decoded once on
// open; trace samples are read on demand. A File is not safe for
// concurrent use: every read seeks the shared handle.
type File struct {
	path    string
	rs      io.ReadSeeker
	closers []io.Closer
	log     *zap.Logger

	Header     *BundleHeader
	Generation *trees.Generation

	trees map[string]*tree.Node
	sizes map[string][]int32
}

type Option func(*File)

// WithLogger sets the logger used for decode progress and warnings.
func WithLogger(l *zap.Logger) Option {
	return func(f *File) { f.log = l }
}

func newFile(opts []Option) *File {
	f := &File{log: zap.NewNop()}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Open opens and decodes the bundle at path.
func Open(path string, opts ...Option) (*File, error) {
	f := newFile(opts)
	f.path = path
	if err := f.Reopen(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewFile decodes a bundle from an already open reader. If rs is also an
// io.Closer the File takes ownership of it.
func NewFile(rs io.ReadSeeker, opts ...Option) (*File, error) {
	f := newFile(opts)
	f.rs = rs
	if c, ok := rs.(io.Closer); ok {
		f.closers = append([]io.Closer{c}, f.closers...)
	}
	if err := f.load(); err != nil {
		return nil, multierr.Append(err, f.Close())
	}
	return f, nil
}

// Reopen opens the file's path again after Close and re-decodes it.
func (f *File) Reopen() error {
	if f.rs != nil {
		return errors.Wrap(record.ErrPrecondition, "file already open, close it first")
	}
	if f.path == "" {
		return errors.Wrap(record.ErrPrecondition, "file has no path to open")
	}
	fh, err := os.Open(f.path)
	if err != nil {
		return errors.Wrapf(err, "open %s", f.path)
	}
	f.rs = fh
	f.closers = append([]io.Closer{fh}, f.closers...)
	if err := f.load(); err != nil {
		return multierr.Append(err, f.Close())
	}
	return nil
}

// Close releases the underlying handle. Decoded trees stay readable but
// samples can no longer be filled.
func (f *File) Close() error {
	var err error
	for _, c := range f.closers {
		err = multierr.Append(err, c.Close())
	}
	f.closers = nil
	f.rs = nil
	return err
}

// IsOpen reports whether the handle is open.
func (f *File) IsOpen() bool { return f.rs != nil }

func (f *File) load() error {
	hdr, err := ReadBundleHeader(f.rs)
	if err != nil {
		return err
	}
	gen, err := trees.Select(hdr.Version)
	if err != nil {
		return err
	}
	f.Header = hdr
	f.Generation = gen
	f.trees = make(map[string]*tree.Node)
	f.sizes = make(map[string][]int32)

	for _, ext := range gen.Extensions() {
		item, ok := hdr.Item(ext)
		if !ok {
			if ext == trees.ExtPulse {
				return errors.Wrap(record.ErrFormatViolation, "bundle has no pulse tree")
			}
			continue
		}
		levels, _ := gen.Levels(ext)
		var leaf tree.LeafFunc
		if ext == trees.ExtPulse {
			leaf = trees.NormalizeTrace
		}
		root, sizes, err := tree.Decode(f.rs, item.Start, item.Length, levels, leaf)
		if err != nil {
			return errors.Wrapf(err, "decode %s tree", ext)
		}
		f.trees[ext] = root
		f.sizes[ext] = sizes
		f.log.Debug("decoded tree",
			zap.String("extension", ext),
			zap.Int64("start", item.Start),
			zap.Int64("length", item.Length),
			zap.Int("records", root.Count()),
		)
	}

	f.log.Info("opened bundle",
		zap.String("path", f.path),
		zap.String("version", hdr.Version),
		zap.String("generation", gen.Name),
	)
	return nil
}

// Tree returns the root of the sub-bundle for ext, or nil if the file has
// none.
func (f *File) Tree(ext string) *tree.Node { return f.trees[ext] }

// LevelSizes returns the record sizes the file declared for a sub-bundle.
func (f *File) LevelSizes(ext string) []int32 { return f.sizes[ext] }

func (f *File) Pulse() *tree.Node { return f.trees[trees.ExtPulse] }
func (f *File) Stim() *tree.Node  { return f.trees[trees.ExtStim] }

// Group returns group g of the pulse tree.
func (f *File) Group(g int) (*tree.Node, error) {
	return f.lookup(g)
}

func (f *File) Series(g, s int) (*tree.Node, error) {
	return f.lookup(g, s)
}

func (f *File) Trace(g, s, w, c int) (*tree.Node, error) {
	return f.lookup(g, s, w, c)
}

func (f *File) lookup(path ...int) (*tree.Node, error) {
	root := f.Pulse()
	if root == nil {
		return nil, errors.Wrap(record.ErrPrecondition, "no pulse tree decoded")
	}
	n, err := root.Child(path...)
	if err != nil {
		return nil, errors.Wrapf(err, "pulse tree path %v", path)
	}
	return n, nil
}

// FillTrace reads the samples of one trace.
func (f *File) FillTrace(g, s, w, c int) error {
	tr, err := f.Trace(g, s, w, c)
	if err != nil {
		return err
	}
	if f.rs == nil {
		return errors.Wrap(record.ErrPrecondition, "file is closed")
	}
	return FillSamples(f.rs, tr)
}

// FillSeries reads the samples of every trace in a series.
func (f *File) FillSeries(g, s int) error {
	series, err := f.Series(g, s)
	if err != nil {
		return err
	}
	if f.rs == nil {
		return errors.Wrap(record.ErrPrecondition, "file is closed")
	}
	for wi, sweep := range series.Children {
		for ci, tr := range sweep.Children {
			if err := FillSamples(f.rs, tr); err != nil {
				return errors.Wrapf(err, "group %d series %d sweep %d trace %d", g, s, wi, ci)
			}
		}
	}
	f.log.Debug("filled series", zap.Int("group", g), zap.Int("series", s), zap.Int("sweeps", len(series.Children)))
	return nil
}
