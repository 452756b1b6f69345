package heka

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/spectriclabs/heka-data-service/internal/heka/record"
	"github.com/spectriclabs/heka-data-service/internal/heka/tree"
	"github.com/spectriclabs/heka-data-service/internal/heka/trees"
)

// FillSamples reads the samples of a trace record into trace.Samples.
//
// int16 samples are scaled as raw*TrDataScaler - TrZeroData; float32
// samples are widened. Trace configurations that have not been validated
// fail with ErrUnsupportedVariant and leave the slot untouched.
func FillSamples(r io.ReadSeeker, trace *tree.Node) error {
	h := trace.Header
	n := int(h.Int("TrDataPoints"))
	if n < 0 {
		return errors.Wrapf(record.ErrFormatViolation, "trace declares %d samples", n)
	}

	var width int
	switch format := h.String("TrDataFormat"); format {
	case trees.Int16:
		width = 2
	case trees.Real32:
		width = 4
	case trees.Int32:
		return errors.Wrap(record.ErrUnsupportedVariant, "int32 trace data not tested")
	case trees.Real64:
		return errors.Wrap(record.ErrUnsupportedVariant, "float64 trace data not tested")
	default:
		return errors.Wrapf(record.ErrFormatViolation, "trace data format %s", format)
	}

	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return errors.Wrap(err, "size trace source")
	}
	start := h.Int("TrData")
	if start < 0 || start+int64(n)*int64(width) > size {
		return errors.Wrapf(record.ErrFormatViolation,
			"trace data runs past end of file: %d samples at %d, file is %d bytes", n, start, size)
	}
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return errors.Wrapf(err, "seek to trace data at %d", start)
	}
	buf := make([]byte, n*width)
	if _, err := io.ReadFull(r, buf); err != nil {
		return errors.Wrap(err, "read trace data")
	}

	samples := convert(buf, width, h.Float("TrDataScaler"), h.Float("TrZeroData"))
	if err := checkTrace(h, len(samples)); err != nil {
		return err
	}
	trace.Samples = samples
	return nil
}

func convert(buf []byte, width int, scaler, zero float64) []float64 {
	le := binary.LittleEndian
	out := make([]float64, len(buf)/width)
	switch width {
	case 2:
		for i := range out {
			out[i] = float64(int16(le.Uint16(buf[2*i:])))*scaler - zero
		}
	case 4:
		for i := range out {
			out[i] = float64(math.Float32frombits(le.Uint32(buf[4*i:])))
		}
	}
	return out
}

func checkTrace(h record.Header, decoded int) error {
	kind := h.Flags("TrDataKind")
	switch {
	case !kind.Has("IsLittleEndian"):
		return errors.Wrap(record.ErrUnsupportedVariant, "big endian trace data not tested")
	case kind.Has("IsLeak"):
		return errors.Wrap(record.ErrUnsupportedVariant, "leak traces not tested")
	case kind.Has("IsVirtual"):
		return errors.Wrap(record.ErrUnsupportedVariant, "virtual traces not tested")
	case h.Int("TrInterleaveSize") != 0:
		return errors.Wrap(record.ErrUnsupportedVariant, "interleaved trace data not tested")
	case int64(decoded) != h.Int("TrDataPoints"):
		return errors.Wrapf(record.ErrFormatViolation, "decoded %d of %d samples", decoded, h.Int("TrDataPoints"))
	case h.Float("TrYOffset") != 0:
		return errors.Wrapf(record.ErrUnsupportedVariant, "TrYOffset %g not tested", h.Float("TrYOffset"))
	case h.Float("TrGLeak") != 0:
		return errors.Wrapf(record.ErrUnsupportedVariant, "TrGLeak %g not tested", h.Float("TrGLeak"))
	case h.String("TrXUnit") != "s":
		return errors.Wrapf(record.ErrUnsupportedVariant, "x unit %q not tested", h.String("TrXUnit"))
	}
	switch u := h.String("TrYUnit"); u {
	case "A", "V":
	default:
		return errors.Wrapf(record.ErrUnsupportedVariant, "y unit %q not tested", u)
	}
	return nil
}
