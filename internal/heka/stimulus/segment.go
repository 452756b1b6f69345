package stimulus

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/spectriclabs/heka-data-service/internal/heka/record"
	"github.com/spectriclabs/heka-data-service/internal/heka/trees"
	"github.com/spectriclabs/heka-data-service/internal/numerical"
)

// Voltage sources a segment can take its level from.
const (
	SourceValue   = 0
	SourceHolding = 1
)

// Segment is one stored piece of a protocol sweep.
type Segment interface {
	// Samples is the number of samples the segment contributes per sweep.
	Samples() int
	// Render returns the segment's samples for a sweep. tail is the last
	// sample emitted so far in the sweep, or 0 at its start.
	Render(sweep int, tail float64) []float64
}

type level struct {
	voltage  float64
	deltaV   float64
	source   int64
	n        int
	holding  float64
	relative bool
}

func (l level) Samples() int { return l.n }

func (l level) offset() float64 {
	if l.relative || l.source == SourceHolding {
		return l.holding
	}
	return 0
}

func (l level) block(sweep int) []float64 {
	out := make([]float64, l.n)
	numerical.Fill(out, l.voltage+l.deltaV*float64(sweep)+l.offset())
	return out
}

// Constant holds a level, stepped by a fixed increment each sweep.
type Constant struct{ level }

func (c Constant) Render(sweep int, _ float64) []float64 { return c.block(sweep) }

// Continuous renders like Constant; it differs only in how the amplifier
// treats the segment.
type Continuous struct{ level }

func (c Continuous) Render(sweep int, _ float64) []float64 { return c.block(sweep) }

// Ramp rises linearly from the previous sample to its voltage. The first
// sample is one step past the start, the last is the voltage itself.
type Ramp struct{ level }

func (r Ramp) Render(_ int, tail float64) []float64 {
	if r.n == 0 {
		return []float64{}
	}
	step := (r.voltage - tail) / float64(r.n)
	out := numerical.Linspace(tail+step, r.voltage, r.n)
	floats.AddConst(r.offset(), out)
	return out
}

// NewSegment validates a stored segment record and builds its renderer.
func NewSegment(h record.Header, info *Info) (Segment, error) {
	class := h.String("seClass")
	switch mode := h.String("seVoltageIncMode"); mode {
	case trees.ModeInc:
	case trees.ModeDec:
		return nil, errors.Wrap(record.ErrUnsupportedVariant, "segment decrement mode not implemented")
	default:
		return nil, errors.Wrapf(record.ErrUnsupportedVariant, "segment increment mode %s not supported", mode)
	}

	n := math.RoundToEven(h.Float("seDuration") / info.SampleInterval)
	if n >= 1<<53 || math.IsNaN(n) {
		return nil, errors.Wrapf(record.ErrFormatViolation, "segment duration %g is out of range", h.Float("seDuration"))
	}
	l := level{
		voltage:  h.Float("seVoltage"),
		deltaV:   h.Float("seDeltaVIncrement"),
		source:   h.Int("seVoltageSource"),
		n:        int(n),
		holding:  info.Holding,
		relative: info.UseRelative,
	}
	if l.source != SourceValue && l.source != SourceHolding {
		return nil, errors.Wrapf(record.ErrUnsupportedVariant, "segment voltage source %d not supported", l.source)
	}
	if h.Float("seDeltaTIncrement") != 0 {
		return nil, errors.Wrap(record.ErrUnsupportedVariant, "segment duration increment not implemented")
	}
	if l.n < 0 {
		return nil, errors.Wrapf(record.ErrFormatViolation, "segment duration %g is negative", h.Float("seDuration"))
	}

	switch class {
	case trees.SegmentConstant:
		return Constant{l}, nil
	case trees.SegmentContinuous:
		return Continuous{l}, nil
	case trees.SegmentRamp:
		if l.deltaV != 0 {
			return nil, errors.Wrap(record.ErrUnsupportedVariant, "ramp with voltage increment not implemented")
		}
		if l.source == SourceHolding {
			return nil, errors.Wrap(record.ErrUnsupportedVariant, "ramp from holding source not implemented")
		}
		return Ramp{l}, nil
	}
	return nil, errors.Wrapf(record.ErrUnsupportedVariant, "segment class %s not supported", class)
}
