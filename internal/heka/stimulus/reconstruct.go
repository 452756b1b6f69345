// Package stimulus rebuilds the command waveform of a recorded series from
// the protocol stored in the stimulus tree.
package stimulus

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/spectriclabs/heka-data-service/internal/heka/record"
	"github.com/spectriclabs/heka-data-service/internal/heka/tree"
	"github.com/spectriclabs/heka-data-service/internal/heka/trees"
)

// Options selects the protocol channel and how strict reconstruction is.
type Options struct {
	// Channel is the protocol channel index. Nil picks the first channel
	// with a nonzero segment voltage, or channel 0.
	Channel *int
	// Experimental accepts channels without stim scaling and with amplitude
	// scaling. Check its output carefully.
	Experimental bool
}

// Info is a reconstructed stimulus with the parameters it was built from.
type Info struct {
	Name           string      `json:"name"`
	Channel        int         `json:"channel"`
	SampleInterval float64     `json:"sampling_step"`
	NumSweeps      int         `json:"num_sweeps"`
	Unit           string      `json:"units"`
	Holding        float64     `json:"holding"`
	UseRelative    bool        `json:"use_relative"`
	Data           [][]float64 `json:"data"`
}

// Samples is the number of samples in each reconstructed sweep.
func (i *Info) Samples() int {
	if len(i.Data) == 0 {
		return 0
	}
	return len(i.Data[0])
}

// untested lists channel flags whose effect on the waveform has not been
// validated. UseScaling is accepted in experimental mode.
var untested = []string{
	"UseFileTemplate",
	"UseForLockIn",
	"UseForWavelength",
	"UseForChirp",
	"UseForImaging",
}

// Reconstruct builds the stimulus for the pulse tree series using the
// protocol tree rooted at stimRoot.
//
// A nil Info with a nil error means reconstruction was abandoned; the
// returned diagnostics say why. Errors are reserved for malformed input and
// for protocol features that would be rendered wrongly.
func Reconstruct(stimRoot, series *tree.Node, opts Options) (*Info, Diagnostics, error) {
	var diags Diagnostics

	if len(series.Children) == 0 {
		return nil, nil, errors.Wrap(record.ErrPrecondition, "series has no sweeps")
	}
	sweep := series.Children[0]
	if len(sweep.Children) == 0 {
		return nil, nil, errors.Wrap(record.ErrPrecondition, "sweep has no traces")
	}
	recorded := int(series.Header.Int("SeNumberSweeps"))
	if recorded != len(series.Children) {
		return nil, nil, errors.Wrapf(record.ErrFormatViolation,
			"series declares %d sweeps, tree holds %d", recorded, len(series.Children))
	}

	stimIdx := int(sweep.Header.Int("SwStimCount")) - 1
	stim, err := stimRoot.Child(stimIdx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "protocol for series")
	}

	chIdx, err := selectChannel(stim, opts.Channel)
	if err != nil {
		return nil, nil, err
	}
	dac := stim.Children[chIdx]

	info := &Info{
		Name:           "dac",
		Channel:        chIdx,
		SampleInterval: stim.Header.Float("stSampleInterval"),
		NumSweeps:      int(stim.Header.Int("stNumberSweeps")),
		Unit:           dac.Header.String("chDacUnit"),
		Holding:        dac.Header.Float("chHolding"),
		UseRelative:    dac.Header.Flags("chStimToDacID").Has("UseRelative"),
	}
	if info.SampleInterval <= 0 {
		return nil, nil, errors.Wrapf(record.ErrFormatViolation, "sample interval %g", info.SampleInterval)
	}

	if info.NumSweeps != recorded {
		diags.add(SweepCountClamped, "stimulus protocol reshaped from %d to %d sweeps to match recorded data",
			info.NumSweeps, recorded)
		info.NumSweeps = recorded
	}

	// Protocols displayed in mV are still stored in volts.
	if info.Unit == "mV" {
		info.Unit = "V"
	}

	if reason := checkFlags(dac.Header.Flags("chStimToDacID"), opts.Experimental); reason != "" {
		diags.add(Unsupported, "%s, stimulus protocol not reconstructed", reason)
		return nil, diags, nil
	}

	var segments []Segment
	for i, seg := range dac.Children {
		if seg.Header.String("seStoreKind") != trees.SegStore {
			continue
		}
		s, err := NewSegment(seg.Header, info)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "segment %d", i)
		}
		segments = append(segments, s)
	}

	// Every rendered sweep must match the recorded trace, so the length is
	// checked before anything is allocated.
	want := int(sweep.Children[0].Header.Int("TrDataPoints"))
	if got := samples(segments, want); got != want {
		diags.add(ShapeMismatch, "reconstructed stimulus has %d samples per sweep, recorded trace has %d; stimulus disregarded",
			got, want)
		return nil, diags, nil
	}

	info.Data = render(segments, info.NumSweeps)
	if info.Unit == "A" {
		for _, row := range info.Data {
			for j := range row {
				row[j] /= 1e9
			}
		}
	}
	return info, diags, nil
}

func selectChannel(stim *tree.Node, explicit *int) (int, error) {
	if len(stim.Children) == 0 {
		return 0, errors.Wrap(record.ErrPrecondition, "protocol has no channels")
	}
	if explicit != nil {
		if *explicit < 0 || *explicit >= len(stim.Children) {
			return 0, errors.Wrapf(record.ErrPrecondition,
				"stimulus channel %d out of range (%d channels)", *explicit, len(stim.Children))
		}
		return *explicit, nil
	}
	for i, ch := range stim.Children {
		for _, seg := range ch.Children {
			if seg.Header.Float("seVoltage") != 0 {
				return i, nil
			}
		}
	}
	return 0, nil
}

func checkFlags(flags record.Flags, experimental bool) string {
	if !flags.Has("UseStimScale") && !experimental {
		return "only StimScale supported"
	}
	keys := untested
	if !experimental {
		keys = append(append([]string(nil), untested...), "UseScaling")
	}
	if set := flags.Set(keys); len(set) > 0 {
		return fmt.Sprintf("parameter %s not tested", strings.Join(set, ", "))
	}
	return ""
}

// samples sums the segment lengths, stopping once the sum passes limit.
func samples(segments []Segment, limit int) int {
	total := 0
	for _, s := range segments {
		total += s.Samples()
		if total > limit {
			break
		}
	}
	return total
}

func render(segments []Segment, sweeps int) [][]float64 {
	total := samples(segments, math.MaxInt)
	data := make([][]float64, sweeps)
	for sweep := range data {
		row := make([]float64, 0, total)
		for _, s := range segments {
			tail := 0.0
			if len(row) > 0 {
				tail = row[len(row)-1]
			}
			row = append(row, s.Render(sweep, tail)...)
		}
		data[sweep] = row
	}
	return data
}
