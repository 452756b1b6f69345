package heka

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/spectriclabs/heka-data-service/internal/heka/record"
	"github.com/spectriclabs/heka-data-service/internal/heka/stimulus"
	"github.com/spectriclabs/heka-data-service/internal/heka/tree"
	"github.com/spectriclabs/heka-data-service/internal/numerical"
)

// StimMode controls stimulus reconstruction in SeriesData.
type StimMode int

const (
	StimOff StimMode = iota
	StimOn
	StimExperimental
)

func (m StimMode) String() string {
	switch m {
	case StimOn:
		return "on"
	case StimExperimental:
		return "experimental"
	}
	return "off"
}

// ParseStimMode accepts off, on and experimental, plus the usual boolean
// spellings.
func ParseStimMode(s string) (StimMode, error) {
	switch strings.ToLower(s) {
	case "", "off", "false", "0", "no":
		return StimOff, nil
	case "on", "true", "1", "yes":
		return StimOn, nil
	case "experimental":
		return StimExperimental, nil
	}
	return StimOff, errors.Wrapf(record.ErrPrecondition, "stimulus mode %q", s)
}

// FillMode says how sweeps shorter than the longest one are padded.
type FillMode int

const (
	FillNaN FillMode = iota
	FillMean
)

func ParseFillMode(s string) (FillMode, error) {
	switch strings.ToLower(s) {
	case "", "nan":
		return FillNaN, nil
	case "mean":
		return FillMean, nil
	}
	return FillNaN, errors.Wrapf(record.ErrPrecondition, "fill mode %q", s)
}

type SeriesOptions struct {
	Stimulus StimMode
	Fill     FillMode
	// ZeroOffset keeps the TrZeroData correction applied to samples.
	// When false the offset is added back.
	ZeroOffset bool
	// StimChannel selects the protocol channel; nil picks automatically.
	StimChannel *int
}

func DefaultSeriesOptions() SeriesOptions {
	return SeriesOptions{ZeroOffset: true}
}

// SeriesData is one channel of a series gathered across its sweeps. Data
// and Time are sweep x sample, padded to the longest sweep.
type SeriesData struct {
	Name          string         `json:"name"`
	Units         string         `json:"units"`
	RecordingMode string         `json:"recording_mode"`
	Label         string         `json:"labels"`
	SamplingStep  float64        `json:"sampling_step"`
	DataKinds     []record.Flags `json:"data_kinds"`
	NumSamples    []int          `json:"num_samples"`
	TStarts       []float64      `json:"t_starts"`
	TStops        []float64      `json:"t_stops"`
	ZeroOffsets   []float64      `json:"zero_offsets"`
	Data          [][]float64    `json:"data"`
	Time          [][]float64    `json:"time"`

	Stim            *stimulus.Info       `json:"stim"`
	StimDiagnostics stimulus.Diagnostics `json:"stim_diagnostics,omitempty"`
}

// Stimulus reconstructs the stimulus protocol of a series. A nil Info with
// a nil error means reconstruction was not possible; the diagnostics say
// why.
func (f *File) Stimulus(g, s int, opts stimulus.Options) (*stimulus.Info, stimulus.Diagnostics, error) {
	series, err := f.Series(g, s)
	if err != nil {
		return nil, nil, err
	}
	info, diags, err := f.reconstruct(series, opts)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "stimulus for group %d series %d", g, s)
	}
	for _, d := range diags {
		f.log.Warn("stimulus reconstruction",
			zap.Int("group", g),
			zap.Int("series", s),
			zap.Stringer("diagnostic", d),
		)
	}
	return info, diags, nil
}

func (f *File) reconstruct(series *tree.Node, opts stimulus.Options) (*stimulus.Info, stimulus.Diagnostics, error) {
	if f.Generation.Legacy() {
		return nil, stimulus.Diagnostics{{
			Kind:    stimulus.Unsupported,
			Message: "stimulus reconstruction for versions before 2x90 is not supported",
		}}, nil
	}
	stim := f.Stim()
	if stim == nil {
		return nil, stimulus.Diagnostics{{
			Kind:    stimulus.Unsupported,
			Message: "bundle has no stimulus tree",
		}}, nil
	}
	return stimulus.Reconstruct(stim, series, opts)
}

// SeriesData fills a series and gathers one channel of it.
func (f *File) SeriesData(g, s, channel int, opts SeriesOptions) (*SeriesData, error) {
	series, err := f.Series(g, s)
	if err != nil {
		return nil, err
	}
	if len(series.Children) == 0 {
		return nil, errors.Wrapf(record.ErrPrecondition, "group %d series %d has no sweeps", g, s)
	}
	if err := f.FillSeries(g, s); err != nil {
		return nil, err
	}

	out := &SeriesData{}
	var (
		names, units, modes, labels []string
		steps                       []float64
	)
	maxSamples := 0
	for wi, sweep := range series.Children {
		if channel < 0 || channel >= len(sweep.Children) {
			return nil, errors.Wrapf(record.ErrPrecondition,
				"channel %d not in sweep %d (%d traces)", channel, wi, len(sweep.Children))
		}
		h := sweep.Children[channel].Header
		n := len(sweep.Children[channel].Samples)
		if n > maxSamples {
			maxSamples = n
		}

		names = append(names, h.String("TrLabel"))
		labels = append(labels, h.String("TrLabel"))
		units = append(units, h.String("TrYUnit"))
		modes = append(modes, h.String("TrRecordingMode"))
		steps = append(steps, h.Float("TrXInterval"))

		ts := h.Float("TrXInterval")
		start := h.Float("TrXStart") + h.Float("TrTimeOffset")
		out.DataKinds = append(out.DataKinds, h.Flags("TrDataKind"))
		out.NumSamples = append(out.NumSamples, int(h.Int("TrDataPoints")))
		out.TStarts = append(out.TStarts, start)
		out.TStops = append(out.TStops, start+float64(h.Int("TrDataPoints"))*ts)
		out.ZeroOffsets = append(out.ZeroOffsets, h.Float("TrZeroData"))
	}

	for key, equal := range map[string]bool{
		"name":           numerical.AllEqual(names),
		"units":          numerical.AllEqual(units),
		"recording_mode": numerical.AllEqual(modes),
		"labels":         numerical.AllEqual(labels),
		"sampling_step":  numerical.AllEqual(steps),
	} {
		if !equal {
			return nil, errors.Wrapf(record.ErrUnsupportedVariant,
				"%s differs across sweeps of group %d series %d", key, g, s)
		}
	}
	out.Name, out.Units, out.RecordingMode, out.Label, out.SamplingStep = names[0], units[0], modes[0], labels[0], steps[0]

	out.Data = make([][]float64, len(series.Children))
	out.Time = make([][]float64, len(series.Children))
	for wi, sweep := range series.Children {
		samples := sweep.Children[channel].Samples
		row := make([]float64, maxSamples)
		copy(row, samples)
		if !opts.ZeroOffset {
			zero := out.ZeroOffsets[wi]
			for i := range samples {
				row[i] += zero
			}
		}
		if len(samples) < maxSamples {
			fill := math.NaN()
			if opts.Fill == FillMean {
				fill = numerical.Mean(row[:len(samples)])
			}
			numerical.Fill(row[len(samples):], fill)
		}
		out.Data[wi] = row
		out.Time[wi] = numerical.Arange(maxSamples, out.SamplingStep, out.TStarts[wi])
	}

	if opts.Stimulus != StimOff {
		info, diags, err := f.Stimulus(g, s, stimulus.Options{
			Channel:      opts.StimChannel,
			Experimental: opts.Stimulus == StimExperimental,
		})
		if err != nil {
			return nil, err
		}
		out.Stim, out.StimDiagnostics = info, diags
	}
	return out, nil
}
