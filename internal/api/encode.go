package api

import (
	"math"
	"strconv"

	"github.com/spectriclabs/heka-data-service/internal/heka"
	"github.com/spectriclabs/heka-data-service/internal/heka/record"
	"github.com/spectriclabs/heka-data-service/internal/heka/stimulus"
	"github.com/spectriclabs/heka-data-service/internal/heka/tree"
)

// Floats encodes NaN and infinities as null.
type Floats []float64

func (f Floats) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	buf := make([]byte, 0, 2+len(f)*8)
	buf = append(buf, '[')
	for i, v := range f {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	return append(buf, ']'), nil
}

func rows(in [][]float64) []Floats {
	out := make([]Floats, len(in))
	for i, r := range in {
		out[i] = r
	}
	return out
}

type TreeNode struct {
	Header   map[string]any `json:"header"`
	Children []*TreeNode    `json:"children,omitempty"`
}

// treeJSON converts a decoded tree down to maxDepth levels below n. A
// negative maxDepth keeps the whole tree.
func treeJSON(n *tree.Node, maxDepth int) *TreeNode {
	out := &TreeNode{Header: headerJSON(n.Header)}
	if maxDepth == 0 {
		return out
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, treeJSON(c, maxDepth-1))
	}
	return out
}

func headerJSON(h record.Header) map[string]any {
	out := make(map[string]any, len(h))
	for k, v := range h {
		out[k] = valueJSON(v)
	}
	return out
}

func valueJSON(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
	case []float64:
		return Floats(x)
	case record.Header:
		return headerJSON(x)
	case []record.Header:
		out := make([]map[string]any, len(x))
		for i, h := range x {
			out[i] = headerJSON(h)
		}
		return out
	}
	return v
}

type StimulusResponse struct {
	Name           string               `json:"name"`
	Channel        int                  `json:"channel"`
	SampleInterval float64              `json:"sampling_step"`
	NumSweeps      int                  `json:"num_sweeps"`
	NumSamples     int                  `json:"num_samples"`
	Unit           string               `json:"units"`
	Holding        float64              `json:"holding"`
	UseRelative    bool                 `json:"use_relative"`
	Data           []Floats             `json:"data"`
	Diagnostics    stimulus.Diagnostics `json:"diagnostics,omitempty"`
}

func stimulusJSON(info *stimulus.Info, diags stimulus.Diagnostics) *StimulusResponse {
	if info == nil {
		return &StimulusResponse{Diagnostics: diags}
	}
	return &StimulusResponse{
		Name:           info.Name,
		Channel:        info.Channel,
		SampleInterval: info.SampleInterval,
		NumSweeps:      info.NumSweeps,
		NumSamples:     info.Samples(),
		Unit:           info.Unit,
		Holding:        info.Holding,
		UseRelative:    info.UseRelative,
		Data:           rows(info.Data),
		Diagnostics:    diags,
	}
}

type SeriesResponse struct {
	Name          string            `json:"name"`
	Units         string            `json:"units"`
	RecordingMode string            `json:"recording_mode"`
	Label         string            `json:"labels"`
	SamplingStep  float64           `json:"sampling_step"`
	DataKinds     []record.Flags    `json:"data_kinds"`
	NumSamples    []int             `json:"num_samples"`
	TStarts       Floats            `json:"t_starts"`
	TStops        Floats            `json:"t_stops"`
	ZeroOffsets   Floats            `json:"zero_offsets"`
	Data          []Floats          `json:"data"`
	Time          []Floats          `json:"time"`
	Stim          *StimulusResponse `json:"stim,omitempty"`
}

func seriesJSON(sd *heka.SeriesData, stimRequested bool) *SeriesResponse {
	out := &SeriesResponse{
		Name:          sd.Name,
		Units:         sd.Units,
		RecordingMode: sd.RecordingMode,
		Label:         sd.Label,
		SamplingStep:  sd.SamplingStep,
		DataKinds:     sd.DataKinds,
		NumSamples:    sd.NumSamples,
		TStarts:       sd.TStarts,
		TStops:        sd.TStops,
		ZeroOffsets:   sd.ZeroOffsets,
		Data:          rows(sd.Data),
		Time:          rows(sd.Time),
	}
	if stimRequested {
		out.Stim = stimulusJSON(sd.Stim, sd.StimDiagnostics)
	}
	return out
}
