package heka

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/spectriclabs/heka-data-service/internal/heka/record"
	"github.com/spectriclabs/heka-data-service/internal/heka/tree"
)

// GroupSeries is one group label with the labels of its series, each
// suffixed with its one-based position.
type GroupSeries struct {
	Group  string   `json:"group"`
	Series []string `json:"series"`
}

// Channel describes one trace position within a sweep.
type Channel struct {
	Index         int    `json:"index"`
	Label         string `json:"label"`
	Unit          string `json:"unit"`
	RecordingMode string `json:"recording_mode"`
}

// Per-channel parameters expected to match across the sweeps of a series.
var perChannelParams = []string{"TrDataScaler", "TrYUnit", "TrDataFormat", "TrAdcChannel", "TrRecordingMode"}

// Parameters expected to match across every trace of a series.
var seriesParams = []string{"TrXUnit", "TrXInterval", "TrCellPotential"}

func (f *File) GroupNames() []string {
	root := f.Pulse()
	if root == nil {
		return nil
	}
	names := make([]string, len(root.Children))
	for i, g := range root.Children {
		names[i] = g.Header.String("GrLabel")
	}
	return names
}

func (f *File) SeriesNames(g int) ([]string, error) {
	group, err := f.Group(g)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(group.Children))
	for i, s := range group.Children {
		names[i] = s.Header.String("SeLabel")
	}
	return names, nil
}

// GroupsAndSeries lists every group with its series in file order.
func (f *File) GroupsAndSeries() []GroupSeries {
	root := f.Pulse()
	if root == nil {
		return nil
	}
	out := make([]GroupSeries, 0, len(root.Children))
	for gi, g := range root.Children {
		gs := GroupSeries{Group: fmt.Sprintf("%s: %d", g.Header.String("GrLabel"), gi+1)}
		for si, s := range g.Children {
			gs.Series = append(gs.Series, fmt.Sprintf("%s: %d", s.Header.String("SeLabel"), si+1))
		}
		out = append(out, gs)
	}
	return out
}

// NumSweeps returns the sweep count the series record declares.
func (f *File) NumSweeps(g, s int) (int, error) {
	series, err := f.Series(g, s)
	if err != nil {
		return 0, err
	}
	return int(series.Header.Int("SeNumberSweeps")), nil
}

// SeriesChannels describes the traces of a series. Every sweep must carry
// the same channels in the same order.
func (f *File) SeriesChannels(g, s int) ([]Channel, error) {
	series, err := f.Series(g, s)
	if err != nil {
		return nil, err
	}
	var channels []Channel
	for wi, sweep := range series.Children {
		cur := sweepChannels(sweep)
		if wi == 0 {
			channels = cur
			continue
		}
		if !sameChannels(channels, cur) {
			return nil, errors.Wrapf(record.ErrUnsupportedVariant,
				"channels of group %d series %d differ at sweep %d", g, s, wi)
		}
	}
	return channels, nil
}

// Channels merges the channels of every series in a group. Series may
// carry fewer channels than others but must agree on the order.
func (f *File) Channels(g int) ([]Channel, error) {
	group, err := f.Group(g)
	if err != nil {
		return nil, err
	}
	var merged []Channel
	for si := range group.Children {
		chans, err := f.SeriesChannels(g, si)
		if err != nil {
			return nil, err
		}
		for i, c := range chans {
			if i < len(merged) {
				if merged[i].Label != c.Label {
					return nil, errors.Wrapf(record.ErrUnsupportedVariant,
						"channel %d is %q in series %d but %q earlier", i, c.Label, si, merged[i].Label)
				}
				continue
			}
			merged = append(merged, c)
		}
	}
	return merged, nil
}

func sweepChannels(sweep *tree.Node) []Channel {
	out := make([]Channel, len(sweep.Children))
	for i, tr := range sweep.Children {
		out[i] = Channel{
			Index:         i,
			Label:         tr.Header.String("TrLabel"),
			Unit:          tr.Header.String("TrYUnit"),
			RecordingMode: tr.Header.String("TrRecordingMode"),
		}
	}
	return out
}

func sameChannels(a, b []Channel) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CheckSweepParams verifies that the parameters assumed constant over a
// series are so: the trace count of every sweep, the per-channel
// acquisition settings and the sampling step shared by all traces.
func (f *File) CheckSweepParams(g, s int) error {
	series, err := f.Series(g, s)
	if err != nil {
		return err
	}
	if len(series.Children) == 0 {
		return nil
	}
	traces := len(series.Children[0].Children)
	for wi, sweep := range series.Children {
		if len(sweep.Children) != traces {
			return errors.Wrapf(record.ErrUnsupportedVariant,
				"group %d series %d sweep %d has %d traces, want %d", g, s, wi, len(sweep.Children), traces)
		}
	}
	for _, key := range perChannelParams {
		for c := 0; c < traces; c++ {
			var vals []any
			for _, sweep := range series.Children {
				vals = append(vals, sweep.Children[c].Header[key])
			}
			if !equalValues(vals) {
				return errors.Wrapf(record.ErrUnsupportedVariant,
					"group %d series %d: %s differs across sweeps for trace %d", g, s, key, c)
			}
		}
	}
	for _, key := range seriesParams {
		var vals []any
		for _, tr := range series.Leaves() {
			vals = append(vals, tr.Header[key])
		}
		if !equalValues(vals) {
			return errors.Wrapf(record.ErrUnsupportedVariant,
				"group %d series %d: %s differs across traces", g, s, key)
		}
	}
	return nil
}

// CheckAllSeries runs CheckSweepParams on every series of the file.
func (f *File) CheckAllSeries() error {
	root := f.Pulse()
	if root == nil {
		return errors.Wrap(record.ErrPrecondition, "no pulse tree decoded")
	}
	for gi, g := range root.Children {
		for si := range g.Children {
			if err := f.CheckSweepParams(gi, si); err != nil {
				return err
			}
		}
	}
	return nil
}

func equalValues(vals []any) bool {
	for _, v := range vals[1:] {
		if fmt.Sprint(v) != fmt.Sprint(vals[0]) {
			return false
		}
	}
	return true
}
