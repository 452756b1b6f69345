package hekatest

import (
	"github.com/spectriclabs/heka-data-service/internal/heka/record"
	"github.com/spectriclabs/heka-data-service/internal/heka/trees"
)

// Raw codes for enum and flag fields.
const (
	ClassConstant   = 0
	ClassRamp       = 1
	ClassContinuous = 2
	ClassConstSine  = 3

	SegNoStore = 0
	SegStore   = 1

	ModeInc = 0
	ModeDec = 1

	FormatInt16   = 0
	FormatInt32   = 1
	FormatFloat32 = 2
	FormatFloat64 = 3

	WholeCell = 3
	VClamp    = 5

	IsLittleEndian = 1 << 0
	IsLeak         = 1 << 1
	IsVirtual      = 1 << 2

	UseStimScale     = 1 << 0
	UseRelative      = 1 << 1
	UseFileTemplate  = 1 << 2
	UseForLockIn     = 1 << 3
	UseForWavelength = 1 << 4
	UseScaling       = 1 << 5
	UseForChirp      = 1 << 6
	UseForImaging    = 1 << 7
)

const (
	VersionLegacy = "v2x65, 19-Dec-2011"
	VersionV9     = "v2x90.2, 22-Nov-2016"
	VersionV1000  = "v2x91, 23-Feb-2021"
)

// Trace is one recorded channel of a sweep. Raw is stored as int16 unless
// Float is set. Header entries override the generated trace fields.
type Trace struct {
	Label  string
	YUnit  string
	Raw    []int16
	Float  []float32
	Scaler float64
	Zero   float64
	Header record.Header
}

type Sweep []Trace

type Series struct {
	Label     string
	XInterval float64
	Sweeps    []Sweep
	Stim      *Stim
	Header    record.Header
}

type Group struct {
	Label  string
	Series []Series
}

// Stim is the protocol a series was recorded with.
type Stim struct {
	SampleInterval float64
	NumberSweeps   int
	Channels       []StimChannel
}

type StimChannel struct {
	DacUnit   string
	Holding   float64
	StimToDac uint16
	Segments  []record.Header
}

// Fixture describes a whole bundle.
type Fixture struct {
	Version string
	Groups  []Group
}

// Segment returns a stored segment header.
func Segment(class int, voltage, duration float64) record.Header {
	return record.Header{
		"seClass":           int64(class),
		"seStoreKind":       int64(SegStore),
		"seVoltageIncMode":  int64(ModeInc),
		"seDurationIncMode": int64(ModeInc),
		"seVoltage":         voltage,
		"seDuration":        duration,
	}
}

// Build encodes the fixture. Each series with a protocol gets its own
// stimulation record, referenced from its sweeps through SwStimCount.
func (f Fixture) Build() []byte {
	gen, err := trees.Select(f.Version)
	if err != nil {
		panic(err)
	}
	b := NewBundle(f.Version)

	pulRoot := &Node{Header: record.Header{"RoVersionName": f.Version}}
	stimRoot := &Node{Header: record.Header{"RoVersionName": f.Version}}

	for gi, g := range f.Groups {
		group := &Node{Header: record.Header{"GrLabel": g.Label, "GrGroupCount": int64(gi + 1)}}
		for si, s := range g.Series {
			stimCount := 0
			if s.Stim != nil {
				stimRoot.Children = append(stimRoot.Children, stimNode(s.Stim))
				stimCount = len(stimRoot.Children)
			}
			series := &Node{Header: merge(record.Header{
				"SeLabel":        s.Label,
				"SeSeriesCount":  int64(si + 1),
				"SeNumberSweeps": int64(len(s.Sweeps)),
			}, s.Header)}
			for wi, sw := range s.Sweeps {
				sweep := &Node{Header: record.Header{
					"SwLabel":      "",
					"SwStimCount":  int64(stimCount),
					"SwSweepCount": int64(wi + 1),
				}}
				for _, tr := range sw {
					sweep.Children = append(sweep.Children, &Node{Header: traceHeader(b, s, tr)})
				}
				series.Children = append(series.Children, sweep)
			}
			group.Children = append(group.Children, series)
		}
		pulRoot.Children = append(pulRoot.Children, group)
	}

	pul, _ := gen.Levels(trees.ExtPulse)
	b.Add(trees.ExtPulse, pul, pulRoot)
	if stim, ok := gen.Levels(trees.ExtStim); ok {
		b.Add(trees.ExtStim, stim, stimRoot)
	}
	return b.Bytes()
}

func traceHeader(b *Bundle, s Series, tr Trace) record.Header {
	h := record.Header{
		"TrLabel":         tr.Label,
		"TrDataKind":      int64(IsLittleEndian),
		"TrRecordingMode": int64(WholeCell),
		"TrDataScaler":    tr.Scaler,
		"TrZeroData":      tr.Zero,
		"TrYUnit":         tr.YUnit,
		"TrXInterval":     s.XInterval,
		"TrXUnit":         "s",
	}
	if tr.Float != nil {
		h["TrDataFormat"] = int64(FormatFloat32)
		h["TrData"] = b.Float32Data(tr.Float...)
		h["TrDataPoints"] = int64(len(tr.Float))
	} else {
		h["TrDataFormat"] = int64(FormatInt16)
		h["TrData"] = b.Int16Data(tr.Raw...)
		h["TrDataPoints"] = int64(len(tr.Raw))
	}
	return merge(h, tr.Header)
}

func stimNode(s *Stim) *Node {
	n := &Node{Header: record.Header{
		"stSampleInterval": s.SampleInterval,
		"stNumberSweeps":   int64(s.NumberSweeps),
	}}
	for _, ch := range s.Channels {
		c := &Node{Header: record.Header{
			"chDacUnit":     ch.DacUnit,
			"chHolding":     ch.Holding,
			"chStimToDacID": int64(ch.StimToDac),
		}}
		for _, seg := range ch.Segments {
			c.Children = append(c.Children, &Node{Header: seg})
		}
		n.Children = append(n.Children, c)
	}
	return n
}

func merge(base, over record.Header) record.Header {
	for k, v := range over {
		base[k] = v
	}
	return base
}
