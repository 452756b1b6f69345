package stimulus_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectriclabs/heka-data-service/internal/heka/record"
	"github.com/spectriclabs/heka-data-service/internal/heka/stimulus"
	"github.com/spectriclabs/heka-data-service/internal/heka/tree"
	"github.com/spectriclabs/heka-data-service/internal/heka/trees"
)

const interval = 0.001

func flags(names ...string) record.Flags {
	f := record.Flags{}
	for _, n := range names {
		f[n] = true
	}
	return f
}

func seg(class string, voltage, duration float64) *tree.Node {
	return &tree.Node{Header: record.Header{
		"seClass":           class,
		"seStoreKind":       trees.SegStore,
		"seVoltageIncMode":  trees.ModeInc,
		"seDurationIncMode": trees.ModeInc,
		"seVoltage":         voltage,
		"seVoltageSource":   int64(stimulus.SourceValue),
		"seDeltaVIncrement": 0.0,
		"seDuration":        duration,
		"seDeltaTIncrement": 0.0,
	}}
}

func with(n *tree.Node, key string, v any) *tree.Node {
	n.Header[key] = v
	return n
}

func channel(unit string, holding float64, f record.Flags, segs ...*tree.Node) *tree.Node {
	return &tree.Node{
		Header: record.Header{
			"chDacUnit":     unit,
			"chHolding":     holding,
			"chStimToDacID": f,
		},
		Children: segs,
	}
}

func protocol(sweeps int, channels ...*tree.Node) *tree.Node {
	return &tree.Node{Children: []*tree.Node{{
		Header: record.Header{
			"stSampleInterval": interval,
			"stNumberSweeps":   int64(sweeps),
		},
		Children: channels,
	}}}
}

func series(sweeps, points int) *tree.Node {
	s := &tree.Node{Header: record.Header{"SeNumberSweeps": int64(sweeps)}}
	for i := 0; i < sweeps; i++ {
		s.Children = append(s.Children, &tree.Node{
			Header: record.Header{"SwStimCount": int64(1)},
			Children: []*tree.Node{
				{Header: record.Header{"TrDataPoints": int64(points)}},
			},
		})
	}
	return s
}

func TestConstantSteps(t *testing.T) {
	step := with(seg(trees.SegmentConstant, 0.05, 0.010), "seDeltaVIncrement", 0.01)
	stim := protocol(3, channel("V", 0, flags("UseStimScale"),
		seg(trees.SegmentConstant, 0, 0.010),
		step,
		seg(trees.SegmentConstant, 0, 0.010),
	))

	info, diags, err := stimulus.Reconstruct(stim, series(3, 30), stimulus.Options{})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Empty(t, diags)

	assert.Equal(t, "V", info.Unit)
	assert.Equal(t, interval, info.SampleInterval)
	require.Len(t, info.Data, 3)
	for sweep, row := range info.Data {
		require.Len(t, row, 30)
		assert.Equal(t, 0.0, row[9])
		assert.InDelta(t, 0.05+0.01*float64(sweep), row[10], 1e-12)
		assert.InDelta(t, 0.05+0.01*float64(sweep), row[19], 1e-12)
		assert.Equal(t, 0.0, row[20])
	}
}

func TestRampLaw(t *testing.T) {
	stim := protocol(1, channel("V", 0, flags("UseStimScale"),
		seg(trees.SegmentConstant, -0.08, 0.004),
		seg(trees.SegmentRamp, 0.04, 0.004),
	))

	info, _, err := stimulus.Reconstruct(stim, series(1, 8), stimulus.Options{})
	require.NoError(t, err)
	require.NotNil(t, info)

	ramp := info.Data[0][4:]
	assert.InDelta(t, -0.08+(0.04+0.08)/4, ramp[0], 1e-12)
	assert.Equal(t, 0.04, ramp[3])
	for i := 1; i < len(ramp); i++ {
		assert.Greater(t, ramp[i], ramp[i-1])
	}
}

func TestRampFromSweepStart(t *testing.T) {
	stim := protocol(1, channel("V", 0, flags("UseStimScale"),
		seg(trees.SegmentRamp, 0.1, 0.002),
	))

	info, _, err := stimulus.Reconstruct(stim, series(1, 2), stimulus.Options{})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.InDelta(t, 0.05, info.Data[0][0], 1e-12)
	assert.Equal(t, 0.1, info.Data[0][1])
}

func TestHolding(t *testing.T) {
	t.Run("relative", func(t *testing.T) {
		stim := protocol(1, channel("V", -0.07, flags("UseStimScale", "UseRelative"),
			seg(trees.SegmentConstant, 0.01, 0.002),
		))
		info, _, err := stimulus.Reconstruct(stim, series(1, 2), stimulus.Options{})
		require.NoError(t, err)
		require.NotNil(t, info)
		assert.True(t, info.UseRelative)
		assert.InDelta(t, -0.06, info.Data[0][0], 1e-12)
	})

	t.Run("holding source", func(t *testing.T) {
		held := with(seg(trees.SegmentConstant, 0, 0.002), "seVoltageSource", int64(stimulus.SourceHolding))
		stim := protocol(1, channel("V", -0.07, flags("UseStimScale"),
			held,
			seg(trees.SegmentConstant, 0.02, 0.002),
		))
		info, _, err := stimulus.Reconstruct(stim, series(1, 4), stimulus.Options{})
		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Equal(t, []float64{-0.07, -0.07, 0.02, 0.02}, info.Data[0])
	})
}

func TestCurrentUnits(t *testing.T) {
	stim := protocol(1, channel("A", 0, flags("UseStimScale"),
		seg(trees.SegmentConstant, 250, 0.002),
	))
	info, _, err := stimulus.Reconstruct(stim, series(1, 2), stimulus.Options{})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, 250/1e9, info.Data[0][0])
}

func TestMillivoltsRelabelled(t *testing.T) {
	stim := protocol(1, channel("mV", 0, flags("UseStimScale"),
		seg(trees.SegmentConstant, 0.01, 0.002),
	))
	info, diags, err := stimulus.Reconstruct(stim, series(1, 2), stimulus.Options{})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "V", info.Unit)
	assert.Equal(t, 0.01, info.Data[0][0])
	assert.Empty(t, diags)
}

func TestWithoutStimScale(t *testing.T) {
	stim := protocol(1, channel("V", 0, flags(), seg(trees.SegmentConstant, 0.01, 0.002)))

	info, diags, err := stimulus.Reconstruct(stim, series(1, 2), stimulus.Options{})
	require.NoError(t, err)
	assert.Nil(t, info)
	require.Len(t, diags, 1)
	assert.Equal(t, stimulus.Unsupported, diags[0].Kind)

	info, diags, err = stimulus.Reconstruct(stim, series(1, 2), stimulus.Options{Experimental: true})
	require.NoError(t, err)
	assert.NotNil(t, info)
	assert.Empty(t, diags)
}

func TestUntestedFlags(t *testing.T) {
	scaling := protocol(1, channel("V", 0, flags("UseStimScale", "UseScaling"), seg(trees.SegmentConstant, 0.01, 0.002)))
	info, diags, err := stimulus.Reconstruct(scaling, series(1, 2), stimulus.Options{})
	require.NoError(t, err)
	assert.Nil(t, info)
	assert.True(t, diags.Has(stimulus.Unsupported))

	info, _, err = stimulus.Reconstruct(scaling, series(1, 2), stimulus.Options{Experimental: true})
	require.NoError(t, err)
	assert.NotNil(t, info)

	for _, flag := range []string{"UseFileTemplate", "UseForLockIn", "UseForWavelength", "UseForChirp", "UseForImaging"} {
		stim := protocol(1, channel("V", 0, flags("UseStimScale", flag), seg(trees.SegmentConstant, 0.01, 0.002)))
		info, diags, err := stimulus.Reconstruct(stim, series(1, 2), stimulus.Options{Experimental: true})
		require.NoError(t, err, flag)
		assert.Nil(t, info, flag)
		require.Len(t, diags, 1, flag)
		assert.Contains(t, diags[0].Message, flag)
	}
}

func TestSweepCountClamped(t *testing.T) {
	stim := protocol(5, channel("V", 0, flags("UseStimScale"), seg(trees.SegmentConstant, 0.01, 0.002)))

	info, diags, err := stimulus.Reconstruct(stim, series(2, 2), stimulus.Options{})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, 2, info.NumSweeps)
	assert.Len(t, info.Data, 2)
	require.Len(t, diags, 1)
	assert.Equal(t, stimulus.SweepCountClamped, diags[0].Kind)
}

func TestShapeMismatch(t *testing.T) {
	stim := protocol(1, channel("V", 0, flags("UseStimScale"), seg(trees.SegmentConstant, 0.01, 0.010)))

	info, diags, err := stimulus.Reconstruct(stim, series(1, 7), stimulus.Options{})
	require.NoError(t, err)
	assert.Nil(t, info)
	assert.True(t, diags.Has(stimulus.ShapeMismatch))
}

func TestOversizedSegmentNotRendered(t *testing.T) {
	stim := protocol(1, channel("V", 0, flags("UseStimScale"), seg(trees.SegmentConstant, 0.01, 1e13*interval)))

	info, diags, err := stimulus.Reconstruct(stim, series(1, 2), stimulus.Options{})
	require.NoError(t, err)
	assert.Nil(t, info)
	assert.True(t, diags.Has(stimulus.ShapeMismatch))

	stim = protocol(1, channel("V", 0, flags("UseStimScale"), seg(trees.SegmentConstant, 0.01, 1e30*interval)))
	_, _, err = stimulus.Reconstruct(stim, series(1, 2), stimulus.Options{})
	assert.True(t, errors.Is(err, record.ErrFormatViolation), "got %v", err)
}

func TestSweepCountMustMatchTree(t *testing.T) {
	stim := protocol(1, channel("V", 0, flags("UseStimScale"), seg(trees.SegmentConstant, 0.01, 0.002)))
	s := series(1, 2)
	s.Header["SeNumberSweeps"] = int64(1 << 30)

	_, _, err := stimulus.Reconstruct(stim, s, stimulus.Options{})
	assert.True(t, errors.Is(err, record.ErrFormatViolation), "got %v", err)
}

func TestUnstoredSegmentsSkipped(t *testing.T) {
	unstored := with(seg(trees.SegmentConstant, 1, 0.005), "seStoreKind", "SegNoStore")
	stim := protocol(1, channel("V", 0, flags("UseStimScale"),
		unstored,
		seg(trees.SegmentConstant, 0.01, 0.002),
	))

	info, _, err := stimulus.Reconstruct(stim, series(1, 2), stimulus.Options{})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, []float64{0.01, 0.01}, info.Data[0])
}

func TestUnsupportedSegments(t *testing.T) {
	tests := map[string]*tree.Node{
		"decrement":      with(seg(trees.SegmentConstant, 0.01, 0.002), "seVoltageIncMode", trees.ModeDec),
		"alternate":      with(seg(trees.SegmentConstant, 0.01, 0.002), "seVoltageIncMode", "ModeAlternate"),
		"sine":           seg("SegmentConstSine", 0.01, 0.002),
		"source":         with(seg(trees.SegmentConstant, 0.01, 0.002), "seVoltageSource", int64(2)),
		"time increment": with(seg(trees.SegmentConstant, 0.01, 0.002), "seDeltaTIncrement", 0.001),
		"ramp increment": with(seg(trees.SegmentRamp, 0.01, 0.002), "seDeltaVIncrement", 0.01),
		"ramp holding":   with(seg(trees.SegmentRamp, 0.01, 0.002), "seVoltageSource", int64(stimulus.SourceHolding)),
	}
	for name, s := range tests {
		t.Run(name, func(t *testing.T) {
			stim := protocol(1, channel("V", 0, flags("UseStimScale"), s))
			_, _, err := stimulus.Reconstruct(stim, series(1, 2), stimulus.Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, record.ErrUnsupportedVariant))
		})
	}
}

func TestChannelSelection(t *testing.T) {
	stim := protocol(1,
		channel("V", 0, flags("UseStimScale"), seg(trees.SegmentConstant, 0, 0.002)),
		channel("V", 0, flags("UseStimScale"), seg(trees.SegmentConstant, 0.03, 0.002)),
		channel("V", 0, flags("UseStimScale"), seg(trees.SegmentConstant, 0.05, 0.002)),
	)

	info, _, err := stimulus.Reconstruct(stim, series(1, 2), stimulus.Options{})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, 1, info.Channel)
	assert.Equal(t, 0.03, info.Data[0][0])

	zero := 0
	info, _, err = stimulus.Reconstruct(stim, series(1, 2), stimulus.Options{Channel: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0, info.Channel)

	bad := 3
	_, _, err = stimulus.Reconstruct(stim, series(1, 2), stimulus.Options{Channel: &bad})
	assert.True(t, errors.Is(err, record.ErrPrecondition))
}

func TestMissingProtocol(t *testing.T) {
	stim := protocol(1, channel("V", 0, flags("UseStimScale"), seg(trees.SegmentConstant, 0.01, 0.002)))
	s := series(1, 2)
	s.Children[0].Header["SwStimCount"] = int64(0)

	_, _, err := stimulus.Reconstruct(stim, s, stimulus.Options{})
	assert.True(t, errors.Is(err, record.ErrPrecondition))
}
