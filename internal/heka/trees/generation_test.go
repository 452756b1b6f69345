package trees_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectriclabs/heka-data-service/internal/heka/record"
	"github.com/spectriclabs/heka-data-service/internal/heka/trees"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		version string
		want    *trees.Generation
	}{
		{"v2x65, 19-Dec-2011", trees.Legacy},
		{"v2x90.2, 22-Nov-2016", trees.V9},
		{"v2x90.3, 19-Mar-2018", trees.V1000},
		{"1.2.0 [Build 1469]", trees.V1000},
		{"v2x91, 06-Jul-2020", trees.V1000},
		{"v2x92, 1-June-2023", trees.V1000},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			g, err := trees.Select(tt.version)
			require.NoError(t, err)
			assert.Same(t, tt.want, g)
		})
	}
}

func TestSelectUnknown(t *testing.T) {
	_, err := trees.Select("v2x73.5, 21-May-2015")
	require.Error(t, err)
	assert.True(t, errors.Is(err, record.ErrUnsupportedVersion))
	assert.Contains(t, err.Error(), "v2x73.5, 21-May-2015")

	var verr *trees.VersionError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "v2x73.5, 21-May-2015", verr.Version)

	_, err = trees.Select("v2x91, 23-Feb-2021 ")
	assert.Error(t, err)
}

func TestPulseRecordSizes(t *testing.T) {
	tests := []struct {
		gen   *trees.Generation
		sizes []int
	}{
		{trees.Legacy, []int{544, 128, 1120, 160, 304}},
		{trees.V9, []int{544, 128, 1120, 160, 408}},
		{trees.V1000, []int{640, 144, 1408, 288, 512}},
	}
	for _, tt := range tests {
		t.Run(tt.gen.Name, func(t *testing.T) {
			levels, ok := tt.gen.Levels(trees.ExtPulse)
			require.True(t, ok)
			require.Equal(t, 5, levels.Depth())
			for i, size := range tt.sizes {
				assert.Equal(t, size, levels[i].Size, levels[i].Name)
			}
		})
	}
}

func TestGenerationSubBundles(t *testing.T) {
	assert.True(t, trees.Legacy.Legacy())
	assert.Equal(t, []string{trees.ExtPulse}, trees.Legacy.Extensions())

	assert.False(t, trees.V1000.Legacy())
	assert.Equal(t, []string{
		trees.ExtPulse, trees.ExtStim, trees.ExtAmp,
		trees.ExtSolution, trees.ExtMarker, trees.ExtOnline,
	}, trees.V1000.Extensions())

	stim, ok := trees.V9.Levels(trees.ExtStim)
	require.True(t, ok)
	assert.Equal(t, 4, stim.Depth())

	mrk, _ := trees.V9.Levels(trees.ExtMarker)
	assert.Equal(t, 2, mrk.Depth())
}

func TestTraceFieldOffsets(t *testing.T) {
	levels, _ := trees.V1000.Levels(trees.ExtPulse)
	trace := levels[4]
	for name, want := range map[string]int{
		"TrData":           40,
		"TrDataKind":       64,
		"TrDataFormat":     70,
		"TrDataScaler":     72,
		"TrYUnit":          96,
		"TrXInterval":      104,
		"TrGLeak":          200,
		"TrInterleaveSize": 292,
		"TrTrHolding":      408,
		"TrDataPedestal":   504,
	} {
		off, ok := trace.Offset(name)
		require.True(t, ok, name)
		assert.Equal(t, want, off, name)
	}
}

func TestNormalizeTrace(t *testing.T) {
	h := record.Header{"TrYUnit": "a"}
	trees.NormalizeTrace(h)
	assert.Equal(t, "A", h.String("TrYUnit"))
}
