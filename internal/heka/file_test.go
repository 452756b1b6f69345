package heka_test

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectriclabs/heka-data-service/internal/heka"
	"github.com/spectriclabs/heka-data-service/internal/heka/hekatest"
	"github.com/spectriclabs/heka-data-service/internal/heka/trees"
)

func TestOpenDecodesTrees(t *testing.T) {
	path := writeFixture(t, ivFixture(hekatest.VersionV1000).Build())

	f, err := heka.Open(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "DAT2", f.Header.Signature)
	assert.Equal(t, hekatest.VersionV1000, f.Header.Version)
	assert.Equal(t, trees.V1000, f.Generation)
	require.NotNil(t, f.Pulse())
	require.NotNil(t, f.Stim())
	assert.Len(t, f.Pulse().Children, 1)

	tr, err := f.Trace(0, 0, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "Im", tr.Header.String("TrLabel"))
	assert.Nil(t, tr.Samples, "samples are read on demand")

	assert.Equal(t, []int32{640, 144, 1408, 288, 512}, f.LevelSizes(trees.ExtPulse))
}

func TestOpenUpperCasesTraceUnits(t *testing.T) {
	fx := ivFixture(hekatest.VersionV9)
	fx.Groups[0].Series[1].Sweeps[0][0].YUnit = "v"
	f := openFixture(t, fx)

	tr, err := f.Trace(0, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "V", tr.Header.String("TrYUnit"))
}

func TestCloseAndReopen(t *testing.T) {
	path := writeFixture(t, ivFixture(hekatest.VersionV9).Build())

	f, err := heka.Open(path)
	require.NoError(t, err)
	assert.True(t, f.IsOpen())

	err = f.Reopen()
	assert.True(t, errors.Is(err, heka.ErrPrecondition))

	require.NoError(t, f.Close())
	assert.False(t, f.IsOpen())

	err = f.FillSeries(0, 0)
	assert.True(t, errors.Is(err, heka.ErrPrecondition))

	require.NoError(t, f.Reopen())
	defer f.Close()
	require.NoError(t, f.FillSeries(0, 0))
}

func TestUnknownVersionRejectedBeforeTrees(t *testing.T) {
	b := hekatest.NewBundle("v1x00, 01-Jan-1999")
	b.AddRaw(trees.ExtPulse, []byte("not a tree"))

	_, err := heka.NewFile(bytes.NewReader(b.Bytes()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, heka.ErrUnsupportedVersion))
	assert.False(t, errors.Is(err, heka.ErrFormatViolation))

	var verr *trees.VersionError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "v1x00, 01-Jan-1999", verr.Version)
}

func TestBundleHeaderRejections(t *testing.T) {
	cases := map[string]struct {
		edit func(*hekatest.Bundle)
		want error
	}{
		"DAT1":       {func(b *hekatest.Bundle) { b.Signature = "DAT1" }, heka.ErrFormatViolation},
		"signature":  {func(b *hekatest.Bundle) { b.Signature = "XYZW" }, heka.ErrFormatViolation},
		"big endian": {func(b *hekatest.Bundle) { b.IsLittleEndian = false }, heka.ErrUnsupportedVariant},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			b := hekatest.NewBundle(hekatest.VersionV9)
			tc.edit(b)
			_, err := heka.ReadBundleHeader(bytes.NewReader(b.Bytes()))
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestShortFileIsFormatViolation(t *testing.T) {
	_, err := heka.ReadBundleHeader(bytes.NewReader([]byte("DAT2")))
	assert.True(t, errors.Is(err, heka.ErrFormatViolation))
}

func TestMissingPulseTree(t *testing.T) {
	b := hekatest.NewBundle(hekatest.VersionV9)
	_, err := heka.NewFile(bytes.NewReader(b.Bytes()))
	assert.True(t, errors.Is(err, heka.ErrFormatViolation))
}

func TestTrailingTreeBytes(t *testing.T) {
	gen, err := trees.Select(hekatest.VersionV9)
	require.NoError(t, err)
	levels, _ := gen.Levels(trees.ExtPulse)

	raw := hekatest.Tree(levels, &hekatest.Node{})
	b := hekatest.NewBundle(hekatest.VersionV9)
	b.AddRaw(trees.ExtPulse, append(raw, 0, 0, 0, 0))

	_, err = heka.NewFile(bytes.NewReader(b.Bytes()))
	assert.True(t, errors.Is(err, heka.ErrFormatViolation))
}

func TestLookupOutOfRange(t *testing.T) {
	f := openFixture(t, ivFixture(hekatest.VersionV9))

	_, err := f.Series(0, 5)
	assert.True(t, errors.Is(err, heka.ErrPrecondition))
	_, err = f.Trace(0, 0, 0, 9)
	assert.True(t, errors.Is(err, heka.ErrPrecondition))
}

func TestLegacyFileHasNoStimTree(t *testing.T) {
	f := openFixture(t, ivFixture(hekatest.VersionLegacy))
	assert.True(t, f.Generation.Legacy())
	assert.Nil(t, f.Stim())
}
