package heka_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spectriclabs/heka-data-service/internal/heka"
	"github.com/spectriclabs/heka-data-service/internal/heka/hekatest"
	"github.com/spectriclabs/heka-data-service/internal/heka/record"
)

const dt = 0.001

func ivStim() *hekatest.Stim {
	return &hekatest.Stim{
		SampleInterval: dt,
		NumberSweeps:   2,
		Channels: []hekatest.StimChannel{{
			DacUnit:   "mV",
			StimToDac: hekatest.UseStimScale,
			Segments: []record.Header{
				hekatest.Segment(hekatest.ClassConstant, 0, 0.002),
				hekatest.Segment(hekatest.ClassConstant, 0.05, 0.001),
			},
		}},
	}
}

// ivFixture has one group with two series. The first carries two sweeps
// of current and voltage traces and a protocol; the second a single
// float32 voltage sweep.
func ivFixture(version string) hekatest.Fixture {
	im := func(raw ...int16) hekatest.Trace {
		return hekatest.Trace{Label: "Im", YUnit: "A", Raw: raw, Scaler: 1e-12, Zero: 2e-12}
	}
	vm := func(raw ...int16) hekatest.Trace {
		return hekatest.Trace{Label: "Vm", YUnit: "V", Raw: raw, Scaler: 1e-3}
	}
	return hekatest.Fixture{
		Version: version,
		Groups: []hekatest.Group{{
			Label: "Cell1",
			Series: []hekatest.Series{
				{
					Label:     "IV",
					XInterval: dt,
					Stim:      ivStim(),
					Sweeps: []hekatest.Sweep{
						{im(1, 2, 3), vm(-70, -70, -20)},
						{im(4, 5, 6), vm(-70, -70, -20)},
					},
				},
				{
					Label:     "Rest",
					XInterval: dt,
					Sweeps: []hekatest.Sweep{
						{{Label: "Vm", YUnit: "V", Float: []float32{-0.07, -0.069}}},
					},
				},
			},
		}},
	}
}

func openFixture(t *testing.T, fx hekatest.Fixture, opts ...heka.Option) *heka.File {
	t.Helper()
	f, err := heka.NewFile(bytes.NewReader(fx.Build()), opts...)
	require.NoError(t, err)
	return f
}

func writeFixture(t *testing.T, raw []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.dat")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}
