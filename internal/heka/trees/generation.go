package trees

import (
	"fmt"

	"github.com/spectriclabs/heka-data-service/internal/heka/record"
	"github.com/spectriclabs/heka-data-service/internal/heka/tree"
)

// Generation is one family of record layouts. It carries the level schemas
// of every sub-bundle it can decode, keyed by bundle extension.
type Generation struct {
	Name   string
	legacy bool
	levels map[string]tree.Levels
}

// Legacy generations only decode the pulse tree.
func (g *Generation) Legacy() bool { return g.legacy }

// Levels returns the level schemas for a sub-bundle extension.
func (g *Generation) Levels(ext string) (tree.Levels, bool) {
	l, ok := g.levels[ext]
	return l, ok
}

// Extensions lists the sub-bundles the generation decodes in decode order.
func (g *Generation) Extensions() []string {
	var out []string
	for _, ext := range []string{ExtPulse, ExtStim, ExtAmp, ExtSolution, ExtMarker, ExtOnline} {
		if _, ok := g.levels[ext]; ok {
			out = append(out, ext)
		}
	}
	return out
}

func (g *Generation) String() string { return g.Name }

var (
	stimLevels     = tree.Levels{stimRoot, stimulation, stimChannel, stimSegment}
	ampLevels      = tree.Levels{ampRoot, ampSeries, amplState}
	solutionLevels = tree.Levels{solutionsRoot, solution, chemical}
	markerLevels   = tree.Levels{markerRoot, marker}
	onlineLevels   = tree.Levels{analRoot, method, function}
)

var (
	Legacy = &Generation{
		Name:   "legacy",
		legacy: true,
		levels: map[string]tree.Levels{
			ExtPulse: {pulseRootLegacy, groupLegacy, seriesLegacy, sweepLegacy, traceLegacy},
		},
	}

	V9 = &Generation{
		Name: "v9",
		levels: map[string]tree.Levels{
			ExtPulse:    {pulseRootV9, groupV9, seriesV9, sweepV9, traceV9},
			ExtStim:     stimLevels,
			ExtAmp:      ampLevels,
			ExtSolution: solutionLevels,
			ExtMarker:   markerLevels,
			ExtOnline:   onlineLevels,
		},
	}

	V1000 = &Generation{
		Name: "v1000",
		levels: map[string]tree.Levels{
			ExtPulse:    {pulseRootV1000, groupV1000, seriesV1000, sweepV1000, traceV1000},
			ExtStim:     stimLevels,
			ExtAmp:      ampLevels,
			ExtSolution: solutionLevels,
			ExtMarker:   markerLevels,
			ExtOnline:   onlineLevels,
		},
	}
)

var versions = map[string]*Generation{
	"v2x65, 19-Dec-2011": Legacy,

	"v2x90.2, 22-Nov-2016": V9,

	"v2x90.3, 19-Mar-2018":    V1000,
	"v2x90.4, 30-Oct-2018":    V1000,
	"v2x90.5, 09-Apr-2019":    V1000,
	"1.2.0 [Build 1469]":      V1000,
	"1.3.0 [Build 1008]":      V1000,
	"1.4.1 [Build 1036]":      V1000,
	"1.5.0 [Build 1061]":      V1000,
	"v2x91, 23-Feb-2021":      V1000,
	"v2x91, 06-Jul-2020":      V1000,
	"v2x92, 23-February-2023": V1000,
	"v2x92, 1-June-2023":      V1000,
}

// VersionError names a file version with no known layout.
type VersionError struct {
	Version string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("unsupported version %q", e.Version)
}

func (e *VersionError) Is(target error) bool {
	return target == record.ErrUnsupportedVersion
}

// Select maps the version string of a bundle header to its generation.
// Matching is exact; there is no fallback layout.
func Select(version string) (*Generation, error) {
	g, ok := versions[version]
	if !ok {
		return nil, &VersionError{Version: version}
	}
	return g, nil
}
