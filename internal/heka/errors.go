// Package heka reads PatchMaster bundle files: the bundle header, the
// record trees of each sub-bundle, recorded trace samples and the stimulus
// protocol of each series.
package heka

import "github.com/spectriclabs/heka-data-service/internal/heka/record"

// Error kinds, re-exported for callers that only import heka.
var (
	ErrFormatViolation    = record.ErrFormatViolation
	ErrUnsupportedVariant = record.ErrUnsupportedVariant
	ErrUnsupportedVersion = record.ErrUnsupportedVersion
	ErrPrecondition       = record.ErrPrecondition
)
