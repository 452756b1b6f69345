package trees

import "github.com/spectriclabs/heka-data-service/internal/heka/record"

// Bit names of the trace data kind set.
var DataKindBits = []string{
	"IsLittleEndian",
	"IsLeak",
	"IsVirtual",
	"IsImon",
	"IsVmon",
	"Clip",
}

// Bit names of the stimulus channel chStimToDacID set.
var StimToDacBits = []string{
	"UseStimScale",
	"UseRelative",
	"UseFileTemplate",
	"UseForLockIn",
	"UseForWavelength",
	"UseScaling",
	"UseForChirp",
	"UseForImaging",
}

// Segment classes.
const (
	SegmentConstant   = "SegmentConstant"
	SegmentRamp       = "SegmentRamp"
	SegmentContinuous = "SegmentContinuous"
)

// Segment store kinds.
const SegStore = "SegStore"

// Increment modes.
const (
	ModeInc = "ModeInc"
	ModeDec = "ModeDec"
)

// Trace data formats.
const (
	Int16  = "int16"
	Int32  = "int32"
	Real32 = "real32"
	Real64 = "real64"
)

var (
	dataKind  = record.BitFlags(DataKindBits...)
	stimToDac = record.BitFlags(StimToDacBits...)

	recordingMode = record.Enum("InOut", "OnCell", "OutOut", "WholeCell", "CClamp", "VClamp", "NoMode")
	dataFormat    = record.Enum(Int16, Int32, Real32, Real64)
	dataAbscissa  = record.Enum("Time", "Amplitude", "Frequency", "Segment_Time",
		"Segment_Amplitude", "Segment_Frequency", "Segment_Index", "Segment_Amplitude_Rev")
	amplMode   = record.Enum("AnyAmplMode", "VCAmplMode", "CCAmplMode", "IDensityMode")
	extTrigger = record.Enum("TrigNone", "TrigSeries", "TrigSweep", "TrigSweepNoLeak")
	segClass   = record.Enum(SegmentConstant, SegmentRamp, SegmentContinuous,
		"SegmentConstSine", "SegmentSquarewave", "SegmentChirpwave")
	storeKind = record.Enum("SegNoStore", SegStore, "SegStoreStart", "SegStoreEnd")
	incMode   = record.Enum(ModeInc, ModeDec, "ModeIncInterleaved", "ModeDecInterleaved",
		"ModeAlternate", "ModeLogInc", "ModeLogDec", "ModeLogIncInterleaved",
		"ModeLogDecInterleaved", "ModeLogAlternate")
	lockInMode = record.Enum("LockInOff", "LockInSine", "LockInSquare", "LockInChirp")
	seriesType = record.Enum("SeriesNormal", "SeriesContinuous", "SeriesGapFree")
	markerKind = record.Enum("MarkerGeneral", "MarkerSolutionIndex", "MarkerSolutionValue")
)
