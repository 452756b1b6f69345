package trees

import "github.com/spectriclabs/heka-data-service/internal/heka/record"

// Bundle extensions.
const (
	ExtPulse    = ".pul"
	ExtStim     = ".pgf"
	ExtAmp      = ".amp"
	ExtSolution = ".sol"
	ExtMarker   = ".mrk"
	ExtOnline   = ".onl"
)

// BundleItem locates one sub-bundle inside the file.
var BundleItem = record.MustSchema("BundleItem", 16,
	record.I32("oStart"),
	record.I32("oLength"),
	record.Str("oExtension", 8),
)

// BundleHeader is the fixed header at the start of every bundle.
var BundleHeader = record.MustSchema("BundleHeader", 256,
	record.Str("oSignature", 8),
	record.Str("oVersion", 32),
	record.F64("oTime"),
	record.I32("oItems"),
	record.Boolean("oIsLittleEndian"),
	record.Raw("oReserved", 11),
	record.Nest("oBundleItems", BundleItem, 12),
)

var userParamDescr = record.MustSchema("UserParamDescr", 40,
	record.Str("Name", 32),
	record.Str("Unit", 8),
)

var lockInParams = record.MustSchema("LockInParams", 96,
	record.F64("loExtCalPhase"),
	record.F64("loExtCalAtten"),
	record.F64("loPLPhase"),
	record.F64("loPLPhaseY1"),
	record.F64("loPLPhaseY2"),
	record.F64("loUsedPhaseShift"),
	record.F64("loUsedAttenuation"),
	record.F64("loSpare"),
	record.Boolean("loExtCalValid"),
	record.Boolean("loPLPhaseValid"),
	record.U8("loLockInMode").With(lockInMode),
	record.U8("loCalMode"),
	record.Raw("loSpares", 28),
)

var amplifierState = record.MustSchema("AmplifierState", 400,
	record.Str("sStateVersion", 8),
	record.F64("sCurrentGain"),
	record.F64("sF2Bandwidth"),
	record.F64("sF2Frequency"),
	record.F64("sRsValue"),
	record.F64("sRsFraction"),
	record.F64("sGLeak"),
	record.F64("sCFastAmp1"),
	record.F64("sCFastAmp2"),
	record.F64("sCFastTau"),
	record.F64("sCSlow"),
	record.F64("sGSeries"),
	record.F64("sVCStimDacScale"),
	record.F64("sCCStimScale"),
	record.F64("sVHold"),
	record.F64("sLastVHold"),
	record.F64("sVpOffset"),
	record.F64("sVLiquidJunction"),
	record.F64("sCCIHold"),
	record.F64("sCSlowStimVolts"),
	record.F64("sCCTrackVHold"),
	record.F64("sTimeoutCSlow"),
	record.F64("sSearchDelay"),
	record.F64("sMConductance"),
	record.F64("sMCapacitance"),
	record.Str("sSerialNumber", 8),
	record.I16("sE9Boards"),
	record.I16("sCSlowCycles"),
	record.I16("sIMonAdc"),
	record.I16("sVMonAdc"),
	record.I16("sMuxAdc"),
	record.I16("sTestDac"),
	record.I16("sStimDac"),
	record.I16("sStimDacOffset"),
	record.I16("sMaxDigitalBit"),
	record.U8("sHasCFastHigh"),
	record.U8("sCFastHigh"),
	record.U8("sHasBathSense"),
	record.U8("sBathSense"),
	record.U8("sHasF2Bypass"),
	record.U8("sF2Mode"),
	record.U8("sAmplKind"),
	record.U8("sIsEpc9N"),
	record.U8("sADBoard"),
	record.U8("sBoardVersion"),
	record.U8("sActiveE9Board"),
	record.U8("sMode").With(amplMode),
	record.U8("sRange"),
	record.U8("sF2Response"),
	record.U8("sRsOn"),
	record.U8("sCSlowRange"),
	record.U8("sCCRange"),
	record.U8("sCCGain"),
	record.U8("sCSlowToTestDac"),
	record.U8("sStimPath"),
	record.U8("sCCTrackTau"),
	record.U8("sWasClipping"),
	record.U8("sRepetitiveCSlow"),
	record.U8("sLastCSlowRange"),
	record.U8("sOld1"),
	record.U8("sCanCCFast"),
	record.U8("sCanLowCCRange"),
	record.U8("sCanHighCCRange"),
	record.U8("sCanCCTracking"),
	record.U8("sHasVmonPath"),
	record.U8("sHasNewCCMode"),
	record.U8("sSelector"),
	record.U8("sHoldInverted"),
	record.U8("sAutoCFast"),
	record.U8("sAutoCSlow"),
	record.U8("sHasVmonX100"),
	record.U8("sTestDacOn"),
	record.U8("sQMuxAdcOn"),
	record.F64("sImon1Bandwidth"),
	record.F64("sStimScale"),
	record.U8("sGain"),
	record.U8("sFilter1"),
	record.U8("sStimFilterOn"),
	record.U8("sRsSlow"),
	record.U8("sOld2"),
	record.U8("sCCCFastOn"),
	record.U8("sCCFastSpeed"),
	record.U8("sF2Source"),
	record.U8("sTestRange"),
	record.U8("sTestDacPath"),
	record.U8("sMuxChannel"),
	record.U8("sMuxGain64"),
	record.U8("sVmonX100"),
	record.U8("sIsQuadro"),
	record.U8("sF1Mode"),
	record.U8("sOld3"),
	record.F64("sStimFilterHz"),
	record.F64("sRsTau"),
	record.F64("sDacToAdcDelay"),
	record.F64("sInputFilterTau"),
	record.F64("sOutputFilterTau"),
	record.F64("sVmonFactor"),
	record.Str("sCalibDate", 16),
	record.F64("sVmonOffset"),
	record.U8("sEEPROMKind"),
	record.U8("sVrefX2"),
	record.U8("sHasVrefX2AndF2Vmon"),
	record.Raw("sSpares", 5),
	record.F64("sCCStimDacScale"),
	record.F64("sVmonFiltBandwidth"),
	record.F64("sVmonFiltFrequency"),
)

var scanParams = record.MustSchema("ScanParams", 96,
	record.F64("scMinAmplitude"),
	record.F64("scMaxAmplitude"),
	record.F64("scDuration"),
	record.F64("scScanRate"),
	record.I32("scRepeats"),
	record.U8("scWaveform"),
	record.Raw("scFiller", 3),
	record.Raw("scSpares", 56),
)

// Stimulus tree. The layout is shared by every generation that stores one.

var stimRoot = record.MustSchema("StimRoot", 584,
	record.I32("RoVersion"),
	record.I32("RoMark"),
	record.Str("RoVersionName", 32),
	record.I32("RoMaxSamples"),
	record.I32("RoFiller1"),
	record.F64("RoParams").Times(10),
	record.Str("RoParamText", 32).Times(10),
	record.Str("RoReserved", 128),
	record.I32("RoFiller2"),
	record.U32("RoCRC"),
)

var stimulation = record.MustSchema("Stimulation", 248,
	record.I32("stMark"),
	record.Str("stEntryName", 32),
	record.Str("stFileName", 32),
	record.Str("stAnalName", 32),
	record.I32("stDataStartSegment"),
	record.F64("stDataStartTime"),
	record.F64("stSampleInterval"),
	record.F64("stSweepInterval"),
	record.F64("stLeakDelay"),
	record.F64("stFilterFactor"),
	record.I32("stNumberSweeps"),
	record.I32("stNumberLeaks"),
	record.I32("stNumberAverages"),
	record.I32("stActualAdcChannels"),
	record.I32("stActualDacChannels"),
	record.U8("stExtTrigger").With(extTrigger),
	record.Boolean("stNoStartWait"),
	record.Boolean("stUseScanRates"),
	record.Boolean("stNoContAq"),
	record.Boolean("stHasLockIn"),
	record.U8("stOldStartMacKind"),
	record.Boolean("stOldEndMacKind"),
	record.U8("stAutoRange"),
	record.Boolean("stBreakNext"),
	record.Boolean("stIsExpanded"),
	record.Boolean("stLeakCompMode"),
	record.Boolean("stHasChirp"),
	record.Str("stOldStartMacro", 32),
	record.Str("stOldEndMacro", 32),
	record.Boolean("sIsGapFree"),
	record.Boolean("sHandledExternally"),
	record.Boolean("stFiller1"),
	record.Boolean("stFiller2"),
	record.U32("stCRC"),
)

var stimChannel = record.MustSchema("StimChannel", 400,
	record.I32("chMark"),
	record.I32("chLinkedChannel"),
	record.I32("chCompressionFactor"),
	record.Str("chYUnit", 8),
	record.I16("chAdcChannel"),
	record.U8("chAdcMode"),
	record.Boolean("chDoWrite"),
	record.U8("stLeakStore"),
	record.U8("chAmplMode").With(amplMode),
	record.Boolean("chOwnSegTime"),
	record.Boolean("chSetLastSegVmemb"),
	record.I16("chDacChannel"),
	record.U8("chDacMode"),
	record.U8("chHasLockInSquare"),
	record.I32("chRelevantXSegment"),
	record.I32("chRelevantYSegment"),
	record.Str("chDacUnit", 8),
	record.F64("chHolding"),
	record.F64("chLeakHolding"),
	record.F64("chLeakSize"),
	record.U8("chLeakHoldMode"),
	record.Boolean("chLeakAlternate"),
	record.Boolean("chAltLeakAveraging"),
	record.Boolean("chLeakPulseOn"),
	record.U16("chStimToDacID").With(stimToDac),
	record.U16("chCompressionMode"),
	record.I32("chCompressionSkip"),
	record.I16("chDacBit"),
	record.Boolean("chHasLockInSine"),
	record.U8("chBreakMode"),
	record.I32("chZeroSeg"),
	record.I32("chStimSweep"),
	record.F64("chSine_Cycle"),
	record.F64("chSine_Amplitude"),
	record.F64("chLockIn_VReversal"),
	record.F64("chChirp_StartFreq"),
	record.F64("chChirp_EndFreq"),
	record.F64("chChirp_MinPoints"),
	record.F64("chSquare_NegAmpl"),
	record.F64("chSquare_DurFactor"),
	record.I32("chLockIn_Skip"),
	record.I32("chPhoto_MaxCycles"),
	record.I32("chPhoto_SegmentNo"),
	record.I32("chLockIn_AvgCycles"),
	record.I32("chImaging_RoiNo"),
	record.I32("chChirp_Skip"),
	record.F64("chChirp_Amplitude"),
	record.U8("chPhoto_Adapt"),
	record.U8("chSine_Kind"),
	record.U8("chChirp_PreChirp"),
	record.U8("chSine_Source"),
	record.U8("chSquare_NegSource"),
	record.U8("chSquare_PosSource"),
	record.U8("chChirp_Kind"),
	record.U8("chChirp_Source"),
	record.F64("chDacOffset"),
	record.F64("chAdcOffset"),
	record.U8("chTraceMathFormat"),
	record.Boolean("chHasChirp"),
	record.U8("chSquare_Kind"),
	record.Raw("chFiller1", 5),
	record.F64("chSquare_BaseIncr"),
	record.F64("chSquare_Cycle"),
	record.F64("chSquare_PosAmpl"),
	record.I32("chCompressionOffset"),
	record.I32("chPhotoMode"),
	record.F64("chBreakLevel"),
	record.Str("chTraceMath", 128),
	record.I32("chFiller2"),
	record.U32("chCRC"),
)

var stimSegment = record.MustSchema("StimSegment", 80,
	record.I32("seMark"),
	record.U8("seClass").With(segClass),
	record.U8("seStoreKind").With(storeKind),
	record.U8("seVoltageIncMode").With(incMode),
	record.U8("seDurationIncMode").With(incMode),
	record.F64("seVoltage"),
	record.I32("seVoltageSource"),
	record.F64("seDeltaVFactor"),
	record.F64("seDeltaVIncrement"),
	record.F64("seDuration"),
	record.I32("seDurationSource"),
	record.F64("seDeltaTFactor"),
	record.F64("seDeltaTIncrement"),
	record.I32("seFiller1"),
	record.U32("seCRC"),
	record.F64("seScanRate"),
)

// Amplifier tree.

var ampRoot = record.MustSchema("AmpRoot", 80,
	record.I32("RoVersion"),
	record.I32("RoMark"),
	record.Str("RoVersionName", 32),
	record.Str("RoAmplifierName", 32),
	record.U8("RoAmplifier"),
	record.U8("RoADBoard"),
	record.U8("RoCreator"),
	record.U8("RoFiller1"),
	record.U32("RoCRC"),
)

var ampSeries = record.MustSchema("AmpSeries", 16,
	record.I32("SeMark"),
	record.I32("SeSeriesCount"),
	record.I32("SeFiller1"),
	record.U32("SeCRC"),
)

var amplState = record.MustSchema("AmplState", 560,
	record.I32("AmMark"),
	record.I32("AmStateCount"),
	record.U8("AmStateVersion"),
	record.U8("AmFiller1"),
	record.U8("AmFiller2"),
	record.U8("AmFiller3"),
	record.I32("AmFiller4"),
	record.Nest("AmLockInParams", lockInParams, 1),
	record.Nest("AmAmplifierState", amplifierState, 1),
	record.I32("AmIntSol"),
	record.I32("AmExtSol"),
	record.Raw("AmFiller5", 36),
	record.U32("AmCRC"),
)

// Solutions tree.

var solutionsRoot = record.MustSchema("SolutionsRoot", 88,
	record.I16("RoVersion"),
	record.Str("RoDataBaseName", 80),
	record.I16("RoSpare1"),
	record.U32("RoCRC"),
)

var solution = record.MustSchema("Solution", 160,
	record.I32("soNumber"),
	record.Str("soName", 80),
	record.F32("soNumeric"),
	record.Str("soNumericName", 30),
	record.F32("soPH"),
	record.Str("soPHCompound", 30),
	record.F32("soOsmol"),
	record.U32("soCRC"),
)

var chemical = record.MustSchema("Chemical", 40,
	record.F32("chConcentration"),
	record.Str("chName", 30),
	record.I16("chSpare1"),
	record.U32("chCRC"),
)

// Marker tree. Identical in every generation, including the legacy one.

var markerRoot = record.MustSchema("MarkerRoot", 8,
	record.I32("RoVersion"),
	record.U32("RoCRC"),
)

var marker = record.MustSchema("Marker", 96,
	record.F64("MaRecordTime"),
	record.I32("MaCounter"),
	record.U32("MaCRC"),
	record.U8("MaKind").With(markerKind),
	record.U8("MaFiller1"),
	record.I16("MaFiller2"),
	record.Str("MaText", 64),
	record.I32("MaSeries"),
	record.I32("MaSweep"),
	record.I32("MaFiller3"),
)

// Online analysis tree.

var analRoot = record.MustSchema("AnalRoot", 8,
	record.I32("RoVersion"),
	record.U32("RoCRC"),
)

var method = record.MustSchema("Method", 48,
	record.I32("MeMark"),
	record.Str("MeEntryName", 32),
	record.I32("MeSharedXWin1"),
	record.I32("MeSharedXWin2"),
	record.U32("MeCRC"),
)

var function = record.MustSchema("Function", 104,
	record.I32("FuMark"),
	record.Str("FuName", 32),
	record.Str("FuUnit", 8),
	record.I16("FuLeftOperand"),
	record.I16("FuRightOperand"),
	record.F64("FuLeftBound"),
	record.F64("FuRightBound"),
	record.F64("FuConstant"),
	record.I32("FuXSegmentOffset"),
	record.I32("FuYSegmentOffset"),
	record.I32("FuXAxis"),
	record.I32("FuYAxis"),
	record.I16("FuTcEnumerator"),
	record.U8("FuFunction"),
	record.Boolean("FuDoNotebook"),
	record.Boolean("FuNoFit"),
	record.Boolean("FuNewName"),
	record.I16("FuTargetValue"),
	record.U8("FuCursorKind"),
	record.U8("FuTcKind1"),
	record.U8("FuTcKind2"),
	record.U8("FuCursorSource"),
	record.U32("FuCRC"),
)
