package trees

import "github.com/spectriclabs/heka-data-service/internal/heka/record"

// Pulse tree layouts. Later generations append fields to the records of
// earlier ones, so each record is assembled from shared field lists.

func pulseRootFields() []record.Field {
	return []record.Field{
		record.I32("RoVersion"),
		record.I32("RoMark"),
		record.Str("RoVersionName", 32),
		record.Str("RoAuxFileName", 80),
		record.Str("RoRootText", 400),
		record.F64("RoStartTime"),
		record.I32("RoMaxSamples"),
		record.U32("RoCRC"),
		record.U16("RoFeatures"),
		record.I16("RoFiller1"),
		record.I32("RoFiller2"),
	}
}

func groupFields() []record.Field {
	return []record.Field{
		record.I32("GrMark"),
		record.Str("GrLabel", 32),
		record.Str("GrText", 80),
		record.I32("GrExperimentNumber"),
		record.I32("GrGroupCount"),
		record.U32("GrCRC"),
	}
}

func seriesFields() []record.Field {
	return []record.Field{
		record.I32("SeMark"),
		record.Str("SeLabel", 32),
		record.Str("SeComment", 80),
		record.I32("SeSeriesCount"),
		record.I32("SeNumberSweeps"),
		record.I32("SeAmplStateOffset"),
		record.I32("SeAmplStateSeries"),
		record.U8("SeSeriesType").With(seriesType),
		record.Boolean("SeUseXStart"),
		record.U8("SeFiller2"),
		record.U8("SeFiller3"),
		record.F64("SeTime"),
		record.F64("SePageWidth"),
		record.Nest("SeSwUserParamDescr", userParamDescr, 4),
		record.Str("SeFiller4", 32),
		record.F64("SeSeUserParams1").Times(4),
		record.Nest("SeLockInParams", lockInParams, 1),
		record.Nest("SeAmplifierState", amplifierState, 1),
		record.Str("SeUsername", 80),
		record.Nest("SeSeUserParamDescr1", userParamDescr, 4),
		record.I32("SeFiller5"),
		record.U32("SeCRC"),
	}
}

func sweepFields() []record.Field {
	return []record.Field{
		record.I32("SwMark"),
		record.Str("SwLabel", 32),
		record.I32("SwAuxDataFileOffset"),
		record.I32("SwStimCount"),
		record.I32("SwSweepCount"),
		record.F64("SwTime"),
		record.F64("SwTimer"),
		record.F64("SwSwUserParams").Times(4),
		record.F64("SwTemperature"),
		record.I32("SwOldIntSol"),
		record.I32("SwOldExtSol"),
		record.U16("SwDigitalIn"),
		record.U16("SwSweepKind"),
		record.U16("SwDigitalOut"),
		record.I16("SwFiller1"),
		record.F64("SwSwMarkers").Times(4),
		record.I32("SwFiller2"),
		record.U32("SwCRC"),
	}
}

// traceFieldsLegacy is the trace record up to and including TrImageIndex.
func traceFieldsLegacy() []record.Field {
	return []record.Field{
		record.I32("TrMark"),
		record.Str("TrLabel", 32),
		record.I32("TrTraceCount"),
		record.I32("TrData"),
		record.I32("TrDataPoints"),
		record.I32("TrInternalSolution"),
		record.I32("TrAverageCount"),
		record.I32("TrLeakCount"),
		record.I32("TrLeakTraces"),
		record.U16("TrDataKind").With(dataKind),
		record.Boolean("TrUseXStart"),
		record.U8("TrTcKind"),
		record.U8("TrRecordingMode").With(recordingMode),
		record.U8("TrAmplIndex"),
		record.U8("TrDataFormat").With(dataFormat),
		record.U8("TrDataAbscissa").With(dataAbscissa),
		record.F64("TrDataScaler"),
		record.F64("TrTimeOffset"),
		record.F64("TrZeroData"),
		record.Str("TrYUnit", 8),
		record.F64("TrXInterval"),
		record.F64("TrXStart"),
		record.Str("TrXUnit", 8),
		record.F64("TrYRange"),
		record.F64("TrYOffset"),
		record.F64("TrBandwidth"),
		record.F64("TrPipetteResistance"),
		record.F64("TrCellPotential"),
		record.F64("TrSealResistance"),
		record.F64("TrCSlow"),
		record.F64("TrGSeries"),
		record.F64("TrRsValue"),
		record.F64("TrGLeak"),
		record.F64("TrMConductance"),
		record.I32("TrLinkDAChannel"),
		record.Boolean("TrValidYrange"),
		record.U8("TrAdcMode").With(amplMode),
		record.I16("TrAdcChannel"),
		record.F64("TrYmin"),
		record.F64("TrYmax"),
		record.I32("TrSourceChannel"),
		record.I32("TrExternalSolution"),
		record.F64("TrCM"),
		record.F64("TrGM"),
		record.F64("TrPhase"),
		record.U32("TrDataCRC"),
		record.U32("TrCRC"),
		record.F64("TrGS"),
		record.I32("TrSelfChannel"),
		record.I32("TrInterleaveSize"),
		record.I32("TrInterleaveSkip"),
		record.I32("TrImageIndex"),
	}
}

func traceFieldsV9() []record.Field {
	return append(traceFieldsLegacy(),
		record.F64("TrTrMarkers").Times(10),
		record.F64("TrSECM_X"),
		record.F64("TrSECM_Y"),
		record.F64("TrSECM_Z"),
	)
}

func join(lists ...[]record.Field) []record.Field {
	var out []record.Field
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

var (
	pulseRootLegacy = record.MustSchema("Root", 544, pulseRootFields()...)
	groupLegacy     = record.MustSchema("Group", 128, groupFields()...)
	seriesLegacy    = record.MustSchema("Series", 1120, seriesFields()...)
	sweepLegacy     = record.MustSchema("Sweep", 160, sweepFields()...)
	traceLegacy     = record.MustSchema("Trace", 304, traceFieldsLegacy()...)
)

var (
	pulseRootV9 = record.MustSchema("Root", 544, pulseRootFields()...)
	groupV9     = record.MustSchema("Group", 128, groupFields()...)
	seriesV9    = record.MustSchema("Series", 1120, seriesFields()...)
	sweepV9     = record.MustSchema("Sweep", 160, sweepFields()...)
	traceV9     = record.MustSchema("Trace", 408, traceFieldsV9()...)
)

var (
	pulseRootV1000 = record.MustSchema("Root", 640, join(pulseRootFields(), []record.Field{
		record.I16("RoTcEnumerator").Times(32),
		record.I8("RoTcKind").Times(32),
	})...)
	groupV1000 = record.MustSchema("Group", 144, join(groupFields(), []record.Field{
		record.F64("GrMatrixWidth"),
		record.F64("GrMatrixHeight"),
	})...)
	seriesV1000 = record.MustSchema("Series", 1408, join(seriesFields(), []record.Field{
		record.F64("SeSeUserParams2").Times(4),
		record.Nest("SeSeUserParamDescr2", userParamDescr, 4),
		record.Nest("SeScanParams", scanParams, 1),
	})...)
	sweepV1000 = record.MustSchema("Sweep", 288, join(sweepFields(), []record.Field{
		record.F64("SwSwHolding").Times(16),
	})...)
	traceV1000 = record.MustSchema("Trace", 512, join(traceFieldsV9(), []record.Field{
		record.F64("TrTrHolding"),
		record.I32("TrTcEnumerator"),
		record.I32("TrXTrace"),
		record.F64("TrIntSolValue"),
		record.F64("TrExtSolValue"),
		record.Str("TrIntSolName", 32),
		record.Str("TrExtSolName", 32),
		record.F64("TrDataPedestal"),
	})...)
)
