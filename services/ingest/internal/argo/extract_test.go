package argo

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseVars(n int) map[string]Value {
	seq := func(start float64) Value {
		vs := make([]float64, n)
		for i := range vs {
			vs[i] = start + float64(i)
		}
		return Sequence(vs)
	}
	return map[string]Value{
		"TEMP":      seq(10),
		"LATITUDE":  Scalar(-12.5),
		"LONGITUDE": Scalar(150.25),
		"PRES":      seq(5),
		"PSAL":      seq(34),
	}
}

func TestExtractSkipsFileMissingRequiredQuantity(t *testing.T) {
	for _, drop := range []string{"TEMP", "LATITUDE", "LONGITUDE", "PRES", "PSAL"} {
		t.Run(drop, func(t *testing.T) {
			vars := baseVars(3)
			delete(vars, drop)

			got := Extract(&fakeSource{vars: vars}, DefaultOptions())

			assert.True(t, got.Skipped)
			assert.Equal(t, ReasonMissingVariables, got.SkipReason)
			assert.Empty(t, got.Records)
		})
	}
}

func TestExtractSkipsFileWithoutSequences(t *testing.T) {
	src := &fakeSource{vars: map[string]Value{
		"TEMP":      Scalar(10),
		"LATITUDE":  Scalar(1),
		"LONGITUDE": Scalar(2),
		"PRES":      Scalar(3),
		"PSAL":      Scalar(4),
	}}

	got := Extract(src, DefaultOptions())

	assert.True(t, got.Skipped)
	assert.Equal(t, ReasonNoLength, got.SkipReason)
	assert.Zero(t, got.Length)
}

func TestExtractSkipsFileWithEmptySequences(t *testing.T) {
	vars := baseVars(0)

	got := Extract(&fakeSource{vars: vars}, DefaultOptions())

	assert.True(t, got.Skipped)
	assert.Equal(t, ReasonNoLength, got.SkipReason)
}

func TestExtractEmitsRecordsInIndexOrder(t *testing.T) {
	got := Extract(&fakeSource{vars: baseVars(4)}, DefaultOptions())

	require.False(t, got.Skipped)
	assert.Equal(t, 4, got.Length)
	require.Len(t, got.Records, 4)
	for i, rec := range got.Records {
		assert.Equal(t, 10+float64(i), rec.Temperature)
		assert.Equal(t, 5+float64(i), rec.Pressure)
		assert.Equal(t, 34+float64(i), rec.Salinity)
		assert.Equal(t, -12.5, rec.Latitude)
		assert.Equal(t, 150.25, rec.Longitude)
		assert.Nil(t, rec.Oxygen)
		assert.Nil(t, rec.Nitrate)
		assert.Nil(t, rec.Depth)
		assert.Nil(t, rec.ObservedAt)
	}
}

func TestExtractDropsIndexesWithMissingOrNaNRequired(t *testing.T) {
	vars := baseVars(5)
	vars["TEMP"] = Sequence([]float64{1, math.NaN(), 3, 4, 5})
	vars["PSAL"] = Sequence([]float64{34, 34, 34, math.NaN(), 34})
	// Shorter pressure array: index 4 is missing.
	vars["PRES"] = Sequence([]float64{10, 20, 30, 40})

	got := Extract(&fakeSource{vars: vars}, DefaultOptions())

	assert.Equal(t, 5, got.Length)
	require.Len(t, got.Records, 2)
	assert.Equal(t, 1.0, got.Records[0].Temperature)
	assert.Equal(t, 3.0, got.Records[1].Temperature)
	assert.Equal(t, 30.0, got.Records[1].Pressure)
}

func TestExtractShorterOptionalArrayIsAbsentNotZero(t *testing.T) {
	vars := baseVars(5)
	vars["DOXY"] = Sequence([]float64{200, 201, 202})

	got := Extract(&fakeSource{vars: vars}, DefaultOptions())

	require.Len(t, got.Records, 5)
	for i := 0; i < 3; i++ {
		require.NotNil(t, got.Records[i].Oxygen)
		assert.Equal(t, 200+float64(i), *got.Records[i].Oxygen)
	}
	assert.Nil(t, got.Records[3].Oxygen)
	assert.Nil(t, got.Records[4].Oxygen)
	assert.Equal(t, 14.0, got.Records[4].Temperature)
}

func TestExtractWorkingLengthUsesLongestArray(t *testing.T) {
	vars := baseVars(3)
	vars["DEPTH"] = Sequence([]float64{1, 2, 3, 4, 5, 6})

	got := Extract(&fakeSource{vars: vars}, DefaultOptions())

	assert.Equal(t, 6, got.Length)
	// Indexes 3..5 lack temperature, pressure and salinity.
	assert.Len(t, got.Records, 3)
}

func TestExtractNitrateDoesNotExtendLength(t *testing.T) {
	vars := baseVars(2)
	vars["NITRATE"] = Sequence([]float64{1, 2, 3, 4})

	got := Extract(&fakeSource{vars: vars}, DefaultOptions())

	assert.Equal(t, 2, got.Length)
	require.Len(t, got.Records, 2)
	require.NotNil(t, got.Records[1].Nitrate)
	assert.Equal(t, 2.0, *got.Records[1].Nitrate)
}

func TestExtractOptionalNaNIsAbsent(t *testing.T) {
	vars := baseVars(2)
	vars["DEPTH"] = Sequence([]float64{math.NaN(), 12})

	got := Extract(&fakeSource{vars: vars}, DefaultOptions())

	require.Len(t, got.Records, 2)
	assert.Nil(t, got.Records[0].Depth)
	require.NotNil(t, got.Records[1].Depth)
	assert.Equal(t, 12.0, *got.Records[1].Depth)
}

func TestExtractTimestampPrecedence(t *testing.T) {
	vars := baseVars(3)
	vars["JULD"] = Sequence([]float64{25567, math.NaN()})
	vars["TIME"] = Sequence([]float64{1_700_000_000, 1_700_000_000_000})

	got := Extract(&fakeSource{vars: vars}, DefaultOptions())

	require.Len(t, got.Records, 3)
	require.NotNil(t, got.Records[0].ObservedAt)
	assert.True(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).Equal(*got.Records[0].ObservedAt))

	// NaN days fall back to the epoch encoding.
	require.NotNil(t, got.Records[1].ObservedAt)
	assert.True(t, time.Unix(1_700_000_000, 0).Equal(*got.Records[1].ObservedAt))

	assert.Nil(t, got.Records[2].ObservedAt)
}

func TestExtractScalarTimeBroadcasts(t *testing.T) {
	vars := baseVars(2)
	vars["JULD_ADJUSTED"] = Scalar(0)

	got := Extract(&fakeSource{vars: vars}, DefaultOptions())

	require.Len(t, got.Records, 2)
	for _, rec := range got.Records {
		require.NotNil(t, rec.ObservedAt)
		assert.Equal(t, 1950, rec.ObservedAt.Year())
	}
}

func TestExtractCustomEpochThreshold(t *testing.T) {
	vars := baseVars(1)
	vars["TIME"] = Scalar(5000)

	got := Extract(&fakeSource{vars: vars}, Options{EpochMillisThreshold: 1000})

	require.Len(t, got.Records, 1)
	require.NotNil(t, got.Records[0].ObservedAt)
	assert.True(t, time.UnixMilli(5000).Equal(*got.Records[0].ObservedAt))
}

func TestExtractReportsResolvedNames(t *testing.T) {
	vars := baseVars(1)
	vars["Oxygen"] = Scalar(250)

	got := Extract(&fakeSource{vars: vars}, DefaultOptions())

	assert.Equal(t, "TEMP", got.Resolved[Temperature].Name)
	assert.Equal(t, "Oxygen", got.Resolved[Oxygen].Name)
	assert.False(t, got.Resolved[Nitrate].Found)
}
