package argo

import (
	"math"
	"time"
)

// DefaultEpochMillisThreshold separates seconds from milliseconds for raw
// epoch values. Magnitudes above it are read as milliseconds.
const DefaultEpochMillisThreshold = 1e12

// maxTimeMillis bounds instants to 100,000,000 days after the Unix epoch.
const maxTimeMillis = 8.64e15

// minTime is the earliest instant a Postgres timestamptz accepts
// (4714-11-24 BC, year -4713 in Go's proleptic calendar).
var minTime = time.Date(-4713, time.November, 24, 0, 0, 0, 0, time.UTC)

var juldEpoch = time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)

// JuldToTime converts days since 1950-01-01T00:00:00Z.
func JuldToTime(days float64) (time.Time, bool) {
	ms := float64(juldEpoch.UnixMilli()) + days*86400000
	return millisToTime(ms)
}

// EpochToTime converts a raw epoch value. Values whose magnitude exceeds
// threshold are milliseconds, everything else is seconds.
func EpochToTime(v, threshold float64) (time.Time, bool) {
	ms := v * 1000
	if math.Abs(v) > threshold {
		ms = v
	}
	return millisToTime(ms)
}

func millisToTime(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || ms > maxTimeMillis || ms < float64(minTime.UnixMilli()) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(math.Trunc(ms))).UTC(), true
}
