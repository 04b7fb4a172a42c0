package argo

import (
	"time"

	"github.com/floatchat/argo-explorer/services/ingest/internal/models"
)

// Skip reasons reported by Extract.
const (
	ReasonMissingVariables = "missing required variables"
	ReasonNoLength         = "no iterable data length"
)

var requiredQuantities = []Quantity{Temperature, Latitude, Longitude, Pressure, Salinity}

// lengthQuantities define one measurement per depth/cycle.
var lengthQuantities = []Quantity{Temperature, Pressure, Salinity, Latitude, Longitude, Depth, Oxygen}

// Options tunes extraction.
type Options struct {
	EpochMillisThreshold float64
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{EpochMillisThreshold: DefaultEpochMillisThreshold}
}

// Extraction is the result of converting one source file.
type Extraction struct {
	Records    []models.MeasurementRecord
	Resolved   map[Quantity]Resolution
	Length     int
	Skipped    bool
	SkipReason string
}

// Extract converts src into measurement records in index order. Indexes
// missing any required reading are dropped silently.
func Extract(src Source, opts Options) Extraction {
	if opts.EpochMillisThreshold <= 0 {
		opts.EpochMillisThreshold = DefaultEpochMillisThreshold
	}

	res := ResolveAll(src)
	out := Extraction{Resolved: res}

	for _, q := range requiredQuantities {
		if !res[q].Found {
			out.Skipped = true
			out.SkipReason = ReasonMissingVariables
			return out
		}
	}

	out.Length = workingLength(res)
	if out.Length == 0 {
		out.Skipped = true
		out.SkipReason = ReasonNoLength
		return out
	}

	temp := res[Temperature].Value
	lat := res[Latitude].Value
	lon := res[Longitude].Value
	pres := res[Pressure].Value
	psal := res[Salinity].Value
	oxy := res[Oxygen].Value
	nit := res[Nitrate].Value
	depth := res[Depth].Value
	juld := res[TimeJuld].Value
	epoch := res[TimeEpoch].Value

	out.Records = make([]models.MeasurementRecord, 0, out.Length)
	for i := 0; i < out.Length; i++ {
		t, ok1 := temp.NumberAt(i)
		la, ok2 := lat.NumberAt(i)
		lo, ok3 := lon.NumberAt(i)
		p, ok4 := pres.NumberAt(i)
		s, ok5 := psal.NumberAt(i)
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
			continue
		}

		out.Records = append(out.Records, models.MeasurementRecord{
			Temperature: t,
			Latitude:    la,
			Longitude:   lo,
			Pressure:    p,
			Salinity:    s,
			Oxygen:      optionalAt(oxy, i),
			Nitrate:     optionalAt(nit, i),
			Depth:       optionalAt(depth, i),
			ObservedAt:  observedAt(juld, epoch, i, opts.EpochMillisThreshold),
		})
	}
	return out
}

func workingLength(res map[Quantity]Resolution) int {
	n := 0
	for _, q := range lengthQuantities {
		r := res[q]
		if !r.Found {
			continue
		}
		if l, ok := r.Value.Len(); ok && l > n {
			n = l
		}
	}
	return n
}

func optionalAt(v Value, i int) *float64 {
	f, ok := v.NumberAt(i)
	if !ok {
		return nil
	}
	return &f
}

// observedAt prefers days-since-1950 over the raw epoch encoding.
func observedAt(juld, epoch Value, i int, threshold float64) *time.Time {
	if d, ok := juld.NumberAt(i); ok {
		return timePtr(JuldToTime(d))
	}
	if e, ok := epoch.NumberAt(i); ok {
		return timePtr(EpochToTime(e, threshold))
	}
	return nil
}

func timePtr(t time.Time, ok bool) *time.Time {
	if !ok {
		return nil
	}
	return &t
}
