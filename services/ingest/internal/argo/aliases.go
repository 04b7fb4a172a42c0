package argo

import "errors"

// Quantity names a physical quantity carried by an ARGO file.
type Quantity string

const (
	Temperature Quantity = "temperature"
	Latitude    Quantity = "latitude"
	Longitude   Quantity = "longitude"
	Pressure    Quantity = "pressure"
	Salinity    Quantity = "salinity"
	Oxygen      Quantity = "oxygen"
	Nitrate     Quantity = "nitrate"
	Depth       Quantity = "depth"
	TimeJuld    Quantity = "time_juld"
	TimeEpoch   Quantity = "time_epoch"
)

// ErrNotFound is returned by a Source when it has no variable by that name.
var ErrNotFound = errors.New("variable not found")

// Quantities lists every resolvable quantity in reporting order.
var Quantities = []Quantity{
	Temperature, Latitude, Longitude, Pressure, Salinity,
	Oxygen, Nitrate, Depth, TimeJuld, TimeEpoch,
}

// aliases holds the accepted variable names per quantity, highest priority
// first. Adjusted and human-readable variants cover the naming used by the
// GDAC profile files and by re-gridded products.
var aliases = map[Quantity][]string{
	Temperature: {"TEMP", "TEMP_ADJUSTED", "Temperature"},
	Latitude:    {"LATITUDE", "Lat"},
	Longitude:   {"LONGITUDE", "Lon"},
	Pressure:    {"PRES", "PRESSURE", "Pressure"},
	Salinity:    {"PSAL", "PSAL_ADJUSTED", "SALINITY", "Salinity"},
	Oxygen:      {"OXYGEN", "DOXY", "DOXY_ADJUSTED", "Oxygen"},
	Nitrate:     {"NITRATE", "NITRATE_ADJUSTED", "Nitrate"},
	Depth:       {"DEPTH", "Depth"},
	TimeJuld:    {"JULD", "JULD_ADJUSTED"},
	TimeEpoch:   {"TIME"},
}

// Aliases returns a copy of the candidate names for q in priority order.
func Aliases(q Quantity) []string {
	names := aliases[q]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Source exposes named variables of one parsed data file.
type Source interface {
	Variable(name string) (Value, error)
}

// Resolution is the outcome of resolving one quantity against a Source.
type Resolution struct {
	Quantity Quantity
	Name     string
	Value    Value
	Found    bool
}

// Resolve returns the first alias of q that src yields. Any lookup error,
// not just ErrNotFound, moves on to the next alias.
func Resolve(src Source, q Quantity) Resolution {
	for _, name := range aliases[q] {
		v, err := src.Variable(name)
		if err != nil {
			continue
		}
		return Resolution{Quantity: q, Name: name, Value: v, Found: true}
	}
	return Resolution{Quantity: q}
}

// ResolveAll resolves every known quantity.
func ResolveAll(src Source) map[Quantity]Resolution {
	out := make(map[Quantity]Resolution, len(Quantities))
	for _, q := range Quantities {
		out[q] = Resolve(src, q)
	}
	return out
}
