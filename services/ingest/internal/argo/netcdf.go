package argo

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

const fillValueAttr = "_FillValue"

// File is a NetCDF file opened for reading. It implements Source.
type File struct {
	path  string
	group api.Group
}

// Attribute is one global attribute of a File.
type Attribute struct {
	Name  string
	Value any
}

// Open parses the NetCDF (classic or HDF5-based) file at path.
func Open(path string) (*File, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open netcdf %s: %w", path, err)
	}
	return &File{path: path, group: g}, nil
}

// Close releases the underlying reader.
func (f *File) Close() error {
	f.group.Close()
	return nil
}

// Path returns the file location.
func (f *File) Path() string { return f.path }

// VariableNames lists every variable defined in the root group.
func (f *File) VariableNames() []string {
	return f.group.ListVariables()
}

// Dimensions returns the dimension names of a variable.
func (f *File) Dimensions(name string) ([]string, error) {
	v, err := f.group.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return v.Dimensions, nil
}

// Attributes returns the global attributes in file order.
func (f *File) Attributes() []Attribute {
	attrs := f.group.Attributes()
	if attrs == nil {
		return nil
	}
	out := make([]Attribute, 0, len(attrs.Keys()))
	for _, k := range attrs.Keys() {
		v, _ := attrs.Get(k)
		out = append(out, Attribute{Name: k, Value: v})
	}
	return out
}

// Variable reads a numeric variable, flattening multi-dimensional data in
// row-major order. Readings equal to the variable's _FillValue read as NaN.
func (f *File) Variable(name string) (Value, error) {
	v, err := f.group.GetVariable(name)
	if err != nil || v == nil {
		return Value{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	var fill any
	if v.Attributes != nil {
		fill, _ = v.Attributes.Get(fillValueAttr)
	}
	return toValue(v.Values, fill)
}

var errNotNumeric = errors.New("variable is not numeric")

// toValue converts a decoded NetCDF payload into a Value.
func toValue(raw, fill any) (Value, error) {
	if raw == nil {
		return Value{}, errNotNumeric
	}

	fillValue, hasFill := scalarFloat(fill)
	if !hasFill {
		// Fill attributes are sometimes stored as one-element slices.
		rv := reflect.ValueOf(fill)
		if fill != nil && rv.Kind() == reflect.Slice && rv.Len() == 1 {
			fillValue, hasFill = scalarFloat(rv.Index(0).Interface())
		}
	}
	apply := func(x float64) float64 {
		if hasFill && x == fillValue {
			return math.NaN()
		}
		return x
	}

	if f, ok := scalarFloat(raw); ok {
		return Scalar(apply(f)), nil
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return Value{}, errNotNumeric
	}

	values := make([]float64, 0, rv.Len())
	if err := flatten(rv, &values); err != nil {
		return Value{}, err
	}
	for i := range values {
		values[i] = apply(values[i])
	}
	return Sequence(values), nil
}

func flatten(rv reflect.Value, out *[]float64) error {
	for i := 0; i < rv.Len(); i++ {
		el := rv.Index(i)
		switch el.Kind() {
		case reflect.Slice, reflect.Array:
			if err := flatten(el, out); err != nil {
				return err
			}
		default:
			f, ok := scalarFloat(el.Interface())
			if !ok {
				return errNotNumeric
			}
			*out = append(*out, f)
		}
	}
	return nil
}

func scalarFloat(x any) (float64, bool) {
	switch n := x.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
