package pose

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/wippyai/rigidbind/errors"
)

// Orientation is anything that exposes quaternion components x, y, z, w.
// The components need not be normalized.
type Orientation interface {
	XYZW() (x, y, z, w float64)
}

// OrientationFunc adapts a function to Orientation.
type OrientationFunc func() (x, y, z, w float64)

func (f OrientationFunc) XYZW() (x, y, z, w float64) { return f() }

type fields [4]float64

func (f fields) XYZW() (x, y, z, w float64) { return f[0], f[1], f[2], f[3] }

var axisNames = [4]string{"x", "y", "z", "w"}

// Adapt extracts an Orientation from a host value. It accepts an
// Orientation, a map keyed by x, y, z, w (any case), or a struct (or pointer
// to one) with numeric fields named X, Y, Z, W.
func Adapt(v any) (Orientation, error) {
	if o, ok := v.(Orientation); ok {
		return o, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, errors.InvalidPoseShape(nil, v, "nil orientation")
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		return adaptMap(rv)
	case reflect.Struct:
		return adaptStruct(rv)
	}
	return nil, errors.InvalidPoseShape(nil, v, fmt.Sprintf("%T does not expose x, y, z, w", v))
}

func adaptMap(rv reflect.Value) (Orientation, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, errors.InvalidPoseShape(nil, rv.Interface(), "orientation map keys must be strings")
	}

	var f fields
	var seen [4]bool
	iter := rv.MapRange()
	for iter.Next() {
		key := strings.ToLower(iter.Key().String())
		for i, name := range axisNames {
			if key != name {
				continue
			}
			n, ok := number(iter.Value().Interface())
			if !ok {
				return nil, errors.InvalidPoseShape([]string{name}, iter.Value().Interface(), "orientation field is not a number")
			}
			f[i] = n
			seen[i] = true
		}
	}
	for i, ok := range seen {
		if !ok {
			return nil, errors.InvalidPoseShape([]string{axisNames[i]}, rv.Interface(), "orientation field missing")
		}
	}
	return f, nil
}

func adaptStruct(rv reflect.Value) (Orientation, error) {
	var f fields
	for i, name := range axisNames {
		fv := rv.FieldByNameFunc(func(s string) bool { return strings.EqualFold(s, name) })
		if !fv.IsValid() || !fv.CanInterface() {
			return nil, errors.InvalidPoseShape([]string{name}, rv.Interface(), "orientation field missing")
		}
		n, ok := number(fv.Interface())
		if !ok {
			return nil, errors.InvalidPoseShape([]string{name}, fv.Interface(), "orientation field is not a number")
		}
		f[i] = n
	}
	return f, nil
}
