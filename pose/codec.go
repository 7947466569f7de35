package pose

import (
	"fmt"
	"math"
	"reflect"

	"github.com/wippyai/rigidbind"
	"github.com/wippyai/rigidbind/errors"
)

// Wire is the canonical host form of a pose: a position array and an
// orientation object.
type Wire struct {
	Position    [3]float32
	Orientation Quat
}

// Tuple returns the 2-element host form [position, orientation].
func (w Wire) Tuple() []any {
	return []any{w.Position[:], w.Orientation}
}

// Pose returns the transform w describes, normalizing the orientation.
func (w Wire) Pose() (Pose, error) {
	return Decode(w)
}

// Encode returns the canonical wire form of p.
func Encode(p Pose) Wire {
	return Wire{
		Position:    p.P.Array(),
		Orientation: p.Q,
	}
}

// Decode converts a host pose value into a Pose with a unit orientation.
//
// Accepted shapes, tried in order:
//
//  1. a sequence of 3 numbers: position, identity orientation
//  2. a sequence of 7 numbers: position, then orientation as (w, x, y, z)
//  3. a 1-element sequence holding form 1
//  4. a 2-element sequence holding a position and an orientation
//
// Pose and Wire values are accepted as already-typed inputs. Anything else
// fails with errors.ErrInvalidPoseShape.
func Decode(input any) (Pose, error) {
	switch v := input.(type) {
	case Pose:
		return FromParts(v.P.Array(), v.Q, nil)
	case Wire:
		return FromParts(v.Position, v.Orientation, nil)
	case *Wire:
		if v == nil {
			return Pose{}, errors.InvalidPoseShape(nil, input, "nil wire")
		}
		return FromParts(v.Position, v.Orientation, nil)
	}

	items, ok := sequence(input)
	if !ok {
		return Pose{}, errors.InvalidPoseShape(nil, input, fmt.Sprintf("expected a sequence, got %T", input))
	}

	if nums, ok := numbers(items); ok {
		switch len(nums) {
		case 3:
			pos, err := position(nums, nil)
			if err != nil {
				return Pose{}, err
			}
			return Pose{P: pos, Q: IdentityQuat()}, nil
		case 7:
			pos, err := position(nums[:3], nil)
			if err != nil {
				return Pose{}, err
			}
			q, err := normalize(nums[4], nums[5], nums[6], nums[3], []string{"orientation"})
			if err != nil {
				return Pose{}, err
			}
			return Pose{P: pos, Q: q}, nil
		}
		return Pose{}, errors.InvalidPoseShape(nil, input, fmt.Sprintf("expected 3 or 7 numbers, got %d", len(nums)))
	}

	switch len(items) {
	case 1:
		pos, err := positionOf(items[0], []string{"0"})
		if err != nil {
			return Pose{}, err
		}
		return Pose{P: pos, Q: IdentityQuat()}, nil
	case 2:
		pos, err := positionOf(items[0], []string{"0"})
		if err != nil {
			return Pose{}, err
		}
		o, err := Adapt(items[1])
		if err != nil {
			return Pose{}, errors.New(errors.PhasePose, errors.KindInvalidPoseShape).
				Path("1").
				Value(items[1]).
				Cause(err).
				Detail("orientation").
				Build()
		}
		x, y, z, w := o.XYZW()
		q, err := normalize(x, y, z, w, []string{"1"})
		if err != nil {
			return Pose{}, err
		}
		return Pose{P: pos, Q: q}, nil
	}

	return Pose{}, errors.InvalidPoseShape(nil, input, fmt.Sprintf("unrecognized pose shape with %d elements", len(items)))
}

// FromParts builds a Pose from a position and an orientation, normalizing
// the orientation. This is the strongly typed entry point behind Decode.
func FromParts(p [3]float32, o Orientation, path []string) (Pose, error) {
	nums := []float64{float64(p[0]), float64(p[1]), float64(p[2])}
	pos, err := position(nums, path)
	if err != nil {
		return Pose{}, err
	}
	if o == nil {
		return Pose{}, errors.InvalidPoseShape(path, nil, "nil orientation")
	}
	x, y, z, w := o.XYZW()
	q, err := normalize(x, y, z, w, path)
	if err != nil {
		return Pose{}, err
	}
	return Pose{P: pos, Q: q}, nil
}

func positionOf(v any, path []string) (rigidbind.Vec3, error) {
	items, ok := sequence(v)
	if !ok {
		return rigidbind.Vec3{}, errors.InvalidPoseShape(path, v, fmt.Sprintf("position must be a sequence, got %T", v))
	}
	nums, ok := numbers(items)
	if !ok || len(nums) != 3 {
		return rigidbind.Vec3{}, errors.InvalidPoseShape(path, v, "position must be 3 numbers")
	}
	return position(nums, path)
}

func position(nums []float64, path []string) (rigidbind.Vec3, error) {
	var out [3]float32
	for i, n := range nums {
		out[i] = float32(n)
		if math.IsNaN(n) || math.IsInf(float64(out[i]), 0) {
			return rigidbind.Vec3{}, errors.InvalidPoseShape(path, n, fmt.Sprintf("position component %d is not finite in float32", i))
		}
	}
	return rigidbind.V3(out[0], out[1], out[2]), nil
}

// normalize scales (x, y, z, w) to unit length in float64 before narrowing.
// Components are divided by the largest magnitude first so the squared sum
// neither overflows nor underflows.
func normalize(x, y, z, w float64, path []string) (Quat, error) {
	c := [...]float64{x, y, z, w}
	var largest float64
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Quat{}, errors.InvalidPoseShape(path, v, "orientation component is not finite")
		}
		largest = max(largest, math.Abs(v))
	}
	if largest == 0 {
		return Quat{}, errors.InvalidPoseShape(path, nil, "zero-length orientation")
	}

	var sum float64
	for i := range c {
		c[i] /= largest
		sum += c[i] * c[i]
	}
	n := math.Sqrt(sum)
	return Quat{
		X: float32(c[0] / n),
		Y: float32(c[1] / n),
		Z: float32(c[2] / n),
		W: float32(c[3] / n),
	}, nil
}

// sequence returns the elements of a slice or array value.
func sequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []any:
		return s, true
	case []float64:
		out := make([]any, len(s))
		for i, f := range s {
			out[i] = f
		}
		return out, true
	case []float32:
		out := make([]any, len(s))
		for i, f := range s {
			out[i] = f
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// numbers converts items to float64 if every element is numeric.
func numbers(items []any) ([]float64, bool) {
	out := make([]float64, len(items))
	for i, item := range items {
		f, ok := number(item)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
