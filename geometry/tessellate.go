package geometry

import (
	"strconv"

	"github.com/chewxy/math32"

	"github.com/wippyai/rigidbind"
	"github.com/wippyai/rigidbind/errors"
)

// Tessellate returns the mesh for desc. The descriptor is validated up
// front so ranging over the mesh cannot fail.
func Tessellate(desc Descriptor, detail Detail) (Mesh, error) {
	if err := checkInput(desc, detail); err != nil {
		return Mesh{}, err
	}
	detail = detail.withDefaults()

	m := Mesh{desc: desc, detail: detail}
	switch d := desc.(type) {
	case Box:
		if err := checkExtents(d.HalfExtents); err != nil {
			return Mesh{}, err
		}
		m.n, m.arity = 6, 4
		m.gen = func(yield func(Face) bool) { boxFaces(d.HalfExtents, yield) }
	case Sphere:
		if !finite(d.Radius) || d.Radius < 0 {
			return Mesh{}, errors.InvalidData(errors.PhaseGeometry, []string{"radius"}, "radius must be finite and non-negative")
		}
		m.n, m.arity = detail.Slices*detail.Segments, 4
		m.gen = func(yield func(Face) bool) { sphereFaces(d.Radius, detail, yield) }
	case ConvexMesh:
		n, err := checkConvex(d)
		if err != nil {
			return Mesh{}, err
		}
		m.n, m.arity = n, 3
		m.gen = func(yield func(Face) bool) { convexFaces(d, yield) }
	default:
		return Mesh{}, errors.UnsupportedGeometry(desc.Kind().String())
	}
	return m, nil
}

// Box face order is +X, -X, +Y, -Y, +Z, -Z. Each quad is counter-clockwise
// seen from outside the box, so (v1-v0) × (v2-v0) points along the outward
// normal. With h the half extents:
//
//	+X: ( h, -h, -h) ( h,  h, -h) ( h,  h,  h) ( h, -h,  h)
//	-X: (-h, -h, -h) (-h, -h,  h) (-h,  h,  h) (-h,  h, -h)
//	+Y: (-h,  h, -h) (-h,  h,  h) ( h,  h,  h) ( h,  h, -h)
//	-Y: (-h, -h, -h) ( h, -h, -h) ( h, -h,  h) (-h, -h,  h)
//	+Z: (-h, -h,  h) ( h, -h,  h) ( h,  h,  h) (-h,  h,  h)
//	-Z: (-h, -h, -h) (-h,  h, -h) ( h,  h, -h) ( h, -h, -h)
var boxCorners = [6][4][3]float32{
	{{1, -1, -1}, {1, 1, -1}, {1, 1, 1}, {1, -1, 1}},
	{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}},
	{{-1, 1, -1}, {-1, 1, 1}, {1, 1, 1}, {1, 1, -1}},
	{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}},
	{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}},
	{{-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}, {1, -1, -1}},
}

func boxFaces(h rigidbind.Vec3, yield func(Face) bool) {
	for _, corners := range boxCorners {
		face := make(Face, 4)
		for i, c := range corners {
			face[i] = rigidbind.V3(c[0]*h.X, c[1]*h.Y, c[2]*h.Z)
		}
		if !yield(face) {
			return
		}
	}
}

// sphereFaces emits one quad per (slice, segment) cell with corners
// (θi,ρj) (θi+1,ρj) (θi+1,ρj+1) (θi,ρj+1). θ runs from the +Z pole, ρ
// counter-clockwise from +X, so quads face outward. Quads touching a pole
// collapse two corners onto it.
func sphereFaces(r float32, d Detail, yield func(Face) bool) {
	slices, segments := float32(d.Slices), float32(d.Segments)
	for i := 0; i < d.Slices; i++ {
		t0 := math32.Pi * float32(i) / slices
		t1 := math32.Pi * float32(i+1) / slices
		for j := 0; j < d.Segments; j++ {
			r0 := 2 * math32.Pi * float32(j) / segments
			r1 := 2 * math32.Pi * float32(j+1) / segments
			face := Face{
				spherical(r, t0, r0),
				spherical(r, t1, r0),
				spherical(r, t1, r1),
				spherical(r, t0, r1),
			}
			if !yield(face) {
				return
			}
		}
	}
}

func spherical(r, theta, rho float32) rigidbind.Vec3 {
	st, ct := math32.Sincos(theta)
	sr, cr := math32.Sincos(rho)
	return rigidbind.V3(r*st*cr, r*st*sr, r*ct)
}

// convexFaces fans each polygon out from its first index.
func convexFaces(c ConvexMesh, yield func(Face) bool) {
	scale := c.Scale
	if scale.IsZero() {
		scale = rigidbind.V3(1, 1, 1)
	}
	for _, p := range c.Polygons {
		idx := c.Indices[p.IndexBase : p.IndexBase+p.Count]
		pivot := c.Vertices[idx[0]].Mul(scale)
		for k := 1; k+1 < len(idx); k++ {
			face := Face{
				pivot,
				c.Vertices[idx[k]].Mul(scale),
				c.Vertices[idx[k+1]].Mul(scale),
			}
			if !yield(face) {
				return
			}
		}
	}
}

func checkConvex(c ConvexMesh) (int, error) {
	if !finite(c.Scale.X) || !finite(c.Scale.Y) || !finite(c.Scale.Z) {
		return 0, errors.InvalidData(errors.PhaseGeometry, []string{"scale"}, "scale must be finite")
	}
	n := 0
	for i, p := range c.Polygons {
		path := []string{"polygons", strconv.Itoa(i)}
		if p.Count < 3 {
			return 0, errors.InvalidData(errors.PhaseGeometry, path, "polygon needs at least 3 vertices, has "+strconv.Itoa(int(p.Count)))
		}
		end := uint64(p.IndexBase) + uint64(p.Count)
		if end > uint64(len(c.Indices)) {
			return 0, errors.OutOfBounds(errors.PhaseGeometry, path, int(end-1), len(c.Indices))
		}
		for _, vi := range c.Indices[p.IndexBase:end] {
			if int(vi) >= len(c.Vertices) {
				return 0, errors.OutOfBounds(errors.PhaseGeometry, append(path, "indices"), int(vi), len(c.Vertices))
			}
		}
		n += int(p.Count) - 2
	}
	return n, nil
}

func checkExtents(h rigidbind.Vec3) error {
	for _, c := range [...]float32{h.X, h.Y, h.Z} {
		if !finite(c) || c < 0 {
			return errors.InvalidData(errors.PhaseGeometry, []string{"half_extents"}, "half extents must be finite and non-negative")
		}
	}
	return nil
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

func checkInput(desc Descriptor, detail Detail) error {
	if desc == nil {
		return errors.InvalidInput(errors.PhaseGeometry, "nil descriptor")
	}
	if detail.Slices < 0 || detail.Segments < 0 {
		return errors.InvalidInput(errors.PhaseGeometry, "detail counts must not be negative")
	}
	return nil
}
