package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/rigidbind"
	"github.com/wippyai/rigidbind/errors"
)

func collect(m Mesh) []Face {
	var faces []Face
	for f := range m.Faces() {
		faces = append(faces, f)
	}
	return faces
}

func centroid(f Face) rigidbind.Vec3 {
	var c rigidbind.Vec3
	for _, v := range f {
		c = c.Add(v)
	}
	return c.Scale(1 / float32(len(f)))
}

// newell computes a polygon normal that tolerates collapsed corners.
func newell(f Face) rigidbind.Vec3 {
	var n rigidbind.Vec3
	for i, a := range f {
		b := f[(i+1)%len(f)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

func TestTessellate_UnitBox(t *testing.T) {
	m, err := Tessellate(Box{HalfExtents: rigidbind.V3(1, 1, 1)}, Detail{})
	require.NoError(t, err)
	assert.Equal(t, 6, m.Len())
	assert.Equal(t, 4, m.Arity())

	faces := collect(m)
	require.Len(t, faces, 6)
	for _, f := range faces {
		require.Len(t, f, 4)
		for _, v := range f {
			for _, c := range v.Array() {
				assert.Contains(t, []float32{-1, 1}, c)
			}
		}
	}
}

func TestTessellate_BoxWinding(t *testing.T) {
	h := rigidbind.V3(0.5, 2, 3)
	faces := collect(mustTessellate(t, Box{HalfExtents: h}, Detail{}))

	normals := []rigidbind.Vec3{
		rigidbind.V3(1, 0, 0), rigidbind.V3(-1, 0, 0),
		rigidbind.V3(0, 1, 0), rigidbind.V3(0, -1, 0),
		rigidbind.V3(0, 0, 1), rigidbind.V3(0, 0, -1),
	}
	for i, f := range faces {
		n := f[1].Sub(f[0]).Cross(f[2].Sub(f[0]))
		assert.Greater(t, n.Dot(normals[i]), float32(0), "face %d winds inward", i)

		// every vertex sits on the face's plane
		for _, v := range f {
			assert.Equal(t, centroid(f).Dot(normals[i]), v.Dot(normals[i]))
		}
	}

	// pinned vertex order for the +X face
	assert.Equal(t, Face{
		rigidbind.V3(0.5, -2, -3), rigidbind.V3(0.5, 2, -3),
		rigidbind.V3(0.5, 2, 3), rigidbind.V3(0.5, -2, 3),
	}, faces[0])
}

func TestTessellate_Sphere(t *testing.T) {
	m, err := Tessellate(Sphere{Radius: 2}, Detail{Slices: 4, Segments: 4})
	require.NoError(t, err)

	faces := collect(m)
	require.Len(t, faces, 16)
	assert.Equal(t, 16, m.Len())
	for _, f := range faces {
		require.Len(t, f, 4)
		for _, v := range f {
			d := math.Sqrt(float64(v.X)*float64(v.X) + float64(v.Y)*float64(v.Y) + float64(v.Z)*float64(v.Z))
			assert.InDelta(t, 2.0, d, 1e-5)
		}
		assert.Greater(t, newell(f).Dot(centroid(f)), float32(0), "sphere quad winds inward")
	}

	// first quad touches the +Z pole
	assert.InDelta(t, 2.0, faces[0][0].Z, 1e-6)
	assert.Equal(t, faces[0][0], faces[0][3])
}

func TestTessellate_SphereDefaults(t *testing.T) {
	m := mustTessellate(t, Sphere{Radius: 1}, Detail{})
	assert.Equal(t, DefaultSlices*DefaultSegments, m.Len())
	assert.Equal(t, Detail{Slices: 12, Segments: 12}, m.Detail())
	assert.Len(t, collect(m), 144)

	m = mustTessellate(t, Sphere{Radius: 1}, Detail{Slices: 3})
	assert.Equal(t, 36, m.Len())
}

func pentagon() ConvexMesh {
	verts := make([]rigidbind.Vec3, 5)
	for i := range verts {
		a := 2 * math.Pi * float64(i) / 5
		verts[i] = rigidbind.V3(float32(math.Cos(a)), float32(math.Sin(a)), 0)
	}
	return ConvexMesh{
		Vertices: verts,
		Indices:  []uint32{0, 1, 2, 3, 4},
		Polygons: []Polygon{{IndexBase: 0, Count: 5}},
	}
}

func TestTessellate_ConvexPentagon(t *testing.T) {
	c := pentagon()
	m, err := Tessellate(c, Detail{})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Arity())

	faces := collect(m)
	require.Len(t, faces, 3)
	for k, f := range faces {
		require.Len(t, f, 3)
		assert.Equal(t, c.Vertices[0], f[0], "fan pivots on the first vertex")
		assert.Equal(t, c.Vertices[k+1], f[1])
		assert.Equal(t, c.Vertices[k+2], f[2])
	}
}

func TestTessellate_ConvexScaleAndCount(t *testing.T) {
	// unit cube hull: 6 quads over 8 shared vertices, indices deliberately
	// not starting at zero for the second polygon onward
	verts := []rigidbind.Vec3{
		{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1},
	}
	indices := []uint32{
		0, 3, 2, 1,
		4, 5, 6, 7,
		0, 1, 5, 4,
		2, 3, 7, 6,
		1, 2, 6, 5,
		0, 4, 7, 3,
	}
	polys := make([]Polygon, 6)
	for i := range polys {
		polys[i] = Polygon{IndexBase: uint32(4 * i), Count: 4}
	}
	// add a triangle reusing existing indices
	indices = append(indices, 0, 1, 2)
	polys = append(polys, Polygon{IndexBase: 24, Count: 3})

	c := ConvexMesh{Vertices: verts, Indices: indices, Polygons: polys, Scale: rigidbind.V3(2, 3, 0.5)}
	m := mustTessellate(t, c, Detail{})
	assert.Equal(t, 6*2+1, m.Len())

	faces := collect(m)
	require.Len(t, faces, 13)
	for _, f := range faces {
		for _, v := range f {
			assert.Contains(t, []float32{-2, 2}, v.X)
			assert.Contains(t, []float32{-3, 3}, v.Y)
			assert.Contains(t, []float32{-0.5, 0.5}, v.Z)
		}
	}
}

func TestTessellate_ConvexZeroScaleIsUnit(t *testing.T) {
	c := pentagon()
	c.Scale = rigidbind.Vec3{}
	faces := collect(mustTessellate(t, c, Detail{}))
	assert.Equal(t, c.Vertices[0], faces[0][0])
}

func TestTessellate_ConvexInvalid(t *testing.T) {
	invalidData := &errors.Error{Kind: errors.KindInvalidData}

	c := pentagon()
	c.Polygons = []Polygon{{IndexBase: 0, Count: 2}}
	_, err := Tessellate(c, Detail{})
	assert.ErrorIs(t, err, invalidData)

	c = pentagon()
	c.Polygons = []Polygon{{IndexBase: 3, Count: 5}}
	_, err = Tessellate(c, Detail{})
	assert.ErrorIs(t, err, invalidData)

	c = pentagon()
	c.Indices = []uint32{0, 1, 2, 3, 9}
	_, err = Tessellate(c, Detail{})
	assert.ErrorIs(t, err, invalidData)

	c = pentagon()
	c.Scale = rigidbind.V3(float32(math.Inf(1)), 1, 1)
	_, err = Tessellate(c, Detail{})
	assert.ErrorIs(t, err, invalidData)
}

func TestTessellate_EmptyConvex(t *testing.T) {
	m := mustTessellate(t, ConvexMesh{}, Detail{})
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, collect(m))
	assert.Empty(t, m.Table())
}

func TestTessellate_Unsupported(t *testing.T) {
	for _, d := range []Descriptor{
		Plane{Normal: rigidbind.V3(0, 0, 1)},
		Capsule{Radius: 1, HalfHeight: 2},
	} {
		_, err := Tessellate(d, Detail{})
		assert.ErrorIs(t, err, errors.ErrUnsupportedGeometry, d.Kind().String())
	}
}

func TestTessellate_InvalidInput(t *testing.T) {
	invalidInput := &errors.Error{Kind: errors.KindInvalidInput}

	_, err := Tessellate(nil, Detail{})
	assert.ErrorIs(t, err, invalidInput)

	_, err = Tessellate(Sphere{Radius: 1}, Detail{Slices: -1})
	assert.ErrorIs(t, err, invalidInput)

	_, err = Tessellate(Sphere{Radius: -1}, Detail{})
	assert.Error(t, err)

	_, err = Tessellate(Box{HalfExtents: rigidbind.V3(1, -1, 1)}, Detail{})
	assert.Error(t, err)
}

func TestMesh_Restartable(t *testing.T) {
	for _, d := range []Descriptor{
		Box{HalfExtents: rigidbind.V3(1, 2, 3)},
		Sphere{Radius: 1.5},
		pentagon(),
	} {
		m := mustTessellate(t, d, Detail{Slices: 5, Segments: 7})
		first := collect(m)
		assert.Equal(t, first, collect(m), d.Kind().String())

		again := mustTessellate(t, d, Detail{Slices: 5, Segments: 7})
		assert.Equal(t, first, collect(again))
	}
}

func TestMesh_EarlyStop(t *testing.T) {
	m := mustTessellate(t, Sphere{Radius: 1}, Detail{})
	n := 0
	for range m.Faces() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestMesh_Table(t *testing.T) {
	box := mustTessellate(t, Box{HalfExtents: rigidbind.V3(1, 1, 1)}, Detail{})
	rows := box.Table()
	require.Len(t, rows, 6)
	for _, row := range rows {
		assert.Len(t, row, 12)
	}
	assert.Equal(t, []float32{1, -1, -1, 1, 1, -1, 1, 1, 1, 1, -1, 1}, rows[0])

	tri := mustTessellate(t, pentagon(), Detail{}).Table()
	require.Len(t, tri, 3)
	for _, row := range tri {
		assert.Len(t, row, 9)
	}

	var zero Mesh
	assert.Empty(t, zero.Table())
}

func mustTessellate(t *testing.T, d Descriptor, detail Detail) Mesh {
	t.Helper()
	m, err := Tessellate(d, detail)
	require.NoError(t, err)
	return m
}

func TestKind_Tessellable(t *testing.T) {
	for _, d := range []Descriptor{Box{}, Sphere{}, ConvexMesh{}} {
		assert.True(t, d.Kind().Tessellable(), d.Kind().String())
	}
	for _, d := range []Descriptor{Plane{}, Capsule{}} {
		assert.False(t, d.Kind().Tessellable(), d.Kind().String())
		_, err := Tessellate(d, Detail{})
		assert.ErrorIs(t, err, errors.ErrUnsupportedGeometry)
	}
}
