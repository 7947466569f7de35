package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/rigidbind"
	"github.com/wippyai/rigidbind/engine"
	"github.com/wippyai/rigidbind/errors"
	"github.com/wippyai/rigidbind/geometry"
	"github.com/wippyai/rigidbind/pose"
	"github.com/wippyai/rigidbind/resource"
	"github.com/wippyai/rigidbind/runtime"
)

const sceneYAML = `
detail:
  slices: 6
  segments: 4
shapes:
  - name: crate
    kind: box
    half_extents: [0.5, 1, 1.5]
  - name: ball
    kind: sphere
    radius: 0.25
    pose: [[0, 1, 0], {x: 0, y: 0, z: 0, w: 1}]
  - name: wedge
    kind: convex
    vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0], [0, 0, 1]]
    polygons: [[0, 2, 1], [0, 1, 3], [0, 3, 2], [1, 2, 3]]
    scale: [2, 1, 1]
    pose: [1, 2, 3]
  - name: floor
    kind: plane
    normal: [0, 1, 0]
actors:
  - name: cart
    kind: dynamic
    mass: 10
    pose: [0, 0, 5, 1, 0, 0, 0]
    shapes: [crate, ball]
  - name: ground
    kind: static
    shapes: [floor]
`

func mustLoad(t *testing.T, src string) *Scene {
	t.Helper()
	s, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	return s
}

func TestLoad(t *testing.T) {
	s := mustLoad(t, sceneYAML)

	assert.Equal(t, geometry.Detail{Slices: 6, Segments: 4}, s.GeometryDetail())
	require.Len(t, s.Shapes, 4)
	require.Len(t, s.Actors, 2)

	desc, err := s.Shapes[0].Descriptor()
	require.NoError(t, err)
	assert.Equal(t, geometry.Box{HalfExtents: rigidbind.V3(0.5, 1, 1.5)}, desc)

	desc, err = s.Shapes[2].Descriptor()
	require.NoError(t, err)
	c, ok := desc.(geometry.ConvexMesh)
	require.True(t, ok)
	assert.Len(t, c.Vertices, 4)
	assert.Equal(t, []geometry.Polygon{
		{IndexBase: 0, Count: 3},
		{IndexBase: 3, Count: 3},
		{IndexBase: 6, Count: 3},
		{IndexBase: 9, Count: 3},
	}, c.Polygons)
	assert.Equal(t, rigidbind.V3(2, 1, 1), c.Scale)

	p, err := s.Shapes[1].LocalPose()
	require.NoError(t, err)
	assert.Equal(t, rigidbind.V3(0, 1, 0), p.P)

	p, err = s.Shapes[0].LocalPose()
	require.NoError(t, err)
	assert.Equal(t, pose.Identity(), p)
}

func TestLoad_Empty(t *testing.T) {
	s, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, s.Shapes)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		path string
	}{
		{"unknown field", "shapes:\n  - name: a\n    kind: box\n    colour: red\n", ""},
		{"missing name", "shapes:\n  - kind: sphere\n    radius: 1\n", "shapes.0.name"},
		{"duplicate name", "shapes:\n  - {name: a, kind: sphere, radius: 1}\n  - {name: a, kind: sphere, radius: 2}\n", "shapes.1.name"},
		{"unknown kind", "shapes:\n  - {name: a, kind: torus}\n", "shapes.0.kind"},
		{"short extents", "shapes:\n  - {name: a, kind: box, half_extents: [1, 1]}\n", "shapes.0.half_extents"},
		{"negative radius", "shapes:\n  - {name: a, kind: sphere, radius: -1}\n", "shapes.0"},
		{"bad polygon", "shapes:\n  - {name: a, kind: convex, vertices: [[0,0,0],[1,0,0],[0,1,0]], polygons: [[0, 1]]}\n", "shapes.0"},
		{"bad pose", "shapes:\n  - {name: a, kind: sphere, radius: 1, pose: [1, 2]}\n", "shapes.0.pose"},
		{"negative detail", "detail: {slices: -1}\nshapes: []\n", "detail"},
		{"unknown actor kind", "shapes: []\nactors:\n  - {name: x, kind: kinematic}\n", "actors.0.kind"},
		{"unknown actor shape", "shapes: []\nactors:\n  - {name: x, kind: static, shapes: [nope]}\n", "actors.0.shapes.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.src))
			require.Error(t, err)
			var e *errors.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, errors.PhaseConfig, e.Phase)
			assert.Equal(t, tt.path, strings.Join(e.Path, "."))
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sceneYAML), 0o600))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, s.Shapes, 4)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWrite_RoundTripsPoses(t *testing.T) {
	s := mustLoad(t, sceneYAML)

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))
	again := mustLoad(t, buf.String())

	for i := range s.Shapes {
		want, err := s.Shapes[i].LocalPose()
		require.NoError(t, err)
		got, err := again.Shapes[i].LocalPose()
		require.NoError(t, err)
		assert.True(t, want.ApproxEqual(got, 1e-6), "shape %s", s.Shapes[i].Name)
	}
	for i := range s.Actors {
		want, err := s.Actors[i].GlobalPose()
		require.NoError(t, err)
		got, err := again.Actors[i].GlobalPose()
		require.NoError(t, err)
		assert.True(t, want.ApproxEqual(got, 1e-6), "actor %s", s.Actors[i].Name)
	}
}

func TestApply(t *testing.T) {
	eng := engine.NewLocal()
	rt := runtime.NewWithDefaults(eng)
	defer rt.Close()

	s := mustLoad(t, sceneYAML)
	b, err := s.Apply(rt)
	require.NoError(t, err)

	assert.Equal(t, []string{"crate", "ball", "wedge", "floor"}, b.ShapeNames)
	assert.Equal(t, []string{"cart", "ground"}, b.ActorNames)
	assert.Equal(t, 6, rt.Len())

	shapes, err := rt.Shapes(b.Actors["cart"])
	require.NoError(t, err)
	assert.Equal(t, []resource.Handle{b.Shapes["crate"], b.Shapes["ball"]}, shapes)

	w, err := rt.GlobalPose(b.Actors["cart"])
	require.NoError(t, err)
	assert.Equal(t, [3]float32{0, 0, 5}, w.Position)

	m, err := rt.Tessellate(b.Shapes["wedge"], s.GeometryDetail())
	require.NoError(t, err)
	assert.Equal(t, 4, m.Len())
}

func TestApply_ReleasesOnFailure(t *testing.T) {
	eng := engine.NewLocal()
	rt := runtime.NewWithDefaults(eng)
	require.NoError(t, rt.Close())

	s := mustLoad(t, sceneYAML)
	_, err := s.Apply(rt)
	assert.ErrorIs(t, err, errors.ErrClosed)
	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errors.PhaseConfig, e.Phase)
	assert.Equal(t, errors.KindClosed, e.Kind)
	assert.Contains(t, e.Detail, `shape "crate"`)
	assert.Zero(t, eng.Live(), "engine resources created before the failure are freed")
}
