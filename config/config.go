package config

import (
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/rigidbind"
	"github.com/wippyai/rigidbind/errors"
	"github.com/wippyai/rigidbind/geometry"
	"github.com/wippyai/rigidbind/pose"
)

// Scene is a parsed scene file.
type Scene struct {
	Detail Detail  `yaml:"detail,omitempty"`
	Shapes []Shape `yaml:"shapes"`
	Actors []Actor `yaml:"actors,omitempty"`
}

// Detail is the default tessellation detail for curved shapes.
type Detail struct {
	Slices   int `yaml:"slices,omitempty"`
	Segments int `yaml:"segments,omitempty"`
}

// Shape describes one collision shape. Which fields apply depends on Kind.
type Shape struct {
	Name        string      `yaml:"name"`
	Kind        string      `yaml:"kind"`
	HalfExtents []float32   `yaml:"half_extents,omitempty"`
	Radius      float32     `yaml:"radius,omitempty"`
	HalfHeight  float32     `yaml:"half_height,omitempty"`
	Normal      []float32   `yaml:"normal,omitempty"`
	Distance    float32     `yaml:"distance,omitempty"`
	Vertices    [][]float32 `yaml:"vertices,omitempty"`
	Polygons    [][]uint32  `yaml:"polygons,omitempty"`
	Scale       []float32   `yaml:"scale,omitempty"`
	Pose        any         `yaml:"pose,omitempty"`
}

// Actor places shapes on a rigid body.
type Actor struct {
	Name   string   `yaml:"name"`
	Kind   string   `yaml:"kind"`
	Mass   float32  `yaml:"mass,omitempty"`
	Pose   any      `yaml:"pose,omitempty"`
	Shapes []string `yaml:"shapes,omitempty"`
}

// Shape kinds accepted in scene files.
const (
	KindBox     = "box"
	KindSphere  = "sphere"
	KindConvex  = "convex"
	KindPlane   = "plane"
	KindCapsule = "capsule"
)

// Actor kinds accepted in scene files.
const (
	ActorStatic  = "static"
	ActorDynamic = "dynamic"
)

// Load parses and validates a scene. Unknown fields are rejected.
func Load(r io.Reader) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return &s, nil
		}
		return nil, errors.Config(nil, err, "parse scene")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads the scene at path.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Config(nil, err, "open "+path)
	}
	defer f.Close()
	return Load(f)
}

// Write encodes s as YAML.
func (s *Scene) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return errors.Config(nil, err, "encode scene")
	}
	return enc.Close()
}

// Validate reports the first invalid entry, with its path in the error.
func (s *Scene) Validate() error {
	if s.Detail.Slices < 0 || s.Detail.Segments < 0 {
		return errors.Config([]string{"detail"}, nil, "detail must not be negative")
	}

	names := make(map[string]int, len(s.Shapes))
	for i, sh := range s.Shapes {
		path := []string{"shapes", strconv.Itoa(i)}
		if sh.Name == "" {
			return errors.Config(append(path, "name"), nil, "shape needs a name")
		}
		if prev, dup := names[sh.Name]; dup {
			return errors.Config(append(path, "name"), nil,
				"duplicate shape "+strconv.Quote(sh.Name)+", first at shapes."+strconv.Itoa(prev))
		}
		names[sh.Name] = i

		desc, err := sh.Descriptor()
		if err != nil {
			return withPath(err, path)
		}
		if desc.Kind().Tessellable() {
			if _, err := geometry.Tessellate(desc, s.GeometryDetail()); err != nil {
				return errors.Config(path, err, "invalid "+sh.Kind)
			}
		}
		if _, err := sh.LocalPose(); err != nil {
			return errors.Config(append(path, "pose"), err, "invalid pose")
		}
	}

	actors := make(map[string]bool, len(s.Actors))
	for i, a := range s.Actors {
		path := []string{"actors", strconv.Itoa(i)}
		if a.Name == "" {
			return errors.Config(append(path, "name"), nil, "actor needs a name")
		}
		if actors[a.Name] {
			return errors.Config(append(path, "name"), nil, "duplicate actor "+strconv.Quote(a.Name))
		}
		actors[a.Name] = true

		switch a.Kind {
		case ActorStatic:
		case ActorDynamic:
			if a.Mass < 0 {
				return errors.Config(append(path, "mass"), nil, "mass must not be negative")
			}
		default:
			return errors.Config(append(path, "kind"), nil, "unknown actor kind "+strconv.Quote(a.Kind))
		}
		if _, err := a.GlobalPose(); err != nil {
			return errors.Config(append(path, "pose"), err, "invalid pose")
		}
		for j, name := range a.Shapes {
			if _, ok := names[name]; !ok {
				return errors.Config(append(path, "shapes", strconv.Itoa(j)), nil, "unknown shape "+strconv.Quote(name))
			}
		}
	}
	return nil
}

// GeometryDetail returns the scene's default detail.
func (s *Scene) GeometryDetail() geometry.Detail {
	return geometry.Detail{Slices: s.Detail.Slices, Segments: s.Detail.Segments}
}

// Descriptor builds the geometry described by sh.
func (sh Shape) Descriptor() (geometry.Descriptor, error) {
	switch sh.Kind {
	case KindBox:
		h, err := vec3(sh.HalfExtents, "half_extents", false)
		if err != nil {
			return nil, err
		}
		return geometry.Box{HalfExtents: h}, nil
	case KindSphere:
		return geometry.Sphere{Radius: sh.Radius}, nil
	case KindCapsule:
		return geometry.Capsule{Radius: sh.Radius, HalfHeight: sh.HalfHeight}, nil
	case KindPlane:
		n, err := vec3(sh.Normal, "normal", false)
		if err != nil {
			return nil, err
		}
		return geometry.Plane{Normal: n, Distance: sh.Distance}, nil
	case KindConvex:
		return sh.convex()
	}
	return nil, errors.Config([]string{"kind"}, nil, "unknown shape kind "+strconv.Quote(sh.Kind))
}

// LocalPose decodes the shape pose, identity when absent.
func (sh Shape) LocalPose() (pose.Pose, error) {
	return decodePose(sh.Pose)
}

// GlobalPose decodes the actor pose, identity when absent.
func (a Actor) GlobalPose() (pose.Pose, error) {
	return decodePose(a.Pose)
}

func (sh Shape) convex() (geometry.ConvexMesh, error) {
	var c geometry.ConvexMesh
	for i, v := range sh.Vertices {
		p, err := vec3(v, "vertices", false)
		if err != nil {
			return c, withPath(err, []string{"vertices", strconv.Itoa(i)})
		}
		c.Vertices = append(c.Vertices, p)
	}
	for _, poly := range sh.Polygons {
		c.Polygons = append(c.Polygons, geometry.Polygon{
			IndexBase: uint32(len(c.Indices)),
			Count:     uint32(len(poly)),
		})
		c.Indices = append(c.Indices, poly...)
	}
	scale, err := vec3(sh.Scale, "scale", true)
	if err != nil {
		return c, err
	}
	c.Scale = scale
	return c, nil
}

func decodePose(v any) (pose.Pose, error) {
	if v == nil {
		return pose.Identity(), nil
	}
	return pose.Decode(v)
}

// vec3 converts a 3-element list. An empty list is allowed when optional.
func vec3(v []float32, field string, optional bool) (rigidbind.Vec3, error) {
	if len(v) == 0 && optional {
		return rigidbind.Vec3{}, nil
	}
	if len(v) != 3 {
		return rigidbind.Vec3{}, errors.Config([]string{field}, nil,
			"expected 3 numbers, got "+strconv.Itoa(len(v)))
	}
	return rigidbind.V3(v[0], v[1], v[2]), nil
}

// withPath prefixes the path of a config error.
func withPath(err error, prefix []string) error {
	var cerr *errors.Error
	if errors.As(err, &cerr) && cerr.Phase == errors.PhaseConfig {
		out := *cerr
		out.Path = append(append([]string(nil), prefix...), cerr.Path...)
		return &out
	}
	return errors.Config(prefix, err, "invalid shape")
}
