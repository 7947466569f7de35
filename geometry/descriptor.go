package geometry

import (
	"fmt"

	"github.com/wippyai/rigidbind"
)

// Kind identifies a geometry variant.
type Kind uint8

const (
	KindBox Kind = iota + 1
	KindSphere
	KindConvexMesh
	KindPlane
	KindCapsule
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindSphere:
		return "sphere"
	case KindConvexMesh:
		return "convex-mesh"
	case KindPlane:
		return "plane"
	case KindCapsule:
		return "capsule"
	}
	return fmt.Sprintf("geometry(%d)", k)
}

// Tessellable reports whether Tessellate has an algorithm for k.
func (k Kind) Tessellable() bool {
	return k == KindBox || k == KindSphere || k == KindConvexMesh
}

// Descriptor is an engine geometry. The engine owns the data behind it;
// this package only reads it.
type Descriptor interface {
	Kind() Kind
	isDescriptor()
}

// Box is an axis-aligned box centered on the shape origin.
type Box struct {
	HalfExtents rigidbind.Vec3
}

// Sphere is a sphere centered on the shape origin.
type Sphere struct {
	Radius float32
}

// Polygon is one face of a convex hull: Count indices starting at IndexBase
// in the hull's index buffer.
type Polygon struct {
	IndexBase uint32
	Count     uint32
}

// ConvexMesh is a convex hull scaled per axis. A zero Scale is treated as
// unit scale.
type ConvexMesh struct {
	Vertices []rigidbind.Vec3
	Indices  []uint32
	Polygons []Polygon
	Scale    rigidbind.Vec3
}

// Plane is the half space below the plane n·x = Distance. It has no finite
// tessellation.
type Plane struct {
	Normal   rigidbind.Vec3
	Distance float32
}

// Capsule is a capsule along the x axis.
type Capsule struct {
	Radius     float32
	HalfHeight float32
}

func (Box) Kind() Kind        { return KindBox }
func (Sphere) Kind() Kind     { return KindSphere }
func (ConvexMesh) Kind() Kind { return KindConvexMesh }
func (Plane) Kind() Kind      { return KindPlane }
func (Capsule) Kind() Kind    { return KindCapsule }

func (Box) isDescriptor()        {}
func (Sphere) isDescriptor()     {}
func (ConvexMesh) isDescriptor() {}
func (Plane) isDescriptor()      {}
func (Capsule) isDescriptor()    {}

// Detail controls tessellation density for curved shapes. Zero fields take
// the defaults.
type Detail struct {
	Slices   int // latitude bands
	Segments int // longitude bands
}

const (
	DefaultSlices   = 12
	DefaultSegments = 12
)

func (d Detail) withDefaults() Detail {
	if d.Slices == 0 {
		d.Slices = DefaultSlices
	}
	if d.Segments == 0 {
		d.Segments = DefaultSegments
	}
	return d
}
