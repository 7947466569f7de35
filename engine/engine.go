package engine

import (
	"github.com/wippyai/rigidbind/geometry"
	"github.com/wippyai/rigidbind/pose"
	"github.com/wippyai/rigidbind/resource"
)

// Engine is the native side of the binding. Addresses are opaque to callers.
type Engine interface {
	// Create constructs a resource of the given kind and returns its address.
	Create(kind resource.Kind, spec Spec) (uintptr, error)

	// Release frees a resource. Releasing an address that is not live is
	// undefined on a native engine; Local panics.
	Release(kind resource.Kind, addr uintptr)

	// Geometry returns the geometry a shape was created with.
	Geometry(addr uintptr) (geometry.Descriptor, error)

	// Pose returns the resource's pose (see package docs for its meaning per kind).
	Pose(addr uintptr) (pose.Pose, error)

	// SetPose replaces the resource's pose.
	SetPose(addr uintptr, p pose.Pose) error

	// AttachShape adds a shape to an actor.
	AttachShape(actor, shape uintptr) error

	// DetachShape removes a shape from an actor.
	DetachShape(actor, shape uintptr) error

	// Shapes returns the addresses of the shapes attached to an actor, in
	// attachment order.
	Shapes(actor uintptr) ([]uintptr, error)
}

// Spec describes a resource to create.
type Spec interface {
	Kind() resource.Kind
}

// MaterialSpec describes surface properties shared between shapes.
type MaterialSpec struct {
	StaticFriction  float32
	DynamicFriction float32
	Restitution     float32
}

// ShapeSpec describes a collision shape. Material is an address returned by
// Create for a MaterialSpec, or zero for the engine default.
type ShapeSpec struct {
	Geometry  geometry.Descriptor
	Material  uintptr
	LocalPose pose.Pose
	Exclusive bool
}

// StaticSpec describes an immovable actor.
type StaticSpec struct {
	Pose pose.Pose
}

// DynamicSpec describes a simulated actor.
type DynamicSpec struct {
	Pose pose.Pose
	Mass float32
}

// JointSpec connects two actors. Either actor may be zero for the world frame.
type JointSpec struct {
	Actor0, Actor1 uintptr
	Local0, Local1 pose.Pose
}

// AggregateSpec groups actors for broad-phase purposes.
type AggregateSpec struct {
	MaxActors     uint32
	SelfCollision bool
}

// SceneSpec describes a scene.
type SceneSpec struct {
	Gravity [3]float32
}

func (MaterialSpec) Kind() resource.Kind  { return resource.KindMaterial }
func (ShapeSpec) Kind() resource.Kind     { return resource.KindShape }
func (StaticSpec) Kind() resource.Kind    { return resource.KindRigidStatic }
func (DynamicSpec) Kind() resource.Kind   { return resource.KindRigidDynamic }
func (JointSpec) Kind() resource.Kind     { return resource.KindJoint }
func (AggregateSpec) Kind() resource.Kind { return resource.KindAggregate }
func (SceneSpec) Kind() resource.Kind     { return resource.KindScene }
