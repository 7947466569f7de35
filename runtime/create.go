package runtime

import (
	"github.com/wippyai/rigidbind/engine"
	"github.com/wippyai/rigidbind/errors"
	"github.com/wippyai/rigidbind/geometry"
	"github.com/wippyai/rigidbind/pose"
	"github.com/wippyai/rigidbind/resource"
)

// CreateMaterial creates a material. Materials live as long as the engine.
func (r *Runtime) CreateMaterial(staticFriction, dynamicFriction, restitution float32) (resource.Handle, error) {
	return r.Create(resource.KindMaterial, engine.MaterialSpec{
		StaticFriction:  staticFriction,
		DynamicFriction: dynamicFriction,
		Restitution:     restitution,
	})
}

// CreateShape creates a shape with geometry g. material may be the null
// handle for the engine default; localPose may be nil for identity.
func (r *Runtime) CreateShape(g geometry.Descriptor, material resource.Handle, localPose any) (resource.Handle, error) {
	p, err := decodeOptional(localPose)
	if err != nil {
		return resource.Handle{}, err
	}
	spec := engine.ShapeSpec{Geometry: g, LocalPose: p}
	if !material.IsNull() {
		spec.Material, err = r.unwrap(material, errors.PhaseEngine, "shape material", isKind(resource.KindMaterial))
		if err != nil {
			return resource.Handle{}, err
		}
	}
	return r.Create(resource.KindShape, spec)
}

// CreateRigidStatic creates an immovable actor at globalPose.
func (r *Runtime) CreateRigidStatic(globalPose any) (resource.Handle, error) {
	p, err := decodeOptional(globalPose)
	if err != nil {
		return resource.Handle{}, err
	}
	return r.Create(resource.KindRigidStatic, engine.StaticSpec{Pose: p})
}

// CreateRigidDynamic creates a simulated actor at globalPose.
func (r *Runtime) CreateRigidDynamic(globalPose any, mass float32) (resource.Handle, error) {
	p, err := decodeOptional(globalPose)
	if err != nil {
		return resource.Handle{}, err
	}
	return r.Create(resource.KindRigidDynamic, engine.DynamicSpec{Pose: p, Mass: mass})
}

// CreateJoint connects two actors. A null actor handle stands for the world
// frame. local0 and local1 are the joint frames relative to each actor.
func (r *Runtime) CreateJoint(actor0, actor1 resource.Handle, local0, local1 any) (resource.Handle, error) {
	var spec engine.JointSpec
	var err error
	if spec.Actor0, err = r.optionalActor(actor0); err != nil {
		return resource.Handle{}, err
	}
	if spec.Actor1, err = r.optionalActor(actor1); err != nil {
		return resource.Handle{}, err
	}
	if spec.Local0, err = decodeOptional(local0); err != nil {
		return resource.Handle{}, err
	}
	if spec.Local1, err = decodeOptional(local1); err != nil {
		return resource.Handle{}, err
	}
	return r.Create(resource.KindJoint, spec)
}

// CreateAggregate creates an actor aggregate.
func (r *Runtime) CreateAggregate(maxActors uint32, selfCollision bool) (resource.Handle, error) {
	return r.Create(resource.KindAggregate, engine.AggregateSpec{
		MaxActors:     maxActors,
		SelfCollision: selfCollision,
	})
}

func (r *Runtime) optionalActor(h resource.Handle) (uintptr, error) {
	if h.IsNull() {
		return 0, nil
	}
	return r.unwrap(h, errors.PhaseEngine, "joint actor", isActor)
}

func decodeOptional(input any) (pose.Pose, error) {
	if input == nil {
		return pose.Identity(), nil
	}
	return pose.Decode(input)
}
