package runtime

import (
	"github.com/wippyai/rigidbind/errors"
	"github.com/wippyai/rigidbind/pose"
	"github.com/wippyai/rigidbind/resource"
)

// GlobalPose returns an actor's pose in world space.
func (r *Runtime) GlobalPose(h resource.Handle) (pose.Wire, error) {
	return r.getPose(h, "global pose", isActor)
}

// SetGlobalPose moves an actor. input is any pose wire form.
func (r *Runtime) SetGlobalPose(h resource.Handle, input any) error {
	return r.setPose(h, input, "global pose", isActor)
}

// LocalPose returns a shape's pose relative to its actor.
func (r *Runtime) LocalPose(h resource.Handle) (pose.Wire, error) {
	return r.getPose(h, "local pose", isKind(resource.KindShape))
}

// SetLocalPose moves a shape relative to its actor.
func (r *Runtime) SetLocalPose(h resource.Handle, input any) error {
	return r.setPose(h, input, "local pose", isKind(resource.KindShape))
}

// DrivePose returns a joint's drive target.
func (r *Runtime) DrivePose(h resource.Handle) (pose.Wire, error) {
	return r.getPose(h, "drive pose", isKind(resource.KindJoint))
}

// SetDrivePose replaces a joint's drive target.
func (r *Runtime) SetDrivePose(h resource.Handle, input any) error {
	return r.setPose(h, input, "drive pose", isKind(resource.KindJoint))
}

func (r *Runtime) getPose(h resource.Handle, op string, want func(resource.Kind) bool) (pose.Wire, error) {
	addr, err := r.unwrap(h, errors.PhasePose, op, want)
	if err != nil {
		return pose.Wire{}, err
	}
	p, err := r.engine.Pose(addr)
	if err != nil {
		return pose.Wire{}, err
	}
	return pose.Encode(p), nil
}

func (r *Runtime) setPose(h resource.Handle, input any, op string, want func(resource.Kind) bool) error {
	addr, err := r.unwrap(h, errors.PhasePose, op, want)
	if err != nil {
		return err
	}
	p, err := pose.Decode(input)
	if err != nil {
		return err
	}
	return r.engine.SetPose(addr, p)
}
