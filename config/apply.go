package config

import (
	"slices"
	"strconv"

	"github.com/wippyai/rigidbind/errors"
	"github.com/wippyai/rigidbind/resource"
	"github.com/wippyai/rigidbind/runtime"
)

// Built holds the handles created for a scene, by name.
type Built struct {
	Shapes map[string]resource.Handle
	Actors map[string]resource.Handle
	// ShapeNames and ActorNames keep file order.
	ShapeNames []string
	ActorNames []string
}

// Apply creates every shape and actor of s in rt and attaches shapes to
// their actors. On failure, everything created so far is released again.
func (s *Scene) Apply(rt *runtime.Runtime) (*Built, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	b := &Built{
		Shapes: make(map[string]resource.Handle, len(s.Shapes)),
		Actors: make(map[string]resource.Handle, len(s.Actors)),
	}
	var created []resource.Handle
	fail := func(err error) (*Built, error) {
		for _, h := range slices.Backward(created) {
			_ = rt.Release(h)
		}
		return nil, err
	}

	for _, sh := range s.Shapes {
		desc, err := sh.Descriptor()
		if err != nil {
			return fail(err)
		}
		local, err := sh.LocalPose()
		if err != nil {
			return fail(err)
		}
		h, err := rt.CreateShape(desc, resource.Handle{}, local)
		if err != nil {
			return fail(applyError(err, "shape", sh.Name))
		}
		created = append(created, h)
		b.Shapes[sh.Name] = h
		b.ShapeNames = append(b.ShapeNames, sh.Name)
	}

	for _, a := range s.Actors {
		global, err := a.GlobalPose()
		if err != nil {
			return fail(err)
		}
		var h resource.Handle
		if a.Kind == ActorStatic {
			h, err = rt.CreateRigidStatic(global)
		} else {
			h, err = rt.CreateRigidDynamic(global, a.Mass)
		}
		if err != nil {
			return fail(applyError(err, "actor", a.Name))
		}
		created = append(created, h)
		b.Actors[a.Name] = h
		b.ActorNames = append(b.ActorNames, a.Name)

		for _, name := range a.Shapes {
			if err := rt.AttachShape(h, b.Shapes[name]); err != nil {
				return fail(applyError(err, "actor "+strconv.Quote(a.Name)+" shape", name))
			}
		}
	}
	return b, nil
}

// applyError names the scene entry that failed, keeping the cause's kind.
func applyError(err error, what, name string) error {
	kind := errors.KindOf(err)
	if kind == "" {
		kind = errors.KindInvalidData
	}
	return errors.Wrap(errors.PhaseConfig, kind, err, "create "+what+" "+strconv.Quote(name))
}
