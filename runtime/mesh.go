package runtime

import (
	"context"

	"github.com/wippyai/rigidbind/binding"
	"github.com/wippyai/rigidbind/errors"
	"github.com/wippyai/rigidbind/geometry"
	"github.com/wippyai/rigidbind/pose"
	"github.com/wippyai/rigidbind/resource"
)

// Visual is a shape ready to draw: its mesh in shape space and the pose that
// places it in world space. UserData is the object bound to the shape, or nil.
type Visual struct {
	Shape    resource.Handle
	Pose     pose.Pose
	Mesh     geometry.Mesh
	UserData binding.Object
}

// Tessellate returns the mesh of a shape's geometry.
func (r *Runtime) Tessellate(h resource.Handle, detail geometry.Detail) (geometry.Mesh, error) {
	g, err := r.shapeGeometry(h)
	if err != nil {
		return geometry.Mesh{}, err
	}
	return geometry.Tessellate(g, detail)
}

// Table returns the face table of a shape, served from the mesh cache.
// The returned rows are shared and must not be modified.
func (r *Runtime) Table(h resource.Handle, detail geometry.Detail) ([][]float32, error) {
	g, err := r.shapeGeometry(h)
	if err != nil {
		return nil, err
	}
	return r.cache.Table(g, detail)
}

// Warm fills the mesh cache at detail for every live shape whose geometry
// can be tessellated.
func (r *Runtime) Warm(ctx context.Context, detail geometry.Detail) error {
	var addrs []uintptr
	r.arena.Each(func(h resource.Handle, addr uintptr) bool {
		if h.Kind == resource.KindShape {
			addrs = append(addrs, addr)
		}
		return true
	})

	reqs := make([]geometry.Request, 0, len(addrs))
	for _, addr := range addrs {
		g, err := r.engine.Geometry(addr)
		if err != nil {
			return err
		}
		if !g.Kind().Tessellable() {
			continue
		}
		reqs = append(reqs, geometry.Request{Descriptor: g, Detail: detail})
	}
	return r.cache.Warm(ctx, reqs...)
}

// CacheStats reports mesh cache hits and misses.
func (r *Runtime) CacheStats() geometry.CacheStats {
	return r.cache.Stats()
}

// AttachShape adds a shape to an actor.
func (r *Runtime) AttachShape(actor, shape resource.Handle) error {
	a, s, err := r.actorShape(actor, shape)
	if err != nil {
		return err
	}
	return r.engine.AttachShape(a, s)
}

// DetachShape removes a shape from an actor.
func (r *Runtime) DetachShape(actor, shape resource.Handle) error {
	a, s, err := r.actorShape(actor, shape)
	if err != nil {
		return err
	}
	return r.engine.DetachShape(a, s)
}

// Shapes returns handles to the shapes attached to an actor. A shape the
// engine reports but this runtime never wrapped fails with ErrInvalidHandle.
func (r *Runtime) Shapes(actor resource.Handle) ([]resource.Handle, error) {
	addr, err := r.unwrap(actor, errors.PhaseEngine, "shapes", isActor)
	if err != nil {
		return nil, err
	}
	addrs, err := r.engine.Shapes(addr)
	if err != nil {
		return nil, err
	}
	out := make([]resource.Handle, 0, len(addrs))
	for _, a := range addrs {
		h, ok := r.handleOf(a)
		if !ok {
			return nil, errors.InvalidHandle(a, "engine shape has no handle")
		}
		out = append(out, h)
	}
	return out, nil
}

// Visuals tessellates every shape of an actor and pairs each mesh with the
// shape's world pose (actor global pose times shape local pose).
func (r *Runtime) Visuals(actor resource.Handle, detail geometry.Detail) ([]Visual, error) {
	addr, err := r.unwrap(actor, errors.PhaseGeometry, "visuals", isActor)
	if err != nil {
		return nil, err
	}
	world, err := r.engine.Pose(addr)
	if err != nil {
		return nil, err
	}
	shapes, err := r.Shapes(actor)
	if err != nil {
		return nil, err
	}

	out := make([]Visual, 0, len(shapes))
	for _, s := range shapes {
		saddr, err := r.arena.Unwrap(s)
		if err != nil {
			return nil, err
		}
		local, err := r.engine.Pose(saddr)
		if err != nil {
			return nil, err
		}
		mesh, err := r.Tessellate(s, detail)
		if err != nil {
			return nil, err
		}
		data, _ := r.bindings.Get(s)
		out = append(out, Visual{Shape: s, Pose: world.Mul(local), Mesh: mesh, UserData: data})
	}
	return out, nil
}

func (r *Runtime) shapeGeometry(h resource.Handle) (geometry.Descriptor, error) {
	addr, err := r.unwrap(h, errors.PhaseGeometry, "tessellate", isKind(resource.KindShape))
	if err != nil {
		return nil, err
	}
	return r.engine.Geometry(addr)
}

func (r *Runtime) actorShape(actor, shape resource.Handle) (uintptr, uintptr, error) {
	a, err := r.unwrap(actor, errors.PhaseEngine, "attach shape", isActor)
	if err != nil {
		return 0, 0, err
	}
	s, err := r.unwrap(shape, errors.PhaseEngine, "attach shape", isKind(resource.KindShape))
	if err != nil {
		return 0, 0, err
	}
	return a, s, nil
}
