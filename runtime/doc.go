// Package runtime provides the resource lifecycle API consumed by actor,
// shape and joint wrappers.
//
// # Quick Start
//
//	rt := runtime.NewWithDefaults(engine.NewLocal())
//	defer rt.Close()
//
//	body, err := rt.CreateRigidDynamic([]any{1.0, 2.0, 3.0}, 1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	shape, err := rt.CreateShape(geometry.Sphere{Radius: 0.5}, resource.Handle{}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := rt.AttachShape(body, shape); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Host objects stay alive while bound
//	rt.AttachUserData(body, binding.NewCounted(myActor))
//
//	// World-space meshes for drawing
//	visuals, err := rt.Visuals(body, geometry.Detail{})
//
//	rt.Release(shape)
//	rt.Release(body)
//
// # Poses
//
// Every pose-valued argument is decoded with pose.Decode, so any of its wire
// forms is accepted. A nil pose argument to a constructor means identity.
// Getters return the canonical pose.Wire pair.
//
// # Release
//
// Release forwards to the engine exactly once per handle. Releasing the same
// handle again panics with an *errors.Error of kind double_release, and the
// engine is not called. Any user data bound to a handle is dropped as soon as
// the handle is released.
package runtime
