// Package rigidbind is the boundary layer between a host caller and an
// external rigid-body physics engine.
//
// The engine itself (integration, collision, constraint solving) is out of
// reach: this module only hands it addresses and poses and reads back
// geometry. What lives here are the pieces every call across the boundary
// depends on.
//
// # Architecture Overview
//
//	rigidbind/         Root package with the shared Vec3 type
//	├── resource/      Generation-checked handles to engine-owned resources
//	├── pose/          Host pose encodings to and from rigid transforms
//	├── geometry/      Box, sphere and convex mesh tessellation, mesh cache
//	├── binding/       Host user data kept alive while bound to a handle
//	├── engine/        Engine contract and an in-memory bookkeeping engine
//	├── runtime/       Resource lifecycle API used by actor/shape/joint wrappers
//	├── config/        YAML scene files
//	├── errors/        Structured error types
//	└── cmd/meshdump/  CLI that tessellates a scene file
//
// # Quick Start
//
//	rt := runtime.NewWithDefaults(engine.NewLocal())
//	defer rt.Close()
//
//	shape, err := rt.Create(resource.KindShape, engine.ShapeSpec{
//	    Geometry: geometry.Box{HalfExtents: rigidbind.Vec3{X: 1, Y: 1, Z: 1}},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mesh, err := rt.Tessellate(shape, geometry.Detail{})
//	for face := range mesh.Faces() {
//	    draw(face)
//	}
//
//	if err := rt.Release(shape); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Pose decoding and tessellation are pure and safe to call concurrently.
// The handle arena and the user data registry synchronize their own state,
// but releasing the same resource from two goroutines is a caller bug, and a
// second release of any handle panics.
package rigidbind
