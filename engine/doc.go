// Package engine defines the contract between the binding layer and the
// native rigid-body engine, plus an in-memory implementation of it.
//
// The engine owns every resource. It hands out raw addresses on creation and
// expects each releasable address back exactly once. Nothing above this
// package dereferences an address; the resource arena wraps them in
// generation-checked handles.
//
// # Poses
//
// Each resource carries at most one pose reachable through Pose and SetPose:
//
//	Kind            Pose meaning
//	───────────────────────────────────────────
//	rigid-static    global pose
//	rigid-dynamic   global pose
//	shape           local pose relative to its actor
//	joint           drive target
//
// Materials, aggregates and scenes have no pose.
//
// # Local
//
// Local is a bookkeeping engine. It performs no simulation, but it behaves
// like native memory where it matters to the binding: freed addresses are
// handed out again, and freeing an address twice is fatal.
package engine
