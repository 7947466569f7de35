// Package resource provides generation-checked handles to engine-owned resources.
//
// The physics engine owns every resource it creates and hands back a raw
// address. This package never dereferences or frees that address. It records
// it in an Arena slot and gives the caller a Handle: a slot index, a
// generation counter, and a kind tag.
//
//	arena := resource.NewArena()
//
//	// Record an address the engine returned
//	h, err := arena.Wrap(resource.KindShape, addr)
//
//	// Recover it for the next engine call
//	addr, err := arena.Unwrap(h)
//
//	// Release forwards to the engine exactly once
//	err = arena.Release(h, func(addr uintptr) { eng.Release(resource.KindShape, addr) })
//
// # Null and Stale Handles
//
// The zero Handle is null. Generation 0 is never issued, so accessors on a
// null handle fail with errors.ErrInvalidHandle.
//
// Releasing a slot bumps its generation before the slot is reused. A copy of a
// released handle therefore never aliases whatever the engine creates next at
// the same address or in the same slot: accessors report it as stale.
//
// # Release
//
// Only kinds whose Releasable method reports true may be released through the
// arena. Releasing a null handle returns errors.ErrInvalidHandle and never
// reaches the engine. Releasing a handle that was already released panics with
// an *errors.Error of kind double_release: a second free would corrupt the
// engine's resource table, so there is nothing to recover.
//
// # Observers
//
// Observers see every wrap and release. The user data registry subscribes so
// bindings are dropped at release time rather than when a collector runs:
//
//	arena.Subscribe(registry)
//
// The arena performs no finalization. A handle that is never released keeps
// its slot until Close.
package resource
