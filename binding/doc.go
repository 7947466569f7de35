// Package binding keeps host objects alive while an engine resource refers
// to them.
//
// A host attaches arbitrary data to a resource (an actor's owning robot
// link, a label for rendering). The engine only stores an opaque pointer, so
// the host object must be retained for as long as it is bound and released
// exactly once when it is replaced or the resource goes away.
//
//	reg := binding.NewRegistry(arena)
//	defer reg.Close()
//
//	obj := binding.NewCounted(link)
//	if err := reg.Attach(h, obj); err != nil {
//	    return err
//	}
//
// The registry observes the arena and detaches a handle's data as soon as
// the handle is released. Waiting for a collector would be wrong: the engine
// may hand out the same address for the next resource first. Bindings are
// keyed by the full generation-checked handle, so a reused slot never sees
// data attached to its previous occupant.
package binding
