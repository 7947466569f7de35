package binding

import (
	"sync"

	"github.com/wippyai/rigidbind/errors"
	"github.com/wippyai/rigidbind/resource"
)

// Registry associates handles with host objects.
type Registry struct {
	arena       *resource.Arena
	bound       map[resource.Handle]Object
	unsubscribe func()
	mu          sync.Mutex
	closed      bool
}

// NewRegistry creates a registry that validates handles against arena and
// detaches data when arena releases a handle.
func NewRegistry(arena *resource.Arena) *Registry {
	r := &Registry{
		arena: arena,
		bound: make(map[resource.Handle]Object),
	}
	r.unsubscribe = arena.Subscribe(r)
	return r
}

// Attach binds obj to h, retaining obj and releasing whatever h was bound to
// before. A nil obj detaches.
func (r *Registry) Attach(h resource.Handle, obj Object) error {
	if obj == nil {
		r.Detach(h)
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errors.Closed(errors.PhaseBinding, "registry")
	}
	if !r.arena.Live(h) {
		return errors.New(errors.PhaseBinding, errors.KindInvalidHandle).
			Value(h).
			Detail("attach to %s", h).
			Build()
	}

	obj.Retain()
	if prev, ok := r.bound[h]; ok {
		prev.Release()
	}
	r.bound[h] = obj
	return nil
}

// Get returns the object bound to h.
func (r *Registry) Get(h resource.Handle) (Object, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.bound[h]
	return obj, ok
}

// Detach releases and forgets the object bound to h. It reports whether
// anything was bound.
func (r *Registry) Detach(h resource.Handle) bool {
	r.mu.Lock()
	obj, ok := r.bound[h]
	if ok {
		delete(r.bound, h)
	}
	r.mu.Unlock()

	if ok {
		obj.Release()
	}
	return ok
}

// OnHandleEvent implements resource.Observer.
func (r *Registry) OnHandleEvent(e resource.Event) {
	if e.Type == resource.EventReleased {
		r.Detach(e.Handle)
	}
}

// Len returns the number of bound handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bound)
}

// Close releases every bound object and stops observing the arena.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	bound := r.bound
	r.bound = make(map[resource.Handle]Object)
	r.mu.Unlock()

	r.unsubscribe()
	for _, obj := range bound {
		obj.Release()
	}
	return nil
}
