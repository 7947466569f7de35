package resource

import (
	"sync"

	"github.com/wippyai/rigidbind/errors"
)

// Arena maps generation-checked handles to engine addresses.
// It is safe for concurrent use, but releasing the same resource from two
// goroutines at once is the caller's race to prevent.
type Arena struct {
	slots     []slot
	freeList  []uint32
	observers []subscription
	nextSub   uint64
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

type slot struct {
	addr       uintptr
	generation uint32
	kind       Kind
	live       bool
}

type subscription struct {
	o  Observer
	id uint64
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		slots:    make([]slot, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// Wrap records an engine address and returns a handle to it.
// No ownership is inferred: the arena never frees addr on its own.
func (a *Arena) Wrap(kind Kind, addr uintptr) (Handle, error) {
	if !kind.Valid() {
		return Handle{}, errors.InvalidInput(errors.PhaseHandle, "wrap: invalid kind "+kind.String())
	}
	if addr == 0 {
		return Handle{}, errors.InvalidHandle(kind, "engine returned a null address")
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return Handle{}, errors.Closed(errors.PhaseHandle, "arena")
	}

	var idx uint32
	if n := len(a.freeList); n > 0 {
		idx = a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
	} else {
		a.slots = append(a.slots, slot{})
		idx = uint32(len(a.slots) - 1)
	}

	s := &a.slots[idx]
	if s.generation == 0 {
		s.generation = 1
	}
	s.addr = addr
	s.kind = kind
	s.live = true
	h := Handle{Index: idx, Generation: s.generation, Kind: kind}
	a.mu.Unlock()

	a.notify(Event{Type: EventWrapped, Handle: h, Addr: addr})
	return h, nil
}

// Unwrap returns the engine address behind h.
func (a *Arena) Unwrap(h Handle) (uintptr, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s, err := a.lookup(h)
	if err != nil {
		return 0, err
	}
	return s.addr, nil
}

// Live reports whether h refers to a resource that has not been released.
func (a *Arena) Live(h Handle) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	_, err := a.lookup(h)
	return err == nil
}

// lookup requires a.mu held.
func (a *Arena) lookup(h Handle) (*slot, error) {
	if h.IsNull() {
		return nil, errors.InvalidHandle(h, "null handle")
	}
	if a.closed {
		return nil, errors.Closed(errors.PhaseHandle, "arena")
	}
	if int(h.Index) >= len(a.slots) {
		return nil, errors.InvalidHandle(h, "unknown slot")
	}
	s := &a.slots[h.Index]
	if !s.live || s.generation != h.Generation {
		return nil, errors.InvalidHandle(h, "stale handle")
	}
	if s.kind != h.Kind {
		return nil, errors.InvalidHandle(h, "kind mismatch, slot holds "+s.kind.String())
	}
	return s, nil
}

// Release invalidates h and forwards its address to fn, which must perform
// the engine's own release call. fn runs exactly once per live handle.
//
// A null handle fails with errors.ErrInvalidHandle. A handle that was already
// released panics with an *errors.Error of kind double_release; fn is not
// called in that case.
func (a *Arena) Release(h Handle, fn func(addr uintptr)) error {
	if h.IsNull() {
		return errors.InvalidHandle(h, "release of null handle")
	}
	if !h.Kind.Releasable() {
		return errors.Unsupported(errors.PhaseHandle, h.Kind.String()+" resources cannot be released explicitly")
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return errors.Closed(errors.PhaseHandle, "arena")
	}
	if int(h.Index) >= len(a.slots) {
		a.mu.Unlock()
		return errors.InvalidHandle(h, "unknown slot")
	}

	s := &a.slots[h.Index]
	switch {
	case h.Generation > s.generation:
		a.mu.Unlock()
		return errors.InvalidHandle(h, "generation never issued")
	case h.Generation < s.generation, !s.live:
		a.mu.Unlock()
		panic(errors.DoubleRelease(h))
	case s.kind != h.Kind:
		a.mu.Unlock()
		return errors.InvalidHandle(h, "kind mismatch, slot holds "+s.kind.String())
	}

	addr := s.addr
	s.addr = 0
	s.live = false
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	a.freeList = append(a.freeList, h.Index)
	a.mu.Unlock()

	// Observers hear about the release even when fn panics.
	defer a.notify(Event{Type: EventReleased, Handle: h, Addr: addr})
	if fn != nil {
		fn(addr)
	}
	return nil
}

// Subscribe registers o for lifecycle events and returns a function that
// removes it again.
func (a *Arena) Subscribe(o Observer) (unsubscribe func()) {
	a.obsMu.Lock()
	defer a.obsMu.Unlock()

	a.nextSub++
	id := a.nextSub
	a.observers = append(a.observers, subscription{o: o, id: id})

	return func() {
		a.obsMu.Lock()
		defer a.obsMu.Unlock()
		for i, sub := range a.observers {
			if sub.id == id {
				a.observers = append(a.observers[:i], a.observers[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of live handles.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	count := 0
	for _, s := range a.slots {
		if s.live {
			count++
		}
	}
	return count
}

// Each iterates over live handles until fn returns false.
// fn must not call back into the arena.
func (a *Arena) Each(fn func(Handle, uintptr) bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for i, s := range a.slots {
		if !s.live {
			continue
		}
		h := Handle{Index: uint32(i), Generation: s.generation, Kind: s.kind}
		if !fn(h, s.addr) {
			break
		}
	}
}

// Close forgets every handle without releasing anything in the engine.
// All later operations fail with errors.ErrClosed.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true
	a.slots = nil
	a.freeList = nil
	return nil
}

func (a *Arena) notify(e Event) {
	a.obsMu.RLock()
	subs := make([]subscription, len(a.observers))
	copy(subs, a.observers)
	a.obsMu.RUnlock()

	for _, sub := range subs {
		sub.o.OnHandleEvent(e)
	}
}
