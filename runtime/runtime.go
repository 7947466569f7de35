package runtime

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/rigidbind/binding"
	"github.com/wippyai/rigidbind/engine"
	"github.com/wippyai/rigidbind/errors"
	"github.com/wippyai/rigidbind/geometry"
	"github.com/wippyai/rigidbind/resource"
)

// Options configures a Runtime.
type Options struct {
	// Logger overrides the package logger for this Runtime.
	Logger *zap.Logger
	// CacheSize bounds the number of face tables kept by Table.
	CacheSize int
}

// DefaultOptions returns default runtime configuration.
func DefaultOptions() Options {
	return Options{
		CacheSize: geometry.DefaultCacheSize,
	}
}

// Runtime ties an engine to the handle arena, the user-data registry and the
// mesh cache. Thread-safe, except that releasing one handle from two
// goroutines at once is a race the caller must prevent.
type Runtime struct {
	engine      engine.Engine
	arena       *resource.Arena
	bindings    *binding.Registry
	cache       *geometry.Cache
	log         *zap.Logger
	byAddr      map[uintptr]resource.Handle
	unsubscribe func()
	mu          sync.RWMutex
}

// New creates a Runtime over eng.
func New(eng engine.Engine, opts Options) *Runtime {
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	arena := resource.NewArena()
	r := &Runtime{
		engine:   eng,
		arena:    arena,
		bindings: binding.NewRegistry(arena),
		cache:    geometry.NewCache(opts.CacheSize),
		log:      log,
		byAddr:   make(map[uintptr]resource.Handle),
	}
	r.unsubscribe = arena.Subscribe(resource.ObserverFunc(r.track))
	return r
}

// NewWithDefaults creates a Runtime with default options.
func NewWithDefaults(eng engine.Engine) *Runtime {
	return New(eng, DefaultOptions())
}

// Engine returns the underlying engine.
func (r *Runtime) Engine() engine.Engine {
	return r.engine
}

// Create asks the engine for a resource and wraps its address in a handle.
func (r *Runtime) Create(kind resource.Kind, spec engine.Spec) (resource.Handle, error) {
	addr, err := r.engine.Create(kind, spec)
	if err != nil {
		return resource.Handle{}, errors.Engine("create "+kind.String(), err)
	}
	if addr == 0 {
		return resource.Handle{}, errors.Engine("create "+kind.String()+" returned a null address", nil)
	}
	h, err := r.arena.Wrap(kind, addr)
	if err != nil {
		// nobody else can reach addr now
		if kind.Releasable() {
			r.engine.Release(kind, addr)
		}
		return resource.Handle{}, err
	}
	r.log.Debug("created", zap.Stringer("handle", h), zap.Uintptr("addr", addr))
	return h, nil
}

// Release frees the resource behind h. The engine is called exactly once per
// handle; a second release of the same handle panics with an *errors.Error of
// kind double_release. Materials and scenes cannot be released explicitly.
func (r *Runtime) Release(h resource.Handle) error {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("release panicked", zap.Stringer("handle", h), zap.Any("reason", p))
			panic(p)
		}
	}()

	err := r.arena.Release(h, func(addr uintptr) {
		r.engine.Release(h.Kind, addr)
	})
	if err != nil {
		return err
	}
	r.log.Debug("released", zap.Stringer("handle", h))
	return nil
}

// Live reports whether h still refers to an unreleased resource.
func (r *Runtime) Live(h resource.Handle) bool {
	return r.arena.Live(h)
}

// Len returns the number of live handles.
func (r *Runtime) Len() int {
	return r.arena.Len()
}

// Handles returns every live handle of the given kind, or of every kind when
// kind is resource.KindInvalid.
func (r *Runtime) Handles(kind resource.Kind) []resource.Handle {
	var out []resource.Handle
	r.arena.Each(func(h resource.Handle, _ uintptr) bool {
		if kind == resource.KindInvalid || h.Kind == kind {
			out = append(out, h)
		}
		return true
	})
	return out
}

// AttachUserData binds obj to h, retaining it until it is replaced, detached,
// or h is released. A nil obj detaches.
func (r *Runtime) AttachUserData(h resource.Handle, obj binding.Object) error {
	return r.bindings.Attach(h, obj)
}

// UserData returns the object bound to h.
func (r *Runtime) UserData(h resource.Handle) (binding.Object, bool) {
	return r.bindings.Get(h)
}

// DetachUserData drops the object bound to h, if any.
func (r *Runtime) DetachUserData(h resource.Handle) bool {
	return r.bindings.Detach(h)
}

// Close drops every binding and invalidates every handle. Engine resources
// are not released; the engine owns them.
func (r *Runtime) Close() error {
	r.unsubscribe()
	if err := r.bindings.Close(); err != nil {
		return err
	}
	if err := r.arena.Close(); err != nil {
		return err
	}
	r.mu.Lock()
	clear(r.byAddr)
	r.mu.Unlock()
	r.cache.Reset()
	return nil
}

// track keeps the address-to-handle index in step with the arena. A release
// notification can arrive after the engine has reused the address, so only
// the matching handle is removed.
func (r *Runtime) track(e resource.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch e.Type {
	case resource.EventWrapped:
		r.byAddr[e.Addr] = e.Handle
	case resource.EventReleased:
		if r.byAddr[e.Addr] == e.Handle {
			delete(r.byAddr, e.Addr)
		}
	}
}

// handleOf maps an engine address back to its live handle.
func (r *Runtime) handleOf(addr uintptr) (resource.Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byAddr[addr]
	return h, ok
}

// unwrap resolves h and checks that its kind satisfies want.
func (r *Runtime) unwrap(h resource.Handle, phase errors.Phase, op string, want func(resource.Kind) bool) (uintptr, error) {
	addr, err := r.arena.Unwrap(h)
	if err != nil {
		return 0, err
	}
	if !want(h.Kind) {
		return 0, errors.InvalidInput(phase, op+": not supported for "+h.Kind.String())
	}
	return addr, nil
}

func isKind(k resource.Kind) func(resource.Kind) bool {
	return func(got resource.Kind) bool { return got == k }
}

func isActor(k resource.Kind) bool { return k.Actor() }
