package engine

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/rigidbind/errors"
	"github.com/wippyai/rigidbind/geometry"
	"github.com/wippyai/rigidbind/pose"
	"github.com/wippyai/rigidbind/resource"
)

const (
	addrBase   uintptr = 0x10000
	addrStride uintptr = 0x100
)

// Local is an in-memory Engine. Addresses of released resources are reused
// last-in first-out, so a stale address may name a different resource later.
type Local struct {
	entries  []object
	freeList []int
	created  uint64
	released uint64
	mu       sync.RWMutex
}

type object struct {
	spec     Spec
	pose     pose.Pose
	shapes   []uintptr
	attached int
	kind     resource.Kind
	live     bool
}

// NewLocal creates an empty in-memory engine.
func NewLocal() *Local {
	return &Local{
		entries:  make([]object, 0, 64),
		freeList: make([]int, 0, 16),
	}
}

// Create validates spec and stores it under a fresh or recycled address.
func (l *Local) Create(kind resource.Kind, spec Spec) (uintptr, error) {
	if spec == nil {
		return 0, errors.InvalidInput(errors.PhaseEngine, "nil spec")
	}
	if spec.Kind() != kind {
		return 0, errors.InvalidInput(errors.PhaseEngine,
			fmt.Sprintf("%T describes a %s, not a %s", spec, spec.Kind(), kind))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	obj := object{spec: spec, kind: kind, live: true, pose: pose.Identity()}
	switch s := spec.(type) {
	case ShapeSpec:
		if s.Geometry == nil {
			return 0, errors.InvalidInput(errors.PhaseEngine, "shape without geometry")
		}
		if s.Material != 0 {
			if _, err := l.get(s.Material, resource.KindMaterial); err != nil {
				return 0, err
			}
		}
		obj.pose = s.LocalPose
	case StaticSpec:
		obj.pose = s.Pose
	case DynamicSpec:
		if s.Mass < 0 {
			return 0, errors.InvalidInput(errors.PhaseEngine, "negative mass")
		}
		obj.pose = s.Pose
	case JointSpec:
		for _, a := range []uintptr{s.Actor0, s.Actor1} {
			if a == 0 {
				continue
			}
			if _, err := l.actor(a); err != nil {
				return 0, err
			}
		}
	}
	if obj.pose == (pose.Pose{}) {
		obj.pose = pose.Identity()
	}

	var idx int
	if n := len(l.freeList); n > 0 {
		idx = l.freeList[n-1]
		l.freeList = l.freeList[:n-1]
		l.entries[idx] = obj
	} else {
		idx = len(l.entries)
		l.entries = append(l.entries, obj)
	}
	l.created++

	addr := addrBase + uintptr(idx)*addrStride
	Logger().Debug("create",
		zap.Stringer("kind", kind),
		zap.Uintptr("addr", addr))
	return addr, nil
}

// Release frees addr. Freeing an address that is not live, or freeing it as
// the wrong kind, is heap corruption on a native engine and panics here.
func (l *Local) Release(kind resource.Kind, addr uintptr) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, ok := l.index(addr)
	if !ok || !l.entries[idx].live {
		panic(fmt.Sprintf("engine: double free of %s at %#x", kind, addr))
	}
	obj := &l.entries[idx]
	if obj.kind != kind {
		panic(fmt.Sprintf("engine: free of %s at %#x as %s", obj.kind, addr, kind))
	}

	switch {
	case kind.Actor():
		for _, s := range obj.shapes {
			if si, ok := l.index(s); ok {
				l.entries[si].attached--
			}
		}
	case kind == resource.KindShape:
		for i := range l.entries {
			e := &l.entries[i]
			if e.live && e.kind.Actor() {
				e.shapes = slices.DeleteFunc(e.shapes, func(s uintptr) bool { return s == addr })
			}
		}
	}

	*obj = object{}
	l.freeList = append(l.freeList, idx)
	l.released++

	Logger().Debug("release",
		zap.Stringer("kind", kind),
		zap.Uintptr("addr", addr))
}

// Geometry returns the descriptor a shape was created with.
func (l *Local) Geometry(addr uintptr) (geometry.Descriptor, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	obj, err := l.get(addr, resource.KindShape)
	if err != nil {
		return nil, err
	}
	return obj.spec.(ShapeSpec).Geometry, nil
}

// Pose returns the pose stored for addr.
func (l *Local) Pose(addr uintptr) (pose.Pose, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	obj, err := l.posed(addr)
	if err != nil {
		return pose.Pose{}, err
	}
	return obj.pose, nil
}

// SetPose replaces the pose stored for addr.
func (l *Local) SetPose(addr uintptr, p pose.Pose) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	obj, err := l.posed(addr)
	if err != nil {
		return err
	}
	obj.pose = p
	return nil
}

// AttachShape appends shape to actor. An exclusive shape may belong to one
// actor only, and no shape is attached to the same actor twice.
func (l *Local) AttachShape(actor, shape uintptr) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.actor(actor)
	if err != nil {
		return err
	}
	s, err := l.get(shape, resource.KindShape)
	if err != nil {
		return err
	}
	if slices.Contains(a.shapes, shape) {
		return errors.InvalidInput(errors.PhaseEngine,
			fmt.Sprintf("shape %#x already attached to actor %#x", shape, actor))
	}
	if s.spec.(ShapeSpec).Exclusive && s.attached > 0 {
		return errors.InvalidInput(errors.PhaseEngine,
			fmt.Sprintf("exclusive shape %#x already attached", shape))
	}
	a.shapes = append(a.shapes, shape)
	s.attached++
	return nil
}

// DetachShape removes shape from actor.
func (l *Local) DetachShape(actor, shape uintptr) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.actor(actor)
	if err != nil {
		return err
	}
	i := slices.Index(a.shapes, shape)
	if i < 0 {
		return errors.NotFound(errors.PhaseEngine, "attached shape", fmt.Sprintf("%#x", shape))
	}
	a.shapes = slices.Delete(a.shapes, i, i+1)
	if s, err := l.get(shape, resource.KindShape); err == nil {
		s.attached--
	}
	return nil
}

// Shapes returns a copy of the actor's shape list.
func (l *Local) Shapes(actor uintptr) ([]uintptr, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, err := l.actor(actor)
	if err != nil {
		return nil, err
	}
	return slices.Clone(a.shapes), nil
}

// Live returns the number of resources not yet released.
func (l *Local) Live() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries) - len(l.freeList)
}

// Counts returns how many resources were created and released over the
// engine's lifetime.
func (l *Local) Counts() (created, released uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.created, l.released
}

func (l *Local) index(addr uintptr) (int, bool) {
	if addr < addrBase || (addr-addrBase)%addrStride != 0 {
		return 0, false
	}
	idx := int((addr - addrBase) / addrStride)
	return idx, idx < len(l.entries)
}

func (l *Local) lookup(addr uintptr) (*object, error) {
	idx, ok := l.index(addr)
	if !ok || !l.entries[idx].live {
		return nil, errors.NotFound(errors.PhaseEngine, "resource", fmt.Sprintf("%#x", addr))
	}
	return &l.entries[idx], nil
}

func (l *Local) get(addr uintptr, kind resource.Kind) (*object, error) {
	obj, err := l.lookup(addr)
	if err != nil {
		return nil, err
	}
	if obj.kind != kind {
		return nil, errors.InvalidInput(errors.PhaseEngine,
			fmt.Sprintf("%#x is a %s, not a %s", addr, obj.kind, kind))
	}
	return obj, nil
}

func (l *Local) actor(addr uintptr) (*object, error) {
	obj, err := l.lookup(addr)
	if err != nil {
		return nil, err
	}
	if !obj.kind.Actor() {
		return nil, errors.InvalidInput(errors.PhaseEngine,
			fmt.Sprintf("%#x is a %s, not an actor", addr, obj.kind))
	}
	return obj, nil
}

func (l *Local) posed(addr uintptr) (*object, error) {
	obj, err := l.lookup(addr)
	if err != nil {
		return nil, err
	}
	switch obj.kind {
	case resource.KindRigidStatic, resource.KindRigidDynamic, resource.KindShape, resource.KindJoint:
		return obj, nil
	}
	return nil, errors.Unsupported(errors.PhaseEngine, fmt.Sprintf("%s has no pose", obj.kind))
}

var _ Engine = (*Local)(nil)
