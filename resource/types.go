package resource

import "fmt"

// Kind tags the engine resource type a handle refers to.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindMaterial
	KindShape
	KindRigidStatic
	KindRigidDynamic
	KindJoint
	KindAggregate
	KindScene
)

var kindNames = [...]string{
	KindInvalid:      "invalid",
	KindMaterial:     "material",
	KindShape:        "shape",
	KindRigidStatic:  "rigid-static",
	KindRigidDynamic: "rigid-dynamic",
	KindJoint:        "joint",
	KindAggregate:    "aggregate",
	KindScene:        "scene",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Valid reports whether k names a known resource kind.
func (k Kind) Valid() bool {
	return k > KindInvalid && int(k) < len(kindNames)
}

// Releasable reports whether handles of this kind may be released explicitly.
// Materials are shared and reference counted inside the engine, and scenes are
// torn down with the engine itself.
func (k Kind) Releasable() bool {
	switch k {
	case KindShape, KindRigidStatic, KindRigidDynamic, KindJoint, KindAggregate:
		return true
	}
	return false
}

// Actor reports whether k is a rigid actor kind (carries a global pose and user data).
func (k Kind) Actor() bool {
	return k == KindRigidStatic || k == KindRigidDynamic
}

// Handle is an opaque reference to an engine-owned resource.
// The zero Handle is null.
type Handle struct {
	Index      uint32
	Generation uint32
	Kind       Kind
}

// IsNull reports whether h is the null handle.
func (h Handle) IsNull() bool {
	return h.Generation == 0
}

func (h Handle) String() string {
	if h.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%s#%d.%d", h.Kind, h.Index, h.Generation)
}

// EventType identifies a handle lifecycle notification.
type EventType uint8

const (
	EventWrapped EventType = iota
	EventReleased
)

// Event represents a handle lifecycle event.
type Event struct {
	Addr   uintptr
	Handle Handle
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
type Observer interface {
	OnHandleEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnHandleEvent(e Event) { f(e) }
