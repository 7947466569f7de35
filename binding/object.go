package binding

import (
	"fmt"
	"sync/atomic"
)

// Object is a host value that can be kept alive across the boundary.
// Retain and Release must be safe for concurrent use.
type Object interface {
	Retain()
	Release()
}

// Counted wraps a host value with an explicit reference count.
type Counted struct {
	Value any
	refs  atomic.Int64
}

// NewCounted wraps v with a reference count of zero.
func NewCounted(v any) *Counted {
	return &Counted{Value: v}
}

// Retain increments the reference count.
func (c *Counted) Retain() {
	c.refs.Add(1)
}

// Release decrements the reference count. Releasing an object that holds no
// references panics.
func (c *Counted) Release() {
	if c.refs.Add(-1) < 0 {
		panic(fmt.Sprintf("binding: release of unretained object %v", c.Value))
	}
}

// Count returns the current reference count.
func (c *Counted) Count() int64 {
	return c.refs.Load()
}

func (c *Counted) String() string {
	return fmt.Sprintf("%v (refs=%d)", c.Value, c.Count())
}
