package resource

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/rigidbind/errors"
)

func TestArena_WrapUnwrap(t *testing.T) {
	a := NewArena()

	h, err := a.Wrap(KindShape, 0xbeef)
	require.NoError(t, err)
	assert.False(t, h.IsNull())
	assert.Equal(t, KindShape, h.Kind)

	addr, err := a.Unwrap(h)
	require.NoError(t, err)
	assert.Equal(t, uintptr(0xbeef), addr)
	assert.True(t, a.Live(h))
	assert.Equal(t, 1, a.Len())
}

func TestArena_NullHandle(t *testing.T) {
	a := NewArena()
	var h Handle

	assert.True(t, h.IsNull())
	assert.Equal(t, "null", h.String())

	_, err := a.Unwrap(h)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)

	err = a.Release(Handle{Kind: KindShape}, func(uintptr) { t.Fatal("engine must not be called") })
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)
	assert.False(t, a.Live(h))
}

func TestArena_WrapRejects(t *testing.T) {
	a := NewArena()

	_, err := a.Wrap(KindShape, 0)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)

	_, err = a.Wrap(KindInvalid, 1)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidInput})

	_, err = a.Wrap(Kind(200), 1)
	assert.Error(t, err)
}

func TestArena_ReleaseForwardsOnce(t *testing.T) {
	a := NewArena()
	h, err := a.Wrap(KindRigidStatic, 0x1000)
	require.NoError(t, err)

	var freed []uintptr
	require.NoError(t, a.Release(h, func(addr uintptr) { freed = append(freed, addr) }))
	assert.Equal(t, []uintptr{0x1000}, freed)
	assert.Equal(t, 0, a.Len())

	_, err = a.Unwrap(h)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)
}

func TestArena_DoubleReleasePanics(t *testing.T) {
	a := NewArena()
	h, err := a.Wrap(KindJoint, 0x2000)
	require.NoError(t, err)

	calls := 0
	release := func(uintptr) { calls++ }
	require.NoError(t, a.Release(h, release))

	defer func() {
		r := recover()
		require.NotNil(t, r, "second release must not succeed silently")
		perr, ok := r.(*errors.Error)
		require.True(t, ok, "panic value %T", r)
		assert.ErrorIs(t, perr, errors.ErrDoubleRelease)
		assert.Equal(t, 1, calls, "engine saw a second free")
	}()
	_ = a.Release(h, release)
}

func TestArena_DoubleReleaseAfterReuse(t *testing.T) {
	a := NewArena()
	h1, _ := a.Wrap(KindShape, 0x10)
	require.NoError(t, a.Release(h1, nil))

	// the engine hands out the same address again and the arena reuses the slot
	h2, err := a.Wrap(KindShape, 0x10)
	require.NoError(t, err)
	assert.Equal(t, h1.Index, h2.Index)
	assert.NotEqual(t, h1.Generation, h2.Generation)

	_, err = a.Unwrap(h1)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle, "stale handle must not alias the new resource")

	assert.Panics(t, func() { _ = a.Release(h1, nil) })
	assert.True(t, a.Live(h2), "failed release must not touch the new resource")
}

func TestArena_StaleHandleErrors(t *testing.T) {
	a := NewArena()
	h, _ := a.Wrap(KindShape, 0x10)

	forged := h
	forged.Generation += 5
	_, err := a.Unwrap(forged)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)
	assert.ErrorIs(t, a.Release(forged, nil), errors.ErrInvalidHandle)

	wrongKind := h
	wrongKind.Kind = KindJoint
	_, err = a.Unwrap(wrongKind)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)

	outOfRange := Handle{Index: 99, Generation: 1, Kind: KindShape}
	_, err = a.Unwrap(outOfRange)
	assert.ErrorIs(t, err, errors.ErrInvalidHandle)
}

func TestArena_ReleaseUnsupportedKind(t *testing.T) {
	a := NewArena()
	h, _ := a.Wrap(KindMaterial, 0x30)

	err := a.Release(h, func(uintptr) { t.Fatal("engine must not be called") })
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindUnsupported})
	assert.True(t, a.Live(h))
}

func TestArena_Observers(t *testing.T) {
	a := NewArena()

	var events []Event
	unsubscribe := a.Subscribe(ObserverFunc(func(e Event) { events = append(events, e) }))

	h, _ := a.Wrap(KindRigidDynamic, 0x40)
	require.NoError(t, a.Release(h, nil))

	require.Len(t, events, 2)
	assert.Equal(t, EventWrapped, events[0].Type)
	assert.Equal(t, EventReleased, events[1].Type)
	assert.Equal(t, h, events[1].Handle)
	assert.Equal(t, uintptr(0x40), events[1].Addr)

	unsubscribe()
	_, _ = a.Wrap(KindRigidDynamic, 0x41)
	assert.Len(t, events, 2)
}

func TestArena_ObserversHearPanickingRelease(t *testing.T) {
	a := NewArena()

	var released []Handle
	a.Subscribe(ObserverFunc(func(e Event) {
		if e.Type == EventReleased {
			released = append(released, e.Handle)
		}
	}))

	h, err := a.Wrap(KindRigidStatic, 0x80)
	require.NoError(t, err)

	assert.PanicsWithValue(t, "engine fault", func() {
		_ = a.Release(h, func(uintptr) { panic("engine fault") })
	})
	assert.Equal(t, []Handle{h}, released)
	assert.False(t, a.Live(h))
	assert.Equal(t, 0, a.Len())
}

func TestArena_Each(t *testing.T) {
	a := NewArena()
	_, _ = a.Wrap(KindShape, 1)
	h2, _ := a.Wrap(KindJoint, 2)
	_, _ = a.Wrap(KindShape, 3)
	require.NoError(t, a.Release(h2, nil))

	var addrs []uintptr
	a.Each(func(h Handle, addr uintptr) bool {
		addrs = append(addrs, addr)
		return true
	})
	assert.Equal(t, []uintptr{1, 3}, addrs)

	count := 0
	a.Each(func(Handle, uintptr) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestArena_Close(t *testing.T) {
	a := NewArena()
	h, _ := a.Wrap(KindShape, 1)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	_, err := a.Wrap(KindShape, 2)
	assert.ErrorIs(t, err, errors.ErrClosed)
	_, err = a.Unwrap(h)
	assert.ErrorIs(t, err, errors.ErrClosed)
	assert.ErrorIs(t, a.Release(h, nil), errors.ErrClosed)
}

func TestArena_Concurrent(t *testing.T) {
	a := NewArena()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			h, err := a.Wrap(KindShape, uintptr(id+1))
			if err != nil {
				t.Error(err)
				return
			}
			if _, err := a.Unwrap(h); err != nil {
				t.Error(err)
			}
			if err := a.Release(h, nil); err != nil {
				t.Error(err)
			}
		}(i)
	}

	wg.Wait()
	assert.Equal(t, 0, a.Len())
}

func TestKind(t *testing.T) {
	assert.Equal(t, "rigid-static", KindRigidStatic.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
	assert.False(t, KindInvalid.Valid())
	assert.True(t, KindScene.Valid())
	assert.False(t, KindScene.Releasable())
	assert.True(t, KindAggregate.Releasable())
	assert.True(t, KindRigidDynamic.Actor())
	assert.False(t, KindShape.Actor())
}
