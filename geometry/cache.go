package geometry

import (
	"context"
	"encoding/binary"
	"math"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/wippyai/rigidbind"
)

// DefaultCacheSize is the entry limit used when NewCache is given zero.
const DefaultCacheSize = 256

// Request names one tessellation for Cache.Warm.
type Request struct {
	Descriptor Descriptor
	Detail     Detail
}

// CacheStats counts cache lookups.
type CacheStats struct {
	Hits   uint64
	Misses uint64
}

// Cache memoizes Mesh.Table results keyed by a fingerprint of descriptor
// and detail. Concurrent misses for the same key tessellate once. Returned
// tables are shared between callers and must not be modified.
type Cache struct {
	entries map[uint64][][]float32
	order   []uint64
	group   singleflight.Group
	max     int
	mu      sync.RWMutex
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// NewCache creates a cache holding at most size tables; the oldest entry is
// evicted first.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{
		entries: make(map[uint64][][]float32, size),
		max:     size,
	}
}

// Table returns the face table for desc at detail, tessellating on a miss.
func (c *Cache) Table(desc Descriptor, detail Detail) ([][]float32, error) {
	if err := checkInput(desc, detail); err != nil {
		return nil, err
	}
	key := Fingerprint(desc, detail)

	c.mu.RLock()
	rows, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return rows, nil
	}

	v, err, _ := c.group.Do(strconv.FormatUint(key, 16), func() (any, error) {
		c.misses.Add(1)
		mesh, err := Tessellate(desc, detail)
		if err != nil {
			return nil, err
		}
		rows := mesh.Table()
		c.store(key, rows)
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([][]float32), nil
}

// Warm tessellates every request concurrently, stopping at the first error
// or when ctx is done.
func (c *Cache) Warm(ctx context.Context, reqs ...Request) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := c.Table(req.Descriptor, req.Detail)
			return err
		})
	}
	return g.Wait()
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Reset drops every cached table.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.order = c.order[:0]
}

func (c *Cache) store(key uint64, rows [][]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		return
	}
	for len(c.order) >= c.max {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	c.entries[key] = rows
	c.order = append(c.order, key)
}

// Fingerprint hashes everything Tessellate reads from desc and detail.
func Fingerprint(desc Descriptor, detail Detail) uint64 {
	detail = detail.withDefaults()
	h := xxhash.New()
	var buf [8]byte

	putU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[:4], v)
		_, _ = h.Write(buf[:4])
	}
	putF32 := func(f float32) { putU32(math.Float32bits(f)) }
	putVec := func(v rigidbind.Vec3) {
		putF32(v.X)
		putF32(v.Y)
		putF32(v.Z)
	}

	putU32(uint32(desc.Kind()))
	switch d := desc.(type) {
	case Box:
		putVec(d.HalfExtents)
	case Sphere:
		putF32(d.Radius)
		putU32(uint32(detail.Slices))
		putU32(uint32(detail.Segments))
	case ConvexMesh:
		putVec(d.Scale)
		putU32(uint32(len(d.Vertices)))
		for _, v := range d.Vertices {
			putVec(v)
		}
		putU32(uint32(len(d.Indices)))
		for _, i := range d.Indices {
			putU32(i)
		}
		putU32(uint32(len(d.Polygons)))
		for _, p := range d.Polygons {
			putU32(p.IndexBase)
			putU32(p.Count)
		}
	case Plane:
		putVec(d.Normal)
		putF32(d.Distance)
	case Capsule:
		putF32(d.Radius)
		putF32(d.HalfHeight)
	}
	return h.Sum64()
}
