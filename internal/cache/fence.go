package cache

import (
	"hash/fnv"
	"sync/atomic"
)

const fenceStripes = 256

// Fence orders cache fills against invalidations within one process. A
// reader takes a Token before it reads the store and only keeps its fill if
// no invalidation touched the key since. Keys share stripes, so a collision
// costs a skipped fill, never a stale one.
type Fence struct {
	gens [fenceStripes]atomic.Uint64
}

func NewFence() *Fence { return &Fence{} }

func (f *Fence) stripe(key string) *atomic.Uint64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &f.gens[h.Sum32()%fenceStripes]
}

func (f *Fence) Token(key string) uint64 { return f.stripe(key).Load() }

// Bump must be called before the keys are deleted from the cache.
func (f *Fence) Bump(keys ...string) {
	for _, k := range keys {
		f.stripe(k).Add(1)
	}
}

func (f *Fence) Fresh(key string, token uint64) bool { return f.stripe(key).Load() == token }
