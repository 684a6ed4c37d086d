package services

import "sync"

const DefaultDedupCapacity = 1000

// DedupCache remembers recently handled message ids. When it grows past its
// capacity it is cleared wholesale.
type DedupCache struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	capacity int
}

func NewDedupCache(capacity int) *DedupCache {
	if capacity <= 0 {
		capacity = DefaultDedupCapacity
	}
	return &DedupCache{seen: make(map[string]struct{}), capacity: capacity}
}

// Seen reports whether id was already recorded and records it if not.
func (d *DedupCache) Seen(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	if len(d.seen) > d.capacity {
		d.seen = make(map[string]struct{})
	}
	return false
}

func (d *DedupCache) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
