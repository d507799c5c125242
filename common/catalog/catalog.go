package catalog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Parts is the raw content of a catalog before indexing
type Parts struct {
	CPUs         []*CPU         `json:"cpus"`
	GPUs         []*GPU         `json:"gpus"`
	Motherboards []*Motherboard `json:"motherboards"`
	RAMs         []*RAM         `json:"rams"`
	Storages     []*Storage     `json:"storages"`
	PSUs         []*PSU         `json:"psus"`
	Cases        []*Case        `json:"cases"`
	Coolers      []*Cooler      `json:"coolers"`
}

// Catalog is an immutable, id-indexed snapshot of every part.
// Slices are ordered by id. Callers must not mutate the parts.
type Catalog struct {
	Parts

	cpus         map[int64]*CPU
	gpus         map[int64]*GPU
	motherboards map[int64]*Motherboard
	rams         map[int64]*RAM
	storages     map[int64]*Storage
	psus         map[int64]*PSU
	cases        map[int64]*Case
	coolers      map[int64]*Cooler
}

// New indexes parts into a snapshot. Nil entries are dropped.
func New(p Parts) *Catalog {
	c := &Catalog{}

	c.CPUs, c.cpus = index(p.CPUs, func(x *CPU) int64 { return x.ID })
	c.GPUs, c.gpus = index(p.GPUs, func(x *GPU) int64 { return x.ID })
	c.Motherboards, c.motherboards = index(p.Motherboards, func(x *Motherboard) int64 { return x.ID })
	c.RAMs, c.rams = index(p.RAMs, func(x *RAM) int64 { return x.ID })
	c.Storages, c.storages = index(p.Storages, func(x *Storage) int64 { return x.ID })
	c.PSUs, c.psus = index(p.PSUs, func(x *PSU) int64 { return x.ID })
	c.Cases, c.cases = index(p.Cases, func(x *Case) int64 { return x.ID })
	c.Coolers, c.coolers = index(p.Coolers, func(x *Cooler) int64 { return x.ID })

	return c
}

func index[T any](items []*T, id func(*T) int64) ([]*T, map[int64]*T) {
	out := make([]*T, 0, len(items))
	byID := make(map[int64]*T, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, item)
		byID[id(item)] = item
	}
	sort.SliceStable(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out, byID
}

func (c *Catalog) CPU(id int64) (*CPU, bool)                 { v, ok := c.cpus[id]; return v, ok }
func (c *Catalog) GPU(id int64) (*GPU, bool)                 { v, ok := c.gpus[id]; return v, ok }
func (c *Catalog) Motherboard(id int64) (*Motherboard, bool) { v, ok := c.motherboards[id]; return v, ok }
func (c *Catalog) RAM(id int64) (*RAM, bool)                 { v, ok := c.rams[id]; return v, ok }
func (c *Catalog) Storage(id int64) (*Storage, bool)         { v, ok := c.storages[id]; return v, ok }
func (c *Catalog) PSU(id int64) (*PSU, bool)                 { v, ok := c.psus[id]; return v, ok }
func (c *Catalog) Case(id int64) (*Case, bool)               { v, ok := c.cases[id]; return v, ok }
func (c *Catalog) Cooler(id int64) (*Cooler, bool)           { v, ok := c.coolers[id]; return v, ok }

// Reader loads a catalog snapshot from its backing store
type Reader interface {
	Load(ctx context.Context) (*Catalog, error)
}

// StaticReader always returns the same snapshot
type StaticReader struct {
	Catalog *Catalog
}

func (r StaticReader) Load(ctx context.Context) (*Catalog, error) {
	return r.Catalog, nil
}

// CachedReader reuses a loaded snapshot until it is older than TTL
type CachedReader struct {
	source Reader
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	snapshot *Catalog
	loadedAt time.Time
}

// NewCachedReader wraps source. A ttl of zero reloads on every call.
func NewCachedReader(source Reader, ttl time.Duration) *CachedReader {
	return &CachedReader{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (r *CachedReader) Load(ctx context.Context) (*Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snapshot != nil && r.ttl > 0 && r.now().Sub(r.loadedAt) < r.ttl {
		return r.snapshot, nil
	}

	snapshot, err := r.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	r.snapshot = snapshot
	r.loadedAt = r.now()
	return snapshot, nil
}

// Invalidate drops the cached snapshot
func (r *CachedReader) Invalidate() {
	r.mu.Lock()
	r.snapshot = nil
	r.mu.Unlock()
}
