// Package dedupe makes profile build requests idempotent by request id.
package dedupe

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 50_000

// Deduper remembers build request ids.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded, recording it if
	// not. The check and the record happen atomically.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so the request can be submitted again, for example
	// after the queue rejected it.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper keeps ids in arrival order and evicts the oldest once
// maxSize is reached. maxSize <= 0 disables eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	index   map[string]*list.Element
	order   *list.List
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
		index:   make(map[string]*list.Element),
		order:   list.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.index[id]; ok {
		return true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		oldest := d.order.Front()
		d.order.Remove(oldest)
		delete(d.index, oldest.Value.(string))
	}
	d.index[id] = d.order.PushBack(id)
	d.size.Store(int64(d.order.Len()))
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.index[id]; ok {
		d.order.Remove(el)
		delete(d.index, id)
		d.size.Store(int64(d.order.Len()))
	}
}

// Size returns the number of remembered ids.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
