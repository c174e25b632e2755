package services

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// listCache holds API lists under a TTL and supports optimistic patches
// of single items that can be undone.
type listCache[T any] struct {
	mu   sync.Mutex
	c    *gocache.Cache
	idOf func(T) string
	gen  uint64 // bumped by reset
}

func newListCache[T any](ttl time.Duration, idOf func(T) string) *listCache[T] {
	cleanup := ttl * 2
	if ttl <= 0 {
		cleanup = 0
	}
	return &listCache[T]{c: gocache.New(ttl, cleanup), idOf: idOf}
}

func (l *listCache[T]) get(key string) ([]T, bool) {
	v, ok := l.c.Get(key)
	if !ok {
		return nil, false
	}
	items, _ := v.([]T)
	return items, true
}

func (l *listCache[T]) set(key string, items []T) {
	l.c.SetDefault(key, items)
}

// generation identifies the cache contents between resets. Pass it to
// setSince to drop a fetch that a reset overtook.
func (l *listCache[T]) generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

func (l *listCache[T]) setSince(gen uint64, key string, items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen == l.gen {
		l.c.SetDefault(key, items)
	}
}

func (l *listCache[T]) invalidate(key string) {
	l.c.Delete(key)
}

// reset drops every cached list.
func (l *listCache[T]) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.c.Flush()
}

// patch applies fn to the cached item with id and returns the patched
// copy plus an undo func restoring the previous value of that item only.
// ok is false when the list or item is not cached.
func (l *listCache[T]) patch(key, id string, fn func(*T)) (patched T, undo func(), ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	items, found := l.get(key)
	if !found {
		return patched, func() {}, false
	}

	idx := l.index(items, id)
	if idx < 0 {
		return patched, func() {}, false
	}

	before := items[idx]
	next := make([]T, len(items))
	copy(next, items)
	fn(&next[idx])
	l.set(key, next)

	undo = func() {
		l.mu.Lock()
		defer l.mu.Unlock()

		current, found := l.get(key)
		if !found {
			return
		}
		i := l.index(current, id)
		if i < 0 {
			return
		}
		restored := make([]T, len(current))
		copy(restored, current)
		restored[i] = before
		l.set(key, restored)
	}
	return next[idx], undo, true
}

func (l *listCache[T]) find(key, id string) (T, bool) {
	var zero T
	items, found := l.get(key)
	if !found {
		return zero, false
	}
	idx := l.index(items, id)
	if idx < 0 {
		return zero, false
	}
	return items[idx], true
}

func (l *listCache[T]) index(items []T, id string) int {
	for i, it := range items {
		if l.idOf(it) == id {
			return i
		}
	}
	return -1
}
