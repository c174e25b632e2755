// Package memory implements the session token tier: values live in the
// process and disappear when it exits.
package memory

import (
	"context"
	"sync"
)

type Store struct {
	mu   sync.RWMutex
	data map[string]string
	subs map[chan struct{}]struct{}
}

func New() *Store {
	return &Store{
		data: make(map[string]string),
		subs: make(map[chan struct{}]struct{}),
	}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key], nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.Apply(ctx, map[string]string{key: value}, nil)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.Apply(ctx, nil, []string{key})
}

// Apply writes set and removes del under one lock.
func (s *Store) Apply(_ context.Context, set map[string]string, del []string) error {
	s.mu.Lock()
	changed := false
	for k, v := range set {
		if old, ok := s.data[k]; !ok || old != v {
			changed = true
		}
		s.data[k] = v
	}
	for _, k := range del {
		if _, ok := s.data[k]; ok {
			changed = true
			delete(s.data, k)
		}
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
	return nil
}

// Subscribe reports every change made through this store.
func (s *Store) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, ch)
		close(ch)
		s.mu.Unlock()
	}()

	return ch, nil
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
