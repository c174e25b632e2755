// Package redis implements the durable token tier on Redis, for setups
// where several client processes (or machines) share one session.
//
// Every write publishes the changed key on a channel so Subscribe can
// report writes made by other processes.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces token keys and the change channel.
const DefaultPrefix = "hexsocial:session:"

type Store struct {
	rdb     goredis.UniversalClient
	prefix  string
	channel string
}

func New(rdb goredis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix, channel: prefix + "changes"}
}

// Dial connects to addr and verifies the connection with PING.
func Dial(ctx context.Context, addr, password string, db int) (*Store, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return New(rdb, DefaultPrefix), nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, s.key(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get token[%s]: %w", key, err)
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.Apply(ctx, map[string]string{key: value}, nil)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.Apply(ctx, nil, []string{key})
}

// Apply runs all writes in one MULTI/EXEC and publishes a single change
// notice.
func (s *Store) Apply(ctx context.Context, set map[string]string, del []string) error {
	if len(set) == 0 && len(del) == 0 {
		return nil
	}

	_, err := s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		for k, v := range set {
			p.Set(ctx, s.key(k), v, 0)
		}
		if len(del) > 0 {
			keys := make([]string, 0, len(del))
			for _, k := range del {
				keys = append(keys, s.key(k))
			}
			p.Del(ctx, keys...)
		}
		p.Publish(ctx, s.channel, "changed")
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply token writes: %w", err)
	}
	return nil
}

// Subscribe relays change notices published by any process using the same
// prefix.
func (s *Store) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	ps := s.rdb.Subscribe(ctx, s.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", s.channel, err)
	}

	out := make(chan struct{}, 1)
	msgs := ps.Channel()

	go func() {
		defer close(out)
		defer ps.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	return out, nil
}
