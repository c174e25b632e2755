package sqlite

import (
	"context"
	"fmt"
	"time"
)

// Subscribe reports commits made through any other connection to the same
// database file. It pins one pooled connection and polls PRAGMA
// data_version, which SQLite bumps on that connection whenever another
// connection commits.
func (s *Store) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("pin watch connection: %w", err)
	}

	var last int64
	if err := conn.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&last); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read data_version: %w", err)
	}

	out := make(chan struct{}, 1)

	go func() {
		defer close(out)
		defer conn.Close()

		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var v int64
				if err := conn.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v); err != nil {
					if ctx.Err() != nil {
						return
					}
					continue
				}
				if v == last {
					continue
				}
				last = v
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	return out, nil
}
