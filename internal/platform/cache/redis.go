package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// New creates a new Redis client.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("platform/cache: ping: %w", err)
	}

	return client, nil
}

// Store is a Redis client together with the in-process server backing it,
// if any.
type Store struct {
	Client   *redis.Client
	embedded *miniredis.Miniredis
}

// Open connects to addr. An empty addr starts an in-process Redis server.
func Open(ctx context.Context, addr string) (*Store, error) {
	if addr != "" {
		client, err := New(ctx, addr)
		if err != nil {
			return nil, err
		}
		return &Store{Client: client}, nil
	}
	srv, err := miniredis.Run()
	if err != nil {
		return nil, fmt.Errorf("platform/cache: embedded redis: %w", err)
	}
	client, err := New(ctx, srv.Addr())
	if err != nil {
		srv.Close()
		return nil, err
	}
	return &Store{Client: client, embedded: srv}, nil
}

// Embedded reports whether the store runs an in-process server.
func (s *Store) Embedded() bool {
	return s != nil && s.embedded != nil
}

// Close releases the client and stops the embedded server.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	err := s.Client.Close()
	if s.embedded != nil {
		s.embedded.Close()
	}
	return err
}
