// Package cache memoizes solve() results behind a content hash of
// (graph, config), backed by Redis. It wraps layout.Solve at the call
// boundary only: the core engine stays cache-agnostic, matching the
// producer/consumer split the controller already uses for streaming.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/foundryflow/layoutengine/pkg/layout"
)

// Store wraps a Redis client scoped to a key prefix and TTL. A singleflight
// group collapses concurrent Solve calls that land on the same key into one
// solver run, so a burst of identical requests for an uncached graph doesn't
// spin up the bounds search once per caller.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	group  singleflight.Group
}

// New connects to the Redis instance at addr. ttl <= 0 means cache entries
// never expire.
func New(addr, prefix string, ttl time.Duration) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
		ttl:    ttl,
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.client.Close() }

// Key derives the cache key for (graph, config): a hex sha256 of their
// canonical JSON encoding, so any change to either invalidates the entry.
func Key(graph *layout.ProductionGraph, config layout.SolverConfig) (string, error) {
	payload := struct {
		Graph  *layout.ProductionGraph `json:"graph"`
		Config layout.SolverConfig     `json:"config"`
	}{graph, config}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("cache: marshal key payload: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the cached solution for key, or ok=false on a cache miss.
func (s *Store) Get(ctx context.Context, key string) (sol layout.LayoutSolution, ok bool, err error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return layout.LayoutSolution{}, false, nil
	}
	if err != nil {
		return layout.LayoutSolution{}, false, fmt.Errorf("cache: get: %w", err)
	}
	if err := json.Unmarshal(raw, &sol); err != nil {
		return layout.LayoutSolution{}, false, fmt.Errorf("cache: decode: %w", err)
	}
	return sol, true, nil
}

// Set stores sol under key, overwriting any existing entry.
func (s *Store) Set(ctx context.Context, key string, sol layout.LayoutSolution) error {
	data, err := json.Marshal(sol)
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set: %w", err)
	}
	return nil
}

// Solve runs layout.Solve, draining its stream to the terminal solution and
// caching it, unless a cached solution already exists for (graph, config).
// Attempts are not cached or replayed on a hit: only the terminal solution
// is memoized, since attempts are informational progress, not part of the
// result's identity.
func (s *Store) Solve(ctx context.Context, graph *layout.ProductionGraph, config layout.SolverConfig) (layout.LayoutSolution, error) {
	key, err := Key(graph, config)
	if err != nil {
		return layout.LayoutSolution{}, err
	}

	if sol, ok, err := s.Get(ctx, key); err != nil {
		return layout.LayoutSolution{}, err
	} else if ok {
		return sol, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		items, errs := layout.Solve(ctx, graph, config)
		var sol layout.LayoutSolution
		for item := range items {
			if item.Type == layout.ItemSolution {
				sol = item.Data.(layout.LayoutSolution)
			}
		}
		if err := <-errs; err != nil {
			return layout.LayoutSolution{}, err
		}
		if err := s.Set(ctx, key, sol); err != nil {
			return sol, err
		}
		return sol, nil
	})
	if err != nil {
		return layout.LayoutSolution{}, err
	}
	return v.(layout.LayoutSolution), nil
}
