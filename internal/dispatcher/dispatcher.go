package dispatcher

import (
	"context"
	"fmt"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/querycache"
	"github.com/ishtiakalhumaidi/bidstock-client/utils"
)

// Mutation is a command object: one validated write against the API plus the
// cache keys stale after it succeeds. Validate runs before any network work;
// a validation failure means no request is ever issued.
type Mutation[T any] struct {
	Name        string
	Validate    func() error
	Run         func(ctx context.Context) (T, error)
	Invalidates []querycache.Key
}

// Dispatcher executes mutations and owns cache invalidation. Services never
// touch cache keys after a write themselves; the invalidation set travels
// with the command, so each key is invalidated exactly once per successful
// mutation.
type Dispatcher struct {
	cache *querycache.Cache
}

// New creates a Dispatcher over the shared cache.
func New(cache *querycache.Cache) *Dispatcher {
	return &Dispatcher{cache: cache}
}

// Dispatch runs one mutation. On failure nothing is invalidated and the
// cache keeps its pre-action state.
func Dispatch[T any](ctx context.Context, d *Dispatcher, m Mutation[T]) (T, error) {
	var zero T

	if m.Validate != nil {
		if err := m.Validate(); err != nil {
			return zero, fmt.Errorf("%s: %w", m.Name, err)
		}
	}

	result, err := m.Run(ctx)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", m.Name, err)
	}

	d.cache.Invalidate(dedupe(m.Invalidates)...)

	utils.Debug("mutation dispatched", map[string]any{
		"mutation":    m.Name,
		"invalidated": len(m.Invalidates),
	})
	return result, nil
}

// dedupe drops repeated keys so a careless command cannot double-invalidate.
func dedupe(keys []querycache.Key) []querycache.Key {
	seen := make(map[querycache.Key]struct{}, len(keys))
	out := make([]querycache.Key, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
