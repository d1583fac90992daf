package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/mager/moodboard/moodboard"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultConcurrency caps how many enrichment fetches run at once within a
// single Enrich call.
const DefaultConcurrency = 10

// FetchFunc retrieves the metadata for a single id.
type FetchFunc[K comparable, V any] func(ctx context.Context, id K) (V, error)

type enrichOptions struct {
	concurrency int
	limiter     *rate.Limiter
}

// Option configures an Enrich call.
type Option func(*enrichOptions)

// WithConcurrency overrides the fan-out cap.
func WithConcurrency(n int) Option {
	return func(o *enrichOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLimiter shapes enrichment fetches through a shared rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(o *enrichOptions) { o.limiter = l }
}

// Enrich fetches metadata for every distinct id in ids. Duplicate ids are
// collapsed before any work is scheduled, so each id is fetched exactly
// once. Fetches run concurrently up to the configured cap and are joined
// before Enrich returns. Any failed fetch fails the whole call with an
// EnrichError; callers never observe a partial map.
func Enrich[K comparable, V any](ctx context.Context, ids []K, fetch FetchFunc[K, V], opts ...Option) (map[K]V, error) {
	o := enrichOptions{concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(&o)
	}

	seen := make(map[K]struct{}, len(ids))
	distinct := make([]K, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	out := make(map[K]V, len(distinct))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for _, id := range distinct {
		id := id
		g.Go(func() error {
			if o.limiter != nil {
				if err := o.limiter.Wait(gctx); err != nil {
					return &moodboard.EnrichError{ID: fmt.Sprint(id), Err: err}
				}
			}
			v, err := fetch(gctx, id)
			if err != nil {
				return &moodboard.EnrichError{ID: fmt.Sprint(id), Err: err}
			}
			mu.Lock()
			out[id] = v
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
