// Package stock resolves current stock quantities for product ids, serving from a TTL
// cache and falling back to the store API in batches.
package stock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jekabolt/woometrics/internal/cache"
	"github.com/jekabolt/woometrics/internal/dependency"
	gerr "github.com/jekabolt/woometrics/internal/errors"
	"github.com/jekabolt/woometrics/internal/woo"
	"github.com/jekabolt/woometrics/internal/workerpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultChunkWorkers  = 3
	DefaultDetailWorkers = 5
)

var tracer = otel.Tracer("github.com/jekabolt/woometrics/internal/stock")

type Config struct {
	TTL        time.Duration     `mapstructure:"ttl"`
	ChunkSize  int               `mapstructure:"chunk_size" validate:"gte=0,lte=100"`
	ChunkPool  workerpool.Config `mapstructure:"chunk_pool"`
	DetailPool workerpool.Config `mapstructure:"detail_pool"`
}

type Resolver struct {
	src       dependency.ProductSource
	cache     *cache.Store
	chunks    *workerpool.Pool
	details   *workerpool.Pool
	chunkSize int
}

// New wires a resolver. chunks runs one task per include-batch, details runs the
// per-product variation lookups; they must be different pools.
func New(src dependency.ProductSource, store *cache.Store, chunks, details *workerpool.Pool, chunkSize int) *Resolver {
	if chunkSize <= 0 || chunkSize > woo.MaxPerPage {
		chunkSize = woo.MaxPerPage
	}
	return &Resolver{
		src:       src,
		cache:     store,
		chunks:    chunks,
		details:   details,
		chunkSize: chunkSize,
	}
}

// Cache exposes the underlying store so callers can clear or inspect it.
func (r *Resolver) Cache() *cache.Store {
	return r.cache
}

// GetBatch returns a quantity for every id in ids. forceRefresh clears the whole cache first.
// Lookups that fail yield 0 and are not cached; everything else is cached before returning.
func (r *Resolver) GetBatch(ctx context.Context, ids []int, forceRefresh bool) map[int]int {
	ctx, span := tracer.Start(ctx, "stock.GetBatch")
	defer span.End()

	if forceRefresh {
		r.cache.Clear()
	}
	result, missing := r.cache.Lookup(ids)
	span.SetAttributes(
		attribute.Int("stock.requested", len(ids)),
		attribute.Int("stock.cache_hits", len(result)),
		attribute.Bool("stock.force_refresh", forceRefresh),
	)
	if len(missing) == 0 {
		return result
	}

	var (
		mu       sync.Mutex
		resolved = make(map[int]int, len(missing))
		failed   = make(map[int]struct{})
	)
	merge := func(outcomes map[int]gerr.Outcome[int]) {
		mu.Lock()
		defer mu.Unlock()
		for id, o := range outcomes {
			if o.OK() {
				resolved[id] = o.Value
			} else {
				failed[id] = struct{}{}
			}
		}
	}

	g := r.chunks.Group()
	for start := 0; start < len(missing); start += r.chunkSize {
		chunk := missing[start:min(start+r.chunkSize, len(missing))]
		err := g.Go(ctx, func() {
			merge(r.resolveChunk(ctx, chunk))
		})
		if err != nil {
			slog.Default().ErrorContext(ctx, "can't schedule stock chunk",
				slog.Int("size", len(chunk)),
				slog.String("err", err.Error()),
			)
			merge(failAll(chunk, err))
		}
	}
	g.Wait()

	r.cache.SetMany(resolved)
	for _, id := range missing {
		q, ok := resolved[id]
		if !ok {
			// a chunk task that panicked never merged its ids
			failed[id] = struct{}{}
		}
		result[id] = q
	}
	span.SetAttributes(
		attribute.Int("stock.fetched", len(resolved)),
		attribute.Int("stock.failed", len(failed)),
	)
	return result
}

func failAll(ids []int, err error) map[int]gerr.Outcome[int] {
	out := make(map[int]gerr.Outcome[int], len(ids))
	for _, id := range ids {
		out[id] = gerr.Fail[int](err)
	}
	return out
}

// resolveChunk fetches one include-batch. Ids absent from the response resolve to 0.
func (r *Resolver) resolveChunk(ctx context.Context, ids []int) map[int]gerr.Outcome[int] {
	products, err := r.src.ProductsByID(ctx, ids)
	if err != nil {
		slog.Default().ErrorContext(ctx, "can't fetch product batch",
			slog.Int("size", len(ids)),
			slog.String("kind", gerr.Classify(err).String()),
			slog.String("err", err.Error()),
		)
		return failAll(ids, err)
	}

	wanted := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var mu sync.Mutex
	out := make(map[int]gerr.Outcome[int], len(ids))
	set := func(id int, o gerr.Outcome[int]) {
		mu.Lock()
		out[id] = o
		mu.Unlock()
	}

	g := r.details.Group()
	for _, p := range products {
		if _, ok := wanted[p.ID]; !ok {
			continue
		}
		// Failed until a lookup stores its result, so a panicking lookup is not cached as 0.
		set(p.ID, gerr.Fail[int](fmt.Errorf("stock of %d produced no result: %w", p.ID, gerr.ErrTransientFetch)))
		var err error
		switch {
		case p.StockQuantity != nil:
			set(p.ID, gerr.Ok(*p.StockQuantity))
		case p.Type == woo.ProductTypeVariable:
			err = g.Go(ctx, func() { set(p.ID, r.variableStock(ctx, p.ID)) })
		case p.ParentID != 0:
			err = g.Go(ctx, func() { set(p.ID, r.variationStock(ctx, p.ParentID, p.ID)) })
		default:
			set(p.ID, gerr.Ok(0))
		}
		if err != nil {
			set(p.ID, gerr.Fail[int](err))
		}
	}
	g.Wait()

	for _, id := range ids {
		if _, ok := out[id]; !ok {
			out[id] = gerr.Ok(0)
		}
	}
	return out
}

// variableStock sums the stock of every variation; null counts as 0.
func (r *Resolver) variableStock(ctx context.Context, id int) gerr.Outcome[int] {
	vs, err := r.src.Variations(ctx, id)
	if err != nil {
		slog.Default().ErrorContext(ctx, "can't fetch variations",
			slog.Int("product_id", id),
			slog.String("err", err.Error()),
		)
		return gerr.Fail[int](fmt.Errorf("variations of %d: %w", id, err))
	}
	total := 0
	for _, v := range vs {
		if v.StockQuantity != nil {
			total += *v.StockQuantity
		}
	}
	return gerr.Ok(total)
}

// variationStock prefers the variation's own stock and falls back to the parent product.
func (r *Resolver) variationStock(ctx context.Context, parentID, id int) gerr.Outcome[int] {
	v, err := r.src.Variation(ctx, parentID, id)
	if err != nil {
		slog.Default().ErrorContext(ctx, "can't fetch variation",
			slog.Int("product_id", id),
			slog.Int("parent_id", parentID),
			slog.String("err", err.Error()),
		)
		return gerr.Fail[int](fmt.Errorf("variation %d/%d: %w", parentID, id, err))
	}
	if v.StockQuantity != nil {
		return gerr.Ok(*v.StockQuantity)
	}

	parent, err := r.src.Product(ctx, parentID)
	if err != nil {
		slog.Default().ErrorContext(ctx, "can't fetch parent product",
			slog.Int("product_id", id),
			slog.Int("parent_id", parentID),
			slog.String("err", err.Error()),
		)
		return gerr.Fail[int](fmt.Errorf("parent %d: %w", parentID, err))
	}
	if parent.StockQuantity == nil {
		return gerr.Ok(0)
	}
	return gerr.Ok(*parent.StockQuantity)
}
