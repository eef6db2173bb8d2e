// Package fetcher retrieves every order of a date range, page 1 synchronously and the
// remaining pages through a bounded worker pool.
package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jekabolt/woometrics/internal/dependency"
	gerr "github.com/jekabolt/woometrics/internal/errors"
	"github.com/jekabolt/woometrics/internal/woo"
	"github.com/jekabolt/woometrics/internal/workerpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
)

const DefaultWorkers = 5

var tracer = otel.Tracer("github.com/jekabolt/woometrics/internal/fetcher")

type Config struct {
	Pool    workerpool.Config `mapstructure:"pool"`
	PerPage int               `mapstructure:"per_page" validate:"gte=0,lte=100"`
}

type Fetcher struct {
	src     dependency.OrderSource
	pool    *workerpool.Pool
	loc     *time.Location
	perPage int
}

// New builds a fetcher. The pool is shared by every Fetch call.
func New(src dependency.OrderSource, pool *workerpool.Pool, loc *time.Location, perPage int) *Fetcher {
	if loc == nil {
		loc = time.UTC
	}
	if perPage <= 0 || perPage > woo.MaxPerPage {
		perPage = woo.MaxPerPage
	}
	return &Fetcher{src: src, pool: pool, loc: loc, perPage: perPage}
}

// Result is the merged order list. Pages that failed contribute nothing and are listed in FailedPages.
type Result struct {
	Orders      []woo.Order
	Total       int
	TotalPages  int
	FailedPages []int
}

// DayBounds converts calendar days to the first and last instant of those days in loc.
func DayBounds(start, end time.Time, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	to := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, loc)
	return from, to
}

// Fetch returns every order created between the start and end days. Only a failure of the
// first page is returned as an error; later page failures are logged and recorded.
func (f *Fetcher) Fetch(ctx context.Context, start, end time.Time, status string) (*Result, error) {
	if status == "" {
		status = "any"
	}
	after, before := DayBounds(start, end, f.loc)

	ctx, span := tracer.Start(ctx, "fetcher.Fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("orders.after", after.UTC().Format(time.RFC3339)),
		attribute.String("orders.before", before.UTC().Format(time.RFC3339)),
		attribute.String("orders.status", status),
	)

	query := func(page int) woo.OrderQuery {
		return woo.OrderQuery{After: after, Before: before, Status: status, Page: page, PerPage: f.perPage}
	}

	first, err := f.src.Orders(ctx, query(1))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "first page failed")
		slog.Default().ErrorContext(ctx, "can't fetch first orders page",
			slog.String("err", err.Error()),
			slog.String("kind", gerr.Classify(err).String()),
		)
		return nil, fmt.Errorf("fetch orders page 1: %w", err)
	}

	res := &Result{
		Total:      first.Total,
		TotalPages: max(first.TotalPages, 1),
	}
	if len(first.Orders) == 0 || res.TotalPages == 1 {
		res.Orders = first.Orders
		span.SetAttributes(attribute.Int("orders.count", len(res.Orders)))
		return res, nil
	}

	// A page stays failed until its task stores a result, so a task that panics is reported.
	outcomes := make([]gerr.Outcome[[]woo.Order], res.TotalPages+1)
	outcomes[1] = gerr.Ok(first.Orders)
	for page := 2; page <= res.TotalPages; page++ {
		outcomes[page] = gerr.Fail[[]woo.Order](fmt.Errorf("page %d produced no result: %w", page, gerr.ErrTransientFetch))
	}

	g := f.pool.Group()
	for page := 2; page <= res.TotalPages; page++ {
		err := g.Go(ctx, func() {
			p, err := f.src.Orders(ctx, query(page))
			if err != nil {
				outcomes[page] = gerr.Fail[[]woo.Order](err)
				return
			}
			outcomes[page] = gerr.Ok(p.Orders)
		})
		if err != nil {
			outcomes[page] = gerr.Fail[[]woo.Order](fmt.Errorf("schedule page %d: %v: %w", page, err, gerr.ErrTransientFetch))
		}
	}
	g.Wait()

	for page := 1; page <= res.TotalPages; page++ {
		o := outcomes[page]
		if !o.OK() {
			res.FailedPages = append(res.FailedPages, page)
			slog.Default().WarnContext(ctx, "orders page failed",
				slog.Int("page", page),
				slog.String("kind", o.Kind().String()),
				slog.String("err", o.Err.Error()),
			)
			continue
		}
		res.Orders = append(res.Orders, o.Value...)
	}

	span.SetAttributes(
		attribute.Int("orders.count", len(res.Orders)),
		attribute.Int("orders.failed_pages", len(res.FailedPages)),
	)
	slog.Default().DebugContext(ctx, "orders fetched",
		slog.Int("orders", len(res.Orders)),
		slog.Int("pages", res.TotalPages),
		slog.Int("failed_pages", len(res.FailedPages)),
	)
	return res, nil
}
