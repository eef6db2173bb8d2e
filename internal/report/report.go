// Package report runs the order pipeline for a date range and assembles metrics, CAC and
// customer insights from it.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jekabolt/woometrics/internal/cac"
	"github.com/jekabolt/woometrics/internal/dependency"
	"github.com/jekabolt/woometrics/internal/entity"
	"github.com/jekabolt/woometrics/internal/fetcher"
	"github.com/jekabolt/woometrics/internal/metrics"
	"github.com/jekabolt/woometrics/internal/normalize"
	"github.com/jekabolt/woometrics/internal/stock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("github.com/jekabolt/woometrics/internal/report")

// Service wires the fetch, stock, normalize and aggregation stages together.
type Service struct {
	fetcher    *fetcher.Fetcher
	stock      *stock.Resolver
	normalizer *normalize.Normalizer
	provider   dependency.AdSpendProvider
	cac        cac.Config
}

// New creates a report service. provider may be nil, in which case CAC uses the fixed cost.
func New(f *fetcher.Fetcher, s *stock.Resolver, n *normalize.Normalizer, provider dependency.AdSpendProvider, c cac.Config) *Service {
	return &Service{
		fetcher:    f,
		stock:      s,
		normalizer: n,
		provider:   provider,
		cac:        c,
	}
}

// Stock exposes the stock resolver for cache maintenance.
func (s *Service) Stock() *stock.Resolver {
	return s.stock
}

// Request selects the orders and options of a report.
type Request struct {
	Period       entity.TimeRange
	Status       string
	Granularity  entity.MetricsGranularity
	ForceRefresh bool
	// FixedCost overrides the configured fixed cost per order.
	FixedCost   *float64
	TopProducts int
	// Compare also computes the previous period of equal length.
	Compare bool
}

// Orders is the normalized order set of a period.
type Orders struct {
	RunID       string            `json:"run_id"`
	Period      entity.TimeRange  `json:"period"`
	Orders      []entity.Order    `json:"orders"`
	Items       []entity.LineItem `json:"items"`
	Total       int               `json:"total"`
	TotalPages  int               `json:"total_pages"`
	FailedPages []int             `json:"failed_pages,omitempty"`
	Skipped     int               `json:"skipped"`
}

// Empty reports whether the period had no orders.
func (o *Orders) Empty() bool {
	return len(o.Orders) == 0
}

// Report is the full analysis of a period.
type Report struct {
	RunID       string                        `json:"run_id"`
	Period      entity.TimeRange              `json:"period"`
	Empty       bool                          `json:"empty"`
	Metrics     entity.MetricsSnapshot        `json:"metrics"`
	Comparison  *entity.MetricsComparison     `json:"comparison,omitempty"`
	CAC         entity.CACSnapshot            `json:"cac"`
	Insights    entity.CustomerInsights       `json:"insights"`
	TopProducts []entity.ProductMetric        `json:"top_products"`
	Customers   []entity.CustomerOrderSummary `json:"customers"`
	FailedPages []int                         `json:"failed_pages,omitempty"`
	Skipped     int                           `json:"skipped"`
}

// Orders fetches the orders of period, resolves stock for their products and normalizes them.
// Only a failure of the first orders page is returned.
func (s *Service) Orders(ctx context.Context, period entity.TimeRange, status string, forceRefresh bool) (*Orders, error) {
	return s.orders(ctx, uuid.NewString(), period, status, forceRefresh)
}

func (s *Service) orders(ctx context.Context, runID string, period entity.TimeRange, status string, forceRefresh bool) (*Orders, error) {
	start := time.Now()
	res, err := s.fetcher.Fetch(ctx, period.From, period.To, status)
	if err != nil {
		return nil, fmt.Errorf("can't fetch orders: %w", err)
	}

	stockByID := s.stock.GetBatch(ctx, normalize.ProductIDs(res.Orders), forceRefresh)
	orders, items, skipped := s.normalizer.NormalizeAll(ctx, res.Orders, stockByID)

	slog.Default().InfoContext(ctx, "orders loaded",
		slog.String("run_id", runID),
		slog.Int("orders", len(orders)),
		slog.Int("items", len(items)),
		slog.Int("skipped", skipped),
		slog.Int("failed_pages", len(res.FailedPages)),
		slog.Duration("took", time.Since(start)),
	)

	return &Orders{
		RunID:       runID,
		Period:      period,
		Orders:      orders,
		Items:       items,
		Total:       res.Total,
		TotalPages:  res.TotalPages,
		FailedPages: res.FailedPages,
		Skipped:     skipped,
	}, nil
}

// Build runs the order pipeline, the previous-period pipeline when requested and the ad spend
// lookup concurrently, then aggregates.
func (s *Service) Build(ctx context.Context, req Request) (*Report, error) {
	runID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "report.Build", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.String("period.from", req.Period.From.Format(time.DateOnly)),
		attribute.String("period.to", req.Period.To.Format(time.DateOnly)),
		attribute.Bool("compare", req.Compare),
	))
	defer span.End()
	var (
		cur, prev *Orders
		spend     *prefetched
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cur, err = s.orders(gctx, runID, req.Period, req.Status, req.ForceRefresh)
		return err
	})
	if req.Compare {
		g.Go(func() error {
			var err error
			prev, err = s.orders(gctx, runID, req.Period.Previous(), req.Status, false)
			if err != nil {
				slog.Default().WarnContext(gctx, "can't load comparison period",
					slog.String("run_id", runID),
					slog.String("err", err.Error()))
				prev = nil
			}
			return nil
		})
	}
	if s.provider != nil {
		g.Go(func() error {
			spend = prefetch(gctx, s.provider, req.Period)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	rep := &Report{
		RunID:       runID,
		Period:      req.Period,
		Empty:       cur.Empty(),
		Metrics:     metrics.Calculate(cur.Orders, cur.Items, req.Granularity),
		Insights:    metrics.CustomerInsights(cur.Orders),
		TopProducts: metrics.TopProducts(cur.Items, req.TopProducts),
		Customers:   metrics.CustomerList(cur.Orders),
		FailedPages: cur.FailedPages,
		Skipped:     cur.Skipped,
	}
	if prev != nil {
		cmp := metrics.Compare(rep.Metrics, metrics.Calculate(prev.Orders, prev.Items, req.Granularity), req.Period, prev.Period)
		rep.Comparison = &cmp
	}

	cc := s.cac
	if req.FixedCost != nil {
		cc.FixedCostPerOrder = *req.FixedCost
	}
	var provider dependency.AdSpendProvider
	if spend != nil {
		provider = spend
	}
	rep.CAC = cac.New(cc, provider).Calculate(ctx, cur.Orders, req.Period)

	slog.Default().InfoContext(ctx, "report built",
		slog.String("run_id", runID),
		slog.Int("orders", rep.Metrics.OrderCount),
		slog.Bool("external_ad_spend", rep.CAC.UsingExternalData),
	)
	return rep, nil
}

// Campaigns returns the campaign performance of period, or nil without a provider.
func (s *Service) Campaigns(ctx context.Context, period entity.TimeRange) []entity.CampaignPerformance {
	if s.provider == nil {
		return nil
	}
	return prefetch(ctx, s.provider, period).campaigns
}
