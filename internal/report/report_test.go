package report

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jekabolt/woometrics/internal/cac"
	"github.com/jekabolt/woometrics/internal/cache"
	"github.com/jekabolt/woometrics/internal/dependency/mocks"
	"github.com/jekabolt/woometrics/internal/entity"
	gerr "github.com/jekabolt/woometrics/internal/errors"
	"github.com/jekabolt/woometrics/internal/fetcher"
	"github.com/jekabolt/woometrics/internal/normalize"
	"github.com/jekabolt/woometrics/internal/stock"
	"github.com/jekabolt/woometrics/internal/woo"
	"github.com/jekabolt/woometrics/internal/workerpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var week = entity.TimeRange{
	From: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
	To:   time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
}

func ptrInt(n int) *int { return &n }

func wooOrder(id int, day time.Time, email, total string) woo.Order {
	return woo.Order{
		ID:             id,
		Status:         "completed",
		DateCreatedGMT: day.Add(12 * time.Hour).Format("2006-01-02T15:04:05"),
		Total:          woo.NewAmount(total),
		Billing:        woo.Billing{Email: email, City: "Oslo"},
		LineItems: []woo.LineItem{
			{ProductID: 5, Name: "Mug", Quantity: 1, Subtotal: woo.NewAmount(total), Total: woo.NewAmount(total)},
		},
	}
}

func newService(t *testing.T, orders *mocks.OrderSource, products *mocks.ProductSource, provider *mocks.AdSpendProvider) *Service {
	t.Helper()
	pages := workerpool.New("orders", workerpool.Config{}, fetcher.DefaultWorkers)
	chunks := workerpool.New("stock-chunks", workerpool.Config{}, stock.DefaultChunkWorkers)
	details := workerpool.New("stock-details", workerpool.Config{}, stock.DefaultDetailWorkers)
	t.Cleanup(func() {
		pages.Close()
		chunks.Close()
		details.Close()
	})

	f := fetcher.New(orders, pages, time.UTC, 100)
	r := stock.New(products, cache.NewStore(cache.DefaultStockTTL), chunks, details, 100)
	n := normalize.New(time.UTC)
	if provider == nil {
		return New(f, r, n, nil, cac.DefaultConfig())
	}
	return New(f, r, n, provider, cac.DefaultConfig())
}

func pageFor(q woo.OrderQuery) (*woo.OrdersPage, error) {
	if q.After.Before(week.From) {
		return &woo.OrdersPage{
			Orders:     []woo.Order{wooOrder(1, week.From.AddDate(0, 0, -3), "old@example.com", "100")},
			Total:      1,
			TotalPages: 1,
		}, nil
	}
	return &woo.OrdersPage{
		Orders: []woo.Order{
			wooOrder(2, week.From, "kari@example.com", "150"),
			wooOrder(3, week.From.AddDate(0, 0, 1), "kari@example.com", "150"),
			wooOrder(4, week.From.AddDate(0, 0, 2), "ola@example.com", "300"),
		},
		Total:      3,
		TotalPages: 1,
	}, nil
}

func TestBuild(t *testing.T) {
	orders := mocks.NewOrderSource(t)
	orders.EXPECT().Orders(mock.Anything, mock.Anything).RunAndReturn(func(_ context.Context, q woo.OrderQuery) (*woo.OrdersPage, error) {
		return pageFor(q)
	})
	products := mocks.NewProductSource(t)
	products.EXPECT().ProductsByID(mock.Anything, []int{5}).Return([]woo.Product{{ID: 5, StockQuantity: ptrInt(9)}}, nil)

	provider := mocks.NewAdSpendProvider(t)
	provider.EXPECT().TotalAdSpend(mock.Anything, week.From, week.To).Return(entity.AdSpend{
		TotalSpend:  decimal.NewFromInt(120),
		SpendByDate: map[string]decimal.Decimal{"2024-03-08": decimal.NewFromInt(120)},
		HasData:     true,
		Source:      "ga4",
	})
	provider.EXPECT().CampaignPerformance(mock.Anything, week.From, week.To).Return([]entity.CampaignPerformance{{Campaign: "spring"}})

	s := newService(t, orders, products, provider)
	rep, err := s.Build(context.Background(), Request{
		Period:      week,
		Granularity: entity.MetricsGranularityDay,
		Compare:     true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rep.RunID)
	assert.False(t, rep.Empty)
	assert.Equal(t, 3, rep.Metrics.OrderCount)
	assert.True(t, decimal.NewFromInt(600).Equal(rep.Metrics.RevenueInclVAT))
	require.Len(t, rep.Metrics.Buckets, 3)

	require.NotNil(t, rep.Comparison)
	require.NotNil(t, rep.Comparison.RevenueInclVAT.ChangePct)
	assert.InDelta(t, 500.0, *rep.Comparison.RevenueInclVAT.ChangePct, 0.0001)

	assert.Equal(t, 1, rep.CAC.NewCustomers)
	assert.Equal(t, 1, rep.CAC.RepeatCustomers)
	assert.True(t, rep.CAC.UsingExternalData)
	assert.True(t, decimal.NewFromInt(120).Equal(rep.CAC.CAC))
	require.Len(t, rep.CAC.Campaigns, 1)

	require.Len(t, rep.TopProducts, 1)
	assert.Equal(t, 3, rep.TopProducts[0].Quantity)
	assert.Equal(t, 9, rep.TopProducts[0].StockQuantity)
	assert.Len(t, rep.Customers, 3)
	assert.Equal(t, 1, rep.Insights.NewCustomers)
}

func TestBuildWithoutProvider(t *testing.T) {
	orders := mocks.NewOrderSource(t)
	orders.EXPECT().Orders(mock.Anything, mock.Anything).RunAndReturn(func(_ context.Context, q woo.OrderQuery) (*woo.OrdersPage, error) {
		return pageFor(q)
	})
	products := mocks.NewProductSource(t)
	products.EXPECT().ProductsByID(mock.Anything, mock.Anything).Return(nil, fmt.Errorf("boom: %w", gerr.ErrTransientFetch))

	s := newService(t, orders, products, nil)
	fixed := 10.0
	rep, err := s.Build(context.Background(), Request{Period: week, FixedCost: &fixed})
	require.NoError(t, err)

	assert.Nil(t, rep.Comparison)
	assert.False(t, rep.CAC.UsingExternalData)
	assert.Equal(t, entity.AdSpendReasonNotConfigured, rep.CAC.AdSpendReason)
	assert.True(t, decimal.NewFromInt(30).Equal(rep.CAC.AdSpend))
	assert.Equal(t, 0, rep.TopProducts[0].StockQuantity)
	assert.Nil(t, s.Campaigns(context.Background(), week))
}

func TestBuildEmptyPeriod(t *testing.T) {
	orders := mocks.NewOrderSource(t)
	orders.EXPECT().Orders(mock.Anything, mock.Anything).Return(&woo.OrdersPage{}, nil)
	products := mocks.NewProductSource(t)

	s := newService(t, orders, products, nil)
	rep, err := s.Build(context.Background(), Request{Period: week})
	require.NoError(t, err)

	assert.True(t, rep.Empty)
	assert.Zero(t, rep.Metrics.OrderCount)
	assert.True(t, rep.CAC.CAC.IsZero())
}

func TestBuildFirstPageFailure(t *testing.T) {
	orders := mocks.NewOrderSource(t)
	orders.EXPECT().Orders(mock.Anything, mock.Anything).Return(nil, fmt.Errorf("401: %w", gerr.ErrConfiguration))
	products := mocks.NewProductSource(t)

	s := newService(t, orders, products, nil)
	_, err := s.Build(context.Background(), Request{Period: week})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gerr.ErrConfiguration))
}

func TestPrefetchRecoversPanic(t *testing.T) {
	provider := mocks.NewAdSpendProvider(t)
	provider.EXPECT().TotalAdSpend(mock.Anything, mock.Anything, mock.Anything).
		Run(func(context.Context, time.Time, time.Time) { panic("boom") })

	p := prefetch(context.Background(), provider, week)
	assert.False(t, p.spend.HasData)
	assert.Equal(t, entity.AdSpendReasonQueryError, p.spend.Reason)
	assert.Nil(t, p.CampaignPerformance(context.Background(), week.From, week.To))
}
