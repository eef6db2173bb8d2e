// Package cac computes customer acquisition cost against revenue for a window of orders.
package cac

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jekabolt/woometrics/internal/adspend"
	"github.com/jekabolt/woometrics/internal/dependency"
	"github.com/jekabolt/woometrics/internal/entity"
	"github.com/shopspring/decimal"
)

const (
	DefaultFixedCostPerOrder = 30
	rollingWindow            = 7
)

var hundred = decimal.NewFromInt(100)

// Config holds CAC settings.
type Config struct {
	// FixedCostPerOrder is the assumed ad cost of every order when no ad spend data is available.
	FixedCostPerOrder float64 `mapstructure:"fixed_cost_per_order" validate:"gte=0"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{FixedCostPerOrder: DefaultFixedCostPerOrder}
}

// Engine estimates CAC from a provider's ad spend, or from a fixed cost per order when
// the provider is missing or has no data.
type Engine struct {
	fixedCost decimal.Decimal
	provider  dependency.AdSpendProvider
}

// New creates an engine. provider may be nil. A zero fixed cost is honoured; only a
// negative one falls back to DefaultFixedCostPerOrder.
func New(c Config, provider dependency.AdSpendProvider) *Engine {
	fixed := decimal.NewFromFloat(c.FixedCostPerOrder)
	if fixed.IsNegative() {
		fixed = decimal.NewFromInt(DefaultFixedCostPerOrder)
	}
	return &Engine{fixedCost: fixed, provider: provider}
}

// Calculate segments the customers of orders into new (exactly one order in the window) and
// repeat, and relates ad spend over period to them.
func (e *Engine) Calculate(ctx context.Context, orders []entity.Order, period entity.TimeRange) entity.CACSnapshot {
	s := entity.CACSnapshot{
		Period:             period,
		AdSpend:            decimal.Zero,
		Revenue:            decimal.Zero,
		CAC:                decimal.Zero,
		ROI:                decimal.Zero,
		LTV:                decimal.Zero,
		CACToLTVRatio:      decimal.Zero,
		BreakevenPoint:     decimal.Zero,
		RevenuePerCustomer: decimal.Zero,
		DailyTrend:         []entity.CACTrendPoint{},
	}
	if len(orders) == 0 {
		return s
	}

	perCustomer := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	for _, o := range orders {
		k := o.CustomerKey()
		counts[k]++
		perCustomer[k] = perCustomer[k].Add(o.Total)
		s.Revenue = s.Revenue.Add(o.Total)
	}
	for _, n := range counts {
		if n == 1 {
			s.NewCustomers++
		} else {
			s.RepeatCustomers++
		}
	}

	spend := e.adSpend(ctx, period)
	if spend.HasData {
		s.AdSpend = spend.TotalSpend
		s.UsingExternalData = true
		s.AdSpendSource = spend.Source
		s.Campaigns = e.campaigns(ctx, period)
	} else {
		s.AdSpend = e.fixedCost.Mul(decimal.NewFromInt(int64(len(orders))))
		s.AdSpendSource = spend.Source
		s.AdSpendReason = spend.Reason
		s.AdSpendError = spend.ErrorMessage
	}

	customers := decimal.NewFromInt(int64(len(counts)))
	if s.NewCustomers > 0 {
		s.CAC = s.AdSpend.Div(decimal.NewFromInt(int64(s.NewCustomers)))
	}
	s.RevenuePerCustomer = s.Revenue.Div(customers)

	ltv := decimal.Zero
	for _, total := range perCustomer {
		ltv = ltv.Add(total)
	}
	s.LTV = ltv.Div(customers)
	if !s.CAC.IsZero() {
		s.CACToLTVRatio = s.LTV.Div(s.CAC)
	}
	s.ROI = roi(s.Revenue, s.AdSpend)

	aov := s.Revenue.Div(decimal.NewFromInt(int64(len(orders))))
	if aov.IsPositive() {
		s.BreakevenPoint = s.CAC.Div(aov)
	}

	var byDate map[string]decimal.Decimal
	if spend.HasData {
		byDate = spend.SpendByDate
	}
	s.DailyTrend = e.trend(orders, byDate)
	return s
}

func roi(revenue, spend decimal.Decimal) decimal.Decimal {
	if !spend.IsPositive() {
		return decimal.Zero
	}
	return revenue.Sub(spend).Div(spend).Mul(hundred)
}

// adSpend asks the provider, converting a missing provider or a panic into HasData=false.
func (e *Engine) adSpend(ctx context.Context, period entity.TimeRange) (out entity.AdSpend) {
	if e.provider == nil {
		return entity.AdSpend{
			Source:       "none",
			Reason:       entity.AdSpendReasonNotConfigured,
			ErrorMessage: "no ad spend provider configured",
		}
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Default().ErrorContext(ctx, "ad spend provider panicked",
				slog.String("err", fmt.Sprint(r)))
			out = entity.AdSpend{
				Reason:       entity.AdSpendReasonQueryError,
				ErrorMessage: fmt.Sprintf("ad spend provider panicked: %v", r),
			}
		}
	}()
	return e.provider.TotalAdSpend(ctx, period.From, period.To)
}

func (e *Engine) campaigns(ctx context.Context, period entity.TimeRange) (out []entity.CampaignPerformance) {
	defer func() {
		if r := recover(); r != nil {
			slog.Default().ErrorContext(ctx, "campaign performance panicked",
				slog.String("err", fmt.Sprint(r)))
			out = nil
		}
	}()
	return e.provider.CampaignPerformance(ctx, period.From, period.To)
}

type day struct {
	date      time.Time
	revenue   decimal.Decimal
	orders    int
	customers map[string]struct{}
}

// trend builds one point per calendar day that has orders, oldest first. Daily spend comes
// from byDate (0 for days it lacks) or, when byDate is nil, from the fixed cost per order.
func (e *Engine) trend(orders []entity.Order, byDate map[string]decimal.Decimal) []entity.CACTrendPoint {
	days := make(map[string]*day)
	for _, o := range orders {
		k := adspend.DateKey(o.Date)
		d, ok := days[k]
		if !ok {
			d = &day{
				date:      time.Date(o.Date.Year(), o.Date.Month(), o.Date.Day(), 0, 0, 0, 0, o.Date.Location()),
				revenue:   decimal.Zero,
				customers: make(map[string]struct{}),
			}
			days[k] = d
		}
		d.revenue = d.revenue.Add(o.Total)
		d.orders++
		d.customers[o.CustomerKey()] = struct{}{}
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]entity.CACTrendPoint, 0, len(keys))
	for _, k := range keys {
		d := days[k]
		p := entity.CACTrendPoint{
			Date:            d.date,
			Revenue:         d.revenue,
			UniqueCustomers: len(d.customers),
			OrderCount:      d.orders,
			CAC:             decimal.Zero,
		}
		if byDate != nil {
			p.AdSpend = byDate[k]
		} else {
			p.AdSpend = e.fixedCost.Mul(decimal.NewFromInt(int64(d.orders)))
		}
		if p.UniqueCustomers > 0 {
			p.CAC = p.AdSpend.Div(decimal.NewFromInt(int64(p.UniqueCustomers)))
		}
		p.ROI = roi(p.Revenue, p.AdSpend)
		out = append(out, p)
	}

	for i := range out {
		lo := max(0, i-rollingWindow+1)
		n := decimal.NewFromInt(int64(i - lo + 1))
		cacSum, roiSum := decimal.Zero, decimal.Zero
		for _, p := range out[lo : i+1] {
			cacSum = cacSum.Add(p.CAC)
			roiSum = roiSum.Add(p.ROI)
		}
		out[i].CAC7DayAvg = cacSum.Div(n)
		out[i].ROI7DayAvg = roiSum.Div(n)
	}
	return out
}
