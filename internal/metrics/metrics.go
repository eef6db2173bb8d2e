// Package metrics rolls normalized orders up into revenue, VAT, shipping and profit figures.
// Every function is pure and safe on empty input.
package metrics

import (
	"sort"

	"github.com/jekabolt/woometrics/internal/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Calculate builds the snapshot of orders and their line items.
// Revenue excl. VAT is the sum of order subtotals; it never includes shipping or tax.
func Calculate(orders []entity.Order, items []entity.LineItem, g entity.MetricsGranularity) entity.MetricsSnapshot {
	s := entity.MetricsSnapshot{
		Granularity:    g.String(),
		RevenueInclVAT: decimal.Zero,
		RevenueExclVAT: decimal.Zero,
		ShippingBase:   decimal.Zero,
		ShippingTax:    decimal.Zero,
		ShippingTotal:  decimal.Zero,
		TaxTotal:       decimal.Zero,
		COGS:           decimal.Zero,
		Profit:         decimal.Zero,
		Margin:         decimal.Zero,
		AverageRevenue: decimal.Zero,
		Buckets:        []entity.PeriodBucket{},
	}

	buckets := make(map[string]*entity.PeriodBucket)
	for _, o := range orders {
		s.RevenueInclVAT = s.RevenueInclVAT.Add(o.Total)
		s.RevenueExclVAT = s.RevenueExclVAT.Add(o.Subtotal)
		s.ShippingBase = s.ShippingBase.Add(o.ShippingBase)
		s.ShippingTax = s.ShippingTax.Add(o.ShippingTax)
		s.TaxTotal = s.TaxTotal.Add(o.TaxTotal)
		if !o.IsPending() {
			s.OrderCount++
		}

		key := PeriodKey(o.Date, g)
		b, ok := buckets[key]
		if !ok {
			b = &entity.PeriodBucket{Key: key, Start: bucketStart(o.Date, g), Revenue: decimal.Zero}
			buckets[key] = b
		}
		b.Revenue = b.Revenue.Add(o.Total)
		if !o.IsPending() {
			b.Orders++
		}
	}
	s.ShippingTotal = s.ShippingBase.Add(s.ShippingTax)

	for _, it := range items {
		s.COGS = s.COGS.Add(it.CostTotal)
	}
	s.Profit = s.RevenueExclVAT.Sub(s.COGS)
	if !s.RevenueExclVAT.IsZero() {
		s.Margin = s.Profit.Div(s.RevenueExclVAT).Mul(hundred)
	}

	for _, b := range buckets {
		s.Buckets = append(s.Buckets, *b)
	}
	sort.Slice(s.Buckets, func(i, j int) bool {
		return s.Buckets[i].Start.Before(s.Buckets[j].Start)
	})
	if n := len(s.Buckets); n > 0 {
		s.AverageRevenue = s.RevenueInclVAT.Div(decimal.NewFromInt(int64(n)))
		s.PeriodKey = s.Buckets[0].Key
		if n > 1 {
			s.PeriodKey += "/" + s.Buckets[n-1].Key
		}
	}
	return s
}

// Compare pairs the headline figures of two snapshots.
func Compare(current, previous entity.MetricsSnapshot, period, comparePeriod entity.TimeRange) entity.MetricsComparison {
	return entity.MetricsComparison{
		Period:         period,
		ComparePeriod:  comparePeriod,
		RevenueInclVAT: compare(current.RevenueInclVAT, previous.RevenueInclVAT),
		RevenueExclVAT: compare(current.RevenueExclVAT, previous.RevenueExclVAT),
		Profit:         compare(current.Profit, previous.Profit),
		OrderCount:     compare(decimal.NewFromInt(int64(current.OrderCount)), decimal.NewFromInt(int64(previous.OrderCount))),
		AverageRevenue: compare(current.AverageRevenue, previous.AverageRevenue),
	}
}
