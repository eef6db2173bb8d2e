package metrics

import (
	"testing"
	"time"

	"github.com/jekabolt/woometrics/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, dd, h int) time.Time {
	return time.Date(y, m, dd, h, 0, 0, 0, time.UTC)
}

func order(id int, date time.Time, status, total, subtotal, shipBase, shipTax, tax string) entity.Order {
	return entity.Order{
		ID:            id,
		Date:          date,
		Status:        status,
		Total:         d(total),
		Subtotal:      d(subtotal),
		ShippingBase:  d(shipBase),
		ShippingTax:   d(shipTax),
		ShippingTotal: d(shipBase).Add(d(shipTax)),
		TaxTotal:      d(tax),
	}
}

func sampleOrders() []entity.Order {
	return []entity.Order{
		order(1, day(2024, 3, 4, 9), "completed", "1375", "1000", "100", "25", "275"),
		order(2, day(2024, 3, 4, 18), "processing", "250", "160", "40", "10", "50"),
		order(3, day(2024, 3, 6, 12), "pending", "500", "400", "0", "0", "100"),
		order(4, day(2024, 3, 12, 8), "completed", "99.90", "79.92", "0", "0", "19.98"),
	}
}

func TestCalculateTotals(t *testing.T) {
	orders := sampleOrders()
	items := []entity.LineItem{
		{OrderID: 1, CostTotal: d("301")},
		{OrderID: 2, CostTotal: d("40")},
		{OrderID: 4, CostTotal: d("0")},
	}

	s := Calculate(orders, items, entity.MetricsGranularityDay)

	subtotals := decimal.Zero
	for _, o := range orders {
		subtotals = subtotals.Add(o.Subtotal)
		assert.True(t, o.ShippingTotal.Equal(o.ShippingBase.Add(o.ShippingTax)))
	}
	assert.True(t, subtotals.Equal(s.RevenueExclVAT), "revenue excl. VAT must equal Σ subtotal")
	assert.True(t, d("1639.92").Equal(s.RevenueExclVAT))
	assert.True(t, d("2224.90").Equal(s.RevenueInclVAT))
	assert.True(t, d("140").Equal(s.ShippingBase))
	assert.True(t, d("35").Equal(s.ShippingTax))
	assert.True(t, s.ShippingTotal.Equal(s.ShippingBase.Add(s.ShippingTax)))
	assert.True(t, d("444.98").Equal(s.TaxTotal))
	assert.True(t, d("341").Equal(s.COGS))
	assert.True(t, d("1298.92").Equal(s.Profit))
	assert.Equal(t, 3, s.OrderCount)

	margin, _ := s.Margin.Float64()
	assert.InDelta(t, 79.206, margin, 0.001)
}

func TestCalculatePendingExcluded(t *testing.T) {
	statuses := []string{"pending", "completed", "pending", "on-hold", "refunded", "pending"}
	var orders []entity.Order
	for i, st := range statuses {
		orders = append(orders, order(i+1, day(2024, 3, 1, i), st, "10", "8", "0", "0", "2"))
	}
	s := Calculate(orders, nil, entity.MetricsGranularityDay)
	assert.Equal(t, 3, s.OrderCount)
	assert.True(t, d("60").Equal(s.RevenueInclVAT))
}

func TestCalculateBuckets(t *testing.T) {
	orders := sampleOrders()

	daily := Calculate(orders, nil, entity.MetricsGranularityDay)
	require.Len(t, daily.Buckets, 3)
	assert.Equal(t, "2024-03-04", daily.Buckets[0].Key)
	assert.Equal(t, "2024-03-06", daily.Buckets[1].Key)
	assert.Equal(t, "2024-03-12", daily.Buckets[2].Key)
	assert.True(t, d("1625").Equal(daily.Buckets[0].Revenue))
	assert.Equal(t, 2, daily.Buckets[0].Orders)
	assert.Equal(t, 0, daily.Buckets[1].Orders)
	assert.Equal(t, "2024-03-04/2024-03-12", daily.PeriodKey)

	avg, _ := daily.AverageRevenue.Float64()
	assert.InDelta(t, 2224.90/3, avg, 1e-9)

	weekly := Calculate(orders, nil, entity.MetricsGranularityWeek)
	require.Len(t, weekly.Buckets, 2)
	assert.Equal(t, "2024-W10", weekly.Buckets[0].Key)
	assert.Equal(t, day(2024, 3, 4, 0), weekly.Buckets[0].Start)
	assert.Equal(t, "2024-W11", weekly.Buckets[1].Key)
	assert.True(t, d("1112.45").Equal(weekly.AverageRevenue))

	monthly := Calculate(orders, nil, entity.MetricsGranularityMonth)
	require.Len(t, monthly.Buckets, 1)
	assert.Equal(t, "2024-03", monthly.Buckets[0].Key)
	assert.True(t, d("2224.90").Equal(monthly.AverageRevenue))
}

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil, nil, entity.MetricsGranularityWeek)
	assert.True(t, s.RevenueInclVAT.IsZero())
	assert.True(t, s.Margin.IsZero())
	assert.True(t, s.AverageRevenue.IsZero())
	assert.Equal(t, 0, s.OrderCount)
	assert.Empty(t, s.Buckets)
	assert.Equal(t, "week", s.Granularity)
}

func TestPeriodKeyISOWeek(t *testing.T) {
	// 2021-01-03 is a Sunday that belongs to ISO week 53 of 2020.
	assert.Equal(t, "2020-W53", PeriodKey(day(2021, 1, 3, 0), entity.MetricsGranularityWeek))
	assert.Equal(t, day(2020, 12, 28, 0), bucketStart(day(2021, 1, 3, 15), entity.MetricsGranularityWeek))
}

func TestCompare(t *testing.T) {
	cur := Calculate(sampleOrders(), nil, entity.MetricsGranularityDay)
	prev := Calculate(sampleOrders()[:2], nil, entity.MetricsGranularityDay)
	period := entity.TimeRange{From: day(2024, 3, 4, 0), To: day(2024, 3, 12, 0)}

	c := Compare(cur, prev, period, period.Previous())
	require.NotNil(t, c.OrderCount.ChangePct)
	assert.InDelta(t, 50.0, *c.OrderCount.ChangePct, 1e-9)
	assert.Equal(t, day(2024, 2, 24, 0), c.ComparePeriod.From)
	assert.Equal(t, day(2024, 3, 3, 0), c.ComparePeriod.To)

	empty := Compare(cur, Calculate(nil, nil, entity.MetricsGranularityDay), period, period.Previous())
	assert.Nil(t, empty.RevenueInclVAT.ChangePct)
}
