package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricsGranularity controls the bucket size used for period keys.
type MetricsGranularity int

const (
	MetricsGranularityDay   MetricsGranularity = 1
	MetricsGranularityWeek  MetricsGranularity = 2
	MetricsGranularityMonth MetricsGranularity = 3
)

// ParseGranularity accepts day/daily, week/weekly and month/monthly. Anything else is day.
func ParseGranularity(s string) MetricsGranularity {
	switch s {
	case "week", "weekly":
		return MetricsGranularityWeek
	case "month", "monthly":
		return MetricsGranularityMonth
	default:
		return MetricsGranularityDay
	}
}

func (g MetricsGranularity) String() string {
	switch g {
	case MetricsGranularityWeek:
		return "week"
	case MetricsGranularityMonth:
		return "month"
	default:
		return "day"
	}
}

// MetricsSnapshot is the financial rollup of a set of orders.
type MetricsSnapshot struct {
	PeriodKey      string          `json:"period_key"`
	Granularity    string          `json:"granularity"`
	RevenueInclVAT decimal.Decimal `json:"revenue_incl_vat"`
	RevenueExclVAT decimal.Decimal `json:"revenue_excl_vat"`
	ShippingBase   decimal.Decimal `json:"shipping_base"`
	ShippingTax    decimal.Decimal `json:"shipping_tax"`
	ShippingTotal  decimal.Decimal `json:"shipping_total"`
	TaxTotal       decimal.Decimal `json:"tax_total"`
	COGS           decimal.Decimal `json:"cogs"`
	Profit         decimal.Decimal `json:"profit"`
	Margin         decimal.Decimal `json:"margin"`
	OrderCount     int             `json:"order_count"`
	AverageRevenue decimal.Decimal `json:"average_revenue"`
	Buckets        []PeriodBucket  `json:"buckets"`
}

// PeriodBucket is the revenue (incl. VAT and shipping) of one day, ISO week or month.
type PeriodBucket struct {
	Key     string          `json:"key"`
	Start   time.Time       `json:"start"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// MetricWithComparison pairs a value with the same metric of a comparison period.
type MetricWithComparison struct {
	Value        decimal.Decimal  `json:"value"`
	CompareValue *decimal.Decimal `json:"compare_value,omitempty"`
	ChangePct    *float64         `json:"change_pct,omitempty"`
}

// MetricsComparison holds the headline metrics against the previous period of equal length.
type MetricsComparison struct {
	Period         TimeRange            `json:"period"`
	ComparePeriod  TimeRange            `json:"compare_period"`
	RevenueInclVAT MetricWithComparison `json:"revenue_incl_vat"`
	RevenueExclVAT MetricWithComparison `json:"revenue_excl_vat"`
	Profit         MetricWithComparison `json:"profit"`
	OrderCount     MetricWithComparison `json:"order_count"`
	AverageRevenue MetricWithComparison `json:"average_revenue"`
}

// ProductMetric is a best-seller row.
type ProductMetric struct {
	ProductID     int             `json:"product_id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Quantity      int             `json:"quantity"`
	Revenue       decimal.Decimal `json:"revenue"`
	StockQuantity int             `json:"stock_quantity"`
}

// CityMetric counts orders and distinct customers per billing city.
type CityMetric struct {
	City          string `json:"city"`
	OrderCount    int    `json:"order_count"`
	CustomerCount int    `json:"customer_count"`
}

// CustomerInsights summarises customer behaviour inside the selected window.
type CustomerInsights struct {
	NewCustomers         int             `json:"new_customers"`
	RepeatCustomers      int             `json:"repeat_customers"`
	CustomerRetention    decimal.Decimal `json:"customer_retention"`
	AvgOrderValue        decimal.Decimal `json:"avg_order_value"`
	CustomerValue        decimal.Decimal `json:"customer_value"`
	TopCities            []CityMetric    `json:"top_cities"`
	PaymentDistribution  map[string]int  `json:"payment_distribution"`
	ShippingDistribution map[string]int  `json:"shipping_distribution"`
}

// CustomerOrderSummary is one row of the customer list.
type CustomerOrderSummary struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	PaymentMethod  string          `json:"payment_method"`
	ShippingMethod string          `json:"shipping_method"`
	OrderDate      time.Time       `json:"order_date"`
	Total          decimal.Decimal `json:"total"`
}
