package metrics

import (
	"sort"
	"time"

	"github.com/jekabolt/woometrics/internal/entity"
	"github.com/shopspring/decimal"
)

const topCitiesLimit = 5

// CustomerInsights segments the window's customers and summarises how they buy.
func CustomerInsights(orders []entity.Order) entity.CustomerInsights {
	ci := entity.CustomerInsights{
		CustomerRetention:    decimal.Zero,
		AvgOrderValue:        decimal.Zero,
		CustomerValue:        decimal.Zero,
		TopCities:            []entity.CityMetric{},
		PaymentDistribution:  map[string]int{},
		ShippingDistribution: map[string]int{},
	}
	if len(orders) == 0 {
		return ci
	}

	type cityAgg struct {
		orders    map[int]struct{}
		customers map[string]struct{}
	}
	perCustomer := make(map[string]int)
	cities := make(map[string]*cityAgg)
	total := decimal.Zero

	for _, o := range orders {
		key := o.CustomerKey()
		perCustomer[key]++
		total = total.Add(o.Total)

		ci.PaymentDistribution[orUnknown(o.PaymentMethod)]++
		ci.ShippingDistribution[orUnknown(o.ShippingMethod)]++

		if o.Billing.City == "" {
			continue
		}
		c, ok := cities[o.Billing.City]
		if !ok {
			c = &cityAgg{orders: map[int]struct{}{}, customers: map[string]struct{}{}}
			cities[o.Billing.City] = c
		}
		c.orders[o.ID] = struct{}{}
		c.customers[key] = struct{}{}
	}

	for _, n := range perCustomer {
		if n == 1 {
			ci.NewCustomers++
		} else {
			ci.RepeatCustomers++
		}
	}
	unique := decimal.NewFromInt(int64(len(perCustomer)))
	ci.CustomerRetention = decimal.NewFromInt(int64(ci.RepeatCustomers)).Div(unique).Mul(hundred)
	ci.AvgOrderValue = total.Div(decimal.NewFromInt(int64(len(orders))))
	ci.CustomerValue = total.Div(unique)

	for city, c := range cities {
		ci.TopCities = append(ci.TopCities, entity.CityMetric{
			City:          city,
			OrderCount:    len(c.orders),
			CustomerCount: len(c.customers),
		})
	}
	sort.Slice(ci.TopCities, func(i, j int) bool {
		if ci.TopCities[i].OrderCount != ci.TopCities[j].OrderCount {
			return ci.TopCities[i].OrderCount > ci.TopCities[j].OrderCount
		}
		return ci.TopCities[i].City < ci.TopCities[j].City
	})
	if len(ci.TopCities) > topCitiesLimit {
		ci.TopCities = ci.TopCities[:topCitiesLimit]
	}
	return ci
}

// CustomerList returns one row per distinct (customer, methods, order time), newest first.
func CustomerList(orders []entity.Order) []entity.CustomerOrderSummary {
	type rowKey struct {
		name, email, payment, shipping string
		date                           time.Time
	}
	rows := make(map[rowKey]*entity.CustomerOrderSummary)
	for _, o := range orders {
		k := rowKey{
			name:     o.Billing.Name(),
			email:    o.Billing.Email,
			payment:  o.PaymentMethod,
			shipping: o.ShippingMethod,
			date:     o.Date,
		}
		r, ok := rows[k]
		if !ok {
			r = &entity.CustomerOrderSummary{
				Name:           k.name,
				Email:          k.email,
				PaymentMethod:  k.payment,
				ShippingMethod: k.shipping,
				OrderDate:      o.Date,
				Total:          decimal.Zero,
			}
			rows[k] = r
		}
		r.Total = r.Total.Add(o.Total)
	}

	out := make([]entity.CustomerOrderSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.After(out[j].OrderDate)
		}
		return out[i].Email < out[j].Email
	})
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
