package metrics

import (
	"sort"

	"github.com/jekabolt/woometrics/internal/entity"
	"github.com/shopspring/decimal"
)

const DefaultTopProductsLimit = 10

// TopProducts ranks products by quantity sold, then by revenue. Stock is taken from the
// most recent line item of each product.
func TopProducts(items []entity.LineItem, limit int) []entity.ProductMetric {
	if limit <= 0 {
		limit = DefaultTopProductsLimit
	}

	type agg struct {
		pm     entity.ProductMetric
		latest entity.LineItem
	}
	byID := make(map[int]*agg)
	for _, it := range items {
		a, ok := byID[it.ProductID]
		if !ok {
			a = &agg{
				pm: entity.ProductMetric{
					ProductID: it.ProductID,
					Name:      it.Name,
					SKU:       it.SKU,
					Revenue:   decimal.Zero,
				},
				latest: it,
			}
			byID[it.ProductID] = a
		}
		a.pm.Quantity += it.Quantity
		a.pm.Revenue = a.pm.Revenue.Add(it.LineTotal)
		if !it.Date.Before(a.latest.Date) {
			a.latest = it
		}
	}

	out := make([]entity.ProductMetric, 0, len(byID))
	for _, a := range byID {
		a.pm.StockQuantity = a.latest.StockQuantity
		out = append(out, a.pm)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].ProductID < out[j].ProductID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
