// Package adspend answers "how much was spent on ads in this range" on top of an
// ad platform backend. Providers never return errors: every failure is reported as
// an AdSpend with HasData=false, a reason code and an error message.
package adspend

import (
	"time"

	"github.com/jekabolt/woometrics/internal/entity"
	"github.com/shopspring/decimal"
)

const dateKeyLayout = "2006-01-02"

// DateKey formats t the way SpendByDate is keyed.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// Summarize totals rows by day and campaign. An empty row set has no data.
func Summarize(rows []entity.AdCostRow, source string) entity.AdSpend {
	out := entity.AdSpend{
		TotalSpend:      decimal.Zero,
		SpendByDate:     map[string]decimal.Decimal{},
		SpendByCampaign: map[string]decimal.Decimal{},
		Source:          source,
	}
	if len(rows) == 0 {
		out.Reason = entity.AdSpendReasonNoData
		out.ErrorMessage = "no ad cost data for the requested period"
		return out
	}
	for _, r := range rows {
		out.TotalSpend = out.TotalSpend.Add(r.AdCost)
		k := DateKey(r.Date)
		out.SpendByDate[k] = out.SpendByDate[k].Add(r.AdCost)
		out.SpendByCampaign[r.Campaign] = out.SpendByCampaign[r.Campaign].Add(r.AdCost)
	}
	out.HasData = true
	return out
}

// Campaigns groups rows per campaign and derives ROI, CPA and ROAS.
// Each ratio is nil when its divisor is zero.
func Campaigns(rows []entity.AdCostRow) []entity.CampaignPerformance {
	byName := make(map[string]*entity.CampaignPerformance)
	var order []string
	for _, r := range rows {
		c, ok := byName[r.Campaign]
		if !ok {
			c = &entity.CampaignPerformance{Campaign: r.Campaign, AdCost: decimal.Zero, Revenue: decimal.Zero}
			byName[r.Campaign] = c
			order = append(order, r.Campaign)
		}
		c.AdCost = c.AdCost.Add(r.AdCost)
		c.Revenue = c.Revenue.Add(r.Revenue)
		c.Transactions += r.Transactions
	}

	hundred := decimal.NewFromInt(100)
	out := make([]entity.CampaignPerformance, 0, len(order))
	for _, name := range order {
		c := byName[name]
		if !c.AdCost.IsZero() {
			roi := c.Revenue.Sub(c.AdCost).Div(c.AdCost).Mul(hundred)
			roas := c.Revenue.Div(c.AdCost)
			c.ROI, c.ROAS = &roi, &roas
		}
		if c.Transactions > 0 {
			cpa := c.AdCost.Div(decimal.NewFromInt(int64(c.Transactions)))
			c.CPA = &cpa
		}
		out = append(out, *c)
	}
	return out
}
