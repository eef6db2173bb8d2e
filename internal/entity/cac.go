package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ad spend reason codes reported when actual spend is not used.
const (
	AdSpendReasonNoData        = "no_data"
	AdSpendReasonAuthError     = "auth_error"
	AdSpendReasonNotConfigured = "not_configured"
	AdSpendReasonQueryError    = "query_error"
)

// AdSpend is the answer of an ad-spend source for a date range. Failures are encoded as
// HasData=false with an ErrorMessage and a Reason code, never as an error value.
type AdSpend struct {
	TotalSpend      decimal.Decimal            `json:"total_spend"`
	SpendByDate     map[string]decimal.Decimal `json:"spend_by_date"` // key: 2006-01-02
	SpendByCampaign map[string]decimal.Decimal `json:"spend_by_campaign"`
	HasData         bool                       `json:"has_data"`
	ErrorMessage    string                     `json:"error_message,omitempty"`
	Reason          string                     `json:"reason,omitempty"`
	Source          string                     `json:"source,omitempty"`
}

// AdCostRow is one date × campaign row reported by an ad platform.
type AdCostRow struct {
	Date         time.Time
	Campaign     string
	SourceMedium string
	AdCost       decimal.Decimal
	Transactions int
	Revenue      decimal.Decimal
}

// CampaignPerformance aggregates ad cost and attributed results per campaign.
// ROI, CPA and ROAS are nil when their divisor is zero.
type CampaignPerformance struct {
	Campaign     string           `json:"campaign"`
	AdCost       decimal.Decimal  `json:"ad_cost"`
	Transactions int              `json:"transactions"`
	Revenue      decimal.Decimal  `json:"revenue"`
	ROI          *decimal.Decimal `json:"roi,omitempty"`
	CPA          *decimal.Decimal `json:"cpa,omitempty"`
	ROAS         *decimal.Decimal `json:"roas,omitempty"`
}

// CACSnapshot is the customer acquisition view of a window.
type CACSnapshot struct {
	Period             TimeRange             `json:"period"`
	NewCustomers       int                   `json:"new_customers"`
	RepeatCustomers    int                   `json:"repeat_customers"`
	AdSpend            decimal.Decimal       `json:"ad_spend"`
	Revenue            decimal.Decimal       `json:"revenue"`
	CAC                decimal.Decimal       `json:"cac"`
	ROI                decimal.Decimal       `json:"roi"`
	LTV                decimal.Decimal       `json:"ltv"`
	CACToLTVRatio      decimal.Decimal       `json:"cac_to_ltv_ratio"`
	BreakevenPoint     decimal.Decimal       `json:"breakeven_point"`
	RevenuePerCustomer decimal.Decimal       `json:"revenue_per_customer"`
	UsingExternalData  bool                  `json:"using_external_data"`
	AdSpendSource      string                `json:"ad_spend_source,omitempty"`
	AdSpendReason      string                `json:"ad_spend_reason,omitempty"`
	AdSpendError       string                `json:"ad_spend_error,omitempty"`
	DailyTrend         []CACTrendPoint       `json:"daily_trend"`
	Campaigns          []CampaignPerformance `json:"campaigns,omitempty"`
}

// CACTrendPoint is one calendar day of the CAC/ROI trend.
type CACTrendPoint struct {
	Date            time.Time       `json:"date"`
	Revenue         decimal.Decimal `json:"revenue"`
	UniqueCustomers int             `json:"unique_customers"`
	OrderCount      int             `json:"order_count"`
	AdSpend         decimal.Decimal `json:"ad_spend"`
	CAC             decimal.Decimal `json:"cac"`
	ROI             decimal.Decimal `json:"roi"`
	CAC7DayAvg      decimal.Decimal `json:"cac_7day_avg"`
	ROI7DayAvg      decimal.Decimal `json:"roi_7day_avg"`
}
