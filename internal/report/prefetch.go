package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jekabolt/woometrics/internal/dependency"
	"github.com/jekabolt/woometrics/internal/entity"
)

// prefetched replays ad spend answers loaded ahead of the CAC calculation.
type prefetched struct {
	spend     entity.AdSpend
	campaigns []entity.CampaignPerformance
}

var _ dependency.AdSpendProvider = (*prefetched)(nil)

func (p *prefetched) TotalAdSpend(context.Context, time.Time, time.Time) entity.AdSpend {
	return p.spend
}

func (p *prefetched) CampaignPerformance(context.Context, time.Time, time.Time) []entity.CampaignPerformance {
	return p.campaigns
}

// prefetch queries provider for period. A panicking provider yields HasData=false.
func prefetch(ctx context.Context, provider dependency.AdSpendProvider, period entity.TimeRange) (out *prefetched) {
	defer func() {
		if r := recover(); r != nil {
			slog.Default().ErrorContext(ctx, "ad spend provider panicked",
				slog.String("err", fmt.Sprint(r)))
			out = &prefetched{spend: entity.AdSpend{
				Reason:       entity.AdSpendReasonQueryError,
				ErrorMessage: fmt.Sprintf("ad spend provider panicked: %v", r),
			}}
		}
	}()
	out = &prefetched{spend: provider.TotalAdSpend(ctx, period.From, period.To)}
	if out.spend.HasData {
		out.campaigns = provider.CampaignPerformance(ctx, period.From, period.To)
	}
	return out
}
