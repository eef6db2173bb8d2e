package metrics

import (
	"fmt"
	"time"

	"github.com/jekabolt/woometrics/internal/entity"
	"github.com/shopspring/decimal"
)

// bucketStart truncates t to the start of its day, ISO week (Monday) or month in t's location.
func bucketStart(t time.Time, g entity.MetricsGranularity) time.Time {
	loc := t.Location()
	switch g {
	case entity.MetricsGranularityWeek:
		daysBack := (int(t.Weekday()) + 6) % 7
		return time.Date(t.Year(), t.Month(), t.Day()-daysBack, 0, 0, 0, 0, loc)
	case entity.MetricsGranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
}

// PeriodKey formats the bucket of t: 2006-01-02, 2006-W01 (ISO week) or 2006-01.
func PeriodKey(t time.Time, g entity.MetricsGranularity) string {
	switch g {
	case entity.MetricsGranularityWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case entity.MetricsGranularityMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

func changePct(current, previous decimal.Decimal) *float64 {
	if previous.IsZero() {
		return nil
	}
	diff := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
	f, _ := diff.Float64()
	return &f
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func compare(current, previous decimal.Decimal) entity.MetricWithComparison {
	return entity.MetricWithComparison{
		Value:        current,
		CompareValue: ptr(previous),
		ChangePct:    changePct(current, previous),
	}
}
