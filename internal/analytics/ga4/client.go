package ga4

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jekabolt/woometrics/internal/entity"
	gerr "github.com/jekabolt/woometrics/internal/errors"
	"github.com/shopspring/decimal"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	// Name identifies GA4 as an ad spend source.
	Name = "ga4"

	dateLayout = "20060102"
	pageSize   = 10000
)

// Config holds GA4 client configuration.
type Config struct {
	PropertyID      string `mapstructure:"property_id"`
	CredentialsJSON string `mapstructure:"credentials_json"` // path to service account JSON file, or raw JSON (for env vars)
	Enabled         bool   `mapstructure:"enabled"`
}

// Client reads advertiser ad cost from the GA4 Data API. It is created unconnected;
// Connect builds the API service.
type Client struct {
	cfg  Config
	opts []option.ClientOption

	mu      sync.RWMutex
	service *analyticsdata.Service
}

// NewClient creates a GA4 client. Extra options are passed to the Data API service.
func NewClient(cfg *Config, opts ...option.ClientOption) *Client {
	c := &Client{opts: opts}
	if cfg != nil {
		c.cfg = *cfg
	}
	return c
}

func (c *Client) Name() string {
	return Name
}

// Connect creates the Data API service. A disabled client returns ErrAdSpendUnavailable.
func (c *Client) Connect(ctx context.Context) error {
	if !c.cfg.Enabled {
		slog.Default().InfoContext(ctx, "GA4 analytics disabled")
		return fmt.Errorf("ga4 disabled: %w", gerr.ErrAdSpendUnavailable)
	}
	if c.cfg.PropertyID == "" {
		return fmt.Errorf("ga4 property_id is required: %w", gerr.ErrAdSpendUnavailable)
	}

	opts := append([]option.ClientOption{}, c.opts...)
	if c.cfg.CredentialsJSON != "" {
		jsonBytes := []byte(c.cfg.CredentialsJSON)
		if jsonBytes[0] == '{' {
			opts = append(opts, option.WithCredentialsJSON(jsonBytes))
		} else {
			opts = append(opts, option.WithCredentialsFile(c.cfg.CredentialsJSON))
		}
	}

	service, err := analyticsdata.NewService(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create GA4 service: %v: %w", err, gerr.ErrAdSpendAuth)
	}

	c.mu.Lock()
	c.service = service
	c.mu.Unlock()

	slog.Default().InfoContext(ctx, "GA4 analytics client initialized",
		slog.String("property_id", c.cfg.PropertyID))
	return nil
}

// AdCosts returns advertiser ad cost, transactions and revenue per date, campaign and
// source/medium for [start, end].
func (c *Client) AdCosts(ctx context.Context, start, end time.Time) ([]entity.AdCostRow, error) {
	c.mu.RLock()
	service := c.service
	c.mu.RUnlock()
	if service == nil {
		return nil, fmt.Errorf("ga4 client not connected: %w", gerr.ErrAdSpendUnavailable)
	}

	req := &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{
			{
				StartDate: start.Format("2006-01-02"),
				EndDate:   end.Format("2006-01-02"),
			},
		},
		Dimensions: []*analyticsdata.Dimension{
			{Name: "date"},
			{Name: "sessionCampaignName"},
			{Name: "sessionSourceMedium"},
		},
		Metrics: []*analyticsdata.Metric{
			{Name: "advertiserAdCost"},
			{Name: "transactions"},
			{Name: "totalRevenue"},
		},
		OrderBys: []*analyticsdata.OrderBy{
			{
				Dimension: &analyticsdata.DimensionOrderBy{DimensionName: "date"},
				Desc:      false,
			},
		},
		Limit: pageSize,
	}

	var rows []entity.AdCostRow
	for {
		resp, err := service.Properties.RunReport(fmt.Sprintf("properties/%s", c.cfg.PropertyID), req).Context(ctx).Do()
		if err != nil {
			return nil, classify(err)
		}
		rows = append(rows, parseRows(ctx, resp.Rows)...)

		req.Offset += int64(len(resp.Rows))
		if len(resp.Rows) == 0 || req.Offset >= resp.RowCount {
			break
		}
	}
	return rows, nil
}

func parseRows(ctx context.Context, in []*analyticsdata.Row) []entity.AdCostRow {
	out := make([]entity.AdCostRow, 0, len(in))
	for _, row := range in {
		if len(row.DimensionValues) < 3 || len(row.MetricValues) < 3 {
			continue
		}

		dateStr := row.DimensionValues[0].Value
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			slog.Default().WarnContext(ctx, "failed to parse GA4 date",
				slog.String("date", dateStr),
				slog.String("err", err.Error()))
			continue
		}

		out = append(out, entity.AdCostRow{
			Date:         date,
			Campaign:     row.DimensionValues[1].Value,
			SourceMedium: row.DimensionValues[2].Value,
			AdCost:       parseDecimal(row.MetricValues[0].Value),
			Transactions: parseInt(row.MetricValues[1].Value),
			Revenue:      parseDecimal(row.MetricValues[2].Value),
		})
	}
	return out
}

// classify maps rejected credentials onto ErrAdSpendAuth.
func classify(err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		switch gErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("failed to run GA4 report: %v: %w", err, gerr.ErrAdSpendAuth)
		}
	}
	return fmt.Errorf("failed to run GA4 report: %w", err)
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		f, _ := strconv.ParseFloat(s, 64)
		return int(f)
	}
	return v
}

func parseDecimal(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}
