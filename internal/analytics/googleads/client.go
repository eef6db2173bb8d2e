// Package googleads reads campaign cost from the Google Ads BigQuery Data Transfer export.
package googleads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/jekabolt/woometrics/internal/entity"
	gerr "github.com/jekabolt/woometrics/internal/errors"
	"github.com/shopspring/decimal"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Name identifies Google Ads as an ad spend source.
const Name = "google_ads"

var identRe = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)

// Config holds the BigQuery location of the Google Ads transfer tables.
type Config struct {
	ProjectID       string `mapstructure:"project_id"`
	Dataset         string `mapstructure:"dataset"`
	CustomerID      string `mapstructure:"customer_id"`      // with or without dashes
	CredentialsJSON string `mapstructure:"credentials_json"` // path to service account JSON file, or raw JSON
	Enabled         bool   `mapstructure:"enabled"`
}

// costRow is one date x campaign row of the cost query.
type costRow struct {
	Date        string  `bigquery:"date"`
	Campaign    string  `bigquery:"campaign"`
	CostMicros  int64   `bigquery:"cost_micros"`
	Conversions float64 `bigquery:"conversions"`
	Revenue     float64 `bigquery:"revenue"`
}

// querier runs a parameterised query and collects its rows.
type querier interface {
	query(ctx context.Context, sql string, params []bigquery.QueryParameter) ([]costRow, error)
	close() error
}

type bqQuerier struct {
	client *bigquery.Client
}

func (q *bqQuerier) query(ctx context.Context, sql string, params []bigquery.QueryParameter) ([]costRow, error) {
	qq := q.client.Query(sql)
	qq.Parameters = params
	it, err := qq.Read(ctx)
	if err != nil {
		return nil, err
	}
	var rows []costRow
	for {
		var r costRow
		err := it.Next(&r)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func (q *bqQuerier) close() error {
	return q.client.Close()
}

// Client is an ad spend backend over BigQuery.
type Client struct {
	cfg  Config
	opts []option.ClientOption

	mu sync.RWMutex
	q  querier
}

// NewClient creates an unconnected client. Extra options are passed to the BigQuery client.
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

func (c *Client) customerID() string {
	return strings.ReplaceAll(c.cfg.CustomerID, "-", "")
}

func (c *Client) validate() error {
	if c.cfg.ProjectID == "" || c.cfg.Dataset == "" || c.cfg.CustomerID == "" {
		return fmt.Errorf("google_ads project_id, dataset and customer_id are required")
	}
	for _, id := range []string{c.cfg.ProjectID, c.cfg.Dataset, c.customerID()} {
		if !identRe.MatchString(id) {
			return fmt.Errorf("invalid google_ads identifier %q", id)
		}
	}
	return nil
}

// Connect creates the BigQuery client. A disabled client returns ErrAdSpendUnavailable.
func (c *Client) Connect(ctx context.Context) error {
	if !c.cfg.Enabled {
		slog.Default().InfoContext(ctx, "google ads cost export disabled")
		return fmt.Errorf("google_ads disabled: %w", gerr.ErrAdSpendUnavailable)
	}
	if err := c.validate(); err != nil {
		return fmt.Errorf("%v: %w", err, gerr.ErrAdSpendUnavailable)
	}

	opts := append([]option.ClientOption{}, c.opts...)
	if c.cfg.CredentialsJSON != "" {
		if strings.HasPrefix(c.cfg.CredentialsJSON, "{") {
			opts = append(opts, option.WithCredentialsJSON([]byte(c.cfg.CredentialsJSON)))
		} else {
			opts = append(opts, option.WithCredentialsFile(c.cfg.CredentialsJSON))
		}
	}

	client, err := bigquery.NewClient(ctx, c.cfg.ProjectID, opts...)
	if err != nil {
		return fmt.Errorf("failed to create bigquery client: %v: %w", err, gerr.ErrAdSpendAuth)
	}
	c.setQuerier(&bqQuerier{client: client})

	slog.Default().InfoContext(ctx, "google ads cost export client initialized",
		slog.String("project_id", c.cfg.ProjectID),
		slog.String("dataset", c.cfg.Dataset))
	return nil
}

func (c *Client) setQuerier(q querier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.q != nil {
		if err := c.q.close(); err != nil {
			slog.Default().Warn("failed to close bigquery client", slog.String("err", err.Error()))
		}
	}
	c.q = q
}

// Close releases the BigQuery client.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.q == nil {
		return nil
	}
	err := c.q.close()
	c.q = nil
	return err
}

const costQuery = `SELECT
  FORMAT_DATE('%%Y-%%m-%%d', s.segments_date) AS date,
  IFNULL(n.campaign_name, CAST(s.campaign_id AS STRING)) AS campaign,
  SUM(s.metrics_cost_micros) AS cost_micros,
  SUM(s.metrics_conversions) AS conversions,
  SUM(s.metrics_conversions_value) AS revenue
FROM %s AS s
LEFT JOIN (
  SELECT DISTINCT campaign_id, campaign_name
  FROM %s
  WHERE _DATA_DATE = _LATEST_DATE
) AS n USING (campaign_id)
WHERE s.segments_date BETWEEN PARSE_DATE('%%Y-%%m-%%d', @start) AND PARSE_DATE('%%Y-%%m-%%d', @end)
GROUP BY date, campaign
ORDER BY date, campaign`

// table returns the quoted name of a transfer table of the configured customer.
func (c *Client) table(name string) string {
	return fmt.Sprintf("`%s.%s.%s_%s`", c.cfg.ProjectID, c.cfg.Dataset, name, c.customerID())
}

// costSQL joins daily campaign stats with the latest campaign names.
func (c *Client) costSQL() string {
	return fmt.Sprintf(costQuery, c.table("ads_CampaignBasicStats"), c.table("ads_Campaign"))
}

// AdCosts returns cost, conversions and conversion value per date and campaign for [start, end].
func (c *Client) AdCosts(ctx context.Context, start, end time.Time) ([]entity.AdCostRow, error) {
	c.mu.RLock()
	q := c.q
	c.mu.RUnlock()
	if q == nil {
		return nil, fmt.Errorf("google_ads client not connected: %w", gerr.ErrAdSpendUnavailable)
	}

	rows, err := q.query(ctx, c.costSQL(), []bigquery.QueryParameter{
		{Name: "start", Value: start.Format("2006-01-02")},
		{Name: "end", Value: end.Format("2006-01-02")},
	})
	if err != nil {
		return nil, classify(err)
	}

	out := make([]entity.AdCostRow, 0, len(rows))
	for _, r := range rows {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			slog.Default().WarnContext(ctx, "failed to parse google ads date",
				slog.String("date", r.Date),
				slog.String("err", err.Error()))
			continue
		}
		out = append(out, entity.AdCostRow{
			Date:         date,
			Campaign:     r.Campaign,
			SourceMedium: "google / cpc",
			AdCost:       decimal.New(r.CostMicros, -6),
			Transactions: int(decimal.NewFromFloat(r.Conversions).Round(0).IntPart()),
			Revenue:      decimal.NewFromFloat(r.Revenue),
		})
	}
	return out, nil
}

func classify(err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		switch gErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("failed to query google ads costs: %v: %w", err, gerr.ErrAdSpendAuth)
		}
	}
	return fmt.Errorf("failed to query google ads costs: %w", err)
}
