package googleads

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	gerr "github.com/jekabolt/woometrics/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

type fakeQuerier struct {
	rows   []costRow
	err    error
	sql    string
	params []bigquery.QueryParameter
	closed bool
}

func (f *fakeQuerier) query(_ context.Context, sql string, params []bigquery.QueryParameter) ([]costRow, error) {
	f.sql, f.params = sql, params
	return f.rows, f.err
}

func (f *fakeQuerier) close() error {
	f.closed = true
	return nil
}

func testClient(q querier) *Client {
	c := NewClient(&Config{
		ProjectID:  "shop-analytics",
		Dataset:    "google_ads",
		CustomerID: "123-456-7890",
		Enabled:    true,
	})
	c.setQuerier(q)
	return c
}

func TestAdCosts(t *testing.T) {
	q := &fakeQuerier{rows: []costRow{
		{Date: "2024-03-01", Campaign: "spring", CostMicros: 12_345_670, Conversions: 2.6, Revenue: 310.5},
		{Date: "garbage", Campaign: "spring", CostMicros: 1},
		{Date: "2024-03-02", Campaign: "987", CostMicros: 0, Conversions: 0, Revenue: 0},
	}}
	c := testClient(q)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows, err := c.AdCosts(context.Background(), start, start.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, start, rows[0].Date)
	assert.Equal(t, "12.34567", rows[0].AdCost.String())
	assert.Equal(t, 3, rows[0].Transactions)
	assert.True(t, decimal.NewFromFloat(310.5).Equal(rows[0].Revenue))
	assert.Equal(t, "987", rows[1].Campaign)

	assert.Contains(t, q.sql, "`shop-analytics.google_ads.ads_CampaignBasicStats_1234567890`")
	assert.Contains(t, q.sql, "`shop-analytics.google_ads.ads_Campaign_1234567890`")
	assert.Contains(t, q.sql, "PARSE_DATE('%Y-%m-%d', @start)")
	require.Len(t, q.params, 2)
	assert.Equal(t, "2024-03-01", q.params[0].Value)
	assert.Equal(t, "2024-03-07", q.params[1].Value)
}

func TestAdCostsErrors(t *testing.T) {
	c := testClient(&fakeQuerier{err: &googleapi.Error{Code: http.StatusForbidden, Message: "access denied"}})
	_, err := c.AdCosts(context.Background(), time.Now(), time.Now())
	assert.ErrorIs(t, err, gerr.ErrAdSpendAuth)

	c = testClient(&fakeQuerier{err: errors.New("backend error")})
	_, err = c.AdCosts(context.Background(), time.Now(), time.Now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, gerr.ErrAdSpendAuth)
}

func TestConnectValidation(t *testing.T) {
	c := NewClient(&Config{Enabled: false})
	assert.Equal(t, "google_ads", c.Name())
	assert.ErrorIs(t, c.Connect(context.Background()), gerr.ErrAdSpendUnavailable)

	_, err := c.AdCosts(context.Background(), time.Now(), time.Now())
	assert.ErrorIs(t, err, gerr.ErrAdSpendUnavailable)

	c = NewClient(&Config{Enabled: true, ProjectID: "p", Dataset: "d"})
	assert.ErrorIs(t, c.Connect(context.Background()), gerr.ErrAdSpendUnavailable)

	c = NewClient(&Config{Enabled: true, ProjectID: "p", Dataset: "d`; DROP", CustomerID: "1"})
	assert.ErrorIs(t, c.Connect(context.Background()), gerr.ErrAdSpendUnavailable)
}

func TestClose(t *testing.T) {
	q := &fakeQuerier{}
	c := testClient(q)
	require.NoError(t, c.Close())
	assert.True(t, q.closed)
	require.NoError(t, c.Close())

	_, err := c.AdCosts(context.Background(), time.Now(), time.Now())
	assert.ErrorIs(t, err, gerr.ErrAdSpendUnavailable)
}
