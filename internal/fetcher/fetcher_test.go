package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/jekabolt/woometrics/internal/dependency/mocks"
	gerr "github.com/jekabolt/woometrics/internal/errors"
	"github.com/jekabolt/woometrics/internal/woo"
	"github.com/jekabolt/woometrics/internal/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const totalOrders = 437

// storeServer serves totalOrders orders, 100 per page. Earlier pages answer slower so
// completion order is the reverse of page order.
func storeServer(t *testing.T, failPage int) *woo.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == failPage {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		time.Sleep(time.Duration(6-page) * 5 * time.Millisecond)

		from := (page - 1) * 100
		to := min(from+100, totalOrders)
		orders := make([]map[string]any, 0, to-from)
		for id := from + 1; id <= to; id++ {
			orders = append(orders, map[string]any{"id": id, "total": "10.00"})
		}
		w.Header().Set("X-WP-Total", strconv.Itoa(totalOrders))
		w.Header().Set("X-WP-TotalPages", "5")
		_ = json.NewEncoder(w).Encode(orders)
	}))
	t.Cleanup(srv.Close)

	cl, err := woo.New(&woo.Config{URL: srv.URL, ConsumerKey: "ck", ConsumerSecret: "cs"})
	require.NoError(t, err)
	return cl
}

func newFetcher(t *testing.T, cl *woo.Client) *Fetcher {
	pool := workerpool.New("orders", workerpool.Config{}, DefaultWorkers)
	t.Cleanup(pool.Close)
	return New(cl, pool, time.UTC, 100)
}

func TestFetchAllPages(t *testing.T) {
	f := newFetcher(t, storeServer(t, 0))

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	res, err := f.Fetch(context.Background(), day, day, "")
	require.NoError(t, err)

	assert.Equal(t, totalOrders, res.Total)
	assert.Equal(t, 5, res.TotalPages)
	assert.Empty(t, res.FailedPages)
	require.Len(t, res.Orders, totalOrders)

	seen := make(map[int]bool, totalOrders)
	for i, o := range res.Orders {
		assert.Equal(t, i+1, o.ID)
		seen[o.ID] = true
	}
	assert.Len(t, seen, totalOrders)
}

func TestFetchFailedPageContributesNothing(t *testing.T) {
	f := newFetcher(t, storeServer(t, 3))

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	res, err := f.Fetch(context.Background(), day, day, "completed")
	require.NoError(t, err)

	assert.Equal(t, []int{3}, res.FailedPages)
	assert.Len(t, res.Orders, totalOrders-100)
}

func TestFetchPanickingPageIsReported(t *testing.T) {
	src := mocks.NewOrderSource(t)
	src.EXPECT().Orders(mock.Anything, mock.Anything).RunAndReturn(func(_ context.Context, q woo.OrderQuery) (*woo.OrdersPage, error) {
		if q.Page == 3 {
			panic("decoder blew up")
		}
		orders := make([]woo.Order, 100)
		for i := range orders {
			orders[i] = woo.Order{ID: (q.Page-1)*100 + i + 1}
		}
		return &woo.OrdersPage{Orders: orders, Total: 500, TotalPages: 5}, nil
	})
	pool := workerpool.New("orders", workerpool.Config{}, DefaultWorkers)
	t.Cleanup(pool.Close)
	f := New(src, pool, time.UTC, 100)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	res, err := f.Fetch(context.Background(), day, day, "")
	require.NoError(t, err)

	assert.Equal(t, []int{3}, res.FailedPages)
	assert.Len(t, res.Orders, 400)
}

func TestFetchFirstPageFailure(t *testing.T) {
	f := newFetcher(t, storeServer(t, 1))

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	res, err := f.Fetch(context.Background(), day, day, "")
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, gerr.ErrTransientFetch)
}

func TestFetchEmptyRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WP-Total", "0")
		w.Header().Set("X-WP-TotalPages", "0")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	cl, err := woo.New(&woo.Config{URL: srv.URL, ConsumerKey: "ck", ConsumerSecret: "cs"})
	require.NoError(t, err)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	res, err := newFetcher(t, cl).Fetch(context.Background(), day, day, "")
	require.NoError(t, err)
	assert.Empty(t, res.Orders)
	assert.Empty(t, res.FailedPages)
}

func TestDayBounds(t *testing.T) {
	oslo, err := time.LoadLocation("Europe/Oslo")
	require.NoError(t, err)

	from, to := DayBounds(
		time.Date(2024, 7, 1, 15, 4, 0, 0, time.UTC),
		time.Date(2024, 7, 2, 1, 0, 0, 0, time.UTC),
		oslo,
	)
	assert.Equal(t, "2024-06-30T22:00:00Z", from.UTC().Format(time.RFC3339))
	assert.Equal(t, "2024-07-02T21:59:59Z", to.UTC().Format(time.RFC3339))
}
