package woo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	gerr "github.com/jekabolt/woometrics/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, mod ...func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := &Config{URL: srv.URL, ConsumerKey: "ck_test", ConsumerSecret: "cs_test"}
	for _, m := range mod {
		m(c)
	}
	cl, err := New(c)
	require.NoError(t, err)
	return cl
}

func TestOrdersPage(t *testing.T) {
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "ck_test", user)
		assert.Equal(t, "cs_test", pass)
		assert.Equal(t, "/wp-json/wc/v3/orders", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Equal(t, "any", r.URL.Query().Get("status"))
		assert.Equal(t, "2024-02-29T23:00:00Z", r.URL.Query().Get("after"))

		w.Header().Set(headerTotal, "437")
		w.Header().Set(headerTotalPages, "5")
		_, _ = w.Write([]byte(`[{"id":7,"total":"125.00","total_tax":25,"shipping_total":null,"shipping_tax":"",
			"line_items":[{"product_id":3,"quantity":2,"subtotal":"80.00","total":"80","total_tax":"20",
			"meta_data":[{"id":1,"key":"_yith_cog_item_cost","value":"12.5"}]}],
			"meta_data":[{"id":2,"key":"_dintero_payment_method","value":"Klarna"},{"id":3,"key":"_some_object","value":{"a":1}}]}]`))
	})

	oslo, err := time.LoadLocation("Europe/Oslo")
	require.NoError(t, err)
	page, err := cl.Orders(context.Background(), OrderQuery{
		After:  time.Date(2024, 3, 1, 0, 0, 0, 0, oslo),
		Before: time.Date(2024, 3, 1, 23, 59, 59, 0, oslo),
		Page:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, 437, page.Total)
	assert.Equal(t, 5, page.TotalPages)
	require.Len(t, page.Orders, 1)

	o := page.Orders[0]
	assert.True(t, decimal.RequireFromString("125").Equal(o.Total.Decimal()))
	assert.True(t, decimal.NewFromInt(25).Equal(o.TotalTax.Decimal()))
	assert.True(t, o.ShippingTotal.Decimal().IsZero())
	assert.True(t, o.ShippingTax.Decimal().IsZero())

	pm, ok := o.MetaData.String("_dintero_payment_method")
	assert.True(t, ok)
	assert.Equal(t, "Klarna", pm)
	_, ok = o.MetaData.String("_some_object")
	assert.False(t, ok)
	assert.True(t, decimal.RequireFromString("12.5").Equal(o.LineItems[0].MetaData.Decimal("_yith_cog_item_cost")))
}

func TestQueryStringAuth(t *testing.T) {
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := r.BasicAuth()
		assert.False(t, ok)
		assert.Equal(t, "ck_test", r.URL.Query().Get("consumer_key"))
		assert.Equal(t, "cs_test", r.URL.Query().Get("consumer_secret"))
		_, _ = w.Write([]byte(`{"id":12,"type":"simple","stock_quantity":4}`))
	}, func(c *Config) { c.QueryStringAuth = true })

	p, err := cl.Product(context.Background(), 12)
	require.NoError(t, err)
	require.NotNil(t, p.StockQuantity)
	assert.Equal(t, 4, *p.StockQuantity)
}

func TestErrorClassification(t *testing.T) {
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("include") {
		case "1":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"woocommerce_rest_cannot_view"}`))
		case "2":
			w.WriteHeader(http.StatusBadGateway)
		default:
			_, _ = w.Write([]byte(`{"not":"a list"}`))
		}
	})
	ctx := context.Background()

	_, err := cl.ProductsByID(ctx, []int{1})
	assert.ErrorIs(t, err, gerr.ErrConfiguration)

	_, err = cl.ProductsByID(ctx, []int{2})
	assert.ErrorIs(t, err, gerr.ErrTransientFetch)
	assert.Equal(t, gerr.KindTransient, gerr.Classify(err))

	_, err = cl.ProductsByID(ctx, []int{3})
	assert.ErrorIs(t, err, gerr.ErrDataShape)
	assert.Equal(t, gerr.KindFatal, gerr.Classify(err))
}

func TestProductsByIDInclude(t *testing.T) {
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1,2,3", r.URL.Query().Get("include"))
		assert.Equal(t, "3", r.URL.Query().Get("per_page"))
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "type": "simple", "stock_quantity": 2},
			{"id": 2, "type": "variable", "stock_quantity": nil},
		})
	})

	products, err := cl.ProductsByID(context.Background(), []int{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Nil(t, products[1].StockQuantity)
	assert.Equal(t, ProductTypeVariable, products[1].Type)

	_, err = cl.ProductsByID(context.Background(), make([]int, MaxPerPage+1))
	assert.Error(t, err)
}

func TestVariationsFollowsPages(t *testing.T) {
	const total = 230
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wc/v3/products/9/variations", r.URL.Path)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		from := (page - 1) * MaxPerPage
		to := min(from+MaxPerPage, total)
		vs := make([]map[string]any, 0, to-from)
		for id := from + 1; id <= to; id++ {
			vs = append(vs, map[string]any{"id": 1000 + id, "parent_id": 9, "stock_quantity": 1})
		}
		w.Header().Set(headerTotal, strconv.Itoa(total))
		w.Header().Set(headerTotalPages, "3")
		_ = json.NewEncoder(w).Encode(vs)
	})

	vs, err := cl.Variations(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, vs, total)
	assert.Equal(t, 1001, vs[0].ID)
	assert.Equal(t, 1230, vs[total-1].ID)
}

func TestVariationsFailedPage(t *testing.T) {
	cl := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set(headerTotalPages, "2")
		_, _ = w.Write([]byte(`[{"id":1,"stock_quantity":3}]`))
	})

	_, err := cl.Variations(context.Background(), 9)
	require.Error(t, err)
	assert.ErrorIs(t, err, gerr.ErrTransientFetch)
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(&Config{URL: "https://shop.example"})
	assert.ErrorIs(t, err, gerr.ErrConfiguration)

	_, err = New(&Config{URL: "not a url", ConsumerKey: "k", ConsumerSecret: "s"})
	assert.ErrorIs(t, err, gerr.ErrConfiguration)

	loc, err := (&Config{}).Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Oslo", loc.String())
}

func TestAmountRejectsGarbage(t *testing.T) {
	var a Amount
	assert.Error(t, json.Unmarshal([]byte(`"12,50 kr"`), &a))
	require.NoError(t, json.Unmarshal([]byte(`" 9.90 "`), &a))
	assert.Equal(t, "9.9", a.Decimal().String())
}
