// Package woo is a typed client for the WooCommerce REST API (wc/v3).
package woo

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gerr "github.com/jekabolt/woometrics/internal/errors"
)

const (
	apiPath        = "/wp-json/wc/v3/"
	defaultTimeout = 30 * time.Second
	// MaxPerPage is the largest page size the API accepts.
	MaxPerPage = 100

	headerTotal      = "X-WP-Total"
	headerTotalPages = "X-WP-TotalPages"
)

type Config struct {
	URL                string        `mapstructure:"url" validate:"required,url"`
	ConsumerKey        string        `mapstructure:"consumer_key" validate:"required"`
	ConsumerSecret     string        `mapstructure:"consumer_secret" validate:"required"`
	QueryStringAuth    bool          `mapstructure:"query_string_auth"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
	Timeout            time.Duration `mapstructure:"timeout"`
	Timezone           string        `mapstructure:"timezone"`
}

// Location resolves the business timezone, Europe/Oslo when unset.
func (c *Config) Location() (*time.Location, error) {
	name := c.Timezone
	if name == "" {
		name = "Europe/Oslo"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %v: %w", name, err, gerr.ErrConfiguration)
	}
	return loc, nil
}

type Client struct {
	c    *Config
	base *url.URL
	hc   *http.Client
}

func New(c *Config) (*Client, error) {
	if c.URL == "" || c.ConsumerKey == "" || c.ConsumerSecret == "" {
		return nil, fmt.Errorf("store url and consumer key/secret are required: %w", gerr.ErrConfiguration)
	}
	base, err := url.Parse(strings.TrimRight(c.URL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid store url %q: %w", c.URL, gerr.ErrConfiguration)
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if c.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		c:    c,
		base: base,
		hc:   &http.Client{Timeout: timeout, Transport: transport},
	}, nil
}

// OrderQuery selects one page of orders created in [After, Before].
type OrderQuery struct {
	After   time.Time
	Before  time.Time
	Status  string
	Page    int
	PerPage int
}

type OrdersPage struct {
	Orders     []Order
	Total      int
	TotalPages int
}

// Orders fetches a single page. Total and TotalPages come from the response headers.
func (cl *Client) Orders(ctx context.Context, q OrderQuery) (*OrdersPage, error) {
	params := url.Values{}
	params.Set("after", q.After.UTC().Format(time.RFC3339))
	params.Set("before", q.Before.UTC().Format(time.RFC3339))
	params.Set("page", strconv.Itoa(max(q.Page, 1)))
	perPage := q.PerPage
	if perPage <= 0 || perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	params.Set("per_page", strconv.Itoa(perPage))
	status := q.Status
	if status == "" {
		status = "any"
	}
	params.Set("status", status)

	var orders []Order
	h, err := cl.get(ctx, "orders", params, &orders)
	if err != nil {
		return nil, err
	}
	page := &OrdersPage{Orders: orders}
	page.Total, _ = strconv.Atoi(h.Get(headerTotal))
	page.TotalPages, _ = strconv.Atoi(h.Get(headerTotalPages))
	if page.TotalPages == 0 && len(orders) > 0 {
		page.TotalPages = 1
	}
	return page, nil
}

// ProductsByID fetches up to MaxPerPage products of any status in one request.
func (cl *Client) ProductsByID(ctx context.Context, ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxPerPage {
		return nil, fmt.Errorf("products: %d ids exceed page size %d", len(ids), MaxPerPage)
	}
	include := make([]string, len(ids))
	for i, id := range ids {
		include[i] = strconv.Itoa(id)
	}
	params := url.Values{}
	params.Set("include", strings.Join(include, ","))
	params.Set("per_page", strconv.Itoa(len(ids)))
	params.Set("status", "any")

	var products []Product
	if _, err := cl.get(ctx, "products", params, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (cl *Client) Product(ctx context.Context, id int) (*Product, error) {
	var p Product
	if _, err := cl.get(ctx, fmt.Sprintf("products/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Variations lists every variation of a variable product, following X-WP-TotalPages.
// Any failed page fails the whole listing.
func (cl *Client) Variations(ctx context.Context, productID int) ([]Product, error) {
	path := fmt.Sprintf("products/%d/variations", productID)
	var all []Product
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("per_page", strconv.Itoa(MaxPerPage))
		params.Set("page", strconv.Itoa(page))
		var vs []Product
		h, err := cl.get(ctx, path, params, &vs)
		if err != nil {
			return nil, fmt.Errorf("variations page %d: %w", page, err)
		}
		all = append(all, vs...)

		totalPages, _ := strconv.Atoi(h.Get(headerTotalPages))
		if len(vs) == 0 || page >= totalPages {
			return all, nil
		}
	}
}

func (cl *Client) Variation(ctx context.Context, parentID, id int) (*Product, error) {
	var p Product
	if _, err := cl.get(ctx, fmt.Sprintf("products/%d/variations/%d", parentID, id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Ping requests the API index to verify the URL and credentials.
func (cl *Client) Ping(ctx context.Context) error {
	var index json.RawMessage
	_, err := cl.get(ctx, "", nil, &index)
	return err
}

func (cl *Client) endpoint(path string, params url.Values) string {
	u := *cl.base
	u.Path = strings.TrimRight(u.Path, "/") + apiPath + path
	if params == nil {
		params = url.Values{}
	}
	if cl.c.QueryStringAuth {
		params.Set("consumer_key", cl.c.ConsumerKey)
		params.Set("consumer_secret", cl.c.ConsumerSecret)
	}
	u.RawQuery = params.Encode()
	return u.String()
}

// get decodes the JSON body into out and maps every failure onto the error taxonomy.
func (cl *Client) get(ctx context.Context, path string, params url.Values, out any) (http.Header, error) {
	endpoint := cl.endpoint(path, params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %v: %w", path, err, gerr.ErrConfiguration)
	}
	if !cl.c.QueryStringAuth {
		req.SetBasicAuth(cl.c.ConsumerKey, cl.c.ConsumerSecret)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := cl.hc.Do(req)
	if err != nil {
		var certErr *tls.CertificateVerificationError
		if errors.As(err, &certErr) {
			return nil, fmt.Errorf("GET %s: %v: %w", path, err, gerr.ErrConfiguration)
		}
		return nil, fmt.Errorf("GET %s: %v: %w", path, err, gerr.ErrTransientFetch)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Default().DebugContext(ctx, "store api returned non-200",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return nil, fmt.Errorf("GET %s: status %d: %w", path, resp.StatusCode, statusError(resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("decode %s: %v: %w", path, err, gerr.ErrDataShape)
	}
	return resp.Header, nil
}

func statusError(code int) error {
	switch {
	case code == http.StatusTooManyRequests, code >= 500:
		return gerr.ErrTransientFetch
	default:
		return gerr.ErrConfiguration
	}
}
