package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jekabolt/woometrics/internal/adspend"
	"github.com/jekabolt/woometrics/internal/entity"
	gerr "github.com/jekabolt/woometrics/internal/errors"
	"github.com/jekabolt/woometrics/internal/metrics"
	"github.com/jekabolt/woometrics/internal/middleware"
	"github.com/jekabolt/woometrics/internal/report"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const dateLayout = "2006-01-02"

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// httpStatus maps an error code onto a response status. Upstream store and ad platform
// failures are reported as gateway errors.
func httpStatus(c codes.Code) int {
	switch c {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.FailedPrecondition, codes.DataLoss, codes.Unauthenticated:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().ErrorContext(r.Context(), "can't write response",
			slog.String("err", err.Error()))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	c := gerr.Code(err)
	code := httpStatus(c)
	if code >= http.StatusInternalServerError {
		slog.Default().ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()))
	}
	writeJSON(w, r, code, errorResponse{
		Error:     err.Error(),
		Code:      c.String(),
		RequestID: middleware.GetRequestID(r.Context()),
	})
}

func badRequest(format string, args ...any) error {
	return status.Error(codes.InvalidArgument, fmt.Sprintf(format, args...))
}

// period parses the from and to query parameters as business-local calendar days.
func (s *Server) period(r *http.Request) (entity.TimeRange, error) {
	q := r.URL.Query()
	from, err := time.ParseInLocation(dateLayout, q.Get("from"), s.loc)
	if err != nil {
		return entity.TimeRange{}, badRequest("from must be YYYY-MM-DD")
	}
	to, err := time.ParseInLocation(dateLayout, q.Get("to"), s.loc)
	if err != nil {
		return entity.TimeRange{}, badRequest("to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return entity.TimeRange{}, badRequest("to is before from")
	}
	return entity.TimeRange{From: from, To: to}, nil
}

func boolParam(r *http.Request, name string, def bool) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, badRequest("%s must be a boolean", name)
	}
	return b, nil
}

// request builds a report request from the common query parameters.
func (s *Server) request(r *http.Request) (report.Request, error) {
	period, err := s.period(r)
	if err != nil {
		return report.Request{}, err
	}
	force, err := boolParam(r, "force_refresh", false)
	if err != nil {
		return report.Request{}, err
	}
	q := r.URL.Query()
	return report.Request{
		Period:       period,
		Status:       q.Get("status"),
		Granularity:  entity.ParseGranularity(q.Get("granularity")),
		ForceRefresh: force,
	}, nil
}

type ordersResponse struct {
	*report.Orders
	Empty bool `json:"empty"`
}

func (s *Server) orders(w http.ResponseWriter, r *http.Request) {
	req, err := s.request(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.svc.Orders(r.Context(), req.Period, req.Status, req.ForceRefresh)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ordersResponse{Orders: res, Empty: res.Empty()})
}

type metricsResponse struct {
	RunID       string                    `json:"run_id"`
	Period      entity.TimeRange          `json:"period"`
	Empty       bool                      `json:"empty"`
	Metrics     entity.MetricsSnapshot    `json:"metrics"`
	Comparison  *entity.MetricsComparison `json:"comparison,omitempty"`
	FailedPages []int                     `json:"failed_pages,omitempty"`
}

func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	req, err := s.request(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.Compare, err = boolParam(r, "compare", true); err != nil {
		writeError(w, r, err)
		return
	}
	rep, err := s.svc.Build(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, metricsResponse{
		RunID:       rep.RunID,
		Period:      rep.Period,
		Empty:       rep.Empty,
		Metrics:     rep.Metrics,
		Comparison:  rep.Comparison,
		FailedPages: rep.FailedPages,
	})
}

type cacResponse struct {
	RunID string             `json:"run_id"`
	Empty bool               `json:"empty"`
	CAC   entity.CACSnapshot `json:"cac"`
}

func (s *Server) cac(w http.ResponseWriter, r *http.Request) {
	req, err := s.request(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if v := r.URL.Query().Get("fixed_cost"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			writeError(w, r, badRequest("fixed_cost must be a non-negative number"))
			return
		}
		req.FixedCost = &f
	}
	rep, err := s.svc.Build(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cacResponse{RunID: rep.RunID, Empty: rep.Empty, CAC: rep.CAC})
}

type insightsResponse struct {
	RunID       string                        `json:"run_id"`
	Empty       bool                          `json:"empty"`
	Insights    entity.CustomerInsights       `json:"insights"`
	TopProducts []entity.ProductMetric        `json:"top_products"`
	Customers   []entity.CustomerOrderSummary `json:"customers"`
}

func (s *Server) insights(w http.ResponseWriter, r *http.Request) {
	req, err := s.request(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req.TopProducts = metrics.DefaultTopProductsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, r, badRequest("limit must be a positive integer"))
			return
		}
		req.TopProducts = n
	}
	rep, err := s.svc.Build(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, insightsResponse{
		RunID:       rep.RunID,
		Empty:       rep.Empty,
		Insights:    rep.Insights,
		TopProducts: rep.TopProducts,
		Customers:   rep.Customers,
	})
}

type campaignsResponse struct {
	Period    entity.TimeRange             `json:"period"`
	Empty     bool                         `json:"empty"`
	Campaigns []entity.CampaignPerformance `json:"campaigns"`
}

func (s *Server) campaigns(w http.ResponseWriter, r *http.Request) {
	period, err := s.period(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cs := s.svc.Campaigns(r.Context(), period)
	if cs == nil {
		cs = []entity.CampaignPerformance{}
	}
	writeJSON(w, r, http.StatusOK, campaignsResponse{Period: period, Empty: len(cs) == 0, Campaigns: cs})
}

type refreshResponse struct {
	Cleared int `json:"cleared"`
}

func (s *Server) refreshStock(w http.ResponseWriter, r *http.Request) {
	store := s.svc.Stock().Cache()
	n := store.Len()
	store.Clear()
	slog.Default().InfoContext(r.Context(), "stock cache cleared",
		slog.Int("entries", n),
		slog.String("client_ip", middleware.GetClientIP(r.Context())))
	writeJSON(w, r, http.StatusOK, refreshResponse{Cleared: n})
}

type healthResponse struct {
	Status         string          `json:"status"`
	AdSpend        *adspend.Status `json:"ad_spend,omitempty"`
	StockCacheSize int             `json:"stock_cache_size"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:         "ok",
		StockCacheSize: s.svc.Stock().Cache().Len(),
	}
	if s.ads != nil {
		st := s.ads.Status()
		resp.AdSpend = &st
	}
	writeJSON(w, r, http.StatusOK, resp)
}
