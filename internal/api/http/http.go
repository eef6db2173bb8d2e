package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jekabolt/woometrics/internal/adspend"
	"github.com/jekabolt/woometrics/internal/auth/jwt"
	"github.com/jekabolt/woometrics/internal/middleware"
	"github.com/jekabolt/woometrics/internal/ratelimit"
	"github.com/jekabolt/woometrics/internal/report"
)

// Config is the configuration for the http server
type Config struct {
	Port           string           `mapstructure:"port"`
	Address        string           `mapstructure:"address"`
	AllowedOrigins []string         `mapstructure:"allowed_origins"`
	WriteTimeout   time.Duration    `mapstructure:"write_timeout"`
	RateLimit      ratelimit.Config `mapstructure:"rate_limit"`
}

// Server is the http server
type Server struct {
	hs      *http.Server
	c       *Config
	svc     *report.Service
	ads     *adspend.Adapter
	auth    *jwtauth.JWTAuth
	loc     *time.Location
	limiter *ratelimit.Limiter
	done    chan struct{}
}

// New creates a new server. ads and jwtAuth may be nil.
func New(config *Config, svc *report.Service, ads *adspend.Adapter, jwtAuth *jwtauth.JWTAuth, loc *time.Location) *Server {
	if loc == nil {
		loc = time.UTC
	}
	s := &Server{
		c:    config,
		svc:  svc,
		ads:  ads,
		auth: jwtAuth,
		loc:  loc,
		done: make(chan struct{}),
	}
	if config.RateLimit.Max > 0 {
		window := config.RateLimit.Window
		if window <= 0 {
			window = time.Minute
		}
		s.limiter = ratelimit.NewLimiter(window, config.RateLimit.Max)
	}
	return s
}

// Done returns a channel that is closed when the server exits
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.ClientIdentifier)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return isOriginAllowed(origin, s.c.AllowedOrigins)
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "X-RateLimit-Remaining"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(jwt.WithAuth(s.auth))
		if s.limiter != nil {
			r.Use(s.limiter.Middleware(middleware.ClientKey))
		}
		r.Get("/orders", s.orders)
		r.Get("/metrics", s.metrics)
		r.Get("/cac", s.cac)
		r.Get("/insights", s.insights)
		r.Get("/campaigns", s.campaigns)
		r.Post("/stock/refresh", s.refreshStock)
	})
	return r
}

// Start starts listening in the background.
func (s *Server) Start(ctx context.Context) error {
	writeTimeout := s.c.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 2 * time.Minute
	}
	listenerAddr := fmt.Sprintf("%s:%s", s.c.Address, s.c.Port)
	s.hs = &http.Server{
		Addr:              listenerAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
	}

	go func() {
		defer close(s.done)
		slog.Default().InfoContext(ctx, fmt.Sprintf("woometrics new listener on: http://%v", listenerAddr))
		err := s.hs.ListenAndServe()
		if err == http.ErrServerClosed {
			slog.Default().InfoContext(ctx, "http server returned")
		} else {
			slog.Default().ErrorContext(ctx, "http server exited with an error",
				slog.String("err", err.Error()))
		}
	}()
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if s.hs == nil {
		return nil
	}
	return s.hs.Shutdown(ctx)
}

func isOriginAllowed(origin string, allowedOrigins []string) bool {
	// Always allow localhost origins
	if strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "https://localhost:") {
		return true
	}
	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == "*" || origin == allowedOrigin {
			return true
		}
	}
	return false
}
