package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jekabolt/woometrics/config"
	"github.com/jekabolt/woometrics/internal/adspend"
	"github.com/jekabolt/woometrics/internal/analytics/ga4"
	"github.com/jekabolt/woometrics/internal/analytics/googleads"
	httpapi "github.com/jekabolt/woometrics/internal/api/http"
	"github.com/jekabolt/woometrics/internal/auth/jwt"
	"github.com/jekabolt/woometrics/internal/cache"
	"github.com/jekabolt/woometrics/internal/dependency"
	"github.com/jekabolt/woometrics/internal/fetcher"
	"github.com/jekabolt/woometrics/internal/normalize"
	"github.com/jekabolt/woometrics/internal/report"
	"github.com/jekabolt/woometrics/internal/stock"
	"github.com/jekabolt/woometrics/internal/woo"
	"github.com/jekabolt/woometrics/internal/workerpool"
)

const shutdownTimeout = 10 * time.Second

// App is the main application
type App struct {
	c       *config.Config
	loc     *time.Location
	pools   []*workerpool.Pool
	closers []func() error
	ads     *adspend.Adapter
	reconf  *adspend.Reconfigurer
	svc     *report.Service
	hs      *httpapi.Server
	once    sync.Once
	done    chan struct{}
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Init builds the report pipeline without starting any background work.
func (a *App) Init(ctx context.Context) error {
	if a.svc != nil {
		return nil
	}
	loc, err := a.c.Store.Location()
	if err != nil {
		return err
	}
	a.loc = loc

	store, err := woo.New(&a.c.Store)
	if err != nil {
		slog.Default().ErrorContext(ctx, "can't create store client",
			slog.String("err", err.Error()))
		return err
	}

	pages := workerpool.New("orders", a.c.Fetcher.Pool, fetcher.DefaultWorkers)
	chunks := workerpool.New("stock-chunks", a.c.Stock.ChunkPool, stock.DefaultChunkWorkers)
	details := workerpool.New("stock-details", a.c.Stock.DetailPool, stock.DefaultDetailWorkers)
	a.pools = append(a.pools, pages, chunks, details)

	a.ads = adspend.NewAdapter(a.backend(), a.c.AdSpend.ProbeDays)

	a.svc = report.New(
		fetcher.New(store, pages, loc, a.c.Fetcher.PerPage),
		stock.New(store, cache.NewStore(a.c.Stock.TTL), chunks, details, a.c.Stock.ChunkSize),
		normalize.New(loc),
		a.ads,
		a.c.CAC,
	)

	slog.Default().InfoContext(ctx, "report pipeline ready",
		slog.String("store", a.c.Store.URL),
		slog.String("timezone", loc.String()),
		slog.String("ad_spend_source", a.ads.Status().Source),
	)
	return nil
}

// backend picks the ad platform named by adspend.source. It returns nil for "none".
func (a *App) backend() dependency.AdSpendBackend {
	switch a.c.AdSpend.Source {
	case ga4.Name:
		return ga4.NewClient(&a.c.GA4)
	case googleads.Name:
		c := googleads.NewClient(&a.c.GoogleAds)
		a.closers = append(a.closers, c.Close)
		return c
	default:
		return nil
	}
}

// Configure connects the ad spend backend once. Failures are logged and leave the
// adapter in a state that falls back to fixed costs.
func (a *App) Configure(ctx context.Context) {
	if err := a.ads.Configure(ctx); err != nil {
		slog.Default().WarnContext(ctx, "ad spend falls back to fixed cost per order",
			slog.String("state", a.ads.State().String()),
			slog.String("err", err.Error()))
	}
}

// Service returns the report service. Init must have been called.
func (a *App) Service() *report.Service {
	return a.svc
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	slog.Default().InfoContext(ctx, "starting woometrics")

	if err := a.Init(ctx); err != nil {
		return err
	}

	a.reconf = adspend.NewReconfigurer(a.ads, &a.c.AdSpend)
	if err := a.reconf.Start(ctx); err != nil {
		return fmt.Errorf("can't start ad spend reconfigure worker: %w", err)
	}

	a.hs = httpapi.New(&a.c.HTTP, a.svc, a.ads, jwt.New(a.c.Auth), a.loc)
	if err := a.hs.Start(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server",
			slog.String("err", err.Error()))
		return err
	}

	go func() {
		<-a.hs.Done()
		a.finish()
	}()
	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if a.hs != nil {
		if err := a.hs.Stop(ctx); err != nil {
			slog.Default().ErrorContext(ctx, "http server shutdown failed",
				slog.String("err", err.Error()))
		}
	}
	if a.reconf != nil {
		if err := a.reconf.Stop(); err != nil {
			slog.Default().ErrorContext(ctx, "ad spend reconfigure worker stop failed",
				slog.String("err", err.Error()))
		}
	}
	a.Close()
	a.finish()
}

func (a *App) finish() {
	a.once.Do(func() { close(a.done) })
}

// Close releases the worker pools and backend clients.
func (a *App) Close() {
	for _, p := range a.pools {
		p.Close()
	}
	a.pools = nil
	for _, c := range a.closers {
		if err := c(); err != nil {
			slog.Default().Warn("close failed", slog.String("err", err.Error()))
		}
	}
	a.closers = nil
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() chan struct{} {
	return a.done
}
