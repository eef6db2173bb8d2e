package adspend

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Config holds the ad spend adapter and reconfigure worker settings.
type Config struct {
	Source         string        `mapstructure:"source" validate:"omitempty,oneof=ga4 google_ads none"`
	ProbeDays      int           `mapstructure:"probe_days" validate:"gte=0"`
	WorkerInterval time.Duration `mapstructure:"worker_interval"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{
		Source:         "ga4",
		WorkerInterval: 15 * time.Minute,
	}
}

// Reconfigurer periodically retries Configure on a failed adapter so that rotated
// credentials or a newly populated account are picked up without a restart.
type Reconfigurer struct {
	adapter *Adapter
	c       *Config
	ctx     context.Context
	stop    context.CancelFunc
	done    chan struct{}
}

func NewReconfigurer(a *Adapter, c *Config) *Reconfigurer {
	if c == nil {
		dc := DefaultConfig()
		c = &dc
	}
	if c.WorkerInterval == 0 {
		c.WorkerInterval = 15 * time.Minute
	}
	return &Reconfigurer{adapter: a, c: c}
}

// Start configures the adapter once and then keeps retrying while it is failed.
func (w *Reconfigurer) Start(ctx context.Context) error {
	if w.ctx != nil && w.stop != nil {
		return fmt.Errorf("ad spend reconfigure worker already started")
	}
	w.ctx, w.stop = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.worker(w.ctx)
	return nil
}

// Stop stops the worker and waits for it to exit.
func (w *Reconfigurer) Stop() error {
	if w.stop == nil {
		return fmt.Errorf("ad spend reconfigure worker already stopped or not started")
	}
	w.stop()
	w.stop = nil
	<-w.done
	return nil
}

func (w *Reconfigurer) worker(ctx context.Context) {
	defer close(w.done)

	if w.adapter.State() == StateNotConfigured {
		if err := w.adapter.Configure(ctx); err != nil {
			slog.Default().WarnContext(ctx, "ad spend configure failed on startup",
				slog.String("err", err.Error()))
		}
	}

	ticker := time.NewTicker(w.c.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.retry(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Reconfigurer) retry(ctx context.Context) {
	if w.adapter.State() != StateFailed {
		return
	}
	st := w.adapter.Status()
	slog.Default().InfoContext(ctx, "reconfiguring ad spend source",
		slog.String("source", st.Source),
		slog.String("reason", st.Reason))
	if err := w.adapter.Configure(ctx); err != nil {
		slog.Default().WarnContext(ctx, "ad spend reconfigure failed",
			slog.String("source", st.Source),
			slog.String("err", err.Error()))
	}
}
