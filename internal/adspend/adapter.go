package adspend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jekabolt/woometrics/internal/dependency"
	"github.com/jekabolt/woometrics/internal/entity"
	gerr "github.com/jekabolt/woometrics/internal/errors"
)

// State of an Adapter. Only StateReady queries the backend.
type State int

const (
	StateNotConfigured State = iota
	StateConfiguring
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConfiguring:
		return "configuring"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "not_configured"
	}
}

// Status is a snapshot of the adapter state machine.
type Status struct {
	Source  string    `json:"source"`
	State   string    `json:"state"`
	Reason  string    `json:"reason,omitempty"`
	Error   string    `json:"error,omitempty"`
	Changed time.Time `json:"changed"`
}

// Adapter implements dependency.AdSpendProvider over a dependency.AdSpendBackend:
//
//	NotConfigured -> Configuring -> Ready | Failed
//
// An auth error during a query moves a Ready adapter to Failed(auth_error); any other
// query error is reported to the caller and leaves the state alone.
type Adapter struct {
	backend   dependency.AdSpendBackend
	probeDays int
	now       func() time.Time

	mu      sync.RWMutex
	state   State
	reason  string
	lastErr string
	changed time.Time
}

// NewAdapter wraps b. A nil backend stays NotConfigured forever. probeDays > 0 makes
// Configure query the last probeDays days and fail with no_data when nothing comes back.
func NewAdapter(b dependency.AdSpendBackend, probeDays int) *Adapter {
	return &Adapter{
		backend:   b,
		probeDays: probeDays,
		now:       time.Now,
		state:     StateNotConfigured,
		reason:    entity.AdSpendReasonNotConfigured,
		changed:   time.Now(),
	}
}

func (a *Adapter) source() string {
	if a.backend == nil {
		return "none"
	}
	return a.backend.Name()
}

func (a *Adapter) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Status{
		Source:  a.source(),
		State:   a.state.String(),
		Reason:  a.reason,
		Error:   a.lastErr,
		Changed: a.changed,
	}
}

func (a *Adapter) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *Adapter) set(s State, reason string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
	a.reason = reason
	a.lastErr = ""
	if err != nil {
		a.lastErr = err.Error()
	}
	a.changed = a.now()
}

// Configure connects the backend and, when enabled, probes it for data.
// It may be called again from Failed.
func (a *Adapter) Configure(ctx context.Context) error {
	if a.backend == nil {
		a.set(StateNotConfigured, entity.AdSpendReasonNotConfigured, nil)
		return fmt.Errorf("no ad spend backend: %w", gerr.ErrAdSpendUnavailable)
	}

	a.mu.Lock()
	if a.state == StateConfiguring {
		a.mu.Unlock()
		return nil
	}
	a.state = StateConfiguring
	a.changed = a.now()
	a.mu.Unlock()

	if err := a.backend.Connect(ctx); err != nil {
		switch {
		case errors.Is(err, gerr.ErrAdSpendAuth):
			a.set(StateFailed, entity.AdSpendReasonAuthError, err)
		case errors.Is(err, gerr.ErrAdSpendUnavailable):
			a.set(StateNotConfigured, entity.AdSpendReasonNotConfigured, err)
		default:
			a.set(StateFailed, entity.AdSpendReasonQueryError, err)
		}
		slog.Default().WarnContext(ctx, "ad spend backend not configured",
			slog.String("source", a.backend.Name()),
			slog.String("err", err.Error()),
		)
		return err
	}

	if a.probeDays > 0 {
		end := a.now()
		rows, err := a.query(ctx, end.AddDate(0, 0, -a.probeDays), end)
		switch {
		case errors.Is(err, gerr.ErrAdSpendAuth):
			a.set(StateFailed, entity.AdSpendReasonAuthError, err)
			return err
		case err != nil:
			a.set(StateFailed, entity.AdSpendReasonQueryError, err)
			return err
		case len(rows) == 0:
			err = fmt.Errorf("%s returned no rows for the last %d days: %w", a.backend.Name(), a.probeDays, gerr.ErrAdSpendUnavailable)
			a.set(StateFailed, entity.AdSpendReasonNoData, err)
			return err
		}
	}

	a.set(StateReady, "", nil)
	slog.Default().InfoContext(ctx, "ad spend backend ready",
		slog.String("source", a.backend.Name()),
	)
	return nil
}

// query calls the backend, turning a panic into an error.
func (a *Adapter) query(ctx context.Context, start, end time.Time) (rows []entity.AdCostRow, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s backend panicked: %v", a.backend.Name(), r)
		}
	}()
	return a.backend.AdCosts(ctx, start, end)
}

// rows queries the backend if the adapter is ready. It returns the reason code to
// report when no rows are usable.
func (a *Adapter) rows(ctx context.Context, start, end time.Time) ([]entity.AdCostRow, string, error) {
	a.mu.RLock()
	state, reason, lastErr := a.state, a.reason, a.lastErr
	a.mu.RUnlock()

	if state != StateReady {
		if reason == "" {
			reason = entity.AdSpendReasonNotConfigured
		}
		msg := fmt.Sprintf("ad spend source %s is %s", a.source(), state)
		if lastErr != "" {
			msg += ": " + lastErr
		}
		return nil, reason, fmt.Errorf("%s: %w", msg, gerr.ErrAdSpendUnavailable)
	}

	rows, err := a.query(ctx, start, end)
	if err != nil {
		if errors.Is(err, gerr.ErrAdSpendAuth) {
			a.set(StateFailed, entity.AdSpendReasonAuthError, err)
			return nil, entity.AdSpendReasonAuthError, err
		}
		slog.Default().WarnContext(ctx, "ad spend query failed",
			slog.String("source", a.backend.Name()),
			slog.String("err", err.Error()),
		)
		return nil, entity.AdSpendReasonQueryError, err
	}
	return rows, "", nil
}

func (a *Adapter) TotalAdSpend(ctx context.Context, start, end time.Time) entity.AdSpend {
	rows, reason, err := a.rows(ctx, start, end)
	if err != nil {
		out := Summarize(nil, a.source())
		out.Reason = reason
		out.ErrorMessage = err.Error()
		return out
	}
	return Summarize(rows, a.source())
}

func (a *Adapter) CampaignPerformance(ctx context.Context, start, end time.Time) []entity.CampaignPerformance {
	rows, _, err := a.rows(ctx, start, end)
	if err != nil {
		return nil
	}
	return Campaigns(rows)
}
