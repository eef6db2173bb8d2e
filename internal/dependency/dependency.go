package dependency

import (
	"context"
	"time"

	"github.com/jekabolt/woometrics/internal/entity"
	"github.com/jekabolt/woometrics/internal/woo"
)

//go:generate mockery --with-expecter --case underscore --all --output=./mocks
type (
	// OrderSource pages through store orders.
	OrderSource interface {
		// Orders returns one page of orders with the X-WP-Total / X-WP-TotalPages totals.
		Orders(ctx context.Context, q woo.OrderQuery) (*woo.OrdersPage, error)
	}
	// ProductSource reads product and variation records for stock resolution.
	ProductSource interface {
		// ProductsByID returns up to one page of products of any status.
		ProductsByID(ctx context.Context, ids []int) ([]woo.Product, error)
		Product(ctx context.Context, id int) (*woo.Product, error)
		// Variations lists the variations of a variable product.
		Variations(ctx context.Context, productID int) ([]woo.Product, error)
		// Variation returns a single variation under its parent.
		Variation(ctx context.Context, parentID, id int) (*woo.Product, error)
	}
	// AdSpendProvider answers ad spend questions for a date range. It never returns
	// errors: failures come back as HasData=false with a reason and a message.
	AdSpendProvider interface {
		TotalAdSpend(ctx context.Context, start, end time.Time) entity.AdSpend
		CampaignPerformance(ctx context.Context, start, end time.Time) []entity.CampaignPerformance
	}
	// AdSpendBackend reads ad cost rows from one ad platform.
	AdSpendBackend interface {
		// Name identifies the platform in responses and logs.
		Name() string
		// Connect builds the platform client. Errors wrap gerr.ErrAdSpendUnavailable when
		// the backend is disabled and gerr.ErrAdSpendAuth when credentials are rejected.
		Connect(ctx context.Context) error
		// AdCosts returns date x campaign cost rows for [start, end].
		AdCosts(ctx context.Context, start, end time.Time) ([]entity.AdCostRow, error)
	}
)
