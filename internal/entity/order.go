package entity

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusPending orders are placed but unpaid; they are never counted as sales.
const OrderStatusPending = "pending"

// Order is a normalized store order. All money values are in the store currency.
type Order struct {
	ID                int             `json:"id"`
	OrderNumber       string          `json:"order_number"`
	Date              time.Time       `json:"date"`
	Status            string          `json:"status"`
	Total             decimal.Decimal `json:"total"`
	Subtotal          decimal.Decimal `json:"subtotal"` // excl. VAT and shipping
	ShippingBase      decimal.Decimal `json:"shipping_base"`
	ShippingTax       decimal.Decimal `json:"shipping_tax"`
	ShippingTotal     decimal.Decimal `json:"shipping_total"` // base + tax
	TaxTotal          decimal.Decimal `json:"tax_total"`      // includes shipping VAT
	Billing           Billing         `json:"billing"`
	PaymentMethod     string          `json:"payment_method"`
	PaymentMethodCode string          `json:"payment_method_code"`
	ShippingMethod    string          `json:"shipping_method"`
	Invoice           Invoice         `json:"invoice"`
}

type Billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	City      string `json:"city"`
}

// Name joins first and last name, skipping an empty part.
func (b Billing) Name() string {
	switch {
	case b.FirstName == "":
		return b.LastName
	case b.LastName == "":
		return b.FirstName
	default:
		return b.FirstName + " " + b.LastName
	}
}

type Invoice struct {
	Number string  `json:"number"`
	Date   *string `json:"date,omitempty"`
}

// LineItem is a single product row of an order.
type LineItem struct {
	OrderID       int             `json:"order_id"`
	Date          time.Time       `json:"date"`
	ProductID     int             `json:"product_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	LineTotal     decimal.Decimal `json:"line_total"` // incl. tax
	Subtotal      decimal.Decimal `json:"subtotal"`   // excl. tax
	Tax           decimal.Decimal `json:"tax"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	CostTotal     decimal.Decimal `json:"cost_total"`
	StockQuantity int             `json:"stock_quantity"`
}

// TimeRange is an inclusive range of business-local calendar days.
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Days returns the number of calendar days covered by the range.
func (tr TimeRange) Days() int {
	from := time.Date(tr.From.Year(), tr.From.Month(), tr.From.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(tr.To.Year(), tr.To.Month(), tr.To.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours()/24) + 1
}

// Previous returns the range of equal length that ends the day before tr starts.
func (tr TimeRange) Previous() TimeRange {
	days := tr.Days()
	return TimeRange{
		From: tr.From.AddDate(0, 0, -days),
		To:   tr.From.AddDate(0, 0, -1),
	}
}

// CustomerKey identifies the customer behind an order: the lowercased billing email, or a
// per-order guest key when the email is blank.
func (o Order) CustomerKey() string {
	email := strings.ToLower(strings.TrimSpace(o.Billing.Email))
	if email == "" {
		return "guest#" + strconv.Itoa(o.ID)
	}
	return email
}

// IsPending reports whether the order is placed but unpaid.
func (o Order) IsPending() bool {
	return o.Status == OrderStatusPending
}
