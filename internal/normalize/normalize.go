// Package normalize turns store API order records into entity orders and line items.
package normalize

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jekabolt/woometrics/internal/entity"
	"github.com/jekabolt/woometrics/internal/woo"
	"github.com/shopspring/decimal"
)

const (
	metaPaymentMethod = "_dintero_payment_method"
	metaInvoiceNumber = "_wcpdf_invoice_number"
	metaInvoiceDate   = "_wcpdf_invoice_date_formatted"
	metaOrderNumber   = "_order_number_formatted"
	metaItemCost      = "_yith_cog_item_cost"

	wooDateLayout = "2006-01-02T15:04:05"

	// UnknownPaymentMethod is shown for missing or unmapped payment codes.
	UnknownPaymentMethod = "Unknown"
)

var paymentMethods = map[string]string{
	"Klarna":               "Klarna",
	"BamboraVipps":         "Vipps",
	"Vipps":                "Vipps",
	"BamboraApplepay":      "Apple Pay",
	"BamboraGooglepay":     "Google Pay",
	"CollectorInvoice":     "Invoice",
	"BamboraCreditcard":    "Card",
	"CollectorInstallment": "Walley Installment",
}

// PaymentMethodDisplay maps a payment gateway code to its display name.
func PaymentMethodDisplay(code string) string {
	if name, ok := paymentMethods[code]; ok {
		return name
	}
	return UnknownPaymentMethod
}

type Normalizer struct {
	loc *time.Location
}

// New returns a normalizer that reports dates in loc.
func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

// Normalize converts one order. ok is false when the order has no usable creation date.
func (n *Normalizer) Normalize(raw woo.Order, stock map[int]int) (entity.Order, []entity.LineItem, bool) {
	created, ok := n.createdAt(raw)
	if !ok {
		return entity.Order{}, nil, false
	}

	shippingBase, shippingTax := decimal.Zero, decimal.Zero
	for _, sl := range raw.ShippingLines {
		shippingBase = shippingBase.Add(sl.Total.Decimal())
		shippingTax = shippingTax.Add(sl.TotalTax.Decimal())
	}

	items := make([]entity.LineItem, 0, len(raw.LineItems))
	subtotal := decimal.Zero
	for _, li := range raw.LineItems {
		item := lineItem(raw.ID, created, li, stock)
		subtotal = subtotal.Add(item.Subtotal)
		items = append(items, item)
	}

	paymentCode, _ := raw.MetaData.String(metaPaymentMethod)
	orderNumber, _ := raw.MetaData.String(metaOrderNumber)
	invoiceNumber, _ := raw.MetaData.String(metaInvoiceNumber)

	o := entity.Order{
		ID:                raw.ID,
		OrderNumber:       orderNumber,
		Date:              created,
		Status:            raw.Status,
		Total:             raw.Total.Decimal(),
		Subtotal:          subtotal,
		ShippingBase:      shippingBase,
		ShippingTax:       shippingTax,
		ShippingTotal:     shippingBase.Add(shippingTax),
		TaxTotal:          raw.TotalTax.Decimal(),
		PaymentMethod:     PaymentMethodDisplay(paymentCode),
		PaymentMethodCode: paymentCode,
		ShippingMethod:    shippingMethod(raw.ShippingLines),
		Billing: entity.Billing{
			FirstName: strings.TrimSpace(raw.Billing.FirstName),
			LastName:  strings.TrimSpace(raw.Billing.LastName),
			Email:     strings.TrimSpace(raw.Billing.Email),
			City:      strings.TrimSpace(raw.Billing.City),
		},
		Invoice: entity.Invoice{Number: invoiceNumber},
	}
	if d, ok := raw.MetaData.String(metaInvoiceDate); ok {
		o.Invoice.Date = &d
	}
	return o, items, true
}

// NormalizeAll converts a batch and reports how many orders were skipped.
func (n *Normalizer) NormalizeAll(ctx context.Context, raws []woo.Order, stock map[int]int) ([]entity.Order, []entity.LineItem, int) {
	orders := make([]entity.Order, 0, len(raws))
	var items []entity.LineItem
	skipped := 0
	for _, raw := range raws {
		o, its, ok := n.Normalize(raw, stock)
		if !ok {
			skipped++
			slog.Default().WarnContext(ctx, "skipping order without a valid creation date",
				slog.Int("order_id", raw.ID),
				slog.String("date_created_gmt", raw.DateCreatedGMT),
				slog.String("date_created", raw.DateCreated),
			)
			continue
		}
		orders = append(orders, o)
		items = append(items, its...)
	}
	return orders, items, skipped
}

// ProductIDs lists the distinct product ids referenced by the orders' line items.
func ProductIDs(raws []woo.Order) []int {
	seen := make(map[int]struct{})
	var ids []int
	for _, o := range raws {
		for _, li := range o.LineItems {
			if li.ProductID == 0 {
				continue
			}
			if _, ok := seen[li.ProductID]; ok {
				continue
			}
			seen[li.ProductID] = struct{}{}
			ids = append(ids, li.ProductID)
		}
	}
	return ids
}

// createdAt prefers the GMT timestamp; date_created is in store-local time.
func (n *Normalizer) createdAt(raw woo.Order) (time.Time, bool) {
	if t, ok := parseDate(raw.DateCreatedGMT, time.UTC); ok {
		return t.In(n.loc), true
	}
	if t, ok := parseDate(raw.DateCreated, n.loc); ok {
		return t.In(n.loc), true
	}
	return time.Time{}, false
}

func parseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(wooDateLayout, s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func shippingMethod(lines []woo.ShippingLine) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0].MethodTitle
}

func lineItem(orderID int, date time.Time, li woo.LineItem, stock map[int]int) entity.LineItem {
	unitCost := li.MetaData.Decimal(metaItemCost)
	qty := decimal.NewFromInt(int64(li.Quantity))
	return entity.LineItem{
		OrderID:       orderID,
		Date:          date,
		ProductID:     li.ProductID,
		SKU:           li.SKU,
		Name:          li.Name,
		Quantity:      li.Quantity,
		LineTotal:     li.Total.Decimal().Add(li.TotalTax.Decimal()),
		Subtotal:      li.Subtotal.Decimal(),
		Tax:           li.TotalTax.Decimal(),
		UnitCost:      unitCost,
		CostTotal:     unitCost.Mul(qty),
		StockQuantity: stock[li.ProductID],
	}
}
