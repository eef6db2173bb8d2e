package woo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Order is the subset of a WooCommerce order record the pipeline reads.
type Order struct {
	ID             int            `json:"id"`
	Number         string         `json:"number"`
	Status         string         `json:"status"`
	DateCreated    string         `json:"date_created"`
	DateCreatedGMT string         `json:"date_created_gmt"`
	Total          Amount         `json:"total"`
	TotalTax       Amount         `json:"total_tax"`
	ShippingTotal  Amount         `json:"shipping_total"`
	ShippingTax    Amount         `json:"shipping_tax"`
	Billing        Billing        `json:"billing"`
	PaymentMethod  string         `json:"payment_method"`
	LineItems      []LineItem     `json:"line_items"`
	ShippingLines  []ShippingLine `json:"shipping_lines"`
	MetaData       MetaData       `json:"meta_data"`
}

type Billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	City      string `json:"city"`
}

type LineItem struct {
	ID          int      `json:"id"`
	ProductID   int      `json:"product_id"`
	VariationID int      `json:"variation_id"`
	Name        string   `json:"name"`
	SKU         string   `json:"sku"`
	Quantity    int      `json:"quantity"`
	Subtotal    Amount   `json:"subtotal"`
	SubtotalTax Amount   `json:"subtotal_tax"`
	Total       Amount   `json:"total"`
	TotalTax    Amount   `json:"total_tax"`
	MetaData    MetaData `json:"meta_data"`
}

type ShippingLine struct {
	MethodID    string `json:"method_id"`
	MethodTitle string `json:"method_title"`
	Total       Amount `json:"total"`
	TotalTax    Amount `json:"total_tax"`
}

// Product covers simple, variable and variation records.
type Product struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	ParentID      int    `json:"parent_id"`
	SKU           string `json:"sku"`
	StockQuantity *int   `json:"stock_quantity"`
}

const ProductTypeVariable = "variable"

// Amount is a money value that the store may send as a string, a number, null or "".
// null and "" decode to zero.
type Amount decimal.Decimal

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*a = Amount(decimal.Zero)
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("amount %s: %w", string(b), err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*a = Amount(decimal.Zero)
			return nil
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("amount %q: %w", s, err)
	}
	*a = Amount(d)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return decimal.Decimal(a).MarshalJSON()
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.Decimal(a)
}

func NewAmount(s string) Amount {
	return Amount(decimal.RequireFromString(s))
}

type MetaEntry struct {
	ID    int             `json:"id"`
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// MetaData values are arbitrary JSON; they are decoded on access.
type MetaData []MetaEntry

// String returns the value of the first entry with key. Numbers are returned as written;
// objects, arrays and null are reported as absent.
func (m MetaData) String(key string) (string, bool) {
	for _, e := range m {
		if e.Key != key {
			continue
		}
		raw := bytes.TrimSpace(e.Value)
		if len(raw) == 0 {
			return "", false
		}
		switch raw[0] {
		case '"':
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return "", false
			}
			return s, true
		case '{', '[', 'n':
			return "", false
		default:
			return string(raw), true
		}
	}
	return "", false
}

// Decimal parses the value under key; anything unparsable is zero.
func (m MetaData) Decimal(key string) decimal.Decimal {
	s, ok := m.String(key)
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
