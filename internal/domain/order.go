package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the position of an order in its lifecycle.
type Status string

const (
	StatusPlaced     Status = "placed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
)

// Statuses lists the lifecycle in order. Only StatusPlaced is initial.
var Statuses = []Status{StatusPlaced, StatusProcessing, StatusShipped, StatusDelivered}

// ParseStatus accepts only the exact lowercase values of the lifecycle.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	return st, st.Valid()
}

func (s Status) Valid() bool { return s.Rank() >= 0 }

// Rank is the position of s in Statuses, or -1.
func (s Status) Rank() int {
	for i, v := range Statuses {
		if v == s {
			return i
		}
	}
	return -1
}

// IsDelivered compares case-insensitively so legacy records with
// capitalised values are still protected from cancellation.
func (s Status) IsDelivered() bool {
	return strings.EqualFold(string(s), string(StatusDelivered))
}

// LineItem references a product by id; the unit price is not stored.
type LineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type Order struct {
	ID        string     `json:"id"`
	BuyerID   string     `json:"buyer"`
	Items     []LineItem `json:"products"`
	Address   string     `json:"address"`
	Status    Status     `json:"status"`
	Price     float64    `json:"price"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// LineView is a line item with its product joined in. Product is nil when
// the product was deleted after the order was placed.
type LineView struct {
	Product   *ProductSummary `json:"product"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
}

type OrderView struct {
	ID        string        `json:"id"`
	Buyer     *BuyerSummary `json:"buyer,omitempty"`
	BuyerID   string        `json:"buyerId"`
	Products  []LineView    `json:"products"`
	Address   string        `json:"address"`
	Status    Status        `json:"status"`
	Price     float64       `json:"price"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// ComputeTotal sums price*quantity over items. prices is keyed by product id
// and must hold every item's product.
func ComputeTotal(items []LineItem, prices map[string]float64) float64 {
	total := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(prices[it.ProductID]).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	f, _ := total.Float64()
	return f
}
