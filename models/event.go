package models

import "time"

// Order statuses as stored in Postgres.
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
	OrderStatusRejected       = "rejected"
)

// QualifyingOrderStatuses are the statuses that count as real purchase
// history when building category affinity.
var QualifyingOrderStatuses = []string{
	OrderStatusDelivered,
	OrderStatusOutForDelivery,
	OrderStatusConfirmed,
}

// ViewEvent is the aggregated view history for one (user, product) pair.
// ViewCount only ever grows; LastViewedAt orders the history newest first.
type ViewEvent struct {
	UserID       int       `json:"userId"`
	ProductID    int64     `json:"productId"`
	ViewCount    int       `json:"viewCount"`
	LastViewedAt time.Time `json:"lastViewedAt"`
}

// LineItem is a single purchased product within an order.
type LineItem struct {
	ProductID  int64  `json:"productId"`
	CategoryID *int64 `json:"categoryId,omitempty"`
	Quantity   int    `json:"quantity"`
}

// OrderEvent is one historical order with its line items.
type OrderEvent struct {
	UserID    int        `json:"userId"`
	OrderID   int64      `json:"orderId"`
	CreatedAt time.Time  `json:"createdAt"`
	Status    string     `json:"status"`
	LineItems []LineItem `json:"lineItems"`
}
