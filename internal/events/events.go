package events

import (
	"encoding/json"
	"time"
)

// Event types carried on the order topic.
const (
	EventOrderCreated      = "OrderCreated"
	EventItemStatusChanged = "OrderItemStatusChanged"
)

// Envelope wraps every published event. Partition key is the order id so all
// events of one order stay ordered.
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

// LineItem is the per-item slice of an OrderCreated payload.
type LineItem struct {
	ProductID string  `json:"product_id"`
	SellerID  string  `json:"seller_id,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderCreatedPayload struct {
	OrderID     string     `json:"order_id"`
	OrderNumber string     `json:"order_number"`
	UserID      string     `json:"user_id"`
	Items       []LineItem `json:"items"`
	TotalAmount float64    `json:"total_amount"`
}

type ItemStatusChangedPayload struct {
	OrderID     string `json:"order_id"`
	ProductID   string `json:"product_id"`
	SellerID    string `json:"seller_id"`
	Status      string `json:"status"`
	OrderStatus string `json:"order_status"`
}
