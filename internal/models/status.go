package models

import "time"

// Line item fulfillment statuses. The string values are persisted and exposed
// over the API, so casing must not change.
const (
	ItemStatusPending    = "Pending"
	ItemStatusProcessing = "Processing"
	ItemStatusShipped    = "Shipped"
	ItemStatusDelivered  = "Delivered"
	ItemStatusCancelled  = "Cancelled"
	ItemStatusReturned   = "Returned"
)

// Aggregate order statuses. Completed is derived: it is set only when every
// line item has been delivered. Cancelled is written by the customer-facing
// cancel path and does not cascade to line items.
const (
	OrderStatusPending   = "Pending"
	OrderStatusCompleted = "Completed"
	OrderStatusCancelled = "Cancelled"
)

var itemStatuses = map[string]bool{
	ItemStatusPending:    true,
	ItemStatusProcessing: true,
	ItemStatusShipped:    true,
	ItemStatusDelivered:  true,
	ItemStatusCancelled:  true,
	ItemStatusReturned:   true,
}

// ValidItemStatus reports whether s is one of the six line item statuses.
func ValidItemStatus(s string) bool {
	return itemStatuses[s]
}

// StatusTimestampField returns the bson field name stamped when a line item
// enters the given status, or "" when the status has no dedicated timestamp.
func StatusTimestampField(status string) string {
	switch status {
	case ItemStatusShipped:
		return "shippedAt"
	case ItemStatusDelivered:
		return "deliveredAt"
	case ItemStatusCancelled:
		return "cancelledAt"
	case ItemStatusReturned:
		return "returnedAt"
	default:
		return ""
	}
}

// ApplyItemStatus sets the item status and stamps the matching timestamp.
// Timestamps are only ever set, never cleared, so a Shipped→Delivered→Returned
// sequence keeps all three marks.
func ApplyItemStatus(item *OrderLineItem, status string, now time.Time) {
	item.Status = status
	switch status {
	case ItemStatusShipped:
		item.ShippedAt = &now
	case ItemStatusDelivered:
		item.DeliveredAt = &now
	case ItemStatusCancelled:
		item.CancelledAt = &now
	case ItemStatusReturned:
		item.ReturnedAt = &now
	}
}

// AggregateOrderStatus derives the parent status from the line items: the
// order is Completed iff every item has been delivered, otherwise Pending.
// There is no partially-fulfilled aggregate state.
func AggregateOrderStatus(items []OrderLineItem) string {
	if len(items) == 0 {
		return OrderStatusPending
	}
	for _, item := range items {
		if item.Status != ItemStatusDelivered {
			return OrderStatusPending
		}
	}
	return OrderStatusCompleted
}
