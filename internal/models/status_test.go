package models

import (
	"testing"
	"time"
)

func TestValidItemStatus(t *testing.T) {
	for _, status := range []string{
		ItemStatusPending, ItemStatusProcessing, ItemStatusShipped,
		ItemStatusDelivered, ItemStatusCancelled, ItemStatusReturned,
	} {
		if !ValidItemStatus(status) {
			t.Fatalf("expected %q to be a valid item status", status)
		}
	}
	for _, status := range []string{"", "shipped", "SHIPPED", "Refunded", "Completed"} {
		if ValidItemStatus(status) {
			t.Fatalf("expected %q to be rejected", status)
		}
	}
}

func TestApplyItemStatusStampsTimestamp(t *testing.T) {
	now := time.Now()
	item := OrderLineItem{Status: ItemStatusProcessing}

	ApplyItemStatus(&item, ItemStatusShipped, now)
	if item.Status != ItemStatusShipped {
		t.Fatalf("expected status Shipped, got %q", item.Status)
	}
	if item.ShippedAt == nil || !item.ShippedAt.Equal(now) {
		t.Fatalf("expected shippedAt to be stamped, got %v", item.ShippedAt)
	}
	if item.DeliveredAt != nil || item.CancelledAt != nil || item.ReturnedAt != nil {
		t.Fatal("expected only shippedAt to be stamped")
	}
}

func TestApplyItemStatusKeepsEarlierTimestamps(t *testing.T) {
	shipped := time.Now()
	delivered := shipped.Add(time.Hour)

	item := OrderLineItem{Status: ItemStatusProcessing}
	ApplyItemStatus(&item, ItemStatusShipped, shipped)
	ApplyItemStatus(&item, ItemStatusDelivered, delivered)

	if item.ShippedAt == nil || !item.ShippedAt.Equal(shipped) {
		t.Fatalf("expected shippedAt to survive later transitions, got %v", item.ShippedAt)
	}
	if item.DeliveredAt == nil || !item.DeliveredAt.Equal(delivered) {
		t.Fatalf("expected deliveredAt to be stamped, got %v", item.DeliveredAt)
	}
}

func TestApplyItemStatusProcessingHasNoTimestamp(t *testing.T) {
	now := time.Now()
	item := OrderLineItem{Status: ItemStatusPending}
	ApplyItemStatus(&item, ItemStatusProcessing, now)

	if item.Status != ItemStatusProcessing {
		t.Fatalf("expected status Processing, got %q", item.Status)
	}
	if item.ShippedAt != nil || item.DeliveredAt != nil || item.CancelledAt != nil || item.ReturnedAt != nil {
		t.Fatal("Processing has no dedicated timestamp field")
	}
}

func TestStatusTimestampField(t *testing.T) {
	cases := map[string]string{
		ItemStatusShipped:    "shippedAt",
		ItemStatusDelivered:  "deliveredAt",
		ItemStatusCancelled:  "cancelledAt",
		ItemStatusReturned:   "returnedAt",
		ItemStatusPending:    "",
		ItemStatusProcessing: "",
	}
	for status, want := range cases {
		if got := StatusTimestampField(status); got != want {
			t.Fatalf("StatusTimestampField(%q) = %q, want %q", status, got, want)
		}
	}
}

func TestAggregateOrderStatusCompletedOnlyWhenAllDelivered(t *testing.T) {
	items := []OrderLineItem{
		{Status: ItemStatusDelivered},
		{Status: ItemStatusShipped},
		{Status: ItemStatusDelivered},
	}
	if got := AggregateOrderStatus(items); got != OrderStatusPending {
		t.Fatalf("expected Pending with one undelivered item, got %q", got)
	}

	items[1].Status = ItemStatusDelivered
	if got := AggregateOrderStatus(items); got != OrderStatusCompleted {
		t.Fatalf("expected Completed when every item is delivered, got %q", got)
	}
}

func TestAggregateOrderStatusCancelledItemBlocksCompletion(t *testing.T) {
	items := []OrderLineItem{
		{Status: ItemStatusDelivered},
		{Status: ItemStatusCancelled},
	}
	if got := AggregateOrderStatus(items); got != OrderStatusPending {
		t.Fatalf("expected Pending when an item is cancelled, got %q", got)
	}
}

func TestAggregateOrderStatusEmptyItems(t *testing.T) {
	if got := AggregateOrderStatus(nil); got != OrderStatusPending {
		t.Fatalf("expected Pending for empty items, got %q", got)
	}
}
