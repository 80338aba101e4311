package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCancellableSubset(t *testing.T) {
	want := map[OrderStatus]bool{
		OrderStatusPending:        true,
		OrderStatusConfirmed:      true,
		OrderStatusProcessing:     true,
		OrderStatusApproved:       false,
		OrderStatusShipped:        false,
		OrderStatusOutForDelivery: false,
		OrderStatusDelivered:      false,
		OrderStatusCancelled:      false,
	}
	for s, ok := range want {
		if s.Cancellable() != ok {
			t.Fatalf("%s: cancellable=%v, want %v", s, s.Cancellable(), ok)
		}
	}
}

func TestTerminalHaveNoTransitions(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		if !s.Terminal() {
			t.Fatalf("%s should be terminal", s)
		}
		if len(NextStatuses(s)) != 0 {
			t.Fatalf("%s has transitions", s)
		}
	}
}

func TestHappyPath(t *testing.T) {
	path := []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusOutForDelivery, OrderStatusDelivered,
	}
	for i := 1; i < len(path); i++ {
		if !CanTransition(path[i-1], path[i]) {
			t.Fatalf("%s -> %s rejected", path[i-1], path[i])
		}
	}
	if CanTransition(OrderStatusShipped, OrderStatusCancelled) {
		t.Fatalf("shipped orders must not be cancellable")
	}
	if CanTransition(OrderStatusDelivered, OrderStatusPending) {
		t.Fatalf("delivered is terminal")
	}
}

func TestNextStatuses_ReturnsCopy(t *testing.T) {
	got := NextStatuses(OrderStatusPending)
	want := []OrderStatus{OrderStatusConfirmed, OrderStatusCancelled}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("next statuses (-want +got):\n%s", diff)
	}
	got[0] = OrderStatusDelivered
	if !CanTransition(OrderStatusPending, OrderStatusConfirmed) {
		t.Fatalf("table mutated through returned slice")
	}
}

func TestTrackingMessage(t *testing.T) {
	if got := TrackingMessage(OrderStatusCancelled, "changed mind"); got != "Order cancelled: changed mind" {
		t.Fatalf("got %q", got)
	}
	if got := TrackingMessage(OrderStatusCancelled, ""); got != "Order cancelled" {
		t.Fatalf("got %q", got)
	}
	if got := TrackingMessage(OrderStatusShipped, "ignored"); got != "Order has been shipped" {
		t.Fatalf("got %q", got)
	}
	if got := TrackingMessage(OrderStatus("Lost"), ""); got != "Status updated to Lost" {
		t.Fatalf("got %q", got)
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	if !OrderStatusOutForDelivery.Valid() {
		t.Fatalf("expected valid")
	}
	if OrderStatus("pending").Valid() {
		t.Fatalf("status values are case sensitive")
	}
}
