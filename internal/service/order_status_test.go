package service

import (
	"errors"
	"testing"

	"github.com/freshcart-shop/freshcart/internal/constants"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{constants.OrderStatusPending, constants.OrderStatusConfirmed, true},
		{constants.OrderStatusPending, constants.OrderStatusCancelled, true},
		{constants.OrderStatusPending, constants.OrderStatusOutForDelivery, false},
		{constants.OrderStatusPending, constants.OrderStatusDelivered, false},
		{constants.OrderStatusConfirmed, constants.OrderStatusPreparing, true},
		{constants.OrderStatusConfirmed, constants.OrderStatusCancelled, true},
		{constants.OrderStatusConfirmed, constants.OrderStatusDelivered, false},
		{constants.OrderStatusPreparing, constants.OrderStatusOutForDelivery, true},
		{constants.OrderStatusPreparing, constants.OrderStatusCancelled, false},
		{constants.OrderStatusOutForDelivery, constants.OrderStatusDelivered, true},
		{constants.OrderStatusOutForDelivery, constants.OrderStatusCancelled, false},
		{constants.OrderStatusDelivered, constants.OrderStatusRefunded, true},
		{constants.OrderStatusDelivered, constants.OrderStatusCancelled, false},
		{constants.OrderStatusCancelled, constants.OrderStatusPending, false},
		{constants.OrderStatusCancelled, constants.OrderStatusConfirmed, false},
		{constants.OrderStatusRefunded, constants.OrderStatusDelivered, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.allowed {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestValidateTransitionError(t *testing.T) {
	err := validateTransition(constants.OrderStatusPending, constants.OrderStatusDelivered)
	if !errors.Is(err, ErrOrderInvalidTransition) {
		t.Fatalf("expected ErrOrderInvalidTransition, got: %v", err)
	}
}

func TestValidateTransitionUnknownStatus(t *testing.T) {
	if err := validateTransition(constants.OrderStatusPending, "SHIPPED"); err == nil {
		t.Fatalf("expected error for unknown target status")
	}
}
