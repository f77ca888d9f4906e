package service

import (
	"fmt"

	"github.com/freshcart-shop/freshcart/internal/constants"
)

// orderTransitions is the full status machine. A status missing from
// the map, or an empty target list, is terminal.
var orderTransitions = map[string][]string{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed,
		constants.OrderStatusCancelled,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusPreparing,
		constants.OrderStatusCancelled,
	},
	constants.OrderStatusPreparing: {
		constants.OrderStatusOutForDelivery,
	},
	constants.OrderStatusOutForDelivery: {
		constants.OrderStatusDelivered,
	},
	constants.OrderStatusDelivered: {
		constants.OrderStatusRefunded,
	},
	constants.OrderStatusCancelled: {},
	constants.OrderStatusRefunded:  {},
}

// CanTransition reports whether from -> to is a legal status move.
func CanTransition(from, to string) bool {
	targets, ok := orderTransitions[from]
	if !ok {
		return false
	}
	for _, target := range targets {
		if target == to {
			return true
		}
	}
	return false
}

// validateTransition returns a descriptive error for an illegal move.
func validateTransition(from, to string) error {
	if CanTransition(from, to) {
		return nil
	}
	return fmt.Errorf("%w: Invalid status transition from %s to %s", ErrOrderInvalidTransition, from, to)
}

// isKnownStatus reports whether a status value is part of the machine.
func isKnownStatus(status string) bool {
	if _, ok := orderTransitions[status]; ok {
		return true
	}
	return false
}
