package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	valid := []OrderStatus{StatusPending, StatusConfirmed, StatusPreparing, StatusOutForDelivery, StatusDelivered}
	for _, status := range valid {
		assert.True(t, status.Valid(), "%s should be valid", status)
	}

	assert.False(t, OrderStatus("shipped").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderStatusTransitions(t *testing.T) {
	testCases := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"confirmed to preparing", StatusConfirmed, StatusPreparing, true},
		{"preparing to out-for-delivery", StatusPreparing, StatusOutForDelivery, true},
		{"out-for-delivery to delivered", StatusOutForDelivery, StatusDelivered, true},
		{"pending cannot skip to preparing", StatusPending, StatusPreparing, false},
		{"pending cannot skip to delivered", StatusPending, StatusDelivered, false},
		{"no going backwards", StatusConfirmed, StatusPending, false},
		{"delivered is terminal", StatusDelivered, StatusPending, false},
		{"no self transition", StatusPending, StatusPending, false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}
