package models

import "time"

// OrderStatus is the delivery state of a completed order. Transitions are
// strictly forward-moving: pending -> confirmed -> preparing ->
// out-for-delivery -> delivered.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out-for-delivery"
	StatusDelivered      OrderStatus = "delivered"
)

// statusTransitions is the only legal next step for each status. Delivered is
// terminal and has no entry.
var statusTransitions = map[OrderStatus]OrderStatus{
	StatusPending:        StatusConfirmed,
	StatusConfirmed:      StatusPreparing,
	StatusPreparing:      StatusOutForDelivery,
	StatusOutForDelivery: StatusDelivered,
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusOutForDelivery, StatusDelivered:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is the legal successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return statusTransitions[s] == next
}

// Order is a completed checkout, stored once in the orders collection under
// its own id and never deleted by the client. Total is computed at creation
// and not recomputed.
type Order struct {
	ID            string      `json:"id" bson:"id"`
	UserID        string      `json:"userId" bson:"userId"`
	Date          time.Time   `json:"date" bson:"date"`
	Items         []CartItem  `json:"items" bson:"items"`
	Subtotal      float64     `json:"subtotal" bson:"subtotal"`
	DeliveryFee   float64     `json:"deliveryFee" bson:"deliveryFee"`
	Total         float64     `json:"total" bson:"total"`
	Status        OrderStatus `json:"status" bson:"status"`
	Address       string      `json:"address" bson:"address"`
	Phone         string      `json:"phone" bson:"phone"`
	PaymentMethod string      `json:"paymentMethod" bson:"paymentMethod"`
	CreatedAt     time.Time   `json:"createdAt" bson:"createdAt"`
}
