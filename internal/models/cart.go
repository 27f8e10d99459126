package models

import "time"

// CartItem is one line of an in-progress order. Items are addressed by the
// generated ID, never by position, so removals and quantity updates cannot
// race against a reordered sequence.
type CartItem struct {
	ID            string         `json:"id" bson:"id"`
	Pizza         PizzaItem      `json:"pizza" bson:"pizza"`
	Size          string         `json:"size" bson:"size"`
	Quantity      int            `json:"quantity" bson:"quantity"`
	Customization *Customization `json:"customization,omitempty" bson:"customization,omitempty"`
}

// CartDocument is the shape of a cart in the carts collection, one document
// per user keyed by identity id.
type CartDocument struct {
	Items     []CartItem `json:"items" bson:"items"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}
