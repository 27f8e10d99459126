package store

import (
	"context"
	"errors"
)

// Collection names in the remote document store.
const (
	CollectionUsers    = "users"
	CollectionPizzas   = "pizzas"
	CollectionCarts    = "carts"
	CollectionOrders   = "orders"
	CollectionFeedback = "feedback"
)

// ErrNotFound is returned when a document or cache key does not exist.
var ErrNotFound = errors.New("document not found")

// Filter is an equality match on a single document field.
type Filter struct {
	Field string
	Value interface{}
}

// Sort orders query results by one field.
type Sort struct {
	Field string
	Desc  bool
}

// DocumentStore is the remote document database: collection/document-id
// addressing with get, replace, partial merge and filtered ordered queries.
// Implementations must translate their native not-found into ErrNotFound.
type DocumentStore interface {
	// Get reads the document with the given id into out.
	Get(ctx context.Context, collection, id string, out interface{}) error

	// Set writes the full document under id, creating or replacing it.
	Set(ctx context.Context, collection, id string, doc interface{}) error

	// Merge updates only the given fields of the document under id,
	// creating the document if it does not exist.
	Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error

	// Find reads every document matching all filters into out, which must be
	// a pointer to a slice. A nil sort leaves the order unspecified.
	Find(ctx context.Context, collection string, filters []Filter, sort *Sort, out interface{}) error
}

// KeyValueStore is the local durable cache: JSON strings under fixed keys,
// consumed as a migration source and last-resort fallback.
type KeyValueStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Local cache keys carried over from the mobile builds that wrote them.
const (
	KeyCart      = "dp_cart"
	KeyOrders    = "dp_orders"
	KeyFavorites = "dp_favorites"
	KeyProfile   = "dp_profile"
	KeyTheme     = "dp_theme"
	KeyFeedback  = "dp_feedback"
)
