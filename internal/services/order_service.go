package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dailypizza/pizza-orders-api/internal/auth"
	"github.com/dailypizza/pizza-orders-api/internal/models"
	"github.com/dailypizza/pizza-orders-api/internal/store"
)

// DeliveryFee is the flat fee added to every order at checkout.
const DeliveryFee = 2.00

// OrderService is the append-only record of completed orders for the active
// identity. Orders are written once at checkout and never deleted; only the
// status field moves, strictly forward.
type OrderService struct {
	store store.DocumentStore
	cache store.KeyValueStore
	cart  *CartService
	ids   IdentityProvider

	mu     sync.Mutex
	orders []models.Order // newest first
}

// NewOrderService creates the order history and subscribes it to identity
// transitions: every sign-in reloads the identity's orders and migrates any
// locally cached ones; sign-out clears in-memory state.
func NewOrderService(docs store.DocumentStore, cache store.KeyValueStore, cart *CartService, ids IdentityProvider) *OrderService {
	s := &OrderService{
		store: docs,
		cache: cache,
		cart:  cart,
		ids:   ids,
	}
	ids.OnChange(s.handleIdentityChange)
	return s
}

func (s *OrderService) handleIdentityChange(id *auth.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == nil {
		s.orders = nil
		return
	}
	s.loadLocked(context.Background(), id.UID)
}

// loadLocked queries the identity's orders newest first, replacing in-memory
// state, then migrates locally cached orders. A failed query falls back to
// the local cache.
func (s *OrderService) loadLocked(ctx context.Context, uid string) {
	var fetched []models.Order
	err := s.store.Find(ctx, store.CollectionOrders,
		[]store.Filter{{Field: "userId", Value: uid}},
		&store.Sort{Field: "createdAt", Desc: true},
		&fetched)
	if err != nil {
		log.WithError(err).Error("Failed to load orders from remote store, falling back to local cache")
		s.orders = s.readLocal()
		return
	}

	s.orders = fetched
	s.migrateLocalLocked(ctx, uid)
}

// migrateLocalLocked copies locally cached orders that are not yet in the
// remote store, writing each individually. The local key is cleared only
// when every write succeeded; otherwise the orders that failed are written
// back so the next sign-in retries just those. Writes are idempotent by
// order id, so overlapping runs are harmless.
func (s *OrderService) migrateLocalLocked(ctx context.Context, uid string) {
	raw, err := s.cache.Get(store.KeyOrders)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.WithError(err).Error("Failed to read local orders for migration")
		}
		return
	}

	var local []models.Order
	if err := json.Unmarshal([]byte(raw), &local); err != nil {
		log.WithError(err).Error("Failed to decode local orders, dropping them")
		if err := s.cache.Delete(store.KeyOrders); err != nil {
			log.WithError(err).Error("Failed to delete local orders key")
		}
		return
	}
	if len(local) == 0 {
		if err := s.cache.Delete(store.KeyOrders); err != nil {
			log.WithError(err).Error("Failed to delete local orders key")
		}
		return
	}

	var failed []models.Order
	migrated := 0
	for _, order := range local {
		if order.UserID == "" {
			order.UserID = uid
		}

		var existing models.Order
		err := s.store.Get(ctx, store.CollectionOrders, order.ID, &existing)
		if err == nil {
			continue // already migrated
		}
		if !errors.Is(err, store.ErrNotFound) {
			log.WithError(err).WithField("order", order.ID).Error("Failed to check remote order during migration")
			failed = append(failed, order)
			continue
		}

		if err := s.store.Set(ctx, store.CollectionOrders, order.ID, order); err != nil {
			log.WithError(err).WithField("order", order.ID).Error("Failed to migrate order")
			failed = append(failed, order)
			continue
		}
		migrated++
	}

	if len(failed) > 0 {
		// Keep only what still needs migrating; the next sign-in retries.
		if raw, err := json.Marshal(failed); err == nil {
			if err := s.cache.Set(store.KeyOrders, string(raw)); err != nil {
				log.WithError(err).Error("Failed to persist pending order migrations")
			}
		}
		log.WithFields(log.Fields{"migrated": migrated, "pending": len(failed)}).
			Warn("Order migration incomplete")
		return
	}

	if err := s.cache.Delete(store.KeyOrders); err != nil {
		log.WithError(err).Error("Failed to delete local orders key after migration")
	}
	if migrated > 0 {
		log.WithField("migrated", migrated).Info("Migrated local orders to remote store")
	}
}

// Checkout builds an order from the current cart, records it, and clears the
// cart. Payment is simulated; the descriptor is carried as-is.
func (s *OrderService) Checkout(ctx context.Context, address, phone, paymentMethod string) (*models.Order, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return nil, errors.New("cart is empty")
	}

	subtotal := s.cart.Total()
	now := time.Now()
	order := &models.Order{
		ID:            fmt.Sprintf("ORD%d", now.UnixMilli()),
		Date:          now,
		Items:         items,
		Subtotal:      subtotal,
		DeliveryFee:   DeliveryFee,
		Total:         subtotal + DeliveryFee,
		Status:        models.StatusPending,
		Address:       address,
		Phone:         phone,
		PaymentMethod: paymentMethod,
	}

	if err := s.Add(ctx, order); err != nil {
		return nil, err
	}

	if err := s.cart.Clear(ctx); err != nil {
		log.WithError(err).Error("Failed to clear cart after checkout")
	}
	return order, nil
}

// Add records a completed order. Requires an active identity; the order is
// stamped with the identity id and creation time, written remotely, and on
// success prepended to the in-memory sequence.
func (s *OrderService) Add(ctx context.Context, order *models.Order) error {
	id := s.ids.Current()
	if id == nil {
		return models.ErrAuthRequired
	}

	order.UserID = id.UID
	order.CreatedAt = time.Now()
	if order.Status == "" {
		order.Status = models.StatusPending
	}

	if err := s.store.Set(ctx, store.CollectionOrders, order.ID, order); err != nil {
		return fmt.Errorf("%w: %v", models.ErrRemoteUnavailable, err)
	}

	s.mu.Lock()
	s.orders = append([]models.Order{*order}, s.orders...)
	s.mu.Unlock()
	return nil
}

// UpdateStatus moves an order one step along the delivery pipeline. The
// order must exist, belong to the active identity, and the transition must
// be the legal successor of its current status.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	if !status.Valid() {
		return models.ErrInvalidStatusTransition
	}

	var order models.Order
	if err := s.store.Get(ctx, store.CollectionOrders, orderID, &order); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.ErrNotFound
		}
		return fmt.Errorf("%w: %v", models.ErrRemoteUnavailable, err)
	}

	id := s.ids.Current()
	if id == nil || order.UserID != id.UID {
		return models.ErrUnauthorized
	}

	if !order.Status.CanTransitionTo(status) {
		return models.ErrInvalidStatusTransition
	}

	err := s.store.Merge(ctx, store.CollectionOrders, orderID, map[string]interface{}{
		"status":    status,
		"updatedAt": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrRemoteUnavailable, err)
	}

	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].Status = status
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// GetOrderByID reads the order from the remote store. An order owned by a
// different identity reads as absent, so existence never leaks. A remote
// failure falls back to the in-memory sequence. Returns nil when not found.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID string) *models.Order {
	var order models.Order
	err := s.store.Get(ctx, store.CollectionOrders, orderID, &order)
	if err == nil {
		id := s.ids.Current()
		if id == nil || order.UserID != id.UID {
			return nil
		}
		return &order
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}

	log.WithError(err).WithField("order", orderID).Warn("Remote order read failed, falling back to local state")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			out := s.orders[i]
			return &out
		}
	}
	return nil
}

// GetAll returns all orders for the active identity, newest first.
func (s *OrderService) GetAll() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// GetPending returns the orders not yet delivered.
func (s *OrderService) GetPending() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.Status != models.StatusDelivered {
			out = append(out, o)
		}
	}
	return out
}

// GetLatestOrder returns the most recent order, or nil when there is none.
func (s *OrderService) GetLatestOrder() *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.orders) == 0 {
		return nil
	}
	out := s.orders[0]
	return &out
}

// readLocal loads orders from the local cache, returning nothing on failure.
func (s *OrderService) readLocal() []models.Order {
	raw, err := s.cache.Get(store.KeyOrders)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.WithError(err).Error("Failed to read local orders")
		}
		return nil
	}

	var orders []models.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		log.WithError(err).Error("Failed to decode local orders")
		return nil
	}
	return orders
}
