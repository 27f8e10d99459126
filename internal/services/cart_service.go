package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/dailypizza/pizza-orders-api/internal/auth"
	"github.com/dailypizza/pizza-orders-api/internal/models"
	"github.com/dailypizza/pizza-orders-api/internal/store"
)

// CartService maintains the in-memory sequence of cart items for the active
// identity and keeps it durable: every mutation persists the full sequence to
// the remote carts document when signed in, or to the local cache key when
// not.
//
// All read-modify-persist sequences run under one mutex, so two rapid
// mutations cannot race on the same snapshot. Remote write failures are
// returned to the caller after in-memory state has advanced; there is no
// rollback.
type CartService struct {
	store   store.DocumentStore
	cache   store.KeyValueStore
	pricing CustomizationService
	ids     IdentityProvider

	mu          sync.Mutex
	items       []models.CartItem
	loadedUID   string
	initialized bool
}

// NewCartService creates the cart state and subscribes it to identity
// transitions: signing in loads that identity's remote cart and migrates any
// locally cached one, a repeated sign-in of the same identity keeps the
// loaded state, and sign-out (or a switch to another identity) drops it.
func NewCartService(docs store.DocumentStore, cache store.KeyValueStore, pricing CustomizationService, ids IdentityProvider) *CartService {
	s := &CartService{
		store:   docs,
		cache:   cache,
		pricing: pricing,
		ids:     ids,
	}
	ids.OnChange(s.handleIdentityChange)
	return s
}

func (s *CartService) handleIdentityChange(id *auth.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == nil {
		s.items = nil
		s.loadedUID = ""
		s.initialized = false
		return
	}
	if s.initialized && s.loadedUID == id.UID {
		return
	}

	// A direct switch to another identity must not inherit this cart.
	s.items = nil
	s.initialized = false
	s.loadLocked(context.Background(), id.UID)
	s.loadedUID = id.UID
}

// loadLocked reads the remote cart for uid, falling back to the local cache
// when the remote store is unreachable, then migrates any locally cached
// cart into the remote store.
func (s *CartService) loadLocked(ctx context.Context, uid string) {
	var doc models.CartDocument
	err := s.store.Get(ctx, store.CollectionCarts, uid, &doc)
	switch {
	case err == nil:
		s.items = doc.Items
	case errors.Is(err, store.ErrNotFound):
		// No remote cart yet; the local cart, if any, migrates below.
	default:
		log.WithError(err).Error("Failed to load cart from remote store, falling back to local cache")
		s.items = s.readLocal()
		s.initialized = true
		return
	}

	s.migrateLocalLocked(ctx, uid)
	s.initialized = true
}

// migrateLocalLocked pushes a locally cached cart to the remote document and
// deletes the local key. One-way: the pushed items are not reconciled with
// what was just loaded; the last writer wins. A failed push keeps the local
// key so the next sign-in retries.
func (s *CartService) migrateLocalLocked(ctx context.Context, uid string) {
	raw, err := s.cache.Get(store.KeyCart)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.WithError(err).Error("Failed to read local cart for migration")
		}
		return
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.WithError(err).Error("Failed to decode local cart, dropping it")
		if err := s.cache.Delete(store.KeyCart); err != nil {
			log.WithError(err).Error("Failed to delete local cart key")
		}
		return
	}
	if len(items) == 0 {
		return
	}

	if err := s.saveRemote(ctx, uid, items); err != nil {
		log.WithError(err).Error("Failed to migrate local cart to remote store")
		return
	}
	// The push replaced the remote items wholesale; memory follows suit.
	s.items = items
	if err := s.cache.Delete(store.KeyCart); err != nil {
		log.WithError(err).Error("Failed to delete local cart key after migration")
	}
	log.WithField("items", len(items)).Info("Migrated local cart to remote store")
}

// Add appends the item and persists the full sequence. A missing id is
// assigned; quantity is floored at 1.
func (s *CartService) Add(ctx context.Context, item models.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	s.items = append(s.items, item)
	return s.persistLocked(ctx)
}

// Remove deletes the item with the given id. Unknown ids are a no-op.
func (s *CartService) Remove(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, itemID)
}

func (s *CartService) removeLocked(ctx context.Context, itemID string) error {
	idx := s.indexOfLocked(itemID)
	if idx < 0 {
		return nil
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return s.persistLocked(ctx)
}

// UpdateQuantity sets the item's quantity; zero or negative removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.removeLocked(ctx, itemID)
	}
	idx := s.indexOfLocked(itemID)
	if idx < 0 {
		return nil
	}
	s.items[idx].Quantity = quantity
	return s.persistLocked(ctx)
}

// IncreaseQuantity adds one to the item's quantity.
func (s *CartService) IncreaseQuantity(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(itemID)
	if idx < 0 {
		return nil
	}
	s.items[idx].Quantity++
	return s.persistLocked(ctx)
}

// DecreaseQuantity subtracts one from the item's quantity; going below one
// removes the item.
func (s *CartService) DecreaseQuantity(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(itemID)
	if idx < 0 {
		return nil
	}
	if s.items[idx].Quantity <= 1 {
		return s.removeLocked(ctx, itemID)
	}
	s.items[idx].Quantity--
	return s.persistLocked(ctx)
}

// Clear empties the cart: the remote document is persisted empty when signed
// in, the local fallback key is deleted when not.
func (s *CartService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if id := s.ids.Current(); id != nil {
		return s.saveRemote(ctx, id.UID, []models.CartItem{})
	}
	return s.cache.Delete(store.KeyCart)
}

// Items returns a snapshot of the cart sequence.
func (s *CartService) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total sums (base price + customization price) x quantity over all items.
// Pure read, no side effect.
func (s *CartService) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum float64
	for _, item := range s.items {
		price := item.Pizza.Price + s.pricing.CalculatePrice(item.Customization)
		sum += price * float64(item.Quantity)
	}
	return sum
}

// TotalItems sums the quantities of all items.
func (s *CartService) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

func (s *CartService) indexOfLocked(itemID string) int {
	for i, item := range s.items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

// persistLocked writes the full sequence to the remote document when signed
// in, or serializes it to the local cache key when not.
func (s *CartService) persistLocked(ctx context.Context) error {
	if id := s.ids.Current(); id != nil {
		return s.saveRemote(ctx, id.UID, s.items)
	}

	raw, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	return s.cache.Set(store.KeyCart, string(raw))
}

func (s *CartService) saveRemote(ctx context.Context, uid string, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	err := s.store.Merge(ctx, store.CollectionCarts, uid, map[string]interface{}{
		"items":     items,
		"updatedAt": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrRemoteUnavailable, err)
	}
	return nil
}

// readLocal loads the cart from the local cache, returning an empty sequence
// on any failure.
func (s *CartService) readLocal() []models.CartItem {
	raw, err := s.cache.Get(store.KeyCart)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.WithError(err).Error("Failed to read local cart")
		}
		return nil
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.WithError(err).Error("Failed to decode local cart")
		return nil
	}
	return items
}
