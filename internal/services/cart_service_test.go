package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailypizza/pizza-orders-api/internal/auth"
	"github.com/dailypizza/pizza-orders-api/internal/models"
	"github.com/dailypizza/pizza-orders-api/internal/store"
)

func testIdentity() *auth.Identity {
	return &auth.Identity{UID: "uid-1", Name: "Test", Email: "test@example.com", Role: "customer"}
}

func newCartFixture() (*CartService, *fakeDocumentStore, *fakeKeyValueStore, *fakeIdentityProvider) {
	docs := newFakeDocumentStore()
	cache := newFakeKeyValueStore()
	ids := &fakeIdentityProvider{}
	cart := NewCartService(docs, cache, NewCustomizationService(), ids)
	return cart, docs, cache, ids
}

func cartItem(pizzaID int, price float64, quantity int) models.CartItem {
	return models.CartItem{
		Pizza:    models.PizzaItem{ID: pizzaID, Name: "Test Pizza", Price: price},
		Size:     "Medium",
		Quantity: quantity,
	}
}

func TestCartAddAssignsIDAndFloorsQuantity(t *testing.T) {
	cart, _, _, _ := newCartFixture()
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, cartItem(1, 100, 0)))

	items := cart.Items()
	require.Len(t, items, 1)
	assert.NotEmpty(t, items[0].ID)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestCartTotalIncludesCustomizations(t *testing.T) {
	cart, _, _, _ := newCartFixture()
	ctx := context.Background()

	item := cartItem(1, 100, 1)
	item.Customization = &models.Customization{
		SelectedToppings: []models.Topping{{ID: "mushrooms", Price: 8}},
		SelectedCrust:    models.Crust{ID: "original", Price: 0},
		SelectedExtras:   []models.Extra{{ID: "water", Price: 2}},
	}
	require.NoError(t, cart.Add(ctx, item))
	assert.InDelta(t, 110.0, cart.Total(), 0.001)

	require.NoError(t, cart.Add(ctx, cartItem(2, 50, 2)))
	assert.InDelta(t, 210.0, cart.Total(), 0.001)
	assert.Equal(t, 3, cart.TotalItems())
}

func TestCartQuantityOperationsAddressItemsByID(t *testing.T) {
	cart, _, _, _ := newCartFixture()
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, cartItem(1, 100, 1)))
	require.NoError(t, cart.Add(ctx, cartItem(1, 100, 1)))
	items := cart.Items()
	require.Len(t, items, 2)
	assert.NotEqual(t, items[0].ID, items[1].ID)

	// Mutating the second entry leaves the first untouched even though both
	// hold the same pizza.
	require.NoError(t, cart.IncreaseQuantity(ctx, items[1].ID))
	items = cart.Items()
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 2, items[1].Quantity)
}

func TestCartDecreaseAtOneRemovesItem(t *testing.T) {
	cart, _, _, _ := newCartFixture()
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, cartItem(1, 100, 1)))
	itemID := cart.Items()[0].ID

	require.NoError(t, cart.DecreaseQuantity(ctx, itemID))
	assert.Empty(t, cart.Items())
}

func TestCartUpdateQuantityZeroRemovesItem(t *testing.T) {
	cart, _, _, _ := newCartFixture()
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, cartItem(1, 100, 2)))
	itemID := cart.Items()[0].ID

	require.NoError(t, cart.UpdateQuantity(ctx, itemID, 0))
	assert.Empty(t, cart.Items())
}

func TestCartUnknownItemIsNoOp(t *testing.T) {
	cart, _, _, _ := newCartFixture()
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, cartItem(1, 100, 1)))
	require.NoError(t, cart.Remove(ctx, "missing"))
	require.NoError(t, cart.IncreaseQuantity(ctx, "missing"))
	assert.Len(t, cart.Items(), 1)
}

func TestCartPersistsLocallyWhenSignedOut(t *testing.T) {
	cart, docs, cache, _ := newCartFixture()
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, cartItem(1, 100, 1)))

	raw, err := cache.Get(store.KeyCart)
	require.NoError(t, err)
	var items []models.CartItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	assert.Len(t, items, 1)
	assert.Equal(t, 0, docs.count(store.CollectionCarts))
}

func TestCartPersistsRemotelyWhenSignedIn(t *testing.T) {
	cart, docs, cache, ids := newCartFixture()
	ctx := context.Background()

	ids.signIn(testIdentity())
	require.NoError(t, cart.Add(ctx, cartItem(1, 100, 1)))

	var doc models.CartDocument
	require.NoError(t, docs.Get(ctx, store.CollectionCarts, "uid-1", &doc))
	assert.Len(t, doc.Items, 1)
	assert.False(t, cache.has(store.KeyCart))
}

func TestCartSignInLoadsRemoteCart(t *testing.T) {
	cart, docs, _, ids := newCartFixture()
	ctx := context.Background()

	doc := models.CartDocument{Items: []models.CartItem{cartItem(1, 100, 2)}}
	doc.Items[0].ID = "existing"
	require.NoError(t, docs.Set(ctx, store.CollectionCarts, "uid-1", doc))

	ids.signIn(testIdentity())

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "existing", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartSignInMigratesLocalCart(t *testing.T) {
	cart, docs, cache, ids := newCartFixture()
	ctx := context.Background()

	local := []models.CartItem{cartItem(1, 100, 1)}
	local[0].ID = "local-item"
	raw, err := json.Marshal(local)
	require.NoError(t, err)
	require.NoError(t, cache.Set(store.KeyCart, string(raw)))

	ids.signIn(testIdentity())

	var doc models.CartDocument
	require.NoError(t, docs.Get(ctx, store.CollectionCarts, "uid-1", &doc))
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "local-item", doc.Items[0].ID)
	assert.False(t, cache.has(store.KeyCart), "local key should be cleared after migration")

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "local-item", items[0].ID)

	// A second sign-in finds nothing left to migrate.
	ids.signOut()
	ids.signIn(testIdentity())
	require.NoError(t, docs.Get(ctx, store.CollectionCarts, "uid-1", &doc))
	assert.Len(t, doc.Items, 1)
}

func TestCartFailedMigrationKeepsLocalKey(t *testing.T) {
	_, docs, cache, ids := newCartFixture()

	local := []models.CartItem{cartItem(1, 100, 1)}
	raw, err := json.Marshal(local)
	require.NoError(t, err)
	require.NoError(t, cache.Set(store.KeyCart, string(raw)))

	docs.mergeErr = errors.New("store down")
	ids.signIn(testIdentity())

	assert.True(t, cache.has(store.KeyCart), "local key should survive a failed push")
}

func TestCartRemoteFailureFallsBackToLocal(t *testing.T) {
	cart, docs, cache, ids := newCartFixture()

	local := []models.CartItem{cartItem(1, 100, 3)}
	local[0].ID = "local-item"
	raw, err := json.Marshal(local)
	require.NoError(t, err)
	require.NoError(t, cache.Set(store.KeyCart, string(raw)))

	docs.getErr = errors.New("store down")
	ids.signIn(testIdentity())

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "local-item", items[0].ID)
}

func TestCartClearWhenSignedIn(t *testing.T) {
	cart, docs, _, ids := newCartFixture()
	ctx := context.Background()

	ids.signIn(testIdentity())
	require.NoError(t, cart.Add(ctx, cartItem(1, 100, 1)))
	require.NoError(t, cart.Clear(ctx))

	assert.Empty(t, cart.Items())
	var doc models.CartDocument
	require.NoError(t, docs.Get(ctx, store.CollectionCarts, "uid-1", &doc))
	assert.Empty(t, doc.Items)
}

func TestCartClearWhenSignedOut(t *testing.T) {
	cart, _, cache, _ := newCartFixture()
	ctx := context.Background()

	require.NoError(t, cart.Add(ctx, cartItem(1, 100, 1)))
	require.True(t, cache.has(store.KeyCart))

	require.NoError(t, cart.Clear(ctx))
	assert.Empty(t, cart.Items())
	assert.False(t, cache.has(store.KeyCart))
}

func TestCartIdentitySwitchDoesNotLeakItems(t *testing.T) {
	cart, docs, _, ids := newCartFixture()
	ctx := context.Background()

	ids.signIn(testIdentity())
	require.NoError(t, cart.Add(ctx, cartItem(1, 100, 1)))

	// A second identity signs in with no sign-out in between.
	ids.signIn(&auth.Identity{UID: "uid-2", Name: "Other", Email: "other@example.com", Role: "customer"})
	assert.Empty(t, cart.Items(), "the new identity starts with its own cart")

	require.NoError(t, cart.Add(ctx, cartItem(2, 50, 1)))

	var doc models.CartDocument
	require.NoError(t, docs.Get(ctx, store.CollectionCarts, "uid-2", &doc))
	require.Len(t, doc.Items, 1)
	assert.Equal(t, 2, doc.Items[0].Pizza.ID)

	// The first identity's remote cart is untouched.
	require.NoError(t, docs.Get(ctx, store.CollectionCarts, "uid-1", &doc))
	require.Len(t, doc.Items, 1)
	assert.Equal(t, 1, doc.Items[0].Pizza.ID)

	// Switching back loads the first identity's cart again.
	ids.signIn(testIdentity())
	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Pizza.ID)
}

func TestCartRepeatedSignInKeepsLoadedState(t *testing.T) {
	cart, _, _, ids := newCartFixture()
	ctx := context.Background()

	ids.signIn(testIdentity())
	require.NoError(t, cart.Add(ctx, cartItem(1, 100, 1)))

	// The same identity signing in again does not reload.
	ids.signIn(testIdentity())
	assert.Len(t, cart.Items(), 1)
}

func TestCartSignOutClearsInMemoryState(t *testing.T) {
	cart, _, _, ids := newCartFixture()
	ctx := context.Background()

	ids.signIn(testIdentity())
	require.NoError(t, cart.Add(ctx, cartItem(1, 100, 1)))

	ids.signOut()
	assert.Empty(t, cart.Items())
	assert.Zero(t, cart.Total())
}
