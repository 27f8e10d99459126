package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailypizza/pizza-orders-api/internal/models"
	"github.com/dailypizza/pizza-orders-api/internal/store"
)

func TestCatalogSeedsWhenEmpty(t *testing.T) {
	docs := newFakeDocumentStore()
	catalog := NewCatalogService(docs)
	ctx := context.Background()

	catalog.Load(ctx)

	assert.Equal(t, len(defaultPizzas), docs.count(store.CollectionPizzas))
	assert.Len(t, catalog.List(), len(defaultPizzas))

	var stored models.PizzaItem
	require.NoError(t, docs.Get(ctx, store.CollectionPizzas, "pizza-1", &stored))
	assert.Equal(t, "Pepperoni Feast", stored.Name)

	// The flag is written out explicitly, not left to the read-side default.
	require.NotNil(t, stored.Customizable)
	assert.True(t, *stored.Customizable)
}

func TestCatalogLoadsExistingWithoutReseeding(t *testing.T) {
	docs := newFakeDocumentStore()
	ctx := context.Background()

	custom := models.PizzaItem{ID: 7, Name: "Custom Special", Price: 399}
	require.NoError(t, docs.Set(ctx, store.CollectionPizzas, custom.DocumentID(), custom))

	catalog := NewCatalogService(docs)
	catalog.Load(ctx)

	list := catalog.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Custom Special", list[0].Name)
	assert.Equal(t, 1, docs.count(store.CollectionPizzas))
}

func TestCatalogFallsBackToDefaultsOnFailure(t *testing.T) {
	docs := newFakeDocumentStore()
	docs.findErr = errors.New("store down")

	catalog := NewCatalogService(docs)
	catalog.Load(context.Background())

	assert.Len(t, catalog.List(), len(defaultPizzas))
	assert.Equal(t, 0, docs.count(store.CollectionPizzas), "no seeding while the store is down")
}

func TestCatalogCustomizableDefaultsToTrue(t *testing.T) {
	docs := newFakeDocumentStore()
	ctx := context.Background()

	// A document written before the customizable flag existed.
	legacy := models.PizzaItem{ID: 1, Name: "Legacy", Price: 100}
	require.NoError(t, docs.Set(ctx, store.CollectionPizzas, legacy.DocumentID(), legacy))
	f := false
	fixed := models.PizzaItem{ID: 2, Name: "Fixed Recipe", Price: 100, Customizable: &f}
	require.NoError(t, docs.Set(ctx, store.CollectionPizzas, fixed.DocumentID(), fixed))

	catalog := NewCatalogService(docs)
	catalog.Load(ctx)

	legacyLoaded, ok := catalog.ByID(1)
	require.True(t, ok)
	assert.True(t, legacyLoaded.IsCustomizable())

	fixedLoaded, ok := catalog.ByID(2)
	require.True(t, ok)
	assert.False(t, fixedLoaded.IsCustomizable())
}

func TestCatalogGetByIDReadsRemote(t *testing.T) {
	docs := newFakeDocumentStore()
	catalog := NewCatalogService(docs)
	ctx := context.Background()

	catalog.Load(ctx)

	pizza, err := catalog.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Hawaiian Classic", pizza.Name)

	_, err = catalog.GetByID(ctx, 99)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCatalogGetByIDFallsBackOnRemoteFailure(t *testing.T) {
	docs := newFakeDocumentStore()
	catalog := NewCatalogService(docs)
	ctx := context.Background()

	catalog.Load(ctx)
	docs.getErr = errors.New("store down")

	pizza, err := catalog.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Pepperoni Feast", pizza.Name)

	_, err = catalog.GetByID(ctx, 99)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
