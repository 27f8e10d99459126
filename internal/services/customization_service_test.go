package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailypizza/pizza-orders-api/internal/models"
)

func TestCustomizationCatalogLookups(t *testing.T) {
	svc := NewCustomizationService()

	assert.NotEmpty(t, svc.Toppings())
	assert.NotEmpty(t, svc.Crusts())
	assert.NotEmpty(t, svc.Extras())

	meats := svc.ToppingsByCategory("meat")
	require.NotEmpty(t, meats)
	for _, topping := range meats {
		assert.Equal(t, "meat", topping.Category)
	}

	desserts := svc.ExtrasByCategory("desserts")
	require.NotEmpty(t, desserts)
	for _, extra := range desserts {
		assert.Equal(t, "desserts", extra.Category)
	}

	assert.Empty(t, svc.ToppingsByCategory("unknown"))
}

func TestCustomizationByID(t *testing.T) {
	svc := NewCustomizationService()

	topping, ok := svc.ToppingByID("bacon")
	require.True(t, ok)
	assert.Equal(t, "Bacon", topping.Name)
	assert.True(t, topping.IsPremium)

	crust, ok := svc.CrustByID("stuffed")
	require.True(t, ok)
	assert.InDelta(t, 8.0, crust.Price, 0.001)

	extra, ok := svc.ExtraByID("tiramisu")
	require.True(t, ok)
	assert.Equal(t, "desserts", extra.Category)

	_, ok = svc.ToppingByID("missing")
	assert.False(t, ok)
}

func TestCalculatePriceIsAdditive(t *testing.T) {
	svc := NewCustomizationService()

	assert.Zero(t, svc.CalculatePrice(nil))
	assert.Zero(t, svc.CalculatePrice(&models.Customization{}))

	c := &models.Customization{
		SelectedToppings: []models.Topping{
			{ID: "bacon", Price: 20},
			{ID: "mushrooms", Price: 8},
		},
		SelectedCrust:  models.Crust{ID: "stuffed", Price: 8},
		SelectedExtras: []models.Extra{{ID: "coke", Price: 15}},
	}
	assert.InDelta(t, 51.0, svc.CalculatePrice(c), 0.001)
}
