package services

import (
	"github.com/dailypizza/pizza-orders-api/internal/models"
)

// CustomizationService supplies the static toppings/crusts/extras reference
// data and the single pricing rule for customizations. No persistence, no
// identity.
type CustomizationService interface {
	// Toppings returns every available topping
	Toppings() []models.Topping
	// ToppingsByCategory filters toppings by category (meat, vegetable, cheese, sauce)
	ToppingsByCategory(category string) []models.Topping
	// Crusts returns every available crust
	Crusts() []models.Crust
	// Extras returns every available extra
	Extras() []models.Extra
	// ExtrasByCategory filters extras by category (sides, beverages, desserts)
	ExtrasByCategory(category string) []models.Extra
	// ToppingByID finds a topping by id
	ToppingByID(id string) (models.Topping, bool)
	// CrustByID finds a crust by id
	CrustByID(id string) (models.Crust, bool)
	// ExtraByID finds an extra by id
	ExtraByID(id string) (models.Extra, bool)
	// CalculatePrice sums topping, crust and extra prices; purely additive
	CalculatePrice(c *models.Customization) float64
}

type customizationService struct {
	toppings []models.Topping
	crusts   []models.Crust
	extras   []models.Extra
}

// NewCustomizationService creates the static customization catalog.
func NewCustomizationService() CustomizationService {
	return &customizationService{
		toppings: availableToppings,
		crusts:   availableCrusts,
		extras:   availableExtras,
	}
}

var availableToppings = []models.Topping{
	// Meat toppings
	{ID: "pepperoni", Name: "Pepperoni", Price: 15, Category: "meat", IsPremium: false},
	{ID: "sausage", Name: "Italian Sausage", Price: 18, Category: "meat", IsPremium: false},
	{ID: "bacon", Name: "Bacon", Price: 20, Category: "meat", IsPremium: true},
	{ID: "ham", Name: "Ham", Price: 16, Category: "meat", IsPremium: false},
	{ID: "chicken", Name: "Grilled Chicken", Price: 22, Category: "meat", IsPremium: true},
	{ID: "beef", Name: "Ground Beef", Price: 18, Category: "meat", IsPremium: false},

	// Vegetable toppings
	{ID: "mushrooms", Name: "Mushrooms", Price: 8, Category: "vegetable", IsPremium: false},
	{ID: "onions", Name: "Onions", Price: 6, Category: "vegetable", IsPremium: false},
	{ID: "peppers", Name: "Bell Peppers", Price: 8, Category: "vegetable", IsPremium: false},
	{ID: "olives", Name: "Black Olives", Price: 10, Category: "vegetable", IsPremium: false},
	{ID: "tomatoes", Name: "Fresh Tomatoes", Price: 8, Category: "vegetable", IsPremium: false},
	{ID: "pineapple", Name: "Pineapple", Price: 10, Category: "vegetable", IsPremium: false},
	{ID: "spinach", Name: "Spinach", Price: 8, Category: "vegetable", IsPremium: false},
	{ID: "jalapenos", Name: "Jalapeños", Price: 8, Category: "vegetable", IsPremium: false},

	// Cheese toppings
	{ID: "mozzarella", Name: "Extra Mozzarella", Price: 12, Category: "cheese", IsPremium: false},
	{ID: "parmesan", Name: "Parmesan", Price: 15, Category: "cheese", IsPremium: true},
	{ID: "cheddar", Name: "Cheddar", Price: 12, Category: "cheese", IsPremium: false},
	{ID: "feta", Name: "Feta Cheese", Price: 18, Category: "cheese", IsPremium: true},
	{ID: "goat", Name: "Goat Cheese", Price: 20, Category: "cheese", IsPremium: true},

	// Sauce toppings
	{ID: "bbq", Name: "BBQ Sauce", Price: 5, Category: "sauce", IsPremium: false},
	{ID: "ranch", Name: "Ranch Dressing", Price: 5, Category: "sauce", IsPremium: false},
	{ID: "pesto", Name: "Pesto Sauce", Price: 8, Category: "sauce", IsPremium: true},
	{ID: "buffalo", Name: "Buffalo Sauce", Price: 6, Category: "sauce", IsPremium: false},
}

var availableCrusts = []models.Crust{
	{ID: "original", Name: "Original Crust", Price: 0, Description: "Our classic hand-tossed crust"},
	{ID: "thin", Name: "Thin Crust", Price: 0, Description: "Crispy and light thin crust"},
	{ID: "thick", Name: "Thick Crust", Price: 5, Description: "Deep dish style thick crust"},
	{ID: "stuffed", Name: "Stuffed Crust", Price: 8, Description: "Crust filled with cheese"},
	{ID: "gluten-free", Name: "Gluten-Free", Price: 10, Description: "Gluten-free crust option"},
	{ID: "cauliflower", Name: "Cauliflower Crust", Price: 12, Description: "Low-carb cauliflower crust"},
}

var availableExtras = []models.Extra{
	// Sides
	{ID: "garlic-bread", Name: "Garlic Bread", Price: 25, Category: "sides"},
	{ID: "wings", Name: "Chicken Wings (6pc)", Price: 45, Category: "sides"},
	{ID: "salad", Name: "Caesar Salad", Price: 35, Category: "sides"},
	{ID: "fries", Name: "French Fries", Price: 20, Category: "sides"},
	{ID: "mozzarella-sticks", Name: "Mozzarella Sticks (6pc)", Price: 30, Category: "sides"},

	// Beverages
	{ID: "coke", Name: "Coca-Cola", Price: 15, Category: "beverages"},
	{ID: "pepsi", Name: "Pepsi", Price: 15, Category: "beverages"},
	{ID: "sprite", Name: "Sprite", Price: 15, Category: "beverages"},
	{ID: "water", Name: "Bottled Water", Price: 10, Category: "beverages"},
	{ID: "juice", Name: "Orange Juice", Price: 20, Category: "beverages"},

	// Desserts
	{ID: "brownie", Name: "Chocolate Brownie", Price: 25, Category: "desserts"},
	{ID: "ice-cream", Name: "Ice Cream Scoop", Price: 20, Category: "desserts"},
	{ID: "tiramisu", Name: "Tiramisu", Price: 35, Category: "desserts"},
}

func (s *customizationService) Toppings() []models.Topping {
	return s.toppings
}

func (s *customizationService) ToppingsByCategory(category string) []models.Topping {
	var out []models.Topping
	for _, t := range s.toppings {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

func (s *customizationService) Crusts() []models.Crust {
	return s.crusts
}

func (s *customizationService) Extras() []models.Extra {
	return s.extras
}

func (s *customizationService) ExtrasByCategory(category string) []models.Extra {
	var out []models.Extra
	for _, e := range s.extras {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

func (s *customizationService) ToppingByID(id string) (models.Topping, bool) {
	for _, t := range s.toppings {
		if t.ID == id {
			return t, true
		}
	}
	return models.Topping{}, false
}

func (s *customizationService) CrustByID(id string) (models.Crust, bool) {
	for _, c := range s.crusts {
		if c.ID == id {
			return c, true
		}
	}
	return models.Crust{}, false
}

func (s *customizationService) ExtraByID(id string) (models.Extra, bool) {
	for _, e := range s.extras {
		if e.ID == id {
			return e, true
		}
	}
	return models.Extra{}, false
}

func (s *customizationService) CalculatePrice(c *models.Customization) float64 {
	if c == nil {
		return 0
	}

	var total float64
	for _, t := range c.SelectedToppings {
		total += t.Price
	}
	total += c.SelectedCrust.Price
	for _, e := range c.SelectedExtras {
		total += e.Price
	}
	return total
}
