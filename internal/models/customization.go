package models

// Topping is a single selectable pizza topping.
type Topping struct {
	ID        string  `json:"id" bson:"id"`
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"`
	Category  string  `json:"category" bson:"category"`
	IsPremium bool    `json:"isPremium" bson:"isPremium"`
}

// Crust is a selectable pizza crust. Exactly one is chosen per customization.
type Crust struct {
	ID          string  `json:"id" bson:"id"`
	Name        string  `json:"name" bson:"name"`
	Price       float64 `json:"price" bson:"price"`
	Description string  `json:"description" bson:"description"`
}

// Extra is a side, beverage or dessert added alongside a pizza.
type Extra struct {
	ID       string  `json:"id" bson:"id"`
	Name     string  `json:"name" bson:"name"`
	Price    float64 `json:"price" bson:"price"`
	Category string  `json:"category" bson:"category"`
}

// Customization is the toppings/crust/extras selection attached to a cart item.
// It affects price only; pricing is purely additive.
type Customization struct {
	SelectedToppings    []Topping `json:"selectedToppings" bson:"selectedToppings"`
	SelectedCrust       Crust     `json:"selectedCrust" bson:"selectedCrust"`
	SelectedExtras      []Extra   `json:"selectedExtras" bson:"selectedExtras"`
	SpecialInstructions string    `json:"specialInstructions" bson:"specialInstructions"`
}
