package models

import "fmt"

// PizzaItem represents a purchasable pizza from the catalog.
// Documents in the pizzas collection carry the numeric id assigned by seed data;
// the document key is derived from it ("pizza-<id>").
type PizzaItem struct {
	ID           int      `json:"id" bson:"id"`
	Name         string   `json:"name" bson:"name"`
	Ingredients  string   `json:"ingredients" bson:"ingredients"`
	Price        float64  `json:"price" bson:"price"`
	Size         []string `json:"size" bson:"size"`
	Img          string   `json:"img" bson:"img"`
	Rating       float64  `json:"rating" bson:"rating"`
	Time         string   `json:"time" bson:"time"`
	Discount     float64  `json:"discount,omitempty" bson:"discount,omitempty"`
	Customizable *bool    `json:"customizable,omitempty" bson:"customizable,omitempty"`
}

// IsCustomizable reports whether the pizza accepts customization.
// Older catalog documents lack the field; absence means customizable.
func (p *PizzaItem) IsCustomizable() bool {
	return p.Customizable == nil || *p.Customizable
}

// DocumentID returns the derived key the pizza is stored under.
func (p *PizzaItem) DocumentID() string {
	return PizzaDocumentID(p.ID)
}

// PizzaDocumentID derives the document key for a catalog id.
func PizzaDocumentID(id int) string {
	return fmt.Sprintf("pizza-%d", id)
}
