package services

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/dailypizza/pizza-orders-api/internal/models"
	"github.com/dailypizza/pizza-orders-api/internal/store"
)

func boolPtr(v bool) *bool { return &v }

// defaultPizzas is the built-in catalog seeded to the remote store on first
// run, and the degraded fallback when the store is unreachable. The seeded
// documents carry the customizable flag explicitly.
var defaultPizzas = []models.PizzaItem{
	{
		ID:           1,
		Name:         "Pepperoni Feast",
		Ingredients:  "Pepperoni, Cheese, Tomato Sauce",
		Price:        299,
		Size:         []string{"Small", "Medium", "Large"},
		Img:          "assets/product_images/PepperoniPizza.jpg",
		Rating:       4.8,
		Time:         "25 min",
		Discount:     25,
		Customizable: boolPtr(true),
	},
	{
		ID:           2,
		Name:         "BBQ Chicken Pizza",
		Ingredients:  "Chicken, BBQ Sauce, Mushrooms, Olives",
		Price:        319,
		Size:         []string{"Small", "Medium", "Large"},
		Img:          "assets/product_images/BBQ-Chicken-PizzaIMG.jpg",
		Rating:       4.6,
		Time:         "30 min",
		Discount:     20,
		Customizable: boolPtr(true),
	},
	{
		ID:           3,
		Name:         "Hawaiian Classic",
		Ingredients:  "Ham, Pineapple, Cheese",
		Price:        289,
		Size:         []string{"Small", "Medium", "Large"},
		Img:          "assets/product_images/Hawaiian-Pizza-3.jpg",
		Rating:       4.7,
		Time:         "22 min",
		Discount:     15,
		Customizable: boolPtr(true),
	},
	{
		ID:           4,
		Name:         "Veggie Delight",
		Ingredients:  "Bell Peppers, Mushrooms, Olives, Cheese",
		Price:        279,
		Size:         []string{"Small", "Medium", "Large"},
		Img:          "assets/product_images/vegi-pizza.jpg",
		Rating:       4.5,
		Time:         "24 min",
		Discount:     10,
		Customizable: boolPtr(true),
	},
	{
		ID:           5,
		Name:         "Cheesy Overload",
		Ingredients:  "Mozzarella, Parmesan, Cheddar, Cream Cheese",
		Price:        309,
		Size:         []string{"Small", "Medium", "Large"},
		Img:          "assets/product_images/cheese-pizza.jpg",
		Rating:       4.9,
		Time:         "27 min",
		Discount:     18,
		Customizable: boolPtr(true),
	},
}

// CatalogService supplies the list of purchasable pizzas, seeding the remote
// store with the built-in defaults exactly once. A failed query publishes the
// defaults without seeding: degraded but available.
type CatalogService struct {
	store store.DocumentStore

	mu          sync.RWMutex
	pizzas      []models.PizzaItem
	initialized bool
}

// NewCatalogService creates the catalog over the remote document store.
// Call Load before serving lookups.
func NewCatalogService(docs store.DocumentStore) *CatalogService {
	return &CatalogService{store: docs}
}

// Load runs the startup protocol: query the pizzas collection ordered by id,
// seed the defaults if it is empty, fall back to the defaults if the query
// fails. Load never returns an error; the catalog is always available after
// it returns.
func (s *CatalogService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return
	}

	var fetched []models.PizzaItem
	err := s.store.Find(ctx, store.CollectionPizzas, nil, &store.Sort{Field: "id"}, &fetched)
	if err != nil {
		log.WithError(err).Error("Failed to load catalog, using built-in defaults")
		s.pizzas = defaultPizzas
		s.initialized = true
		return
	}

	if len(fetched) == 0 {
		log.Info("Catalog is empty, seeding default pizzas")
		s.seed(ctx)
		s.pizzas = defaultPizzas
		s.initialized = true
		return
	}

	// Older documents lack the customizable flag; absence means customizable.
	for i := range fetched {
		if fetched[i].Customizable == nil {
			t := true
			fetched[i].Customizable = &t
		}
	}
	s.pizzas = fetched
	s.initialized = true
	log.WithField("count", len(fetched)).Info("Catalog loaded")
}

// seed writes each default pizza under its derived key.
func (s *CatalogService) seed(ctx context.Context) {
	for _, pizza := range defaultPizzas {
		if err := s.store.Set(ctx, store.CollectionPizzas, pizza.DocumentID(), pizza); err != nil {
			log.WithError(err).WithField("pizza", pizza.ID).Error("Failed to seed pizza")
		}
	}
}

// List returns the published catalog.
func (s *CatalogService) List() []models.PizzaItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PizzaItem, len(s.pizzas))
	copy(out, s.pizzas)
	return out
}

// ByID looks up a pizza in the published in-memory state only. Returns false
// when the id is unknown or the catalog has not loaded yet.
func (s *CatalogService) ByID(id int) (models.PizzaItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pizzas {
		if p.ID == id {
			return p, true
		}
	}
	return models.PizzaItem{}, false
}

// GetByID reads the pizza from the remote store, falling back to the
// in-memory state on any remote error.
func (s *CatalogService) GetByID(ctx context.Context, id int) (models.PizzaItem, error) {
	var pizza models.PizzaItem
	err := s.store.Get(ctx, store.CollectionPizzas, models.PizzaDocumentID(id), &pizza)
	if err == nil {
		if pizza.Customizable == nil {
			t := true
			pizza.Customizable = &t
		}
		return pizza, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return models.PizzaItem{}, models.ErrNotFound
	}

	log.WithError(err).WithField("pizza", id).Warn("Remote catalog read failed, falling back to local state")
	if p, ok := s.ByID(id); ok {
		return p, nil
	}
	return models.PizzaItem{}, models.ErrNotFound
}
