package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dailypizza/pizza-orders-api/internal/models"
	"github.com/dailypizza/pizza-orders-api/internal/services"
)

// PizzaController handles HTTP requests for the pizza catalog
type PizzaController interface {
	// GetAllPizzas retrieves the full catalog
	GetAllPizzas(c *gin.Context)
	// GetPizzaByID retrieves a pizza by its ID
	GetPizzaByID(c *gin.Context)
}

type pizzaController struct {
	catalog *services.CatalogService
}

// NewPizzaController creates a new instance of PizzaController
func NewPizzaController(catalog *services.CatalogService) PizzaController {
	return &pizzaController{catalog: catalog}
}

// GetAllPizzas godoc
// @Summary Get all pizzas
// @Description Get the purchasable pizza catalog
// @Tags pizzas
// @Accept json
// @Produce json
// @Success 200 {array} models.PizzaItem
// @Router /api/v1/public/pizzas [get]
func (pc *pizzaController) GetAllPizzas(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, pc.catalog.List())
}

// GetPizzaByID godoc
// @Summary Get pizza by ID
// @Description Get a single pizza by its ID
// @Tags pizzas
// @Accept json
// @Produce json
// @Param id path int true "Pizza ID"
// @Success 200 {object} models.PizzaItem
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/public/pizzas/{id} [get]
func (pc *pizzaController) GetPizzaByID(ctx *gin.Context) {
	id, existID := ctx.Params.Get("id")
	if !existID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pizza ID"})
		return
	}

	pizzaID, err := strconv.Atoi(id)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pizza ID format"})
		return
	}

	pizza, err := pc.catalog.GetByID(ctx.Request.Context(), pizzaID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Pizza not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve pizza"})
		return
	}
	ctx.JSON(http.StatusOK, pizza)
}
