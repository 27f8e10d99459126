package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dailypizza/pizza-orders-api/internal/models"
	"github.com/dailypizza/pizza-orders-api/internal/services"
)

// CustomizationController serves the static customization reference data
type CustomizationController struct {
	customizations services.CustomizationService
}

// NewCustomizationController creates a new instance of CustomizationController
func NewCustomizationController(customizations services.CustomizationService) *CustomizationController {
	return &CustomizationController{customizations: customizations}
}

// GetToppings godoc
// @Summary Get available toppings
// @Description Get toppings, optionally filtered by category
// @Tags customization
// @Produce json
// @Param category query string false "Filter by category (meat, vegetable, cheese, sauce)"
// @Success 200 {array} models.Topping
// @Router /api/v1/public/customization/toppings [get]
func (cc *CustomizationController) GetToppings(ctx *gin.Context) {
	if category := ctx.Query("category"); category != "" {
		ctx.JSON(http.StatusOK, cc.customizations.ToppingsByCategory(category))
		return
	}
	ctx.JSON(http.StatusOK, cc.customizations.Toppings())
}

// GetCrusts godoc
// @Summary Get available crusts
// @Tags customization
// @Produce json
// @Success 200 {array} models.Crust
// @Router /api/v1/public/customization/crusts [get]
func (cc *CustomizationController) GetCrusts(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, cc.customizations.Crusts())
}

// GetExtras godoc
// @Summary Get available extras
// @Description Get extras, optionally filtered by category
// @Tags customization
// @Produce json
// @Param category query string false "Filter by category (sides, beverages, desserts)"
// @Success 200 {array} models.Extra
// @Router /api/v1/public/customization/extras [get]
func (cc *CustomizationController) GetExtras(ctx *gin.Context) {
	if category := ctx.Query("category"); category != "" {
		ctx.JSON(http.StatusOK, cc.customizations.ExtrasByCategory(category))
		return
	}
	ctx.JSON(http.StatusOK, cc.customizations.Extras())
}

// PriceCustomization godoc
// @Summary Price a customization
// @Description Sum the selected topping, crust and extra prices
// @Tags customization
// @Accept json
// @Produce json
// @Success 200 {object} map[string]float64
// @Failure 400 {object} map[string]string
// @Router /api/v1/public/customization/price [post]
func (cc *CustomizationController) PriceCustomization(ctx *gin.Context) {
	var customization models.Customization
	if err := ctx.ShouldBindJSON(&customization); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"price": cc.customizations.CalculatePrice(&customization)})
}
