package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dailypizza/pizza-orders-api/internal/models"
	"github.com/dailypizza/pizza-orders-api/internal/services"
)

// CartController handles HTTP requests for the cart
type CartController struct {
	cart *services.CartService
}

// NewCartController creates a new instance of CartController
func NewCartController(cart *services.CartService) *CartController {
	return &CartController{cart: cart}
}

// GetCart godoc
// @Summary Get the cart
// @Description Get the cart items with totals
// @Tags cart
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/cart [get]
func (cc *CartController) GetCart(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"items":      cc.cart.Items(),
		"total":      cc.cart.Total(),
		"totalItems": cc.cart.TotalItems(),
	})
}

// AddItem godoc
// @Summary Add an item to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/cart/items [post]
func (cc *CartController) AddItem(ctx *gin.Context) {
	var item models.CartItem
	if err := ctx.ShouldBindJSON(&item); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if item.Pizza.ID == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Cart item needs a pizza"})
		return
	}

	if err := cc.cart.Add(ctx.Request.Context(), item); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist cart"})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"items":      cc.cart.Items(),
		"total":      cc.cart.Total(),
		"totalItems": cc.cart.TotalItems(),
	})
}

// RemoveItem godoc
// @Summary Remove an item from the cart
// @Tags cart
// @Produce json
// @Param id path string true "Cart item ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/cart/items/{id} [delete]
func (cc *CartController) RemoveItem(ctx *gin.Context) {
	itemID := ctx.Param("id")
	if err := cc.cart.Remove(ctx.Request.Context(), itemID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist cart"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"items": cc.cart.Items(), "total": cc.cart.Total()})
}

// UpdateQuantity godoc
// @Summary Set an item's quantity
// @Description Set the quantity; zero or less removes the item
// @Tags cart
// @Accept json
// @Produce json
// @Param id path string true "Cart item ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/cart/items/{id}/quantity [put]
func (cc *CartController) UpdateQuantity(ctx *gin.Context) {
	itemID := ctx.Param("id")
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := cc.cart.UpdateQuantity(ctx.Request.Context(), itemID, req.Quantity); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist cart"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"items": cc.cart.Items(), "total": cc.cart.Total()})
}

// IncreaseQuantity godoc
// @Summary Increase an item's quantity by one
// @Tags cart
// @Produce json
// @Param id path string true "Cart item ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/cart/items/{id}/increase [post]
func (cc *CartController) IncreaseQuantity(ctx *gin.Context) {
	itemID := ctx.Param("id")
	if err := cc.cart.IncreaseQuantity(ctx.Request.Context(), itemID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist cart"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"items": cc.cart.Items(), "total": cc.cart.Total()})
}

// DecreaseQuantity godoc
// @Summary Decrease an item's quantity by one
// @Description Decrease the quantity; dropping below one removes the item
// @Tags cart
// @Produce json
// @Param id path string true "Cart item ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/cart/items/{id}/decrease [post]
func (cc *CartController) DecreaseQuantity(ctx *gin.Context) {
	itemID := ctx.Param("id")
	if err := cc.cart.DecreaseQuantity(ctx.Request.Context(), itemID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist cart"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"items": cc.cart.Items(), "total": cc.cart.Total()})
}

// ClearCart godoc
// @Summary Empty the cart
// @Tags cart
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/cart [delete]
func (cc *CartController) ClearCart(ctx *gin.Context) {
	if err := cc.cart.Clear(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist cart"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"items": []models.CartItem{}, "total": 0})
}
