package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dailypizza/pizza-orders-api/internal/models"
	"github.com/dailypizza/pizza-orders-api/internal/services"
)

// OrderController handles HTTP requests for order history and checkout
type OrderController struct {
	orders *services.OrderService
}

// NewOrderController creates a new instance of OrderController
func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Checkout godoc
// @Summary Place an order from the current cart
// @Description Build an order from the cart, record it and clear the cart
// @Tags orders
// @Accept json
// @Produce json
// @Success 201 {object} models.Order
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/orders/checkout [post]
func (oc *OrderController) Checkout(ctx *gin.Context) {
	var req struct {
		Address       string `json:"address" binding:"required"`
		Phone         string `json:"phone" binding:"required"`
		PaymentMethod string `json:"paymentMethod" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := oc.orders.Checkout(ctx.Request.Context(), req.Address, req.Phone, req.PaymentMethod)
	if err != nil {
		if errors.Is(err, models.ErrAuthRequired) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to place an order"})
			return
		}
		if errors.Is(err, models.ErrRemoteUnavailable) {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Order store unavailable"})
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, order)
}

// GetOrders godoc
// @Summary Get order history
// @Description Get all orders for the active identity, newest first
// @Tags orders
// @Produce json
// @Success 200 {array} models.Order
// @Security BearerAuth
// @Router /api/v1/orders [get]
func (oc *OrderController) GetOrders(ctx *gin.Context) {
	orders := oc.orders.GetAll()
	if orders == nil {
		orders = []models.Order{}
	}
	ctx.JSON(http.StatusOK, orders)
}

// GetPendingOrders godoc
// @Summary Get undelivered orders
// @Tags orders
// @Produce json
// @Success 200 {array} models.Order
// @Security BearerAuth
// @Router /api/v1/orders/pending [get]
func (oc *OrderController) GetPendingOrders(ctx *gin.Context) {
	orders := oc.orders.GetPending()
	if orders == nil {
		orders = []models.Order{}
	}
	ctx.JSON(http.StatusOK, orders)
}

// GetLatestOrder godoc
// @Summary Get the most recent order
// @Tags orders
// @Produce json
// @Success 200 {object} models.Order
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/orders/latest [get]
func (oc *OrderController) GetLatestOrder(ctx *gin.Context) {
	order := oc.orders.GetLatestOrder()
	if order == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "No orders yet"})
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// GetOrderByID godoc
// @Summary Get an order by its ID
// @Description Orders owned by other identities read as not found
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/orders/{id} [get]
func (oc *OrderController) GetOrderByID(ctx *gin.Context) {
	orderID := ctx.Param("id")
	order := oc.orders.GetOrderByID(ctx.Request.Context(), orderID)
	if order == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// UpdateOrderStatus godoc
// @Summary Advance an order's status
// @Description Move the order one step along the delivery pipeline
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/orders/{id}/status [put]
func (oc *OrderController) UpdateOrderStatus(ctx *gin.Context) {
	orderID := ctx.Param("id")
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := oc.orders.UpdateStatus(ctx.Request.Context(), orderID, req.Status)
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, gin.H{"id": orderID, "status": string(req.Status)})
	case errors.Is(err, models.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, models.ErrUnauthorized):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own orders"})
	case errors.Is(err, models.ErrInvalidStatusTransition):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status transition"})
	default:
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Order store unavailable"})
	}
}
