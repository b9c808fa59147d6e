// internal/handlers/order.go
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kartify/storefront-backend/internal/models"
	"github.com/kartify/storefront-backend/internal/services"
	"github.com/kartify/storefront-backend/internal/utils"
)

// paymentIntentCreator is the slice of the payment service checkout needs.
type paymentIntentCreator interface {
	CreateOrderPayment(ctx context.Context, order *models.Order) (*services.PaymentIntentResponse, error)
}

type OrderHandler struct {
	orderService        *services.OrderService
	paymentService      paymentIntentCreator
	notificationService *services.NotificationService
}

func NewOrderHandler(orderService *services.OrderService, paymentService paymentIntentCreator, notificationService *services.NotificationService) *OrderHandler {
	return &OrderHandler{
		orderService:        orderService,
		paymentService:      paymentService,
		notificationService: notificationService,
	}
}

type NotifyOrderRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	sessionID, ok := utils.GetCartSessionFromContext(c)
	if !ok {
		utils.BadRequestResponse(c, "Missing cart session", nil)
		return
	}
	userID := currentUserID(c)

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), sessionID, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// The order is committed and the cart cleared by this point. A payment
	// failure must not hide that, so the order is returned either way and
	// stays payment-pending.
	response := gin.H{"order": order}
	payment, err := h.paymentService.CreateOrderPayment(c.Request.Context(), order)
	switch {
	case err != nil:
		logrus.WithError(err).WithField("order_number", order.OrderNumber).
			Error("Failed to initiate payment for order")
		response["payment_error"] = "payment could not be initiated; the order was placed and is awaiting payment"
	case payment != nil:
		response["payment"] = payment
	}
	utils.CreatedResponse(c, response)
}

// GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	sessionID, ok := utils.GetCartSessionFromContext(c)
	if !ok {
		utils.BadRequestResponse(c, "Missing cart session", nil)
		return
	}
	userID := currentUserID(c)

	orders, err := h.orderService.ListOrders(c.Request.Context(), sessionID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"orders": orders,
		"total":  len(orders),
	})
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}

// POST /orders/:id/notify
func (h *OrderHandler) NotifyOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	var req NotifyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	notification, err := h.notificationService.SendOrderNotification(req.Email, order, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, notification)
}
