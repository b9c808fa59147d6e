// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kartify/storefront-backend/internal/config"
	"github.com/kartify/storefront-backend/internal/models"
	"github.com/kartify/storefront-backend/internal/utils"
)

// OrderNotifier delivers a recorded order notification after commit.
type OrderNotifier interface {
	DeliverOrderNotification(notification *models.Notification, order *models.Order)
}

// OrderService runs the checkout workflow: it turns the assembled cart into
// an order with price snapshots, then clears the cart. Order, order items
// and the pending notification row are written through one repository Save,
// so there is no window where an order exists without its line items.
type OrderService struct {
	repo     OrderRepository
	cart     *CartService
	notifier OrderNotifier
	shipping config.ShippingConfig
}

func NewOrderService(repo OrderRepository, cart *CartService, notifier OrderNotifier, shipping config.ShippingConfig) *OrderService {
	return &OrderService{
		repo:     repo,
		cart:     cart,
		notifier: notifier,
		shipping: shipping,
	}
}

type CheckoutRequest struct {
	Name          string               `json:"name" validate:"required,min=2,max=255"`
	Phone         string               `json:"phone" validate:"required,min=7,max=20"`
	Address       string               `json:"address" validate:"required,min=5,max=512"`
	City          string               `json:"city" validate:"required,max=100"`
	State         string               `json:"state" validate:"required,max=100"`
	Pincode       string               `json:"pincode" validate:"required,pincode"`
	Email         string               `json:"email" validate:"required,email"`
	PaymentMethod models.PaymentMethod `json:"payment_method" validate:"required,oneof=card cod"`
}

// CreateOrder checks out the session's cart. An empty cart fails validation
// before anything is written. The cart is cleared only after the
// transaction commits; a failed checkout leaves the cart intact.
func (s *OrderService) CreateOrder(ctx context.Context, sessionID string, userID *uuid.UUID, req *CheckoutRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, WrapError(KindValidationFailed, "invalid checkout request", err)
	}

	if len(s.cart.loadCart(sessionID)) == 0 {
		return nil, ErrEmptyCart
	}

	items := s.cart.List(ctx, sessionID)
	orderItems, err := buildOrderItems(items)
	if err != nil {
		return nil, err
	}

	subtotal := orderSubtotal(orderItems)
	shippingCost := s.shippingCost(subtotal)

	order := &models.Order{
		OrderNumber: generateOrderNumber(),
		SessionID:   sessionID,
		UserID:      userID,
		ShippingAddress: models.ShippingAddress{
			Name:    req.Name,
			Phone:   req.Phone,
			Address: req.Address,
			City:    req.City,
			State:   req.State,
			Pincode: req.Pincode,
		},
		Subtotal:      subtotal,
		ShippingCost:  shippingCost,
		Total:         subtotal + shippingCost,
		Status:        models.OrderStatusPending,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentStatusPending,
	}

	notification := newOrderNotification(order, req.Email, len(orderItems), userID)
	if err := s.repo.Save(ctx, order, orderItems, notification); err != nil {
		return nil, WrapError(KindRemoteUnavailable, "checkout failed", err)
	}

	logOrderEvent(order, "Order created")
	s.cart.Clear(sessionID)

	// Delivery is best-effort and happens off the request path; a failure
	// flips the notification row to failed and the order stands.
	go s.notifier.DeliverOrderNotification(notification, order)

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(KindNotFound, "order not found")
		}
		return nil, WrapError(KindRemoteUnavailable, "failed to fetch order", err)
	}
	return order, nil
}

// ListOrders returns the caller's orders newest-first. Authenticated
// callers see their user's orders; anonymous callers see the ones placed
// from their cart session.
func (s *OrderService) ListOrders(ctx context.Context, sessionID string, userID *uuid.UUID) ([]models.Order, error) {
	orders, err := s.repo.FindAll(ctx, sessionID, userID)
	if err != nil {
		return nil, WrapError(KindRemoteUnavailable, "failed to fetch orders", err)
	}
	return orders, nil
}

// shippingCost applies the flat rate below the free-shipping threshold.
func (s *OrderService) shippingCost(subtotal float64) float64 {
	if subtotal > s.shipping.FreeShippingThreshold {
		return 0
	}
	return s.shipping.FlatRate
}

// buildOrderItems snapshots name, image and price from each cart item's
// product. An item whose product lookup failed cannot be priced, so
// checkout fails explicitly instead of writing an order with a hole in it.
func buildOrderItems(items []models.CartItem) ([]models.OrderItem, error) {
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			return nil, NewError(KindRemoteUnavailable,
				fmt.Sprintf("product %s is unavailable for checkout", item.ProductID))
		}
		orderItems = append(orderItems, models.OrderItem{
			ProductID:    item.ProductID,
			ProductName:  item.Product.Name,
			ProductImage: item.Product.FirstImage(),
			Price:        item.Product.Price,
			Quantity:     item.Quantity,
		})
	}
	return orderItems, nil
}

func orderSubtotal(items []models.OrderItem) float64 {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixMilli())
}

// logOrderEvent is shared by the order and payment flows.
func logOrderEvent(order *models.Order, msg string) {
	logrus.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.Total,
	}).Info(msg)
}
