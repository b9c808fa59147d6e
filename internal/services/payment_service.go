// internal/services/payment_service.go
package services

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/kartify/storefront-backend/internal/config"
	"github.com/kartify/storefront-backend/internal/models"
)

// PaymentService wraps the Stripe flow behind the order's payment fields.
// Cash-on-delivery orders never touch Stripe and stay payment-pending until
// fulfilment.
type PaymentService struct {
	db     *gorm.DB
	config *config.Config
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string    `json:"payment_intent_id" validate:"required"`
	OrderID         uuid.UUID `json:"order_id" validate:"required"`
}

func NewPaymentService(db *gorm.DB, config *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: config,
	}
}

// CreateOrderPayment opens a payment intent for a card order and stores its
// id as the order's transaction id. Non-card orders, and deployments
// without a Stripe key, return nil with no error.
func (s *PaymentService) CreateOrderPayment(ctx context.Context, order *models.Order) (*PaymentIntentResponse, error) {
	if order.PaymentMethod != models.PaymentMethodCard {
		return nil, nil
	}
	if s.config.Payment.StripeSecretKey == "" {
		logrus.WithField("order_number", order.OrderNumber).Warn("Stripe not configured, card order left payment-pending")
		return nil, nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInSmallestUnit(order.Total)),
		Currency: stripe.String(s.config.Payment.Currency),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("order_number", order.OrderNumber)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, WrapError(KindRemoteUnavailable, "failed to create payment intent", err)
	}

	if err := s.db.WithContext(ctx).Model(order).
		Update("transaction_id", pi.ID).Error; err != nil {
		return nil, WrapError(KindRemoteUnavailable, "failed to store transaction id", err)
	}
	transactionID := pi.ID
	order.TransactionID = &transactionID

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// ConfirmPayment re-reads the intent from Stripe and moves the order's
// payment status accordingly. A paid order advances to processing. The
// intent must be the one opened for this order; otherwise a succeeded
// intent for a cheap order could mark an unrelated order paid.
func (s *PaymentService) ConfirmPayment(ctx context.Context, req *ConfirmPaymentRequest) (*models.Order, error) {
	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, WrapError(KindRemoteUnavailable, "failed to get payment intent", err)
	}

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", req.OrderID).Error; err != nil {
		return nil, NewError(KindNotFound, "order not found")
	}

	if err := verifyIntentMatchesOrder(&order, pi); err != nil {
		return nil, err
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		order.PaymentStatus = models.PaymentStatusPaid
		order.Status = models.OrderStatusProcessing

	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresPaymentMethod, stripe.PaymentIntentStatusProcessing:
		order.PaymentStatus = models.PaymentStatusPending

	default:
		order.PaymentStatus = models.PaymentStatusFailed
	}

	if err := s.db.WithContext(ctx).Save(&order).Error; err != nil {
		return nil, WrapError(KindRemoteUnavailable, "failed to update order payment status", err)
	}

	logOrderEvent(&order, "Payment status updated")
	return &order, nil
}

// verifyIntentMatchesOrder rejects confirmations where the intent is not
// the one stored on the order, or was charged for a different amount.
func verifyIntentMatchesOrder(order *models.Order, pi *stripe.PaymentIntent) error {
	if order.TransactionID == nil || *order.TransactionID != pi.ID {
		return NewError(KindValidationFailed, "payment intent does not belong to this order")
	}
	if pi.Amount != amountInSmallestUnit(order.Total) {
		return NewError(KindValidationFailed, "payment intent amount does not match order total")
	}
	return nil
}

// amountInSmallestUnit converts a total to the currency's smallest unit,
// rounding so binary float noise cannot shift the charge by a unit.
func amountInSmallestUnit(total float64) int64 {
	return int64(math.Round(total * 100))
}
