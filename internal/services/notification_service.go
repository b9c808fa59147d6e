// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kartify/storefront-backend/internal/config"
	"github.com/kartify/storefront-backend/internal/models"
)

// NotificationService records outbound customer notifications and delivers
// them over SMTP. Recording is raise-to-caller; delivery is best-effort and
// only flips the row's status.
type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// SendOrderNotification writes a notification row summarizing the order and
// attempts delivery inline. Unlike the read paths, a failure to record the
// row is an error the caller must surface.
func (s *NotificationService) SendOrderNotification(email string, order *models.Order, userID *uuid.UUID) (*models.Notification, error) {
	notification := newOrderNotification(order, email, len(order.OrderItems), userID)
	notification.OrderID = &order.ID
	if err := s.db.Create(notification).Error; err != nil {
		return nil, WrapError(KindRemoteUnavailable, "failed to record notification", err)
	}

	s.DeliverOrderNotification(notification, order)
	return notification, nil
}

// newOrderNotification builds the pending confirmation row. The order id is
// attached by whoever persists the row: checkout builds it before the order
// has an id.
func newOrderNotification(order *models.Order, email string, itemCount int, userID *uuid.UUID) *models.Notification {
	return &models.Notification{
		UserID: userID,
		Email:  email,
		Type:   models.NotificationTypeOrderConfirmation,
		Content: models.JSONB{
			"order_number":   order.OrderNumber,
			"subtotal":       order.Subtotal,
			"shipping_cost":  order.ShippingCost,
			"total":          order.Total,
			"status":         string(order.Status),
			"payment_method": string(order.PaymentMethod),
			"item_count":     itemCount,
		},
		Status: models.NotificationStatusPending,
	}
}

// DeliverOrderNotification sends the confirmation email and updates the row
// to sent or failed. Failures never propagate: the order already stands,
// so this is a recorded partial-write, not a checkout error.
func (s *NotificationService) DeliverOrderNotification(notification *models.Notification, order *models.Order) {
	status := models.NotificationStatusSent
	if err := s.sendOrderEmail(notification.Email, order); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"notification_id": notification.ID,
			"order_number":    order.OrderNumber,
		}).Error("Order confirmation email failed")
		status = models.NotificationStatusFailed
	}

	if err := s.db.Model(notification).Update("status", status).Error; err != nil {
		logrus.WithError(err).WithField("notification_id", notification.ID).
			Error("Failed to update notification status")
	}
}

const orderConfirmationTemplate = `
<h2>Thanks for your order, {{.Name}}!</h2>
<p>Your order <strong>{{.OrderNumber}}</strong> has been placed.</p>
<table>
{{range .Items}}<tr><td>{{.ProductName}} × {{.Quantity}}</td><td>₹{{printf "%.2f" .Price}}</td></tr>
{{end}}</table>
<p>Subtotal: ₹{{printf "%.2f" .Subtotal}}<br/>
Shipping: ₹{{printf "%.2f" .ShippingCost}}<br/>
<strong>Total: ₹{{printf "%.2f" .Total}}</strong></p>
<p>Track it at {{.OrdersURL}}</p>
`

func (s *NotificationService) sendOrderEmail(email string, order *models.Order) error {
	if s.config.Email.SMTPHost == "" {
		logrus.WithField("order_number", order.OrderNumber).Debug("SMTP not configured, skipping email")
		return nil
	}

	tmpl, err := template.New("order_confirmation").Parse(orderConfirmationTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	err = tmpl.Execute(&body, map[string]interface{}{
		"Name":         order.ShippingAddress.Name,
		"OrderNumber":  order.OrderNumber,
		"Items":        order.OrderItems,
		"Subtotal":     order.Subtotal,
		"ShippingCost": order.ShippingCost,
		"Total":        order.Total,
		"OrdersURL":    fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.ID),
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := "Order Confirmation - " + order.OrderNumber
	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.config.Email.FromName, s.config.Email.FromEmail, email, subject, body.String())

	addr := s.config.Email.SMTPHost + ":" + s.config.Email.SMTPPort
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{email}, []byte(msg))
}
