// internal/services/order_repository.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kartify/storefront-backend/internal/database"
	"github.com/kartify/storefront-backend/internal/models"
)

// OrderRepository persists the checkout write set and serves order reads.
// Save commits the order, its item snapshots and the pending notification
// row as one unit: either all three land or none do.
type OrderRepository interface {
	Save(ctx context.Context, order *models.Order, items []models.OrderItem, notification *models.Notification) error
	Find(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindAll(ctx context.Context, sessionID string, userID *uuid.UUID) ([]models.Order, error)
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) Save(ctx context.Context, order *models.Order, items []models.OrderItem, notification *models.Notification) error {
	return database.WithTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		order.OrderItems = items

		notification.OrderID = &order.ID
		if err := tx.Create(notification).Error; err != nil {
			return fmt.Errorf("failed to record notification: %w", err)
		}
		return nil
	})
}

func (r *gormOrderRepository) Find(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("OrderItems").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindAll returns the caller's orders newest-first. Authenticated callers
// are scoped by user id, anonymous callers by cart session.
func (r *gormOrderRepository) FindAll(ctx context.Context, sessionID string, userID *uuid.UUID) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Preload("OrderItems")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	} else {
		query = query.Where("session_id = ?", sessionID)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
