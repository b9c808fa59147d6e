// internal/models/notification.go
package models

import (
	"github.com/google/uuid"
)

// Notification is a best-effort audit record of an outbound customer
// message. The row itself is written transactionally with the order; only
// delivery is best-effort.
type Notification struct {
	BaseModel
	UserID  *uuid.UUID         `json:"user_id,omitempty" gorm:"type:uuid;index"`
	Email   string             `json:"email" gorm:"size:255;not null"`
	Type    NotificationType   `json:"type" gorm:"type:varchar(40);not null;index"`
	OrderID *uuid.UUID         `json:"order_id,omitempty" gorm:"type:uuid;index"`
	Content JSONB              `json:"content" gorm:"type:jsonb"`
	Status  NotificationStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
}
