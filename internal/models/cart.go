// internal/models/cart.go
package models

import "github.com/google/uuid"

// CartItem is owned by the cart slot store, not the database. Product is a
// transient join attached at read time and is never written to the slot:
// the slot codec in the services package serializes only id, product_id and
// quantity.
//
// Invariant: Quantity is always > 0 while the item is in storage. A quantity
// update to zero or below removes the item instead of storing it.
type CartItem struct {
	ID        string    `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`

	Product *Product `json:"product,omitempty"`
}
