// internal/services/cart_service.go
package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kartify/storefront-backend/internal/models"
)

// ProductFinder is the catalog lookup the cart needs to enrich its items.
type ProductFinder interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// CartService joins slot-stored cart items with catalog lookups. Each cart
// session owns one slot; mutations are read-modify-write with last write
// winning, which matches the single-caller assumption the slot design
// inherits. A corrupt or unreadable slot reads as an empty cart.
type CartService struct {
	stores  StoreProvider
	catalog ProductFinder
}

func NewCartService(stores StoreProvider, catalog ProductFinder) *CartService {
	return &CartService{
		stores:  stores,
		catalog: catalog,
	}
}

// slotItem is the persisted shape of a cart line. The transient product
// join never reaches the slot.
type slotItem struct {
	ID        string    `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// List returns all cart items with product detail attached. Each item costs
// one catalog lookup; a failed lookup leaves that item's product nil rather
// than failing the list.
func (s *CartService) List(ctx context.Context, sessionID string) []models.CartItem {
	items := s.loadCart(sessionID)
	for i := range items {
		product, err := s.catalog.GetProduct(ctx, items[i].ProductID)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"cart_item":  items[i].ID,
				"product_id": items[i].ProductID,
			}).Warn("Product lookup failed for cart item")
			continue
		}
		items[i].Product = product
	}
	return items
}

// Add puts quantity units of a product in the cart, accumulating onto an
// existing line for the same product instead of duplicating it.
func (s *CartService) Add(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) ([]models.CartItem, error) {
	if quantity <= 0 {
		return nil, NewError(KindValidationFailed, "quantity must be positive")
	}

	items := s.loadCart(sessionID)
	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, models.CartItem{
			ID:        uuid.NewString(),
			ProductID: productID,
			Quantity:  quantity,
		})
	}

	s.saveCart(sessionID, items)
	return s.List(ctx, sessionID), nil
}

// UpdateQuantity overwrites an item's quantity. Zero or below removes the
// item; a stored quantity is never non-positive.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) ([]models.CartItem, error) {
	items := s.loadCart(sessionID)

	index := -1
	for i := range items {
		if items[i].ID == itemID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, NewError(KindNotFound, "cart item not found")
	}

	if quantity <= 0 {
		items = append(items[:index], items[index+1:]...)
	} else {
		items[index].Quantity = quantity
	}

	s.saveCart(sessionID, items)
	return s.List(ctx, sessionID), nil
}

// Remove deletes an item from the cart. Removing an absent item is a no-op.
func (s *CartService) Remove(ctx context.Context, sessionID, itemID string) []models.CartItem {
	items := s.loadCart(sessionID)

	kept := items[:0]
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}

	s.saveCart(sessionID, kept)
	return s.List(ctx, sessionID)
}

// Clear empties the cart slot.
func (s *CartService) Clear(sessionID string) {
	s.saveCart(sessionID, nil)
}

// loadCart deserializes the slot. Any parse failure yields an empty cart,
// never an error; stored items with non-positive quantities are dropped on
// the way in.
func (s *CartService) loadCart(sessionID string) []models.CartItem {
	data, ok, err := s.stores.Slot(sessionID).Read()
	if err != nil {
		logrus.WithError(err).WithField("session", sessionID).Error("Failed to read cart slot")
		return []models.CartItem{}
	}
	if !ok {
		return []models.CartItem{}
	}

	var stored []slotItem
	if err := json.Unmarshal(data, &stored); err != nil {
		logrus.WithError(err).WithField("session", sessionID).Warn("Cart slot corrupt, treating as empty")
		return []models.CartItem{}
	}

	items := make([]models.CartItem, 0, len(stored))
	for _, it := range stored {
		if it.Quantity <= 0 {
			continue
		}
		items = append(items, models.CartItem{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return items
}

// saveCart serializes and persists the cart. A write failure is logged and
// swallowed: the caller's view diverges from storage until the next
// successful write, which is the slot design's documented limitation.
func (s *CartService) saveCart(sessionID string, items []models.CartItem) {
	stored := make([]slotItem, 0, len(items))
	for _, it := range items {
		stored = append(stored, slotItem{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		logrus.WithError(err).WithField("session", sessionID).Error("Failed to serialize cart")
		return
	}
	if err := s.stores.Slot(sessionID).Write(data); err != nil {
		logrus.WithError(err).WithField("session", sessionID).Error("Failed to write cart slot")
	}
}
