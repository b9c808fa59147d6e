// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kartify/storefront-backend/internal/models"
	"github.com/kartify/storefront-backend/internal/services"
	"github.com/kartify/storefront-backend/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID, ok := utils.GetCartSessionFromContext(c)
	if !ok {
		utils.BadRequestResponse(c, "Missing cart session", nil)
		return
	}

	items := h.cartService.List(c.Request.Context(), sessionID)
	utils.SuccessResponse(c, cartView(items))
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	sessionID, ok := utils.GetCartSessionFromContext(c)
	if !ok {
		utils.BadRequestResponse(c, "Missing cart session", nil)
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	items, err := h.cartService.Add(c.Request.Context(), sessionID, req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, cartView(items))
}

// PUT /cart/items/:itemId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	sessionID, ok := utils.GetCartSessionFromContext(c)
	if !ok {
		utils.BadRequestResponse(c, "Missing cart session", nil)
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	items, err := h.cartService.UpdateQuantity(c.Request.Context(), sessionID, c.Param("itemId"), req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, cartView(items))
}

// DELETE /cart/items/:itemId
func (h *CartHandler) DeleteItem(c *gin.Context) {
	sessionID, ok := utils.GetCartSessionFromContext(c)
	if !ok {
		utils.BadRequestResponse(c, "Missing cart session", nil)
		return
	}

	items := h.cartService.Remove(c.Request.Context(), sessionID, c.Param("itemId"))
	utils.SuccessResponse(c, cartView(items))
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID, ok := utils.GetCartSessionFromContext(c)
	if !ok {
		utils.BadRequestResponse(c, "Missing cart session", nil)
		return
	}

	h.cartService.Clear(sessionID)
	utils.SuccessResponse(c, cartView(nil))
}

// cartView summarizes the cart alongside its items. Items whose product
// lookup failed are counted but cannot contribute to the subtotal.
func cartView(items []models.CartItem) gin.H {
	if items == nil {
		items = []models.CartItem{}
	}

	subtotal := 0.0
	itemCount := 0
	for _, item := range items {
		itemCount += item.Quantity
		if item.Product != nil {
			subtotal += item.Product.Price * float64(item.Quantity)
		}
	}

	return gin.H{
		"items":      items,
		"item_count": itemCount,
		"subtotal":   subtotal,
	}
}
