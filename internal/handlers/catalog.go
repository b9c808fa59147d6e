// internal/handlers/catalog.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kartify/storefront-backend/internal/services"
	"github.com/kartify/storefront-backend/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
	storageService *services.StorageService
}

func NewCatalogHandler(catalogService *services.CatalogService, storageService *services.StorageService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		storageService: storageService,
	}
}

// GET /categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories := h.catalogService.ListCategories(c.Request.Context())
	utils.SuccessResponse(c, gin.H{
		"categories": categories,
		"total":      len(categories),
	})
}

// GET /products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	categorySlug := c.Query("category")
	searchQuery := c.Query("q")

	products := h.catalogService.ListProducts(c.Request.Context(), categorySlug, searchQuery)
	utils.SuccessResponse(c, gin.H{
		"products": products,
		"total":    len(products),
	})
}

// GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /products/:id/images
func (h *CatalogHandler) UploadProductImage(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Image file is required", nil)
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadProductImage(file, header)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	product, err := h.catalogService.AttachProductImage(c.Request.Context(), productID, result.URL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"upload":  result,
		"product": product,
	})
}
