// internal/services/catalog_service.go
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kartify/storefront-backend/internal/models"
)

// CatalogService reads the product tables. Listing reads follow the
// swallow-and-default policy: failures are logged and an empty result is
// returned, so a flaky store degrades browsing instead of breaking it.
type CatalogService struct {
	db     *gorm.DB
	ranker *SearchRanker
}

func NewCatalogService(db *gorm.DB, ranker *SearchRanker) *CatalogService {
	return &CatalogService{
		db:     db,
		ranker: ranker,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) []models.Category {
	var categories []models.Category
	if err := s.db.WithContext(ctx).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		logrus.WithError(err).Error("Failed to fetch categories")
		return []models.Category{}
	}
	return categories
}

// ListProducts fetches products with their category expanded. A slug other
// than "all" costs an extra round trip to resolve slug to id before
// filtering; a slug that resolves to no category skips the filter and
// returns unfiltered results (kept from the original system, logged so the
// gap is visible). A non-empty search query is ranked locally after the
// fetch, never pushed to the store.
func (s *CatalogService) ListProducts(ctx context.Context, categorySlug, searchQuery string) []models.Product {
	query := s.db.WithContext(ctx).Model(&models.Product{}).Preload("Category")

	if categorySlug != "" && categorySlug != models.CategoryAll {
		var category models.Category
		err := s.db.WithContext(ctx).Where("slug = ?", categorySlug).First(&category).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			logrus.WithField("slug", categorySlug).Warn("Unknown category slug, filter skipped")
		case err != nil:
			logrus.WithError(err).WithField("slug", categorySlug).Error("Failed to resolve category slug")
			return []models.Product{}
		default:
			query = query.Where("category_id = ?", category.ID)
		}
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		logrus.WithError(err).Error("Failed to fetch products")
		return []models.Product{}
	}

	if searchQuery != "" {
		return s.ranker.Rank(products, searchQuery)
	}
	return products
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Preload("Category").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(KindNotFound, "product not found")
		}
		logrus.WithError(err).WithField("product_id", id).Error("Failed to fetch product")
		return nil, WrapError(KindRemoteUnavailable, "failed to fetch product", err)
	}
	return &product, nil
}

// AttachProductImage appends an uploaded image URL to the product.
func (s *CatalogService) AttachProductImage(ctx context.Context, id uuid.UUID, url string) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Images = append(product.Images, url)
	if err := s.db.WithContext(ctx).Model(product).
		Update("images", product.Images).Error; err != nil {
		return nil, WrapError(KindRemoteUnavailable, "failed to update product images", err)
	}
	return product, nil
}
