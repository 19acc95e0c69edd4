package service

import (
	"context"
	"strings"
	"time"

	"github.com/ava-bijoux/ava-next/internal/cache"
	"github.com/ava-bijoux/ava-next/internal/logger"
	"github.com/ava-bijoux/ava-next/internal/models"
	"github.com/ava-bijoux/ava-next/internal/repository"
)

const productCacheTTL = 5 * time.Minute

func productCacheKey(slug string) string {
	return "product:slug:" + slug
}

// CreateProductInput admin product creation payload
type CreateProductInput struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Category    string       `json:"category" binding:"required"`
	Price       models.Money `json:"price" binding:"required"`
	MaxChars    int          `json:"max_chars"`
	Fonts       string       `json:"fonts"`
	Colors      string       `json:"colors"`
	ImageURL    string       `json:"image_url"`
	InStock     *bool        `json:"in_stock"`
	SortOrder   int          `json:"sort_order"`
}

// UpdateProductInput admin product update payload, nil fields stay untouched
type UpdateProductInput struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Category    *string       `json:"category"`
	Price       *models.Money `json:"price"`
	MaxChars    *int          `json:"max_chars"`
	Fonts       *string       `json:"fonts"`
	Colors      *string       `json:"colors"`
	ImageURL    *string       `json:"image_url"`
	InStock     *bool         `json:"in_stock"`
	SortOrder   *int          `json:"sort_order"`
}

// ProductService catalog management
type ProductService struct {
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewProductService creates a product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		now:         time.Now,
	}
}

// ListPublicProducts returns in-stock catalog items for the storefront
func (s *ProductService) ListPublicProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.OnlyActive = true
	return s.productRepo.List(filter)
}

// ListProducts returns catalog items for the back office
func (s *ProductService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetProduct fetches one product
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetPublicProduct fetches one storefront product by slug. Detail pages
// are the hottest read, so hits are served from Redis when available.
func (s *ProductService) GetPublicProduct(slug string) (*models.Product, error) {
	normalized := strings.ToLower(strings.TrimSpace(slug))
	ctx := context.Background()

	var cached models.Product
	if hit, err := cache.GetJSON(ctx, productCacheKey(normalized), &cached); err == nil && hit {
		if !cached.InStock {
			return nil, ErrProductInactive
		}
		return &cached, nil
	}

	product, err := s.productRepo.GetBySlug(normalized)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := cache.SetJSON(ctx, productCacheKey(normalized), product, productCacheTTL); err != nil {
		logger.Debugw("product_cache_set_failed", "slug", normalized, "error", err)
	}
	if !product.InStock {
		return nil, ErrProductInactive
	}
	return product, nil
}

// CreateProduct adds a catalog item
func (s *ProductService) CreateProduct(input CreateProductInput) (*models.Product, error) {
	slug := Slugify(input.Name)
	if slug == "" {
		return nil, ErrOrderInvalid
	}
	if taken, err := s.productRepo.GetBySlug(slug); err != nil {
		return nil, err
	} else if taken != nil {
		return nil, ErrSlugTaken
	}

	inStock := true
	if input.InStock != nil {
		inStock = *input.InStock
	}
	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		Category:    strings.ToLower(strings.TrimSpace(input.Category)),
		Price:       input.Price,
		MaxChars:    input.MaxChars,
		Fonts:       strings.TrimSpace(input.Fonts),
		Colors:      strings.TrimSpace(input.Colors),
		ImageURL:    strings.TrimSpace(input.ImageURL),
		InStock:     inStock,
		SortOrder:   input.SortOrder,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	logger.Infow("product_created", "product_id", product.ID, "slug", product.Slug)
	return product, nil
}

// UpdateProduct applies an admin edit
func (s *ProductService) UpdateProduct(id uint, input UpdateProductInput) (*models.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil && strings.TrimSpace(*input.Category) != "" {
		product.Category = strings.ToLower(strings.TrimSpace(*input.Category))
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.MaxChars != nil {
		product.MaxChars = *input.MaxChars
	}
	if input.Fonts != nil {
		product.Fonts = strings.TrimSpace(*input.Fonts)
	}
	if input.Colors != nil {
		product.Colors = strings.TrimSpace(*input.Colors)
	}
	if input.ImageURL != nil {
		product.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.SortOrder != nil {
		product.SortOrder = *input.SortOrder
	}

	product.UpdatedAt = s.now()
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	if err := cache.Del(context.Background(), productCacheKey(product.Slug)); err != nil {
		logger.Debugw("product_cache_del_failed", "slug", product.Slug, "error", err)
	}
	return product, nil
}

// DeleteProduct removes a catalog item
func (s *ProductService) DeleteProduct(id uint) error {
	product, err := s.GetProduct(id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	if err := cache.Del(context.Background(), productCacheKey(product.Slug)); err != nil {
		logger.Debugw("product_cache_del_failed", "slug", product.Slug, "error", err)
	}
	return nil
}
