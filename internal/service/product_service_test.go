package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ava-bijoux/ava-next/internal/models"
	"github.com/ava-bijoux/ava-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:product_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewProductService(repository.NewProductRepository(db)), db
}

func TestCreateProductBuildsSlug(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	product, err := svc.CreateProduct(CreateProductInput{
		Name:     "Collier Plaque Or",
		Category: "Necklace",
		Price:    models.NewMoneyFromDecimal(decimal.NewFromFloat(39.90)),
		MaxChars: 12,
		Fonts:    `["script","serif","block"]`,
		Colors:   `["gold","rose-gold","silver"]`,
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if product.Slug != "collier-plaque-or" {
		t.Fatalf("unexpected slug: %s", product.Slug)
	}
	if product.Category != "necklace" {
		t.Fatalf("category not normalized: %s", product.Category)
	}
	if !product.InStock {
		t.Fatalf("new product must default to in stock")
	}

	if _, err := svc.CreateProduct(CreateProductInput{
		Name:  "Collier Plaque Or",
		Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(39.90)),
	}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected slug taken, got: %v", err)
	}
}

func TestGetPublicProductHidesOutOfStock(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	product, err := svc.CreateProduct(CreateProductInput{
		Name:  "Bracelet Jonc Or",
		Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(44.90)),
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	if _, err := svc.GetPublicProduct("Bracelet-Jonc-Or"); err != nil {
		t.Fatalf("public lookup failed: %v", err)
	}

	outOfStock := false
	if _, err := svc.UpdateProduct(product.ID, UpdateProductInput{InStock: &outOfStock}); err != nil {
		t.Fatalf("update product failed: %v", err)
	}
	if _, err := svc.GetPublicProduct("bracelet-jonc-or"); !errors.Is(err, ErrProductInactive) {
		t.Fatalf("expected out-of-stock rejection, got: %v", err)
	}
	if _, err := svc.GetPublicProduct("no-such-product"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found, got: %v", err)
	}
}

func TestListPublicProductsFiltersStock(t *testing.T) {
	svc, db := setupProductServiceTest(t)

	if _, err := svc.CreateProduct(CreateProductInput{
		Name:  "Collier Visible",
		Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(32.90)),
	}); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	hidden := &models.Product{
		Name:    "Collier Cache",
		Slug:    "collier-cache",
		Price:   models.NewMoneyFromDecimal(decimal.NewFromFloat(34.90)),
		InStock: false,
	}
	if err := db.Create(hidden).Error; err != nil {
		t.Fatalf("create hidden product failed: %v", err)
	}

	rows, total, err := svc.ListPublicProducts(repository.ProductListFilter{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list public products failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Slug != "collier-visible" {
		t.Fatalf("storefront must only list in-stock products, got total=%d rows=%d", total, len(rows))
	}

	rows, total, err = svc.ListProducts(repository.ProductListFilter{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("back office must list everything, got total=%d", total)
	}
	_ = rows
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	product, err := svc.CreateProduct(CreateProductInput{
		Name:  "Bracelet Ephemere",
		Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(36.90)),
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if err := svc.DeleteProduct(product.ID); err != nil {
		t.Fatalf("delete product failed: %v", err)
	}
	if _, err := svc.GetProduct(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found after delete, got: %v", err)
	}
	if err := svc.DeleteProduct(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found on double delete, got: %v", err)
	}
}
