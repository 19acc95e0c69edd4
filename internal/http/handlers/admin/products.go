package admin

import (
	"strconv"
	"strings"

	"github.com/ava-bijoux/ava-next/internal/http/handlers/shared"
	"github.com/ava-bijoux/ava-next/internal/http/response"
	"github.com/ava-bijoux/ava-next/internal/repository"
	"github.com/ava-bijoux/ava-next/internal/service"

	"github.com/gin-gonic/gin"
)

var productErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrSlugTaken, code: response.CodeConflict, msg: "slug already in use"},
}

// ListProducts back-office catalog listing, inactive items included
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	products, total, err := h.ProductService.ListProducts(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "list products failed", err)
		return
	}

	response.SuccessWithPage(c, products, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: shared.BuildTotalPage(total, pageSize),
	})
}

// GetProduct back-office product detail
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "product id invalid", nil)
		return
	}
	product, err := h.ProductService.GetProduct(uint(id))
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "get product failed")
		return
	}
	response.Success(c, product)
}

// CreateProduct adds a catalog item
func (h *Handler) CreateProduct(c *gin.Context) {
	var req service.CreateProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	product, err := h.ProductService.CreateProduct(req)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "create product failed")
		return
	}
	response.Created(c, product)
}

// UpdateProduct edits a catalog item
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "product id invalid", nil)
		return
	}
	var req service.UpdateProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	product, err := h.ProductService.UpdateProduct(uint(id), req)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "update product failed")
		return
	}
	response.Success(c, product)
}

// DeleteProduct removes a catalog item
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "product id invalid", nil)
		return
	}
	if err := h.ProductService.DeleteProduct(uint(id)); err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "delete product failed")
		return
	}
	response.Success(c, nil)
}
