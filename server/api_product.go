package orderserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	productsdomain "github.com/masayahak/go-order-app/internal/domains/products/domain"
	productsports "github.com/masayahak/go-order-app/internal/domains/products/ports"
	"github.com/masayahak/go-order-app/internal/shared/optional"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

// ProductAPI wires HTTP transport with the products bounded context service.
type ProductAPI struct {
	service productsports.Service
}

// NewProductAPI creates a ProductAPI backed by the provided service.
func NewProductAPI(service productsports.Service) ProductAPI {
	return ProductAPI{service: service}
}

type productCreateRequest struct {
	Code      string `json:"code" binding:"required"`
	Name      string `json:"name" binding:"required"`
	UnitPrice int64  `json:"unitPrice"`
}

type productUpdateRequest struct {
	Name      string `json:"name" binding:"required"`
	UnitPrice int64  `json:"unitPrice"`
}

type productResponse struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unitPrice"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toProductResponse(product *productsdomain.Product) productResponse {
	return productResponse{
		Code:      product.Code,
		Name:      product.Name,
		UnitPrice: product.UnitPrice,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}

func toProductResponseList(products []*productsdomain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, product := range products {
		out = append(out, toProductResponse(product))
	}
	return out
}

// Get /api/products
// Paged product list with optional keyword filter
func (api *ProductAPI) ListProducts(c *gin.Context) {
	page, err := api.service.ListProductsPage(c.Request.Context(), paginationQuery(c))
	if err != nil {
		respondProductServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Page[productResponse]{
		Data:       toProductResponseList(page.Data),
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}

// Get /api/products/suggest
// Type-ahead lookup over code and name
func (api *ProductAPI) SuggestProducts(c *gin.Context) {
	result, err := api.service.SearchProducts(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		respondProductServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponseList(result))
}

// Get /api/products/:code
func (api *ProductAPI) GetProduct(c *gin.Context) {
	code, ok := parseCodeParam(c)
	if !ok {
		return
	}
	product, err := api.service.GetProductByCode(c.Request.Context(), code)
	if err != nil {
		respondProductServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// Post /api/products
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload productCreateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.CreateProduct(c.Request.Context(), payload.Code, payload.Name, payload.UnitPrice)
	if err != nil {
		respondProductServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(saved))
}

// Put /api/products/:code
// Full-representation update; the code itself is immutable
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	code, ok := parseCodeParam(c)
	if !ok {
		return
	}
	var payload productUpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	changes := productsdomain.Changes{
		Name:      optional.Of(payload.Name),
		UnitPrice: optional.Of(payload.UnitPrice),
	}
	updated, err := api.service.UpdateProduct(c.Request.Context(), code, changes)
	if err != nil {
		respondProductServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(updated))
}

// Delete /api/products/:code
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	code, ok := parseCodeParam(c)
	if !ok {
		return
	}
	removed, err := api.service.DeleteProduct(c.Request.Context(), code)
	if err != nil {
		respondProductServiceError(c, err)
		return
	}
	if !removed {
		respondProductServiceError(c, productsports.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseCodeParam(c *gin.Context) (string, bool) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		respondError(c, http.StatusBadRequest, productsdomain.ErrEmptyCode)
		return "", false
	}
	return code, true
}
