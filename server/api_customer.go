package orderserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	customersdomain "github.com/masayahak/go-order-app/internal/domains/customers/domain"
	customersports "github.com/masayahak/go-order-app/internal/domains/customers/ports"
	"github.com/masayahak/go-order-app/internal/shared/optional"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

// CustomerAPI wires HTTP transport with the customers bounded context service.
type CustomerAPI struct {
	service customersports.Service
}

// NewCustomerAPI creates a CustomerAPI backed by the provided service.
func NewCustomerAPI(service customersports.Service) CustomerAPI {
	return CustomerAPI{service: service}
}

type customerMutationRequest struct {
	Name  string  `json:"name" binding:"required"`
	Phone *string `json:"phone"`
}

type customerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCustomerResponse(customer *customersdomain.Customer) customerResponse {
	return customerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Phone:     customer.Phone,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}

func toCustomerResponseList(customers []*customersdomain.Customer) []customerResponse {
	out := make([]customerResponse, 0, len(customers))
	for _, customer := range customers {
		out = append(out, toCustomerResponse(customer))
	}
	return out
}

// Get /api/customers
// Paged customer list with optional keyword filter
func (api *CustomerAPI) ListCustomers(c *gin.Context) {
	page, err := api.service.ListCustomersPage(c.Request.Context(), paginationQuery(c))
	if err != nil {
		respondCustomerServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Page[customerResponse]{
		Data:       toCustomerResponseList(page.Data),
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}

// Get /api/customers/suggest
// Type-ahead lookup over name and phone
func (api *CustomerAPI) SuggestCustomers(c *gin.Context) {
	result, err := api.service.SearchCustomers(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		respondCustomerServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponseList(result))
}

// Get /api/customers/:id
func (api *CustomerAPI) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	customer, err := api.service.GetCustomerByID(c.Request.Context(), id)
	if err != nil {
		respondCustomerServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// Post /api/customers
func (api *CustomerAPI) CreateCustomer(c *gin.Context) {
	var payload customerMutationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.CreateCustomer(c.Request.Context(), payload.Name, payload.Phone)
	if err != nil {
		respondCustomerServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomerResponse(saved))
}

// Put /api/customers/:id
// Full-representation update; a null phone clears the stored value
func (api *CustomerAPI) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload customerMutationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	changes := customersdomain.Changes{
		Name:  optional.Of(payload.Name),
		Phone: optional.Of(payload.Phone),
	}
	updated, err := api.service.UpdateCustomer(c.Request.Context(), id, changes)
	if err != nil {
		respondCustomerServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(updated))
}

// Delete /api/customers/:id
func (api *CustomerAPI) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	removed, err := api.service.DeleteCustomer(c.Request.Context(), id)
	if err != nil {
		respondCustomerServiceError(c, err)
		return
	}
	if !removed {
		respondCustomerServiceError(c, customersports.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseIDParam parses a positive int64 path parameter or responds 400.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, errInvalidIDParam(name, raw))
		return 0, false
	}
	return id, true
}

// paginationQuery reads page, pageSize, and keyword query parameters.
// Out-of-range values are normalized by the pagination package.
func paginationQuery(c *gin.Context) pagination.Query {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "0"))
	return pagination.Query{
		Page:     page,
		PageSize: pageSize,
		Keyword:  c.Query("keyword"),
	}
}
