package orderserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	ordersdomain "github.com/masayahak/go-order-app/internal/domains/orders/domain"
	ordersports "github.com/masayahak/go-order-app/internal/domains/orders/ports"
	"github.com/masayahak/go-order-app/internal/shared/optional"
	"github.com/masayahak/go-order-app/internal/shared/pagination"
)

const dateLayout = "2006-01-02"

// OrderAPI wires HTTP transport with the orders bounded context service.
type OrderAPI struct {
	service ordersports.Service
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service ordersports.Service) OrderAPI {
	return OrderAPI{service: service}
}

type orderDetailRequest struct {
	ProductCode string `json:"productCode" binding:"required"`
	ProductName string `json:"productName" binding:"required"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
}

type orderCreateRequest struct {
	CustomerID   int64                `json:"customerId" binding:"required"`
	CustomerName string               `json:"customerName" binding:"required"`
	OrderDate    string               `json:"orderDate" binding:"required"`
	Details      []orderDetailRequest `json:"details" binding:"required"`
}

type orderUpdateRequest struct {
	CustomerID   *int64                `json:"customerId"`
	CustomerName *string               `json:"customerName"`
	OrderDate    *string               `json:"orderDate"`
	Version      *int64                `json:"version" binding:"required"`
	Details      *[]orderDetailRequest `json:"details"`
}

type orderDetailResponse struct {
	ID          int64  `json:"id"`
	ProductCode string `json:"productCode"`
	ProductName string `json:"productName"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
	Amount      int64  `json:"amount"`
}

type orderResponse struct {
	ID           int64                 `json:"id"`
	CustomerID   int64                 `json:"customerId"`
	CustomerName string                `json:"customerName"`
	OrderDate    string                `json:"orderDate"`
	TotalAmount  int64                 `json:"totalAmount"`
	Version      int64                 `json:"version"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
	Details      []orderDetailResponse `json:"details,omitempty"`
}

func toOrderResponse(order *ordersdomain.Order) orderResponse {
	details := make([]orderDetailResponse, 0, len(order.Details))
	for _, detail := range order.Details {
		details = append(details, orderDetailResponse{
			ID:          detail.ID,
			ProductCode: detail.ProductCode,
			ProductName: detail.ProductName,
			Quantity:    detail.Quantity,
			UnitPrice:   detail.UnitPrice,
			Amount:      detail.Amount,
		})
	}
	return orderResponse{
		ID:           order.ID,
		CustomerID:   order.CustomerID,
		CustomerName: order.CustomerName,
		OrderDate:    order.OrderDate.Format(dateLayout),
		TotalAmount:  order.TotalAmount,
		Version:      order.Version,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
		Details:      details,
	}
}

func toOrderResponseList(orders []*ordersdomain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}
	return out
}

// toDomainDetails computes line amounts from quantity and unit price.
func toDomainDetails(requests []orderDetailRequest) []ordersdomain.Detail {
	details := make([]ordersdomain.Detail, 0, len(requests))
	for _, req := range requests {
		details = append(details, ordersdomain.Detail{
			ProductCode: req.ProductCode,
			ProductName: req.ProductName,
			Quantity:    req.Quantity,
			UnitPrice:   req.UnitPrice,
			Amount:      ordersdomain.Amount(req.Quantity, req.UnitPrice),
		})
	}
	return details
}

func detailsTotal(details []ordersdomain.Detail) int64 {
	var total int64
	for _, detail := range details {
		total += detail.Amount
	}
	return total
}

// Get /api/orders
// Paged order list; accepts page, pageSize, keyword, dateFrom, dateTo
func (api *OrderAPI) ListOrders(c *gin.Context) {
	dates, err := dateRangeQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	page, err := api.service.ListOrdersPage(c.Request.Context(), paginationQuery(c), dates)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.Page[orderResponse]{
		Data:       toOrderResponseList(page.Data),
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}

// Get /api/orders/:id
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Post /api/orders
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload orderCreateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	orderDate, err := time.Parse(dateLayout, payload.OrderDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, errors.New("orderDate must be formatted as "+dateLayout))
		return
	}
	details := toDomainDetails(payload.Details)
	order := &ordersdomain.Order{
		CustomerID:   payload.CustomerID,
		CustomerName: payload.CustomerName,
		OrderDate:    orderDate,
		TotalAmount:  detailsTotal(details),
	}
	if identity, ok := identityFrom(c); ok {
		order.CreatedBy = &identity.UserID
	}
	saved, err := api.service.CreateOrder(c.Request.Context(), order, details)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(saved))
}

// Put /api/orders/:id
// Optimistic update; version is required, a null details field keeps the
// existing lines while an empty array clears them
func (api *OrderAPI) UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload orderUpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	changes := ordersdomain.Changes{
		CustomerID:   optional.FromPtr(payload.CustomerID),
		CustomerName: optional.FromPtr(payload.CustomerName),
		Version:      optional.FromPtr(payload.Version),
	}
	if payload.OrderDate != nil {
		orderDate, err := time.Parse(dateLayout, *payload.OrderDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, errors.New("orderDate must be formatted as "+dateLayout))
			return
		}
		changes.OrderDate = optional.Of(orderDate)
	}
	var details []ordersdomain.Detail
	if payload.Details != nil {
		details = toDomainDetails(*payload.Details)
		if details == nil {
			details = []ordersdomain.Detail{}
		}
		changes.TotalAmount = optional.Of(detailsTotal(details))
	}
	updated, err := api.service.UpdateOrder(c.Request.Context(), id, changes, details)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(updated))
}

// Delete /api/orders/:id
// Requires the caller's last-seen version as a query parameter
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	version, err := strconv.ParseInt(c.Query("version"), 10, 64)
	if err != nil || version <= 0 {
		respondError(c, http.StatusBadRequest, errors.New("version query parameter must be a positive integer"))
		return
	}
	removed, err := api.service.DeleteOrder(c.Request.Context(), id, version)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	if !removed {
		// Vanished row and stale version are indistinguishable here.
		respondOrderServiceError(c, ordersports.ErrVersionConflict)
		return
	}
	c.Status(http.StatusNoContent)
}

func dateRangeQuery(c *gin.Context) (ordersports.DateRange, error) {
	var dates ordersports.DateRange
	if raw := c.Query("dateFrom"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			return dates, errors.New("dateFrom must be formatted as " + dateLayout)
		}
		dates.From = &from
	}
	if raw := c.Query("dateTo"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			return dates, errors.New("dateTo must be formatted as " + dateLayout)
		}
		dates.To = &to
	}
	return dates, nil
}
