package orderserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	customersapp "github.com/masayahak/go-order-app/internal/domains/customers/application"
	customersports "github.com/masayahak/go-order-app/internal/domains/customers/ports"
	ordersapp "github.com/masayahak/go-order-app/internal/domains/orders/application"
	ordersports "github.com/masayahak/go-order-app/internal/domains/orders/ports"
	productsapp "github.com/masayahak/go-order-app/internal/domains/products/application"
	productsports "github.com/masayahak/go-order-app/internal/domains/products/ports"
	usersapp "github.com/masayahak/go-order-app/internal/domains/users/application"
	apierrors "github.com/masayahak/go-order-app/internal/shared/errors"
)

func errInvalidIDParam(name, raw string) error {
	return errors.New("path parameter " + name + " must be a positive integer, got " + strconv.Quote(raw))
}

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondError converts a status + error pair into an RFC 7807 response.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusUnauthorized:
		problem = apierrors.ErrUnauthorized.WithDetail(err.Error())
	case http.StatusForbidden:
		problem = apierrors.ErrForbidden.WithDetail(err.Error())
	case http.StatusConflict:
		problem = apierrors.ErrConflict.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal
	}
	respondProblem(c, problem)
}

// respondCustomerServiceError maps customer context errors. Store internals
// fall through to a generic 500 without leaking driver details.
func respondCustomerServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, customersapp.ErrInvalidInput):
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
	case errors.Is(err, customersports.ErrNotFound):
		respondProblem(c, apierrors.NewNotFoundProblem("customer", c.Param("id")))
	default:
		respondProblem(c, apierrors.ErrInternal)
	}
}

func respondProductServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, productsapp.ErrInvalidInput):
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
	case errors.Is(err, productsports.ErrNotFound):
		respondProblem(c, apierrors.NewNotFoundProblem("product", c.Param("code")))
	case errors.Is(err, productsports.ErrDuplicateCode):
		respondProblem(c, apierrors.ErrConflict.WithDetail(err.Error()))
	default:
		respondProblem(c, apierrors.ErrInternal)
	}
}

func respondOrderServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ordersapp.ErrInvalidInput):
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
	case errors.Is(err, ordersports.ErrNotFound):
		respondProblem(c, apierrors.NewNotFoundProblem("order", c.Param("id")))
	case errors.Is(err, ordersports.ErrVersionConflict):
		respondProblem(c, apierrors.NewConflictProblem("order", c.Param("id")))
	default:
		respondProblem(c, apierrors.ErrInternal)
	}
}

func respondUserServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usersapp.ErrAuthentication):
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("invalid credentials or session"))
	case errors.Is(err, usersapp.ErrInvalidInput):
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
	default:
		respondProblem(c, apierrors.ErrInternal)
	}
}
