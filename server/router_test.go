package orderserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customersmemory "github.com/masayahak/go-order-app/internal/domains/customers/adapters/memory"
	customersapp "github.com/masayahak/go-order-app/internal/domains/customers/application"
	ordersmemory "github.com/masayahak/go-order-app/internal/domains/orders/adapters/memory"
	ordersapp "github.com/masayahak/go-order-app/internal/domains/orders/application"
	productsmemory "github.com/masayahak/go-order-app/internal/domains/products/adapters/memory"
	productsapp "github.com/masayahak/go-order-app/internal/domains/products/application"
	usersmemory "github.com/masayahak/go-order-app/internal/domains/users/adapters/memory"
	usersapp "github.com/masayahak/go-order-app/internal/domains/users/application"
	usersdomain "github.com/masayahak/go-order-app/internal/domains/users/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	users  *usersapp.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	userService := usersapp.NewService(usersmemory.NewRepository(), usersmemory.NewSessionStore(), []byte("router-test-secret"), time.Hour)
	_, err := userService.CreateUser(context.Background(), "admin", "admin-password", usersdomain.RoleAdministrator)
	require.NoError(t, err)
	_, err = userService.CreateUser(context.Background(), "clerk", "clerk-password", usersdomain.RoleUser)
	require.NoError(t, err)

	handlers := ApiHandleFunctions{
		AuthAPI:     NewAuthAPI(userService),
		CustomerAPI: NewCustomerAPI(customersapp.NewService(customersmemory.NewRepository())),
		ProductAPI:  NewProductAPI(productsapp.NewService(productsmemory.NewRepository())),
		OrderAPI:    NewOrderAPI(ordersapp.NewService(ordersmemory.NewRepository())),
	}
	return &testEnv{router: NewRouter(handlers, userService), users: userService}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRouterRunsSuppliedMiddleware(t *testing.T) {
	userService := usersapp.NewService(usersmemory.NewRepository(), usersmemory.NewSessionStore(), []byte("router-test-secret"), time.Hour)
	tagged := func(c *gin.Context) {
		c.Header("X-Tagged", "yes")
		c.Next()
	}
	router := NewRouter(ApiHandleFunctions{}, userService, tagged)

	// Both a bare route and a group-mounted route must carry the middleware:
	// gin snapshots handler chains at registration, so anything added after
	// NewRouter would never run for these.
	for _, path := range []string{"/healthz", "/api/customers"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, "yes", rec.Header().Get("X-Tagged"), path)
	}
}

func TestLoginAndLogout(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/login", "", gin.H{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := env.login(t, "admin", "admin-password")

	rec = env.do(t, http.MethodGet, "/api/customers", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/customers", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/customers", "/api/products", "/api/orders"} {
		rec := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestMasterDataMutationRequiresAdministrator(t *testing.T) {
	env := newTestEnv(t)
	clerk := env.login(t, "clerk", "clerk-password")

	rec := env.do(t, http.MethodPost, "/api/customers", clerk, gin.H{"name": "Acme"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/products", clerk, gin.H{"code": "P-001", "name": "Widget", "unitPrice": 1000})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Reads remain open to any authenticated role.
	rec = env.do(t, http.MethodGet, "/api/products", clerk, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCustomerCRUD(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "admin", "admin-password")

	rec := env.do(t, http.MethodPost, "/api/customers", admin, gin.H{"name": "Acme", "phone": "03-0000-0000"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeJSON[customerResponse](t, rec)
	assert.Equal(t, "Acme", created.Name)
	require.NotNil(t, created.Phone)

	rec = env.do(t, http.MethodPut, "/api/customers/"+itoa(created.ID), admin, gin.H{"name": "Acme Trading", "phone": nil})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeJSON[customerResponse](t, rec)
	assert.Equal(t, "Acme Trading", updated.Name)
	assert.Nil(t, updated.Phone)

	rec = env.do(t, http.MethodGet, "/api/customers/suggest?keyword=Trading", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	suggestions := decodeJSON[[]customerResponse](t, rec)
	require.Len(t, suggestions, 1)

	rec = env.do(t, http.MethodDelete, "/api/customers/"+itoa(created.ID), admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/customers/"+itoa(created.ID), admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductDuplicateCode(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "admin", "admin-password")

	payload := gin.H{"code": "P-001", "name": "Widget", "unitPrice": 1000}
	rec := env.do(t, http.MethodPost, "/api/products", admin, payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/products", admin, payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrderLifecycle(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "admin", "admin-password")

	create := gin.H{
		"customerId":   1,
		"customerName": "Acme",
		"orderDate":    "2026-04-01",
		"details": []gin.H{
			{"productCode": "P-001", "productName": "Widget", "quantity": 2, "unitPrice": 1000},
			{"productCode": "P-002", "productName": "Gadget", "quantity": 3, "unitPrice": 400},
		},
	}
	rec := env.do(t, http.MethodPost, "/api/orders", admin, create)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeJSON[orderResponse](t, rec)
	assert.Equal(t, int64(1), created.Version)
	assert.Equal(t, int64(3200), created.TotalAmount)
	require.Len(t, created.Details, 2)
	assert.Equal(t, int64(2000), created.Details[0].Amount)

	// Replace the lines; the server recomputes amounts and the total.
	update := gin.H{
		"version": created.Version,
		"details": []gin.H{
			{"productCode": "P-001", "productName": "Widget", "quantity": 5, "unitPrice": 1000},
		},
	}
	rec = env.do(t, http.MethodPut, "/api/orders/"+itoa(created.ID), admin, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeJSON[orderResponse](t, rec)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, int64(5000), updated.TotalAmount)
	require.Len(t, updated.Details, 1)

	// Reusing the old version is rejected with a conflict problem.
	rec = env.do(t, http.MethodPut, "/api/orders/"+itoa(created.ID), admin, update)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Delete requires the current version.
	rec = env.do(t, http.MethodDelete, "/api/orders/"+itoa(created.ID)+"?version=1", admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/orders/"+itoa(created.ID)+"?version=2", admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/orders/"+itoa(created.ID), admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderValidationProblems(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "admin", "admin-password")

	rec := env.do(t, http.MethodPost, "/api/orders", admin, gin.H{
		"customerId":   1,
		"customerName": "Acme",
		"orderDate":    "04/01/2026",
		"details":      []gin.H{{"productCode": "P-001", "productName": "Widget", "quantity": 1, "unitPrice": 100}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/orders", admin, gin.H{
		"customerId":   1,
		"customerName": "Acme",
		"orderDate":    "2026-04-01",
		"details":      []gin.H{{"productCode": "P-001", "productName": "Widget", "quantity": 0, "unitPrice": 100}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/orders/5", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing version parameter")
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
