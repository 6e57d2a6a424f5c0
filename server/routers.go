package orderserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersports "github.com/masayahak/go-order-app/internal/domains/users/ports"
)

// ApiHandleFunctions groups the per-context handler structs the router mounts.
type ApiHandleFunctions struct {
	AuthAPI     AuthAPI
	CustomerAPI CustomerAPI
	ProductAPI  ProductAPI
	OrderAPI    OrderAPI
}

// NewRouter mounts all API routes. Everything except login sits behind the
// session middleware; master-data mutations additionally require the
// Administrator role. Extra middleware (tracing, etc.) must be supplied here
// so gin captures it in the handler chains at registration.
func NewRouter(handlers ApiHandleFunctions, users usersports.Service, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.POST("/login", handlers.AuthAPI.Login)

	authed := api.Group("")
	authed.Use(RequireAuth(users))
	authed.POST("/logout", handlers.AuthAPI.Logout)

	customers := authed.Group("/customers")
	customers.GET("", handlers.CustomerAPI.ListCustomers)
	customers.GET("/suggest", handlers.CustomerAPI.SuggestCustomers)
	customers.GET("/:id", handlers.CustomerAPI.GetCustomer)
	customers.POST("", RequireAdministrator(), handlers.CustomerAPI.CreateCustomer)
	customers.PUT("/:id", RequireAdministrator(), handlers.CustomerAPI.UpdateCustomer)
	customers.DELETE("/:id", RequireAdministrator(), handlers.CustomerAPI.DeleteCustomer)

	products := authed.Group("/products")
	products.GET("", handlers.ProductAPI.ListProducts)
	products.GET("/suggest", handlers.ProductAPI.SuggestProducts)
	products.GET("/:code", handlers.ProductAPI.GetProduct)
	products.POST("", RequireAdministrator(), handlers.ProductAPI.CreateProduct)
	products.PUT("/:code", RequireAdministrator(), handlers.ProductAPI.UpdateProduct)
	products.DELETE("/:code", RequireAdministrator(), handlers.ProductAPI.DeleteProduct)

	orders := authed.Group("/orders")
	orders.GET("", handlers.OrderAPI.ListOrders)
	orders.GET("/:id", handlers.OrderAPI.GetOrder)
	orders.POST("", handlers.OrderAPI.CreateOrder)
	orders.PUT("/:id", handlers.OrderAPI.UpdateOrder)
	orders.DELETE("/:id", handlers.OrderAPI.DeleteOrder)

	return router
}
