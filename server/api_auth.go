package orderserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersports "github.com/masayahak/go-order-app/internal/domains/users/ports"
)

// AuthAPI wires HTTP transport with the users bounded context service.
type AuthAPI struct {
	service usersports.Service
}

// NewAuthAPI creates an AuthAPI backed by the provided service.
func NewAuthAPI(service usersports.Service) AuthAPI {
	return AuthAPI{service: service}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Post /api/login
func (api *AuthAPI) Login(c *gin.Context) {
	var payload loginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	token, err := api.service.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondUserServiceError(c, err)
		return
	}
	identity, err := api.service.Authenticate(c.Request.Context(), token)
	if err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.SetCookie(sessionCookieName, token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, loginResponse{
		Token:    token,
		Username: identity.Username,
		Role:     string(identity.Role),
	})
}

// Post /api/logout
func (api *AuthAPI) Logout(c *gin.Context) {
	token := extractToken(c)
	if token != "" {
		if err := api.service.Logout(c.Request.Context(), token); err != nil {
			respondUserServiceError(c, err)
			return
		}
	}
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}
