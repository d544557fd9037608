package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/pedidos-api/internal/application/service"
	"github.com/sangkips/pedidos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pedidos-api/internal/presentation/http/dto/response"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles user login
// @Summary Login
// @Description Authenticate user and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Usuario y contraseña son requeridos")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      output.AccessToken,
		"token_type": "Bearer",
		"user": gin.H{
			"id":       output.User.ID,
			"username": output.User.Username,
			"role":     output.User.Role,
		},
	})
}

// Me returns the identity carried by the bearer token
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	response.OK(c, "Authenticated", gin.H{
		"id":       userID,
		"username": GetUsername(c),
		"role":     c.GetString("role"),
	})
}
