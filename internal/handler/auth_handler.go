package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/advisor-assessment/internal/middleware"
	"github.com/noah-isme/advisor-assessment/internal/models"
	appErrors "github.com/noah-isme/advisor-assessment/pkg/errors"
	"github.com/noah-isme/advisor-assessment/pkg/session"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error)
	Logout(ctx context.Context, token string)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service      authService
	roles        middleware.RoleResolver
	secureCookie bool
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, roles middleware.RoleResolver, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: svc, roles: roles, secureCookie: secureCookie}
}

// Login godoc
// @Summary Authenticate user
// @Description Verify username and password and start a session cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.LoginResponse
// @Failure 401 {object} models.LoginResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.LoginResponse{Status: "error", Message: "username and password are required"})
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Err != nil {
			_ = c.Error(appErr.Err)
		}
		c.JSON(appErr.Status, models.LoginResponse{Status: "error", Message: appErr.Message})
		return
	}

	session.Set(c, res.Token, h.secureCookie)
	c.JSON(http.StatusOK, models.LoginResponse{Status: "success", Role: res.Role.String()})
}

// Logout godoc
// @Summary End session
// @Tags Authentication
// @Success 204
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.endSession(c)
	c.Status(http.StatusNoContent)
}

// LogoutPage ends the session and returns to the login page.
func (h *AuthHandler) LogoutPage(c *gin.Context) {
	h.endSession(c)
	c.Redirect(http.StatusFound, models.LoginPath)
}

// LoginPage shows the login form, or sends an already signed-in user home.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if home, ok := h.home(c); ok {
		c.Redirect(http.StatusFound, home)
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{"Message": ""})
}

// Root sends visitors to their role's home, or to the login page.
func (h *AuthHandler) Root(c *gin.Context) {
	if home, ok := h.home(c); ok {
		c.Redirect(http.StatusFound, home)
		return
	}
	c.Redirect(http.StatusFound, models.LoginPath)
}

func (h *AuthHandler) home(c *gin.Context) (string, bool) {
	if _, ok := session.Token(c); !ok {
		return "", false
	}
	role, ok := h.roles.Resolve(c.Request.Context())
	if !ok {
		return "", false
	}
	return role.Home(), true
}

func (h *AuthHandler) endSession(c *gin.Context) {
	if token, ok := session.Token(c); ok {
		h.service.Logout(c.Request.Context(), token)
	}
	session.Clear(c, h.secureCookie)
}
