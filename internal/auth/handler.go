package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/pinmapa/pinmapa-backend/internal/errors"
	"github.com/pinmapa/pinmapa-backend/internal/middleware"
	"github.com/pinmapa/pinmapa-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles HTTP requests related to authentication.
type AuthHandler struct {
	service *AuthService
	logger  *logrus.Logger
	debug   bool
}

// NewAuthHandler creates a new AuthHandler with the given service and logger.
// debug controls whether 500 responses leak the underlying error detail.
func NewAuthHandler(service *AuthService, logger *logrus.Logger, debug bool) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
		debug:   debug,
	}
}

// RegisterAuthRoutes mounts the public and protected auth endpoints.
func RegisterAuthRoutes(handler *AuthHandler, routerGroup *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	authGroup := routerGroup.Group("/auth")
	{
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.GET("/me", requireAuth, handler.Me)
		authGroup.PUT("/profile", requireAuth, handler.UpdateProfile)
	}
}

// Register handles POST /auth/register. A successful registration responds
// with a token right away; no separate login is needed.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// An unparsable body is treated like an empty one.
		utils.RespondAPIError(c, apperrors.ErrMissingFields)
		return
	}

	session, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Usuario registrado exitosamente",
		"token":   session.Token,
		"user":    session.User,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAPIError(c, apperrors.ErrMissingCredentials)
		return
	}

	session, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login exitoso",
		"token":   session.Token,
		"user":    session.User,
	})
}

// Me handles GET /auth/me. The identity was installed by RequireAuth; the
// fresh record is still loaded so the response reflects later profile edits.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.RespondAPIError(c, apperrors.ErrInvalidToken)
		return
	}

	user, err := h.service.CurrentUser(c.Request.Context(), claims.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile handles PUT /auth/profile and returns a replacement token
// reflecting the updated claims.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	claims, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.RespondAPIError(c, apperrors.ErrInvalidToken)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondAPIError(c, apperrors.ErrNothingToUpdate)
		return
	}

	session, err := h.service.UpdateProfile(c.Request.Context(), claims.UserID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Perfil actualizado exitosamente",
		"user":    session.User,
		"token":   session.Token,
	})
}

// respondError maps service failures onto the wire: typed APIErrors keep
// their status and message, anything else becomes a debug-gated 500.
func (h *AuthHandler) respondError(c *gin.Context, err error) {
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		utils.RespondAPIError(c, apiErr)
		return
	}
	h.logger.WithError(err).Error("unexpected auth failure")
	utils.RespondInternalError(c, err, h.debug)
}
