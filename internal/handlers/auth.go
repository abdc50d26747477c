package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"buyer-lead-portal/internal/auth"
	"buyer-lead-portal/internal/buyers"
	"buyer-lead-portal/internal/models"
)

// AuthHandler handles magic-link issuance and verification
type AuthHandler struct {
	manager *auth.Manager
	store   buyers.Store
	devMode bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(manager *auth.Manager, store buyers.Store, devMode bool) *AuthHandler {
	return &AuthHandler{manager: manager, store: store, devMode: devMode}
}

type magicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// MagicLink handles POST /api/auth/magic-link. The link is logged rather
// than mailed; in dev mode the token is also returned in the response so
// the flow can be exercised without an inbox.
func (h *AuthHandler) MagicLink(c *gin.Context) {
	var req magicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email is required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	token, err := h.manager.GenerateMagicLink(c.Request.Context(), email)
	if err != nil {
		renderError(c, err)
		return
	}

	log.Printf("Auth: Magic link for %s: /api/auth/verify?token=%s", email, token)

	resp := gin.H{"message": "Magic link sent"}
	if h.devMode {
		resp["token"] = token
	}
	c.JSON(http.StatusOK, resp)
}

// Verify handles GET /api/auth/verify?token=...; a valid single-use
// token is exchanged for a JWT. The user row is created on first login.
func (h *AuthHandler) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	email, ok, err := h.manager.ConsumeMagicLink(c.Request.Context(), token)
	if err != nil {
		renderError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	user, err := h.findOrCreateUser(email)
	if err != nil {
		renderError(c, err)
		return
	}

	jwt, err := h.manager.GenerateJWT(user.ID, user.Email)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": jwt,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":    c.GetString("userID"),
		"email": c.GetString("userEmail"),
	})
}

func (h *AuthHandler) findOrCreateUser(email string) (*models.User, error) {
	user, err := h.store.GetUserByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, buyers.ErrNotFound) {
		return nil, err
	}

	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	user = &models.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
	}
	if err := h.store.EnsureUser(user); err != nil {
		return nil, err
	}
	return user, nil
}
