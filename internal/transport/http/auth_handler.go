package http

import (
	"net/http"

	"color-quiz-service/internal/app"
	"color-quiz-service/internal/domain"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves admin registration, login and profile lookups.
type AuthHandler struct {
	auth *app.AuthService
}

func NewAuthHandler(auth *app.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=5"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidationError(domain.InvalidRequest, "please provide a valid email and a password of at least 5 characters"))
		return
	}

	token, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"token": token.Token, "isDefaultAdmin": token.IsDefaultAdmin})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidationError(domain.InvalidRequest, "please provide an email and password"))
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"token": token.Token, "isDefaultAdmin": token.IsDefaultAdmin})
}

func (h *AuthHandler) CheckDefaultAdmin(c *gin.Context) {
	state, err := h.auth.CheckDefaultAdmin(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"exists": state.DefaultExists, "otherAdminExists": state.OtherAdminExists})
}

func (h *AuthHandler) Me(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		respondError(c, domain.ErrInvalidToken)
		return
	}
	profile, err := h.auth.Me(c.Request.Context(), admin.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": profile})
}
