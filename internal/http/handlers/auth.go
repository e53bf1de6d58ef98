package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PelicanED-online/pelicaned-backend/internal/http/response"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

// POST /api/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	pair, err := ah.authService.Login(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err, "login_failed")
		return
	}
	respondTokens(c, pair, ah.authService)
}

// POST /api/refresh
func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.RefreshToken == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errMissingRefresh)
		return
	}
	pair, err := ah.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.RespondAPIError(c, err, "refresh_failed")
		return
	}
	respondTokens(c, pair, ah.authService)
}

// POST /api/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		response.RespondAPIError(c, err, "logout_failed")
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/me
func (ah *AuthHandler) Me(c *gin.Context) {
	me, err := ah.authService.Me(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err, "load_me_failed")
		return
	}
	response.RespondOK(c, me)
}

func respondTokens(c *gin.Context, pair *services.TokenPair, auth services.AuthService) {
	response.RespondOK(c, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    int(auth.AccessTTL().Seconds()),
	})
}
