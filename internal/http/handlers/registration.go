package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PelicanED-online/pelicaned-backend/internal/http/response"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/services"
)

type RegistrationHandler struct {
	log           *logger.Logger
	registrations services.RegistrationService
	secureCookie  bool
}

func NewRegistrationHandler(log *logger.Logger, registrations services.RegistrationService, secureCookie bool) *RegistrationHandler {
	return &RegistrationHandler{
		log:           log.With("handler", "RegistrationHandler"),
		registrations: registrations,
		secureCookie:  secureCookie,
	}
}

// POST /api/register
func (h *RegistrationHandler) Register(c *gin.Context) {
	tokenString, err := c.Cookie(InvitationCookie)
	if err != nil || tokenString == "" {
		response.RespondError(c, http.StatusUnauthorized, "invalid_invitation_token", errMissingCookie)
		return
	}
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.registrations.Register(c.Request.Context(), tokenString, req)
	if err != nil {
		response.RespondAPIError(c, err, "registration_failed")
		return
	}
	clearInvitationCookie(c, h.secureCookie)
	response.RespondCreated(c, res)
}
