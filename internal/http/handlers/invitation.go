package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PelicanED-online/pelicaned-backend/internal/http/response"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/services"
)

const InvitationCookie = "invitation_token"

type InvitationHandler struct {
	log          *logger.Logger
	invitations  services.InvitationService
	secureCookie bool
}

func NewInvitationHandler(log *logger.Logger, invitations services.InvitationService, secureCookie bool) *InvitationHandler {
	return &InvitationHandler{
		log:          log.With("handler", "InvitationHandler"),
		invitations:  invitations,
		secureCookie: secureCookie,
	}
}

// POST /api/invitations/validate
// The token only travels in the cookie; the body carries the outcome.
func (h *InvitationHandler) Validate(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if !bindJSON(c, &req) {
		return
	}
	res, tok, err := h.invitations.Validate(c.Request.Context(), req.Code)
	if err != nil {
		response.RespondAPIError(c, err, "validation_failed")
		return
	}
	if res.Valid && tok != nil {
		setInvitationCookie(c, tok.Value, int(h.invitations.TokenTTL().Seconds()), h.secureCookie)
	}
	response.RespondOK(c, res)
}

// GET /api/invitations/schools
func (h *InvitationHandler) Schools(c *gin.Context) {
	tokenString, err := c.Cookie(InvitationCookie)
	if err != nil || tokenString == "" {
		response.RespondError(c, http.StatusUnauthorized, "invalid_invitation_token", errMissingCookie)
		return
	}
	schools, err := h.invitations.Schools(c.Request.Context(), tokenString)
	if err != nil {
		response.RespondAPIError(c, err, "load_schools_failed")
		return
	}
	response.RespondOK(c, gin.H{"schools": schools})
}

// GET /api/invitation-codes
func (h *InvitationHandler) ListCodes(c *gin.Context) {
	codes, err := h.invitations.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err, "load_codes_failed")
		return
	}
	response.RespondOK(c, gin.H{"codes": codes})
}

// POST /api/invitation-codes
func (h *InvitationHandler) CreateCode(c *gin.Context) {
	var req services.CreateInvitationInput
	if !bindJSON(c, &req) {
		return
	}
	code, err := h.invitations.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err, "create_code_failed")
		return
	}
	response.RespondCreated(c, code)
}

// DELETE /api/invitation-codes/:id
func (h *InvitationHandler) DeleteCode(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_code_id")
	if !ok {
		return
	}
	if err := h.invitations.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err, "delete_code_failed")
		return
	}
	response.RespondNoContent(c)
}

func setInvitationCookie(c *gin.Context, value string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(InvitationCookie, value, maxAge, "/", "", secure, true)
}

func clearInvitationCookie(c *gin.Context, secure bool) {
	setInvitationCookie(c, "", -1, secure)
}
