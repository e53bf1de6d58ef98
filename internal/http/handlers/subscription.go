package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/PelicanED-online/pelicaned-backend/internal/http/response"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/services"
)

type SubscriptionHandler struct {
	log           *logger.Logger
	subscriptions services.SubscriptionService
}

func NewSubscriptionHandler(log *logger.Logger, subscriptions services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{log: log.With("handler", "SubscriptionHandler"), subscriptions: subscriptions}
}

// GET /api/districts/:id/subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	districtID, ok := uuidParam(c, "id", "invalid_district_id")
	if !ok {
		return
	}
	subs, err := h.subscriptions.List(c.Request.Context(), districtID)
	if err != nil {
		response.RespondAPIError(c, err, "load_subscriptions_failed")
		return
	}
	response.RespondOK(c, gin.H{"subscriptions": subs})
}

// POST /api/districts/:id/subscriptions
func (h *SubscriptionHandler) Create(c *gin.Context) {
	districtID, ok := uuidParam(c, "id", "invalid_district_id")
	if !ok {
		return
	}
	var req services.SubscriptionInput
	if !bindJSON(c, &req) {
		return
	}
	sub, err := h.subscriptions.Create(c.Request.Context(), districtID, req)
	if err != nil {
		response.RespondAPIError(c, err, "create_subscription_failed")
		return
	}
	response.RespondCreated(c, sub)
}

// GET /api/subscriptions/:id
func (h *SubscriptionHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_subscription_id")
	if !ok {
		return
	}
	sub, err := h.subscriptions.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err, "load_subscription_failed")
		return
	}
	response.RespondOK(c, sub)
}

// PUT /api/subscriptions/:id
func (h *SubscriptionHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_subscription_id")
	if !ok {
		return
	}
	var req services.SubscriptionInput
	if !bindJSON(c, &req) {
		return
	}
	sub, err := h.subscriptions.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAPIError(c, err, "update_subscription_failed")
		return
	}
	response.RespondOK(c, sub)
}

// DELETE /api/subscriptions/:id
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_subscription_id")
	if !ok {
		return
	}
	if err := h.subscriptions.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err, "delete_subscription_failed")
		return
	}
	response.RespondNoContent(c)
}
