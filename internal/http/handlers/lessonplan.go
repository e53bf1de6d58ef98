package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/PelicanED-online/pelicaned-backend/internal/http/response"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/services"
)

type LessonPlanHandler struct {
	log   *logger.Logger
	plans services.LessonPlanService
}

func NewLessonPlanHandler(log *logger.Logger, plans services.LessonPlanService) *LessonPlanHandler {
	return &LessonPlanHandler{log: log.With("handler", "LessonPlanHandler"), plans: plans}
}

// GET /api/lessons/:id/plan
func (h *LessonPlanHandler) GetPlan(c *gin.Context) {
	lessonID, ok := uuidParam(c, "id", "invalid_lesson_id")
	if !ok {
		return
	}
	plan, err := h.plans.GetPlan(c.Request.Context(), lessonID)
	if err != nil {
		response.RespondAPIError(c, err, "load_plan_failed")
		return
	}
	response.RespondOK(c, plan)
}

// PUT /api/lessons/:id/plan
func (h *LessonPlanHandler) UpdatePlan(c *gin.Context) {
	lessonID, ok := uuidParam(c, "id", "invalid_lesson_id")
	if !ok {
		return
	}
	var req services.LessonPlanInput
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.plans.UpdatePlan(c.Request.Context(), lessonID, req)
	if err != nil {
		response.RespondAPIError(c, err, "update_plan_failed")
		return
	}
	response.RespondOK(c, plan)
}

// POST /api/lessons/:id/plan/sections
func (h *LessonPlanHandler) CreateSection(c *gin.Context) {
	lessonID, ok := uuidParam(c, "id", "invalid_lesson_id")
	if !ok {
		return
	}
	var req services.SectionInput
	if !bindJSON(c, &req) {
		return
	}
	section, err := h.plans.CreateSection(c.Request.Context(), lessonID, req)
	if err != nil {
		response.RespondAPIError(c, err, "create_section_failed")
		return
	}
	response.RespondCreated(c, section)
}

// PUT /api/lessons/:id/plan/sections/order
func (h *LessonPlanHandler) ReorderSections(c *gin.Context) {
	lessonID, ok := uuidParam(c, "id", "invalid_lesson_id")
	if !ok {
		return
	}
	var req reorderRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.plans.ReorderSections(c.Request.Context(), lessonID, req.IDs); err != nil {
		response.RespondAPIError(c, err, "reorder_sections_failed")
		return
	}
	response.RespondNoContent(c)
}

// PUT /api/sections/:id
func (h *LessonPlanHandler) UpdateSection(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_section_id")
	if !ok {
		return
	}
	var req services.SectionInput
	if !bindJSON(c, &req) {
		return
	}
	section, err := h.plans.UpdateSection(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAPIError(c, err, "update_section_failed")
		return
	}
	response.RespondOK(c, section)
}

// DELETE /api/sections/:id
func (h *LessonPlanHandler) DeleteSection(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_section_id")
	if !ok {
		return
	}
	if err := h.plans.DeleteSection(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err, "delete_section_failed")
		return
	}
	response.RespondNoContent(c)
}

// POST /api/sections/:id/directions
func (h *LessonPlanHandler) CreateDirection(c *gin.Context) {
	sectionID, ok := uuidParam(c, "id", "invalid_section_id")
	if !ok {
		return
	}
	var req services.DirectionInput
	if !bindJSON(c, &req) {
		return
	}
	direction, err := h.plans.CreateDirection(c.Request.Context(), sectionID, req)
	if err != nil {
		response.RespondAPIError(c, err, "create_direction_failed")
		return
	}
	response.RespondCreated(c, direction)
}

// PUT /api/sections/:id/directions/order
func (h *LessonPlanHandler) ReorderDirections(c *gin.Context) {
	sectionID, ok := uuidParam(c, "id", "invalid_section_id")
	if !ok {
		return
	}
	var req reorderRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.plans.ReorderDirections(c.Request.Context(), sectionID, req.IDs); err != nil {
		response.RespondAPIError(c, err, "reorder_directions_failed")
		return
	}
	response.RespondNoContent(c)
}

// PUT /api/directions/:id
func (h *LessonPlanHandler) UpdateDirection(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_direction_id")
	if !ok {
		return
	}
	var req services.DirectionInput
	if !bindJSON(c, &req) {
		return
	}
	direction, err := h.plans.UpdateDirection(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAPIError(c, err, "update_direction_failed")
		return
	}
	response.RespondOK(c, direction)
}

// DELETE /api/directions/:id
func (h *LessonPlanHandler) DeleteDirection(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_direction_id")
	if !ok {
		return
	}
	if err := h.plans.DeleteDirection(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err, "delete_direction_failed")
		return
	}
	response.RespondNoContent(c)
}

// GET /api/section-names
func (h *LessonPlanHandler) ListSectionNames(c *gin.Context) {
	names, err := h.plans.ListSectionNames(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err, "load_section_names_failed")
		return
	}
	response.RespondOK(c, gin.H{"section_names": names})
}

// POST /api/section-names
func (h *LessonPlanHandler) CreateSectionName(c *gin.Context) {
	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}
	name, err := h.plans.CreateSectionName(c.Request.Context(), req.Name)
	if err != nil {
		response.RespondAPIError(c, err, "create_section_name_failed")
		return
	}
	response.RespondCreated(c, name)
}

// GET /api/focuses
func (h *LessonPlanHandler) ListFocuses(c *gin.Context) {
	focuses, err := h.plans.ListFocuses(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err, "load_focuses_failed")
		return
	}
	response.RespondOK(c, gin.H{"focuses": focuses})
}

// POST /api/focuses
func (h *LessonPlanHandler) CreateFocus(c *gin.Context) {
	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}
	focus, err := h.plans.CreateFocus(c.Request.Context(), req.Name)
	if err != nil {
		response.RespondAPIError(c, err, "create_focus_failed")
		return
	}
	response.RespondCreated(c, focus)
}
