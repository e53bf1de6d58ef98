package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/PelicanED-online/pelicaned-backend/internal/http/response"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/services"
)

type CurriculumHandler struct {
	log        *logger.Logger
	curriculum services.CurriculumService
}

func NewCurriculumHandler(log *logger.Logger, curriculum services.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{log: log.With("handler", "CurriculumHandler"), curriculum: curriculum}
}

// GET /api/subjects
func (h *CurriculumHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.curriculum.ListSubjects(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err, "load_subjects_failed")
		return
	}
	response.RespondOK(c, gin.H{"subjects": subjects})
}

// GET /api/subjects/:id
func (h *CurriculumHandler) GetSubject(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_subject_id")
	if !ok {
		return
	}
	subject, err := h.curriculum.GetSubject(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err, "load_subject_failed")
		return
	}
	response.RespondOK(c, subject)
}

// POST /api/subjects
func (h *CurriculumHandler) CreateSubject(c *gin.Context) {
	var req services.SubjectInput
	if !bindJSON(c, &req) {
		return
	}
	subject, err := h.curriculum.CreateSubject(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err, "create_subject_failed")
		return
	}
	response.RespondCreated(c, subject)
}

// PUT /api/subjects/:id
func (h *CurriculumHandler) UpdateSubject(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_subject_id")
	if !ok {
		return
	}
	var req services.SubjectInput
	if !bindJSON(c, &req) {
		return
	}
	subject, err := h.curriculum.UpdateSubject(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAPIError(c, err, "update_subject_failed")
		return
	}
	response.RespondOK(c, subject)
}

// DELETE /api/subjects/:id
func (h *CurriculumHandler) DeleteSubject(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_subject_id")
	if !ok {
		return
	}
	if err := h.curriculum.DeleteSubject(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err, "delete_subject_failed")
		return
	}
	response.RespondNoContent(c)
}

// PUT /api/subjects/order
func (h *CurriculumHandler) ReorderSubjects(c *gin.Context) {
	var req reorderRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.curriculum.ReorderSubjects(c.Request.Context(), req.IDs); err != nil {
		response.RespondAPIError(c, err, "reorder_subjects_failed")
		return
	}
	response.RespondNoContent(c)
}

// GET /api/subjects/:id/units
func (h *CurriculumHandler) ListUnits(c *gin.Context) {
	subjectID, ok := uuidParam(c, "id", "invalid_subject_id")
	if !ok {
		return
	}
	units, err := h.curriculum.ListUnits(c.Request.Context(), subjectID)
	if err != nil {
		response.RespondAPIError(c, err, "load_units_failed")
		return
	}
	response.RespondOK(c, gin.H{"units": units})
}

// POST /api/subjects/:id/units
func (h *CurriculumHandler) CreateUnit(c *gin.Context) {
	subjectID, ok := uuidParam(c, "id", "invalid_subject_id")
	if !ok {
		return
	}
	var req services.NodeInput
	if !bindJSON(c, &req) {
		return
	}
	unit, err := h.curriculum.CreateUnit(c.Request.Context(), subjectID, req)
	if err != nil {
		response.RespondAPIError(c, err, "create_unit_failed")
		return
	}
	response.RespondCreated(c, unit)
}

// PUT /api/subjects/:id/units/order
func (h *CurriculumHandler) ReorderUnits(c *gin.Context) {
	subjectID, ok := uuidParam(c, "id", "invalid_subject_id")
	if !ok {
		return
	}
	var req reorderRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.curriculum.ReorderUnits(c.Request.Context(), subjectID, req.IDs); err != nil {
		response.RespondAPIError(c, err, "reorder_units_failed")
		return
	}
	response.RespondNoContent(c)
}

// GET /api/units/:id
func (h *CurriculumHandler) GetUnit(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_unit_id")
	if !ok {
		return
	}
	unit, err := h.curriculum.GetUnit(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err, "load_unit_failed")
		return
	}
	response.RespondOK(c, unit)
}

// PUT /api/units/:id
func (h *CurriculumHandler) UpdateUnit(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_unit_id")
	if !ok {
		return
	}
	var req services.NodeInput
	if !bindJSON(c, &req) {
		return
	}
	unit, err := h.curriculum.UpdateUnit(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAPIError(c, err, "update_unit_failed")
		return
	}
	response.RespondOK(c, unit)
}

// DELETE /api/units/:id
func (h *CurriculumHandler) DeleteUnit(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_unit_id")
	if !ok {
		return
	}
	if err := h.curriculum.DeleteUnit(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err, "delete_unit_failed")
		return
	}
	response.RespondNoContent(c)
}

// GET /api/units/:id/chapters
func (h *CurriculumHandler) ListChapters(c *gin.Context) {
	unitID, ok := uuidParam(c, "id", "invalid_unit_id")
	if !ok {
		return
	}
	chapters, err := h.curriculum.ListChapters(c.Request.Context(), unitID)
	if err != nil {
		response.RespondAPIError(c, err, "load_chapters_failed")
		return
	}
	response.RespondOK(c, gin.H{"chapters": chapters})
}

// POST /api/units/:id/chapters
func (h *CurriculumHandler) CreateChapter(c *gin.Context) {
	unitID, ok := uuidParam(c, "id", "invalid_unit_id")
	if !ok {
		return
	}
	var req services.NodeInput
	if !bindJSON(c, &req) {
		return
	}
	chapter, err := h.curriculum.CreateChapter(c.Request.Context(), unitID, req)
	if err != nil {
		response.RespondAPIError(c, err, "create_chapter_failed")
		return
	}
	response.RespondCreated(c, chapter)
}

// PUT /api/units/:id/chapters/order
func (h *CurriculumHandler) ReorderChapters(c *gin.Context) {
	unitID, ok := uuidParam(c, "id", "invalid_unit_id")
	if !ok {
		return
	}
	var req reorderRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.curriculum.ReorderChapters(c.Request.Context(), unitID, req.IDs); err != nil {
		response.RespondAPIError(c, err, "reorder_chapters_failed")
		return
	}
	response.RespondNoContent(c)
}

// GET /api/chapters/:id
func (h *CurriculumHandler) GetChapter(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_chapter_id")
	if !ok {
		return
	}
	chapter, err := h.curriculum.GetChapter(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err, "load_chapter_failed")
		return
	}
	response.RespondOK(c, chapter)
}

// PUT /api/chapters/:id
func (h *CurriculumHandler) UpdateChapter(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_chapter_id")
	if !ok {
		return
	}
	var req services.NodeInput
	if !bindJSON(c, &req) {
		return
	}
	chapter, err := h.curriculum.UpdateChapter(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAPIError(c, err, "update_chapter_failed")
		return
	}
	response.RespondOK(c, chapter)
}

// DELETE /api/chapters/:id
func (h *CurriculumHandler) DeleteChapter(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_chapter_id")
	if !ok {
		return
	}
	if err := h.curriculum.DeleteChapter(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err, "delete_chapter_failed")
		return
	}
	response.RespondNoContent(c)
}

// GET /api/chapters/:id/lessons
func (h *CurriculumHandler) ListLessons(c *gin.Context) {
	chapterID, ok := uuidParam(c, "id", "invalid_chapter_id")
	if !ok {
		return
	}
	lessons, err := h.curriculum.ListLessons(c.Request.Context(), chapterID)
	if err != nil {
		response.RespondAPIError(c, err, "load_lessons_failed")
		return
	}
	response.RespondOK(c, gin.H{"lessons": lessons})
}

// POST /api/chapters/:id/lessons
func (h *CurriculumHandler) CreateLesson(c *gin.Context) {
	chapterID, ok := uuidParam(c, "id", "invalid_chapter_id")
	if !ok {
		return
	}
	var req services.NodeInput
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.curriculum.CreateLesson(c.Request.Context(), chapterID, req)
	if err != nil {
		response.RespondAPIError(c, err, "create_lesson_failed")
		return
	}
	response.RespondCreated(c, lesson)
}

// PUT /api/chapters/:id/lessons/order
func (h *CurriculumHandler) ReorderLessons(c *gin.Context) {
	chapterID, ok := uuidParam(c, "id", "invalid_chapter_id")
	if !ok {
		return
	}
	var req reorderRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.curriculum.ReorderLessons(c.Request.Context(), chapterID, req.IDs); err != nil {
		response.RespondAPIError(c, err, "reorder_lessons_failed")
		return
	}
	response.RespondNoContent(c)
}

// GET /api/lessons/:id
func (h *CurriculumHandler) GetLesson(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_lesson_id")
	if !ok {
		return
	}
	lesson, err := h.curriculum.GetLesson(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err, "load_lesson_failed")
		return
	}
	response.RespondOK(c, lesson)
}

// PUT /api/lessons/:id
func (h *CurriculumHandler) UpdateLesson(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_lesson_id")
	if !ok {
		return
	}
	var req services.NodeInput
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.curriculum.UpdateLesson(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAPIError(c, err, "update_lesson_failed")
		return
	}
	response.RespondOK(c, lesson)
}

// DELETE /api/lessons/:id
func (h *CurriculumHandler) DeleteLesson(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_lesson_id")
	if !ok {
		return
	}
	if err := h.curriculum.DeleteLesson(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err, "delete_lesson_failed")
		return
	}
	response.RespondNoContent(c)
}
