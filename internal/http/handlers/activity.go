package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/http/response"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/apierr"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/services"
)

type ActivityHandler struct {
	log        *logger.Logger
	activities services.ActivityService
}

func NewActivityHandler(log *logger.Logger, activities services.ActivityService) *ActivityHandler {
	return &ActivityHandler{log: log.With("handler", "ActivityHandler"), activities: activities}
}

// saveActivitiesRequest nests each activity's children with their details so new rows need no ids.
type saveActivitiesRequest struct {
	Activities []activityPayload `json:"activities"`
}

type activityPayload struct {
	ID        *uuid.UUID          `json:"activity_id"`
	Name      string              `json:"name"`
	Published types.Published     `json:"published"`
	Types     []activityTypeInput `json:"activity_types"`
}

type activityTypeInput struct {
	ID     *uuid.UUID      `json:"id"`
	Type   types.Kind      `json:"type"`
	Detail json.RawMessage `json:"detail"`
}

// toLessonActivities assigns ids to new rows and decodes every detail by its kind.
func (h *ActivityHandler) toLessonActivities(lessonID uuid.UUID, req saveActivitiesRequest) (*services.LessonActivities, error) {
	out := &services.LessonActivities{
		LessonID:      lessonID,
		Activities:    make([]*types.Activity, 0, len(req.Activities)),
		ActivityTypes: make(map[uuid.UUID][]types.ActivityType, len(req.Activities)),
		Details:       map[uuid.UUID]types.Content{},
	}
	for i, p := range req.Activities {
		a := &types.Activity{ID: uuid.New(), LessonID: lessonID, Name: p.Name, Published: p.Published}
		if p.ID != nil && *p.ID != uuid.Nil {
			a.ID = *p.ID
		}
		out.Activities = append(out.Activities, a)

		children := make([]types.ActivityType, 0, len(p.Types))
		for j, t := range p.Types {
			detail, err := h.activities.DecodeDetail(t.Type, t.Detail)
			if err != nil {
				if ae, ok := apierr.As(err); ok {
					return nil, apierr.New(ae.Status, ae.Code, fmt.Errorf("activity %d child %d: %w", i, j, ae.Err))
				}
				return nil, err
			}
			id := uuid.New()
			if t.ID != nil && *t.ID != uuid.Nil {
				id = *t.ID
			}
			if _, dup := out.Details[id]; dup {
				return nil, apierr.BadRequest("invalid_activity_type", fmt.Sprintf("duplicate activity type id %s", id))
			}
			out.Details[id] = detail
			children = append(children, types.ActivityType{ID: id, ActivityID: a.ID, Type: t.Type, Order: j})
		}
		out.ActivityTypes[a.ID] = children
	}
	return out, nil
}

// GET /api/lessons/:id/activities
func (h *ActivityHandler) GetLessonActivities(c *gin.Context) {
	lessonID, ok := uuidParam(c, "id", "invalid_lesson_id")
	if !ok {
		return
	}
	out, err := h.activities.LoadLesson(c.Request.Context(), lessonID)
	if err != nil {
		response.RespondAPIError(c, err, "load_activities_failed")
		return
	}
	response.RespondOK(c, out)
}

// PUT /api/lessons/:id/activities
func (h *ActivityHandler) SaveLessonActivities(c *gin.Context) {
	lessonID, ok := uuidParam(c, "id", "invalid_lesson_id")
	if !ok {
		return
	}
	var req saveActivitiesRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := h.toLessonActivities(lessonID, req)
	if err != nil {
		response.RespondAPIError(c, err, "save_activities_failed")
		return
	}
	out, err := h.activities.SaveLesson(c.Request.Context(), lessonID, in)
	if err != nil {
		response.RespondAPIError(c, err, "save_activities_failed")
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/activities/:id
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	activityID, ok := uuidParam(c, "id", "invalid_activity_id")
	if !ok {
		return
	}
	if err := h.activities.DeleteActivity(c.Request.Context(), activityID); err != nil {
		response.RespondAPIError(c, err, "delete_activity_failed")
		return
	}
	response.RespondNoContent(c)
}

// POST /api/activities/validate
func (h *ActivityHandler) ValidateDetail(c *gin.Context) {
	var req activityTypeInput
	if !bindJSON(c, &req) {
		return
	}
	detail, err := h.activities.DecodeDetail(req.Type, req.Detail)
	if err == nil {
		err = h.activities.ValidateDetail(detail)
	}
	if err != nil {
		if ae, ok := apierr.As(err); ok && ae.Status == http.StatusBadRequest {
			response.RespondOK(c, gin.H{"valid": false, "message": ae.Error(), "code": ae.Code})
			return
		}
		response.RespondAPIError(c, err, "validate_failed")
		return
	}
	response.RespondOK(c, gin.H{"valid": true})
}
