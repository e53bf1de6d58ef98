package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos"
	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos/testutil"
	"github.com/PelicanED-online/pelicaned-backend/internal/observability"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/media"
	"github.com/PelicanED-online/pelicaned-backend/internal/services"
)

type activityWire struct {
	LessonID      uuid.UUID                             `json:"lesson_id"`
	Activities    []map[string]any                      `json:"activities"`
	ActivityTypes map[string][]map[string]any           `json:"activity_types"`
	Details       map[string]map[string]json.RawMessage `json:"details"`
}

func newActivityRouter(t *testing.T) (*gin.Engine, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	lesson := testutil.SeedLesson(t, context.Background(), db)
	svc := services.NewActivityService(
		db,
		log,
		repos.NewLessonRepo(db, log),
		repos.NewActivityRepo(db, log),
		repos.NewContentRepos(db, log),
		repos.NewDirectionRepo(db, log),
		media.NewMemoryStore("http://media.test", time.Hour),
		observability.NewMetrics(),
	)
	h := NewActivityHandler(log, svc)
	r := gin.New()
	r.GET("/api/lessons/:id/activities", h.GetLessonActivities)
	r.PUT("/api/lessons/:id/activities", h.SaveLessonActivities)
	r.DELETE("/api/activities/:id", h.DeleteActivity)
	r.POST("/api/activities/validate", h.ValidateDetail)
	return r, lesson.ID
}

func TestSaveAndLoadLessonActivities(t *testing.T) {
	r, lessonID := newActivityRouter(t)
	path := "/api/lessons/" + lessonID.String() + "/activities"

	payload := gin.H{"activities": []gin.H{
		{"name": "Warm up", "published": "Yes", "activity_types": []gin.H{
			{"type": "reading", "detail": gin.H{"title": "Rivers", "body": "Rivers shape cities."}},
			{"type": "vocabulary", "detail": gin.H{"items": []gin.H{
				{"word": "delta", "definition": "river mouth"},
				{"word": "basin", "definition": "drained area"},
			}}},
		}},
		{"name": "Check", "activity_types": []gin.H{
			{"type": "question", "detail": gin.H{
				"question_text": "Which river?",
				"question_type": "multiple_choice",
				"answerOptions": []gin.H{{"text": "Nile", "correct": true}, {"text": "Amazon"}},
			}},
		}},
	}}
	rec := doJSON(t, r, http.MethodPut, path, payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("save = %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodGet, path, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("load = %d %s", rec.Code, rec.Body.String())
	}
	var got activityWire
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Activities) != 2 {
		t.Fatalf("activities = %d", len(got.Activities))
	}
	if got.Activities[0]["name"] != "Warm up" || got.Activities[0]["order"] != float64(1) || got.Activities[1]["order"] != float64(2) {
		t.Fatalf("activities = %v", got.Activities)
	}
	first := got.Activities[0]["activity_id"].(string)
	children := got.ActivityTypes[first]
	if len(children) != 2 || children[0]["type"] != "reading" || children[1]["type"] != "vocabulary" {
		t.Fatalf("children = %v", children)
	}
	if len(got.Details) != 3 {
		t.Fatalf("details = %d", len(got.Details))
	}
}

func TestSaveLessonActivitiesRejectsBadDetails(t *testing.T) {
	r, lessonID := newActivityRouter(t)
	path := "/api/lessons/" + lessonID.String() + "/activities"

	cases := []struct {
		name    string
		payload gin.H
	}{
		{"unknown kind", gin.H{"activities": []gin.H{{"activity_types": []gin.H{{"type": "poem", "detail": gin.H{}}}}}}},
		{"missing detail", gin.H{"activities": []gin.H{{"activity_types": []gin.H{{"type": "reading"}}}}}},
		{"one option", gin.H{"activities": []gin.H{{"activity_types": []gin.H{{"type": "question", "detail": gin.H{
			"question_text": "Q", "question_type": "multiple_choice", "answerOptions": []gin.H{{"text": "A", "correct": true}},
		}}}}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := doJSON(t, r, http.MethodPut, path, tc.payload); rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
			}
		})
	}

	rec := doJSON(t, r, http.MethodGet, path, nil)
	var got activityWire
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Activities) != 0 {
		t.Fatalf("rejected saves wrote %d activities", len(got.Activities))
	}
}

func TestValidateDetailEndpoint(t *testing.T) {
	r, _ := newActivityRouter(t)
	cases := []struct {
		name  string
		body  gin.H
		valid bool
	}{
		{"valid reading", gin.H{"type": "reading", "detail": gin.H{"body": "text"}}, true},
		{"empty reading", gin.H{"type": "reading", "detail": gin.H{}}, false},
		{"bad table", gin.H{"type": "graphic_organizer", "detail": gin.H{"table": gin.H{"rows": "x"}}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, "/api/activities/validate", tc.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
			}
			var out struct {
				Valid bool `json:"valid"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.Valid != tc.valid {
				t.Fatalf("valid = %v, body %s", out.Valid, rec.Body.String())
			}
		})
	}
}

func TestDeleteActivityNotFound(t *testing.T) {
	r, _ := newActivityRouter(t)
	if rec := doJSON(t, r, http.MethodDelete, "/api/activities/"+uuid.NewString(), nil); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec := doJSON(t, r, http.MethodDelete, "/api/activities/nope", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
