package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/PelicanED-online/pelicaned-backend/internal/pkg/tablebuilder"
)

func TestTableBuilderBuild(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewTableBuilderHandler()
	r := gin.New()
	r.POST("/api/graphic-organizers/build", h.Build)
	r.GET("/api/graphic-organizers/templates", h.Templates)

	rec := doJSON(t, r, http.MethodPost, "/api/graphic-organizers/build", tablebuilder.Request{
		Template: "t_chart",
		Rows:     2,
		Headers:  []string{"Pros", "Cons"},
		Cells:    [][]string{{"cheap", "slow"}, {"simple", "loud"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("build = %d %s", rec.Code, rec.Body.String())
	}
	var table tablebuilder.Table
	if err := json.Unmarshal(rec.Body.Bytes(), &table); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if table.Template != "t_chart" || len(table.Headers) != 2 || table.Headers[0] != "Pros" {
		t.Fatalf("table = %+v", table)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/graphic-organizers/build", tablebuilder.Request{Template: "mind_map", Rows: 1, Cols: 1})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown template = %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodPost, "/api/graphic-organizers/build", tablebuilder.Request{Template: "blank", Rows: tablebuilder.MaxRows + 1, Cols: 2})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("too many rows = %d", rec.Code)
	}

	if rec = doJSON(t, r, http.MethodGet, "/api/graphic-organizers/templates", nil); rec.Code != http.StatusOK {
		t.Fatalf("templates = %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthcheck", NewHealthHandler(nil).HealthCheck)
	rec := doJSON(t, r, http.MethodGet, "/healthcheck", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck = %d %q", rec.Code, rec.Body.String())
	}
}
