package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PelicanED-online/pelicaned-backend/internal/http/response"
	"github.com/PelicanED-online/pelicaned-backend/internal/pkg/tablebuilder"
)

type TableBuilderHandler struct{}

func NewTableBuilderHandler() *TableBuilderHandler { return &TableBuilderHandler{} }

// GET /api/graphic-organizers/templates
func (h *TableBuilderHandler) Templates(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"templates": tablebuilder.Templates(),
		"max_rows":  tablebuilder.MaxRows,
		"max_cols":  tablebuilder.MaxCols,
	})
}

// POST /api/graphic-organizers/build
func (h *TableBuilderHandler) Build(c *gin.Context) {
	var req tablebuilder.Request
	if !bindJSON(c, &req) {
		return
	}
	table, err := tablebuilder.Build(req)
	if err != nil {
		code := "invalid_table"
		if errors.Is(err, tablebuilder.ErrUnknownTemplate) {
			code = "unknown_template"
		}
		response.RespondError(c, http.StatusBadRequest, code, err)
		return
	}
	response.RespondOK(c, table)
}
