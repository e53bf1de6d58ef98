package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PelicanED-online/pelicaned-backend/internal/http/response"
)

// uuidParam parses a path parameter and writes a 400 when it is not a uuid.
func uuidParam(c *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, code, errInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}

type reorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type handlerError string

func (e handlerError) Error() string { return string(e) }

const (
	errInvalidID      = handlerError("invalid id")
	errMissingCookie  = handlerError("missing invitation token")
	errMissingFile    = handlerError("missing file")
	errMissingKey     = handlerError("missing key")
	errMissingRefresh = handlerError("missing refresh token")
)
