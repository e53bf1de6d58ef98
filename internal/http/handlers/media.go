package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PelicanED-online/pelicaned-backend/internal/http/response"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/media"
	"github.com/PelicanED-online/pelicaned-backend/internal/services"
)

type MediaHandler struct {
	log   *logger.Logger
	media services.MediaService
}

func NewMediaHandler(log *logger.Logger, mediaService services.MediaService) *MediaHandler {
	return &MediaHandler{log: log.With("handler", "MediaHandler"), media: mediaService}
}

// POST /api/media (multipart: kind, file)
func (h *MediaHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxUploadBytes+(1<<20))
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_upload", errMissingFile)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_upload", err)
		return
	}
	defer f.Close()

	res, err := h.media.Upload(c.Request.Context(), media.Kind(c.PostForm("kind")), fh.Filename, f)
	if err != nil {
		response.RespondAPIError(c, err, "upload_failed")
		return
	}
	response.RespondCreated(c, res)
}

// GET /api/media/url?key=
func (h *MediaHandler) SignedURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_media_key", errMissingKey)
		return
	}
	url, err := h.media.SignedURL(c.Request.Context(), key)
	if err != nil {
		response.RespondAPIError(c, err, "sign_url_failed")
		return
	}
	response.RespondOK(c, gin.H{"key": key, "url": url})
}

// DELETE /api/media?key=
func (h *MediaHandler) Delete(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_media_key", errMissingKey)
		return
	}
	if err := h.media.Delete(c.Request.Context(), key); err != nil {
		response.RespondAPIError(c, err, "delete_media_failed")
		return
	}
	response.RespondNoContent(c)
}
