package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/qpaper-backend/internal/response"
	"github.com/stemsi/qpaper-backend/internal/service"
)

// multipartOverhead is the slack allowed on top of the file limit for
// boundaries and part headers.
const multipartOverhead = 1 << 20

// MediaHandler handles image uploads from the rich-text editor.
type MediaHandler struct {
	media    MediaUploader
	maxBytes int64
}

// NewMediaHandler creates a new MediaHandler. Request bodies larger than
// maxFileBytes plus multipart overhead are cut off unread.
func NewMediaHandler(media MediaUploader, maxFileBytes int64) *MediaHandler {
	return &MediaHandler{media: media, maxBytes: maxFileBytes + multipartOverhead}
}

// Upload godoc
// POST /upload
// Takes the multipart field "image" and answers in plain text.
func (h *MediaHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
			return
		}
		c.String(http.StatusBadRequest, "%s", response.GetMessage(response.ErrFileRequired))
		return
	}
	defer file.Close()

	upload, err := h.media.SaveUpload(file, header)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	c.Header("Location", upload.URL)
	c.String(http.StatusOK, "File uploaded successfully: %s", upload.FileName)
}
