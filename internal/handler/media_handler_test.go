package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stemsi/qpaper-backend/internal/response"
	"github.com/stemsi/qpaper-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMediaHandler_Upload(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake")

	t.Run("Stored", func(t *testing.T) {
		svc := new(mockMediaUploader)
		svc.On("SaveUpload", mock.Anything, mock.MatchedBy(func(h any) bool { return h != nil })).
			Return(&service.Upload{FileName: "1718000000123.png", URL: "/uploads/1718000000123.png"}, nil)
		body, ct := multipartBody(t, "image", "diagram.png", png)

		w := do(t, http.MethodPost, "/upload", "/upload", NewMediaHandler(svc, 1<<20).Upload, body, ct)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "File uploaded successfully: 1718000000123.png", w.Body.String())
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
		assert.Equal(t, "/uploads/1718000000123.png", w.Header().Get("Location"))
	})

	t.Run("WrongField", func(t *testing.T) {
		svc := new(mockMediaUploader)
		body, ct := multipartBody(t, "file", "diagram.png", png)

		w := do(t, http.MethodPost, "/upload", "/upload", NewMediaHandler(svc, 1<<20).Upload, body, ct)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No file uploaded.", w.Body.String())
		svc.AssertNotCalled(t, "SaveUpload", mock.Anything, mock.Anything)
	})

	t.Run("Unsupported", func(t *testing.T) {
		svc := new(mockMediaUploader)
		svc.On("SaveUpload", mock.Anything, mock.Anything).Return(nil, service.ErrUnsupportedFileType)
		body, ct := multipartBody(t, "image", "notes.txt", []byte("hello"))

		w := do(t, http.MethodPost, "/upload", "/upload", NewMediaHandler(svc, 1<<20).Upload, body, ct)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrUnsupportedFile, envelope(t, w).Error.Code)
	})

	t.Run("BodyOverLimit", func(t *testing.T) {
		svc := new(mockMediaUploader)
		h := &MediaHandler{media: svc, maxBytes: 512}
		body, ct := multipartBody(t, "image", "big.png", append(png, make([]byte, 4096)...))

		w := do(t, http.MethodPost, "/upload", "/upload", h.Upload, body, ct)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, response.ErrFileTooLarge, envelope(t, w).Error.Code)
	})
}
