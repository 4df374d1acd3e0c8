package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/qpaper-backend/internal/model"
	"github.com/stemsi/qpaper-backend/internal/paper"
	"github.com/stemsi/qpaper-backend/internal/response"
	"github.com/stemsi/qpaper-backend/internal/service"
	"github.com/stemsi/qpaper-backend/internal/validator"
)

// PaperHandler serves paper sessions: filtering candidates, toggling the
// selection and rendering the result.
type PaperHandler struct {
	papers PaperWorkflow
}

// NewPaperHandler creates a new PaperHandler.
func NewPaperHandler(papers PaperWorkflow) *PaperHandler {
	return &PaperHandler{papers: papers}
}

// Create godoc
// POST /api/v1/papers
func (h *PaperHandler) Create(c *gin.Context) {
	var req model.PaperSettingsRequest
	if c.Request.ContentLength != 0 {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}

	view, err := h.papers.Create(c.Request.Context(), req)
	if err != nil {
		failPaper(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view)
}

// Get godoc
// GET /api/v1/papers/:id
func (h *PaperHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.papers.Get(c.Request.Context(), id)
	if err != nil {
		failPaper(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// UpdateSettings godoc
// PATCH /api/v1/papers/:id
func (h *PaperHandler) UpdateSettings(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.PaperSettingsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.papers.UpdateSettings(c.Request.Context(), id, req)
	if err != nil {
		failPaper(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Delete godoc
// DELETE /api/v1/papers/:id
func (h *PaperHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.papers.Delete(c.Request.Context(), id); err != nil {
		failPaper(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Candidates godoc
// GET /api/v1/papers/:id/candidates?subject=&chapter=&difficulty=
func (h *PaperHandler) Candidates(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var criteria model.Criteria
	if fields := validator.BindQuery(c, &criteria); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidQuery, fields)
		return
	}

	list, err := h.papers.Candidates(c.Request.Context(), id, criteria)
	if err != nil {
		failPaper(c, err)
		return
	}
	response.SuccessList(c, http.StatusOK, list, len(list.Questions))
}

// Toggle godoc
// POST /api/v1/papers/:id/selection/:questionId/toggle
func (h *PaperHandler) Toggle(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	questionID, ok := uuidParam(c, "questionId")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.papers.Toggle(c.Request.Context(), id, questionID)
	if err != nil {
		failPaper(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Remove godoc
// DELETE /api/v1/papers/:id/selection/:questionId
func (h *PaperHandler) Remove(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	questionID, ok := uuidParam(c, "questionId")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.papers.Remove(c.Request.Context(), id, questionID)
	if err != nil {
		failPaper(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Render godoc
// GET /api/v1/papers/:id/render?variant=questions|answer_key&channel=print|export|sheet
func (h *PaperHandler) Render(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var q model.RenderQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidQuery, fields)
		return
	}

	artifact, err := h.papers.Render(c.Request.Context(), id, q.Variant, q.Channel)
	if err != nil {
		failPaper(c, err)
		return
	}
	writeArtifact(c, artifact)
}

// RenderSelection godoc
// POST /api/v1/papers/render
// Renders an explicit ordered list of question IDs without a session.
func (h *PaperHandler) RenderSelection(c *gin.Context) {
	var req model.RenderRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	artifact, err := h.papers.RenderSelection(c.Request.Context(), req)
	if err != nil {
		failPaper(c, err)
		return
	}
	writeArtifact(c, artifact)
}

func writeArtifact(c *gin.Context, a *paper.Artifact) {
	disposition := "attachment"
	if a.Inline {
		disposition = "inline"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, a.FileName))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, a.ContentType, a.Body)
}

func failPaper(c *gin.Context, err error) {
	var capErr *paper.CapacityError
	switch {
	case errors.As(err, &capErr):
		response.FailWithMessage(c, http.StatusConflict, response.ErrSelectionLimit, capErr.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrPaperSessionNotFound)
	case errors.Is(err, service.ErrQuestionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrQuestionNotFound)
	case errors.Is(err, service.ErrInvalidRender), errors.Is(err, paper.ErrInvalidCapacity):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, err.Error())
	case errors.Is(err, model.ErrInvalidQuestion):
		response.FailWithMessage(c, http.StatusUnprocessableEntity, response.ErrRenderFailed, err.Error())
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
