package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/qpaper-backend/internal/model"
	"github.com/stemsi/qpaper-backend/internal/response"
	"github.com/stemsi/qpaper-backend/internal/service"
	"github.com/stemsi/qpaper-backend/internal/validator"
)

// QuestionHandler serves the question bank. The root routes answer with bare
// JSON bodies that existing editor clients expect; /api/v1 uses the envelope.
type QuestionHandler struct {
	questions QuestionManager
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questions QuestionManager) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// List godoc
// GET /questions
func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.questions.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if questions == nil {
		questions = []model.Question{}
	}
	c.JSON(http.StatusOK, questions)
}

// Get godoc
// GET /questions/:id
func (h *QuestionHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	q, err := h.questions.Get(c.Request.Context(), id)
	if err != nil {
		failQuestion(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// Create godoc
// POST /questions
func (h *QuestionHandler) Create(c *gin.Context) {
	var req model.QuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	q, err := h.questions.Create(c.Request.Context(), req)
	if err != nil {
		failQuestion(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// Update godoc
// PUT /questions/:id
func (h *QuestionHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.QuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	q, err := h.questions.Update(c.Request.Context(), id, req)
	if err != nil {
		failQuestion(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// Delete godoc
// DELETE /questions/:id
func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.questions.Delete(c.Request.Context(), id); err != nil {
		failQuestion(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Browse godoc
// GET /api/v1/questions?subject=&chapter=&difficulty=
// Subject matches as a case-insensitive substring here, unlike the paper view.
func (h *QuestionHandler) Browse(c *gin.Context) {
	var criteria model.Criteria
	if fields := validator.BindQuery(c, &criteria); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidQuery, fields)
		return
	}

	questions, err := h.questions.Browse(c.Request.Context(), criteria)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if questions == nil {
		questions = []model.Question{}
	}
	response.SuccessList(c, http.StatusOK, questions, len(questions))
}

func failQuestion(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQuestionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrQuestionNotFound)
	case errors.Is(err, model.ErrInvalidQuestion):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, err.Error())
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
