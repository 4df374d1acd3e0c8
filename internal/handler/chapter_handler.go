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

type ChapterHandler struct {
	chapters ChapterCatalog
}

func NewChapterHandler(chapters ChapterCatalog) *ChapterHandler {
	return &ChapterHandler{chapters: chapters}
}

// List godoc
// GET /chapters
func (h *ChapterHandler) List(c *gin.Context) {
	chapters, err := h.chapters.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if chapters == nil {
		chapters = []model.Chapter{}
	}
	c.JSON(http.StatusOK, chapters)
}

// Tree godoc
// GET /api/v1/chapters/tree
func (h *ChapterHandler) Tree(c *gin.Context) {
	tree, err := h.chapters.Tree(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, tree)
}

// Propose godoc
// POST /api/v1/chapters
// Answers 201 for a new chapter and 200 when it was already known.
func (h *ChapterHandler) Propose(c *gin.Context) {
	var req model.ProposeChapterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ch, created, err := h.chapters.Propose(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidChapter) {
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, err.Error())
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, ch)
}
