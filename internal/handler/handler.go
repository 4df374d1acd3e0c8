package handler

import (
	"context"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/qpaper-backend/internal/model"
	"github.com/stemsi/qpaper-backend/internal/paper"
	"github.com/stemsi/qpaper-backend/internal/service"
)

// QuestionManager is the question bank as seen by the HTTP layer.
type QuestionManager interface {
	List(ctx context.Context) ([]model.Question, error)
	Browse(ctx context.Context, c model.Criteria) ([]model.Question, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Question, error)
	Create(ctx context.Context, req model.QuestionRequest) (*model.Question, error)
	Update(ctx context.Context, id uuid.UUID, req model.QuestionRequest) (*model.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChapterCatalog serves the chapter list and accepts new chapters.
type ChapterCatalog interface {
	List(ctx context.Context) ([]model.Chapter, error)
	Tree(ctx context.Context) (model.ChapterTree, error)
	Propose(ctx context.Context, req model.ProposeChapterRequest) (*model.Chapter, bool, error)
}

// MediaUploader stores uploaded images.
type MediaUploader interface {
	SaveUpload(file multipart.File, header *multipart.FileHeader) (*service.Upload, error)
}

// PaperWorkflow drives paper sessions from criteria to rendered artifact.
type PaperWorkflow interface {
	Create(ctx context.Context, req model.PaperSettingsRequest) (*model.PaperSessionView, error)
	Get(ctx context.Context, id uuid.UUID) (*model.PaperSessionView, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, req model.PaperSettingsRequest) (*model.PaperSessionView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Candidates(ctx context.Context, id uuid.UUID, c model.Criteria) (*model.CandidateList, error)
	Toggle(ctx context.Context, id, questionID uuid.UUID) (*model.PaperSessionView, error)
	Remove(ctx context.Context, id, questionID uuid.UUID) (*model.PaperSessionView, error)
	Render(ctx context.Context, id uuid.UUID, variant, channel string) (*paper.Artifact, error)
	RenderSelection(ctx context.Context, req model.RenderRequest) (*paper.Artifact, error)
}

// uuidParam parses a UUID path parameter.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	return id, err == nil
}
