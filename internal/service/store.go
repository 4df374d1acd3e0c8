package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stemsi/qpaper-backend/internal/model"
)

// QuestionStore is the persistence the question and paper services need.
// *repository.QuestionRepository satisfies it.
type QuestionStore interface {
	List(ctx context.Context) ([]model.Question, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Question, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	Create(ctx context.Context, q *model.Question) error
	CreateBatch(ctx context.Context, questions []*model.Question) error
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// ChapterStore is satisfied by *repository.ChapterRepository.
type ChapterStore interface {
	List(ctx context.Context) ([]model.Chapter, error)
	Upsert(ctx context.Context, ch *model.Chapter) (bool, error)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
