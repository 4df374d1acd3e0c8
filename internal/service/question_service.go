package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/qpaper-backend/internal/config"
	"github.com/stemsi/qpaper-backend/internal/model"
	"github.com/stemsi/qpaper-backend/internal/paper"
	"github.com/stemsi/qpaper-backend/internal/richtext"
)

// ErrQuestionNotFound is returned when no question has the requested id.
var ErrQuestionNotFound = errors.New("question not found")

// QuestionService owns the question bank. Every write path sanitizes markup
// and checks the catalog before anything reaches storage.
type QuestionService struct {
	repo    QuestionStore
	catalog *config.Catalog
	log     zerolog.Logger
}

func NewQuestionService(repo QuestionStore, catalog *config.Catalog, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		repo:    repo,
		catalog: catalog,
		log:     log.With().Str("component", "question_service").Logger(),
	}
}

// List returns the whole bank in insertion order.
func (s *QuestionService) List(ctx context.Context) ([]model.Question, error) {
	questions, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list questions")
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// Browse is the list view: subject matches as a case-insensitive substring.
func (s *QuestionService) Browse(ctx context.Context, c model.Criteria) ([]model.Question, error) {
	questions, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return paper.BrowseFilter.Apply(questions, c), nil
}

func (s *QuestionService) Get(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrQuestionNotFound
		}
		s.log.Error().Err(err).Str("question_id", id.String()).Msg("Failed to load question")
		return nil, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

func (s *QuestionService) Create(ctx context.Context, req model.QuestionRequest) (*model.Question, error) {
	q, err := s.build(req, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &q); err != nil {
		s.log.Error().Err(err).Msg("Failed to create question")
		return nil, fmt.Errorf("create question: %w", err)
	}

	s.log.Info().Str("question_id", q.ID.String()).Str("subject", q.Subject).Msg("Question created")
	return &q, nil
}

// Update replaces a question. A request without standard keeps the stored one.
func (s *QuestionService) Update(ctx context.Context, id uuid.UUID, req model.QuestionRequest) (*model.Question, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	q, err := s.build(req, existing.Standard)
	if err != nil {
		return nil, err
	}
	q.ID = id

	if err := s.repo.Update(ctx, &q); err != nil {
		if isNoRows(err) {
			return nil, ErrQuestionNotFound
		}
		s.log.Error().Err(err).Str("question_id", id.String()).Msg("Failed to update question")
		return nil, fmt.Errorf("update question: %w", err)
	}
	return &q, nil
}

func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Str("question_id", id.String()).Msg("Failed to delete question")
		return fmt.Errorf("delete question: %w", err)
	}
	if !deleted {
		return ErrQuestionNotFound
	}
	return nil
}

// RowError names the import request that failed validation.
type RowError struct {
	Index int // 0-based position in the import batch
	Err   error
}

func (e *RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Index+1, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// Import validates every request first and then stores them in one
// transaction. A validation failure is reported as a *RowError.
func (s *QuestionService) Import(ctx context.Context, reqs []model.QuestionRequest) ([]*model.Question, error) {
	questions := make([]*model.Question, 0, len(reqs))
	for i, req := range reqs {
		q, err := s.build(req, "")
		if err != nil {
			return nil, &RowError{Index: i, Err: err}
		}
		questions = append(questions, &q)
	}
	if len(questions) == 0 {
		return questions, nil
	}

	if err := s.repo.CreateBatch(ctx, questions); err != nil {
		s.log.Error().Err(err).Int("count", len(questions)).Msg("Failed to import questions")
		return nil, fmt.Errorf("import questions: %w", err)
	}
	s.log.Info().Int("count", len(questions)).Msg("Questions imported")
	return questions, nil
}

// build turns a request into a sanitized, validated question.
func (s *QuestionService) build(req model.QuestionRequest, standard string) (model.Question, error) {
	if req.Standard != nil {
		standard = *req.Standard
	}
	qType := model.QuestionType(req.QuestionType)
	if qType == "" {
		qType = model.QuestionTypeText
	}

	q := model.Question{
		QuestionType: qType,
		Question:     richtext.Sanitize(req.Question),
		Options:      richtext.SanitizeAll(req.Options),
		Subject:      strings.TrimSpace(req.Subject),
		Standard:     strings.TrimSpace(standard),
		Chapter:      strings.TrimSpace(req.Chapter),
		Difficulty:   strings.TrimSpace(req.Difficulty),
		AnswerKey:    model.AnswerKey(strings.ToLower(strings.TrimSpace(req.AnswerKey))),
	}

	if err := q.Validate(); err != nil {
		return q, err
	}
	for i, opt := range q.Options {
		if opt.IsEmpty() {
			return q, fmt.Errorf("%w: option %c is empty", model.ErrInvalidQuestion, 'a'+i)
		}
	}
	return q, s.checkCatalog(q)
}

func (s *QuestionService) checkCatalog(q model.Question) error {
	switch {
	case !s.catalog.HasQuestionType(string(q.QuestionType)):
		return fmt.Errorf("%w: question type %q is not offered", model.ErrInvalidQuestion, q.QuestionType)
	case q.Subject != "" && !s.catalog.HasSubject(q.Subject):
		return fmt.Errorf("%w: unknown subject %q", model.ErrInvalidQuestion, q.Subject)
	case q.Standard != "" && !s.catalog.HasStandard(q.Standard):
		return fmt.Errorf("%w: unknown standard %q", model.ErrInvalidQuestion, q.Standard)
	case q.Difficulty != "" && !s.catalog.HasExamTrack(q.Difficulty):
		return fmt.Errorf("%w: unknown exam track %q", model.ErrInvalidQuestion, q.Difficulty)
	}
	return nil
}
