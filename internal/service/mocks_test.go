package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/qpaper-backend/internal/config"
	"github.com/stemsi/qpaper-backend/internal/model"
	"github.com/stemsi/qpaper-backend/internal/richtext"
	"github.com/stretchr/testify/mock"
)

type mockQuestionStore struct {
	mock.Mock
}

func (m *mockQuestionStore) List(ctx context.Context) ([]model.Question, error) {
	args := m.Called(ctx)
	qs, _ := args.Get(0).([]model.Question)
	return qs, args.Error(1)
}

func (m *mockQuestionStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Question, error) {
	args := m.Called(ctx, ids)
	qs, _ := args.Get(0).([]model.Question)
	return qs, args.Error(1)
}

func (m *mockQuestionStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	args := m.Called(ctx, id)
	q, _ := args.Get(0).(*model.Question)
	return q, args.Error(1)
}

func (m *mockQuestionStore) Create(ctx context.Context, q *model.Question) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockQuestionStore) CreateBatch(ctx context.Context, questions []*model.Question) error {
	return m.Called(ctx, questions).Error(0)
}

func (m *mockQuestionStore) Update(ctx context.Context, q *model.Question) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockQuestionStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockChapterStore struct {
	mock.Mock
}

func (m *mockChapterStore) List(ctx context.Context) ([]model.Chapter, error) {
	args := m.Called(ctx)
	chs, _ := args.Get(0).([]model.Chapter)
	return chs, args.Error(1)
}

func (m *mockChapterStore) Upsert(ctx context.Context, ch *model.Chapter) (bool, error) {
	args := m.Called(ctx, ch)
	return args.Bool(0), args.Error(1)
}

// memSessionStore is an in-memory SessionStore that copies on the way in and out.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]model.PaperSession
	saves    int
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[uuid.UUID]model.PaperSession)}
}

func (m *memSessionStore) Get(_ context.Context, id uuid.UUID) (*model.PaperSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.Selected = append([]uuid.UUID{}, s.Selected...)
	return &s, nil
}

func (m *memSessionStore) Save(_ context.Context, s *model.PaperSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.Selected = append([]uuid.UUID{}, s.Selected...)
	m.sessions[s.ID] = cp
	m.saves++
	return nil
}

func (m *memSessionStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func testCatalog() *config.Catalog {
	c, err := config.LoadCatalog("")
	if err != nil {
		panic(err)
	}
	return c
}

func stored(subject, chapter, difficulty string, key model.AnswerKey) model.Question {
	return model.Question{
		ID:           uuid.New(),
		QuestionType: model.QuestionTypeText,
		Question:     richtext.HTML("<p>" + subject + " " + chapter + "</p>"),
		Options:      []richtext.HTML{"w", "x", "y", "z"},
		Subject:      subject,
		Standard:     "12th",
		Chapter:      chapter,
		Difficulty:   difficulty,
		AnswerKey:    key,
	}
}

var nopLog = zerolog.Nop()
