package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stemsi/qpaper-backend/internal/model"
	"github.com/stemsi/qpaper-backend/internal/paper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type paperFixture struct {
	repo     *mockQuestionStore
	sessions *memSessionStore
	svc      *PaperService
	bank     []model.Question
}

func newPaperFixture(t *testing.T) *paperFixture {
	t.Helper()
	f := &paperFixture{
		repo:     new(mockQuestionStore),
		sessions: newMemSessionStore(),
		bank: []model.Question{
			stored("Physics", "Optics", "JEE", model.AnswerA),
			stored("Physics", "Gravitation", "JEE", model.AnswerB),
			stored("Chemistry", "Solutions", "NEET", model.AnswerC),
			stored("Physics", "Optics", "CET", model.AnswerD),
		},
	}
	f.svc = NewPaperService(f.repo, f.sessions, testCatalog(), nopLog)

	f.repo.On("List", mock.Anything).Return(f.bank, nil).Maybe()
	for i := range f.bank {
		q := f.bank[i]
		f.repo.On("GetByID", mock.Anything, q.ID).Return(&q, nil).Maybe()
	}
	f.repo.On("ListByIDs", mock.Anything, mock.Anything).Return(f.bank, nil).Maybe()
	return f
}

func intPtr(n int) *int { return &n }

func TestPaperService_CreateUsesCatalogDefaults(t *testing.T) {
	f := newPaperFixture(t)

	view, err := f.svc.Create(t.Context(), model.PaperSettingsRequest{})
	require.NoError(t, err)

	assert.Equal(t, 10, view.MaxQuestions)
	assert.Equal(t, model.PaperOptions{MarksPerQuestion: 1, Font: "Arial", FontSize: "12px"}, view.Options)
	assert.Empty(t, view.Questions)
	assert.Equal(t, 0, view.TotalMarks)
	assert.Equal(t, 1, f.sessions.saves)
}

func TestPaperService_CreateRejectsUnknownFont(t *testing.T) {
	f := newPaperFixture(t)
	font := "Comic Sans MS"

	_, err := f.svc.Create(t.Context(), model.PaperSettingsRequest{
		Options: &model.PaperOptionsRequest{Font: &font},
	})
	assert.ErrorIs(t, err, ErrInvalidRender)
	assert.Equal(t, 0, f.sessions.saves)
}

func TestPaperService_ToggleAndCapacity(t *testing.T) {
	f := newPaperFixture(t)
	marks := 4
	view, err := f.svc.Create(t.Context(), model.PaperSettingsRequest{
		MaxQuestions: intPtr(2),
		Options:      &model.PaperOptionsRequest{MarksPerQuestion: &marks},
	})
	require.NoError(t, err)
	id := view.ID

	_, err = f.svc.Toggle(t.Context(), id, f.bank[2].ID)
	require.NoError(t, err)
	view, err = f.svc.Toggle(t.Context(), id, f.bank[0].ID)
	require.NoError(t, err)

	assert.Equal(t, 2, view.SelectedCount)
	assert.Equal(t, 8, view.TotalMarks)
	assert.Equal(t, []uuid.UUID{f.bank[2].ID, f.bank[0].ID}, ids(view.Questions), "selection order, not bank order")

	_, err = f.svc.Toggle(t.Context(), id, f.bank[1].ID)
	require.ErrorIs(t, err, paper.ErrCapacityExceeded)
	assert.Equal(t, "You can select a maximum of 2 questions.", err.Error())

	session, _ := f.sessions.Get(t.Context(), id)
	assert.Len(t, session.Selected, 2)

	view, err = f.svc.Toggle(t.Context(), id, f.bank[2].ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.bank[0].ID}, ids(view.Questions))
}

func TestPaperService_ToggleIgnoresDeletedQuestions(t *testing.T) {
	f := newPaperFixture(t)
	view, err := f.svc.Create(t.Context(), model.PaperSettingsRequest{MaxQuestions: intPtr(2)})
	require.NoError(t, err)
	id := view.ID

	_, err = f.svc.Toggle(t.Context(), id, f.bank[0].ID)
	require.NoError(t, err)

	// A selected question later deleted from the bank.
	deleted := uuid.New()
	session, err := f.sessions.Get(t.Context(), id)
	require.NoError(t, err)
	session.Selected = append(session.Selected, deleted)
	require.NoError(t, f.sessions.Save(t.Context(), session))

	view, err = f.svc.Get(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, view.SelectedCount)

	view, err = f.svc.Toggle(t.Context(), id, f.bank[1].ID)
	require.NoError(t, err, "free room in the view must admit another question")
	assert.Equal(t, []uuid.UUID{f.bank[0].ID, f.bank[1].ID}, ids(view.Questions))

	session, err = f.sessions.Get(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.bank[0].ID, f.bank[1].ID}, session.Selected)

	_, err = f.svc.Toggle(t.Context(), id, f.bank[2].ID)
	assert.ErrorIs(t, err, paper.ErrCapacityExceeded)
}

func TestPaperService_ToggleDeselectsDeletedQuestion(t *testing.T) {
	f := newPaperFixture(t)
	view, err := f.svc.Create(t.Context(), model.PaperSettingsRequest{})
	require.NoError(t, err)

	deleted := uuid.New()
	session, err := f.sessions.Get(t.Context(), view.ID)
	require.NoError(t, err)
	session.Selected = []uuid.UUID{f.bank[0].ID, deleted}
	require.NoError(t, f.sessions.Save(t.Context(), session))

	view, err = f.svc.Toggle(t.Context(), view.ID, deleted)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.bank[0].ID}, ids(view.Questions))
	f.repo.AssertNotCalled(t, "GetByID", mock.Anything, deleted)
}

func TestPaperService_ToggleUnknownQuestion(t *testing.T) {
	f := newPaperFixture(t)
	view, err := f.svc.Create(t.Context(), model.PaperSettingsRequest{})
	require.NoError(t, err)

	ghost := uuid.New()
	f.repo.On("GetByID", mock.Anything, ghost).Return(nil, pgx.ErrNoRows)

	_, err = f.svc.Toggle(t.Context(), view.ID, ghost)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestPaperService_UnknownSession(t *testing.T) {
	f := newPaperFixture(t)
	missing := uuid.New()

	_, err := f.svc.Get(t.Context(), missing)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.svc.Toggle(t.Context(), missing, f.bank[0].ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, f.svc.Delete(t.Context(), missing), ErrSessionNotFound)
}

func TestPaperService_RemoveIsIdempotent(t *testing.T) {
	f := newPaperFixture(t)
	view, _ := f.svc.Create(t.Context(), model.PaperSettingsRequest{})
	_, err := f.svc.Toggle(t.Context(), view.ID, f.bank[0].ID)
	require.NoError(t, err)

	view, err = f.svc.Remove(t.Context(), view.ID, f.bank[0].ID)
	require.NoError(t, err)
	assert.Empty(t, view.Questions)

	saves := f.sessions.saves
	_, err = f.svc.Remove(t.Context(), view.ID, f.bank[0].ID)
	require.NoError(t, err)
	assert.Equal(t, saves, f.sessions.saves, "no write for a no-op removal")
}

func TestPaperService_LoweringMaxKeepsSelection(t *testing.T) {
	f := newPaperFixture(t)
	view, _ := f.svc.Create(t.Context(), model.PaperSettingsRequest{MaxQuestions: intPtr(3)})
	for _, q := range f.bank[:3] {
		_, err := f.svc.Toggle(t.Context(), view.ID, q.ID)
		require.NoError(t, err)
	}

	view, err := f.svc.UpdateSettings(t.Context(), view.ID, model.PaperSettingsRequest{MaxQuestions: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, view.MaxQuestions)
	assert.Equal(t, 3, view.SelectedCount)

	_, err = f.svc.Toggle(t.Context(), view.ID, f.bank[3].ID)
	assert.ErrorIs(t, err, paper.ErrCapacityExceeded)

	_, err = f.svc.UpdateSettings(t.Context(), view.ID, model.PaperSettingsRequest{MaxQuestions: intPtr(0)})
	assert.ErrorIs(t, err, paper.ErrInvalidCapacity)
}

func TestPaperService_Candidates(t *testing.T) {
	f := newPaperFixture(t)
	view, _ := f.svc.Create(t.Context(), model.PaperSettingsRequest{})
	_, err := f.svc.Toggle(t.Context(), view.ID, f.bank[3].ID)
	require.NoError(t, err)

	list, err := f.svc.Candidates(t.Context(), view.ID, model.Criteria{Subject: "Physics", Chapter: "Optics"})
	require.NoError(t, err)

	require.Len(t, list.Questions, 2)
	assert.Equal(t, f.bank[0].ID, list.Questions[0].ID)
	assert.False(t, list.Questions[0].Selected)
	assert.Equal(t, f.bank[3].ID, list.Questions[1].ID)
	assert.True(t, list.Questions[1].Selected)
	assert.Equal(t, []string{"Optics", "Gravitation"}, list.Chapters)
	assert.Equal(t, 1, list.SelectedCount)
	assert.Equal(t, 10, list.MaxQuestions)

	session, _ := f.sessions.Get(t.Context(), view.ID)
	assert.Equal(t, model.Criteria{Subject: "Physics", Chapter: "Optics"}, session.Criteria)

	list, err = f.svc.Candidates(t.Context(), view.ID, model.Criteria{Subject: "physics"})
	require.NoError(t, err)
	assert.Empty(t, list.Questions, "paper filter is case sensitive")
}

func TestPaperService_Render(t *testing.T) {
	f := newPaperFixture(t)
	title := "Weekly Test"
	view, _ := f.svc.Create(t.Context(), model.PaperSettingsRequest{
		Options: &model.PaperOptionsRequest{Title: &title},
	})
	_, _ = f.svc.Toggle(t.Context(), view.ID, f.bank[1].ID)
	_, _ = f.svc.Toggle(t.Context(), view.ID, f.bank[0].ID)

	a, err := f.svc.Render(t.Context(), view.ID, "answer_key", "print")
	require.NoError(t, err)
	page := string(a.Body)
	assert.True(t, a.Inline)
	assert.Less(t, strings.Index(page, "1) b"), strings.Index(page, "2) a"))

	a, err = f.svc.Render(t.Context(), view.ID, "questions", "export")
	require.NoError(t, err)
	assert.Equal(t, "Question_Paper.docx", a.FileName)

	_, err = f.svc.Render(t.Context(), view.ID, "questions", "carrier-pigeon")
	assert.ErrorIs(t, err, ErrInvalidRender)
	_, err = f.svc.Render(t.Context(), view.ID, "solutions", "print")
	assert.ErrorIs(t, err, ErrInvalidRender)
}

func TestPaperService_RenderSelection(t *testing.T) {
	f := newPaperFixture(t)

	a, err := f.svc.RenderSelection(t.Context(), model.RenderRequest{
		QuestionIDs: []uuid.UUID{f.bank[3].ID, f.bank[0].ID},
		Variant:     "answer_key",
		Channel:     "sheet",
	})
	require.NoError(t, err)
	assert.Equal(t, "Answer_Key.xlsx", a.FileName)

	_, err = f.svc.RenderSelection(t.Context(), model.RenderRequest{
		QuestionIDs: []uuid.UUID{f.bank[0].ID, uuid.New()},
		Variant:     "questions",
		Channel:     "print",
	})
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func ids(qs []model.Question) []uuid.UUID {
	out := make([]uuid.UUID, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}
