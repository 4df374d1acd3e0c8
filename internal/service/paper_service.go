package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/qpaper-backend/internal/config"
	"github.com/stemsi/qpaper-backend/internal/model"
	"github.com/stemsi/qpaper-backend/internal/paper"
)

// ErrInvalidRender covers unknown variants or channels and options the catalog does not offer.
var ErrInvalidRender = errors.New("invalid render request")

// PaperService runs the paper workflow: filter the bank, keep a bounded
// selection per session and render it. Concurrent writes to one session
// are last-write-wins.
type PaperService struct {
	questions QuestionStore
	sessions  SessionStore
	catalog   *config.Catalog
	log       zerolog.Logger
	now       func() time.Time
}

func NewPaperService(questions QuestionStore, sessions SessionStore, catalog *config.Catalog, log zerolog.Logger) *PaperService {
	return &PaperService{
		questions: questions,
		sessions:  sessions,
		catalog:   catalog,
		log:       log.With().Str("component", "paper_service").Logger(),
		now:       time.Now,
	}
}

// DefaultOptions are the catalog's paper defaults.
func (s *PaperService) DefaultOptions() model.PaperOptions {
	d := s.catalog.Defaults
	return model.PaperOptions{
		MarksPerQuestion: d.MarksPerQuestion,
		Font:             d.Font,
		FontSize:         d.FontSize,
	}
}

// Create starts a session with catalog defaults overridden by req.
func (s *PaperService) Create(ctx context.Context, req model.PaperSettingsRequest) (*model.PaperSessionView, error) {
	now := s.now().UTC()
	session := &model.PaperSession{
		ID:           uuid.New(),
		MaxQuestions: s.catalog.Defaults.MaxQuestions,
		Options:      s.DefaultOptions(),
		Selected:     []uuid.UUID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.applySettings(session, req); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		s.log.Error().Err(err).Msg("Failed to save new paper session")
		return nil, err
	}

	s.log.Info().Str("session_id", session.ID.String()).Int("max_questions", session.MaxQuestions).Msg("Paper session started")
	return s.view(ctx, session)
}

func (s *PaperService) Get(ctx context.Context, id uuid.UUID) (*model.PaperSessionView, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, session)
}

// UpdateSettings changes the limit or presentation options. Lowering the
// limit below the current selection keeps every selected question.
func (s *PaperService) UpdateSettings(ctx context.Context, id uuid.UUID, req model.PaperSettingsRequest) (*model.PaperSessionView, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applySettings(session, req); err != nil {
		return nil, err
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(ctx, session)
}

func (s *PaperService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			s.log.Error().Err(err).Str("session_id", id.String()).Msg("Failed to delete paper session")
		}
		return err
	}
	return nil
}

// Candidates filters the bank with exact matching, remembers the criteria
// on the session and marks which results are already selected.
func (s *PaperService) Candidates(ctx context.Context, id uuid.UUID, c model.Criteria) (*model.CandidateList, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.questions.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list questions for paper")
		return nil, fmt.Errorf("list questions: %w", err)
	}

	sel, err := s.liveSelection(ctx, session)
	if err != nil {
		return nil, err
	}

	filtered := paper.PaperFilter.Apply(all, c)
	candidates := make([]model.Candidate, len(filtered))
	for i, q := range filtered {
		candidates[i] = model.Candidate{Question: q, Selected: sel.Contains(q.ID)}
	}

	if session.Criteria != c {
		session.Criteria = c
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
	}

	return &model.CandidateList{
		Criteria:      c,
		Chapters:      paper.ChaptersFor(all, c.Subject),
		Questions:     candidates,
		SelectedCount: sel.Len(),
		MaxQuestions:  sel.Max(),
	}, nil
}

// Toggle selects or deselects a question. Adding to a full selection fails
// with paper.ErrCapacityExceeded and leaves the session untouched.
func (s *PaperService) Toggle(ctx context.Context, id, questionID uuid.UUID) (*model.PaperSessionView, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	selected := slices.Contains(session.Selected, questionID)
	sel, err := s.liveSelection(ctx, session)
	if err != nil {
		return nil, err
	}

	// Deselecting never needs the question itself, which may be gone from the bank.
	if selected {
		sel.Remove(questionID)
	} else {
		q, err := s.questions.GetByID(ctx, questionID)
		if err != nil {
			return nil, s.questionErr(err, questionID)
		}
		if _, err := sel.Toggle(*q); err != nil {
			return nil, err
		}
	}

	session.Selected = sel.IDs()
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(ctx, session)
}

// Remove deselects a question. Removing one that is not selected is a no-op.
func (s *PaperService) Remove(ctx context.Context, id, questionID uuid.UUID) (*model.PaperSessionView, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	sel, err := paper.RestoreSelection(session.MaxQuestions, session.Selected)
	if err != nil {
		return nil, err
	}
	if sel.Remove(questionID) {
		session.Selected = sel.IDs()
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
	}
	return s.view(ctx, session)
}

// Render produces the session's selection as variant through channel.
func (s *PaperService) Render(ctx context.Context, id uuid.UUID, variant, channel string) (*paper.Artifact, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	questions, err := s.resolve(ctx, session.Selected)
	if err != nil {
		return nil, err
	}
	return s.render(questions, session.Options, variant, channel)
}

// RenderSelection renders an explicit ordered list of questions without a session.
func (s *PaperService) RenderSelection(ctx context.Context, req model.RenderRequest) (*paper.Artifact, error) {
	sel, err := paper.RestoreSelection(len(req.QuestionIDs), req.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRender, err)
	}
	opts := s.DefaultOptions()
	req.Options.Apply(&opts)
	if err := s.checkOptions(opts); err != nil {
		return nil, err
	}

	questions, err := s.resolve(ctx, sel.IDs())
	if err != nil {
		return nil, err
	}
	if len(questions) != sel.Len() {
		return nil, ErrQuestionNotFound
	}
	return s.render(questions, opts, req.Variant, req.Channel)
}

func (s *PaperService) render(questions []model.Question, opts model.PaperOptions, variant, channel string) (*paper.Artifact, error) {
	v, err := paper.ParseVariant(variant)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRender, err)
	}
	ch, err := paper.ChannelFor(channel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRender, err)
	}

	doc, err := paper.Render(questions, opts, v)
	if err != nil {
		s.log.Error().Err(err).Str("variant", variant).Msg("Failed to render paper")
		return nil, fmt.Errorf("render paper: %w", err)
	}
	artifact, err := ch.Deliver(doc)
	if err != nil {
		s.log.Error().Err(err).Str("channel", channel).Msg("Failed to deliver paper")
		return nil, fmt.Errorf("deliver paper: %w", err)
	}

	s.log.Info().
		Str("variant", variant).
		Str("channel", channel).
		Int("questions", len(questions)).
		Int("bytes", len(artifact.Body)).
		Msg("Paper rendered")
	return artifact, nil
}

func (s *PaperService) applySettings(session *model.PaperSession, req model.PaperSettingsRequest) error {
	if req.MaxQuestions != nil {
		sel, err := paper.RestoreSelection(session.MaxQuestions, session.Selected)
		if err != nil {
			return err
		}
		if err := sel.SetMax(*req.MaxQuestions); err != nil {
			return err
		}
		session.MaxQuestions = sel.Max()
	}

	opts := session.Options
	req.Options.Apply(&opts)
	if err := s.checkOptions(opts); err != nil {
		return err
	}
	session.Options = opts
	return nil
}

func (s *PaperService) checkOptions(o model.PaperOptions) error {
	switch {
	case !s.catalog.HasFont(o.Font):
		return fmt.Errorf("%w: font %q is not offered", ErrInvalidRender, o.Font)
	case !s.catalog.HasFontSize(o.FontSize):
		return fmt.Errorf("%w: font size %q is not offered", ErrInvalidRender, o.FontSize)
	case o.MarksPerQuestion < 0:
		return fmt.Errorf("%w: marks per question must not be negative", ErrInvalidRender)
	}
	return nil
}

func (s *PaperService) load(ctx context.Context, id uuid.UUID) (*model.PaperSession, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			s.log.Error().Err(err).Str("session_id", id.String()).Msg("Failed to load paper session")
		}
		return nil, err
	}
	return session, nil
}

func (s *PaperService) save(ctx context.Context, session *model.PaperSession) error {
	session.UpdatedAt = s.now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		s.log.Error().Err(err).Str("session_id", session.ID.String()).Msg("Failed to save paper session")
		return err
	}
	return nil
}

// resolve loads questions in the order of ids. Questions deleted from the
// bank since they were selected are skipped.
func (s *PaperService) resolve(ctx context.Context, ids []uuid.UUID) ([]model.Question, error) {
	found, err := s.questions.ListByIDs(ctx, ids)
	if err != nil {
		s.log.Error().Err(err).Int("count", len(ids)).Msg("Failed to load selected questions")
		return nil, fmt.Errorf("load selected questions: %w", err)
	}

	byID := make(map[uuid.UUID]model.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}
	questions := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			questions = append(questions, q)
		} else {
			s.log.Warn().Str("question_id", id.String()).Msg("Selected question no longer exists")
		}
	}
	return questions, nil
}

// liveSelection restores the session's selection without ids deleted from
// the bank, so capacity counts the same questions view reports.
func (s *PaperService) liveSelection(ctx context.Context, session *model.PaperSession) (*paper.Selection, error) {
	questions, err := s.resolve(ctx, session.Selected)
	if err != nil {
		return nil, err
	}
	live := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		live[i] = q.ID
	}
	return paper.RestoreSelection(session.MaxQuestions, live)
}

// view resolves the selection. Counts and marks reflect the questions that still exist.
func (s *PaperService) view(ctx context.Context, session *model.PaperSession) (*model.PaperSessionView, error) {
	questions, err := s.resolve(ctx, session.Selected)
	if err != nil {
		return nil, err
	}
	return &model.PaperSessionView{
		ID:            session.ID,
		Criteria:      session.Criteria,
		MaxQuestions:  session.MaxQuestions,
		Options:       session.Options,
		Questions:     questions,
		SelectedCount: len(questions),
		TotalMarks:    len(questions) * session.Options.MarksPerQuestion,
		UpdatedAt:     session.UpdatedAt,
	}, nil
}

func (s *PaperService) questionErr(err error, id uuid.UUID) error {
	if errors.Is(err, ErrQuestionNotFound) || isNoRows(err) {
		return ErrQuestionNotFound
	}
	s.log.Error().Err(err).Str("question_id", id.String()).Msg("Failed to load question")
	return fmt.Errorf("get question: %w", err)
}
