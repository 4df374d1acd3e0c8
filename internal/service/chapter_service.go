package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/qpaper-backend/internal/config"
	"github.com/stemsi/qpaper-backend/internal/model"
)

// ErrInvalidChapter is returned for a blank name or a subject/standard outside the catalog.
var ErrInvalidChapter = errors.New("invalid chapter")

type ChapterService struct {
	repo    ChapterStore
	catalog *config.Catalog
	log     zerolog.Logger
}

func NewChapterService(repo ChapterStore, catalog *config.Catalog, log zerolog.Logger) *ChapterService {
	return &ChapterService{
		repo:    repo,
		catalog: catalog,
		log:     log.With().Str("component", "chapter_service").Logger(),
	}
}

func (s *ChapterService) List(ctx context.Context) ([]model.Chapter, error) {
	chapters, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list chapters")
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	return chapters, nil
}

// Tree groups chapters by subject and standard. Every catalog subject and
// standard is present, with an empty list when it has no chapters yet.
func (s *ChapterService) Tree(ctx context.Context) (model.ChapterTree, error) {
	chapters, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	tree := make(model.ChapterTree, len(s.catalog.Subjects))
	for _, subject := range s.catalog.Subjects {
		tree[subject] = make(map[string][]string, len(s.catalog.Standards))
		for _, standard := range s.catalog.Standards {
			tree[subject][standard] = []string{}
		}
	}
	for _, ch := range chapters {
		if tree[ch.Subject] == nil {
			tree[ch.Subject] = make(map[string][]string)
		}
		tree[ch.Subject][ch.Standard] = append(tree[ch.Subject][ch.Standard], ch.Name)
	}
	return tree, nil
}

// Propose adds a chapter to the catalog. Proposing an existing chapter is
// not an error; created reports whether a new row was written.
func (s *ChapterService) Propose(ctx context.Context, req model.ProposeChapterRequest) (*model.Chapter, bool, error) {
	ch := &model.Chapter{
		Subject:  strings.TrimSpace(req.Subject),
		Standard: strings.TrimSpace(req.Standard),
		Name:     strings.TrimSpace(req.Name),
	}
	if ch.Name == "" {
		return nil, false, fmt.Errorf("%w: chapter name is empty", ErrInvalidChapter)
	}
	if !s.catalog.HasSubject(ch.Subject) || !s.catalog.HasStandard(ch.Standard) {
		return nil, false, fmt.Errorf("%w: unknown subject or standard %s/%s", ErrInvalidChapter, ch.Subject, ch.Standard)
	}

	created, err := s.repo.Upsert(ctx, ch)
	if err != nil {
		s.log.Error().Err(err).Str("subject", ch.Subject).Str("chapter", ch.Name).Msg("Failed to store chapter")
		return nil, false, fmt.Errorf("propose chapter: %w", err)
	}
	if created {
		s.log.Info().Str("subject", ch.Subject).Str("standard", ch.Standard).Str("chapter", ch.Name).Msg("Chapter added")
	}
	return ch, created, nil
}

// Seed writes the catalog's chapters, skipping ones already stored.
func (s *ChapterService) Seed(ctx context.Context) (int, error) {
	added := 0
	for _, seed := range s.catalog.SeedChapters() {
		_, created, err := s.Propose(ctx, model.ProposeChapterRequest{
			Subject:  seed.Subject,
			Standard: seed.Standard,
			Name:     seed.Name,
		})
		if err != nil {
			return added, err
		}
		if created {
			added++
		}
	}
	return added, nil
}
