// Package paper assembles question papers: it narrows the question bank,
// keeps a bounded selection and renders the selection as a printable or
// downloadable document. Everything here is pure and storage-agnostic.
package paper

import (
	"slices"
	"strings"

	"github.com/stemsi/qpaper-backend/internal/model"
	"golang.org/x/text/cases"
)

// MatchMode decides how the subject criterion is compared.
type MatchMode int

const (
	// ExactMatch compares subject case-sensitively for equality.
	ExactMatch MatchMode = iota
	// SubstringMatch accepts any subject containing the criterion, ignoring case.
	SubstringMatch
)

// Filter narrows a question list by criteria.
type Filter struct {
	Mode MatchMode
}

var (
	// PaperFilter is used while building a paper.
	PaperFilter = Filter{Mode: ExactMatch}
	// BrowseFilter is used by the question list view.
	BrowseFilter = Filter{Mode: SubstringMatch}
)

// Apply returns the questions matching every non-empty criterion. When a
// chapter criterion is set the result is stably ordered by chapter name;
// otherwise input order is kept. The input slice is never modified.
func (f Filter) Apply(questions []model.Question, c model.Criteria) []model.Question {
	out := make([]model.Question, 0, len(questions))

	var folded string
	if f.Mode == SubstringMatch {
		folded = fold(c.Subject)
	}

	for _, q := range questions {
		if c.Subject != "" && !f.subjectMatches(q.Subject, c.Subject, folded) {
			continue
		}
		if c.Chapter != "" && q.Chapter != c.Chapter {
			continue
		}
		if c.Difficulty != "" && q.Difficulty != c.Difficulty {
			continue
		}
		out = append(out, q)
	}

	if c.Chapter != "" {
		slices.SortStableFunc(out, func(a, b model.Question) int {
			return strings.Compare(a.Chapter, b.Chapter)
		})
	}
	return out
}

func (f Filter) subjectMatches(subject, want, foldedWant string) bool {
	if f.Mode == SubstringMatch {
		return strings.Contains(fold(subject), foldedWant)
	}
	return subject == want
}

// cases.Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// ChaptersFor lists the distinct chapters used by questions of subject, in first-seen order.
func ChaptersFor(questions []model.Question, subject string) []string {
	chapters := []string{}
	seen := make(map[string]struct{})
	for _, q := range questions {
		if q.Subject != subject || q.Chapter == "" {
			continue
		}
		if _, ok := seen[q.Chapter]; ok {
			continue
		}
		seen[q.Chapter] = struct{}{}
		chapters = append(chapters, q.Chapter)
	}
	return chapters
}
