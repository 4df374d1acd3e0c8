package model

import (
	"time"

	"github.com/google/uuid"
)

// Criteria narrows the question bank. Empty fields do not constrain.
type Criteria struct {
	Subject    string `json:"subject" form:"subject"`
	Chapter    string `json:"chapter" form:"chapter"`
	Difficulty string `json:"difficulty" form:"difficulty"`
}

// IsZero reports whether c has no active criterion.
func (c Criteria) IsZero() bool {
	return c.Subject == "" && c.Chapter == "" && c.Difficulty == ""
}

// PaperOptions are the presentation settings of a paper.
type PaperOptions struct {
	Title            string `json:"title"`
	TimeAllowed      string `json:"timeAllowed"`
	MarksPerQuestion int    `json:"marksPerQuestion"`
	Font             string `json:"font"`
	FontSize         string `json:"fontSize"`
}

// PaperSession is the server-held state of one paper being assembled.
// It lives in Redis only and expires when left untouched.
type PaperSession struct {
	ID           uuid.UUID    `json:"id"`
	Criteria     Criteria     `json:"criteria"`
	MaxQuestions int          `json:"maxQuestions"`
	Options      PaperOptions `json:"options"`
	Selected     []uuid.UUID  `json:"selected"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// PaperSessionView is a session with its selection resolved to questions.
type PaperSessionView struct {
	ID            uuid.UUID    `json:"id"`
	Criteria      Criteria     `json:"criteria"`
	MaxQuestions  int          `json:"maxQuestions"`
	Options       PaperOptions `json:"options"`
	Questions     []Question   `json:"questions"`
	SelectedCount int          `json:"selectedCount"`
	TotalMarks    int          `json:"totalMarks"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// Candidate is a filtered question annotated with its selection state.
type Candidate struct {
	Question
	Selected bool `json:"selected"`
}

// CandidateList is the paper view's question list for the current criteria.
type CandidateList struct {
	Criteria      Criteria    `json:"criteria"`
	Chapters      []string    `json:"chapters"`
	Questions     []Candidate `json:"questions"`
	SelectedCount int         `json:"selectedCount"`
	MaxQuestions  int         `json:"maxQuestions"`
}

// PaperOptionsRequest carries partial option updates; nil fields are left unchanged.
type PaperOptionsRequest struct {
	Title            *string `json:"title" binding:"omitempty,max=200"`
	TimeAllowed      *string `json:"timeAllowed" binding:"omitempty,max=50"`
	MarksPerQuestion *int    `json:"marksPerQuestion" binding:"omitempty,min=0,max=100"`
	Font             *string `json:"font" binding:"omitempty,font"`
	FontSize         *string `json:"fontSize" binding:"omitempty,font_size"`
}

// Apply copies the non-nil fields of r onto o.
func (r *PaperOptionsRequest) Apply(o *PaperOptions) {
	if r == nil {
		return
	}
	if r.Title != nil {
		o.Title = *r.Title
	}
	if r.TimeAllowed != nil {
		o.TimeAllowed = *r.TimeAllowed
	}
	if r.MarksPerQuestion != nil {
		o.MarksPerQuestion = *r.MarksPerQuestion
	}
	if r.Font != nil {
		o.Font = *r.Font
	}
	if r.FontSize != nil {
		o.FontSize = *r.FontSize
	}
}

// PaperSettingsRequest creates a session or updates its settings.
type PaperSettingsRequest struct {
	MaxQuestions *int                 `json:"maxQuestions" binding:"omitempty,min=1,max=500"`
	Options      *PaperOptionsRequest `json:"options"`
}

// RenderRequest renders an explicit ordered selection without a session.
type RenderRequest struct {
	QuestionIDs []uuid.UUID          `json:"questionIds" binding:"required,min=1,max=500"`
	Options     *PaperOptionsRequest `json:"options"`
	Variant     string               `json:"variant" binding:"required,oneof=questions answer_key"`
	Channel     string               `json:"channel" binding:"required,oneof=print export sheet"`
}

// RenderQuery selects the variant and channel of a session render.
type RenderQuery struct {
	Variant string `form:"variant" binding:"required,oneof=questions answer_key"`
	Channel string `form:"channel" binding:"required,oneof=print export sheet"`
}
