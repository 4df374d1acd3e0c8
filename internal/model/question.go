package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/qpaper-backend/internal/richtext"
)

// OptionCount is the fixed number of options on every question.
const OptionCount = 4

// ErrInvalidQuestion is wrapped by every Question.Validate failure.
var ErrInvalidQuestion = errors.New("invalid question")

type QuestionType string

const (
	QuestionTypeText QuestionType = "text"
)

// AnswerKey names the correct option by its label.
type AnswerKey string

const (
	AnswerA AnswerKey = "a"
	AnswerB AnswerKey = "b"
	AnswerC AnswerKey = "c"
	AnswerD AnswerKey = "d"
)

// Index returns the zero-based option position of k, or -1 if k is not a label.
func (k AnswerKey) Index() int {
	switch k {
	case AnswerA:
		return 0
	case AnswerB:
		return 1
	case AnswerC:
		return 2
	case AnswerD:
		return 3
	}
	return -1
}

// Question is a multiple-choice question in the bank.
// Field names on the wire are camelCase to match the existing client.
type Question struct {
	ID           uuid.UUID       `json:"id"`
	QuestionType QuestionType    `json:"questionType"`
	Question     richtext.HTML   `json:"question"`
	Options      []richtext.HTML `json:"options"`
	Subject      string          `json:"subject"`
	Standard     string          `json:"standard"`
	Chapter      string          `json:"chapter"`
	Difficulty   string          `json:"difficulty"`
	AnswerKey    AnswerKey       `json:"answerKey"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Validate checks the structural invariants of q. Catalog membership of
// subject, standard and difficulty is checked by the caller.
func (q Question) Validate() error {
	if q.QuestionType != QuestionTypeText {
		return fmt.Errorf("%w: unknown question type %q", ErrInvalidQuestion, q.QuestionType)
	}
	if q.Question.IsEmpty() {
		return fmt.Errorf("%w: question body is empty", ErrInvalidQuestion)
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("%w: want %d options, got %d", ErrInvalidQuestion, OptionCount, len(q.Options))
	}
	if q.AnswerKey.Index() < 0 {
		return fmt.Errorf("%w: answer key %q is not one of a, b, c, d", ErrInvalidQuestion, q.AnswerKey)
	}
	if q.Chapter != "" && q.Subject == "" {
		return fmt.Errorf("%w: chapter %q given without a subject", ErrInvalidQuestion, q.Chapter)
	}
	return nil
}

// QuestionRequest is the payload for creating or replacing a question.
// Standard is a pointer so that an edit which omits it keeps the stored value.
type QuestionRequest struct {
	QuestionType string   `json:"questionType" binding:"omitempty,question_type"`
	Question     string   `json:"question" binding:"required,max=20000"`
	Options      []string `json:"options" binding:"required,len=4,dive,required,max=5000"`
	Subject      string   `json:"subject" binding:"omitempty,subject"`
	Standard     *string  `json:"standard" binding:"omitempty,standard"`
	Chapter      string   `json:"chapter" binding:"max=255,excluded_without=Subject"`
	Difficulty   string   `json:"difficulty" binding:"omitempty,exam_track"`
	AnswerKey    string   `json:"answerKey" binding:"required,answer_key"`
}
