package paper

import (
	"github.com/google/uuid"
	"github.com/stemsi/qpaper-backend/internal/model"
	"github.com/stemsi/qpaper-backend/internal/richtext"
)

func newQuestion(subject, chapter, difficulty string, key model.AnswerKey) model.Question {
	return model.Question{
		ID:           uuid.New(),
		QuestionType: model.QuestionTypeText,
		Question:     richtext.HTML("<p>" + subject + " / " + chapter + "</p>"),
		Options:      []richtext.HTML{"one", "two", "three", "four"},
		Subject:      subject,
		Standard:     "11th",
		Chapter:      chapter,
		Difficulty:   difficulty,
		AnswerKey:    key,
	}
}

func ids(qs []model.Question) []uuid.UUID {
	out := make([]uuid.UUID, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}
