package memory

import (
	"context"

	"trivia-quiz-service/internal/domain"
)

// StaticQuestionLoader serves a fixed question list (built-in catalog, tests).
type StaticQuestionLoader struct {
	questions []domain.Question
}

func NewStaticQuestionLoader(questions []domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: questions}
}

// NewDefaultQuestionLoader serves domain.DefaultQuestions.
func NewDefaultQuestionLoader() *StaticQuestionLoader {
	return NewStaticQuestionLoader(domain.DefaultQuestions())
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	if len(l.questions) == 0 {
		return nil, domain.ErrCatalogEmpty
	}
	out := make([]domain.Question, len(l.questions))
	copy(out, l.questions)
	return out, nil
}
