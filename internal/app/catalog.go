package app

import (
	"context"
	"fmt"
	"sort"

	"trivia-quiz-service/internal/domain"
)

// QuestionLoader fetches the question bank from a backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// Catalog is the immutable, ordered question bank.
type Catalog struct {
	questions []domain.Question
}

// NewCatalog orders questions by id and checks the ids are exactly 0..N-1.
func NewCatalog(questions []domain.Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, domain.ErrCatalogEmpty
	}
	ordered := make([]domain.Question, len(questions))
	copy(ordered, questions)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })
	for i, q := range ordered {
		if q.ID != i {
			return nil, fmt.Errorf("%w: position %d has id %d", domain.ErrCatalogNotDense, i, q.ID)
		}
	}
	return &Catalog{questions: ordered}, nil
}

// LoadCatalog reads questions once from loader and freezes them.
func LoadCatalog(ctx context.Context, loader QuestionLoader) (*Catalog, error) {
	questions, err := loader.LoadQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return NewCatalog(questions)
}

// Len is the number of questions, N.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// Question returns the question with the given id.
func (c *Catalog) Question(id int) (domain.Question, bool) {
	if id < 0 || id >= len(c.questions) {
		return domain.Question{}, false
	}
	return c.questions[id], true
}

// Questions returns a copy of the catalog in id order.
func (c *Catalog) Questions() []domain.Question {
	out := make([]domain.Question, len(c.questions))
	copy(out, c.questions)
	return out
}
