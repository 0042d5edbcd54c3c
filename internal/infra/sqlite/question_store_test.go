package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"trivia-quiz-service/internal/domain"
)

func TestQuestionStoreSeedAndLoad(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	empty, err := store.LoadQuestions(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty store, got %d", len(empty))
	}

	if err := store.Seed(ctx, domain.DefaultQuestions()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// reseeding must not duplicate or overwrite
	if err := store.Seed(ctx, []domain.Question{{ID: 0, Text: "changed", Answer: "changed"}}); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	questions, err := store.LoadQuestions(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := domain.DefaultQuestions()
	if len(questions) != len(want) {
		t.Fatalf("expected %d questions, got %d", len(want), len(questions))
	}
	for i := range want {
		if questions[i] != want[i] {
			t.Fatalf("question %d = %+v, want %+v", i, questions[i], want[i])
		}
	}
}

func TestQuestionStorePersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "questions.db")

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Seed(ctx, domain.DefaultQuestions()[:2]); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	questions, err := reopened.LoadQuestions(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 2 || questions[1].Answer != "42" {
		t.Fatalf("unexpected questions %+v", questions)
	}
}
