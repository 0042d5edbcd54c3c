package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
	"trivia-quiz-service/internal/domain"
)

// QuestionStore keeps the question bank in a SQLite file.
type QuestionStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema exists.
// Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string) (*QuestionStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps :memory: databases coherent
	db.SetMaxOpenConns(1)

	store := &QuestionStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *QuestionStore) Close() error {
	return s.db.Close()
}

func (s *QuestionStore) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS questions (
		id     INTEGER PRIMARY KEY CHECK (id >= 0),
		text   TEXT    NOT NULL,
		answer TEXT    NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Seed inserts questions that are not stored yet. Existing ids are left untouched.
func (s *QuestionStore) Seed(ctx context.Context, questions []domain.Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO questions (id, text, answer) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare seed: %w", err)
	}
	defer stmt.Close()

	for _, q := range questions {
		if _, err := stmt.ExecContext(ctx, q.ID, q.Text, q.Answer); err != nil {
			return fmt.Errorf("seed question %d: %w", q.ID, err)
		}
	}
	return tx.Commit()
}

func (s *QuestionStore) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, text, answer FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.Answer); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return questions, nil
}
