package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"trivia-quiz-service/internal/domain"
)

// questionRow maps domain.Question onto the questions table.
type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID     int    `bun:"id,pk"`
	Text   string `bun:"text,notnull"`
	Answer string `bun:"answer,notnull"`
}

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			rows := questionRows(domain.DefaultQuestions())
			_, err := db.NewInsert().Model(&rows).On("CONFLICT (id) DO NOTHING").Exec(ctx)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.NewDelete().
				Model((*questionRow)(nil)).
				Where("id < ?", len(domain.DefaultQuestions())).
				Exec(ctx)
			return err
		},
	)
}

func questionRows(questions []domain.Question) []questionRow {
	rows := make([]questionRow, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, questionRow{ID: q.ID, Text: q.Text, Answer: q.Answer})
	}
	return rows
}
