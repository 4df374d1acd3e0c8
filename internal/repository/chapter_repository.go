package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/qpaper-backend/internal/model"
)

type ChapterRepository struct {
	pool *pgxpool.Pool
}

func NewChapterRepository(pool *pgxpool.Pool) *ChapterRepository {
	return &ChapterRepository{pool: pool}
}

func (r *ChapterRepository) List(ctx context.Context) ([]model.Chapter, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, subject, standard, name, created_at FROM chapters ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chapters := []model.Chapter{}
	for rows.Next() {
		var ch model.Chapter
		if err := rows.Scan(&ch.ID, &ch.Subject, &ch.Standard, &ch.Name, &ch.CreatedAt); err != nil {
			return nil, err
		}
		chapters = append(chapters, ch)
	}
	return chapters, rows.Err()
}

// Upsert stores ch unless the same subject/standard/name already exists.
// created is false when the row was already there.
func (r *ChapterRepository) Upsert(ctx context.Context, ch *model.Chapter) (created bool, err error) {
	err = r.pool.QueryRow(ctx,
		`INSERT INTO chapters (subject, standard, name) VALUES ($1, $2, $3)
		 ON CONFLICT ON CONSTRAINT chapters_subject_standard_name_key
		 DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, created_at, (xmax = 0)`,
		ch.Subject, ch.Standard, ch.Name,
	).Scan(&ch.ID, &ch.CreatedAt, &created)
	return created, err
}
