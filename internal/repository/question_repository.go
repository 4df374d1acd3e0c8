package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/qpaper-backend/internal/model"
)

const questionColumns = `id, question_type, question, options, subject, standard, chapter, difficulty, answer_key, created_at, updated_at`

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

func scanQuestion(row pgx.Row, q *model.Question) error {
	return row.Scan(&q.ID, &q.QuestionType, &q.Question, &q.Options, &q.Subject, &q.Standard,
		&q.Chapter, &q.Difficulty, &q.AnswerKey, &q.CreatedAt, &q.UpdatedAt)
}

func collectQuestions(rows pgx.Rows) ([]model.Question, error) {
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var q model.Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// List returns every question in insertion order.
func (r *QuestionRepository) List(ctx context.Context) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return collectQuestions(rows)
}

// ListByIDs returns the questions whose id is in ids, in insertion order.
// Unknown ids are skipped.
func (r *QuestionRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Question, error) {
	if len(ids) == 0 {
		return []model.Question{}, nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = ANY($1::uuid[]) ORDER BY seq`, strIDs)
	if err != nil {
		return nil, err
	}
	return collectQuestions(rows)
}

// GetByID returns pgx.ErrNoRows when the question does not exist.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	var q model.Question
	row := r.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	if err := scanQuestion(row, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// Create inserts q and fills in its generated id and timestamps.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (question_type, question, options, subject, standard, chapter, difficulty, answer_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		q.QuestionType, q.Question, options, q.Subject, q.Standard, q.Chapter, q.Difficulty, q.AnswerKey,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// CreateBatch inserts all questions in one transaction; either all land or none do.
func (r *QuestionRepository) CreateBatch(ctx context.Context, questions []*model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("encode options: %w", err)
		}
		batch.Queue(
			`INSERT INTO questions (question_type, question, options, subject, standard, chapter, difficulty, answer_key)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id, created_at, updated_at`,
			q.QuestionType, q.Question, options, q.Subject, q.Standard, q.Chapter, q.Difficulty, q.AnswerKey,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i, q := range questions {
		if err := br.QueryRow().Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt); err != nil {
			br.Close()
			return fmt.Errorf("insert question %d: %w", i+1, err)
		}
	}
	if err := br.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update replaces every editable field of q. Returns pgx.ErrNoRows when q.ID is unknown.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`UPDATE questions
		 SET question_type = $1, question = $2, options = $3, subject = $4, standard = $5,
		     chapter = $6, difficulty = $7, answer_key = $8, updated_at = NOW()
		 WHERE id = $9
		 RETURNING created_at, updated_at`,
		q.QuestionType, q.Question, options, q.Subject, q.Standard, q.Chapter, q.Difficulty, q.AnswerKey, q.ID,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
}

// Delete removes a question and reports whether it existed.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
