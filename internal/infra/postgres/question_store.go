package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"color-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionStore keeps the question bank in the questions table, options as JSONB.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `SELECT question_number, text, options FROM questions ORDER BY question_number`)
	if err != nil {
		return nil, domain.StorageError("list questions", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list questions", err)
	}
	return questions, nil
}

func (s *QuestionStore) GetQuestion(ctx context.Context, number int) (domain.Question, error) {
	row := s.pool.QueryRow(ctx, `SELECT question_number, text, options FROM questions WHERE question_number=$1`, number)
	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, err
}

func (s *QuestionStore) CountQuestions(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM questions`).Scan(&count); err != nil {
		return 0, domain.StorageError("count questions", err)
	}
	return count, nil
}

func (s *QuestionStore) InsertQuestions(ctx context.Context, questions []domain.Question) error {
	return withLockedTx(ctx, s.pool, questionsLockKey, func(tx pgx.Tx) error {
		var count int
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM questions`).Scan(&count); err != nil {
			return domain.StorageError("count questions", err)
		}
		if count > 0 {
			return domain.ErrQuestionsInitialized
		}

		batch := &pgx.Batch{}
		for _, q := range questions {
			options, err := json.Marshal(q.Options)
			if err != nil {
				return domain.StorageError("encode options", err)
			}
			batch.Queue(`INSERT INTO questions (question_number, text, options) VALUES ($1, $2, $3)`, q.QuestionNumber, q.Text, options)
		}
		br := tx.SendBatch(ctx, batch)
		for range questions {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return domain.StorageError("insert question", err)
			}
		}
		if err := br.Close(); err != nil {
			return domain.StorageError("insert questions", err)
		}
		return nil
	})
}

func scanQuestion(row pgx.Row) (domain.Question, error) {
	var (
		q       domain.Question
		options []byte
	)
	if err := row.Scan(&q.QuestionNumber, &q.Text, &options); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Question{}, err
		}
		return domain.Question{}, domain.StorageError("scan question", err)
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return domain.Question{}, domain.StorageError("decode options", err)
	}
	return q, nil
}
