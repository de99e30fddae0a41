package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"color-quiz-service/internal/domain"
)

// QuestionStore keeps the question bank with options as a JSON column.
type QuestionStore struct {
	db *sql.DB
}

func NewQuestionStore(db *sql.DB) *QuestionStore {
	return &QuestionStore{db: db}
}

func (s *QuestionStore) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT question_number, text, options FROM questions ORDER BY question_number`)
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
	row := s.db.QueryRowContext(ctx, `SELECT question_number, text, options FROM questions WHERE question_number = ?`, number)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, err
}

func (s *QuestionStore) CountQuestions(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM questions`).Scan(&count); err != nil {
		return 0, domain.StorageError("count questions", err)
	}
	return count, nil
}

func (s *QuestionStore) InsertQuestions(ctx context.Context, questions []domain.Question) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM questions`).Scan(&count); err != nil {
			return domain.StorageError("count questions", err)
		}
		if count > 0 {
			return domain.ErrQuestionsInitialized
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO questions (question_number, text, options) VALUES (?, ?, ?)`)
		if err != nil {
			return domain.StorageError("prepare insert question", err)
		}
		defer stmt.Close()

		for _, q := range questions {
			options, err := json.Marshal(q.Options)
			if err != nil {
				return domain.StorageError("encode options", err)
			}
			if _, err := stmt.ExecContext(ctx, q.QuestionNumber, q.Text, string(options)); err != nil {
				return domain.StorageError("insert question", err)
			}
		}
		return nil
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row scanner) (domain.Question, error) {
	var (
		q       domain.Question
		options string
	)
	if err := row.Scan(&q.QuestionNumber, &q.Text, &options); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Question{}, err
		}
		return domain.Question{}, domain.StorageError("scan question", err)
	}
	if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
		return domain.Question{}, domain.StorageError("decode options", err)
	}
	return q, nil
}
