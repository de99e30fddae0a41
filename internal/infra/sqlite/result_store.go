package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"color-quiz-service/internal/domain"
	"github.com/google/uuid"
)

const resultColumns = `id, answers, red_points, yellow_points, green_points, blue_points, created_at`

// ResultStore appends scored submissions to quiz_results.
type ResultStore struct {
	db *sql.DB
}

func NewResultStore(db *sql.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) SaveResult(ctx context.Context, result domain.QuizResult) (string, error) {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return "", domain.StorageError("encode answers", err)
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_results (`+resultColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, string(answers), result.Red, result.Yellow, result.Green, result.Blue, formatTime(result.CreatedAt),
	)
	if err != nil {
		return "", domain.StorageError("insert result", err)
	}
	return id, nil
}

func (s *ResultStore) GetResult(ctx context.Context, id string) (domain.QuizResult, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM quiz_results WHERE id = ?`, id)
	result, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QuizResult{}, domain.ErrResultNotFound
	}
	return result, err
}

func (s *ResultStore) ListResults(ctx context.Context) ([]domain.QuizResult, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+resultColumns+` FROM quiz_results ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, domain.StorageError("list results", err)
	}
	defer rows.Close()

	results := make([]domain.QuizResult, 0)
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError("list results", err)
	}
	return results, nil
}

func scanResult(row scanner) (domain.QuizResult, error) {
	var (
		r         domain.QuizResult
		answers   string
		createdAt string
	)
	err := row.Scan(&r.ID, &answers, &r.Red, &r.Yellow, &r.Green, &r.Blue, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QuizResult{}, err
	}
	if err != nil {
		return domain.QuizResult{}, domain.StorageError("scan result", err)
	}
	if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
		return domain.QuizResult{}, domain.StorageError("decode answers", err)
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.QuizResult{}, err
	}
	return r, nil
}
