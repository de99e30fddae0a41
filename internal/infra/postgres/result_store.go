package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"color-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const resultColumns = `id, answers, red_points, yellow_points, green_points, blue_points, created_at`

// ResultStore appends scored submissions to quiz_results.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) SaveResult(ctx context.Context, result domain.QuizResult) (string, error) {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return "", domain.StorageError("encode answers", err)
	}
	id := uuid.NewString()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO quiz_results (`+resultColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, answers, result.Red, result.Yellow, result.Green, result.Blue, result.CreatedAt,
	)
	if err != nil {
		return "", domain.StorageError("insert result", err)
	}
	return id, nil
}

func (s *ResultStore) GetResult(ctx context.Context, id string) (domain.QuizResult, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+resultColumns+` FROM quiz_results WHERE id=$1`, id)
	result, err := scanResult(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizResult{}, domain.ErrResultNotFound
	}
	return result, err
}

func (s *ResultStore) ListResults(ctx context.Context) ([]domain.QuizResult, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+resultColumns+` FROM quiz_results ORDER BY created_at DESC, id`)
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

func scanResult(row pgx.Row) (domain.QuizResult, error) {
	var (
		r       domain.QuizResult
		answers []byte
	)
	err := row.Scan(&r.ID, &answers, &r.Red, &r.Yellow, &r.Green, &r.Blue, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizResult{}, err
	}
	if err != nil {
		return domain.QuizResult{}, domain.StorageError("scan result", err)
	}
	if err := json.Unmarshal(answers, &r.Answers); err != nil {
		return domain.QuizResult{}, domain.StorageError("decode answers", err)
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return r, nil
}
