package memory

import (
	"context"
	"sort"
	"sync"

	"color-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// ResultStore is an in-memory, append-only implementation of app.ResultRepository.
type ResultStore struct {
	mu      sync.RWMutex
	byID    map[string]int
	results []domain.QuizResult
}

func NewResultStore() *ResultStore {
	return &ResultStore{byID: make(map[string]int)}
}

func (s *ResultStore) SaveResult(_ context.Context, result domain.QuizResult) (string, error) {
	result.ID = uuid.NewString()
	result.Answers = cloneAnswers(result.Answers)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[result.ID] = len(s.results)
	s.results = append(s.results, result)
	return result.ID, nil
}

func (s *ResultStore) GetResult(_ context.Context, id string) (domain.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return domain.QuizResult{}, domain.ErrResultNotFound
	}
	return s.results[i], nil
}

func (s *ResultStore) ListResults(_ context.Context) ([]domain.QuizResult, error) {
	s.mu.RLock()
	out := make([]domain.QuizResult, len(s.results))
	// newest insert first, then a stable sort keeps that order among equal timestamps
	for i, r := range s.results {
		out[len(s.results)-1-i] = r
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func cloneAnswers(answers []domain.Answer) []domain.Answer {
	out := make([]domain.Answer, len(answers))
	for i, a := range answers {
		out[i] = domain.Answer{
			QuestionNumber:  a.QuestionNumber,
			SelectedOptions: append([]domain.SelectedOption(nil), a.SelectedOptions...),
		}
	}
	return out
}
