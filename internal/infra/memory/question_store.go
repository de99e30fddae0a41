package memory

import (
	"context"
	"sort"
	"sync"

	"color-quiz-service/internal/domain"
)

// QuestionStore is an in-memory implementation of app.QuestionRepository.
type QuestionStore struct {
	mu        sync.RWMutex
	questions map[int]domain.Question
}

func NewQuestionStore() *QuestionStore {
	return &QuestionStore{questions: make(map[int]domain.Question)}
}

func (s *QuestionStore) ListQuestions(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionNumber < out[j].QuestionNumber })
	return out, nil
}

func (s *QuestionStore) GetQuestion(_ context.Context, number int) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[number]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (s *QuestionStore) CountQuestions(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions), nil
}

func (s *QuestionStore) InsertQuestions(_ context.Context, questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.questions) > 0 {
		return domain.ErrQuestionsInitialized
	}
	for _, q := range questions {
		q.Options = append([]domain.Option(nil), q.Options...)
		s.questions[q.QuestionNumber] = q
	}
	return nil
}
