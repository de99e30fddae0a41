package memory

import (
	"context"
	"testing"
	"time"

	"color-quiz-service/internal/app"
	"color-quiz-service/internal/domain"
)

func TestQuestionCacheCaches(t *testing.T) {
	store := &countingStore{QuestionRepository: seededStore(t)}
	cache := NewQuestionCache(store, time.Minute)

	if _, err := cache.ListQuestions(context.Background()); err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if store.lists != 1 {
		t.Fatalf("expected store once, got %d", store.lists)
	}

	q, err := cache.GetQuestion(context.Background(), 2)
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if q.Text != "Second" {
		t.Fatalf("expected second question, got %+v", q)
	}
	if store.lists != 1 {
		t.Fatalf("expected cache hit, store calls %d", store.lists)
	}
}

func TestQuestionCacheExpires(t *testing.T) {
	store := &countingStore{QuestionRepository: seededStore(t)}
	cache := NewQuestionCache(store, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	_, _ = cache.ListQuestions(context.Background())
	now = now.Add(2 * time.Minute)
	_, _ = cache.ListQuestions(context.Background())

	if store.lists != 2 {
		t.Fatalf("expected reload after ttl, store calls %d", store.lists)
	}
}

func TestQuestionCacheSkipsEmptyBankAndInvalidatesOnInsert(t *testing.T) {
	store := &countingStore{QuestionRepository: NewQuestionStore()}
	cache := NewQuestionCache(store, time.Minute)
	ctx := context.Background()

	questions, err := cache.ListQuestions(ctx)
	if err != nil || len(questions) != 0 {
		t.Fatalf("expected empty bank, got %v %v", questions, err)
	}
	if err := cache.InsertQuestions(ctx, sampleQuestions()); err != nil {
		t.Fatalf("insert: %v", err)
	}
	questions, _ = cache.ListQuestions(ctx)
	if len(questions) != 2 {
		t.Fatalf("expected inserted questions to be visible, got %d", len(questions))
	}
	if _, err := cache.GetQuestion(ctx, 99); err != domain.ErrQuestionNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

type countingStore struct {
	app.QuestionRepository
	lists int
}

func (s *countingStore) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	s.lists++
	return s.QuestionRepository.ListQuestions(ctx)
}

func seededStore(t *testing.T) *QuestionStore {
	t.Helper()
	store := NewQuestionStore()
	if err := store.InsertQuestions(context.Background(), sampleQuestions()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			QuestionNumber: 1,
			Text:           "First",
			Options: []domain.Option{
				{Key: "a", Text: "Bold"},
				{Key: "b", Text: "Cheerful"},
			},
		},
		{
			QuestionNumber: 2,
			Text:           "Second",
			Options: []domain.Option{
				{Key: "c", Text: "Calm"},
				{Key: "d", Text: "Precise"},
			},
		},
	}
}
