package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"color-quiz-service/internal/domain"
)

// QuestionRepository stores the question bank (in-memory, Postgres, SQLite, cached, etc).
type QuestionRepository interface {
	ListQuestions(ctx context.Context) ([]domain.Question, error)
	GetQuestion(ctx context.Context, number int) (domain.Question, error)
	CountQuestions(ctx context.Context) (int, error)
	// InsertQuestions stores the whole bank at once and fails with
	// domain.ErrQuestionsInitialized if any question already exists.
	InsertQuestions(ctx context.Context, questions []domain.Question) error
}

// ResultRepository is the append-only store of scored submissions.
type ResultRepository interface {
	// SaveResult assigns an id and returns it.
	SaveResult(ctx context.Context, result domain.QuizResult) (string, error)
	GetResult(ctx context.Context, id string) (domain.QuizResult, error)
	// ListResults returns results newest first.
	ListResults(ctx context.Context) ([]domain.QuizResult, error)
}

// QuestionSource produces the questions used to seed an empty bank.
type QuestionSource interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// ResultPublisher announces stored results. ResultFeed delivers locally; a broker-backed
// publisher can relay to every instance's feed instead.
type ResultPublisher interface {
	Publish(summary domain.ResultSummary)
}

// FileQuestionSource parses a seed file from disk.
type FileQuestionSource string

func (p FileQuestionSource) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	file, err := os.Open(string(p))
	if err != nil {
		return nil, fmt.Errorf("open questions file: %w", err)
	}
	defer file.Close()
	return ParseQuestionsReader(file)
}

// QuizService contains the quiz use cases.
type QuizService struct {
	questions QuestionRepository
	results   ResultRepository
	source    QuestionSource
	feed      *ResultFeed
	publisher ResultPublisher
	now       func() time.Time
}

func NewQuizService(questions QuestionRepository, results ResultRepository, source QuestionSource, feed *ResultFeed) *QuizService {
	return NewQuizServiceWithClock(questions, results, source, feed, time.Now)
}

// NewQuizServiceWithClock is test-only for deterministic timestamps.
func NewQuizServiceWithClock(questions QuestionRepository, results ResultRepository, source QuestionSource, feed *ResultFeed, now func() time.Time) *QuizService {
	if feed == nil {
		feed = NewResultFeed()
	}
	return &QuizService{questions: questions, results: results, source: source, feed: feed, publisher: feed, now: now}
}

// UsePublisher routes new result announcements through p instead of the local feed.
func (s *QuizService) UsePublisher(p ResultPublisher) {
	s.publisher = p
}

// Questions returns the bank ordered by question number.
func (s *QuizService) Questions(ctx context.Context) ([]domain.Question, error) {
	return s.questions.ListQuestions(ctx)
}

// Question returns a single question.
func (s *QuizService) Question(ctx context.Context, number int) (domain.Question, error) {
	return s.questions.GetQuestion(ctx, number)
}

// InitQuestions seeds an empty bank from the configured source.
func (s *QuizService) InitQuestions(ctx context.Context) ([]domain.Question, error) {
	count, err := s.questions.CountQuestions(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrQuestionsInitialized
	}

	questions, err := s.source.LoadQuestions(ctx)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestionsParsed
	}
	if err := checkQuestionNumbers(questions); err != nil {
		return nil, err
	}

	if err := s.questions.InsertQuestions(ctx, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func checkQuestionNumbers(questions []domain.Question) error {
	seen := make(map[int]struct{}, len(questions))
	for _, q := range questions {
		if q.QuestionNumber <= 0 {
			return domain.NewValidationError(domain.InvalidRequest, fmt.Sprintf("question number %d is not positive", q.QuestionNumber))
		}
		if _, dup := seen[q.QuestionNumber]; dup {
			return domain.NewValidationError(domain.InvalidRequest, fmt.Sprintf("question number %d appears twice in the questions file", q.QuestionNumber))
		}
		seen[q.QuestionNumber] = struct{}{}
	}
	return nil
}

// Submit scores a full answer set, stores it and announces it on the results feed.
func (s *QuizService) Submit(ctx context.Context, answers []domain.Answer) (domain.QuizResult, error) {
	totals, err := Evaluate(answers)
	if err != nil {
		return domain.QuizResult{}, err
	}

	result := domain.QuizResult{
		Answers:     answers,
		ColorTotals: totals,
		CreatedAt:   s.now().UTC(),
	}
	id, err := s.results.SaveResult(ctx, result)
	if err != nil {
		return domain.QuizResult{}, err
	}
	result.ID = id

	s.publisher.Publish(result.Summary())
	return result, nil
}

// Result fetches one stored result.
func (s *QuizService) Result(ctx context.Context, id string) (domain.QuizResult, error) {
	return s.results.GetResult(ctx, id)
}

// Results lists every stored result, newest first.
func (s *QuizService) Results(ctx context.Context) ([]domain.QuizResult, error) {
	return s.results.ListResults(ctx)
}

// SubscribeResults streams summaries of results submitted from now on.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) SubscribeResults(_ context.Context) (<-chan domain.ResultSummary, func()) {
	return s.feed.Subscribe()
}
