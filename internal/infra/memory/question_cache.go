package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"color-quiz-service/internal/app"
	"color-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

const questionsKey = "questions"

// QuestionCache caches the question list with TTL to avoid repeated store hits.
// Writes go straight to the backing store and drop the cached copy.
type QuestionCache struct {
	store app.QuestionRepository
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu      sync.RWMutex
	cached  []domain.Question
	expires time.Time
}

func NewQuestionCache(store app.QuestionRepository, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		store: store,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	if questions, ok := c.fresh(c.clock()); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(questionsKey, func() (interface{}, error) {
		now := c.clock()
		if questions, ok := c.fresh(now); ok {
			return questions, nil
		}

		questions, err := c.store.ListQuestions(ctx)
		if err != nil {
			return nil, err
		}
		// An empty bank is not cached so the first init shows up immediately.
		if len(questions) > 0 {
			c.mu.Lock()
			c.cached = questions
			c.expires = now.Add(c.ttlWithJitter())
			c.mu.Unlock()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *QuestionCache) GetQuestion(ctx context.Context, number int) (domain.Question, error) {
	questions, err := c.ListQuestions(ctx)
	if err != nil {
		return domain.Question{}, err
	}
	for _, q := range questions {
		if q.QuestionNumber == number {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (c *QuestionCache) CountQuestions(ctx context.Context) (int, error) {
	return c.store.CountQuestions(ctx)
}

func (c *QuestionCache) InsertQuestions(ctx context.Context, questions []domain.Question) error {
	defer c.invalidate()
	return c.store.InsertQuestions(ctx, questions)
}

func (c *QuestionCache) fresh(now time.Time) ([]domain.Question, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cached != nil && c.expires.After(now) {
		return c.cached, true
	}
	return nil, false
}

func (c *QuestionCache) invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.expires = time.Time{}
	c.mu.Unlock()
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
