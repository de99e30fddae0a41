package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"color-quiz-service/internal/app"
	"color-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionsKey holds the JSON-encoded question list.
const QuestionsKey = "quiz:questions"

// QuestionCache caches the question bank in Redis and falls back to the backing store on a miss.
// Writes go to the store and delete the cached copy.
type QuestionCache struct {
	client *redis.Client
	store  app.QuestionRepository
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionCache(client *redis.Client, store app.QuestionRepository, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		store:  store,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	if questions, ok := c.cached(ctx); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(QuestionsKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := c.cached(ctx); ok {
			return questions, nil
		}

		questions, err := c.store.ListQuestions(ctx)
		if err != nil {
			return nil, err
		}
		if len(questions) == 0 {
			return questions, nil
		}

		raw, err := json.Marshal(questions)
		if err != nil {
			return questions, nil
		}
		// a failed write only costs the next caller a store read
		_ = c.client.Set(ctx, QuestionsKey, raw, c.ttlWithJitter()).Err()
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
	if err := c.store.InsertQuestions(ctx, questions); err != nil {
		return err
	}
	// the bank is written; a stale cached list only lives until its TTL
	if err := c.Invalidate(ctx); err != nil {
		log.Printf("%v", err)
	}
	return nil
}

// Invalidate drops the cached list.
func (c *QuestionCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, QuestionsKey).Err(); err != nil {
		return domain.StorageError("invalidate question cache", err)
	}
	return nil
}

func (c *QuestionCache) cached(ctx context.Context) ([]domain.Question, bool) {
	raw, err := c.client.Get(ctx, QuestionsKey).Bytes()
	if err != nil {
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil || len(questions) == 0 {
		return nil, false
	}
	return questions, true
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

