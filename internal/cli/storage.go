package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"color-quiz-service/internal/app"
	"color-quiz-service/internal/config"
	"color-quiz-service/internal/infra/memory"
	"color-quiz-service/internal/infra/postgres"
	rediscache "color-quiz-service/internal/infra/redis"
	"color-quiz-service/internal/infra/sqlite"
	"color-quiz-service/internal/infra/token"
	"github.com/redis/go-redis/v9"
)

// backend bundles the repositories for the configured storage driver.
type backend struct {
	questions app.QuestionRepository
	results   app.ResultRepository
	admins    app.AdminRepository
	redis     *redis.Client
	// truncate empties every table of a persistent store.
	truncate func(ctx context.Context) error
	closers  []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	b := &backend{}
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, err
		}
		pool, err := postgres.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		b.questions = postgres.NewQuestionStore(pool)
		b.results = postgres.NewResultStore(pool)
		b.admins = postgres.NewAdminStore(pool)
		b.truncate = func(ctx context.Context) error { return truncateWithConfig(ctx, cfg) }
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = db.Close() })
		b.questions = sqlite.NewQuestionStore(db)
		b.results = sqlite.NewResultStore(db)
		b.admins = sqlite.NewAdminStore(db)
		b.truncate = func(ctx context.Context) error { return sqlite.Truncate(ctx, db) }
	default:
		b.questions = memory.NewQuestionStore()
		b.results = memory.NewResultStore()
		b.admins = memory.NewAdminStore()
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = b.redis.Close() })
		redisTTL := config.TTLDuration(cfg.Redis.TTL, quizTTL)
		b.questions = rediscache.NewQuestionCache(b.redis, b.questions, redisTTL)
	} else {
		b.questions = memory.NewQuestionCache(b.questions, quizTTL)
	}
	log.Printf("storage driver: %s, redis: %t", cfg.Storage.Driver, b.redis != nil)
	return b, nil
}

// newServices wires the use cases on top of a backend. A non-nil relay must be run
// by the caller.
func newServices(cfg config.Config, b *backend) (*app.QuizService, *app.AuthService, *rediscache.ResultRelay) {
	feed := app.NewResultFeed()
	quiz := app.NewQuizService(b.questions, b.results, app.FileQuestionSource(cfg.Quiz.QuestionsFile), feed)

	var relay *rediscache.ResultRelay
	if b.redis != nil {
		relay = rediscache.NewResultRelay(b.redis, feed)
		quiz.UsePublisher(relay)
	}

	tokens := token.NewJWTManager(cfg.Auth.JWTSecret, config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour))
	return quiz, app.NewAuthService(b.admins, tokens), relay
}

func openConfigured(ctx context.Context, path string) (config.Config, *backend, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, b, nil
}
