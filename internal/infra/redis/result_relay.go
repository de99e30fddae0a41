package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"color-quiz-service/internal/app"
	"color-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ResultsChannel is the pub/sub channel carrying result summaries between instances.
const ResultsChannel = "quiz:results"

// ResultRelay publishes result summaries over Redis pub/sub and feeds every summary it
// receives into the local ResultFeed, so admins connected to any instance see all results.
type ResultRelay struct {
	client  *redis.Client
	feed    *app.ResultFeed
	timeout time.Duration
}

func NewResultRelay(client *redis.Client, feed *app.ResultFeed) *ResultRelay {
	return &ResultRelay{client: client, feed: feed, timeout: 2 * time.Second}
}

// Publish sends the summary to the channel. If Redis is unreachable the summary is
// delivered locally only.
func (r *ResultRelay) Publish(summary domain.ResultSummary) {
	raw, err := json.Marshal(summary)
	if err != nil {
		log.Printf("encode result summary %s: %v", summary.ResultID, err)
		r.feed.Publish(summary)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.client.Publish(ctx, ResultsChannel, raw).Err(); err != nil {
		log.Printf("publish result summary %s: %v", summary.ResultID, err)
		r.feed.Publish(summary)
	}
}

// Run forwards channel messages to the local feed until ctx is done.
// ready is closed once the subscription is confirmed.
func (r *ResultRelay) Run(ctx context.Context, ready chan<- struct{}) error {
	sub := r.client.Subscribe(ctx, ResultsChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return domain.StorageError("subscribe results channel", err)
	}
	if ready != nil {
		close(ready)
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var summary domain.ResultSummary
			if err := json.Unmarshal([]byte(msg.Payload), &summary); err != nil {
				log.Printf("drop malformed result summary: %v", err)
				continue
			}
			r.feed.Publish(summary)
		}
	}
}
