package app

import (
	"testing"

	"color-quiz-service/internal/domain"
)

func TestResultFeedDeliversToEverySubscriber(t *testing.T) {
	feed := NewResultFeed()
	first, cancelFirst := feed.Subscribe()
	second, cancelSecond := feed.Subscribe()
	defer cancelFirst()
	defer cancelSecond()

	feed.Publish(domain.ResultSummary{ResultID: "r1"})

	if got := (<-first).ResultID; got != "r1" {
		t.Fatalf("first subscriber got %q", got)
	}
	if got := (<-second).ResultID; got != "r1" {
		t.Fatalf("second subscriber got %q", got)
	}
}

func TestResultFeedDropsOldestWhenFull(t *testing.T) {
	feed := NewResultFeed()
	ch, cancel := feed.Subscribe()
	defer cancel()

	for i := 0; i < 10; i++ {
		feed.Publish(domain.ResultSummary{ResultID: string(rune('a' + i))})
	}

	// buffer holds 8, the two oldest are gone
	if got := (<-ch).ResultID; got != "c" {
		t.Fatalf("expected oldest retained summary c, got %q", got)
	}
}

func TestResultFeedCancelClosesChannel(t *testing.T) {
	feed := NewResultFeed()
	ch, cancel := feed.Subscribe()
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}
	if feed.Subscribers() != 0 {
		t.Fatalf("expected no subscribers, got %d", feed.Subscribers())
	}
	feed.Publish(domain.ResultSummary{ResultID: "after"})
}
