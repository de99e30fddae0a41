package app

import (
	"sync"

	"color-quiz-service/internal/domain"
)

// ResultFeed fans out summaries of newly stored results to live subscribers.
type ResultFeed struct {
	mu          sync.Mutex
	subscribers map[chan domain.ResultSummary]struct{}
}

func NewResultFeed() *ResultFeed {
	return &ResultFeed{subscribers: make(map[chan domain.ResultSummary]struct{})}
}

// Subscribe returns a channel of new result summaries.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *ResultFeed) Subscribe() (<-chan domain.ResultSummary, func()) {
	ch := make(chan domain.ResultSummary, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish never blocks: a subscriber with a full buffer loses its oldest pending summary.
func (f *ResultFeed) Publish(summary domain.ResultSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- summary:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- summary
		}
	}
}

// Subscribers reports how many listeners are attached.
func (f *ResultFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
