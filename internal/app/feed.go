package app

import (
	"sync"

	"lesson-quiz-service/internal/domain"
)

// ResultFeed fans newly saved results out to subscribers of the same user.
type ResultFeed struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.UserResult]struct{}
}

func NewResultFeed() *ResultFeed {
	return &ResultFeed{subscribers: make(map[string]map[chan domain.UserResult]struct{})}
}

// Subscribe returns a channel receiving results saved for userID.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *ResultFeed) Subscribe(userID string) (<-chan domain.UserResult, func()) {
	ch := make(chan domain.UserResult, 8)

	f.mu.Lock()
	subs, ok := f.subscribers[userID]
	if !ok {
		subs = make(map[chan domain.UserResult]struct{})
		f.subscribers[userID] = subs
	}
	subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		subs := f.subscribers[userID]
		if _, ok := subs[ch]; !ok {
			return
		}
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(f.subscribers, userID)
		}
	}
	return ch, cancel
}

// Publish delivers result to the owner's subscribers without blocking.
func (f *ResultFeed) Publish(result domain.UserResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers[result.UserID] {
		select {
		case ch <- result:
		default:
			// slow subscriber: drop its oldest pending result
			select {
			case <-ch:
			default:
			}
			ch <- result
		}
	}
}

// Subscribers reports the number of live subscriptions for userID.
func (f *ResultFeed) Subscribers(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers[userID])
}
