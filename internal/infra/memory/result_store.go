package memory

import (
	"context"
	"slices"
	"sync"

	"lesson-quiz-service/internal/domain"
)

// ResultStore is an in-memory implementation of app.ResultRepository.
type ResultStore struct {
	mu      sync.RWMutex
	results []domain.UserResult
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) Create(_ context.Context, result domain.UserResult) (domain.UserResult, error) {
	result.Answers = slices.Clone(result.Answers)
	s.mu.Lock()
	s.results = append(s.results, result)
	s.mu.Unlock()
	return result, nil
}

// List returns matching results newest first; equal timestamps keep insertion order.
func (s *ResultStore) List(_ context.Context, filter domain.ResultFilter) ([]domain.UserResult, error) {
	s.mu.RLock()
	matched := make([]domain.UserResult, 0)
	for _, r := range s.results {
		if r.UserID != filter.UserID {
			continue
		}
		if filter.LessonID != "" && r.LessonID != filter.LessonID {
			continue
		}
		matched = append(matched, r)
	}
	s.mu.RUnlock()

	slices.SortStableFunc(matched, func(a, b domain.UserResult) int {
		return b.CompletedAt.Compare(a.CompletedAt)
	})
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// Len reports the number of stored results.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}
