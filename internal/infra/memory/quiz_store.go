package memory

import (
	"context"
	"sync"

	"lesson-quiz-service/internal/domain"
)

// QuizStore keeps quizzes in insertion order (useful for tests/demos).
type QuizStore struct {
	mu      sync.RWMutex
	quizzes []domain.Quiz
}

func NewQuizStore(quizzes ...domain.Quiz) *QuizStore {
	s := &QuizStore{}
	for _, q := range quizzes {
		if q.ID == "" {
			q.ID = domain.NewID()
		}
		s.quizzes = append(s.quizzes, q)
	}
	return s
}

func (s *QuizStore) FindByLesson(_ context.Context, lessonID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range s.quizzes {
		if q.LessonID == lessonID {
			return q, nil
		}
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

func (s *QuizStore) SampleCount(_ context.Context, limit int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return min(limit, len(s.quizzes)), nil
}

// ReplaceForLesson deletes the lesson's quiz, if any, and stores quiz under a new id.
func (s *QuizStore) ReplaceForLesson(_ context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.quizzes[:0]
	for _, q := range s.quizzes {
		if q.LessonID != quiz.LessonID {
			kept = append(kept, q)
		}
	}
	quiz.ID = domain.NewID()
	s.quizzes = append(kept, quiz)
	return quiz, nil
}
