package app

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"lesson-quiz-service/internal/domain"
)

// sampleLimit bounds the diagnostic scan done when a quiz is missing.
const sampleLimit = 5

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	FindByLesson(ctx context.Context, lessonID string) (domain.Quiz, error)
	// SampleCount reports how many quizzes exist, up to limit.
	SampleCount(ctx context.Context, limit int) (int, error)
}

// QuizWriter replaces the quiz attached to a lesson. Only the fixture path writes.
type QuizWriter interface {
	ReplaceForLesson(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error)
}

// QuizCache is implemented by caching repositories that can drop an entry.
type QuizCache interface {
	Forget(ctx context.Context, lessonID string) error
}

// QuizService contains the quiz retrieval use cases.
type QuizService struct {
	quizzes QuizRepository
	writer  QuizWriter
	log     *zap.Logger
}

func NewQuizService(quizzes QuizRepository, writer QuizWriter, log *zap.Logger) *QuizService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuizService{quizzes: quizzes, writer: writer, log: log}
}

// GetQuiz returns the quiz for lessonID. Malformed ids are rejected before the
// store is touched. A missing quiz yields a *domain.QuizNotFoundError.
func (s *QuizService) GetQuiz(ctx context.Context, lessonID string) (domain.Quiz, error) {
	if lessonID == "" {
		return domain.Quiz{}, domain.ErrMissingLessonID
	}
	if !domain.ValidID(lessonID) {
		return domain.Quiz{}, domain.ErrInvalidLessonID
	}

	quiz, err := s.quizzes.FindByLesson(ctx, lessonID)
	if err == nil {
		return quiz, nil
	}
	if !errors.Is(err, domain.ErrQuizNotFound) {
		return domain.Quiz{}, err
	}

	// The diagnostic count must not turn a not-found into a server error.
	count, sampleErr := s.quizzes.SampleCount(ctx, sampleLimit)
	if sampleErr != nil {
		s.log.Warn("sample quizzes failed", zap.Error(sampleErr))
		count = 0
	}
	s.log.Info("quiz not found", zap.String("lessonId", lessonID), zap.Int("availableQuizCount", count))
	return domain.Quiz{}, &domain.QuizNotFoundError{LessonID: lessonID, AvailableQuizCount: count}
}

// ResetFixture deletes any quiz for the fixture lesson and recreates the
// development quiz.
func (s *QuizService) ResetFixture(ctx context.Context) (domain.Quiz, error) {
	if s.writer == nil {
		return domain.Quiz{}, errors.New("quiz store is read-only")
	}
	quiz, err := s.writer.ReplaceForLesson(ctx, domain.FixtureQuiz())
	if err != nil {
		return domain.Quiz{}, err
	}
	if cache, ok := s.quizzes.(QuizCache); ok {
		if err := cache.Forget(ctx, quiz.LessonID); err != nil {
			s.log.Warn("forget cached quiz failed", zap.String("lessonId", quiz.LessonID), zap.Error(err))
		}
	}
	return quiz, nil
}
