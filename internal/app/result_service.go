package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"lesson-quiz-service/internal/domain"
	"lesson-quiz-service/internal/identity"
)

// DefaultResultLimit caps the results listing.
const DefaultResultLimit = 20

// ResultRepository persists and lists user results.
// List must return results newest first by CompletedAt.
type ResultRepository interface {
	Create(ctx context.Context, result domain.UserResult) (domain.UserResult, error)
	List(ctx context.Context, filter domain.ResultFilter) ([]domain.UserResult, error)
}

// ResultService records quiz attempts and lists them for the acting user.
type ResultService struct {
	results ResultRepository
	verify  QuizRepository
	feed    *ResultFeed
	limit   int
	now     func() time.Time
	log     *zap.Logger
}

// ResultOption configures a ResultService.
type ResultOption func(*ResultService)

// WithScoreVerification recomputes submitted scores against the quiz answer
// key and rejects mismatches.
func WithScoreVerification(quizzes QuizRepository) ResultOption {
	return func(s *ResultService) { s.verify = quizzes }
}

// WithFeed publishes every saved result to feed.
func WithFeed(feed *ResultFeed) ResultOption {
	return func(s *ResultService) { s.feed = feed }
}

// WithLimit lowers the listing cap. Values outside 1..DefaultResultLimit
// keep the default.
func WithLimit(limit int) ResultOption {
	return func(s *ResultService) {
		if limit > 0 && limit <= DefaultResultLimit {
			s.limit = limit
		}
	}
}

// WithClock is used by tests for deterministic completion times.
func WithClock(now func() time.Time) ResultOption {
	return func(s *ResultService) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(log *zap.Logger) ResultOption {
	return func(s *ResultService) { s.log = log }
}

func NewResultService(results ResultRepository, opts ...ResultOption) *ResultService {
	s := &ResultService{
		results: results,
		limit:   DefaultResultLimit,
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates and stores one attempt for the user in ctx. The score and
// answers are stored as given unless verification is enabled.
func (s *ResultService) Submit(ctx context.Context, sub domain.ResultSubmission) (domain.UserResult, error) {
	userID := identity.UserFromContext(ctx)
	if userID == "" {
		return domain.UserResult{}, domain.ErrMissingIdentity
	}
	if err := validateSubmission(sub); err != nil {
		return domain.UserResult{}, err
	}
	if s.verify != nil {
		if err := s.verifyScore(ctx, sub); err != nil {
			return domain.UserResult{}, err
		}
	}

	result, err := s.results.Create(ctx, domain.UserResult{
		ID:          domain.NewID(),
		UserID:      userID,
		LessonID:    sub.LessonID,
		QuizID:      sub.QuizID,
		Score:       *sub.Score,
		Answers:     sub.Answers,
		CompletedAt: s.now().UTC(),
	})
	if err != nil {
		return domain.UserResult{}, fmt.Errorf("save result: %w", err)
	}
	s.log.Info("quiz result saved",
		zap.String("userId", userID),
		zap.String("lessonId", result.LessonID),
		zap.Int("score", result.Score))

	if s.feed != nil {
		s.feed.Publish(result)
	}
	return result, nil
}

// List returns up to the configured limit of the caller's newest results,
// optionally restricted to one lesson.
func (s *ResultService) List(ctx context.Context, lessonID string) ([]domain.UserResult, error) {
	userID := identity.UserFromContext(ctx)
	if userID == "" {
		return nil, domain.ErrMissingIdentity
	}
	if lessonID != "" && !domain.ValidID(lessonID) {
		return nil, domain.ErrInvalidLessonID
	}
	results, err := s.results.List(ctx, domain.ResultFilter{
		UserID:   userID,
		LessonID: lessonID,
		Limit:    s.limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	if results == nil {
		results = []domain.UserResult{}
	}
	return results, nil
}

func validateSubmission(sub domain.ResultSubmission) error {
	if sub.LessonID == "" || sub.QuizID == "" || sub.Score == nil || sub.Answers == nil {
		return domain.ErrMissingFields
	}
	if !domain.ValidID(sub.LessonID) {
		return domain.ErrInvalidLessonID
	}
	if !domain.ValidID(sub.QuizID) {
		return domain.ErrInvalidQuizID
	}
	if *sub.Score < 0 || *sub.Score > 100 {
		return domain.ErrScoreOutOfRange
	}
	return nil
}

func (s *ResultService) verifyScore(ctx context.Context, sub domain.ResultSubmission) error {
	quiz, err := s.verify.FindByLesson(ctx, sub.LessonID)
	if err != nil {
		return err
	}
	if quiz.ID != sub.QuizID {
		return fmt.Errorf("%w: quiz %s is not the quiz for lesson %s", domain.ErrScoreMismatch, sub.QuizID, sub.LessonID)
	}
	if len(sub.Answers) != len(quiz.Questions) {
		return fmt.Errorf("%w: expected %d answers, got %d", domain.ErrScoreMismatch, len(quiz.Questions), len(sub.Answers))
	}
	if score, _ := domain.Score(quiz, sub.Answers); score != *sub.Score {
		return fmt.Errorf("%w: claimed %d, computed %d", domain.ErrScoreMismatch, *sub.Score, score)
	}
	return nil
}
