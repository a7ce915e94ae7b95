package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingLessonID is returned when no lesson identifier was supplied.
	ErrMissingLessonID = errors.New("lesson id is required")
	// ErrInvalidLessonID indicates the lesson identifier is not a valid object id.
	ErrInvalidLessonID = errors.New("invalid lesson id format")
	// ErrInvalidQuizID indicates the quiz identifier is not a valid object id.
	ErrInvalidQuizID = errors.New("invalid quiz id format")
	// ErrMissingFields is returned when a result submission lacks required fields.
	ErrMissingFields = errors.New("missing required fields")
	// ErrScoreOutOfRange indicates a score outside [0,100].
	ErrScoreOutOfRange = errors.New("score must be between 0 and 100")
	// ErrScoreMismatch indicates the claimed score disagrees with the quiz answer key.
	ErrScoreMismatch = errors.New("score does not match submitted answers")
	// ErrQuizNotFound indicates no quiz exists for the lesson.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrMissingIdentity is returned when no caller identity is attached to the context.
	ErrMissingIdentity = errors.New("caller identity missing")
)

// QuizNotFoundError carries lookup diagnostics for a missing quiz.
type QuizNotFoundError struct {
	LessonID           string
	AvailableQuizCount int
}

func (e *QuizNotFoundError) Error() string {
	return fmt.Sprintf("quiz not found for lesson %s", e.LessonID)
}

func (e *QuizNotFoundError) Unwrap() error { return ErrQuizNotFound }
