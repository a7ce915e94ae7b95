// Package session tracks one user's pass through a quiz: loading it,
// collecting one answer per question and submitting the scored attempt.
// A Session is driven by a single goroutine and is not safe for concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"lesson-quiz-service/internal/domain"
)

// State is a step of the quiz-taking flow.
type State int

const (
	Loading State = iota
	Ready
	Answering
	Submitted
	NotFound
	LoadError
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Answering:
		return "answering"
	case Submitted:
		return "submitted"
	case NotFound:
		return "not_found"
	case LoadError:
		return "load_error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	// ErrIncomplete is returned when submitting with unanswered questions.
	ErrIncomplete = errors.New("every question must be answered before submitting")
	// ErrEmptyQuiz marks a loaded quiz without questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")
	// ErrOutOfRange marks a question or option index outside the quiz.
	ErrOutOfRange = errors.New("selection out of range")
)

// QuizSource loads the quiz for a lesson.
type QuizSource interface {
	GetQuiz(ctx context.Context, lessonID string) (domain.Quiz, error)
}

// ResultSink records a finished attempt.
type ResultSink interface {
	SubmitResult(ctx context.Context, sub domain.ResultSubmission) (domain.UserResult, error)
}

// Outcome reports a submission. The score is final even when Saved is false.
type Outcome struct {
	Score   int
	Correct int
	Total   int
	Saved   bool
	Result  domain.UserResult
	Err     error
}

// Session is the quiz-taking state machine for one lesson.
type Session struct {
	lessonID string
	state    State
	quiz     domain.Quiz
	answers  []int
	outcome  Outcome
	loadErr  error
}

func New(lessonID string) *Session {
	return &Session{lessonID: lessonID, state: Loading}
}

func (s *Session) State() State      { return s.state }
func (s *Session) Quiz() domain.Quiz { return s.quiz }
func (s *Session) Answers() []int    { return slices.Clone(s.answers) }
func (s *Session) Outcome() Outcome  { return s.outcome }
func (s *Session) LoadErr() error    { return s.loadErr }

// Load fetches the quiz. It only acts in the Loading state.
func (s *Session) Load(ctx context.Context, src QuizSource) error {
	if s.state != Loading {
		return fmt.Errorf("load in state %s", s.state)
	}
	quiz, err := src.GetQuiz(ctx, s.lessonID)
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		s.state, s.loadErr = NotFound, err
		return err
	case err != nil:
		s.state, s.loadErr = LoadError, err
		return err
	case len(quiz.Questions) == 0:
		s.state, s.loadErr = LoadError, ErrEmptyQuiz
		return ErrEmptyQuiz
	}

	s.quiz = quiz
	s.answers = make([]int, len(quiz.Questions))
	for i := range s.answers {
		s.answers[i] = domain.Unanswered
	}
	s.state = Ready
	return nil
}

// Select records option as the single answer to question, replacing any
// earlier choice.
func (s *Session) Select(question, option int) error {
	if s.state != Ready && s.state != Answering {
		return fmt.Errorf("select in state %s", s.state)
	}
	if question < 0 || question >= len(s.quiz.Questions) {
		return fmt.Errorf("%w: question %d", ErrOutOfRange, question)
	}
	if option < 0 || option >= len(s.quiz.Questions[question].Options) {
		return fmt.Errorf("%w: option %d", ErrOutOfRange, option)
	}
	s.answers[question] = option
	s.state = Answering
	return nil
}

// CanSubmit reports whether the submit action is available: the quiz is
// loaded, not yet submitted, and no answer slot is unanswered.
func (s *Session) CanSubmit() bool {
	return (s.state == Ready || s.state == Answering) && domain.Complete(s.answers)
}

// Submit scores the answers, moves to Submitted and then sends the result.
// A failed send does not revert the state; it is reported in the Outcome.
func (s *Session) Submit(ctx context.Context, sink ResultSink) (Outcome, error) {
	if s.state != Ready && s.state != Answering {
		return Outcome{}, fmt.Errorf("submit in state %s", s.state)
	}
	if !s.CanSubmit() {
		return Outcome{}, ErrIncomplete
	}

	score, correct := domain.Score(s.quiz, s.answers)
	s.outcome = Outcome{Score: score, Correct: correct, Total: len(s.quiz.Questions)}
	s.state = Submitted

	result, err := sink.SubmitResult(ctx, domain.ResultSubmission{
		LessonID: s.lessonID,
		QuizID:   s.quiz.ID,
		Score:    &score,
		Answers:  slices.Clone(s.answers),
	})
	if err != nil {
		s.outcome.Err = err
	} else {
		s.outcome.Saved = true
		s.outcome.Result = result
	}
	return s.outcome, nil
}
