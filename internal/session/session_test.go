package session

import (
	"context"
	"errors"
	"testing"

	"lesson-quiz-service/internal/domain"
)

type stubSource struct {
	quiz domain.Quiz
	err  error
}

func (s stubSource) GetQuiz(context.Context, string) (domain.Quiz, error) { return s.quiz, s.err }

type stubSink struct {
	got []domain.ResultSubmission
	err error
}

func (s *stubSink) SubmitResult(_ context.Context, sub domain.ResultSubmission) (domain.UserResult, error) {
	s.got = append(s.got, sub)
	if s.err != nil {
		return domain.UserResult{}, s.err
	}
	return domain.UserResult{ID: "r1", Score: *sub.Score, Answers: sub.Answers}, nil
}

func fixture() domain.Quiz {
	q := domain.FixtureQuiz()
	q.ID = domain.NewID()
	return q
}

func loaded(t *testing.T) *Session {
	t.Helper()
	s := New(domain.FixtureLessonID)
	if err := s.Load(context.Background(), stubSource{quiz: fixture()}); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestLoadInitialisesUnansweredSlots(t *testing.T) {
	s := loaded(t)
	if s.State() != Ready {
		t.Fatalf("expected ready, got %s", s.State())
	}
	answers := s.Answers()
	if len(answers) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(answers))
	}
	for i, a := range answers {
		if a != domain.Unanswered {
			t.Fatalf("slot %d not unanswered: %d", i, a)
		}
	}
	if s.CanSubmit() {
		t.Fatalf("submit must be disabled on a fresh quiz")
	}
}

func TestLoadFailures(t *testing.T) {
	s := New(domain.FixtureLessonID)
	_ = s.Load(context.Background(), stubSource{err: domain.ErrQuizNotFound})
	if s.State() != NotFound {
		t.Fatalf("expected not found, got %s", s.State())
	}

	s = New(domain.FixtureLessonID)
	_ = s.Load(context.Background(), stubSource{err: errors.New("connection refused")})
	if s.State() != LoadError || s.LoadErr() == nil {
		t.Fatalf("expected load error, got %s", s.State())
	}

	s = New(domain.FixtureLessonID)
	if err := s.Load(context.Background(), stubSource{quiz: domain.Quiz{ID: domain.NewID()}}); !errors.Is(err, ErrEmptyQuiz) {
		t.Fatalf("expected empty quiz error, got %v", err)
	}
	if s.State() != LoadError || s.CanSubmit() {
		t.Fatalf("empty quiz must not be submittable")
	}
}

func TestSelectReplacesPriorChoice(t *testing.T) {
	s := loaded(t)
	if err := s.Select(0, 2); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Select(0, 1); err != nil {
		t.Fatalf("reselect: %v", err)
	}
	if got := s.Answers(); got[0] != 1 || got[1] != domain.Unanswered {
		t.Fatalf("unexpected answers %v", got)
	}
	if s.State() != Answering {
		t.Fatalf("expected answering, got %s", s.State())
	}
	if err := s.Select(3, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected out of range question, got %v", err)
	}
	if err := s.Select(0, 4); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected out of range option, got %v", err)
	}
}

func TestSubmitDisabledWhileAnyUnanswered(t *testing.T) {
	s := loaded(t)
	_ = s.Select(1, 1)
	_ = s.Select(2, 3) // answers [-1,1,3]

	if s.CanSubmit() {
		t.Fatalf("expected submit disabled")
	}
	sink := &stubSink{}
	if _, err := s.Submit(context.Background(), sink); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected incomplete error, got %v", err)
	}
	if s.State() != Answering || len(sink.got) != 0 {
		t.Fatalf("incomplete submit must not change state or send, state=%s sent=%d", s.State(), len(sink.got))
	}

	_ = s.Select(0, 0)
	if !s.CanSubmit() {
		t.Fatalf("expected submit enabled once all answered")
	}
}

func TestSubmitScoresAndSends(t *testing.T) {
	s := loaded(t)
	_ = s.Select(0, 1)
	_ = s.Select(1, 0)
	_ = s.Select(2, 3) // answers [1,0,3] against [1,1,3]

	sink := &stubSink{}
	out, err := s.Submit(context.Background(), sink)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Score != 67 || out.Correct != 2 || out.Total != 3 || !out.Saved {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if s.State() != Submitted || s.CanSubmit() {
		t.Fatalf("expected terminal submitted state")
	}
	sent := sink.got[0]
	if *sent.Score != 67 || sent.QuizID != s.Quiz().ID || sent.LessonID != domain.FixtureLessonID {
		t.Fatalf("unexpected submission %+v", sent)
	}

	if _, err := s.Submit(context.Background(), sink); err == nil {
		t.Fatalf("expected no resubmission from submitted state")
	}
	if err := s.Select(0, 0); err == nil {
		t.Fatalf("expected selection rejected after submit")
	}
}

func TestSubmitFailureKeepsScore(t *testing.T) {
	s := loaded(t)
	_ = s.Select(0, 1)
	_ = s.Select(1, 1)
	_ = s.Select(2, 3)

	boom := errors.New("network down")
	out, err := s.Submit(context.Background(), &stubSink{err: boom})
	if err != nil {
		t.Fatalf("submit must not fail on persistence errors: %v", err)
	}
	if s.State() != Submitted || out.Score != 100 || out.Saved || !errors.Is(out.Err, boom) {
		t.Fatalf("expected submitted with unsaved outcome, got %s %+v", s.State(), out)
	}
}
