package domain

import "testing"

func TestScoreRoundsPercentage(t *testing.T) {
	quiz := FixtureQuiz() // correct indices [1,1,3]

	score, correct := Score(quiz, []int{1, 0, 3})
	if correct != 2 || score != 67 {
		t.Fatalf("expected 2 correct and 67, got %d and %d", correct, score)
	}

	score, correct = Score(quiz, []int{1, 1, 3})
	if correct != 3 || score != 100 {
		t.Fatalf("expected perfect score, got %d/%d", correct, score)
	}

	score, _ = Score(quiz, []int{0, 0})
	if score != 0 {
		t.Fatalf("expected 0 for short wrong answers, got %d", score)
	}
}

func TestScoreEmptyQuiz(t *testing.T) {
	if score, correct := Score(Quiz{}, nil); score != 0 || correct != 0 {
		t.Fatalf("expected zero score for empty quiz, got %d/%d", score, correct)
	}
}

func TestComplete(t *testing.T) {
	if Complete([]int{-1, 1, 3}) {
		t.Fatalf("expected incomplete answers")
	}
	if !Complete([]int{1, 0, 3}) {
		t.Fatalf("expected complete answers")
	}
}

func TestValidID(t *testing.T) {
	if ValidID("not-an-object-id") {
		t.Fatalf("expected malformed id to be rejected")
	}
	if !ValidID(FixtureLessonID) || !ValidID(NewID()) {
		t.Fatalf("expected object ids to be valid")
	}
}
