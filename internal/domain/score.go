package domain

import "math"

// Score grades answers against the quiz answer key and returns the rounded
// percentage together with the number of correct answers.
// Missing trailing answers count as wrong.
func Score(quiz Quiz, answers []int) (score, correct int) {
	total := len(quiz.Questions)
	if total == 0 {
		return 0, 0
	}
	for i, q := range quiz.Questions {
		if i < len(answers) && answers[i] == q.CorrectAnswerIndex {
			correct++
		}
	}
	return int(math.Round(float64(correct) * 100 / float64(total))), correct
}

// Complete reports whether no answer slot holds the Unanswered sentinel.
func Complete(answers []int) bool {
	for _, a := range answers {
		if a == Unanswered {
			return false
		}
	}
	return true
}
