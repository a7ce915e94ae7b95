package domain

import "time"

// Unanswered marks an answer slot the user has not filled yet.
const Unanswered = -1

// Question is a multiple-choice question embedded in a Quiz.
// CorrectAnswerIndex points into Options.
type Question struct {
	QuestionText       string   `json:"questionText"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

// Quiz is an ordered set of questions for one lesson.
type Quiz struct {
	ID        string     `json:"_id"`
	LessonID  string     `json:"lessonId"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// UserResult is one immutable record of a completed quiz attempt.
type UserResult struct {
	ID          string    `json:"_id"`
	UserID      string    `json:"userId"`
	LessonID    string    `json:"lessonId"`
	QuizID      string    `json:"quizId"`
	Score       int       `json:"score"`
	Answers     []int     `json:"answers"`
	CompletedAt time.Time `json:"completedAt"`
}

// ResultSubmission is the caller-supplied payload of a finished attempt.
// Score is a pointer so a missing score can be told apart from zero.
type ResultSubmission struct {
	LessonID string `json:"lessonId"`
	QuizID   string `json:"quizId"`
	Score    *int   `json:"score"`
	Answers  []int  `json:"answers"`
}

// ResultFilter selects the results listing for one user.
type ResultFilter struct {
	UserID   string
	LessonID string // optional
	Limit    int
}
