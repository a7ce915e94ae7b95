package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
	"lesson-quiz-service/internal/domain"
)

type notFoundDebug struct {
	SearchedID         string `json:"searchedId"`
	AvailableQuizCount int    `json:"availableQuizCount"`
}

// GetQuiz serves GET /api/quiz?lessonId=<id>.
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.GetQuiz(r.Context(), r.URL.Query().Get("lessonId"))
	if err == nil {
		writeJSON(w, http.StatusOK, quiz)
		return
	}

	var notFound *domain.QuizNotFoundError
	switch {
	case errors.As(err, &notFound):
		h.metrics.QuizMisses.Inc()
		writeError(w, http.StatusNotFound, errorBody{
			Error:   "Quiz not found for this lesson",
			Message: "Please check if the lessonId exists in the database",
			Debug: notFoundDebug{
				SearchedID:         notFound.LessonID,
				AvailableQuizCount: notFound.AvailableQuizCount,
			},
		})
	case errors.Is(err, domain.ErrMissingLessonID):
		writeError(w, http.StatusBadRequest, errorBody{Error: "Lesson ID is required"})
	case errors.Is(err, domain.ErrInvalidLessonID):
		writeError(w, http.StatusBadRequest, errorBody{Error: "Invalid Lesson ID format"})
	default:
		h.log.Error("fetch quiz failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errorBody{Error: "Failed to fetch quiz", Message: err.Error()})
	}
}

// ResetTestQuiz serves GET /api/test-quiz. It deletes and recreates the
// development fixture quiz.
func (h *Handler) ResetTestQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.ResetFixture(r.Context())
	if err != nil {
		h.log.Error("reset test quiz failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errorBody{Error: "Test failed", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Test quiz created successfully",
		"quiz":    quiz,
	})
}
