package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"lesson-quiz-service/internal/domain"
)

type savedResponse struct {
	Message string            `json:"message"`
	Result  domain.UserResult `json:"result"`
}

// SubmitResult serves POST /api/results with a JSON body.
func (h *Handler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	var sub domain.ResultSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}
	result, ok := h.submit(w, r, sub)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, savedResponse{Message: "Quiz result saved successfully", Result: result})
}

// SubmitResultForm serves POST /actions/results, the form-submission action.
// answers is a JSON array. A local redirect target redirects with 303.
func (h *Handler) SubmitResultForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Error: "Invalid form body"})
		return
	}
	sub := domain.ResultSubmission{
		LessonID: r.PostForm.Get("lessonId"),
		QuizID:   r.PostForm.Get("quizId"),
	}
	if score, err := strconv.Atoi(r.PostForm.Get("score")); err == nil {
		sub.Score = &score
	}
	if raw := r.PostForm.Get("answers"); raw != "" {
		var answers []int
		if err := json.Unmarshal([]byte(raw), &answers); err == nil {
			sub.Answers = answers
		}
	}

	result, ok := h.submit(w, r, sub)
	if !ok {
		return
	}
	if target := r.PostForm.Get("redirect"); strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, savedResponse{Message: "Quiz result saved successfully", Result: result})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, sub domain.ResultSubmission) (domain.UserResult, bool) {
	result, err := h.results.Submit(r.Context(), sub)
	if err == nil {
		h.metrics.ResultsSaved.Inc()
		return result, true
	}
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		writeError(w, http.StatusBadRequest, errorBody{Error: "Missing required fields"})
	case isClientError(err):
		writeError(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrMissingIdentity):
		writeError(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
	default:
		h.log.Error("save quiz result failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errorBody{Error: "Failed to save quiz result"})
	}
	return domain.UserResult{}, false
}

// ListResults serves GET /api/results?lessonId=<optional id>.
func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.results.List(r.Context(), r.URL.Query().Get("lessonId"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, results)
	case errors.Is(err, domain.ErrInvalidLessonID):
		writeError(w, http.StatusBadRequest, errorBody{Error: "Invalid Lesson ID format"})
	case errors.Is(err, domain.ErrMissingIdentity):
		writeError(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
	default:
		h.log.Error("fetch quiz results failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errorBody{Error: "Failed to fetch quiz results"})
	}
}

// isClientError reports submission errors caused by the request itself.
// A quiz missing during score verification is the caller's fault too.
func isClientError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidLessonID,
		domain.ErrInvalidQuizID,
		domain.ErrScoreOutOfRange,
		domain.ErrScoreMismatch,
		domain.ErrQuizNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
