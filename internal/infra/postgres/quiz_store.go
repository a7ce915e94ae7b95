package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"lesson-quiz-service/internal/domain"
)

// QuizStore keeps quizzes as JSONB documents keyed by id and lesson.
type QuizStore struct {
	pool *pgxpool.Pool
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{pool: pool}
}

// quizDocument is the JSONB payload; id and lesson live in their own columns.
type quizDocument struct {
	Title     string            `json:"title"`
	Questions []domain.Question `json:"questions"`
}

func (s *QuizStore) FindByLesson(ctx context.Context, lessonID string) (domain.Quiz, error) {
	var (
		id  string
		raw []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, data FROM quizzes WHERE lesson_id=$1 ORDER BY created_at LIMIT 1`, lessonID,
	).Scan(&id, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	var doc quizDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return domain.Quiz{ID: id, LessonID: lessonID, Title: doc.Title, Questions: doc.Questions}, nil
}

func (s *QuizStore) SampleCount(ctx context.Context, limit int) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM (SELECT 1 FROM quizzes LIMIT $1) AS sample`, limit,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sample quizzes: %w", err)
	}
	return n, nil
}

// ReplaceForLesson deletes the lesson's quizzes and inserts quiz in one transaction.
func (s *QuizStore) ReplaceForLesson(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	raw, err := json.Marshal(quizDocument{Title: quiz.Title, Questions: quiz.Questions})
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("marshal quiz: %w", err)
	}
	quiz.ID = domain.NewID()

	err = s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM quizzes WHERE lesson_id=$1`, quiz.LessonID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO quizzes (id, lesson_id, data) VALUES ($1, $2, $3::jsonb)`,
			quiz.ID, quiz.LessonID, string(raw))
		return err
	})
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("replace quiz: %w", err)
	}
	return quiz, nil
}
