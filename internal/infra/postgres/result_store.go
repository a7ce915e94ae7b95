package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"lesson-quiz-service/internal/domain"
)

// OpenBun opens a bun handle over the pgdriver connector.
func OpenBun(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

type resultRow struct {
	bun.BaseModel `bun:"table:user_results,alias:ur"`

	ID          string    `bun:"id,pk"`
	UserID      string    `bun:"user_id,notnull"`
	LessonID    string    `bun:"lesson_id,notnull"`
	QuizID      string    `bun:"quiz_id,notnull"`
	Score       int       `bun:"score,notnull"`
	Answers     []int     `bun:"answers,array"`
	CompletedAt time.Time `bun:"completed_at,notnull"`
}

// ResultStore persists user results through bun.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) Create(ctx context.Context, result domain.UserResult) (domain.UserResult, error) {
	row := resultRow{
		ID:          result.ID,
		UserID:      result.UserID,
		LessonID:    result.LessonID,
		QuizID:      result.QuizID,
		Score:       result.Score,
		Answers:     result.Answers,
		CompletedAt: result.CompletedAt,
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return domain.UserResult{}, err
	}
	return result, nil
}

func (s *ResultStore) List(ctx context.Context, filter domain.ResultFilter) ([]domain.UserResult, error) {
	var rows []resultRow
	q := s.db.NewSelect().Model(&rows).
		Where("user_id = ?", filter.UserID).
		OrderExpr("completed_at DESC")
	if filter.LessonID != "" {
		q = q.Where("lesson_id = ?", filter.LessonID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	results := make([]domain.UserResult, 0, len(rows))
	for _, r := range rows {
		results = append(results, domain.UserResult{
			ID:          r.ID,
			UserID:      r.UserID,
			LessonID:    r.LessonID,
			QuizID:      r.QuizID,
			Score:       r.Score,
			Answers:     r.Answers,
			CompletedAt: r.CompletedAt.UTC(),
		})
	}
	return results, nil
}
