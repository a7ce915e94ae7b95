package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"lesson-quiz-service/internal/domain"
)

// userId stays a plain string: callers may be identified by token subjects
// that are not object ids.
type resultDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      string             `bson:"userId"`
	LessonID    primitive.ObjectID `bson:"lessonId"`
	QuizID      primitive.ObjectID `bson:"quizId"`
	Score       int                `bson:"score"`
	Answers     []int              `bson:"answers"`
	CompletedAt time.Time          `bson:"completedAt"`
}

// ResultStore persists user results in the userresults collection.
type ResultStore struct {
	coll *mongo.Collection
}

func NewResultStore(db *mongo.Database) *ResultStore {
	return &ResultStore{coll: db.Collection(resultCollection)}
}

func (s *ResultStore) Create(ctx context.Context, result domain.UserResult) (domain.UserResult, error) {
	var (
		doc resultDocument
		err error
	)
	if doc.ID, err = primitive.ObjectIDFromHex(result.ID); err != nil {
		doc.ID = primitive.NewObjectID()
		result.ID = doc.ID.Hex()
	}
	if doc.LessonID, err = primitive.ObjectIDFromHex(result.LessonID); err != nil {
		return domain.UserResult{}, domain.ErrInvalidLessonID
	}
	if doc.QuizID, err = primitive.ObjectIDFromHex(result.QuizID); err != nil {
		return domain.UserResult{}, domain.ErrInvalidQuizID
	}
	doc.UserID = result.UserID
	doc.Score = result.Score
	doc.Answers = result.Answers
	doc.CompletedAt = result.CompletedAt

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return domain.UserResult{}, fmt.Errorf("insert result: %w", err)
	}
	return result, nil
}

func (s *ResultStore) List(ctx context.Context, filter domain.ResultFilter) ([]domain.UserResult, error) {
	query := bson.M{"userId": filter.UserID}
	if filter.LessonID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.LessonID)
		if err != nil {
			return nil, domain.ErrInvalidLessonID
		}
		query["lessonId"] = oid
	}
	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find results: %w", err)
	}
	var docs []resultDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}

	results := make([]domain.UserResult, 0, len(docs))
	for _, d := range docs {
		results = append(results, domain.UserResult{
			ID:          d.ID.Hex(),
			UserID:      d.UserID,
			LessonID:    d.LessonID.Hex(),
			QuizID:      d.QuizID.Hex(),
			Score:       d.Score,
			Answers:     d.Answers,
			CompletedAt: d.CompletedAt.UTC(),
		})
	}
	return results, nil
}
