package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"lesson-quiz-service/internal/domain"
)

type questionDocument struct {
	QuestionText       string   `bson:"questionText"`
	Options            []string `bson:"options"`
	CorrectAnswerIndex int      `bson:"correctAnswerIndex"`
}

type quizDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	LessonID  primitive.ObjectID `bson:"lessonId"`
	Title     string             `bson:"title"`
	Questions []questionDocument `bson:"questions"`
}

// QuizStore reads and replaces quiz documents.
type QuizStore struct {
	coll *mongo.Collection
}

func NewQuizStore(db *mongo.Database) *QuizStore {
	return &QuizStore{coll: db.Collection(quizCollection)}
}

func (s *QuizStore) FindByLesson(ctx context.Context, lessonID string) (domain.Quiz, error) {
	oid, err := primitive.ObjectIDFromHex(lessonID)
	if err != nil {
		return domain.Quiz{}, domain.ErrInvalidLessonID
	}
	var doc quizDocument
	err = s.coll.FindOne(ctx, bson.M{"lessonId": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("find quiz: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *QuizStore) SampleCount(ctx context.Context, limit int) (int, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{}, options.Count().SetLimit(int64(limit)))
	if err != nil {
		return 0, fmt.Errorf("sample quizzes: %w", err)
	}
	return int(n), nil
}

// ReplaceForLesson deletes the lesson's quizzes and inserts quiz under a new id.
func (s *QuizStore) ReplaceForLesson(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	lessonOID, err := primitive.ObjectIDFromHex(quiz.LessonID)
	if err != nil {
		return domain.Quiz{}, domain.ErrInvalidLessonID
	}
	if _, err := s.coll.DeleteMany(ctx, bson.M{"lessonId": lessonOID}); err != nil {
		return domain.Quiz{}, fmt.Errorf("delete quiz: %w", err)
	}

	doc := quizDocument{ID: primitive.NewObjectID(), LessonID: lessonOID, Title: quiz.Title}
	for _, q := range quiz.Questions {
		doc.Questions = append(doc.Questions, questionDocument(q))
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return domain.Quiz{}, fmt.Errorf("insert quiz: %w", err)
	}
	return doc.toDomain(), nil
}

func (d quizDocument) toDomain() domain.Quiz {
	quiz := domain.Quiz{
		ID:        d.ID.Hex(),
		LessonID:  d.LessonID.Hex(),
		Title:     d.Title,
		Questions: make([]domain.Question, 0, len(d.Questions)),
	}
	for _, q := range d.Questions {
		quiz.Questions = append(quiz.Questions, domain.Question(q))
	}
	return quiz
}
