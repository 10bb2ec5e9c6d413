package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/challengehub/challenge-api/internal/core/domain"
)

const collectionSubmissions = "submissions"

type SubmissionRepository struct {
	col *mongo.Collection
}

func NewSubmissionRepository(db *mongo.Database) *SubmissionRepository {
	return &SubmissionRepository{col: db.Collection(collectionSubmissions)}
}

type submissionDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	ChallengeID string             `bson:"challenge_id"`
	Text        string             `bson:"submission_text"`
	Score       *int               `bson:"score,omitempty"`
	Feedback    string             `bson:"feedback,omitempty"`
	Status      string             `bson:"status"`
	TimeSpent   *int               `bson:"time_spent,omitempty"`
	SubmittedAt time.Time          `bson:"submitted_at"`
	GradedAt    *time.Time         `bson:"graded_at,omitempty"`
}

func toSubmissionDocument(s *domain.Submission) submissionDocument {
	return submissionDocument{
		UserID:      s.UserID,
		ChallengeID: s.ChallengeID,
		Text:        s.Text,
		Score:       s.Score,
		Feedback:    s.Feedback,
		Status:      string(s.Status),
		TimeSpent:   s.TimeSpent,
		SubmittedAt: s.SubmittedAt.UTC(),
		GradedAt:    s.GradedAt,
	}
}

func (d submissionDocument) toDomain() *domain.Submission {
	s := &domain.Submission{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		ChallengeID: d.ChallengeID,
		Text:        d.Text,
		Score:       d.Score,
		Feedback:    d.Feedback,
		Status:      domain.SubmissionStatus(d.Status),
		TimeSpent:   d.TimeSpent,
		SubmittedAt: d.SubmittedAt.UTC(),
	}
	if d.GradedAt != nil {
		t := d.GradedAt.UTC()
		s.GradedAt = &t
	}
	return s
}

func submissionIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "submitted_at", Value: -1}}},
		{Keys: bson.D{{Key: "challenge_id", Value: 1}, {Key: "submitted_at", Value: -1}}},
	}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) (*domain.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toSubmissionDocument(s)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*domain.Submission, error) {
	oid, err := objectID(id, domain.ErrSubmissionNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc submissionDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *SubmissionRepository) FindAll(ctx context.Context) ([]*domain.Submission, error) {
	return r.find(ctx, bson.M{})
}

func (r *SubmissionRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Submission, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *SubmissionRepository) FindByChallenge(ctx context.Context, challengeID string) ([]*domain.Submission, error) {
	return r.find(ctx, bson.M{"challenge_id": challengeID})
}

// UpdateGrade records score and feedback, marks the submission GRADED and
// returns the updated document.
func (r *SubmissionRepository) UpdateGrade(ctx context.Context, id string, score int, feedback string, gradedAt time.Time) (*domain.Submission, error) {
	oid, err := objectID(id, domain.ErrSubmissionNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"score":     score,
		"feedback":  feedback,
		"status":    string(domain.SubmissionGraded),
		"graded_at": gradedAt.UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc submissionDocument
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("grade submission: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *SubmissionRepository) find(ctx context.Context, filter bson.M) ([]*domain.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find submissions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []submissionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}

	out := make([]*domain.Submission, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
