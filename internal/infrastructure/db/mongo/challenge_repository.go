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

const collectionChallenges = "challenges"

type ChallengeRepository struct {
	col *mongo.Collection
}

func NewChallengeRepository(db *mongo.Database) *ChallengeRepository {
	return &ChallengeRepository{col: db.Collection(collectionChallenges)}
}

type challengeDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Type        string             `bson:"type"`
	Difficulty  string             `bson:"difficulty"`
	MaxScore    int                `bson:"max_score"`
	TimeLimit   *int               `bson:"time_limit,omitempty"`
	Tags        []string           `bson:"tags"`
	IsActive    bool               `bson:"is_active"`
	DatePosted  time.Time          `bson:"date_posted"`
}

func toChallengeDocument(c *domain.Challenge) challengeDocument {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return challengeDocument{
		Title:       c.Title,
		Description: c.Description,
		Type:        string(c.Type),
		Difficulty:  string(c.Difficulty),
		MaxScore:    c.MaxScore,
		TimeLimit:   c.TimeLimit,
		Tags:        tags,
		IsActive:    c.IsActive,
		DatePosted:  c.DatePosted.UTC(),
	}
}

func (d challengeDocument) toDomain() *domain.Challenge {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Challenge{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Type:        domain.ChallengeType(d.Type),
		Difficulty:  domain.Difficulty(d.Difficulty),
		MaxScore:    d.MaxScore,
		TimeLimit:   d.TimeLimit,
		Tags:        tags,
		IsActive:    d.IsActive,
		DatePosted:  d.DatePosted.UTC(),
	}
}

func challengeIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "date_posted", Value: -1}}},
	}
}

func (r *ChallengeRepository) Create(ctx context.Context, c *domain.Challenge) (*domain.Challenge, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toChallengeDocument(c)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert challenge: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *ChallengeRepository) FindByID(ctx context.Context, id string) (*domain.Challenge, error) {
	oid, err := objectID(id, domain.ErrChallengeNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc challengeDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("find challenge: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ChallengeRepository) FindAll(ctx context.Context) ([]*domain.Challenge, error) {
	return r.find(ctx, bson.M{})
}

func (r *ChallengeRepository) FindByType(ctx context.Context, t domain.ChallengeType) ([]*domain.Challenge, error) {
	return r.find(ctx, bson.M{"type": string(t)})
}

func (r *ChallengeRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrChallengeNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrChallengeNotFound
	}
	return nil
}

func (r *ChallengeRepository) find(ctx context.Context, filter bson.M) ([]*domain.Challenge, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date_posted", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find challenges: %w", err)
	}
	defer cur.Close(ctx)

	var docs []challengeDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode challenges: %w", err)
	}

	out := make([]*domain.Challenge, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
