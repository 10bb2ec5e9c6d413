package mongo

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/challengehub/challenge-api/internal/core/domain"
)

func TestObjectID_MalformedIsNotFound(t *testing.T) {
	if _, err := objectID("not-hex", domain.ErrUserNotFound); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}

	oid := primitive.NewObjectID()
	got, err := objectID(oid.Hex(), domain.ErrUserNotFound)
	if err != nil || got != oid {
		t.Errorf("expected %s, got %s (%v)", oid.Hex(), got.Hex(), err)
	}
}

func TestUserDocument_IgnoresCallerID(t *testing.T) {
	doc := toUserDocument(&domain.User{ID: primitive.NewObjectID().Hex(), Username: "alice", Email: "a@x.com"})
	if !doc.ID.IsZero() {
		t.Errorf("insert must leave the ID to the store, got %s", doc.ID.Hex())
	}
}

func TestUserDocument_StoresHashButKeepsIDHex(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := toUserDocument(&domain.User{
		Username: "alice", Email: "a@x.com", PasswordHash: "$2a$hash", Role: domain.RoleUser, CreatedAt: created,
	})
	doc.ID = primitive.NewObjectID()

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded userDocument
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	u := decoded.toDomain()
	if u.ID != doc.ID.Hex() {
		t.Errorf("expected id %s, got %s", doc.ID.Hex(), u.ID)
	}
	if u.PasswordHash != "$2a$hash" || u.Email != "a@x.com" || !u.CreatedAt.Equal(created) {
		t.Errorf("unexpected user: %+v", u)
	}
}

func TestUserIndexes_EmailIsUnique(t *testing.T) {
	for _, idx := range userIndexes() {
		keys := idx.Keys.(bson.D)
		if keys[0].Key != "email" {
			continue
		}
		if idx.Options == nil || idx.Options.Unique == nil || !*idx.Options.Unique {
			t.Fatal("email index must be unique")
		}
		return
	}
	t.Fatal("no email index")
}

func TestChallengeDocument_NilTagsBecomeEmpty(t *testing.T) {
	doc := toChallengeDocument(&domain.Challenge{Title: "t", Type: domain.ChallengeWriting})
	if doc.Tags == nil {
		t.Error("stored tags must not be nil")
	}
	if got := (challengeDocument{}).toDomain().Tags; got == nil {
		t.Error("decoded tags must not be nil")
	}
}

func TestSubmissionDocument_GradedAtIsUTC(t *testing.T) {
	loc := time.FixedZone("X", 3600)
	graded := time.Date(2026, 5, 1, 12, 0, 0, 0, loc)
	s := submissionDocument{ID: primitive.NewObjectID(), Status: "GRADED", GradedAt: &graded}.toDomain()

	if s.GradedAt == nil || s.GradedAt.Location() != time.UTC {
		t.Errorf("expected UTC graded_at, got %v", s.GradedAt)
	}
	if s.Status != domain.SubmissionGraded {
		t.Errorf("expected GRADED, got %q", s.Status)
	}
}
