package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/challengehub/challenge-api/internal/core/domain"
	"github.com/challengehub/challenge-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubSubmissionRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Submission
	order     []string
	createErr error
}

func newStubSubmissionRepo() *stubSubmissionRepo {
	return &stubSubmissionRepo{byID: make(map[string]*domain.Submission)}
}

func (r *stubSubmissionRepo) Create(_ context.Context, s *domain.Submission) (*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *s
	clone.ID = fmt.Sprintf("s-%d", len(r.order)+1)
	stored := clone
	r.byID[clone.ID] = &stored
	r.order = append(r.order, clone.ID)
	return &clone, nil
}

func (r *stubSubmissionRepo) FindByID(_ context.Context, id string) (*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSubmissionRepo) filter(keep func(*domain.Submission) bool) []*domain.Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Submission{}
	for _, id := range r.order {
		if s := r.byID[id]; keep(s) {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out
}

func (r *stubSubmissionRepo) FindAll(_ context.Context) ([]*domain.Submission, error) {
	return r.filter(func(*domain.Submission) bool { return true }), nil
}

func (r *stubSubmissionRepo) FindByUser(_ context.Context, userID string) ([]*domain.Submission, error) {
	return r.filter(func(s *domain.Submission) bool { return s.UserID == userID }), nil
}

func (r *stubSubmissionRepo) FindByChallenge(_ context.Context, challengeID string) ([]*domain.Submission, error) {
	return r.filter(func(s *domain.Submission) bool { return s.ChallengeID == challengeID }), nil
}

func (r *stubSubmissionRepo) UpdateGrade(_ context.Context, id string, score int, feedback string, gradedAt time.Time) (*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	s.Score = &score
	s.Feedback = feedback
	s.Status = domain.SubmissionGraded
	s.GradedAt = &gradedAt
	clone := *s
	return &clone, nil
}

// stubIdempotency mirrors the Redis store: "" marks a pending reservation.
type stubIdempotency struct {
	mu         sync.Mutex
	keys       map[string]string
	reserveErr error
	released   []string
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Reserve(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserveErr != nil {
		return "", false, s.reserveErr
	}
	if id, ok := s.keys[key]; ok {
		return id, false, nil
	}
	s.keys[key] = ""
	return "", true, nil
}

func (s *stubIdempotency) Complete(_ context.Context, key, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = id
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	s.released = append(s.released, key)
	return nil
}

type submissionFixture struct {
	svc         *SubmissionService
	submissions *stubSubmissionRepo
	idempotency *stubIdempotency
	user        *domain.User
	challenge   *domain.Challenge
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()
	users := newStubUserRepo()
	challenges := newStubChallengeRepo()
	submissions := newStubSubmissionRepo()
	idem := newStubIdempotency()

	user := seedUser(t, users, "alice", "a@x.com", "hunter2")
	challenge, err := challenges.Create(context.Background(), &domain.Challenge{Title: "Essay", Type: domain.ChallengeWriting, MaxScore: 50})
	if err != nil {
		t.Fatalf("seed challenge: %v", err)
	}

	return &submissionFixture{
		svc:         NewSubmissionService(submissions, users, challenges, idem, zerolog.Nop()),
		submissions: submissions,
		idempotency: idem,
		user:        user,
		challenge:   challenge,
	}
}

// ---------------------------------------------------------------------------
// Submit
// ---------------------------------------------------------------------------

func TestSubmissionService_Submit_Success(t *testing.T) {
	f := newSubmissionFixture(t)
	spent := 12

	res, err := f.svc.Submit(context.Background(), ports.SubmitInput{
		UserID: f.user.ID, ChallengeID: f.challenge.ID, Text: "my answer", TimeSpent: &spent,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Replayed {
		t.Error("first submission must not be a replay")
	}
	s := res.Submission
	if s.Status != domain.SubmissionSubmitted {
		t.Errorf("expected status SUBMITTED, got %q", s.Status)
	}
	if s.SubmittedAt.IsZero() {
		t.Error("SubmittedAt must be set")
	}
	if s.Score != nil || s.GradedAt != nil {
		t.Error("new submissions must be ungraded")
	}
	if s.TimeSpent == nil || *s.TimeSpent != 12 {
		t.Errorf("time spent not stored: %v", s.TimeSpent)
	}
}

func TestSubmissionService_Submit_UnknownUserOrChallenge(t *testing.T) {
	f := newSubmissionFixture(t)

	cases := []ports.SubmitInput{
		{UserID: "ghost", ChallengeID: f.challenge.ID, Text: "x"},
		{UserID: f.user.ID, ChallengeID: "ghost", Text: "x"},
	}
	for _, in := range cases {
		if _, err := f.svc.Submit(context.Background(), in); !errors.Is(err, domain.ErrUserOrChallengeNotFound) {
			t.Errorf("%+v: expected ErrUserOrChallengeNotFound, got %v", in, err)
		}
	}
	if len(f.submissions.order) != 0 {
		t.Errorf("nothing should be stored, got %d", len(f.submissions.order))
	}
}

func TestSubmissionService_Submit_IdempotentReplay(t *testing.T) {
	f := newSubmissionFixture(t)
	in := ports.SubmitInput{UserID: f.user.ID, ChallengeID: f.challenge.ID, Text: "once", IdempotencyKey: "key-1"}

	first, err := f.svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := f.svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	if !second.Replayed {
		t.Error("replay must set Replayed")
	}
	if second.Submission.ID != first.Submission.ID {
		t.Errorf("replay must return the same submission: %s vs %s", second.Submission.ID, first.Submission.ID)
	}
	if len(f.submissions.order) != 1 {
		t.Errorf("expected 1 stored submission, got %d", len(f.submissions.order))
	}
	if id := f.idempotency.keys[f.user.ID+":key-1"]; id != first.Submission.ID {
		t.Errorf("idempotency key must be scoped to the user and completed, got %q", id)
	}
}

func TestSubmissionService_Submit_ConcurrentSameKeyStoresOnce(t *testing.T) {
	f := newSubmissionFixture(t)
	in := ports.SubmitInput{UserID: f.user.ID, ChallengeID: f.challenge.ID, Text: "race", IdempotencyKey: "key-race"}

	const callers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  int
		inFlight int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.Submit(context.Background(), in)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, domain.ErrIdempotencyInFlight):
				inFlight++
			case err != nil:
				t.Errorf("unexpected error: %v", err)
			case !res.Replayed:
				created++
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Errorf("expected exactly one new submission, got %d", created)
	}
	if len(f.submissions.order) != 1 {
		t.Errorf("expected 1 stored submission, got %d", len(f.submissions.order))
	}
	if inFlight > callers-1 {
		t.Errorf("at most %d callers can be turned away, got %d", callers-1, inFlight)
	}
}

func TestSubmissionService_Submit_PendingKeyIsInFlight(t *testing.T) {
	f := newSubmissionFixture(t)
	f.idempotency.keys[f.user.ID+":key-busy"] = ""

	in := ports.SubmitInput{UserID: f.user.ID, ChallengeID: f.challenge.ID, Text: "x", IdempotencyKey: "key-busy"}
	_, err := f.svc.Submit(context.Background(), in)
	if !errors.Is(err, domain.ErrIdempotencyInFlight) {
		t.Fatalf("expected ErrIdempotencyInFlight, got %v", err)
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Error("in-flight must be a conflict")
	}
	if len(f.submissions.order) != 0 {
		t.Errorf("nothing should be stored, got %d", len(f.submissions.order))
	}
	if len(f.idempotency.released) != 0 {
		t.Error("another request's reservation must not be released")
	}
}

func TestSubmissionService_Submit_FailureReleasesKey(t *testing.T) {
	f := newSubmissionFixture(t)
	key := f.user.ID + ":key-retry"

	bad := ports.SubmitInput{UserID: f.user.ID, ChallengeID: "ghost", Text: "x", IdempotencyKey: "key-retry"}
	if _, err := f.svc.Submit(context.Background(), bad); !errors.Is(err, domain.ErrUserOrChallengeNotFound) {
		t.Fatalf("expected ErrUserOrChallengeNotFound, got %v", err)
	}
	if _, held := f.idempotency.keys[key]; held {
		t.Fatal("failed submit must release its reservation")
	}

	f.submissions.createErr = errors.New("mongo down")
	good := ports.SubmitInput{UserID: f.user.ID, ChallengeID: f.challenge.ID, Text: "x", IdempotencyKey: "key-retry"}
	if _, err := f.svc.Submit(context.Background(), good); err == nil {
		t.Fatal("expected the store error")
	}
	if _, held := f.idempotency.keys[key]; held {
		t.Fatal("store failure must release its reservation")
	}

	f.submissions.createErr = nil
	res, err := f.svc.Submit(context.Background(), good)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if res.Replayed {
		t.Error("retry after a failure is a fresh submission")
	}
	if len(f.idempotency.released) != 2 {
		t.Errorf("expected 2 releases, got %d", len(f.idempotency.released))
	}
}

func TestSubmissionService_Submit_IdempotencyStoreDown(t *testing.T) {
	f := newSubmissionFixture(t)
	f.idempotency.reserveErr = errors.New("redis down")

	in := ports.SubmitInput{UserID: f.user.ID, ChallengeID: f.challenge.ID, Text: "x", IdempotencyKey: "k"}
	if _, err := f.svc.Submit(context.Background(), in); err != nil {
		t.Fatalf("submit must proceed when the idempotency store fails: %v", err)
	}
}

func TestSubmissionService_Submit_WithoutIdempotencyStore(t *testing.T) {
	users := newStubUserRepo()
	challenges := newStubChallengeRepo()
	submissions := newStubSubmissionRepo()
	u := seedUser(t, users, "bob", "b@x.com", "pw")
	c, _ := challenges.Create(context.Background(), &domain.Challenge{Title: "t", Type: domain.ChallengeLogical, MaxScore: 10})
	svc := NewSubmissionService(submissions, users, challenges, nil, zerolog.Nop())

	in := ports.SubmitInput{UserID: u.ID, ChallengeID: c.ID, Text: "x", IdempotencyKey: "k"}
	_, _ = svc.Submit(context.Background(), in)
	_, _ = svc.Submit(context.Background(), in)

	if len(submissions.order) != 2 {
		t.Errorf("without a store every call creates a submission, got %d", len(submissions.order))
	}
}

// ---------------------------------------------------------------------------
// Listing
// ---------------------------------------------------------------------------

func TestSubmissionService_Listing(t *testing.T) {
	f := newSubmissionFixture(t)
	for i := 0; i < 3; i++ {
		if _, err := f.svc.Submit(context.Background(), ports.SubmitInput{UserID: f.user.ID, ChallengeID: f.challenge.ID, Text: "x"}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	all, _ := f.svc.List(context.Background())
	byUser, err := f.svc.ListByUser(context.Background(), f.user.ID)
	if err != nil {
		t.Fatalf("by user: %v", err)
	}
	byChallenge, err := f.svc.ListByChallenge(context.Background(), f.challenge.ID)
	if err != nil {
		t.Fatalf("by challenge: %v", err)
	}
	if len(all) != 3 || len(byUser) != 3 || len(byChallenge) != 3 {
		t.Errorf("expected 3/3/3, got %d/%d/%d", len(all), len(byUser), len(byChallenge))
	}

	if _, err := f.svc.ListByUser(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := f.svc.ListByChallenge(context.Background(), "ghost"); !errors.Is(err, domain.ErrChallengeNotFound) {
		t.Errorf("expected ErrChallengeNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Grade
// ---------------------------------------------------------------------------

func TestSubmissionService_Grade(t *testing.T) {
	f := newSubmissionFixture(t)
	res, _ := f.svc.Submit(context.Background(), ports.SubmitInput{UserID: f.user.ID, ChallengeID: f.challenge.ID, Text: "x"})

	graded, err := f.svc.Grade(context.Background(), ports.GradeInput{SubmissionID: res.Submission.ID, Score: 42, Feedback: "good"})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if graded.Status != domain.SubmissionGraded {
		t.Errorf("expected GRADED, got %q", graded.Status)
	}
	if graded.Score == nil || *graded.Score != 42 {
		t.Errorf("score not stored: %v", graded.Score)
	}
	if graded.GradedAt == nil {
		t.Error("GradedAt must be set")
	}
}

func TestSubmissionService_Grade_Validation(t *testing.T) {
	f := newSubmissionFixture(t)
	res, _ := f.svc.Submit(context.Background(), ports.SubmitInput{UserID: f.user.ID, ChallengeID: f.challenge.ID, Text: "x"})

	for _, score := range []int{-1, 51} {
		if _, err := f.svc.Grade(context.Background(), ports.GradeInput{SubmissionID: res.Submission.ID, Score: score}); !errors.Is(err, domain.ErrScoreOutOfRange) {
			t.Errorf("score %d: expected ErrScoreOutOfRange, got %v", score, err)
		}
	}
	if _, err := f.svc.Grade(context.Background(), ports.GradeInput{SubmissionID: "ghost", Score: 1}); !errors.Is(err, domain.ErrSubmissionNotFound) {
		t.Errorf("expected ErrSubmissionNotFound, got %v", err)
	}
}
