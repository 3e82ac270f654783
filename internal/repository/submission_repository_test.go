package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"skillproof/internal/database"
	"skillproof/internal/domain/submission"
)

type fakeTx struct {
	execs      []string
	failOnExec int // 1-based index of the Exec call that fails; 0 never fails
	noAffect   bool
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(_ context.Context, query string, _ ...any) (int64, error) {
	t.execs = append(t.execs, query)
	if t.failOnExec == len(t.execs) {
		return 0, errors.New("exec failed")
	}
	if t.noAffect {
		return 0, nil
	}
	return 1, nil
}

func (t *fakeTx) Query(_ context.Context, _ string, _ ...any) (database.Rows, error) {
	return nil, errors.New("unexpected Query on tx")
}

func (t *fakeTx) QueryRow(_ context.Context, _ string, _ ...any) database.Row {
	return errRow{}
}

func (t *fakeTx) Commit(_ context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	tx     *fakeTx
	begins int
	stored submission.Submission
}

func (d *fakeDB) Ping(_ context.Context) error { return nil }
func (d *fakeDB) Close() error                 { return nil }

func (d *fakeDB) Exec(_ context.Context, _ string, _ ...any) (int64, error) {
	return 0, errors.New("write outside transaction")
}

func (d *fakeDB) Query(_ context.Context, _ string, _ ...any) (database.Rows, error) {
	return nil, errors.New("unexpected Query")
}

func (d *fakeDB) QueryRow(_ context.Context, _ string, _ ...any) database.Row {
	return submissionRow{s: d.stored}
}

func (d *fakeDB) Begin(_ context.Context) (database.Tx, error) {
	d.begins++
	return d.tx, nil
}

type errRow struct{}

func (errRow) Scan(_ ...any) error { return errors.New("unexpected QueryRow") }

type submissionRow struct {
	s submission.Submission
}

func (r submissionRow) Scan(dest ...any) error {
	*dest[0].(*uuid.UUID) = r.s.ID
	*dest[1].(*uuid.UUID) = r.s.UserID
	*dest[2].(*uuid.UUID) = r.s.ChallengeID
	*dest[3].(*uuid.UUID) = r.s.ChallengeCreatedBy
	*dest[4].(*string) = r.s.Content
	*dest[5].(*string) = r.s.GithubURL
	*dest[6].(*string) = r.s.DeploymentURL
	*dest[7].(*string) = string(r.s.Status)
	*dest[8].(**int) = r.s.Score
	*dest[9].(*[]byte) = nil
	*dest[10].(**int) = r.s.CompletionTime
	*dest[11].(*time.Time) = r.s.SubmittedAt
	return nil
}

func newFakeDB() *fakeDB {
	id := uuid.New()
	return &fakeDB{
		tx: &fakeTx{},
		stored: submission.Submission{
			ID:          id,
			UserID:      uuid.New(),
			ChallengeID: uuid.New(),
			Status:      submission.StatusCompleted,
			SubmittedAt: time.Now().UTC(),
		},
	}
}

func TestSetReview_CompletedBumpsCounterInOneTransaction(t *testing.T) {
	db := newFakeDB()
	repo := NewPostgresSubmissionRepository(db)

	score := 90
	s, err := repo.SetReview(context.Background(), db.stored.ID, submission.StatusCompleted, &score, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.ID != db.stored.ID {
		t.Fatalf("unexpected submission returned: %+v", s)
	}

	if db.begins != 1 {
		t.Fatalf("expected one transaction, got %d", db.begins)
	}
	if len(db.tx.execs) != 2 {
		t.Fatalf("expected status update and counter bump in the transaction, got %d statements", len(db.tx.execs))
	}
	if !strings.Contains(db.tx.execs[0], "UPDATE submissions") {
		t.Fatalf("first statement must update the submission, got %q", db.tx.execs[0])
	}
	if !strings.Contains(db.tx.execs[1], "completions = completions + 1") {
		t.Fatalf("second statement must bump the completions counter, got %q", db.tx.execs[1])
	}
	if !db.tx.committed {
		t.Fatalf("transaction must be committed")
	}
}

func TestSetReview_CounterFailureRollsBack(t *testing.T) {
	db := newFakeDB()
	db.tx.failOnExec = 2
	repo := NewPostgresSubmissionRepository(db)

	_, err := repo.SetReview(context.Background(), db.stored.ID, submission.StatusCompleted, nil, nil)
	if err == nil {
		t.Fatalf("expected counter failure to surface")
	}
	if db.tx.committed {
		t.Fatalf("failed counter bump must not commit the status update")
	}
	if !db.tx.rolledBack {
		t.Fatalf("failed counter bump must roll back")
	}
}

func TestSetReview_NonCompletingSkipsCounter(t *testing.T) {
	db := newFakeDB()
	db.stored.Status = submission.StatusInReview
	repo := NewPostgresSubmissionRepository(db)

	if _, err := repo.SetReview(context.Background(), db.stored.ID, submission.StatusInReview, nil, nil); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(db.tx.execs) != 1 {
		t.Fatalf("non-completing review must not touch the challenge counter, got %d statements", len(db.tx.execs))
	}
	if !db.tx.committed {
		t.Fatalf("transaction must be committed")
	}
}

func TestSetReview_MissingSubmission(t *testing.T) {
	db := newFakeDB()
	db.tx.noAffect = true
	repo := NewPostgresSubmissionRepository(db)

	_, err := repo.SetReview(context.Background(), uuid.New(), submission.StatusCompleted, nil, nil)
	if !errors.Is(err, submission.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if db.tx.committed {
		t.Fatalf("missing submission must not commit")
	}
}
