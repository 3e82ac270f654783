package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"skillproof/internal/database"
	"skillproof/internal/domain/challenge"
	"skillproof/internal/domain/submission"

	"github.com/google/uuid"
)

type PostgresSubmissionRepository struct {
	db database.DB
}

func NewPostgresSubmissionRepository(db database.DB) *PostgresSubmissionRepository {
	return &PostgresSubmissionRepository{db: db}
}

const submissionColumns = `id, user_id, challenge_id, challenge_created_by, content,
	 github_url, deployment_url, status, score, feedback, completion_time, submitted_at`

// Create resolves the owning employer from the parent challenge and bumps its
// submissions counter in the same transaction, so challenge_created_by can
// never drift from challenges.created_by.
func (r *PostgresSubmissionRepository) Create(ctx context.Context, s submission.Submission) (submission.Submission, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return submission.Submission{}, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	row := tx.QueryRow(ctx, `SELECT created_by FROM challenges WHERE id = $1 FOR UPDATE`, s.ChallengeID)
	if err := row.Scan(&s.ChallengeCreatedBy); err != nil {
		if isNoRows(err) {
			return submission.Submission{}, challenge.ErrNotFound
		}
		return submission.Submission{}, err
	}

	var feedback []byte
	if s.Feedback != nil {
		feedback, err = json.Marshal(s.Feedback)
		if err != nil {
			return submission.Submission{}, err
		}
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO submissions (
			id, user_id, challenge_id, challenge_created_by, content,
			github_url, deployment_url, status, score, feedback, completion_time, submitted_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		s.ID,
		s.UserID,
		s.ChallengeID,
		s.ChallengeCreatedBy,
		s.Content,
		s.GithubURL,
		s.DeploymentURL,
		string(s.Status),
		s.Score,
		jsonbArg(feedback),
		s.CompletionTime,
		s.SubmittedAt,
	)
	if err != nil {
		return submission.Submission{}, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE challenges SET submissions = submissions + 1, updated_at = NOW() WHERE id = $1`,
		s.ChallengeID,
	)
	if err != nil {
		return submission.Submission{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return submission.Submission{}, err
	}
	return s, nil
}

func (r *PostgresSubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (submission.Submission, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id)
	return scanSubmission(row)
}

// SetReview writes the review verdict and, for a completing review, bumps the
// challenge completions tally in the same transaction.
func (r *PostgresSubmissionRepository) SetReview(ctx context.Context, id uuid.UUID, status submission.Status, score *int, fb *submission.Feedback) (submission.Submission, error) {
	var feedback []byte
	if fb != nil {
		var err error
		feedback, err = json.Marshal(fb)
		if err != nil {
			return submission.Submission{}, err
		}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return submission.Submission{}, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	affected, err := tx.Exec(ctx,
		`UPDATE submissions SET status = $2, score = $3, feedback = $4 WHERE id = $1`,
		id, string(status), score, jsonbArg(feedback),
	)
	if err != nil {
		return submission.Submission{}, err
	}
	if affected == 0 {
		return submission.Submission{}, submission.ErrNotFound
	}

	if status == submission.StatusCompleted {
		_, err = tx.Exec(ctx,
			`UPDATE challenges SET completions = completions + 1, updated_at = NOW()
			 WHERE id = (SELECT challenge_id FROM submissions WHERE id = $1)`,
			id,
		)
		if err != nil {
			return submission.Submission{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return submission.Submission{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *PostgresSubmissionRepository) ListRecentByCandidate(ctx context.Context, userID uuid.UUID, limit int) ([]submission.ListItem, error) {
	return r.listRecent(ctx, "s.user_id", userID, limit)
}

func (r *PostgresSubmissionRepository) ListRecentByEmployer(ctx context.Context, employerID uuid.UUID, limit int) ([]submission.ListItem, error) {
	return r.listRecent(ctx, "s.challenge_created_by", employerID, limit)
}

func (r *PostgresSubmissionRepository) listRecent(ctx context.Context, column string, id uuid.UUID, limit int) ([]submission.ListItem, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.Query(ctx,
		`SELECT s.id, s.user_id, s.challenge_id, s.challenge_created_by, s.content,
		        s.github_url, s.deployment_url, s.status, s.score, s.feedback,
		        s.completion_time, s.submitted_at,
		        c.title,
		        COALESCE(NULLIF(u.name, ''), u.username)
		 FROM submissions s
		 JOIN challenges c ON c.id = s.challenge_id
		 JOIN users u ON u.id = s.user_id
		 WHERE `+column+` = $1
		 ORDER BY s.submitted_at DESC
		 LIMIT $2`,
		id, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]submission.ListItem, 0, limit)
	for rows.Next() {
		var it submission.ListItem
		var status string
		var feedback []byte
		if err := rows.Scan(
			&it.ID,
			&it.UserID,
			&it.ChallengeID,
			&it.ChallengeCreatedBy,
			&it.Content,
			&it.GithubURL,
			&it.DeploymentURL,
			&status,
			&it.Score,
			&feedback,
			&it.CompletionTime,
			&it.SubmittedAt,
			&it.ChallengeTitle,
			&it.CandidateName,
		); err != nil {
			return nil, err
		}
		it.Status = submission.Status(status)
		if len(feedback) > 0 {
			if err := json.Unmarshal(feedback, &it.Feedback); err != nil {
				return nil, err
			}
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSubmissionRepository) CountByCandidate(ctx context.Context, userID uuid.UUID, statuses []submission.Status) (int, error) {
	return r.count(ctx, "user_id", userID, statuses)
}

func (r *PostgresSubmissionRepository) CountByEmployer(ctx context.Context, employerID uuid.UUID, statuses []submission.Status) (int, error) {
	return r.count(ctx, "challenge_created_by", employerID, statuses)
}

func (r *PostgresSubmissionRepository) count(ctx context.Context, column string, id uuid.UUID, statuses []submission.Status) (int, error) {
	query := `SELECT COUNT(1) FROM submissions WHERE ` + column + ` = $1`
	args := []any{id}
	if len(statuses) > 0 {
		placeholders := make([]string, 0, len(statuses))
		for _, st := range statuses {
			args = append(args, string(st))
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		query += ` AND status IN (` + strings.Join(placeholders, ",") + `)`
	}

	row := r.db.QueryRow(ctx, query, args...)
	var c int
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func scanSubmission(row database.Row) (submission.Submission, error) {
	var s submission.Submission
	var status string
	var feedback []byte
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.ChallengeID,
		&s.ChallengeCreatedBy,
		&s.Content,
		&s.GithubURL,
		&s.DeploymentURL,
		&status,
		&s.Score,
		&feedback,
		&s.CompletionTime,
		&s.SubmittedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return submission.Submission{}, submission.ErrNotFound
		}
		return submission.Submission{}, err
	}
	s.Status = submission.Status(status)
	if len(feedback) > 0 {
		if err := json.Unmarshal(feedback, &s.Feedback); err != nil {
			return submission.Submission{}, err
		}
	}
	return s, nil
}
