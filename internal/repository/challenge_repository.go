package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"skillproof/internal/database"
	"skillproof/internal/domain/challenge"

	"github.com/google/uuid"
)

type PostgresChallengeRepository struct {
	db database.DB
}

func NewPostgresChallengeRepository(db database.DB) *PostgresChallengeRepository {
	return &PostgresChallengeRepository{db: db}
}

const challengeColumns = `id, title, description, type, skills, difficulty, estimated_time,
	 instructions, evaluation_criteria, created_by, status, submissions, completions,
	 ratings, average_rating, created_at, updated_at`

func (r *PostgresChallengeRepository) Create(ctx context.Context, c challenge.Challenge) error {
	ratings, err := json.Marshal(c.Ratings)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO challenges (
			id, title, description, type, skills, difficulty, estimated_time,
			instructions, evaluation_criteria, created_by, status, submissions, completions,
			ratings, average_rating, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		c.ID,
		c.Title,
		c.Description,
		string(c.Type),
		c.Skills,
		string(c.Difficulty),
		c.EstimatedTime,
		c.Instructions,
		c.EvaluationCriteria,
		c.CreatedBy,
		string(c.Status),
		c.Submissions,
		c.Completions,
		string(ratings),
		c.AverageRating,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *PostgresChallengeRepository) GetByID(ctx context.Context, id uuid.UUID) (challenge.Challenge, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, id)
	return scanChallenge(row)
}

// List applies every non-zero filter field, ANDed, and returns both the page
// and the total count for the same predicate.
func (r *PostgresChallengeRepository) List(ctx context.Context, f challenge.ListFilter) ([]challenge.Challenge, int, error) {
	where := make([]string, 0, 5)
	args := make([]any, 0, 5)

	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.Type != "" {
		add("type = $%d", string(f.Type))
	}
	if f.Difficulty != "" {
		add("difficulty = $%d", string(f.Difficulty))
	}
	if f.Skill != "" {
		add("$%d = ANY(skills)", f.Skill)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	predicate := ""
	if len(where) > 0 {
		predicate = " WHERE " + strings.Join(where, " AND ")
	}

	row := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM challenges`+predicate, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	pageArgs := append(args, limit, offset)

	rows, err := r.db.Query(ctx,
		`SELECT `+challengeColumns+` FROM challenges`+predicate+
			fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2),
		pageArgs...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]challenge.Challenge, 0)
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresChallengeRepository) CountByCreator(ctx context.Context, createdBy uuid.UUID, status challenge.Status) (int, error) {
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(1) FROM challenges WHERE created_by = $1 AND status = $2`,
		createdBy, string(status))
	var c int
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresChallengeRepository) ListActive(ctx context.Context, limit int) ([]challenge.Challenge, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+challengeColumns+` FROM challenges
		 WHERE status = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		string(challenge.StatusActive), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]challenge.Challenge, 0, limit)
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendRating locks the row, appends the rating and recomputes the stored
// average inside one transaction so concurrent raters never lose each other's
// entries.
func (r *PostgresChallengeRepository) AppendRating(ctx context.Context, id uuid.UUID, rating challenge.Rating) (challenge.Challenge, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return challenge.Challenge{}, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	row := tx.QueryRow(ctx, `SELECT ratings FROM challenges WHERE id = $1 FOR UPDATE`, id)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if isNoRows(err) {
			return challenge.Challenge{}, challenge.ErrNotFound
		}
		return challenge.Challenge{}, err
	}

	var ratings []challenge.Rating
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &ratings); err != nil {
			return challenge.Challenge{}, err
		}
	}
	ratings = append(ratings, rating)

	updated, err := json.Marshal(ratings)
	if err != nil {
		return challenge.Challenge{}, err
	}
	_, err = tx.Exec(ctx,
		`UPDATE challenges
		 SET ratings = $2, average_rating = $3, updated_at = NOW()
		 WHERE id = $1`,
		id, string(updated), challenge.AverageOf(ratings),
	)
	if err != nil {
		return challenge.Challenge{}, err
	}

	out, err := scanChallenge(tx.QueryRow(ctx,
		`SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, id))
	if err != nil {
		return challenge.Challenge{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return challenge.Challenge{}, err
	}
	return out, nil
}

func scanChallenge(row database.Row) (challenge.Challenge, error) {
	var c challenge.Challenge
	var typ, difficulty, status string
	var ratings []byte
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&typ,
		&c.Skills,
		&difficulty,
		&c.EstimatedTime,
		&c.Instructions,
		&c.EvaluationCriteria,
		&c.CreatedBy,
		&status,
		&c.Submissions,
		&c.Completions,
		&ratings,
		&c.AverageRating,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return challenge.Challenge{}, challenge.ErrNotFound
		}
		return challenge.Challenge{}, err
	}
	c.Type = challenge.Type(typ)
	c.Difficulty = challenge.Difficulty(difficulty)
	c.Status = challenge.Status(status)
	if len(ratings) > 0 {
		if err := json.Unmarshal(ratings, &c.Ratings); err != nil {
			return challenge.Challenge{}, err
		}
	}
	return c, nil
}
