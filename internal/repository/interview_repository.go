package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"skillproof/internal/database"
	"skillproof/internal/domain/interview"

	"github.com/google/uuid"
)

type PostgresInterviewRepository struct {
	db database.DB
}

func NewPostgresInterviewRepository(db database.DB) *PostgresInterviewRepository {
	return &PostgresInterviewRepository{db: db}
}

const interviewColumns = `id, candidate_id, employer_id, company, position, type, date,
	 duration, status, meeting_url, notes, feedback, created_at`

func (r *PostgresInterviewRepository) Create(ctx context.Context, iv interview.Interview) error {
	var notes, feedback []byte
	var err error
	if iv.Notes != nil {
		if notes, err = json.Marshal(iv.Notes); err != nil {
			return err
		}
	}
	if iv.Feedback != nil {
		if feedback, err = json.Marshal(iv.Feedback); err != nil {
			return err
		}
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO interviews (
			id, candidate_id, employer_id, company, position, type, date,
			duration, status, meeting_url, notes, feedback, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		iv.ID,
		iv.CandidateID,
		iv.EmployerID,
		iv.Company,
		iv.Position,
		string(iv.Type),
		iv.Date,
		iv.Duration,
		string(iv.Status),
		iv.MeetingURL,
		jsonbArg(notes),
		jsonbArg(feedback),
		iv.CreatedAt,
	)
	return err
}

func (r *PostgresInterviewRepository) GetByID(ctx context.Context, id uuid.UUID) (interview.Interview, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id)
	return scanInterview(row)
}

func (r *PostgresInterviewRepository) SetStatus(ctx context.Context, id uuid.UUID, status interview.Status) (interview.Interview, error) {
	affected, err := r.db.Exec(ctx,
		`UPDATE interviews SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return interview.Interview{}, err
	}
	if affected == 0 {
		return interview.Interview{}, interview.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresInterviewRepository) ListUpcomingByCandidate(ctx context.Context, candidateID uuid.UUID, after time.Time, statuses []interview.Status, types []interview.Type, limit int) ([]interview.Interview, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE candidate_id = $1 AND date >= $2`
	args := []any{candidateID, after}
	query += statusPredicate(&args, "status", statuses)
	if len(types) > 0 {
		placeholders := make([]string, 0, len(types))
		for _, t := range types {
			args = append(args, string(t))
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		query += ` AND type IN (` + strings.Join(placeholders, ",") + `)`
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY date ASC LIMIT $%d`, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]interview.Interview, 0, limit)
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresInterviewRepository) ListUpcomingByEmployer(ctx context.Context, employerID uuid.UUID, after time.Time, statuses []interview.Status, limit int) ([]interview.UpcomingItem, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT i.id, i.candidate_id, i.employer_id, i.company, i.position, i.type, i.date,
	        i.duration, i.status, i.meeting_url, i.notes, i.feedback, i.created_at,
	        COALESCE(NULLIF(u.name, ''), u.username)
	 FROM interviews i
	 JOIN users u ON u.id = i.candidate_id
	 WHERE i.employer_id = $1 AND i.date >= $2`
	args := []any{employerID, after}
	query += statusPredicate(&args, "i.status", statuses)
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY i.date ASC LIMIT $%d`, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]interview.UpcomingItem, 0, limit)
	for rows.Next() {
		var it interview.UpcomingItem
		var typ, status string
		var notes, feedback []byte
		if err := rows.Scan(
			&it.ID,
			&it.CandidateID,
			&it.EmployerID,
			&it.Company,
			&it.Position,
			&typ,
			&it.Date,
			&it.Duration,
			&status,
			&it.MeetingURL,
			&notes,
			&feedback,
			&it.CreatedAt,
			&it.CandidateName,
		); err != nil {
			return nil, err
		}
		it.Type = interview.Type(typ)
		it.Status = interview.Status(status)
		if err := unmarshalNullable(notes, &it.Notes); err != nil {
			return nil, err
		}
		if err := unmarshalNullable(feedback, &it.Feedback); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresInterviewRepository) CountByEmployer(ctx context.Context, employerID uuid.UUID, status interview.Status) (int, error) {
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(1) FROM interviews WHERE employer_id = $1 AND status = $2`,
		employerID, string(status))
	var c int
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func statusPredicate(args *[]any, column string, statuses []interview.Status) string {
	if len(statuses) == 0 {
		return ""
	}
	placeholders := make([]string, 0, len(statuses))
	for _, st := range statuses {
		*args = append(*args, string(st))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(*args)))
	}
	return ` AND ` + column + ` IN (` + strings.Join(placeholders, ",") + `)`
}

func scanInterview(row database.Row) (interview.Interview, error) {
	var iv interview.Interview
	var typ, status string
	var notes, feedback []byte
	err := row.Scan(
		&iv.ID,
		&iv.CandidateID,
		&iv.EmployerID,
		&iv.Company,
		&iv.Position,
		&typ,
		&iv.Date,
		&iv.Duration,
		&status,
		&iv.MeetingURL,
		&notes,
		&feedback,
		&iv.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return interview.Interview{}, interview.ErrNotFound
		}
		return interview.Interview{}, err
	}
	iv.Type = interview.Type(typ)
	iv.Status = interview.Status(status)
	if err := unmarshalNullable(notes, &iv.Notes); err != nil {
		return interview.Interview{}, err
	}
	if err := unmarshalNullable(feedback, &iv.Feedback); err != nil {
		return interview.Interview{}, err
	}
	return iv, nil
}

func unmarshalNullable(raw []byte, dest any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
