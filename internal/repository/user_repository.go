package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"skillproof/internal/database"
	"skillproof/internal/domain/user"

	"github.com/google/uuid"
)

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, name, image, role, skills,
	 company, position, bio, github_url, linkedin_url, last_active, created_at, updated_at`

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	skills, err := json.Marshal(u.Skills)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO users (
			id, username, email, password_hash, name, image, role, skills,
			company, position, bio, github_url, linkedin_url, last_active, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Name,
		u.Image,
		string(u.Role),
		string(skills),
		u.Company,
		u.Position,
		u.Bio,
		u.GithubURL,
		u.LinkedinURL,
		u.LastActive,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return err
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, strings.TrimSpace(email))
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, strings.TrimSpace(username))
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, strings.TrimSpace(email))
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, strings.TrimSpace(username))
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) TouchLastActive(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET last_active = NOW(), updated_at = NOW() WHERE id = $1`, id)
	return err
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	var role string
	var skills []byte
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Image,
		&role,
		&skills,
		&u.Company,
		&u.Position,
		&u.Bio,
		&u.GithubURL,
		&u.LinkedinURL,
		&u.LastActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &u.Skills); err != nil {
			return user.User{}, err
		}
	}
	return u, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, database.ErrNoRows)
}

// jsonbArg passes marshaled JSON as text so the driver targets jsonb columns,
// keeping NULL for empty payloads.
func jsonbArg(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
