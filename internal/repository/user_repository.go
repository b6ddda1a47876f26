package repository

import (
	"context"
	"database/sql"
	"errors"

	"jobscout/internal/database"
	"jobscout/internal/domain/job"
	"jobscout/internal/domain/profile"
	"jobscout/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrProfileNotFound = errors.New("profile not found")

type UserRepository interface {
	CreateUser(ctx context.Context, u user.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	UpdateProfile(ctx context.Context, p profile.Profile) (profile.Profile, error)
	Versions(ctx context.Context, userID uuid.UUID) (profileVersion, jobSetVersion int64, err error)
	BumpJobSetVersion(ctx context.Context, userID uuid.UUID) error
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser writes the account row and its empty profile together so every
// user the scheduler sees has a profile to read.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, u user.User) error {
	return database.InTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
			u.ID, u.Email, u.PasswordHash,
		); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO profiles (user_id) VALUES ($1)`,
			u.ID,
		)
		return err
	})
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1`,
		email,
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT user_id, skills, preferred_locations, experience_level, version, job_set_version, updated_at
		 FROM profiles
		 WHERE user_id = $1`,
		userID,
	)

	var p profile.Profile
	var level string
	if err := row.Scan(&p.UserID, &p.Skills, &p.PreferredLocations, &level, &p.Version, &p.JobSetVersion, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, err
	}

	lvl, err := job.ParseExperienceLevel(level)
	if err != nil {
		return profile.Profile{}, err
	}
	p.Experience = lvl
	return p, nil
}

// UpdateProfile persists the mutable profile fields and bumps the profile
// version in the same statement, so stale recommendation cache keys die
// with the write.
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	affected, err := r.db.Exec(ctx,
		`UPDATE profiles
		 SET skills = $1,
		     preferred_locations = $2,
		     experience_level = $3,
		     version = version + 1,
		     updated_at = now()
		 WHERE user_id = $4`,
		p.Skills, p.PreferredLocations, string(p.Experience), p.UserID,
	)
	if err != nil {
		return profile.Profile{}, err
	}
	if affected == 0 {
		return profile.Profile{}, ErrProfileNotFound
	}
	return r.GetProfile(ctx, p.UserID)
}

func (r *PostgresUserRepository) Versions(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	row := r.db.QueryRow(ctx,
		`SELECT version, job_set_version FROM profiles WHERE user_id = $1`,
		userID,
	)
	var pv, jv int64
	if err := row.Scan(&pv, &jv); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, ErrProfileNotFound
		}
		return 0, 0, err
	}
	return pv, jv, nil
}

func (r *PostgresUserRepository) BumpJobSetVersion(ctx context.Context, userID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE profiles SET job_set_version = job_set_version + 1, updated_at = now() WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

type userRow interface {
	Scan(dest ...any) error
}

func scanUser(row userRow) (user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

var _ user.Repository = (*PostgresUserRepository)(nil)
