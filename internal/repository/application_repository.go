package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jobscout/internal/database"
	"jobscout/internal/domain/application"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrApplicationNotFound      = errors.New("application not found")
	ErrApplicationAlreadyExists = errors.New("application already exists")
)

type ApplicationRepository interface {
	Create(ctx context.Context, a application.Application) (application.Application, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (application.Application, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]application.Application, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status application.Status) (application.Application, error)
	CountAppliedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	CountActive(ctx context.Context, userID uuid.UUID) (int, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) (application.Application, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = application.StatusInterested
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO applications (id, user_id, job_id, status, note, applied_at)
		 VALUES ($1, $2, $3, $4, $5, CASE WHEN $6 THEN now() END)
		 RETURNING applied_at, created_at, updated_at`,
		a.ID, a.UserID, a.JobID, string(a.Status), a.Note, a.Status.AtLeastApplied(),
	)
	if err := row.Scan(&a.AppliedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return application.Application{}, ErrApplicationAlreadyExists
		}
		return application.Application{}, err
	}
	return a, nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (application.Application, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, job_id, status, COALESCE(note, ''), applied_at, created_at, updated_at
		 FROM applications
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	a, err := scanApplication(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, err
	}
	return a, nil
}

func (r *PostgresApplicationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]application.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, job_id, status, COALESCE(note, ''), applied_at, created_at, updated_at
		 FROM applications
		 WHERE user_id = $1
		 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves an application to a new status. The applied_at stamp
// lands exactly once, on the transition into applied; later stages inherit
// it, and declining straight from interested never sets it.
func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status application.Status) (application.Application, error) {
	affected, err := r.db.Exec(ctx,
		`UPDATE applications
		 SET status = $1,
		     applied_at = CASE WHEN applied_at IS NULL AND $2 THEN now() ELSE applied_at END,
		     updated_at = now()
		 WHERE id = $3 AND user_id = $4`,
		string(status), status == application.StatusApplied, id, userID,
	)
	if err != nil {
		return application.Application{}, err
	}
	if affected == 0 {
		return application.Application{}, ErrApplicationNotFound
	}
	return r.GetByID(ctx, userID, id)
}

func (r *PostgresApplicationRepository) CountAppliedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var count int
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM applications WHERE user_id = $1 AND applied_at >= $2`,
		userID, since,
	)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountActive counts applications still in play, meaning submitted but not
// yet resolved either way.
func (r *PostgresApplicationRepository) CountActive(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM applications WHERE user_id = $1 AND status IN ('applied', 'interview', 'offer')`,
		userID,
	)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

type applicationRow interface {
	Scan(dest ...any) error
}

func scanApplication(row applicationRow) (application.Application, error) {
	var a application.Application
	var status string
	if err := row.Scan(&a.ID, &a.UserID, &a.JobID, &status, &a.Note, &a.AppliedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	return a, nil
}

var _ ApplicationRepository = (*PostgresApplicationRepository)(nil)
