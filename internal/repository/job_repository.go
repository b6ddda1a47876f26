package repository

import (
	"context"
	"database/sql"
	"errors"

	"jobscout/internal/database"
	"jobscout/internal/domain/job"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrJobAlreadyExists = errors.New("job already exists")
)

type JobRepository interface {
	Create(ctx context.Context, p job.Posting) (job.Posting, error)
	CreateBatch(ctx context.Context, postings []job.Posting) (int, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (job.Posting, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]job.Posting, error)
	ListDedupKeys(ctx context.Context, userID uuid.UUID) ([]string, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const insertJobSQL = `
	INSERT INTO jobs (id, user_id, company, title, location, tech_stack, required_experience_level, source, url, dedup_key)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT ON CONSTRAINT jobs_user_dedup_key_unique DO NOTHING`

// Create persists a single posting. The dedup key is derived before the
// insert so the store-level unique constraint acts as a backstop, not as
// the primary duplicate check.
func (r *PostgresJobRepository) Create(ctx context.Context, p job.Posting) (job.Posting, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.DedupKey = p.Key()

	row := r.db.QueryRow(ctx,
		insertJobSQL+` RETURNING created_at`,
		p.ID, p.UserID, p.Company, p.Title, p.Location, p.TechStack, string(p.RequiredExperience), string(p.Source), p.URL, p.DedupKey,
	)
	if err := row.Scan(&p.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return job.Posting{}, ErrJobAlreadyExists
		}
		return job.Posting{}, err
	}
	return p, nil
}

// CreateBatch persists one user's batch of postings in a single transaction
// and reports how many rows actually landed. A conflicting row counts as
// already present and does not fail the batch.
func (r *PostgresJobRepository) CreateBatch(ctx context.Context, postings []job.Posting) (int, error) {
	if len(postings) == 0 {
		return 0, nil
	}

	added := 0
	err := database.InTx(ctx, r.db, func(tx database.Tx) error {
		for _, p := range postings {
			if p.ID == uuid.Nil {
				p.ID = uuid.New()
			}
			p.DedupKey = p.Key()
			affected, err := tx.Exec(ctx, insertJobSQL,
				p.ID, p.UserID, p.Company, p.Title, p.Location, p.TechStack, string(p.RequiredExperience), string(p.Source), p.URL, p.DedupKey,
			)
			if err != nil {
				return err
			}
			added += int(affected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (job.Posting, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, company, title, location, tech_stack, required_experience_level, source, COALESCE(url, ''), dedup_key, created_at
		 FROM jobs
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	p, err := scanPosting(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return job.Posting{}, ErrJobNotFound
		}
		return job.Posting{}, err
	}
	return p, nil
}

func (r *PostgresJobRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]job.Posting, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, company, title, location, tech_stack, required_experience_level, source, COALESCE(url, ''), dedup_key, created_at
		 FROM jobs
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Posting, 0)
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListDedupKeys returns the stored duplicate keys for one user so an
// ingestion run can filter incoming postings without loading full rows.
func (r *PostgresJobRepository) ListDedupKeys(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT dedup_key FROM jobs WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		out = append(out, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE user_id = $1`, userID)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

type postingRow interface {
	Scan(dest ...any) error
}

func scanPosting(row postingRow) (job.Posting, error) {
	var p job.Posting
	var level, source string
	if err := row.Scan(&p.ID, &p.UserID, &p.Company, &p.Title, &p.Location, &p.TechStack, &level, &source, &p.URL, &p.DedupKey, &p.CreatedAt); err != nil {
		return job.Posting{}, err
	}
	p.RequiredExperience = job.ExperienceLevel(level)
	p.Source = job.Source(source)
	return p, nil
}

var _ JobRepository = (*PostgresJobRepository)(nil)
