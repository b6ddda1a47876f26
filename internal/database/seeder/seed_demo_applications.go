package seeder

import (
	"context"

	"jobscout/internal/database"
	"jobscout/internal/domain/application"
	"jobscout/internal/domain/dedup"

	"github.com/google/uuid"
)

// DemoApplicationsSeeder puts the demo account partway through a search:
// one posting applied to, one merely bookmarked. The applied one drops out
// of recommendations and shows up in the evening summary.
type DemoApplicationsSeeder struct{}

func (DemoApplicationsSeeder) Name() string { return "demo_applications" }

func (DemoApplicationsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := ensureColumns(ctx, db, "applications",
		"id", "user_id", "job_id", "status", "note", "applied_at", "created_at", "updated_at",
	); err != nil {
		return err
	}

	userID, err := findDemoUserID(ctx, db)
	if err != nil {
		return err
	}

	applied, err := findDemoJobID(ctx, db, userID, "Northwind Cloud", "Platform Engineer")
	if err != nil {
		return err
	}
	bookmarked, err := findDemoJobID(ctx, db, userID, "Datengarten", "Data Engineer")
	if err != nil {
		return err
	}

	return database.InTx(ctx, db, func(tx database.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO applications (id, user_id, job_id, status, note, applied_at)
			 VALUES ($1, $2, $3, $4, $5, now())
			 ON CONFLICT (user_id, job_id) DO NOTHING`,
			uuid.New(), userID, applied, string(application.StatusApplied), "Sent CV via careers page",
		)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO applications (id, user_id, job_id, status, note)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (user_id, job_id) DO NOTHING`,
			uuid.New(), userID, bookmarked, string(application.StatusInterested), "Waiting for the stack details",
		)
		return err
	})
}

func findDemoJobID(ctx context.Context, db database.DB, userID uuid.UUID, company, title string) (uuid.UUID, error) {
	row := db.QueryRow(ctx,
		`SELECT id FROM jobs WHERE user_id = $1 AND dedup_key = $2`,
		userID, dedup.Key(company, title),
	)
	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
