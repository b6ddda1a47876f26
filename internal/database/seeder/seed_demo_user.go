package seeder

import (
	"context"
	"fmt"

	"jobscout/internal/database"
	"jobscout/internal/domain/job"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	DemoEmail    = "demo@jobscout.dev"
	demoPassword = "password"
)

// DemoUserSeeder creates the demo account with a populated profile. An
// existing account is left untouched, edits included.
type DemoUserSeeder struct{}

func (DemoUserSeeder) Name() string { return "demo_user" }

func (DemoUserSeeder) Run(ctx context.Context, db database.DB) error {
	if err := ensureColumns(ctx, db, "users", "id", "email", "password_hash", "created_at", "updated_at"); err != nil {
		return err
	}
	if err := ensureColumns(ctx, db, "profiles",
		"user_id", "skills", "preferred_locations", "experience_level", "version", "job_set_version", "updated_at",
	); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	return database.InTx(ctx, db, func(tx database.Tx) error {
		id := uuid.New()
		affected, err := tx.Exec(ctx,
			`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3) ON CONFLICT (email) DO NOTHING`,
			id, DemoEmail, string(hash),
		)
		if err != nil {
			return err
		}
		if affected == 0 {
			return nil
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO profiles (user_id, skills, preferred_locations, experience_level)
			 VALUES ($1, $2, $3, $4)`,
			id,
			[]string{"Go", "PostgreSQL", "Docker"},
			[]string{"Berlin", "Remote"},
			string(job.ExperienceMid),
		)
		return err
	})
}

func findDemoUserID(ctx context.Context, db database.DB) (uuid.UUID, error) {
	row := db.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, DemoEmail)
	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("demo user not seeded: %w", err)
	}
	return id, nil
}
