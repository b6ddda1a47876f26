package seeder

import (
	"context"

	"jobscout/internal/database"
	"jobscout/internal/domain/dedup"
	"jobscout/internal/domain/job"

	"github.com/google/uuid"
)

// DemoJobsSeeder attaches a spread of postings to the demo account: a few
// the demo profile matches well, a few it does not, across locations and
// experience levels. Reruns insert nothing thanks to the dedup key.
type DemoJobsSeeder struct{}

func (DemoJobsSeeder) Name() string { return "demo_jobs" }

func (DemoJobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := ensureColumns(ctx, db, "jobs",
		"id", "user_id", "company", "title", "location", "tech_stack",
		"required_experience_level", "source", "url", "dedup_key", "created_at",
	); err != nil {
		return err
	}

	userID, err := findDemoUserID(ctx, db)
	if err != nil {
		return err
	}

	items := []struct {
		Company    string
		Title      string
		Location   string
		TechStack  []string
		Experience job.ExperienceLevel
		Source     job.Source
		URL        string
	}{
		{
			Company:    "Ferrous Systems",
			Title:      "Backend Engineer",
			Location:   "Berlin",
			TechStack:  []string{"Go", "PostgreSQL", "Docker"},
			Experience: job.ExperienceMid,
			Source:     job.SourceScraped,
			URL:        "https://example.com/jobs/ferrous-backend",
		},
		{
			Company:    "Northwind Cloud",
			Title:      "Platform Engineer",
			Location:   "Remote",
			TechStack:  []string{"Go", "Kubernetes", "Terraform"},
			Experience: job.ExperienceSenior,
			Source:     job.SourceScraped,
			URL:        "https://example.com/jobs/northwind-platform",
		},
		{
			Company:    "Datengarten",
			Title:      "Data Engineer",
			Location:   "Munich",
			TechStack:  []string{"Python", "PostgreSQL", "Airflow"},
			Experience: job.ExperienceMid,
			Source:     job.SourceScraped,
			URL:        "https://example.com/jobs/datengarten-data",
		},
		{
			Company:    "Kiezwerk",
			Title:      "Site Reliability Engineer",
			Location:   "Berlin",
			TechStack:  []string{"Go", "Docker", "Prometheus"},
			Experience: job.ExperienceUnspecified,
			Source:     job.SourceScraped,
			URL:        "https://example.com/jobs/kiezwerk-sre",
		},
		{
			Company:    "Harbor Analytics",
			Title:      "Frontend Engineer",
			Location:   "Remote",
			TechStack:  []string{"TypeScript", "React"},
			Experience: job.ExperienceJunior,
			Source:     job.SourceManual,
			URL:        "",
		},
	}

	inserted := int64(0)
	err = database.InTx(ctx, db, func(tx database.Tx) error {
		for _, it := range items {
			affected, err := tx.Exec(ctx,
				`INSERT INTO jobs (id, user_id, company, title, location, tech_stack, required_experience_level, source, url, dedup_key)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				 ON CONFLICT (user_id, dedup_key) DO NOTHING`,
				uuid.New(), userID, it.Company, it.Title, it.Location, it.TechStack,
				string(it.Experience), string(it.Source), it.URL, dedup.Key(it.Company, it.Title),
			)
			if err != nil {
				return err
			}
			inserted += affected
		}

		if inserted > 0 {
			_, err := tx.Exec(ctx,
				`UPDATE profiles SET job_set_version = job_set_version + 1, updated_at = now() WHERE user_id = $1`,
				userID,
			)
			return err
		}
		return nil
	})
	return err
}
