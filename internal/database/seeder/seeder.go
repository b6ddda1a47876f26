// Package seeder fills a development database with a demo account and
// enough postings to make recommendations, skill gaps and digests show
// something. Every seeder is safe to run twice.
package seeder

import (
	"context"

	"jobscout/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
