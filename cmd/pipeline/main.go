package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"jobscout/internal/app"
	"jobscout/internal/config"
)

// Runs one scheduled task by hand. Useful when the in-process scheduler is
// disabled and a cron daemon or operator drives the tasks instead.
func main() {
	task := flag.String("task", "ingest", "task to run once: ingest, morning or evening")
	timeout := flag.Duration("timeout", 10*time.Minute, "run deadline")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	c, err := app.NewContainer(cfg, logger)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch *task {
	case "ingest":
		summary, err := c.Ingest.Run(ctx)
		if err != nil {
			log.Fatalf("ingest failed: %v", err)
		}
		logger.Printf("ingest finished users=%d added=%d failed=%d", summary.Users, summary.Added, summary.Failed)
	case "morning":
		if err := c.Briefing.Run(ctx); err != nil {
			log.Fatalf("morning briefing failed: %v", err)
		}
	case "evening":
		if err := c.Summary.Run(ctx); err != nil {
			log.Fatalf("evening summary failed: %v", err)
		}
	default:
		log.Fatalf("unknown task %q: want ingest, morning or evening", *task)
	}
}
