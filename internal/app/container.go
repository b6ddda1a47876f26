// Package app builds the object graph: config in, connected and wired
// services out. Nothing here handles requests; it only decides what talks
// to what.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobscout/internal/cache"
	"jobscout/internal/config"
	"jobscout/internal/database"
	"jobscout/internal/database/migration"
	dbpostgres "jobscout/internal/database/postgres"
	"jobscout/internal/database/seeder"
	"jobscout/internal/digest"
	"jobscout/internal/domain/match"
	"jobscout/internal/ingest"
	"jobscout/internal/notify"
	"jobscout/internal/pkg/jwt"
	"jobscout/internal/repository"
	"jobscout/internal/scheduler"
	"jobscout/internal/source"
	"jobscout/internal/usecase"
	"jobscout/internal/ws"
)

const (
	TaskIngest         = "ingest"
	TaskMorningDigest  = "morning_briefing"
	TaskEveningSummary = "evening_summary"
)

type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis

	Users *repository.PostgresUserRepository
	Jobs  *repository.PostgresJobRepository
	Apps  *repository.PostgresApplicationRepository

	Tokens jwt.Service

	AuthUC           usecase.AuthUsecase
	ProfileUC        usecase.ProfileUsecase
	JobUC            usecase.JobUsecase
	RecommendationUC usecase.RecommendationUsecase
	SkillGapUC       usecase.SkillGapUsecase
	ApplicationUC    usecase.ApplicationUsecase

	Hub      *ws.Hub
	Notifier notify.Notifier

	Ingest   *ingest.Coordinator
	Briefing *digest.Briefing
	Summary  *digest.Summary

	Dispatcher *scheduler.Dispatcher
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	timeout := cfg.Database.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := (migration.Runner{Dir: cfg.Database.MigrationsDir, Logger: logger}).Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if cfg.Database.RunSeeders {
		if err := (seeder.Runner{Seeders: seeder.Defaults(), Logger: logger}).Run(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("run seeders: %w", err)
		}
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, logger),
	}

	c.Users = repository.NewPostgresUserRepository(db)
	c.Jobs = repository.NewPostgresJobRepository(db)
	c.Apps = repository.NewPostgresApplicationRepository(db)

	c.Tokens = jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	scorer, err := match.NewScorer(match.Weights{
		Tech:       cfg.Match.TechWeight,
		Location:   cfg.Match.LocationWeight,
		Experience: cfg.Match.ExperienceWeight,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("build scorer: %w", err)
	}

	c.AuthUC = usecase.NewAuthUsecase(c.Users, c.Tokens)
	c.ProfileUC = usecase.NewProfileUsecase(c.Users)
	c.JobUC = usecase.NewJobUsecase(c.Jobs, c.Users)
	c.RecommendationUC = usecase.NewRecommendationUsecase(c.Users, c.Jobs, c.Apps, scorer, c.Cache, cfg.Redis.RecommendationTTL)
	c.SkillGapUC = usecase.NewSkillGapUsecase(c.Users, c.Jobs)
	c.ApplicationUC = usecase.NewApplicationUsecase(c.Apps, c.Jobs)

	c.Hub = ws.NewHub(logger)

	fetcher := source.NewClient(cfg.Sources, logger, buildProviders(cfg.Sources)...)
	c.Ingest = ingest.NewCoordinator(cfg.Ingest, c.Users, c.Jobs, fetcher, ws.NewIngestEvents(c.Hub), logger)

	c.Notifier = pickNotifier(cfg.Notify, logger)
	c.Briefing = digest.NewBriefing(c.Users, c.RecommendationUC, c.Notifier, logger)
	c.Summary = digest.NewSummary(c.Users, c.Apps, c.Jobs, c.Notifier, logger)

	c.Dispatcher = scheduler.NewDispatcher(c.Cache, logger)
	if err := c.registerTasks(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("register tasks: %w", err)
	}

	return c, nil
}

// buildProviders assembles the boards to poll. We Work Remotely needs no
// credentials and is always on; the others join when configured.
func buildProviders(cfg config.SourcesConfig) []source.Provider {
	providers := []source.Provider{source.NewWeWorkRemotely(cfg)}
	if cfg.AdzunaAppID != "" && cfg.AdzunaAppKey != "" {
		providers = append(providers, source.NewAdzuna(cfg))
	}
	if cfg.LinkedInEnabled {
		providers = append(providers, source.NewLinkedIn(cfg))
	}
	return providers
}

func pickNotifier(cfg config.NotifyConfig, logger *log.Logger) notify.Notifier {
	tg := notify.NewTelegram(cfg)
	if tg.Configured() {
		return tg
	}
	return notify.NewLogWriter(logger)
}

func (c *Container) registerTasks() error {
	sched := c.Config.Scheduler

	tasks := []scheduler.Task{
		{
			Name:    TaskIngest,
			Spec:    sched.IngestSpec,
			Enabled: sched.IngestEnabled,
			Handler: func(ctx context.Context) error {
				_, err := c.Ingest.Run(ctx)
				return err
			},
		},
		{
			Name:    TaskMorningDigest,
			Spec:    sched.MorningSpec,
			Enabled: sched.MorningEnabled,
			Handler: c.Briefing.Run,
		},
		{
			Name:    TaskEveningSummary,
			Spec:    sched.EveningSpec,
			Enabled: sched.EveningEnabled,
			Handler: c.Summary.Run,
		},
	}

	for _, t := range tasks {
		if err := c.Dispatcher.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
