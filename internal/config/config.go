package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Scheduler SchedulerConfig
	Sources   SourcesConfig
	Notify    NotifyConfig
	Ingest    IngestConfig
	Match     MatchConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	MigrationsDir string
	RunSeeders    bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	RecommendationTTL time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

// SchedulerConfig carries one cron expression and one feature flag per
// dispatched task. The dispatcher consumes these values as-is.
type SchedulerConfig struct {
	Enabled bool

	IngestSpec    string
	IngestEnabled bool

	MorningSpec    string
	MorningEnabled bool

	EveningSpec    string
	EveningEnabled bool
}

type SourcesConfig struct {
	Timeout      time.Duration
	MaxPerSource int

	AdzunaBaseURL string
	AdzunaAppID   string
	AdzunaAppKey  string
	AdzunaCountry string

	WWRBaseURL string

	LinkedInEnabled bool
	LinkedInBaseURL string
}

type NotifyConfig struct {
	Timeout time.Duration

	TelegramToken  string
	TelegramChatID string
}

type IngestConfig struct {
	Workers     int
	UserTimeout time.Duration

	// UsersPerSecond caps how fast per-user runs start, spreading load on
	// the external boards. Zero disables the limit.
	UsersPerSecond int
}

type MatchConfig struct {
	TechWeight       float64
	LocationWeight   float64
	ExperienceWeight float64
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	optInt := func(key string, def int) int {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return def
		}
		return n
	}
	optBool := func(key string, def bool) bool {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return def
		}
		return d
	}
	optFloat := func(key string, def float64) float64 {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return def
		}
		return f
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		Host:     opt("DB_HOST", "localhost"),
		Port:     opt("DB_PORT", "5432"),
		Name:     opt("DB_NAME", "jobscout"),
		User:     opt("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"),
		SSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),

		MigrationsDir: opt("DB_MIGRATIONS_DIR", "migrations"),
		RunSeeders:    optBool("DB_RUN_SEEDERS", false),
	}

	cfg.Redis = RedisConfig{
		Addr:              opt("REDIS_ADDR", ""),
		Password:          os.Getenv("REDIS_PASSWORD"),
		DB:                optInt("REDIS_DB", 0),
		RecommendationTTL: optDuration("RECOMMENDATION_CACHE_TTL", time.Hour),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  optDuration("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: optDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.Scheduler = SchedulerConfig{
		Enabled: optBool("SCHEDULER_ENABLED", true),

		IngestSpec:    opt("SCHEDULE_INGEST", "0 2 * * *"),
		IngestEnabled: optBool("SCHEDULE_INGEST_ENABLED", true),

		MorningSpec:    opt("SCHEDULE_MORNING_BRIEFING", "0 7 * * *"),
		MorningEnabled: optBool("SCHEDULE_MORNING_BRIEFING_ENABLED", true),

		EveningSpec:    opt("SCHEDULE_EVENING_SUMMARY", "0 19 * * *"),
		EveningEnabled: optBool("SCHEDULE_EVENING_SUMMARY_ENABLED", true),
	}

	cfg.Sources = SourcesConfig{
		Timeout:      optDuration("SOURCE_TIMEOUT", 15*time.Second),
		MaxPerSource: optInt("SOURCE_MAX_PER_SOURCE", 25),

		AdzunaBaseURL: opt("ADZUNA_BASE_URL", "https://api.adzuna.com/v1/api"),
		AdzunaAppID:   os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:  os.Getenv("ADZUNA_APP_KEY"),
		AdzunaCountry: opt("ADZUNA_COUNTRY", "gb"),

		WWRBaseURL: opt("WWR_BASE_URL", "https://weworkremotely.com"),

		LinkedInEnabled: optBool("LINKEDIN_HEADLESS_ENABLED", false),
		LinkedInBaseURL: opt("LINKEDIN_BASE_URL", "https://www.linkedin.com"),
	}

	cfg.Notify = NotifyConfig{
		Timeout:        optDuration("NOTIFY_TIMEOUT", 10*time.Second),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),
	}

	cfg.Ingest = IngestConfig{
		Workers:        optInt("INGEST_WORKERS", 4),
		UserTimeout:    optDuration("INGEST_USER_TIMEOUT", time.Minute),
		UsersPerSecond: optInt("INGEST_USERS_PER_SECOND", 0),
	}

	cfg.Match = MatchConfig{
		TechWeight:       optFloat("MATCH_WEIGHT_TECH", 0.5),
		LocationWeight:   optFloat("MATCH_WEIGHT_LOCATION", 0.3),
		ExperienceWeight: optFloat("MATCH_WEIGHT_EXPERIENCE", 0.2),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}
