package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"jobscout/internal/cache"
	"jobscout/internal/config"
	"jobscout/internal/database"
	"jobscout/internal/database/migration"
	dbpostgres "jobscout/internal/database/postgres"
	"jobscout/internal/delivery/http/handler"
	"jobscout/internal/delivery/http/middleware"
	"jobscout/internal/delivery/http/routes"
	"jobscout/internal/domain/match"
	"jobscout/internal/pkg/jwt"
	"jobscout/internal/repository"
	"jobscout/internal/scheduler"
	"jobscout/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type authData struct {
	AccessToken string `json:"access_token"`
}

type jobData struct {
	ID uuid.UUID `json:"id"`
}

type applicationData struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type recommendationItem struct {
	JobID    uuid.UUID `json:"job_id"`
	Company  string    `json:"company"`
	Title    string    `json:"title"`
	Location string    `json:"location"`
	Score    int       `json:"score"`
}

type skillGapData struct {
	MissingSkills      []string `json:"missing_skills"`
	CoveragePercentage float64  `json:"coverage_percentage"`
}

func TestIntegration_RecommendationFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()

	runMigrations(t, ctx, db)

	email := fmt.Sprintf("flow-%s@example.test", uuid.New())
	defer cleanupUser(db, email)

	app := newTestApp(t, db)

	checkHealth(t, app)

	tok := registerAndGetToken(t, app, email)
	updateProfile(t, app, tok)

	fullMatch := createJob(t, app, tok, map[string]any{
		"company":    "Acme",
		"title":      "Backend Engineer",
		"location":   "Berlin",
		"tech_stack": []string{"Go", "PostgreSQL"},
	})
	partialMatch := createJob(t, app, tok, map[string]any{
		"company":    "Globex",
		"title":      "Platform Engineer",
		"location":   "Remote",
		"tech_stack": []string{"Go", "Kubernetes", "Terraform"},
	})

	recs := getRecommendations(t, app, tok)
	if len(recs) != 2 {
		t.Fatalf("recommendations: expected 2 items, got %d", len(recs))
	}
	assertNoDuplicateJobs(t, recs)
	assertSortedByScoreDesc(t, recs)
	if recs[0].JobID != fullMatch {
		t.Fatalf("recommendations: expected full match first, got job_id=%s", recs[0].JobID)
	}
	for i, it := range recs {
		if it.Score < 0 || it.Score > 100 {
			t.Fatalf("recommendations: idx=%d score out of range: %d", i, it.Score)
		}
	}

	appID := createApplication(t, app, tok, fullMatch)
	updateApplicationStatus(t, app, tok, appID, "applied")

	recs = getRecommendations(t, app, tok)
	if len(recs) != 1 {
		t.Fatalf("recommendations after applying: expected 1 item, got %d", len(recs))
	}
	if recs[0].JobID != partialMatch {
		t.Fatalf("recommendations after applying: expected job_id=%s, got %s", partialMatch, recs[0].JobID)
	}

	gap := getSkillGap(t, app, tok)
	if !containsFold(gap.MissingSkills, "Kubernetes") || !containsFold(gap.MissingSkills, "Terraform") {
		t.Fatalf("skill gap: expected Kubernetes and Terraform missing, got %v", gap.MissingSkills)
	}
	if containsFold(gap.MissingSkills, "Go") {
		t.Fatalf("skill gap: Go is a declared skill, got %v", gap.MissingSkills)
	}
	if gap.CoveragePercentage >= 100 {
		t.Fatalf("skill gap: expected coverage below 100, got %v", gap.CoveragePercentage)
	}
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := envOrDefault("JOBSCOUT_TEST_DB_HOST", os.Getenv("DB_HOST"))
	port := envOrDefault("JOBSCOUT_TEST_DB_PORT", os.Getenv("DB_PORT"))
	name := envOrDefault("JOBSCOUT_TEST_DB_NAME", os.Getenv("DB_NAME"))
	user := envOrDefault("JOBSCOUT_TEST_DB_USER", os.Getenv("DB_USER"))
	pass := envOrDefault("JOBSCOUT_TEST_DB_PASSWORD", os.Getenv("DB_PASSWORD"))
	ssl := envOrDefault("JOBSCOUT_TEST_DB_SSL_MODE", os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set JOBSCOUT_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	if ssl == "" {
		ssl = "disable"
	}

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		Host:     host,
		Port:     port,
		Name:     name,
		User:     user,
		Password: pass,
		SSLMode:  ssl,
	})
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, ctx context.Context, db database.DB) {
	t.Helper()

	r := migration.Runner{Dir: resolveMigrationsDir(t)}
	if err := r.Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
}

func resolveMigrationsDir(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("resolve migrations dir: runtime.Caller failed")
	}

	// this file: internal/integration/recommendation_flow_test.go
	// repo root: ../../
	root := filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
	dir := filepath.Join(root, "migrations")

	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		t.Fatalf("resolve migrations dir: not found or not a dir: %s", dir)
	}
	return dir
}

func newTestApp(t *testing.T, db database.DB) *fiber.App {
	t.Helper()

	logger := log.New(io.Discard, "", 0)
	bypassed := cache.NewRedis(config.RedisConfig{}, nil)

	users := repository.NewPostgresUserRepository(db)
	jobs := repository.NewPostgresJobRepository(db)
	apps := repository.NewPostgresApplicationRepository(db)

	tokens := jwt.NewHMACService("it-access-secret", "it-refresh-secret", 15*time.Minute, 24*time.Hour)

	scorer, err := match.NewScorer(match.DefaultWeights())
	if err != nil {
		t.Fatalf("build scorer: %v", err)
	}

	dispatcher := scheduler.NewDispatcher(bypassed, logger)

	reg := &routes.Registry{
		Health:          handler.NewHealthHandler(db, bypassed, dispatcher.States),
		Auth:            handler.NewAuthHandler(usecase.NewAuthUsecase(users, tokens)),
		Profile:         handler.NewProfileHandler(usecase.NewProfileUsecase(users)),
		Jobs:            handler.NewJobsHandler(usecase.NewJobUsecase(jobs, users)),
		Recommendations: handler.NewRecommendationHandler(usecase.NewRecommendationUsecase(users, jobs, apps, scorer, bypassed, time.Hour)),
		SkillGaps:       handler.NewSkillGapHandler(usecase.NewSkillGapUsecase(users, jobs)),
		Applications:    handler.NewApplicationHandler(usecase.NewApplicationUsecase(apps, jobs)),

		AccessLog: middleware.NewAccessLogMiddleware(logger),
		Errors:    middleware.NewErrorMiddleware(logger),
		Guard:     middleware.NewAuthMiddleware(tokens),
	}

	app := fiber.New(fiber.Config{})
	reg.Register(app)
	return app
}

func cleanupUser(db database.DB, email string) {
	// The schema cascades: deleting the user removes the profile, the jobs
	// and the applications seeded through the API.
	_, _ = db.Exec(context.Background(), `DELETE FROM users WHERE email = $1`, email)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) semanticResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("%s %s: marshal body: %v", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: request error: %v", method, path, err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("%s %s: decode error: %v", method, path, err)
	}
	return sr
}

func checkHealth(t *testing.T, app *fiber.App) {
	t.Helper()

	sr := doJSON(t, app, http.MethodGet, "/healthz", "", nil)
	if sr.Status != 200 {
		t.Fatalf("healthz: expected status=200, got %d (message=%s)", sr.Status, sr.Message)
	}
}

func registerAndGetToken(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	sr := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": "integration-pass",
	})
	if sr.Status != 201 {
		t.Fatalf("register: expected status=201, got %d (message=%s)", sr.Status, sr.Message)
	}

	var ad authData
	if err := json.Unmarshal(sr.Data, &ad); err != nil {
		t.Fatalf("register: data unmarshal error: %v", err)
	}
	if ad.AccessToken == "" {
		t.Fatalf("register: missing access_token")
	}
	return ad.AccessToken
}

func updateProfile(t *testing.T, app *fiber.App, token string) {
	t.Helper()

	sr := doJSON(t, app, http.MethodPut, "/api/v1/me/profile", token, map[string]any{
		"skills":              []string{"Go", "PostgreSQL"},
		"preferred_locations": []string{"Berlin"},
		"experience_level":    "mid",
	})
	if sr.Status != 200 {
		t.Fatalf("update profile: expected status=200, got %d (message=%s)", sr.Status, sr.Message)
	}
}

func createJob(t *testing.T, app *fiber.App, token string, body map[string]any) uuid.UUID {
	t.Helper()

	sr := doJSON(t, app, http.MethodPost, "/api/v1/jobs", token, body)
	if sr.Status != 201 {
		t.Fatalf("create job: expected status=201, got %d (message=%s)", sr.Status, sr.Message)
	}

	var jd jobData
	if err := json.Unmarshal(sr.Data, &jd); err != nil {
		t.Fatalf("create job: data unmarshal error: %v", err)
	}
	if jd.ID == uuid.Nil {
		t.Fatalf("create job: missing id")
	}
	return jd.ID
}

func getRecommendations(t *testing.T, app *fiber.App, token string) []recommendationItem {
	t.Helper()

	sr := doJSON(t, app, http.MethodGet, "/api/v1/recommendations?limit=10", token, nil)
	if sr.Status != 200 {
		t.Fatalf("recommendations: expected status=200, got %d (message=%s)", sr.Status, sr.Message)
	}

	var items []recommendationItem
	if err := json.Unmarshal(sr.Data, &items); err != nil {
		t.Fatalf("recommendations: data unmarshal error: %v", err)
	}
	return items
}

func createApplication(t *testing.T, app *fiber.App, token string, jobID uuid.UUID) uuid.UUID {
	t.Helper()

	sr := doJSON(t, app, http.MethodPost, "/api/v1/applications", token, map[string]any{
		"job_id": jobID,
		"note":   "integration run",
	})
	if sr.Status != 201 {
		t.Fatalf("create application: expected status=201, got %d (message=%s)", sr.Status, sr.Message)
	}

	var ad applicationData
	if err := json.Unmarshal(sr.Data, &ad); err != nil {
		t.Fatalf("create application: data unmarshal error: %v", err)
	}
	if ad.Status != "interested" {
		t.Fatalf("create application: expected status=interested, got %s", ad.Status)
	}
	return ad.ID
}

func updateApplicationStatus(t *testing.T, app *fiber.App, token string, appID uuid.UUID, status string) {
	t.Helper()

	path := fmt.Sprintf("/api/v1/applications/%s/status", appID)
	sr := doJSON(t, app, http.MethodPatch, path, token, map[string]string{"status": status})
	if sr.Status != 200 {
		t.Fatalf("update application status: expected status=200, got %d (message=%s)", sr.Status, sr.Message)
	}

	var ad applicationData
	if err := json.Unmarshal(sr.Data, &ad); err != nil {
		t.Fatalf("update application status: data unmarshal error: %v", err)
	}
	if ad.Status != status {
		t.Fatalf("update application status: expected %s, got %s", status, ad.Status)
	}
}

func getSkillGap(t *testing.T, app *fiber.App, token string) skillGapData {
	t.Helper()

	sr := doJSON(t, app, http.MethodGet, "/api/v1/skill-gaps", token, nil)
	if sr.Status != 200 {
		t.Fatalf("skill gap: expected status=200, got %d (message=%s)", sr.Status, sr.Message)
	}

	var gap skillGapData
	if err := json.Unmarshal(sr.Data, &gap); err != nil {
		t.Fatalf("skill gap: data unmarshal error: %v", err)
	}
	return gap
}

func assertSortedByScoreDesc(t *testing.T, items []recommendationItem) {
	t.Helper()

	for i := 1; i < len(items); i++ {
		if items[i].Score > items[i-1].Score {
			t.Fatalf("recommendations: expected score descending at idx=%d: prev=%d cur=%d", i, items[i-1].Score, items[i].Score)
		}
	}
}

func assertNoDuplicateJobs(t *testing.T, items []recommendationItem) {
	t.Helper()

	seen := map[uuid.UUID]struct{}{}
	for i, it := range items {
		if it.JobID == uuid.Nil {
			t.Fatalf("recommendations: idx=%d has nil job_id", i)
		}
		if _, ok := seen[it.JobID]; ok {
			t.Fatalf("recommendations: duplicate job_id=%s", it.JobID)
		}
		seen[it.JobID] = struct{}{}
	}
}

func containsFold(items []string, want string) bool {
	for _, it := range items {
		if strings.EqualFold(it, want) {
			return true
		}
	}
	return false
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
