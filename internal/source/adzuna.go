package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobscout/internal/config"
)

// Adzuna talks to the Adzuna search API. It needs an app id and key; the
// container only registers it when both are configured.
type Adzuna struct {
	client  *http.Client
	baseURL string
	appID   string
	appKey  string
	country string
	perPage int
}

func NewAdzuna(cfg config.SourcesConfig) *Adzuna {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	perPage := cfg.MaxPerSource
	if perPage <= 0 {
		perPage = 25
	}
	return &Adzuna{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.AdzunaBaseURL, "/"),
		appID:   cfg.AdzunaAppID,
		appKey:  cfg.AdzunaAppKey,
		country: cfg.AdzunaCountry,
		perPage: perPage,
	}
}

func (a *Adzuna) Name() string { return "Adzuna" }

type adzunaResult struct {
	Title   string `json:"title"`
	Company struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	Description string `json:"description"`
	RedirectURL string `json:"redirect_url"`
}

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
}

func (a *Adzuna) Search(ctx context.Context, q Query) ([]Posting, error) {
	if a == nil {
		return nil, nil
	}

	params := url.Values{}
	params.Set("app_id", a.appID)
	params.Set("app_key", a.appKey)
	params.Set("results_per_page", strconv.Itoa(a.perPage))
	params.Set("content-type", "application/json")
	if what := strings.TrimSpace(strings.Join(q.Skills, " ")); what != "" {
		params.Set("what_or", what)
	}
	if where := searchableLocation(q.Locations); where != "" {
		params.Set("where", where)
	}

	endpoint := fmt.Sprintf("%s/jobs/%s/search/1?%s", a.baseURL, a.country, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range httpHeaders() {
		req.Header.Set(k, v)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("adzuna status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	out := make([]Posting, 0, len(payload.Results))
	for _, r := range payload.Results {
		title := strings.TrimSpace(r.Title)
		company := strings.TrimSpace(r.Company.DisplayName)
		if title == "" || company == "" {
			continue
		}
		text := title + " " + r.Description
		out = append(out, Posting{
			Company:    company,
			Title:      title,
			Location:   strings.TrimSpace(r.Location.DisplayName),
			TechStack:  deriveTechStack(q.Skills, text),
			Experience: experienceFromText(title),
			URL:        strings.TrimSpace(r.RedirectURL),
		})
	}
	return out, nil
}

// searchableLocation picks the first concrete place from the preferences.
// Remote is not a place the API can search by, so it falls through.
func searchableLocation(locations []string) string {
	for _, l := range locations {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if strings.Contains(strings.ToLower(l), "remote") {
			continue
		}
		return l
	}
	return ""
}

var _ Provider = (*Adzuna)(nil)
