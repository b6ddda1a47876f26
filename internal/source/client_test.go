package source

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"jobscout/internal/config"
)

type stubProvider struct {
	name     string
	postings []Posting
	err      error
}

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) Search(ctx context.Context, q Query) ([]Posting, error) {
	return s.postings, s.err
}

func testClient(providers ...Provider) *Client {
	cfg := config.SourcesConfig{Timeout: 2 * time.Second, MaxPerSource: 25}
	return NewClient(cfg, log.New(io.Discard, "", 0), providers...)
}

func TestFetch_FailingSourceDoesNotPoisonOthers(t *testing.T) {
	healthy := stubProvider{name: "healthy", postings: []Posting{
		{Company: "Acme", Title: "Backend Engineer"},
	}}
	broken := stubProvider{name: "broken", err: errors.New("board down")}

	c := testClient(healthy, broken)
	got, err := c.Fetch(context.Background(), Query{Skills: []string{"go"}})
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(got) != 1 || got[0].Company != "Acme" {
		t.Fatalf("expected the healthy source's posting, got %+v", got)
	}
}

func TestFetch_AllSourcesFailingReturnsError(t *testing.T) {
	a := stubProvider{name: "a", err: errors.New("down")}
	b := stubProvider{name: "b", err: errors.New("also down")}

	c := testClient(a, b)
	if _, err := c.Fetch(context.Background(), Query{Skills: []string{"go"}}); err == nil {
		t.Fatalf("expected an error when no source answered")
	}
}

func TestFetch_DeduplicatesAcrossSources(t *testing.T) {
	a := stubProvider{name: "a", postings: []Posting{
		{Company: "Acme Corp", Title: "Software Engineer", URL: "https://a.example/1"},
	}}
	b := stubProvider{name: "b", postings: []Posting{
		{Company: "  acme corp  ", Title: "SOFTWARE ENGINEER", URL: "https://b.example/9"},
		{Company: "Globex", Title: "SRE"},
	}}

	c := testClient(a, b)
	got, err := c.Fetch(context.Background(), Query{Skills: []string{"go"}})
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 postings after dedup, got %d", len(got))
	}
}

func TestFetch_DropsPostingsMissingCompanyOrTitle(t *testing.T) {
	p := stubProvider{name: "p", postings: []Posting{
		{Company: "", Title: "Ghost Role"},
		{Company: "Acme", Title: "   "},
		{Company: "Acme", Title: "Real Role"},
	}}

	c := testClient(p)
	got, err := c.Fetch(context.Background(), Query{Skills: []string{"go"}})
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Real Role" {
		t.Fatalf("expected only the complete posting, got %+v", got)
	}
}

func TestFetch_EmptyQueryFetchesNothing(t *testing.T) {
	p := stubProvider{name: "p", postings: []Posting{{Company: "Acme", Title: "Role"}}}

	c := testClient(p)
	got, err := c.Fetch(context.Background(), Query{Skills: []string{"  "}})
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no fetch for an empty query, got %+v", got)
	}
}

func TestFetch_CapsPerSource(t *testing.T) {
	many := make([]Posting, 0, 30)
	for i := 0; i < 30; i++ {
		many = append(many, Posting{Company: "Acme", Title: "Role " + string(rune('A'+i))})
	}
	p := stubProvider{name: "p", postings: many}

	cfg := config.SourcesConfig{Timeout: 2 * time.Second, MaxPerSource: 5}
	c := NewClient(cfg, log.New(io.Discard, "", 0), p)

	got, err := c.Fetch(context.Background(), Query{Skills: []string{"go"}})
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected per-source cap of 5, got %d", len(got))
	}
}

func TestDeriveTechStack(t *testing.T) {
	got := deriveTechStack([]string{"Go", "Redis", "Kafka", "go"}, "Senior Go Engineer with Redis experience")
	if len(got) != 2 || got[0] != "Go" || got[1] != "Redis" {
		t.Fatalf("unexpected stack %v", got)
	}
}

func TestExperienceFromText(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Senior Backend Engineer", "senior"},
		{"Junior Developer", "junior"},
		{"Mid-Level Engineer", "mid"},
		{"Backend Engineer", ""},
	}
	for _, tt := range tests {
		if got := experienceFromText(tt.text); string(got) != tt.want {
			t.Fatalf("experienceFromText(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
