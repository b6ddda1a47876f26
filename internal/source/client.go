package source

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"jobscout/internal/config"
	"jobscout/internal/domain/dedup"
)

// Client fans one query out over every registered provider. A failing board
// is logged and skipped; the fetch only errors when no board answered.
type Client struct {
	providers    []Provider
	timeout      time.Duration
	maxPerSource int
	logger       *log.Logger
}

func NewClient(cfg config.SourcesConfig, logger *log.Logger, providers ...Provider) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxPerSource := cfg.MaxPerSource
	if maxPerSource <= 0 {
		maxPerSource = 25
	}
	return &Client{
		providers:    providers,
		timeout:      timeout,
		maxPerSource: maxPerSource,
		logger:       logger,
	}
}

func (c *Client) Fetch(ctx context.Context, q Query) ([]Posting, error) {
	if c == nil || len(c.providers) == 0 {
		return nil, nil
	}
	if q.Empty() {
		return nil, nil
	}

	type res struct {
		source   string
		postings []Posting
		err      error
	}

	outCh := make(chan res, len(c.providers))
	wg := sync.WaitGroup{}

	for _, p := range c.providers {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx2, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			postings, err := p.Search(ctx2, q)
			outCh <- res{source: p.Name(), postings: postings, err: err}
		}()
	}

	wg.Wait()
	close(outCh)

	all := make([]Posting, 0)
	var okCount int
	var lastErr error

	for r := range outCh {
		if r.err != nil {
			lastErr = r.err
			if c.logger != nil {
				c.logger.Printf("fetch source=%s error=%v", r.source, r.err)
			}
			continue
		}
		okCount++
		if c.logger != nil {
			c.logger.Printf("fetch source=%s postings=%d", r.source, len(r.postings))
		}
		if len(r.postings) > c.maxPerSource {
			r.postings = r.postings[:c.maxPerSource]
		}
		all = append(all, r.postings...)
	}

	if okCount == 0 && lastErr != nil {
		return nil, lastErr
	}

	// Two boards often list the same role. One key per company and title
	// pair keeps the first sighting.
	keys := dedup.NewKeySet()
	out := make([]Posting, 0, len(all))
	for _, p := range all {
		if strings.TrimSpace(p.Company) == "" || strings.TrimSpace(p.Title) == "" {
			continue
		}
		if !keys.Add(dedup.Key(p.Company, p.Title)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
