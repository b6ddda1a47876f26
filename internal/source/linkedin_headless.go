package source

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"jobscout/internal/config"

	"github.com/chromedp/chromedp"
)

// LinkedIn drives a headless browser over the public job search page. The
// board renders everything client side, so a plain HTTP fetch sees nothing.
// Disabled by default; the container registers it only when switched on.
type LinkedIn struct {
	baseURL string
	limit   int
}

func NewLinkedIn(cfg config.SourcesConfig) *LinkedIn {
	limit := cfg.MaxPerSource
	if limit <= 0 {
		limit = 25
	}
	return &LinkedIn{
		baseURL: strings.TrimRight(cfg.LinkedInBaseURL, "/"),
		limit:   limit,
	}
}

func (l *LinkedIn) Name() string { return "LinkedIn" }

type linkedinAnchor struct {
	Href  string `json:"href"`
	Title string `json:"title"`
}

var linkedinJobIDRe = regexp.MustCompile(`-([0-9]{6,})/?$`)

func (l *LinkedIn) Search(ctx context.Context, q Query) ([]Posting, error) {
	if l == nil {
		return nil, nil
	}

	params := url.Values{}
	if keywords := strings.TrimSpace(strings.Join(q.Skills, " ")); keywords != "" {
		params.Set("keywords", keywords)
	}
	if where := searchableLocation(q.Locations); where != "" {
		params.Set("location", where)
	}
	searchURL := l.baseURL + "/jobs/search?" + params.Encode()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, 25*time.Second)
	defer reqCancel()

	var anchors []linkedinAnchor
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(searchURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.EvaluateAsDevTools(`Array.from(document.querySelectorAll('a[href*="/jobs/view/"]'))
			.map(a => ({href: a.getAttribute('href'), title: (a.textContent || '').trim()}))`, &anchors),
	)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	out := make([]Posting, 0, l.limit)
	for _, a := range anchors {
		if len(out) >= l.limit {
			break
		}
		href := strings.TrimSpace(a.Href)
		title := strings.TrimSpace(a.Title)
		if href == "" || title == "" {
			continue
		}

		m := linkedinJobIDRe.FindStringSubmatch(href)
		if len(m) < 2 {
			continue
		}
		id := m[1]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		company := companyFromJobSlug(href)
		if company == "" {
			continue
		}
		if strings.HasPrefix(href, "/") {
			href = l.baseURL + href
		}

		out = append(out, Posting{
			Company:    company,
			Title:      title,
			Location:   pickNonEmpty(searchableLocation(q.Locations), "Remote"),
			TechStack:  deriveTechStack(q.Skills, title),
			Experience: experienceFromText(title),
			URL:        href,
		})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no job links found (headless)")
	}
	return out, nil
}

// companyFromJobSlug pulls the company out of a slug shaped like
// /jobs/view/senior-go-engineer-at-acme-corp-3791234567.
func companyFromJobSlug(href string) string {
	slug := href
	if i := strings.LastIndex(slug, "/jobs/view/"); i >= 0 {
		slug = slug[i+len("/jobs/view/"):]
	}
	slug = strings.TrimSuffix(slug, "/")
	if i := strings.Index(slug, "?"); i >= 0 {
		slug = slug[:i]
	}
	slug = linkedinJobIDRe.ReplaceAllString(slug, "")

	i := strings.LastIndex(slug, "-at-")
	if i < 0 {
		return ""
	}
	company := strings.ReplaceAll(slug[i+len("-at-"):], "-", " ")
	return strings.TrimSpace(company)
}

var _ Provider = (*LinkedIn)(nil)
