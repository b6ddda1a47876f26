package source

import (
	"context"
	"strings"
	"time"

	"jobscout/internal/config"

	"github.com/gocolly/colly/v2"
)

// WeWorkRemotely scrapes the programming category listing. Every posting on
// the board is remote, so location is fixed and the skill terms decide what
// survives the fetch.
type WeWorkRemotely struct {
	baseURL string
}

func NewWeWorkRemotely(cfg config.SourcesConfig) *WeWorkRemotely {
	return &WeWorkRemotely{baseURL: strings.TrimRight(cfg.WWRBaseURL, "/")}
}

func (w *WeWorkRemotely) Name() string { return "We Work Remotely" }

func (w *WeWorkRemotely) Search(ctx context.Context, q Query) ([]Posting, error) {
	if w == nil {
		return nil, nil
	}

	listURL := w.baseURL + "/categories/remote-programming-jobs"

	allowed := hostFromURL(listURL)
	var c *colly.Collector
	if allowed == "" {
		c = colly.NewCollector()
	} else {
		c = colly.NewCollector(colly.AllowedDomains(allowed))
	}
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 2, RandomDelay: 850 * time.Millisecond, Delay: 450 * time.Millisecond})

	out := make([]Posting, 0)
	seen := map[string]struct{}{}

	c.OnRequest(func(r *colly.Request) {
		for k, v := range httpHeaders() {
			r.Headers.Set(k, v)
		}
	})

	c.OnHTML("section.jobs li", func(e *colly.HTMLElement) {
		company := strings.TrimSpace(e.DOM.Find("span.company").First().Text())
		title := strings.TrimSpace(e.DOM.Find("span.title").First().Text())
		if company == "" || title == "" {
			return
		}

		href := strings.TrimSpace(e.DOM.Find("a").First().AttrOr("href", ""))
		abs := ""
		if href != "" {
			abs = e.Request.AbsoluteURL(href)
		}
		if abs != "" {
			if _, ok := seen[abs]; ok {
				return
			}
			seen[abs] = struct{}{}
		}

		stack := deriveTechStack(q.Skills, title)
		if len(q.Skills) > 0 && len(stack) == 0 {
			return
		}

		out = append(out, Posting{
			Company:    company,
			Title:      title,
			Location:   "Remote",
			TechStack:  stack,
			Experience: experienceFromText(title),
			URL:        abs,
		})
	})

	var reqErr error
	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err := c.Visit(listURL); err != nil {
		return nil, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, reqErr
	}
	return out, nil
}

var _ Provider = (*WeWorkRemotely)(nil)
