package source

import (
	"net"
	"net/url"
	"strings"

	"jobscout/internal/domain/job"
)

func httpHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "JobScout/0.1",
		"Accept-Language": "en-US,en;q=0.9",
	}
}

// deriveTechStack keeps the queried skills that actually appear in the
// posting text. Boards rarely expose a structured stack, so the searched
// skills double as the vocabulary; alias spellings count as mentions.
func deriveTechStack(skills []string, text string) []string {
	folded := foldText(text)
	out := make([]string, 0, len(skills))
	seen := map[string]struct{}{}
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		for _, variant := range termVariants(s) {
			if mentions(folded, variant) {
				seen[key] = struct{}{}
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func experienceFromText(text string) job.ExperienceLevel {
	folded := strings.ToLower(text)
	switch {
	case strings.Contains(folded, "senior") || strings.Contains(folded, "sr."):
		return job.ExperienceSenior
	case strings.Contains(folded, "junior") || strings.Contains(folded, "jr.") || strings.Contains(folded, "entry level"):
		return job.ExperienceJunior
	case strings.Contains(folded, "mid-level") || strings.Contains(folded, "mid level") || strings.Contains(folded, "intermediate"):
		return job.ExperienceMid
	default:
		return job.ExperienceUnspecified
	}
}

func pickNonEmpty(a, b string) string {
	a = strings.TrimSpace(a)
	if a != "" {
		return a
	}
	return strings.TrimSpace(b)
}

func hostFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := u.Host
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
