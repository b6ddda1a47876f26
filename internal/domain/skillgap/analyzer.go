package skillgap

import (
	"math"
	"sort"
	"strings"

	"jobscout/internal/domain/job"
)

const maxRecommendations = 5

type Report struct {
	UserSkills         []string `json:"user_skills"`
	MissingSkills      []string `json:"missing_skills"`
	CoveragePercentage float64  `json:"coverage_percentage"`
	Recommendations    []string `json:"recommendations"`
}

// Analyze aggregates tech-stack demand across a user's saved postings and
// reports which of those skills the user does not declare. With no
// mentioned skills there is no observable gap, so coverage is 100.
func Analyze(userSkills []string, postings []job.Posting) Report {
	have := make(map[string]struct{}, len(userSkills))
	cleanedSkills := make([]string, 0, len(userSkills))
	for _, s := range userSkills {
		k := fold(s)
		if k == "" {
			continue
		}
		if _, dup := have[k]; dup {
			continue
		}
		have[k] = struct{}{}
		cleanedSkills = append(cleanedSkills, strings.TrimSpace(s))
	}

	freq := make(map[string]int)
	display := make(map[string]string)
	for _, p := range postings {
		for _, t := range p.TechStack {
			k := fold(t)
			if k == "" {
				continue
			}
			freq[k]++
			if _, ok := display[k]; !ok {
				display[k] = strings.TrimSpace(t)
			}
		}
	}

	if len(freq) == 0 {
		return Report{
			UserSkills:         cleanedSkills,
			MissingSkills:      []string{},
			CoveragePercentage: 100,
			Recommendations:    []string{},
		}
	}

	covered := 0
	missingKeys := make([]string, 0, len(freq))
	for k := range freq {
		if _, ok := have[k]; ok {
			covered++
			continue
		}
		missingKeys = append(missingKeys, k)
	}

	sort.Slice(missingKeys, func(i, j int) bool {
		fi, fj := freq[missingKeys[i]], freq[missingKeys[j]]
		if fi != fj {
			return fi > fj
		}
		return missingKeys[i] < missingKeys[j]
	})

	missing := make([]string, 0, len(missingKeys))
	for _, k := range missingKeys {
		missing = append(missing, display[k])
	}

	coverage := float64(covered) / float64(len(freq)) * 100
	coverage = math.Round(coverage*100) / 100

	recs := missing
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	out := make([]string, len(recs))
	copy(out, recs)

	return Report{
		UserSkills:         cleanedSkills,
		MissingSkills:      missing,
		CoveragePercentage: coverage,
		Recommendations:    out,
	}
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
