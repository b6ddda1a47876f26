package source

import (
	"strings"
	"unicode"
)

// skillAliases maps the folded canonical spelling of a skill to other
// spellings boards use for it. Lookup works from either side, so a profile
// listing "golang" still matches a posting that says "Go".
var skillAliases = map[string][]string{
	"go":         {"golang"},
	"javascript": {"js", "node.js", "nodejs"},
	"typescript": {"ts"},
	"kubernetes": {"k8s"},
	"postgresql": {"postgres", "psql"},
	"react":      {"reactjs", "react.js"},
	"vue":        {"vuejs", "vue.js"},
	"c#":         {"csharp", "dotnet", ".net"},
	"ci/cd":      {"cicd", "continuous integration"},
	"terraform":  {"iac"},
	"aws":        {"amazon web services"},
	"gcp":        {"google cloud platform"},
}

// termVariants lists the spellings a posting may use for a skill: the skill
// itself, its aliases, and, when the skill is itself an alias, the canonical
// form with its siblings.
func termVariants(skill string) []string {
	folded := strings.ToLower(strings.TrimSpace(skill))
	if folded == "" {
		return nil
	}
	out := []string{folded}
	seen := map[string]struct{}{folded: {}}
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, a := range skillAliases[folded] {
		add(a)
	}
	for canonical, aliases := range skillAliases {
		for _, a := range aliases {
			if a != folded {
				continue
			}
			add(canonical)
			for _, sibling := range aliases {
				add(sibling)
			}
			break
		}
	}
	return out
}

// foldText lowercases s and collapses every run of characters outside
// letters, digits, '#' and '+' into a single space. Term checks then land on
// word boundaries instead of raw substrings, so "go" stops matching "google"
// while "c++" and "c#" survive folding.
func foldText(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '#' || r == '+' {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// mentions reports whether term occurs in folded text as whole words.
// Multi-word terms match as consecutive words.
func mentions(folded, term string) bool {
	term = foldText(term)
	if term == "" || folded == "" {
		return false
	}
	return strings.Contains(" "+folded+" ", " "+term+" ")
}
