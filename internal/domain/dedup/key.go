package dedup

import (
	"strings"
	"unicode"
)

// Key builds the duplicate identity for a posting from its company and
// title. Two postings that differ only in casing, surrounding whitespace,
// or punctuation produce the same key.
func Key(company, title string) string {
	return normalizeTerm(company) + "|" + normalizeTerm(title)
}

func normalizeTerm(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return ""
	}

	b := strings.Builder{}
	b.Grow(len(s))
	lastWasSpace := false

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			lastWasSpace = false
			continue
		}
		if unicode.IsSpace(r) {
			if b.Len() == 0 || lastWasSpace {
				continue
			}
			b.WriteByte(' ')
			lastWasSpace = true
			continue
		}
		// drop all other characters
	}

	return strings.TrimSpace(b.String())
}

type KeySet struct {
	keys map[string]struct{}
}

func NewKeySet(keys ...string) *KeySet {
	s := &KeySet{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		if k == "" {
			continue
		}
		s.keys[k] = struct{}{}
	}
	return s
}

func (s *KeySet) Contains(key string) bool {
	if s == nil || s.keys == nil {
		return false
	}
	_, ok := s.keys[key]
	return ok
}

// Add inserts key and reports whether it was absent before the call.
func (s *KeySet) Add(key string) bool {
	if s == nil || s.keys == nil || key == "" {
		return false
	}
	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

func (s *KeySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}
