package curation

import (
	"strings"

	"pulse/internal/textutil"
)

// Blocked records one rejected text and the rule category that matched.
type Blocked struct {
	Text   string
	Reason string
}

// Result is the outcome of a safety check over a batch of texts.
type Result struct {
	Allowed []string
	Blocked []Blocked
}

// Check classifies each text against the brand-safety tables. Texts are
// whitespace-normalized first; empties are skipped. Allowed texts come back
// de-duplicated case-insensitively with order preserved.
func (r *Rules) Check(texts []string) Result {
	var result Result
	for _, raw := range texts {
		text := textutil.CollapseSpace(raw)
		if text == "" {
			continue
		}

		if reason, blocked := r.blockReason(text); blocked {
			result.Blocked = append(result.Blocked, Blocked{Text: text, Reason: reason})
			continue
		}
		result.Allowed = append(result.Allowed, text)
	}

	seen := make(map[string]struct{}, len(result.Allowed))
	unique := result.Allowed[:0]
	for _, text := range result.Allowed {
		key := textutil.FoldKey(text)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, text)
	}
	result.Allowed = unique
	return result
}

// AllowedText reports whether a single text passes the safety tables.
func (r *Rules) AllowedText(text string) bool {
	_, blocked := r.blockReason(textutil.CollapseSpace(text))
	return !blocked
}

func (r *Rules) blockReason(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, candidate := range r.safety {
		if candidate.pattern.MatchString(lowered) {
			return candidate.reason, true
		}
	}
	return "", false
}
