package grounding

import (
	"strings"

	"pulse/internal/retrieval"
)

// Decision is the validated product choice for one customer.
type Decision struct {
	ChosenCode string
	ChosenName string
	// Fallback marks that the generator's proposal was not usable: either
	// its code was absent from the candidate set (closest candidate
	// substituted) or retrieval returned no candidates (literal pass-through).
	Fallback bool
}

// Validate resolves a generator-proposed product code against the retrieval
// candidates. An exact code match is accepted as-is. A miss substitutes the
// first (closest) candidate. With no candidates the proposal passes through
// unvalidated; callers must treat that decision as ungrounded.
func Validate(proposedCode, proposedName string, candidates []retrieval.Candidate) Decision {
	code := strings.TrimSpace(proposedCode)

	if code != "" {
		for _, candidate := range candidates {
			if candidate.Code == code {
				name := candidate.Name
				if name == "" {
					name = strings.TrimSpace(proposedName)
				}
				return Decision{ChosenCode: candidate.Code, ChosenName: name}
			}
		}
	}

	if len(candidates) > 0 {
		first := candidates[0]
		return Decision{ChosenCode: first.Code, ChosenName: first.Name, Fallback: true}
	}

	return Decision{ChosenCode: code, ChosenName: strings.TrimSpace(proposedName), Fallback: true}
}

// Evidence is the audit trail for one grounded decision. It records what the
// flow actually used (the agenda item and search query sent to retrieval,
// the candidate snapshot the decision was made against), independent of
// anything the generator claims in its own reasoning.
type Evidence struct {
	SelectedNews      string   `json:"selected_news"`
	SearchQuery       string   `json:"search_query"`
	ChosenProductCode string   `json:"chosen_product_code"`
	CandidateCodes    []string `json:"candidate_codes"`
	FallbackUsed      bool     `json:"fallback_used"`
}

// NewEvidence snapshots the inputs behind a decision.
func NewEvidence(selectedNews, searchQuery string, decision Decision, candidates []retrieval.Candidate) Evidence {
	codes := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		codes = append(codes, candidate.Code)
	}
	return Evidence{
		SelectedNews:      selectedNews,
		SearchQuery:       searchQuery,
		ChosenProductCode: decision.ChosenCode,
		CandidateCodes:    codes,
		FallbackUsed:      decision.Fallback,
	}
}
