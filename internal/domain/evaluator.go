package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SynonymMode selects which boolean synonyms an Evaluator accepts.
type SynonymMode string

const (
	// SynonymsCompat accepts "yes" for "true" and nothing else. This mirrors
	// the behavior clients already observe, including "no" being rejected for "false".
	SynonymsCompat SynonymMode = "compat"
	// SynonymsSymmetric accepts yes/true and no/false in both directions.
	SynonymsSymmetric SynonymMode = "symmetric"
)

// ParseSynonymMode validates a configured mode. Empty selects SynonymsCompat.
func ParseSynonymMode(raw string) (SynonymMode, error) {
	switch SynonymMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SynonymsCompat:
		return SynonymsCompat, nil
	case SynonymsSymmetric:
		return SynonymsSymmetric, nil
	default:
		return "", fmt.Errorf("unknown synonym mode %q", raw)
	}
}

// Evaluator compares submitted answers against canonical answers.
type Evaluator struct {
	// synonyms maps a normalized submission to the normalized canonical answers it may stand for.
	synonyms map[string][]string
}

// NewEvaluator builds an Evaluator for mode.
func NewEvaluator(mode SynonymMode) Evaluator {
	switch mode {
	case SynonymsSymmetric:
		return Evaluator{synonyms: map[string][]string{
			"yes":   {"true"},
			"true":  {"yes"},
			"no":    {"false"},
			"false": {"no"},
		}}
	default:
		return Evaluator{synonyms: map[string][]string{
			"yes": {"true"},
		}}
	}
}

// IsCorrect reports whether submitted is equivalent to canonical. An empty
// submission is never correct.
func (e Evaluator) IsCorrect(submitted, canonical string) bool {
	sub := normalizeAnswer(submitted)
	if sub == "" {
		return false
	}
	if submitted == canonical {
		return true
	}
	want := normalizeAnswer(canonical)
	if sub == want {
		return true
	}
	if a, ok := parseNumber(sub); ok {
		if b, ok := parseNumber(want); ok && a == b {
			return true
		}
	}
	for _, alt := range e.synonyms[sub] {
		if alt == want {
			return true
		}
	}
	return false
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
