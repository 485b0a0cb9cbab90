// Package risk scores a content preview without trusting the caller's own
// scan. Scoring is pure and deterministic: same text, same assessment.
package risk

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"kasbah/internal/guard/models"
)

const (
	baseline           = 10
	patternPenalty     = 75
	largePenalty       = 15
	veryLargePenalty   = 25
	largeThreshold     = 2500
	veryLargeThreshold = 5000

	warnThreshold   = 85
	reviewThreshold = 50
)

// NoIssues is the reason reported when nothing in the preview fired.
const NoIssues = "no issues detected"

// markers is the ordered catalogue of sensitive-pattern substrings, matched
// against the lowercased preview. Order is part of the contract: matched
// markers are reported in catalogue order.
var markers = []string{
	// credential keywords
	"api_key",
	"apikey",
	"password",
	"passwd",
	"secret",
	"token",
	"bearer",
	// private key material
	"-----begin",
	// vendor token prefixes
	"sk-",
	"akia",
	"ghp_",
	"xox",
	// database connection strings
	"mongodb://",
	"postgres://",
	"mysql://",
	"redis://",
}

// Assessment is the scorer's verdict on a preview.
type Assessment struct {
	Risk    int
	Verdict models.Verdict
	Reason  string
}

// Score assesses text and returns a risk in [0,100], a coarse verdict, and
// a reason string. It never fails; empty text scores the baseline.
func Score(text string) Assessment {
	score := baseline
	var reasons []string

	if matched := scan(text); len(matched) > 0 {
		score += patternPenalty
		reasons = append(reasons, "sensitive patterns detected: "+strings.Join(matched, ", "))
	}

	// Length brackets are mutually exclusive; only the applicable one fires.
	n := utf8.RuneCountInString(text)
	switch {
	case n > veryLargeThreshold:
		score += veryLargePenalty
		reasons = append(reasons, fmt.Sprintf("very large message (%d chars)", n))
	case n > largeThreshold:
		score += largePenalty
		reasons = append(reasons, fmt.Sprintf("large message (%d chars)", n))
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	reason := NoIssues
	if len(reasons) > 0 {
		reason = strings.Join(reasons, "; ")
	}

	return Assessment{
		Risk:    score,
		Verdict: verdict(score),
		Reason:  reason,
	}
}

// scan returns the distinct markers present in text, in catalogue order.
func scan(text string) []string {
	lowered := strings.ToLower(text)
	var matched []string
	for _, m := range markers {
		if strings.Contains(lowered, m) {
			matched = append(matched, m)
		}
	}
	return matched
}

func verdict(score int) models.Verdict {
	switch {
	case score >= warnThreshold:
		return models.VerdictWarn
	case score >= reviewThreshold:
		return models.VerdictReview
	default:
		return models.VerdictAllow
	}
}
