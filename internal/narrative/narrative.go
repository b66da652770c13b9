// Package narrative scores free-text token narratives and social
// presence with deterministic keyword heuristics. No I/O happens here;
// both scorers are pure apart from the pluggable engagement sampler.
package narrative

import (
	"fmt"
	"strings"

	"solana-token-sentinel/internal/domain"
)

// keywordWeight ties a case-insensitive substring to its score delta.
type keywordWeight struct {
	word   string
	weight int
}

var positiveKeywords = []keywordWeight{
	{"audit", 20},
	{"partnership", 15},
	{"doxxed", 15},
	{"utility", 10},
	{"community", 10},
	{"roadmap", 10},
	{"experienced team", 10},
	{"locked", 10},
}

var negativeKeywords = []keywordWeight{
	{"rugpull", 30},
	{"rug pull", 30},
	{"1000x", 30},
	{"100x", 20},
	{"guaranteed", 20},
	{"pump", 15},
	{"moon soon", 15},
	{"get rich", 15},
}

const (
	narrativeBase = 50

	shortNarrativeLen     = 20
	shortNarrativePenalty = 10
	longNarrativeLen      = 200
	longNarrativeBonus    = 5

	urlBonus = 10

	websiteBonus  = 10
	twitterBonus  = 20
	telegramBonus = 15
	allLinksBonus = 10
)

// ScoreNarrative applies the keyword tables to the candidate's narrative
// text and symbol, then layers on length, URL and social-link bonuses.
// Deterministic for identical input.
func ScoreNarrative(token *domain.TokenCandidate) domain.NarrativeQuality {
	text := strings.ToLower(token.Narrative + " " + token.Symbol)
	score := narrativeBase

	var signals, warnings []string
	for _, kw := range positiveKeywords {
		if strings.Contains(text, kw.word) {
			score += kw.weight
			signals = append(signals, fmt.Sprintf("%s (+%d)", kw.word, kw.weight))
		}
	}
	for _, kw := range negativeKeywords {
		if strings.Contains(text, kw.word) {
			score -= kw.weight
			warnings = append(warnings, fmt.Sprintf("%s (-%d)", kw.word, kw.weight))
		}
	}

	switch n := len(token.Narrative); {
	case n < shortNarrativeLen:
		score -= shortNarrativePenalty
		warnings = append(warnings, "description too short")
	case n > longNarrativeLen:
		score += longNarrativeBonus
		signals = append(signals, "detailed description")
	}

	if strings.Contains(text, "http://") || strings.Contains(text, "https://") {
		score += urlBonus
		signals = append(signals, "contains link")
	}

	if s := token.Socials; s != nil {
		if s.Website != "" {
			score += websiteBonus
			signals = append(signals, "website")
		}
		if s.Twitter != "" {
			score += twitterBonus
			signals = append(signals, "twitter")
		}
		if s.Telegram != "" {
			score += telegramBonus
			signals = append(signals, "telegram")
		}
		if s.HasAll() {
			score += allLinksBonus
			signals = append(signals, "full social presence")
		}
	}

	return domain.NarrativeQuality{
		Score:    clamp(score, 0, 100),
		Signals:  signals,
		Warnings: warnings,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
