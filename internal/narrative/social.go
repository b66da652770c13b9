package narrative

import (
	"math/rand"

	"solana-token-sentinel/internal/domain"
)

const (
	socialBase = 10
	socialMin  = 10

	// socialWebsiteBonus is worth more here than in the narrative
	// table: a live website is a stronger social signal than a website
	// mention in the description.
	socialWebsiteBonus = 15

	bullishThreshold = 60
	weakThreshold    = 35
)

// EngagementSampler supplies the bounded engagement perturbation added
// to the social score. A stand-in for live social-media measurement;
// swap the implementation for a real integration without touching the
// composite scorer.
type EngagementSampler interface {
	// Sample returns a delta in [-5, 15].
	Sample() int
}

// RandomEngagement is the default sampler, uniform over [-5, 15].
type RandomEngagement struct {
	rng *rand.Rand
}

// NewRandomEngagement creates a sampler from the given source. A nil
// source uses the shared global generator.
func NewRandomEngagement(src rand.Source) *RandomEngagement {
	if src == nil {
		return &RandomEngagement{}
	}
	return &RandomEngagement{rng: rand.New(src)}
}

func (e *RandomEngagement) Sample() int {
	if e.rng != nil {
		return e.rng.Intn(21) - 5
	}
	return rand.Intn(21) - 5
}

// FixedEngagement always returns the same delta. Used in tests.
type FixedEngagement int

func (e FixedEngagement) Sample() int { return int(e) }

// SocialScorer scores a candidate's social presence.
type SocialScorer struct {
	engagement EngagementSampler
}

// NewSocialScorer creates a scorer with the given engagement sampler.
func NewSocialScorer(engagement EngagementSampler) *SocialScorer {
	return &SocialScorer{engagement: engagement}
}

// Score totals the per-link bonuses, adds the engagement perturbation,
// and labels the sentiment.
func (s *SocialScorer) Score(token *domain.TokenCandidate) domain.SocialSignals {
	score := socialBase
	mentions := 0

	if links := token.Socials; links != nil {
		if links.Website != "" {
			score += socialWebsiteBonus
			mentions++
		}
		if links.Twitter != "" {
			score += twitterBonus
			mentions++
		}
		if links.Telegram != "" {
			score += telegramBonus
			mentions++
		}
		if links.HasAll() {
			score += allLinksBonus
		}
	}

	score += s.engagement.Sample()
	score = clamp(score, socialMin, 100)

	sentiment := domain.SentimentNeutral
	switch {
	case score > bullishThreshold:
		sentiment = domain.SentimentBullish
	case score < weakThreshold:
		sentiment = domain.SentimentWeak
	}

	return domain.SocialSignals{
		Score:     score,
		Sentiment: sentiment,
		Mentions:  mentions,
	}
}
