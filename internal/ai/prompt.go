package ai

import (
	"fmt"
	"strings"

	"solana-token-sentinel/internal/domain"
)

// modeInstructions adjusts risk tolerance per personality mode. Only
// the instructions change; the output schema is identical across modes.
var modeInstructions = map[domain.AIMode]string{
	domain.AIModeConservative: "Be skeptical. Weight risks heavily, assume hype is manufactured unless the narrative proves otherwise, and prefer lower potential tiers.",
	domain.AIModeBalanced:     "Weigh upside and risk evenly. Give credit for genuine originality but do not excuse missing fundamentals.",
	domain.AIModeAggressive:   "Favor upside. Reward originality and momentum, tolerate typical early-stage gaps, and reserve low tiers for clear red flags.",
}

// buildPrompt renders the analysis request for one candidate. The
// rubric weighs originality, memeability and timing/metadata roughly a
// third each, and round scores are explicitly disallowed to counter the
// model's bias toward lazy defaults like 50 or 70.
func buildPrompt(token *domain.TokenCandidate, mode domain.AIMode) string {
	instructions, ok := modeInstructions[mode]
	if !ok {
		instructions = modeInstructions[domain.AIModeBalanced]
	}

	var b strings.Builder
	b.WriteString("You are a memecoin narrative analyst. Score the token below.\n\n")
	fmt.Fprintf(&b, "Risk posture: %s\n\n", instructions)
	b.WriteString("Rubric, each worth roughly a third of the narrative score:\n")
	b.WriteString("1. Originality: is the concept novel or a tired derivative?\n")
	b.WriteString("2. Memeability: will it spread, is the name/symbol sticky?\n")
	b.WriteString("3. Timing and metadata: does the launch fit a live narrative, are symbol, name and description coherent?\n\n")
	fmt.Fprintf(&b, "Token:\nsymbol: %s\nname: %s\nliquidity USD: %.0f\nvolume increase pct: %.0f\nmarket cap USD: %.0f\ndescription: %s\n",
		token.Symbol, token.Name, token.LiquidityUSD, token.VolumeIncreasePct, token.MarketCapUSD, token.Narrative)
	if token.Socials != nil {
		fmt.Fprintf(&b, "website: %s\ntwitter: %s\ntelegram: %s\n", token.Socials.Website, token.Socials.Twitter, token.Socials.Telegram)
	}
	b.WriteString("\nRespond with a single JSON object, no markdown fences, with exactly these fields:\n")
	b.WriteString(`{"narrativeScore": <1-100>, "hypeScore": <1-100>, "sentiment": "bullish"|"neutral"|"bearish", "summary": "<two sentences>", "risks": ["..."], "potential": "low"|"medium"|"high"|"moonshot", "brief": ["<bullet>", "<bullet>", "<bullet>"], "analysis": "<qualitative narrative analysis>"}`)
	b.WriteString("\n\nDo not use round numbers (50, 60, 70, 80) for either score; commit to a precise value.\n")
	return b.String()
}
