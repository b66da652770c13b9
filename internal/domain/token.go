package domain

import "github.com/mr-tron/base58"

// TokenCandidate represents a discovered token under evaluation.
// Created by discovery; the validator may enrich Narrative with derived
// metadata (e.g. bonding-curve progress). Never persisted directly,
// only embedded in an Alert.
type TokenCandidate struct {
	Mint              string         `json:"mint"` // token mint address, unique identifier
	Symbol            string         `json:"symbol"`
	Name              string         `json:"name"`
	Narrative         string         `json:"narrative"` // free-text description
	LiquidityUSD      float64        `json:"liquidityUsd"`
	VolumeIncreasePct float64        `json:"volumeIncreasePct"`
	TopHolderPercent  float64        `json:"topHolderPercent"` // filled in by the holder check, -1 until known
	PriceUSD          string         `json:"priceUsd"`         // string-typed to preserve precision
	MarketCapUSD      float64        `json:"marketCapUsd"`
	PairAddress       string         `json:"pairAddress,omitempty"`
	Volumes           *WindowVolumes `json:"volumes,omitempty"`
	Socials           *SocialLinks   `json:"socials,omitempty"`
}

// WindowVolumes holds per-window trading volumes in USD.
type WindowVolumes struct {
	H1    float64 `json:"h1"`
	H6    float64 `json:"h6"`
	H24   float64 `json:"h24"`
	Total float64 `json:"total"`
}

// SocialLinks holds optional social presence URLs.
type SocialLinks struct {
	Website  string `json:"website,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Telegram string `json:"telegram,omitempty"`
}

// HasAll reports whether all three links are present.
func (s *SocialLinks) HasAll() bool {
	return s != nil && s.Website != "" && s.Twitter != "" && s.Telegram != ""
}

// ValidMint reports whether addr decodes to a 32-byte Solana public key.
func ValidMint(addr string) bool {
	decoded, err := base58.Decode(addr)
	if err != nil {
		return false
	}
	return len(decoded) == 32
}
