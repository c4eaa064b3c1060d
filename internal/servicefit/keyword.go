package servicefit

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sells-group/buyer-match/internal/config"
)

// Weights are the keyword scorer's adjustments around a neutral 50.
type Weights struct {
	ConflictPenalty float64
	Required        float64
	UnlistedBonus   float64
	Preferred       float64
	Buyer           float64
}

// DefaultWeights returns the standard keyword weights.
func DefaultWeights() Weights {
	return Weights{ConflictPenalty: 30, Required: 30, UnlistedBonus: 20, Preferred: 15, Buyer: 10}
}

// WeightsFromConfig reads the keyword weights from the scoring config.
// Zero values keep the defaults.
func WeightsFromConfig(cfg config.ServiceConfig) Weights {
	w := DefaultWeights()
	if cfg.ConflictPenalty > 0 {
		w.ConflictPenalty = cfg.ConflictPenalty
	}
	if cfg.RequiredWeight > 0 {
		w.Required = cfg.RequiredWeight
	}
	if cfg.UnlistedBonus > 0 {
		w.UnlistedBonus = cfg.UnlistedBonus
	}
	if cfg.PreferredWeight > 0 {
		w.Preferred = cfg.PreferredWeight
	}
	if cfg.BuyerWeight > 0 {
		w.Buyer = cfg.BuyerWeight
	}
	return w
}

// KeywordScorer is the deterministic, offline service fit strategy.
type KeywordScorer struct {
	w Weights
}

// NewKeywordScorer creates a keyword scorer.
func NewKeywordScorer(w Weights) *KeywordScorer {
	return &KeywordScorer{w: w}
}

var buyerTermSplitter = regexp.MustCompile(`(?i)\s*(?:[,;|/\n]|\s&\s|\sand\s)\s*`)

// Score never returns an error.
func (k *KeywordScorer) Score(_ context.Context, in Input) (*Result, error) {
	return k.score(in), nil
}

func (k *KeywordScorer) score(in Input) *Result {
	deal := strings.Join(strings.Fields(strings.ToLower(in.DealServices)), " ")
	if deal == "" {
		return &Result{
			Score:               50,
			Alignment:           AlignmentPartial,
			MatchedServices:     []string{},
			ConflictingServices: []string{},
			Confidence:          ConfidenceLow,
			Reasoning:           "No deal service description; neutral score.",
		}
	}

	required := normalizeTerms(in.Criteria.Required)
	preferred := normalizeTerms(in.Criteria.Preferred)
	excluded := normalizeTerms(in.Criteria.Excluded)

	conflicts := hits(deal, excluded)
	reqHits := hits(deal, required)
	prefHits := hits(deal, preferred)
	matched := normalizeTerms(append(append([]string{}, reqHits...), prefHits...))

	var reasons []string
	score := 50.0

	if len(conflicts) > 0 {
		score -= k.w.ConflictPenalty
		reasons = append(reasons, "excluded services present: "+strings.Join(conflicts, ", "))
	}

	switch {
	case len(required) > 0:
		score += k.w.Required * float64(len(reqHits)) / float64(len(required))
		reasons = append(reasons, fmt.Sprintf("%d of %d required services matched", len(reqHits), len(required)))
	case len(matched) > 0:
		score += k.w.UnlistedBonus
	}

	if len(preferred) > 0 {
		score += k.w.Preferred * float64(len(prefHits)) / float64(len(preferred))
		reasons = append(reasons, fmt.Sprintf("%d of %d preferred services matched", len(prefHits), len(preferred)))
	}

	buyerTerms := buyerKeywords(in.BuyerServices, in.BuyerTargetServices)
	if len(buyerTerms) > 0 {
		overlap := hits(deal, buyerTerms)
		score += k.w.Buyer * float64(len(overlap)) / float64(len(buyerTerms))
		reasons = append(reasons, fmt.Sprintf("%d of %d buyer services overlap", len(overlap), len(buyerTerms)))
	}

	score = clamp(score)
	switch {
	case in.Criteria.IsEmpty() && len(buyerTerms) == 0:
		reasons = append(reasons, "no service criteria or buyer services to compare")
	case len(reasons) == 0:
		reasons = append(reasons, "no excluded services present")
	}

	return &Result{
		Score:               score,
		Alignment:           AlignmentFor(score, len(matched), len(conflicts)),
		MatchedServices:     matched,
		ConflictingServices: conflicts,
		Confidence:          keywordConfidence(len(matched) + len(conflicts)),
		Reasoning:           "Keyword match: " + strings.Join(reasons, "; ") + ".",
	}
}

// hits returns the terms that occur in text.
func hits(text string, terms []string) []string {
	out := []string{}
	for _, t := range terms {
		if strings.Contains(text, t) {
			out = append(out, t)
		}
	}
	return out
}

func buyerKeywords(services string, targets []string) []string {
	terms := append([]string{}, targets...)
	for _, t := range buyerTermSplitter.Split(services, -1) {
		if len(strings.TrimSpace(t)) >= 3 {
			terms = append(terms, t)
		}
	}
	return normalizeTerms(terms)
}

// keywordConfidence is medium when any keyword matched or conflicted, low
// otherwise. Keyword results are never high confidence.
func keywordConfidence(signals int) Confidence {
	if signals > 0 {
		return ConfidenceMedium
	}
	return ConfidenceLow
}
