// Package servicefit scores how well a deal's service mix fits a tracker's
// service criteria and a buyer's own services.
package servicefit

import (
	"context"
	"sort"
	"strings"

	"github.com/sells-group/buyer-match/internal/model"
)

// Alignment buckets a service fit score.
type Alignment string

const (
	AlignmentStrong   Alignment = "strong"
	AlignmentGood     Alignment = "good"
	AlignmentPartial  Alignment = "partial"
	AlignmentWeak     Alignment = "weak"
	AlignmentConflict Alignment = "conflict"
)

// Confidence describes how much the caller should trust a result.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Input is one deal/buyer pair judged against its tracker's criteria.
type Input struct {
	DealServices        string                `json:"deal_services"`
	Criteria            model.ServiceCriteria `json:"criteria"`
	BuyerServices       string                `json:"buyer_services"`
	BuyerTargetServices []string              `json:"buyer_target_services"`
}

// Result is a service fit score with its explanation.
type Result struct {
	Score               float64    `json:"score"`
	Alignment           Alignment  `json:"alignment"`
	MatchedServices     []string   `json:"matched_services"`
	ConflictingServices []string   `json:"conflicting_services"`
	Confidence          Confidence `json:"confidence"`
	Reasoning           string     `json:"reasoning"`
	UsedAI              bool       `json:"used_ai"`
}

// Scorer is one service fit strategy.
type Scorer interface {
	Score(ctx context.Context, in Input) (*Result, error)
}

// AlignmentFor maps a score onto an alignment label. More conflicts than
// matches is a conflict regardless of score.
func AlignmentFor(score float64, matches, conflicts int) Alignment {
	switch {
	case conflicts > matches:
		return AlignmentConflict
	case score >= 80:
		return AlignmentStrong
	case score >= 60:
		return AlignmentGood
	case score < 40:
		return AlignmentWeak
	default:
		return AlignmentPartial
	}
}

// InputFor builds the scorer input for a buyer against a deal in a tracker.
func InputFor(t *model.Tracker, d *model.Deal, b *model.Buyer) Input {
	in := Input{DealServices: d.ServiceMix}
	if t != nil {
		in.Criteria = t.ServiceCriteria
	}
	if b != nil {
		in.BuyerServices = b.ServicesOffered
		in.BuyerTargetServices = b.TargetServices
	}
	return in
}

func clamp(v float64) float64 {
	return min(max(v, 0), 100)
}

func normalizeTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.Join(strings.Fields(strings.ToLower(t)), " ")
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
