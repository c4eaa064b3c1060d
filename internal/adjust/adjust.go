// Package adjust learns per-deal dimension weight multipliers from the
// approve/pass decisions recorded against a deal's buyers.
package adjust

import (
	"strings"
	"time"

	"github.com/sells-group/buyer-match/internal/model"
)

// Dimension is one of the scored fit dimensions.
type Dimension string

const (
	Geography Dimension = "geography"
	Size      Dimension = "size"
	Services  Dimension = "services"
)

// Dimensions lists every dimension in a stable order.
var Dimensions = []Dimension{Geography, Size, Services}

const (
	neutralMean    = 50.0
	lowMeanCutoff  = 60.0
	minDecisions   = 2
	minPasses      = 2
	passShare      = 0.3
	increaseFactor = 0.5
)

var categoryKeywords = map[Dimension][]string{
	Geography: {"geography", "location"},
	Size:      {"size", "small", "large", "revenue"},
	Services:  {"service", "industry", "focus"},
}

// Buckets returns the dimensions a pass category counts against. A
// category may match several dimensions.
func Buckets(category model.PassCategory) []Dimension {
	c := strings.ToLower(string(category))
	var out []Dimension
	for _, d := range Dimensions {
		for _, kw := range categoryKeywords[d] {
			if strings.Contains(c, kw) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// Compute derives the adjustments for a deal from its full set of score
// rows. It depends only on rows, so recomputing over the same decisions
// yields the same multipliers.
func Compute(dealID string, rows []model.BuyerDealScore, now time.Time) model.ScoringAdjustments {
	adj := model.NeutralAdjustments(dealID)
	adj.LastCalculatedAt = now

	var approved []model.BuyerDealScore
	passed := map[Dimension]int{}
	for i := range rows {
		r := &rows[i]
		switch {
		case r.PassedOnDeal:
			adj.RejectedCount++
			for _, d := range Buckets(r.PassCategory) {
				passed[d]++
			}
		case r.SelectedForOutreach:
			approved = append(approved, *r)
		}
	}
	adj.ApprovedCount = len(approved)
	adj.PassedGeography = passed[Geography]
	adj.PassedSize = passed[Size]
	adj.PassedServices = passed[Services]

	total := adj.ApprovedCount + adj.RejectedCount
	if total < minDecisions {
		return adj
	}

	for _, d := range Dimensions {
		m := multiplier(approvedMean(approved, d), passed[d], adj.ApprovedCount, total)
		switch d {
		case Geography:
			adj.GeographyWeightMult = m
		case Size:
			adj.SizeWeightMult = m
		case Services:
			adj.ServicesWeightMult = m
		}
	}
	return adj
}

// multiplier applies the weight update rule for one dimension. The increase
// branch runs last and wins over the decrease branch.
func multiplier(mean float64, passes, approved, total int) float64 {
	m := 1.0
	if mean < lowMeanCutoff {
		m = max(model.MinWeightMult, 1-(lowMeanCutoff-mean)/100)
	}
	if passes >= minPasses && float64(passes) > passShare*float64(approved) {
		m = min(model.MaxWeightMult, 1+float64(passes)/float64(total)*increaseFactor)
	}
	return m
}

func approvedMean(rows []model.BuyerDealScore, d Dimension) float64 {
	var sum float64
	var n int
	for i := range rows {
		if v := subScore(&rows[i], d); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return neutralMean
	}
	return sum / float64(n)
}

func subScore(r *model.BuyerDealScore, d Dimension) *float64 {
	switch d {
	case Geography:
		return r.GeographyScore
	case Size:
		return r.AcquisitionScore
	case Services:
		return r.ServiceScore
	}
	return nil
}
