package model

import "time"

// Multiplier bounds enforced by the weight update rule.
const (
	MinWeightMult = 0.6
	MaxWeightMult = 1.4
)

// ScoringAdjustments holds the learned per-deal dimension multipliers.
type ScoringAdjustments struct {
	DealID              string    `json:"deal_id"`
	GeographyWeightMult float64   `json:"geography_weight_mult"`
	SizeWeightMult      float64   `json:"size_weight_mult"`
	ServicesWeightMult  float64   `json:"services_weight_mult"`
	ApprovedCount       int       `json:"approved_count"`
	RejectedCount       int       `json:"rejected_count"`
	PassedGeography     int       `json:"passed_geography"`
	PassedSize          int       `json:"passed_size"`
	PassedServices      int       `json:"passed_services"`
	LastCalculatedAt    time.Time `json:"last_calculated_at"`
}

// NeutralAdjustments returns the state of a deal that has never been
// recalculated: every multiplier at 1.0 and no counts.
func NeutralAdjustments(dealID string) ScoringAdjustments {
	return ScoringAdjustments{
		DealID:              dealID,
		GeographyWeightMult: 1.0,
		SizeWeightMult:      1.0,
		ServicesWeightMult:  1.0,
	}
}
