package model

import "time"

// PassCategory is the reason bucket a user picks when passing on a buyer.
type PassCategory string

const (
	PassGeography         PassCategory = "geography"
	PassSize              PassCategory = "size"
	PassSizeTooSmall      PassCategory = "size_too_small"
	PassSizeTooLarge      PassCategory = "size_too_large"
	PassServices          PassCategory = "services"
	PassIndustry          PassCategory = "industry"
	PassTiming            PassCategory = "timing"
	PassPortfolioConflict PassCategory = "portfolio_conflict"
	PassOther             PassCategory = "other"
)

// BuyerDealScore joins a buyer to a deal. It carries the dimension
// sub-scores and the user's approve/pass decision.
type BuyerDealScore struct {
	ID      string `json:"id"`
	BuyerID string `json:"buyer_id"`
	DealID  string `json:"deal_id"`

	GeographyScore   *float64 `json:"geography_score,omitempty"`
	AcquisitionScore *float64 `json:"acquisition_score,omitempty"`
	ServiceScore     *float64 `json:"service_score,omitempty"`
	CompositeScore   *float64 `json:"composite_score,omitempty"`

	Disqualified     bool   `json:"disqualified"`
	ScoringReasoning string `json:"scoring_reasoning,omitempty"`

	SelectedForOutreach bool         `json:"selected_for_outreach"`
	PassedOnDeal        bool         `json:"passed_on_deal"`
	PassCategory        PassCategory `json:"pass_category,omitempty"`
	PassReason          string       `json:"pass_reason,omitempty"`
	Interested          bool         `json:"interested"`
	HiddenFromDeal      bool         `json:"hidden_from_deal"`

	ScoredAt time.Time `json:"scored_at"`
}

// Approved reports whether the row counts as an approval: selected for
// outreach and not passed.
func (s *BuyerDealScore) Approved() bool {
	return s.SelectedForOutreach && !s.PassedOnDeal
}

// DecisionAction is a user's verdict on a buyer for a deal.
type DecisionAction string

const (
	DecisionApprove DecisionAction = "approve"
	DecisionPass    DecisionAction = "pass"
)

// Decision is an approve/pass action recorded against a buyer/deal pair.
type Decision struct {
	Action   DecisionAction `json:"action"`
	Category PassCategory   `json:"pass_category,omitempty"`
	Reason   string         `json:"pass_reason,omitempty"`
}

// Valid reports whether a is a known action.
func (a DecisionAction) Valid() bool {
	return a == DecisionApprove || a == DecisionPass
}
