// Package store persists trackers, deals, buyers, buyer/deal scores and
// scoring adjustments in Postgres or SQLite.
package store

import (
	"context"
	"errors"

	"github.com/sells-group/buyer-match/internal/db"
	"github.com/sells-group/buyer-match/internal/model"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for buyer matching.
type Store interface {
	// Trackers
	CreateTracker(ctx context.Context, t *model.Tracker) error
	GetTracker(ctx context.Context, id string) (*model.Tracker, error)

	// Deals
	CreateDeal(ctx context.Context, d *model.Deal) error
	GetDeal(ctx context.Context, id string) (*model.Deal, error)

	// Buyers
	CreateBuyer(ctx context.Context, b *model.Buyer) error
	GetBuyer(ctx context.Context, id string) (*model.Buyer, error)
	ListBuyers(ctx context.Context, trackerID string) ([]model.Buyer, error)
	UpdateBuyerPEFirmName(ctx context.Context, id, name string) error
	// DeleteBuyers deletes the given buyers. Missing ids are not an error.
	DeleteBuyers(ctx context.Context, ids []string) (int64, error)
	// RepointChildren moves every child row of buyer from onto buyer to.
	// Score rows of from that collide with an existing row of to on the
	// same deal are dropped in favor of to's row; a decision on the dropped
	// row is carried over when to's row has none.
	RepointChildren(ctx context.Context, from, to string) error
	// CountChildRefs counts child rows referencing any of the given buyers.
	CountChildRefs(ctx context.Context, buyerIDs []string) (int64, error)

	// Buyer/deal scores
	ListScoresForDeal(ctx context.Context, dealID string) ([]model.BuyerDealScore, error)
	// UpsertScores writes sub-scores keyed by (buyer_id, deal_id) and leaves
	// decision flags untouched on existing rows.
	UpsertScores(ctx context.Context, scores []model.BuyerDealScore) (int64, error)
	RecordDecision(ctx context.Context, buyerID, dealID string, d model.Decision) error

	// Scoring adjustments. GetAdjustments returns nil, nil when none exist.
	GetAdjustments(ctx context.Context, dealID string) (*model.ScoringAdjustments, error)
	UpsertAdjustments(ctx context.Context, adj *model.ScoringAdjustments) error
	DeleteAdjustments(ctx context.Context, dealID string) error

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// scoreColumns are the columns written by UpsertScores.
var scoreColumns = []string{
	"buyer_id", "deal_id",
	"geography_score", "acquisition_score", "service_score", "composite_score",
	"disqualified", "scoring_reasoning", "scored_at",
}

// scoreUpsert rewrites sub-scores on (buyer_id, deal_id) and never touches
// the decision columns. Acquisition and composite scores come from other
// scorers, so a NULL keeps the stored value.
var scoreUpsert = db.Upsert{
	Table:   "buyer_deal_scores",
	Columns: scoreColumns,
	Key:     []string{"buyer_id", "deal_id"},
	Update: []string{
		"geography_score", "acquisition_score", "service_score", "composite_score",
		"disqualified", "scoring_reasoning", "scored_at",
	},
	KeepOnNull: []string{"acquisition_score", "composite_score"},
}

// decisionFields maps a decision onto the buyer_deal_scores flag columns:
// selected_for_outreach, passed_on_deal, pass_category, pass_reason.
func decisionFields(d model.Decision) (selected, passed bool, category, reason *string) {
	if d.Action == model.DecisionApprove {
		return true, false, nil, nil
	}
	c := string(d.Category)
	if c == "" {
		c = string(model.PassOther)
	}
	r := d.Reason
	return false, true, &c, &r
}
