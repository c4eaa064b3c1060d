package adjust

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/buyer-match/internal/metrics"
	"github.com/sells-group/buyer-match/internal/model"
)

// Store is the persistence the engine needs.
type Store interface {
	GetDeal(ctx context.Context, id string) (*model.Deal, error)
	ListScoresForDeal(ctx context.Context, dealID string) ([]model.BuyerDealScore, error)
	GetAdjustments(ctx context.Context, dealID string) (*model.ScoringAdjustments, error)
	UpsertAdjustments(ctx context.Context, adj *model.ScoringAdjustments) error
	DeleteAdjustments(ctx context.Context, dealID string) error
}

// Engine recalculates and serves per-deal adjustments.
type Engine struct {
	store Store
	now   func() time.Time
}

// NewEngine creates an adjustment engine.
func NewEngine(s Store) *Engine {
	return &Engine{store: s, now: func() time.Time { return time.Now().UTC() }}
}

// Recalculate recomputes the deal's multipliers from every recorded decision
// and replaces the stored row.
func (e *Engine) Recalculate(ctx context.Context, dealID string) (*model.ScoringAdjustments, error) {
	if _, err := e.store.GetDeal(ctx, dealID); err != nil {
		return nil, eris.Wrapf(err, "adjust: load deal %s", dealID)
	}

	rows, err := e.store.ListScoresForDeal(ctx, dealID)
	if err != nil {
		return nil, eris.Wrapf(err, "adjust: list scores for deal %s", dealID)
	}

	adj := Compute(dealID, rows, e.now())
	if err := e.store.UpsertAdjustments(ctx, &adj); err != nil {
		return nil, eris.Wrapf(err, "adjust: save adjustments for deal %s", dealID)
	}
	metrics.WeightRecalculations.Inc()

	zap.L().Info("adjust: recalculated weights",
		zap.String("deal_id", dealID),
		zap.Int("approved", adj.ApprovedCount),
		zap.Int("rejected", adj.RejectedCount),
		zap.Float64("geography_mult", adj.GeographyWeightMult),
		zap.Float64("size_mult", adj.SizeWeightMult),
		zap.Float64("services_mult", adj.ServicesWeightMult),
	)
	return &adj, nil
}

// Get returns the stored adjustments, or neutral multipliers when the deal
// has never been recalculated.
func (e *Engine) Get(ctx context.Context, dealID string) (*model.ScoringAdjustments, error) {
	adj, err := e.store.GetAdjustments(ctx, dealID)
	if err != nil {
		return nil, eris.Wrapf(err, "adjust: get adjustments for deal %s", dealID)
	}
	if adj == nil {
		n := model.NeutralAdjustments(dealID)
		return &n, nil
	}
	return adj, nil
}

// Reset deletes the deal's learned adjustments.
func (e *Engine) Reset(ctx context.Context, dealID string) error {
	if err := e.store.DeleteAdjustments(ctx, dealID); err != nil {
		return eris.Wrapf(err, "adjust: reset adjustments for deal %s", dealID)
	}
	zap.L().Info("adjust: reset weights", zap.String("deal_id", dealID))
	return nil
}
