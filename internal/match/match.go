// Package match scores every buyer in a deal's tracker and records the
// user's approve/pass decisions.
package match

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/buyer-match/internal/adjust"
	"github.com/sells-group/buyer-match/internal/geo"
	"github.com/sells-group/buyer-match/internal/metrics"
	"github.com/sells-group/buyer-match/internal/model"
	"github.com/sells-group/buyer-match/internal/servicefit"
)

const defaultConcurrency = 8

// ErrInvalidDecision is returned for an unknown decision action.
var ErrInvalidDecision = eris.New("match: invalid decision action")

// Store is the persistence the service needs.
type Store interface {
	GetTracker(ctx context.Context, id string) (*model.Tracker, error)
	GetDeal(ctx context.Context, id string) (*model.Deal, error)
	ListBuyers(ctx context.Context, trackerID string) ([]model.Buyer, error)
	UpsertScores(ctx context.Context, scores []model.BuyerDealScore) (int64, error)
	RecordDecision(ctx context.Context, buyerID, dealID string, d model.Decision) error
}

// ServiceScorer always returns a service fit result.
type ServiceScorer interface {
	Score(ctx context.Context, in servicefit.Input) servicefit.Result
}

// BuyerMatch is one buyer's fit for a deal.
type BuyerMatch struct {
	BuyerID   string            `json:"buyer_id"`
	BuyerName string            `json:"buyer_name"`
	Qualified bool              `json:"qualified"`
	Geography geo.GeoResult     `json:"geography"`
	Service   servicefit.Result `json:"service"`
}

// Service scores deals against their tracker's buyers.
type Service struct {
	store       Store
	geo         *geo.Scorer
	service     ServiceScorer
	adjust      *adjust.Engine
	concurrency int
	now         func() time.Time
}

// NewService creates a match service. concurrency bounds the buyers scored
// at once.
func NewService(s Store, g *geo.Scorer, sf ServiceScorer, eng *adjust.Engine, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}
	return &Service{
		store:       s,
		geo:         g,
		service:     sf,
		adjust:      eng,
		concurrency: concurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ScoreDeal scores every buyer in the deal's tracker, persists the
// sub-scores and returns qualified buyers first, best geography first.
// Existing approve/pass decisions are preserved.
func (s *Service) ScoreDeal(ctx context.Context, dealID string) ([]BuyerMatch, error) {
	deal, err := s.store.GetDeal(ctx, dealID)
	if err != nil {
		return nil, eris.Wrapf(err, "match: load deal %s", dealID)
	}
	tracker, err := s.store.GetTracker(ctx, deal.TrackerID)
	if err != nil {
		return nil, eris.Wrapf(err, "match: load tracker %s", deal.TrackerID)
	}
	buyers, err := s.store.ListBuyers(ctx, deal.TrackerID)
	if err != nil {
		return nil, eris.Wrapf(err, "match: list buyers for tracker %s", deal.TrackerID)
	}

	results := make([]BuyerMatch, len(buyers))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range buyers {
		g.Go(func() error {
			results[i] = s.scoreBuyer(gCtx, tracker, deal, &buyers[i])
			return gCtx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrapf(err, "match: score deal %s", dealID)
	}

	scoredAt := s.now()
	rows := make([]model.BuyerDealScore, 0, len(results))
	for _, r := range results {
		rows = append(rows, scoreRow(dealID, r, scoredAt))
	}
	if _, err := s.store.UpsertScores(ctx, rows); err != nil {
		return nil, eris.Wrapf(err, "match: save scores for deal %s", dealID)
	}

	SortMatches(results)

	zap.L().Info("match: scored deal",
		zap.String("deal_id", dealID),
		zap.Int("buyers", len(results)),
		zap.Int("qualified", countQualified(results)),
	)
	return results, nil
}

func (s *Service) scoreBuyer(ctx context.Context, t *model.Tracker, d *model.Deal, b *model.Buyer) BuyerMatch {
	g := s.geo.ScoreDeal(b, d)
	metrics.GeoOutcomes.WithLabelValues(GeoOutcome(g)).Inc()

	return BuyerMatch{
		BuyerID:   b.ID,
		BuyerName: b.DisplayName(),
		Qualified: !g.Disqualified,
		Geography: g,
		Service:   s.service.Score(ctx, servicefit.InputFor(t, d, b)),
	}
}

// GeoOutcome labels a geography result for metrics.
func GeoOutcome(g geo.GeoResult) string {
	switch {
	case g.Disqualified:
		return "disqualified"
	case len(g.ExactMatches) > 0:
		return "exact"
	case len(g.AdjacentMatches) > 0:
		return "adjacent"
	case len(g.BuyerStates) == 0 || len(g.DealStates) == 0:
		return "neutral"
	default:
		return "distant"
	}
}

func scoreRow(dealID string, m BuyerMatch, at time.Time) model.BuyerDealScore {
	geoScore := m.Geography.Score
	svcScore := m.Service.Score
	reasons := []string{m.Geography.Explanation, m.Service.Reasoning}
	if m.Geography.Reason != nil {
		reasons = append([]string{*m.Geography.Reason}, reasons...)
	}
	return model.BuyerDealScore{
		BuyerID:          m.BuyerID,
		DealID:           dealID,
		GeographyScore:   &geoScore,
		ServiceScore:     &svcScore,
		Disqualified:     m.Geography.Disqualified,
		ScoringReasoning: strings.Join(nonEmpty(reasons), " "),
		ScoredAt:         at,
	}
}

// SortMatches orders qualified buyers first, then by geography score, then
// service score, then name.
func SortMatches(ms []BuyerMatch) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]
		if a.Qualified != b.Qualified {
			return a.Qualified
		}
		if a.Geography.Score != b.Geography.Score {
			return a.Geography.Score > b.Geography.Score
		}
		if a.Service.Score != b.Service.Score {
			return a.Service.Score > b.Service.Score
		}
		return a.BuyerName < b.BuyerName
	})
}

// RecordDecision stores an approve/pass decision and recalculates the deal's
// weight multipliers.
func (s *Service) RecordDecision(ctx context.Context, buyerID, dealID string, d model.Decision) (*model.ScoringAdjustments, error) {
	if !d.Action.Valid() {
		return nil, eris.Wrapf(ErrInvalidDecision, "action %q", d.Action)
	}
	if err := s.store.RecordDecision(ctx, buyerID, dealID, d); err != nil {
		return nil, eris.Wrapf(err, "match: record decision for buyer %s on deal %s", buyerID, dealID)
	}
	return s.adjust.Recalculate(ctx, dealID)
}

func countQualified(ms []BuyerMatch) int {
	n := 0
	for _, m := range ms {
		if m.Qualified {
			n++
		}
	}
	return n
}

func nonEmpty(ss []string) []string {
	out := ss[:0]
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
