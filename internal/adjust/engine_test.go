package adjust

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/buyer-match/internal/model"
	"github.com/sells-group/buyer-match/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetDeal(ctx context.Context, id string) (*model.Deal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Deal), args.Error(1)
}

func (m *mockStore) ListScoresForDeal(ctx context.Context, dealID string) ([]model.BuyerDealScore, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BuyerDealScore), args.Error(1)
}

func (m *mockStore) GetAdjustments(ctx context.Context, dealID string) (*model.ScoringAdjustments, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScoringAdjustments), args.Error(1)
}

func (m *mockStore) UpsertAdjustments(ctx context.Context, adj *model.ScoringAdjustments) error {
	return m.Called(ctx, adj).Error(0)
}

func (m *mockStore) DeleteAdjustments(ctx context.Context, dealID string) error {
	return m.Called(ctx, dealID).Error(0)
}

func TestEngine_Recalculate_Mock(t *testing.T) {
	ctx := context.Background()
	ms := &mockStore{}
	ms.On("GetDeal", ctx, "deal-1").Return(&model.Deal{ID: "deal-1"}, nil)
	ms.On("ListScoresForDeal", ctx, "deal-1").Return([]model.BuyerDealScore{
		approve(f(40), f(70), f(70)),
		approve(f(40), f(70), f(70)),
	}, nil)
	ms.On("UpsertAdjustments", ctx, mock.MatchedBy(func(a *model.ScoringAdjustments) bool {
		return a.DealID == "deal-1" && a.ApprovedCount == 2
	})).Return(nil)

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e := NewEngine(ms)
	e.now = func() time.Time { return fixed }

	adj, err := e.Recalculate(ctx, "deal-1")
	require.NoError(t, err)
	assert.InDelta(t, 0.8, adj.GeographyWeightMult, 1e-9)
	assert.Equal(t, fixed, adj.LastCalculatedAt)
	ms.AssertExpectations(t)
}

func TestEngine_Recalculate_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing deal", func(t *testing.T) {
		ms := &mockStore{}
		ms.On("GetDeal", ctx, "nope").Return(nil, store.ErrNotFound)
		_, err := NewEngine(ms).Recalculate(ctx, "nope")
		require.Error(t, err)
		assert.True(t, errors.Is(err, store.ErrNotFound))
		ms.AssertNotCalled(t, "UpsertAdjustments", mock.Anything, mock.Anything)
	})

	t.Run("list failure", func(t *testing.T) {
		ms := &mockStore{}
		ms.On("GetDeal", ctx, "d").Return(&model.Deal{ID: "d"}, nil)
		ms.On("ListScoresForDeal", ctx, "d").Return(nil, errors.New("db down"))
		_, err := NewEngine(ms).Recalculate(ctx, "d")
		assert.ErrorContains(t, err, "db down")
	})

	t.Run("upsert failure", func(t *testing.T) {
		ms := &mockStore{}
		ms.On("GetDeal", ctx, "d").Return(&model.Deal{ID: "d"}, nil)
		ms.On("ListScoresForDeal", ctx, "d").Return([]model.BuyerDealScore{}, nil)
		ms.On("UpsertAdjustments", ctx, mock.Anything).Return(errors.New("write failed"))
		_, err := NewEngine(ms).Recalculate(ctx, "d")
		assert.ErrorContains(t, err, "write failed")
	})
}

func TestEngine_Get_DefaultsToNeutral(t *testing.T) {
	ctx := context.Background()
	ms := &mockStore{}
	ms.On("GetAdjustments", ctx, "d").Return(nil, nil)

	adj, err := NewEngine(ms).Get(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, model.NeutralAdjustments("d"), *adj)
}

func TestEngine_SQLiteLifecycle(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "adjust.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(ctx))

	tr := &model.Tracker{Name: "HVAC"}
	require.NoError(t, st.CreateTracker(ctx, tr))
	deal := &model.Deal{TrackerID: tr.ID, Title: "Desert Air", Geography: []string{"AZ"}, LocationCount: 1}
	require.NoError(t, st.CreateDeal(ctx, deal))

	var scores []model.BuyerDealScore
	for i, geo := range []float64{30, 40, 90, 90, 90} {
		b := &model.Buyer{TrackerID: tr.ID, PlatformCompanyName: "Buyer " + string(rune('A'+i))}
		require.NoError(t, st.CreateBuyer(ctx, b))
		scores = append(scores, model.BuyerDealScore{BuyerID: b.ID, DealID: deal.ID, GeographyScore: f(geo), ScoredAt: time.Now()})
	}
	_, err = st.UpsertScores(ctx, scores)
	require.NoError(t, err)

	require.NoError(t, st.RecordDecision(ctx, scores[0].BuyerID, deal.ID, model.Decision{Action: model.DecisionApprove}))
	require.NoError(t, st.RecordDecision(ctx, scores[1].BuyerID, deal.ID, model.Decision{Action: model.DecisionApprove}))
	require.NoError(t, st.RecordDecision(ctx, scores[2].BuyerID, deal.ID, model.Decision{Action: model.DecisionPass, Category: model.PassGeography}))
	require.NoError(t, st.RecordDecision(ctx, scores[3].BuyerID, deal.ID, model.Decision{Action: model.DecisionPass, Category: model.PassGeography}))

	e := NewEngine(st)

	before, err := e.Get(ctx, deal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, before.GeographyWeightMult, 1e-9)

	first, err := e.Recalculate(ctx, deal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, first.GeographyWeightMult, 1e-9)
	assert.InDelta(t, 0.9, first.SizeWeightMult, 1e-9)
	assert.Equal(t, 2, first.ApprovedCount)
	assert.Equal(t, 2, first.RejectedCount)
	assert.Equal(t, 2, first.PassedGeography)

	second, err := e.Recalculate(ctx, deal.ID)
	require.NoError(t, err)
	assert.InDelta(t, first.GeographyWeightMult, second.GeographyWeightMult, 1e-9)
	assert.InDelta(t, first.ServicesWeightMult, second.ServicesWeightMult, 1e-9)

	stored, err := e.Get(ctx, deal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, stored.GeographyWeightMult, 1e-9)

	require.NoError(t, e.Reset(ctx, deal.ID))
	after, err := e.Get(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NeutralAdjustments(deal.ID), *after)
}
