package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/buyer-match/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetDeal(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()
	rev := 12.5

	mock.ExpectQuery(`FROM deals WHERE id = \$1`).
		WithArgs("d1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "tracker_id", "title", "geography", "location_count", "headquarters",
			"revenue", "ebitda", "service_mix", "created_at", "updated_at",
		}).AddRow("d1", "t1", "Acme HVAC", []string{"Texas"}, 3, "Dallas, TX", &rev, (*float64)(nil), "hvac", now, now))

	d, err := s.GetDeal(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "Acme HVAC", d.Title)
	assert.Equal(t, []string{"Texas"}, d.Geography)
	assert.Equal(t, 3, d.LocationCount)
	require.NotNil(t, d.Revenue)
	assert.InDelta(t, 12.5, *d.Revenue, 0.001)
	assert.Nil(t, d.EBITDA)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetDeal_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM deals WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetDeal(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetBuyer_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM buyers WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetBuyer(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetAdjustments_Missing(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM deal_scoring_adjustments WHERE deal_id = \$1`).
		WithArgs("d1").
		WillReturnError(pgx.ErrNoRows)

	adj, err := s.GetAdjustments(context.Background(), "d1")
	require.NoError(t, err)
	assert.Nil(t, adj)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetAdjustments(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM deal_scoring_adjustments WHERE deal_id = \$1`).
		WithArgs("d1").
		WillReturnRows(pgxmock.NewRows([]string{
			"deal_id", "geography_weight_mult", "size_weight_mult", "services_weight_mult",
			"approved_count", "rejected_count", "passed_geography", "passed_size", "passed_services", "last_calculated_at",
		}).AddRow("d1", 1.2, 0.9, 1.0, 4, 2, 1, 1, 0, now))

	adj, err := s.GetAdjustments(context.Background(), "d1")
	require.NoError(t, err)
	require.NotNil(t, adj)
	assert.InDelta(t, 1.2, adj.GeographyWeightMult, 0.0001)
	assert.Equal(t, 4, adj.ApprovedCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertAdjustments(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	adj := model.NeutralAdjustments("d1")

	mock.ExpectExec(`INSERT INTO deal_scoring_adjustments .* ON CONFLICT \(deal_id\) DO UPDATE`).
		WithArgs("d1", 1.0, 1.0, 1.0, 0, 0, 0, 0, 0, adj.LastCalculatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.UpsertAdjustments(context.Background(), &adj))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RecordDecision(t *testing.T) {
	tests := []struct {
		name         string
		decision     model.Decision
		wantSelected bool
		wantPassed   bool
	}{
		{"approve", model.Decision{Action: model.DecisionApprove}, true, false},
		{"pass", model.Decision{Action: model.DecisionPass, Category: model.PassGeography, Reason: "too far"}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockPostgresStore(t)

			mock.ExpectExec(`INSERT INTO buyer_deal_scores .* ON CONFLICT \(buyer_id, deal_id\) DO UPDATE`).
				WithArgs(pgxmock.AnyArg(), "b1", "d1", tt.wantSelected, tt.wantPassed, pgxmock.AnyArg(), pgxmock.AnyArg()).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))

			require.NoError(t, s.RecordDecision(context.Background(), "b1", "d1", tt.decision))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_UpdateBuyerPEFirmName_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE buyers SET pe_firm_name`).
		WithArgs("Summit Partners", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateBuyerPEFirmName(context.Background(), "missing", "Summit Partners")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RepointChildren(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE buyer_deal_scores AS k`).
		WithArgs("keep", "dup").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`DELETE FROM buyer_deal_scores WHERE buyer_id = \$1`).
		WithArgs("dup", "keep").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	for _, table := range model.ChildTables {
		mock.ExpectExec(`UPDATE "` + table + `" SET buyer_id = \$1 WHERE buyer_id = \$2`).
			WithArgs("keep", "dup").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	}

	require.NoError(t, s.RepointChildren(context.Background(), "dup", "keep"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RepointChildren_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE buyer_deal_scores AS k`).
		WithArgs("keep", "dup").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(`DELETE FROM buyer_deal_scores`).
		WithArgs("dup", "keep").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`UPDATE "buyer_contacts"`).
		WithArgs("keep", "dup").
		WillReturnError(errors.New("conn reset"))

	err := s.RepointChildren(context.Background(), "dup", "keep")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repoint buyer_contacts")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RepointChildren_CarryError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE buyer_deal_scores AS k`).
		WithArgs("keep", "dup").
		WillReturnError(errors.New("deadlock"))

	err := s.RepointChildren(context.Background(), "dup", "keep")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carry decisions of dup")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CountChildRefs(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	ids := []string{"b1", "b2"}

	for i, table := range model.ChildTables {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "` + table + `" WHERE buyer_id = ANY\(\$1\)`).
			WithArgs(ids).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(i)))
	}

	n, err := s.CountChildRefs(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, int64(0+1+2+3+4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteBuyers(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	ids := []string{"b1", "b2"}

	mock.ExpectExec(`DELETE FROM buyers WHERE id = ANY\(\$1\)`).
		WithArgs(ids).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	n, err := s.DeleteBuyers(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.DeleteBuyers(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertScores(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	geo := 95.0

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_stage_buyer_deal_scores"}, scoreColumns).WillReturnResult(1)
	mock.ExpectExec(`INSERT INTO "buyer_deal_scores" AS t .* ON CONFLICT \("buyer_id", "deal_id"\) .*"composite_score" = COALESCE`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	n, err := s.UpsertScores(context.Background(), []model.BuyerDealScore{
		{BuyerID: "b1", DealID: "d1", GeographyScore: &geo},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListScoresForDeal(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()
	cat := "geography"
	reason := "too far"
	geo := 40.0

	mock.ExpectQuery(`FROM buyer_deal_scores WHERE deal_id = \$1`).
		WithArgs("d1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "buyer_id", "deal_id", "geography_score", "acquisition_score", "service_score",
			"composite_score", "disqualified", "scoring_reasoning", "selected_for_outreach", "passed_on_deal",
			"pass_category", "pass_reason", "interested", "hidden_from_deal", "scored_at",
		}).
			AddRow("s1", "b1", "d1", &geo, (*float64)(nil), (*float64)(nil), (*float64)(nil), false, "", false, true, &cat, &reason, false, false, now).
			AddRow("s2", "b2", "d1", (*float64)(nil), (*float64)(nil), (*float64)(nil), (*float64)(nil), false, "", true, false, (*string)(nil), (*string)(nil), false, false, now))

	scores, err := s.ListScoresForDeal(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, model.PassGeography, scores[0].PassCategory)
	assert.Equal(t, "too far", scores[0].PassReason)
	assert.True(t, scores[1].Approved())
	assert.Empty(t, scores[1].PassCategory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS trackers`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecisionFields(t *testing.T) {
	selected, passed, category, reason := decisionFields(model.Decision{Action: model.DecisionApprove})
	assert.True(t, selected)
	assert.False(t, passed)
	assert.Nil(t, category)
	assert.Nil(t, reason)

	selected, passed, category, reason = decisionFields(model.Decision{Action: model.DecisionPass})
	assert.False(t, selected)
	assert.True(t, passed)
	require.NotNil(t, category)
	assert.Equal(t, "other", *category)
	require.NotNil(t, reason)
	assert.Empty(t, *reason)
}
