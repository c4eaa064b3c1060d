package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/buyer-match/internal/config"
	"github.com/sells-group/buyer-match/internal/dedupe"
	"github.com/sells-group/buyer-match/internal/geo"
	"github.com/sells-group/buyer-match/internal/match"
	"github.com/sells-group/buyer-match/internal/model"
	"github.com/sells-group/buyer-match/internal/servicefit"
	"github.com/sells-group/buyer-match/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func testConfig() *config.Config {
	return &config.Config{
		Scoring: config.ScoringConfig{
			Concurrency: 2,
			Geography:   geo.DefaultGeographyConfig(),
		},
		Dedupe: config.DedupeConfig{MaxEditDistance: 3, EditRatio: 0.2},
	}
}

type apiFixture struct {
	handler http.Handler
	st      *store.SQLiteStore
	tracker *model.Tracker
	deal    *model.Deal
	texas   *model.Buyer
	dupe    *model.Buyer
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(ctx))

	f := &apiFixture{st: st}
	f.tracker = &model.Tracker{Name: "HVAC", ServiceCriteria: model.ServiceCriteria{Required: []string{"hvac"}}}
	require.NoError(t, st.CreateTracker(ctx, f.tracker))
	f.deal = &model.Deal{TrackerID: f.tracker.ID, Title: "Austin Air", Headquarters: "Austin, TX", LocationCount: 1, ServiceMix: "HVAC service"}
	require.NoError(t, st.CreateDeal(ctx, f.deal))

	f.texas = &model.Buyer{TrackerID: f.tracker.ID, PlatformCompanyName: "Lone Star Air", PlatformWebsite: "lonestarair.com", HQState: "TX"}
	f.dupe = &model.Buyer{TrackerID: f.tracker.ID, PlatformCompanyName: "Lone Star Air LLC", PlatformWebsite: "https://www.lonestarair.com/"}
	far := &model.Buyer{TrackerID: f.tracker.ID, PlatformCompanyName: "Maine Heating", HQState: "ME"}
	for _, b := range []*model.Buyer{f.texas, f.dupe, far} {
		require.NoError(t, st.CreateBuyer(ctx, b))
	}

	f.handler = newRouter(newEnv(testConfig(), st), []string{"*"})
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func TestAPI_Health(t *testing.T) {
	f := newAPIFixture(t)
	rr := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestAPI_Health_StoreDown(t *testing.T) {
	f := newAPIFixture(t)
	require.NoError(t, f.st.Close())

	rr := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rr.Body.String())
}

func TestAPI_Health_ReportsAICircuit(t *testing.T) {
	c := testConfig()
	c.Scoring.Service.UseAI = true
	c.Anthropic.Key = "test-key"
	e := newEnv(c, nil)
	require.NotNil(t, e.Semantic)

	rr := httptest.NewRecorder()
	newRouter(e, []string{"*"}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","ai_circuit":"closed"}`, rr.Body.String())
}

func TestAPI_Normalize(t *testing.T) {
	f := newAPIFixture(t)
	rr := f.do(t, http.MethodPost, "/v1/geography/normalize", normalizeRequest{Entries: []string{"New England", "Ontario"}})
	require.Equal(t, http.StatusOK, rr.Code)

	var res normalizeResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, []string{"CT", "MA", "ME", "NH", "RI", "VT"}, res.States)
	assert.Equal(t, []string{"ON"}, res.Provinces)
}

func TestAPI_BadBody(t *testing.T) {
	f := newAPIFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/score/geography", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid request body")
}

func TestAPI_ScoreGeography(t *testing.T) {
	f := newAPIFixture(t)
	rr := f.do(t, http.MethodPost, "/v1/score/geography", geoScoreRequest{
		Buyer:         geo.BuyerProfile{TargetGeographies: []string{"California"}},
		DealStates:    []string{"TX"},
		LocationCount: 1,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var res geo.GeoResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.True(t, res.Disqualified)
	require.NotNil(t, res.Reason)
}

func TestAPI_ScoreService(t *testing.T) {
	f := newAPIFixture(t)
	rr := f.do(t, http.MethodPost, "/v1/score/service", servicefit.Input{
		DealServices: "towing",
		Criteria:     model.ServiceCriteria{Excluded: []string{"towing"}},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var res servicefit.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, servicefit.AlignmentConflict, res.Alignment)
	assert.False(t, res.UsedAI)
}

func TestAPI_DealFlow(t *testing.T) {
	f := newAPIFixture(t)
	base := "/v1/deals/" + f.deal.ID

	rr := f.do(t, http.MethodPost, base+"/score", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var matches []match.BuyerMatch
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &matches))
	require.Len(t, matches, 3)
	assert.True(t, matches[0].Qualified)
	assert.False(t, matches[2].Qualified)

	rr = f.do(t, http.MethodGet, base+"/adjustments", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var adj model.ScoringAdjustments
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &adj))
	assert.InDelta(t, 1.0, adj.GeographyWeightMult, 1e-9)

	rr = f.do(t, http.MethodPost, base+"/decisions", map[string]string{"buyer_id": f.texas.ID, "action": "approve"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &adj))
	assert.Equal(t, 1, adj.ApprovedCount)

	rr = f.do(t, http.MethodPost, base+"/decisions", map[string]string{"buyer_id": f.texas.ID, "action": "maybe"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, http.MethodPost, base+"/decisions", map[string]string{"action": "pass"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, http.MethodPost, base+"/adjustments", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodDelete, base+"/adjustments", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestAPI_UnknownDeal(t *testing.T) {
	f := newAPIFixture(t)
	rr := f.do(t, http.MethodPost, "/v1/deals/missing/score", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.do(t, http.MethodPost, "/v1/deals/missing/adjustments", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPI_Duplicates(t *testing.T) {
	f := newAPIFixture(t)
	base := "/v1/trackers/" + f.tracker.ID + "/duplicates"

	rr := f.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var found struct {
		Groups []dedupe.Group `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &found))
	require.Len(t, found.Groups, 1)
	assert.Equal(t, dedupe.MatchPlatformWebsite, found.Groups[0].MatchType)

	rr = f.do(t, http.MethodPost, base+"/merge", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var report dedupe.MergeReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Merged)
	assert.Equal(t, int64(1), report.Deleted)

	buyers, err := f.st.ListBuyers(context.Background(), f.tracker.ID)
	require.NoError(t, err)
	assert.Len(t, buyers, 2)
}

func TestAPI_Metrics(t *testing.T) {
	f := newAPIFixture(t)
	f.do(t, http.MethodGet, "/health", nil)
	rr := f.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}
