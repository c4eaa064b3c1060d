package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/buyer-match/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. List columns are
// stored as JSON text.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS trackers (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	industry         TEXT NOT NULL DEFAULT '',
	service_criteria TEXT NOT NULL DEFAULT '{}',
	created_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS deals (
	id             TEXT PRIMARY KEY,
	tracker_id     TEXT NOT NULL REFERENCES trackers(id),
	title          TEXT NOT NULL DEFAULT '',
	geography      TEXT NOT NULL DEFAULT '[]',
	location_count INTEGER NOT NULL DEFAULT 1,
	headquarters   TEXT NOT NULL DEFAULT '',
	revenue        REAL,
	ebitda         REAL,
	service_mix    TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS buyers (
	id                    TEXT PRIMARY KEY,
	tracker_id            TEXT NOT NULL REFERENCES trackers(id),
	pe_firm_name          TEXT NOT NULL DEFAULT '',
	pe_firm_website       TEXT NOT NULL DEFAULT '',
	platform_company_name TEXT NOT NULL DEFAULT '',
	platform_website      TEXT NOT NULL DEFAULT '',
	hq_city               TEXT NOT NULL DEFAULT '',
	hq_state              TEXT NOT NULL DEFAULT '',
	target_geographies    TEXT NOT NULL DEFAULT '[]',
	service_regions       TEXT NOT NULL DEFAULT '[]',
	geographic_footprint  TEXT NOT NULL DEFAULT '[]',
	operating_locations   TEXT NOT NULL DEFAULT '[]',
	services_offered      TEXT NOT NULL DEFAULT '',
	target_services       TEXT NOT NULL DEFAULT '[]',
	thesis_summary        TEXT NOT NULL DEFAULT '',
	business_summary      TEXT NOT NULL DEFAULT '',
	industry_vertical     TEXT NOT NULL DEFAULT '',
	acquisition_appetite  TEXT NOT NULL DEFAULT '',
	min_revenue           REAL,
	max_revenue           REAL,
	min_ebitda            REAL,
	max_ebitda            REAL,
	employee_count        INTEGER,
	linkedin_url          TEXT NOT NULL DEFAULT '',
	deal_breakers         TEXT NOT NULL DEFAULT '[]',
	created_at            DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at            DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS buyer_deal_scores (
	id                    TEXT PRIMARY KEY,
	buyer_id              TEXT NOT NULL,
	deal_id               TEXT NOT NULL REFERENCES deals(id),
	geography_score       REAL,
	acquisition_score     REAL,
	service_score         REAL,
	composite_score       REAL,
	disqualified          INTEGER NOT NULL DEFAULT 0,
	scoring_reasoning     TEXT NOT NULL DEFAULT '',
	selected_for_outreach INTEGER NOT NULL DEFAULT 0,
	passed_on_deal        INTEGER NOT NULL DEFAULT 0,
	pass_category         TEXT,
	pass_reason           TEXT,
	interested            INTEGER NOT NULL DEFAULT 0,
	hidden_from_deal      INTEGER NOT NULL DEFAULT 0,
	scored_at             DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (buyer_id, deal_id)
);

CREATE TABLE IF NOT EXISTS deal_scoring_adjustments (
	deal_id               TEXT PRIMARY KEY REFERENCES deals(id),
	geography_weight_mult REAL NOT NULL DEFAULT 1.0,
	size_weight_mult      REAL NOT NULL DEFAULT 1.0,
	services_weight_mult  REAL NOT NULL DEFAULT 1.0,
	approved_count        INTEGER NOT NULL DEFAULT 0,
	rejected_count        INTEGER NOT NULL DEFAULT 0,
	passed_geography      INTEGER NOT NULL DEFAULT 0,
	passed_size           INTEGER NOT NULL DEFAULT 0,
	passed_services       INTEGER NOT NULL DEFAULT 0,
	last_calculated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS buyer_contacts (
	id         TEXT PRIMARY KEY,
	buyer_id   TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS buyer_transcripts (
	id         TEXT PRIMARY KEY,
	buyer_id   TEXT NOT NULL,
	content    TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS outreach_records (
	id         TEXT PRIMARY KEY,
	buyer_id   TEXT NOT NULL,
	deal_id    TEXT,
	status     TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS call_intelligence (
	id         TEXT PRIMARY KEY,
	buyer_id   TEXT NOT NULL,
	summary    TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_deals_tracker_id ON deals(tracker_id);
CREATE INDEX IF NOT EXISTS idx_buyers_tracker_id ON buyers(tracker_id);
CREATE INDEX IF NOT EXISTS idx_buyer_deal_scores_deal_id ON buyer_deal_scores(deal_id);
CREATE INDEX IF NOT EXISTS idx_buyer_contacts_buyer_id ON buyer_contacts(buyer_id);
CREATE INDEX IF NOT EXISTS idx_buyer_transcripts_buyer_id ON buyer_transcripts(buyer_id);
CREATE INDEX IF NOT EXISTS idx_outreach_records_buyer_id ON outreach_records(buyer_id);
CREATE INDEX IF NOT EXISTS idx_call_intelligence_buyer_id ON call_intelligence(buyer_id);
`

// Ping checks the database is open and reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateTracker(ctx context.Context, t *model.Tracker) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	criteria, err := json.Marshal(t.ServiceCriteria)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal service criteria")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO trackers (id, name, industry, service_criteria, created_at) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Industry, string(criteria), t.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert tracker %s", t.ID)
}

func (s *SQLiteStore) GetTracker(ctx context.Context, id string) (*model.Tracker, error) {
	var t model.Tracker
	var criteria string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, industry, service_criteria, created_at FROM trackers WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.Name, &t.Industry, &criteria, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: tracker %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get tracker %s", id)
	}
	if err := json.Unmarshal([]byte(criteria), &t.ServiceCriteria); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal service criteria")
	}
	return &t, nil
}

func (s *SQLiteStore) CreateDeal(ctx context.Context, d *model.Deal) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO deals (id, tracker_id, title, geography, location_count, headquarters, revenue, ebitda, service_mix, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.TrackerID, d.Title, encodeList(d.Geography), d.Locations(), d.Headquarters,
		d.Revenue, d.EBITDA, d.ServiceMix, d.CreatedAt, d.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert deal %s", d.ID)
}

func (s *SQLiteStore) GetDeal(ctx context.Context, id string) (*model.Deal, error) {
	var d model.Deal
	var geography string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, tracker_id, title, geography, location_count, headquarters, revenue, ebitda, service_mix, created_at, updated_at
		 FROM deals WHERE id = ?`,
		id,
	).Scan(&d.ID, &d.TrackerID, &d.Title, &geography, &d.LocationCount, &d.Headquarters,
		&d.Revenue, &d.EBITDA, &d.ServiceMix, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: deal %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get deal %s", id)
	}
	if d.Geography, err = decodeList(geography); err != nil {
		return nil, eris.Wrap(err, "sqlite: decode deal geography")
	}
	return &d, nil
}

func (s *SQLiteStore) CreateBuyer(ctx context.Context, b *model.Buyer) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO buyers (`+buyerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.TrackerID, b.PEFirmName, b.PEFirmWebsite, b.PlatformCompanyName, b.PlatformWebsite,
		b.HQCity, b.HQState, encodeList(b.TargetGeographies), encodeList(b.ServiceRegions),
		encodeList(b.GeographicFootprint), encodeList(b.OperatingLocations), b.ServicesOffered,
		encodeList(b.TargetServices), b.ThesisSummary, b.BusinessSummary, b.IndustryVertical,
		b.AcquisitionAppetite, b.MinRevenue, b.MaxRevenue, b.MinEBITDA, b.MaxEBITDA, b.EmployeeCount,
		b.LinkedInURL, encodeList(b.DealBreakers), b.CreatedAt, b.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert buyer %s", b.ID)
}

func (s *SQLiteStore) GetBuyer(ctx context.Context, id string) (*model.Buyer, error) {
	b, err := scanSQLiteBuyer(s.db.QueryRowContext(ctx, `SELECT `+buyerColumns+` FROM buyers WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: buyer %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get buyer %s", id)
	}
	return b, nil
}

func (s *SQLiteStore) ListBuyers(ctx context.Context, trackerID string) ([]model.Buyer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+buyerColumns+` FROM buyers WHERE tracker_id = ? ORDER BY created_at, id`,
		trackerID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list buyers for tracker %s", trackerID)
	}
	defer rows.Close() //nolint:errcheck

	var buyers []model.Buyer
	for rows.Next() {
		b, err := scanSQLiteBuyer(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan buyer")
		}
		buyers = append(buyers, *b)
	}
	return buyers, eris.Wrap(rows.Err(), "sqlite: list buyers iterate")
}

func (s *SQLiteStore) UpdateBuyerPEFirmName(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE buyers SET pe_firm_name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update buyer pe firm name %s", id)
	}
	return checkRowsAffected(res, "buyer", id)
}

func (s *SQLiteStore) DeleteBuyers(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM buyers WHERE id IN (`+placeholders(len(ids))+`)`, anyArgs(ids)...)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete buyers")
	}
	n, err := res.RowsAffected()
	return n, eris.Wrap(err, "sqlite: delete buyers rows affected")
}

func (s *SQLiteStore) RepointChildren(ctx context.Context, from, to string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE buyer_deal_scores AS k
		 SET selected_for_outreach = d.selected_for_outreach, passed_on_deal = d.passed_on_deal,
			pass_category = d.pass_category, pass_reason = d.pass_reason
		 FROM buyer_deal_scores AS d
		 WHERE k.buyer_id = ? AND d.buyer_id = ? AND d.deal_id = k.deal_id
			AND NOT k.selected_for_outreach AND NOT k.passed_on_deal
			AND (d.selected_for_outreach OR d.passed_on_deal)`,
		to, from,
	); err != nil {
		return eris.Wrapf(err, "sqlite: carry decisions of %s", from)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM buyer_deal_scores WHERE buyer_id = ?
		 AND deal_id IN (SELECT deal_id FROM buyer_deal_scores WHERE buyer_id = ?)`,
		from, to,
	); err != nil {
		return eris.Wrapf(err, "sqlite: drop colliding scores of %s", from)
	}
	for _, table := range model.ChildTables {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE `+table+` SET buyer_id = ? WHERE buyer_id = ?`,
			to, from,
		); err != nil {
			return eris.Wrapf(err, "sqlite: repoint %s from %s", table, from)
		}
	}
	return nil
}

func (s *SQLiteStore) CountChildRefs(ctx context.Context, buyerIDs []string) (int64, error) {
	if len(buyerIDs) == 0 {
		return 0, nil
	}
	var total int64
	for _, table := range model.ChildTables {
		var n int64
		if err := s.db.QueryRowContext(ctx,
			`SELECT count(*) FROM `+table+` WHERE buyer_id IN (`+placeholders(len(buyerIDs))+`)`,
			anyArgs(buyerIDs)...,
		).Scan(&n); err != nil {
			return 0, eris.Wrapf(err, "sqlite: count %s refs", table)
		}
		total += n
	}
	return total, nil
}

func (s *SQLiteStore) ListScoresForDeal(ctx context.Context, dealID string) ([]model.BuyerDealScore, error) {
	rows, err := s.db.QueryContext(ctx, scoreSelect+` WHERE deal_id = ? ORDER BY buyer_id`, dealID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list scores for deal %s", dealID)
	}
	defer rows.Close() //nolint:errcheck

	var scores []model.BuyerDealScore
	for rows.Next() {
		sc, err := scanScore(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan score")
		}
		scores = append(scores, *sc)
	}
	return scores, eris.Wrap(rows.Err(), "sqlite: list scores iterate")
}

func (s *SQLiteStore) UpsertScores(ctx context.Context, scores []model.BuyerDealScore) (int64, error) {
	if len(scores) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert scores: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	var n int64
	for i := range scores {
		sc := &scores[i]
		if sc.ScoredAt.IsZero() {
			sc.ScoredAt = time.Now().UTC()
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO buyer_deal_scores (id, `+strings.Join(scoreColumns, ", ")+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (buyer_id, deal_id) DO UPDATE SET
				geography_score = excluded.geography_score,
				acquisition_score = COALESCE(excluded.acquisition_score, buyer_deal_scores.acquisition_score),
				service_score = excluded.service_score,
				composite_score = COALESCE(excluded.composite_score, buyer_deal_scores.composite_score),
				disqualified = excluded.disqualified,
				scoring_reasoning = excluded.scoring_reasoning,
				scored_at = excluded.scored_at`,
			uuid.New().String(), sc.BuyerID, sc.DealID,
			sc.GeographyScore, sc.AcquisitionScore, sc.ServiceScore, sc.CompositeScore,
			sc.Disqualified, sc.ScoringReasoning, sc.ScoredAt,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert score buyer %s deal %s", sc.BuyerID, sc.DealID)
		}
		affected, _ := res.RowsAffected()
		n += affected
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert scores: commit tx")
	}
	return n, nil
}

func (s *SQLiteStore) RecordDecision(ctx context.Context, buyerID, dealID string, d model.Decision) error {
	selected, passed, category, reason := decisionFields(d)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO buyer_deal_scores (id, buyer_id, deal_id, selected_for_outreach, passed_on_deal, pass_category, pass_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (buyer_id, deal_id) DO UPDATE SET
			selected_for_outreach = excluded.selected_for_outreach,
			passed_on_deal = excluded.passed_on_deal,
			pass_category = excluded.pass_category,
			pass_reason = excluded.pass_reason`,
		uuid.New().String(), buyerID, dealID, selected, passed, category, reason,
	)
	return eris.Wrapf(err, "sqlite: record decision for buyer %s deal %s", buyerID, dealID)
}

func (s *SQLiteStore) GetAdjustments(ctx context.Context, dealID string) (*model.ScoringAdjustments, error) {
	var a model.ScoringAdjustments
	err := s.db.QueryRowContext(ctx,
		`SELECT deal_id, geography_weight_mult, size_weight_mult, services_weight_mult,
			approved_count, rejected_count, passed_geography, passed_size, passed_services, last_calculated_at
		 FROM deal_scoring_adjustments WHERE deal_id = ?`,
		dealID,
	).Scan(&a.DealID, &a.GeographyWeightMult, &a.SizeWeightMult, &a.ServicesWeightMult,
		&a.ApprovedCount, &a.RejectedCount, &a.PassedGeography, &a.PassedSize, &a.PassedServices, &a.LastCalculatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get adjustments %s", dealID)
	}
	return &a, nil
}

func (s *SQLiteStore) UpsertAdjustments(ctx context.Context, a *model.ScoringAdjustments) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO deal_scoring_adjustments (deal_id, geography_weight_mult, size_weight_mult, services_weight_mult,
			approved_count, rejected_count, passed_geography, passed_size, passed_services, last_calculated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (deal_id) DO UPDATE SET
			geography_weight_mult = excluded.geography_weight_mult,
			size_weight_mult = excluded.size_weight_mult,
			services_weight_mult = excluded.services_weight_mult,
			approved_count = excluded.approved_count,
			rejected_count = excluded.rejected_count,
			passed_geography = excluded.passed_geography,
			passed_size = excluded.passed_size,
			passed_services = excluded.passed_services,
			last_calculated_at = excluded.last_calculated_at`,
		a.DealID, a.GeographyWeightMult, a.SizeWeightMult, a.ServicesWeightMult,
		a.ApprovedCount, a.RejectedCount, a.PassedGeography, a.PassedSize, a.PassedServices, a.LastCalculatedAt,
	)
	return eris.Wrapf(err, "sqlite: upsert adjustments %s", a.DealID)
}

func (s *SQLiteStore) DeleteAdjustments(ctx context.Context, dealID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM deal_scoring_adjustments WHERE deal_id = ?`, dealID)
	return eris.Wrapf(err, "sqlite: delete adjustments %s", dealID)
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return nil
}

func scanSQLiteBuyer(row scannable) (*model.Buyer, error) {
	var b model.Buyer
	var targetGeo, regions, footprint, locations, targetServices, dealBreakers string
	err := row.Scan(&b.ID, &b.TrackerID, &b.PEFirmName, &b.PEFirmWebsite, &b.PlatformCompanyName, &b.PlatformWebsite,
		&b.HQCity, &b.HQState, &targetGeo, &regions, &footprint, &locations,
		&b.ServicesOffered, &targetServices, &b.ThesisSummary, &b.BusinessSummary, &b.IndustryVertical,
		&b.AcquisitionAppetite, &b.MinRevenue, &b.MaxRevenue, &b.MinEBITDA, &b.MaxEBITDA, &b.EmployeeCount,
		&b.LinkedInURL, &dealBreakers, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	for _, f := range []struct {
		raw string
		dst *[]string
	}{
		{targetGeo, &b.TargetGeographies},
		{regions, &b.ServiceRegions},
		{footprint, &b.GeographicFootprint},
		{locations, &b.OperatingLocations},
		{targetServices, &b.TargetServices},
		{dealBreakers, &b.DealBreakers},
	} {
		list, err := decodeList(f.raw)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: decode buyer list column")
		}
		*f.dst = list
	}
	return &b, nil
}

func encodeList(list []string) string {
	data, err := json.Marshal(nonNil(list))
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeList(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	return nonNil(list), nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func anyArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
