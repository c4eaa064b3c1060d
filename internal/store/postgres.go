package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/buyer-match/internal/db"
	"github.com/sells-group/buyer-match/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: pool.Close}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS trackers (
	id               TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name             TEXT NOT NULL,
	industry         TEXT NOT NULL DEFAULT '',
	service_criteria JSONB NOT NULL DEFAULT '{}',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS deals (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	tracker_id     TEXT NOT NULL REFERENCES trackers(id),
	title          TEXT NOT NULL DEFAULT '',
	geography      TEXT[] NOT NULL DEFAULT '{}',
	location_count INTEGER NOT NULL DEFAULT 1,
	headquarters   TEXT NOT NULL DEFAULT '',
	revenue        DOUBLE PRECISION,
	ebitda         DOUBLE PRECISION,
	service_mix    TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS buyers (
	id                    TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	tracker_id            TEXT NOT NULL REFERENCES trackers(id),
	pe_firm_name          TEXT NOT NULL DEFAULT '',
	pe_firm_website       TEXT NOT NULL DEFAULT '',
	platform_company_name TEXT NOT NULL DEFAULT '',
	platform_website      TEXT NOT NULL DEFAULT '',
	hq_city               TEXT NOT NULL DEFAULT '',
	hq_state              TEXT NOT NULL DEFAULT '',
	target_geographies    TEXT[] NOT NULL DEFAULT '{}',
	service_regions       TEXT[] NOT NULL DEFAULT '{}',
	geographic_footprint  TEXT[] NOT NULL DEFAULT '{}',
	operating_locations   TEXT[] NOT NULL DEFAULT '{}',
	services_offered      TEXT NOT NULL DEFAULT '',
	target_services       TEXT[] NOT NULL DEFAULT '{}',
	thesis_summary        TEXT NOT NULL DEFAULT '',
	business_summary      TEXT NOT NULL DEFAULT '',
	industry_vertical     TEXT NOT NULL DEFAULT '',
	acquisition_appetite  TEXT NOT NULL DEFAULT '',
	min_revenue           DOUBLE PRECISION,
	max_revenue           DOUBLE PRECISION,
	min_ebitda            DOUBLE PRECISION,
	max_ebitda            DOUBLE PRECISION,
	employee_count        INTEGER,
	linkedin_url          TEXT NOT NULL DEFAULT '',
	deal_breakers         TEXT[] NOT NULL DEFAULT '{}',
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS buyer_deal_scores (
	id                    TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	buyer_id              TEXT NOT NULL,
	deal_id               TEXT NOT NULL REFERENCES deals(id),
	geography_score       DOUBLE PRECISION,
	acquisition_score     DOUBLE PRECISION,
	service_score         DOUBLE PRECISION,
	composite_score       DOUBLE PRECISION,
	disqualified          BOOLEAN NOT NULL DEFAULT false,
	scoring_reasoning     TEXT NOT NULL DEFAULT '',
	selected_for_outreach BOOLEAN NOT NULL DEFAULT false,
	passed_on_deal        BOOLEAN NOT NULL DEFAULT false,
	pass_category         TEXT,
	pass_reason           TEXT,
	interested            BOOLEAN NOT NULL DEFAULT false,
	hidden_from_deal      BOOLEAN NOT NULL DEFAULT false,
	scored_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (buyer_id, deal_id)
);

CREATE TABLE IF NOT EXISTS deal_scoring_adjustments (
	deal_id               TEXT PRIMARY KEY REFERENCES deals(id),
	geography_weight_mult DOUBLE PRECISION NOT NULL DEFAULT 1.0,
	size_weight_mult      DOUBLE PRECISION NOT NULL DEFAULT 1.0,
	services_weight_mult  DOUBLE PRECISION NOT NULL DEFAULT 1.0,
	approved_count        INTEGER NOT NULL DEFAULT 0,
	rejected_count        INTEGER NOT NULL DEFAULT 0,
	passed_geography      INTEGER NOT NULL DEFAULT 0,
	passed_size           INTEGER NOT NULL DEFAULT 0,
	passed_services       INTEGER NOT NULL DEFAULT 0,
	last_calculated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS buyer_contacts (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	buyer_id   TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS buyer_transcripts (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	buyer_id   TEXT NOT NULL,
	content    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS outreach_records (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	buyer_id   TEXT NOT NULL,
	deal_id    TEXT,
	status     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS call_intelligence (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	buyer_id   TEXT NOT NULL,
	summary    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_deals_tracker_id ON deals(tracker_id);
CREATE INDEX IF NOT EXISTS idx_buyers_tracker_id ON buyers(tracker_id);
CREATE INDEX IF NOT EXISTS idx_buyer_deal_scores_deal_id ON buyer_deal_scores(deal_id);
CREATE INDEX IF NOT EXISTS idx_buyer_contacts_buyer_id ON buyer_contacts(buyer_id);
CREATE INDEX IF NOT EXISTS idx_buyer_transcripts_buyer_id ON buyer_transcripts(buyer_id);
CREATE INDEX IF NOT EXISTS idx_outreach_records_buyer_id ON outreach_records(buyer_id);
CREATE INDEX IF NOT EXISTS idx_call_intelligence_buyer_id ON call_intelligence(buyer_id);
`

const buyerColumns = `id, tracker_id, pe_firm_name, pe_firm_website, platform_company_name, platform_website,
	hq_city, hq_state, target_geographies, service_regions, geographic_footprint, operating_locations,
	services_offered, target_services, thesis_summary, business_summary, industry_vertical,
	acquisition_appetite, min_revenue, max_revenue, min_ebitda, max_ebitda, employee_count,
	linkedin_url, deal_breakers, created_at, updated_at`

const scoreSelect = `SELECT id, buyer_id, deal_id, geography_score, acquisition_score, service_score,
	composite_score, disqualified, scoring_reasoning, selected_for_outreach, passed_on_deal,
	pass_category, pass_reason, interested, hidden_from_deal, scored_at
	FROM buyer_deal_scores`

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateTracker(ctx context.Context, t *model.Tracker) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	criteria, err := json.Marshal(t.ServiceCriteria)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal service criteria")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO trackers (id, name, industry, service_criteria, created_at) VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Name, t.Industry, criteria, t.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: insert tracker %s", t.ID)
}

func (s *PostgresStore) GetTracker(ctx context.Context, id string) (*model.Tracker, error) {
	var t model.Tracker
	var criteria []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, industry, service_criteria, created_at FROM trackers WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Name, &t.Industry, &criteria, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: tracker %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get tracker %s", id)
	}
	if len(criteria) > 0 {
		if err := json.Unmarshal(criteria, &t.ServiceCriteria); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal service criteria")
		}
	}
	return &t, nil
}

func (s *PostgresStore) CreateDeal(ctx context.Context, d *model.Deal) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	_, err := s.pool.Exec(ctx,
		`INSERT INTO deals (id, tracker_id, title, geography, location_count, headquarters, revenue, ebitda, service_mix, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		d.ID, d.TrackerID, d.Title, nonNil(d.Geography), d.Locations(), d.Headquarters,
		d.Revenue, d.EBITDA, d.ServiceMix, d.CreatedAt, d.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: insert deal %s", d.ID)
}

func (s *PostgresStore) GetDeal(ctx context.Context, id string) (*model.Deal, error) {
	var d model.Deal
	err := s.pool.QueryRow(ctx,
		`SELECT id, tracker_id, title, geography, location_count, headquarters, revenue, ebitda, service_mix, created_at, updated_at
		 FROM deals WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.TrackerID, &d.Title, &d.Geography, &d.LocationCount, &d.Headquarters,
		&d.Revenue, &d.EBITDA, &d.ServiceMix, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: deal %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get deal %s", id)
	}
	return &d, nil
}

func (s *PostgresStore) CreateBuyer(ctx context.Context, b *model.Buyer) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	_, err := s.pool.Exec(ctx,
		`INSERT INTO buyers (`+buyerColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		 $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`,
		buyerArgs(b)...,
	)
	return eris.Wrapf(err, "postgres: insert buyer %s", b.ID)
}

func (s *PostgresStore) GetBuyer(ctx context.Context, id string) (*model.Buyer, error) {
	b, err := scanBuyer(s.pool.QueryRow(ctx, `SELECT `+buyerColumns+` FROM buyers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: buyer %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get buyer %s", id)
	}
	return b, nil
}

func (s *PostgresStore) ListBuyers(ctx context.Context, trackerID string) ([]model.Buyer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+buyerColumns+` FROM buyers WHERE tracker_id = $1 ORDER BY created_at, id`,
		trackerID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list buyers for tracker %s", trackerID)
	}
	defer rows.Close()

	var buyers []model.Buyer
	for rows.Next() {
		b, err := scanBuyer(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan buyer")
		}
		buyers = append(buyers, *b)
	}
	return buyers, eris.Wrap(rows.Err(), "postgres: list buyers iterate")
}

func (s *PostgresStore) UpdateBuyerPEFirmName(ctx context.Context, id, name string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE buyers SET pe_firm_name = $1, updated_at = $2 WHERE id = $3`,
		name, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update buyer pe firm name %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "postgres: buyer %s", id)
	}
	return nil
}

func (s *PostgresStore) DeleteBuyers(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM buyers WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete buyers")
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) RepointChildren(ctx context.Context, from, to string) error {
	if _, err := s.pool.Exec(ctx,
		`UPDATE buyer_deal_scores AS k
		 SET selected_for_outreach = d.selected_for_outreach, passed_on_deal = d.passed_on_deal,
			pass_category = d.pass_category, pass_reason = d.pass_reason
		 FROM buyer_deal_scores AS d
		 WHERE k.buyer_id = $1 AND d.buyer_id = $2 AND d.deal_id = k.deal_id
			AND NOT k.selected_for_outreach AND NOT k.passed_on_deal
			AND (d.selected_for_outreach OR d.passed_on_deal)`,
		to, from,
	); err != nil {
		return eris.Wrapf(err, "postgres: carry decisions of %s", from)
	}
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM buyer_deal_scores WHERE buyer_id = $1
		 AND deal_id IN (SELECT deal_id FROM buyer_deal_scores WHERE buyer_id = $2)`,
		from, to,
	); err != nil {
		return eris.Wrapf(err, "postgres: drop colliding scores of %s", from)
	}
	for _, table := range model.ChildTables {
		if _, err := s.pool.Exec(ctx,
			`UPDATE `+pgx.Identifier{table}.Sanitize()+` SET buyer_id = $1 WHERE buyer_id = $2`,
			to, from,
		); err != nil {
			return eris.Wrapf(err, "postgres: repoint %s from %s", table, from)
		}
	}
	return nil
}

func (s *PostgresStore) CountChildRefs(ctx context.Context, buyerIDs []string) (int64, error) {
	var total int64
	for _, table := range model.ChildTables {
		var n int64
		if err := s.pool.QueryRow(ctx,
			`SELECT count(*) FROM `+pgx.Identifier{table}.Sanitize()+` WHERE buyer_id = ANY($1)`,
			buyerIDs,
		).Scan(&n); err != nil {
			return 0, eris.Wrapf(err, "postgres: count %s refs", table)
		}
		total += n
	}
	return total, nil
}

func (s *PostgresStore) ListScoresForDeal(ctx context.Context, dealID string) ([]model.BuyerDealScore, error) {
	rows, err := s.pool.Query(ctx, scoreSelect+` WHERE deal_id = $1 ORDER BY buyer_id`, dealID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list scores for deal %s", dealID)
	}
	defer rows.Close()

	var scores []model.BuyerDealScore
	for rows.Next() {
		sc, err := scanScore(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan score")
		}
		scores = append(scores, *sc)
	}
	return scores, eris.Wrap(rows.Err(), "postgres: list scores iterate")
}

func (s *PostgresStore) UpsertScores(ctx context.Context, scores []model.BuyerDealScore) (int64, error) {
	rows := make([][]any, 0, len(scores))
	for i := range scores {
		sc := &scores[i]
		if sc.ScoredAt.IsZero() {
			sc.ScoredAt = time.Now().UTC()
		}
		rows = append(rows, []any{
			sc.BuyerID, sc.DealID,
			sc.GeographyScore, sc.AcquisitionScore, sc.ServiceScore, sc.CompositeScore,
			sc.Disqualified, sc.ScoringReasoning, sc.ScoredAt,
		})
	}
	n, err := db.BulkUpsert(ctx, s.pool, scoreUpsert, rows)
	return n, eris.Wrap(err, "postgres: upsert scores")
}

func (s *PostgresStore) RecordDecision(ctx context.Context, buyerID, dealID string, d model.Decision) error {
	selected, passed, category, reason := decisionFields(d)
	_, err := s.pool.Exec(ctx,
		`INSERT INTO buyer_deal_scores (id, buyer_id, deal_id, selected_for_outreach, passed_on_deal, pass_category, pass_reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (buyer_id, deal_id) DO UPDATE SET
			selected_for_outreach = EXCLUDED.selected_for_outreach,
			passed_on_deal = EXCLUDED.passed_on_deal,
			pass_category = EXCLUDED.pass_category,
			pass_reason = EXCLUDED.pass_reason`,
		uuid.New().String(), buyerID, dealID, selected, passed, category, reason,
	)
	return eris.Wrapf(err, "postgres: record decision for buyer %s deal %s", buyerID, dealID)
}

func (s *PostgresStore) GetAdjustments(ctx context.Context, dealID string) (*model.ScoringAdjustments, error) {
	var a model.ScoringAdjustments
	err := s.pool.QueryRow(ctx,
		`SELECT deal_id, geography_weight_mult, size_weight_mult, services_weight_mult,
			approved_count, rejected_count, passed_geography, passed_size, passed_services, last_calculated_at
		 FROM deal_scoring_adjustments WHERE deal_id = $1`,
		dealID,
	).Scan(&a.DealID, &a.GeographyWeightMult, &a.SizeWeightMult, &a.ServicesWeightMult,
		&a.ApprovedCount, &a.RejectedCount, &a.PassedGeography, &a.PassedSize, &a.PassedServices, &a.LastCalculatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get adjustments %s", dealID)
	}
	return &a, nil
}

func (s *PostgresStore) UpsertAdjustments(ctx context.Context, a *model.ScoringAdjustments) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO deal_scoring_adjustments (deal_id, geography_weight_mult, size_weight_mult, services_weight_mult,
			approved_count, rejected_count, passed_geography, passed_size, passed_services, last_calculated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (deal_id) DO UPDATE SET
			geography_weight_mult = EXCLUDED.geography_weight_mult,
			size_weight_mult = EXCLUDED.size_weight_mult,
			services_weight_mult = EXCLUDED.services_weight_mult,
			approved_count = EXCLUDED.approved_count,
			rejected_count = EXCLUDED.rejected_count,
			passed_geography = EXCLUDED.passed_geography,
			passed_size = EXCLUDED.passed_size,
			passed_services = EXCLUDED.passed_services,
			last_calculated_at = EXCLUDED.last_calculated_at`,
		a.DealID, a.GeographyWeightMult, a.SizeWeightMult, a.ServicesWeightMult,
		a.ApprovedCount, a.RejectedCount, a.PassedGeography, a.PassedSize, a.PassedServices, a.LastCalculatedAt,
	)
	return eris.Wrapf(err, "postgres: upsert adjustments %s", a.DealID)
}

func (s *PostgresStore) DeleteAdjustments(ctx context.Context, dealID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM deal_scoring_adjustments WHERE deal_id = $1`, dealID)
	return eris.Wrapf(err, "postgres: delete adjustments %s", dealID)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanBuyer(row scannable) (*model.Buyer, error) {
	var b model.Buyer
	err := row.Scan(&b.ID, &b.TrackerID, &b.PEFirmName, &b.PEFirmWebsite, &b.PlatformCompanyName, &b.PlatformWebsite,
		&b.HQCity, &b.HQState, &b.TargetGeographies, &b.ServiceRegions, &b.GeographicFootprint, &b.OperatingLocations,
		&b.ServicesOffered, &b.TargetServices, &b.ThesisSummary, &b.BusinessSummary, &b.IndustryVertical,
		&b.AcquisitionAppetite, &b.MinRevenue, &b.MaxRevenue, &b.MinEBITDA, &b.MaxEBITDA, &b.EmployeeCount,
		&b.LinkedInURL, &b.DealBreakers, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func buyerArgs(b *model.Buyer) []any {
	return []any{
		b.ID, b.TrackerID, b.PEFirmName, b.PEFirmWebsite, b.PlatformCompanyName, b.PlatformWebsite,
		b.HQCity, b.HQState, nonNil(b.TargetGeographies), nonNil(b.ServiceRegions), nonNil(b.GeographicFootprint),
		nonNil(b.OperatingLocations), b.ServicesOffered, nonNil(b.TargetServices), b.ThesisSummary, b.BusinessSummary,
		b.IndustryVertical, b.AcquisitionAppetite, b.MinRevenue, b.MaxRevenue, b.MinEBITDA, b.MaxEBITDA,
		b.EmployeeCount, b.LinkedInURL, nonNil(b.DealBreakers), b.CreatedAt, b.UpdatedAt,
	}
}

func scanScore(row scannable) (*model.BuyerDealScore, error) {
	var sc model.BuyerDealScore
	var category, reason *string
	err := row.Scan(&sc.ID, &sc.BuyerID, &sc.DealID, &sc.GeographyScore, &sc.AcquisitionScore, &sc.ServiceScore,
		&sc.CompositeScore, &sc.Disqualified, &sc.ScoringReasoning, &sc.SelectedForOutreach, &sc.PassedOnDeal,
		&category, &reason, &sc.Interested, &sc.HiddenFromDeal, &sc.ScoredAt)
	if err != nil {
		return nil, err
	}
	if category != nil {
		sc.PassCategory = model.PassCategory(*category)
	}
	if reason != nil {
		sc.PassReason = *reason
	}
	return &sc, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
