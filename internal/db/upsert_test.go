package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreUpsert() Upsert {
	return Upsert{
		Table:      "buyer_deal_scores",
		Columns:    []string{"buyer_id", "deal_id", "geography_score", "composite_score"},
		Key:        []string{"buyer_id", "deal_id"},
		Update:     []string{"geography_score", "composite_score"},
		KeepOnNull: []string{"composite_score"},
	}
}

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.Background(), nil, scoreUpsert(), nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestUpsert_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(u *Upsert)
		wantErr string
	}{
		{"valid", func(*Upsert) {}, ""},
		{"no table", func(u *Upsert) { u.Table = "" }, "no table"},
		{"no columns", func(u *Upsert) { u.Columns = nil }, "no columns"},
		{"no key", func(u *Upsert) { u.Key = nil }, "no key columns"},
		{"no update", func(u *Upsert) { u.Update = nil }, "no update columns"},
		{"update not written", func(u *Upsert) { u.Update = []string{"service_score"} }, `"service_score" is not written`},
		{"keep not written", func(u *Upsert) { u.KeepOnNull = []string{"scored_at"} }, `"scored_at" is not written`},
		{"key updated", func(u *Upsert) { u.Update = []string{"deal_id"} }, `key column "deal_id"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := scoreUpsert()
			tt.mutate(&u)
			err := u.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUpsert_MergeSQL(t *testing.T) {
	got := scoreUpsert().mergeSQL("_stage_buyer_deal_scores")
	assert.Equal(t,
		`INSERT INTO "buyer_deal_scores" AS t ("buyer_id", "deal_id", "geography_score", "composite_score") `+
			`SELECT "buyer_id", "deal_id", "geography_score", "composite_score" FROM "_stage_buyer_deal_scores" `+
			`ON CONFLICT ("buyer_id", "deal_id") DO UPDATE SET "geography_score" = EXCLUDED."geography_score", `+
			`"composite_score" = COALESCE(EXCLUDED."composite_score", t."composite_score")`,
		got)
}

func TestBulkUpsert_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	u := scoreUpsert()
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TEMP TABLE").WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_stage_buyer_deal_scores"}, u.Columns).WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "buyer_deal_scores" AS t .* ON CONFLICT \("buyer_id", "deal_id"\) DO UPDATE SET`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	n, err := BulkUpsert(context.Background(), mock, u, [][]any{
		{"b1", "d1", 95.0, nil},
		{"b2", "d1", 40.0, nil},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_CopyError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	u := scoreUpsert()
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TEMP TABLE").WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_stage_buyer_deal_scores"}, u.Columns).WillReturnError(errors.New("copy failed"))
	mock.ExpectRollback()

	_, err = BulkUpsert(context.Background(), mock, u, [][]any{{"b1", "d1", 95.0, nil}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copy 1 rows for buyer_deal_scores")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_InvalidConfig(t *testing.T) {
	u := scoreUpsert()
	u.Key = nil
	_, err := BulkUpsert(context.Background(), nil, u, [][]any{{"b1", "d1", 95.0, nil}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no key columns")
}

func TestLastPerKey(t *testing.T) {
	rows := [][]any{
		{"b1", "d1", 10.0},
		{"b2", "d1", 20.0},
		{"b1", "d1", 30.0},
		{"b1", "d2", 40.0},
	}
	got := lastPerKey(rows, []int{0, 1})
	assert.Equal(t, [][]any{
		{"b1", "d1", 30.0},
		{"b2", "d1", 20.0},
		{"b1", "d2", 40.0},
	}, got)
}

func TestSanitizeTable(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"buyers", `"buyers"`},
		{"public.buyers", `"public"."buyers"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeTable(tt.input))
		})
	}
}
