package db

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// Upsert describes a keyed bulk write. Rows are staged with COPY and merged
// into Table; on a key conflict only Update columns change, so columns owned
// by other writers (decision flags on buyer_deal_scores) survive.
type Upsert struct {
	Table   string
	Columns []string
	Key     []string
	Update  []string
	// KeepOnNull lists Update columns whose existing value is kept when the
	// incoming value is NULL.
	KeepOnNull []string
}

func (u Upsert) validate() error {
	switch {
	case u.Table == "":
		return eris.New("db: upsert: no table")
	case len(u.Columns) == 0:
		return eris.New("db: upsert: no columns")
	case len(u.Key) == 0:
		return eris.New("db: upsert: no key columns")
	case len(u.Update) == 0:
		return eris.New("db: upsert: no update columns")
	}
	for _, c := range slices.Concat(u.Key, u.Update, u.KeepOnNull) {
		if !slices.Contains(u.Columns, c) {
			return eris.Errorf("db: upsert: column %q is not written", c)
		}
	}
	for _, c := range u.Update {
		if slices.Contains(u.Key, c) {
			return eris.Errorf("db: upsert: key column %q cannot be updated", c)
		}
	}
	return nil
}

// BulkUpsert stages rows in a temp table and merges them with
// INSERT ... ON CONFLICT. Rows repeating a key collapse to the last one, as
// Postgres rejects a statement that updates the same row twice.
func BulkUpsert(ctx context.Context, pool Pool, u Upsert, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := u.validate(); err != nil {
		return 0, err
	}
	rows = lastPerKey(rows, columnIndexes(u.Columns, u.Key))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: upsert: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	stage := "_stage_" + strings.ReplaceAll(u.Table, ".", "_")
	if _, err := tx.Exec(ctx, fmt.Sprintf(
		"CREATE TEMP TABLE %s (LIKE %s INCLUDING DEFAULTS) ON COMMIT DROP",
		pgx.Identifier{stage}.Sanitize(), sanitizeTable(u.Table),
	)); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: stage %s", u.Table)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{stage}, u.Columns, pgx.CopyFromRows(rows)); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: copy %d rows for %s", len(rows), u.Table)
	}

	tag, err := tx.Exec(ctx, u.mergeSQL(stage))
	if err != nil {
		return 0, eris.Wrapf(err, "db: upsert: merge into %s", u.Table)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: upsert: commit tx")
	}
	return tag.RowsAffected(), nil
}

func (u Upsert) mergeSQL(stage string) string {
	cols := quoteAndJoin(u.Columns)
	set := make([]string, 0, len(u.Update))
	for _, c := range u.Update {
		col := pgx.Identifier{c}.Sanitize()
		if slices.Contains(u.KeepOnNull, c) {
			set = append(set, fmt.Sprintf("%s = COALESCE(EXCLUDED.%s, t.%s)", col, col, col))
			continue
		}
		set = append(set, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	return fmt.Sprintf(
		"INSERT INTO %s AS t (%s) SELECT %s FROM %s ON CONFLICT (%s) DO UPDATE SET %s",
		sanitizeTable(u.Table), cols, cols,
		pgx.Identifier{stage}.Sanitize(), quoteAndJoin(u.Key),
		strings.Join(set, ", "),
	)
}

func columnIndexes(columns, names []string) []int {
	idx := make([]int, len(names))
	for i, n := range names {
		idx[i] = slices.Index(columns, n)
	}
	return idx
}

// lastPerKey keeps one row per key, in first-seen order, holding the values
// of the last row with that key.
func lastPerKey(rows [][]any, keyIdx []int) [][]any {
	pos := make(map[string]int, len(rows))
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		parts := make([]string, len(keyIdx))
		for i, k := range keyIdx {
			parts[i] = fmt.Sprint(r[k])
		}
		key := strings.Join(parts, "\x00")
		if p, ok := pos[key]; ok {
			out[p] = r
			continue
		}
		pos[key] = len(out)
		out = append(out, r)
	}
	return out
}

// sanitizeTable handles schema-qualified table names like "public.buyers".
func sanitizeTable(table string) string {
	if schema, name, ok := strings.Cut(table, "."); ok {
		return pgx.Identifier{schema, name}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}

func quoteAndJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}
