package expectation

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/placepulse/livability/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS expectations (
	area_type   TEXT NOT NULL,
	context     TEXT NOT NULL DEFAULT '',
	pillar      TEXT NOT NULL,
	metric      TEXT NOT NULL,
	expected    REAL NOT NULL,
	p25         REAL,
	p75         REAL,
	sample_size INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (area_type, context, pillar, metric)
);
`

// OpenSQLite opens the reference database at the given path.
func OpenSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "expectation: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "expectation: sqlite exec %s", pragma)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "expectation: sqlite migrate")
	}
	return db, nil
}

// LoadSQLite reads the full expectation table from a SQLite reference
// database. The table is read once at startup and never written per-request.
func LoadSQLite(ctx context.Context, db *sql.DB) ([]Entry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT area_type, context, pillar, metric, expected, p25, p75, sample_size
		FROM expectations
		ORDER BY pillar, metric, area_type, context`)
	if err != nil {
		return nil, eris.Wrap(err, "expectation: sqlite query")
	}
	defer rows.Close() //nolint:errcheck

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			area     string
			ctxTag   string
			p25, p75 sql.NullFloat64
		)
		if err := rows.Scan(&area, &ctxTag, &e.Pillar, &e.Metric, &e.Expected, &p25, &p75, &e.SampleSize); err != nil {
			return nil, eris.Wrap(err, "expectation: sqlite scan")
		}
		at, err := model.ParseAreaType(area)
		if err != nil {
			return nil, eris.Wrap(err, "expectation: sqlite row")
		}
		e.AreaType = at
		e.Context = model.ContextTag(ctxTag)
		if p25.Valid {
			v := p25.Float64
			e.P25 = &v
		}
		if p75.Valid {
			v := p75.Float64
			e.P75 = &v
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "expectation: sqlite rows")
	}
	return entries, nil
}

// ImportSQLite upserts entries into the reference database. Used by the
// expectations import command, never by the scoring path.
func ImportSQLite(ctx context.Context, db *sql.DB, entries []Entry) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "expectation: sqlite begin")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expectations (area_type, context, pillar, metric, expected, p25, p75, sample_size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (area_type, context, pillar, metric) DO UPDATE SET
			expected = excluded.expected,
			p25 = excluded.p25,
			p75 = excluded.p75,
			sample_size = excluded.sample_size`)
	if err != nil {
		return 0, eris.Wrap(err, "expectation: sqlite prepare")
	}
	defer stmt.Close() //nolint:errcheck

	for _, e := range entries {
		var p25, p75 any
		if e.P25 != nil {
			p25 = *e.P25
		}
		if e.P75 != nil {
			p75 = *e.P75
		}
		if _, err := stmt.ExecContext(ctx, string(e.AreaType), string(e.Context), e.Pillar, e.Metric, e.Expected, p25, p75, e.SampleSize); err != nil {
			return 0, eris.Wrapf(err, "expectation: sqlite insert %s/%s/%s", e.AreaType, e.Pillar, e.Metric)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "expectation: sqlite commit")
	}
	return len(entries), nil
}
