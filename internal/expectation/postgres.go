package expectation

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/placepulse/livability/internal/model"
)

// Pool is the subset of pgxpool.Pool the expectation store uses. pgxmock
// satisfies it for unit tests.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS expectations (
	area_type   TEXT NOT NULL,
	context     TEXT NOT NULL DEFAULT '',
	pillar      TEXT NOT NULL,
	metric      TEXT NOT NULL,
	expected    DOUBLE PRECISION NOT NULL,
	p25         DOUBLE PRECISION,
	p75         DOUBLE PRECISION,
	sample_size INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (area_type, context, pillar, metric)
)`

// NewPostgresPool connects to the reference database with conservative pool
// sizing; the table is read once at startup so a small pool suffices.
func NewPostgresPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "expectation: postgres parse config")
	}
	cfg.MaxConns = 4
	cfg.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "expectation: postgres connect")
	}
	return pool, nil
}

// MigratePostgres creates the expectations table if absent.
func MigratePostgres(ctx context.Context, pool Pool) error {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return eris.Wrap(err, "expectation: postgres migrate")
	}
	return nil
}

// LoadPostgres reads the full expectation table.
func LoadPostgres(ctx context.Context, pool Pool) ([]Entry, error) {
	rows, err := pool.Query(ctx, `
		SELECT area_type, context, pillar, metric, expected, p25, p75, sample_size
		FROM expectations
		ORDER BY pillar, metric, area_type, context`)
	if err != nil {
		return nil, eris.Wrap(err, "expectation: postgres query")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			area   string
			ctxTag string
		)
		if err := rows.Scan(&area, &ctxTag, &e.Pillar, &e.Metric, &e.Expected, &e.P25, &e.P75, &e.SampleSize); err != nil {
			return nil, eris.Wrap(err, "expectation: postgres scan")
		}
		at, err := model.ParseAreaType(area)
		if err != nil {
			return nil, eris.Wrap(err, "expectation: postgres row")
		}
		e.AreaType = at
		e.Context = model.ContextTag(ctxTag)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "expectation: postgres rows")
	}
	return entries, nil
}

// ImportPostgres upserts entries into the reference table.
func ImportPostgres(ctx context.Context, pool Pool, entries []Entry) (int, error) {
	const upsert = `
		INSERT INTO expectations (area_type, context, pillar, metric, expected, p25, p75, sample_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (area_type, context, pillar, metric) DO UPDATE SET
			expected = EXCLUDED.expected,
			p25 = EXCLUDED.p25,
			p75 = EXCLUDED.p75,
			sample_size = EXCLUDED.sample_size`

	for _, e := range entries {
		if _, err := pool.Exec(ctx, upsert,
			string(e.AreaType), string(e.Context), e.Pillar, e.Metric,
			e.Expected, e.P25, e.P75, e.SampleSize,
		); err != nil {
			return 0, eris.Wrapf(err, "expectation: postgres insert %s/%s/%s", e.AreaType, e.Pillar, e.Metric)
		}
	}
	return len(entries), nil
}
