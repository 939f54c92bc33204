package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/placepulse/livability/internal/config"
	"github.com/placepulse/livability/internal/engine"
	"github.com/placepulse/livability/internal/expectation"
	"github.com/placepulse/livability/internal/fallback"
	"github.com/placepulse/livability/internal/model"
)

// buildEngine assembles the scoring engine from configuration: expectation
// table (embedded defaults layered with the configured source), fallback
// floors, calibration pairs, and the baseline allocation.
func buildEngine(ctx context.Context, cfg *config.Config) (*engine.Engine, error) {
	entries, err := expectation.Defaults()
	if err != nil {
		return nil, eris.Wrap(err, "load embedded expectations")
	}

	extra, err := loadExpectations(ctx, cfg.Expectations)
	if err != nil {
		return nil, err
	}
	// Later duplicates win, so configured rows override the defaults.
	entries = append(entries, extra...)

	provider := expectation.NewStatic(entries)

	var opts []engine.Option
	if len(cfg.Engine.FallbackFloors) > 0 {
		floors := make(map[model.AreaType]float64, len(cfg.Engine.FallbackFloors))
		for area, f := range cfg.Engine.FallbackFloors {
			at, err := model.ParseAreaType(area)
			if err != nil {
				return nil, eris.Wrap(err, "config fallback floors")
			}
			floors[at] = f
		}
		opts = append(opts, engine.WithFallbackPolicy(fallback.New(floors)))
	}
	if len(cfg.Engine.Calibration) > 0 {
		cals := make(map[string]engine.Calibration, len(cfg.Engine.Calibration))
		for pillar, pair := range cfg.Engine.Calibration {
			cals[pillar] = engine.Calibration{A: pair.A, B: pair.B}
		}
		opts = append(opts, engine.WithCalibrations(cals))
	}
	if len(cfg.Engine.DefaultAllocation) > 0 {
		opts = append(opts, engine.WithDefaultAllocation(model.PriorityAllocation(cfg.Engine.DefaultAllocation)))
	}

	zap.L().Info("engine ready",
		zap.Int("expectation_rows", len(entries)),
		zap.String("expectations_driver", cfg.Expectations.Driver),
	)
	return engine.New(provider, opts...), nil
}

func loadExpectations(ctx context.Context, cfg config.ExpectationsConfig) ([]expectation.Entry, error) {
	switch cfg.Driver {
	case "embedded", "":
		return nil, nil
	case "yaml":
		entries, err := expectation.LoadYAMLFile(cfg.Path)
		return entries, eris.Wrap(err, "load yaml expectations")
	case "sqlite":
		db, err := expectation.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		defer db.Close() //nolint:errcheck
		return expectation.LoadSQLite(ctx, db)
	case "postgres":
		pool, err := expectation.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		return expectation.LoadPostgres(ctx, pool)
	default:
		return nil, eris.Errorf("unknown expectations driver %q", cfg.Driver)
	}
}
