package postgres

import (
	"context"
	"database/sql"
	"time"

	"marketlens/internal/domain/macro"
	"marketlens/internal/metrics"
	"marketlens/pkg/clock"
	"marketlens/pkg/errors"
)

// Compile-time check
var _ macro.Provider = (*MacroRegimeRepository)(nil)

// MacroRegimeRepository stores macro snapshots and serves the latest one
type MacroRegimeRepository struct {
	db     DBTX
	maxAge time.Duration
	clock  clock.Clock
}

// NewMacroRegimeRepository creates a new macro regime repository.
// Snapshots older than maxAge are ignored; zero accepts any age.
func NewMacroRegimeRepository(db DBTX, maxAge time.Duration, clk clock.Clock) *MacroRegimeRepository {
	if clk == nil {
		clk = clock.System{}
	}
	return &MacroRegimeRepository{db: db, maxAge: maxAge, clock: clk}
}

// Current implements macro.Provider. No usable snapshot returns (nil, nil).
func (r *MacroRegimeRepository) Current(ctx context.Context) (*macro.Regime, error) {
	var regime macro.Regime

	query := `
		SELECT phase, cycle_stage, fed_policy, dollar_regime, liquidity, confidence, as_of
		FROM macro_regimes
		ORDER BY as_of DESC
		LIMIT 1`

	start := time.Now()
	err := r.db.GetContext(ctx, &regime, query)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("postgres", "current_macro_regime", time.Since(start), nil)
		return nil, nil
	}
	metrics.RecordDBQuery("postgres", "current_macro_regime", time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(err, "get current macro regime")
	}

	if r.maxAge > 0 && r.clock.Now().Sub(regime.AsOf) > r.maxAge {
		return nil, nil
	}
	if err := validateRegime(&regime); err != nil {
		return nil, err
	}

	return &regime, nil
}

// Insert stores a new snapshot
func (r *MacroRegimeRepository) Insert(ctx context.Context, regime *macro.Regime) error {
	if err := validateRegime(regime); err != nil {
		return err
	}

	query := `
		INSERT INTO macro_regimes (phase, cycle_stage, fed_policy, dollar_regime, liquidity, confidence, as_of)
		VALUES (:phase, :cycle_stage, :fed_policy, :dollar_regime, :liquidity, :confidence, :as_of)`

	start := time.Now()
	_, err := r.db.NamedExecContext(ctx, query, regime)
	metrics.RecordDBQuery("postgres", "insert_macro_regime", time.Since(start), err)

	return errors.Wrap(err, "insert macro regime")
}

func validateRegime(r *macro.Regime) error {
	switch {
	case !r.Phase.Valid():
		return errors.Wrapf(errors.ErrInvalidInput, "macro phase %q", r.Phase)
	case !r.CycleStage.Valid():
		return errors.Wrapf(errors.ErrInvalidInput, "macro cycle stage %q", r.CycleStage)
	case !r.FedPolicy.Valid():
		return errors.Wrapf(errors.ErrInvalidInput, "fed policy %q", r.FedPolicy)
	case !r.DollarRegime.Valid():
		return errors.Wrapf(errors.ErrInvalidInput, "dollar regime %q", r.DollarRegime)
	case !r.Liquidity.Valid():
		return errors.Wrapf(errors.ErrInvalidInput, "liquidity %q", r.Liquidity)
	case r.Confidence < 0 || r.Confidence > 1:
		return errors.Wrapf(errors.ErrInvalidInput, "macro confidence %.2f outside [0, 1]", r.Confidence)
	}
	return nil
}
