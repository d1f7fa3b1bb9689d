package postgres

import (
	"context"
	"database/sql"
	"time"

	"marketlens/internal/domain/asset"
	"marketlens/internal/metrics"
	"marketlens/pkg/errors"
)

// Compile-time check
var _ asset.MetadataRepository = (*SymbolMetadataRepository)(nil)

// SymbolMetadataRepository implements asset.MetadataRepository using sqlx
type SymbolMetadataRepository struct {
	db DBTX
}

// NewSymbolMetadataRepository creates a new symbol metadata repository
func NewSymbolMetadataRepository(db DBTX) *SymbolMetadataRepository {
	return &SymbolMetadataRepository{db: db}
}

// Get returns metadata for symbol, or nil when the symbol is unknown
func (r *SymbolMetadataRepository) Get(ctx context.Context, symbol string) (*asset.SymbolMetadata, error) {
	var meta asset.SymbolMetadata

	query := `SELECT symbol, type, sector, industry FROM symbol_metadata WHERE symbol = $1`

	start := time.Now()
	err := r.db.GetContext(ctx, &meta, query, symbol)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("postgres", "get_symbol_metadata", time.Since(start), nil)
		return nil, nil
	}
	metrics.RecordDBQuery("postgres", "get_symbol_metadata", time.Since(start), err)
	if err != nil {
		return nil, errors.Wrapf(err, "get metadata for %s", symbol)
	}

	return &meta, nil
}

// Upsert inserts or replaces the metadata of a symbol
func (r *SymbolMetadataRepository) Upsert(ctx context.Context, meta *asset.SymbolMetadata) error {
	query := `
		INSERT INTO symbol_metadata (symbol, type, sector, industry, updated_at)
		VALUES (:symbol, :type, :sector, :industry, NOW())
		ON CONFLICT (symbol) DO UPDATE SET
			type = EXCLUDED.type,
			sector = EXCLUDED.sector,
			industry = EXCLUDED.industry,
			updated_at = NOW()`

	start := time.Now()
	_, err := r.db.NamedExecContext(ctx, query, meta)
	metrics.RecordDBQuery("postgres", "upsert_symbol_metadata", time.Since(start), err)

	return errors.Wrapf(err, "upsert metadata for %s", meta.Symbol)
}
