package asset

import (
	"context"
)

// MetadataRepository looks up symbol metadata.
// A missing symbol returns (nil, nil).
type MetadataRepository interface {
	Get(ctx context.Context, symbol string) (*SymbolMetadata, error)
}
