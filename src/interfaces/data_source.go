package interfaces

import (
	"context"

	"index-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// ISeriesSource fetches daily price history from an external provider.
// -----------------------------------------------------------------------------

type ISeriesSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchSeries retrieves the configured window for every symbol.
	// Symbols without data are absent from the result; the call only fails
	// when the request itself cannot be made.
	FetchSeries(ctx context.Context, symbols []string) (map[string]models.MSeries, error)
}

// -----------------------------------------------------------------------------
// IReferenceSource provides the index constituents table.
// -----------------------------------------------------------------------------

type IReferenceSource interface {

	// Load returns the reference table, fetching it if needed.
	Load(ctx context.Context) (*models.MReferenceTable, error)
}
