package reference

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"index-dashboard/src/helpers"
	"index-dashboard/src/interfaces"
	"index-dashboard/src/logger"
	"index-dashboard/src/models"
)

// Loader downloads the reference page and turns its first table into
// reference rows. It does not cache; see session.Session.
type Loader struct {
	Config  models.MReferenceConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewLoader(cfg models.MReferenceConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *Loader {
	return &Loader{
		Config:  cfg,
		Network: netMgr,
		Logger:  log,
	}
}

// -----------------------------------------------------------------------------

// Load performs one fetch of the configured URL. There is no retry and no
// fallback source.
func (l *Loader) Load(ctx context.Context) (*models.MReferenceTable, error) {
	body, err := l.Network.Get(ctx, l.Config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", helpers.ErrSourceUnavailable, err)
	}

	table, err := l.Parse(body)
	if err != nil {
		return nil, err
	}

	rows, cols := table.Dimensions()
	l.Logger.Info("Loaded reference table from %s: %dx%d", l.Config.URL, rows, cols)
	return table, nil
}

// -----------------------------------------------------------------------------

// Parse builds the reference table from an HTML document.
func (l *Loader) Parse(body []byte) (*models.MReferenceTable, error) {
	raw, err := ParseFirstTable(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	symbolIdx, err := raw.ColumnIndex(l.Config.SymbolColumn)
	if err != nil {
		return nil, err
	}
	sectorIdx, err := raw.ColumnIndex(l.Config.SectorColumn)
	if err != nil {
		return nil, err
	}
	// Display name is optional
	securityIdx, _ := raw.ColumnIndex(l.Config.SecurityColumn)

	table := &models.MReferenceTable{
		Columns:   raw.Header,
		SourceURL: l.Config.URL,
		LoadedAt:  time.Now().UTC(),
	}

	seen := make(map[string]struct{}, len(raw.Rows))
	for _, cells := range raw.Rows {
		symbol := cells[symbolIdx]
		if symbol == "" {
			continue
		}
		if _, dup := seen[symbol]; dup {
			l.Logger.Warning("Duplicate symbol %s in reference table, keeping first row", symbol)
			continue
		}
		seen[symbol] = struct{}{}

		row := models.MReferenceRow{
			Symbol: symbol,
			Sector: cells[sectorIdx],
			Cells:  make(map[string]string, len(raw.Header)),
		}
		if securityIdx >= 0 {
			row.Security = cells[securityIdx]
		}
		for i, h := range raw.Header {
			row.Cells[h] = cells[i]
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: first table has no constituents", helpers.ErrNoTable)
	}
	return table, nil
}
