package models

import (
	"html/template"
	"time"
)

// -----------------------------------------------------------------------------
// Render output of one full pass of the dashboard
// -----------------------------------------------------------------------------

type MRenderOutput struct {
	Title           string           `json:"title"`
	SessionID       string           `json:"session_id"`
	Market          MMarketStatus    `json:"market"`
	SectorOptions   []string         `json:"sector_options"`
	SelectedSectors []string         `json:"selected_sectors"`
	Table           *MReferenceTable `json:"table,omitempty"`
	TableDimension  string           `json:"table_dimension,omitempty"`
	SymbolOptions   []string         `json:"symbol_options,omitempty"`
	SelectedSymbols []string         `json:"selected_symbols,omitempty"`
	Prompt          string           `json:"prompt,omitempty"`
	Charts          []MChartView     `json:"charts,omitempty"`
	DateBounds      MDateBounds      `json:"date_bounds"`
	RenderedAt      time.Time        `json:"rendered_at"`
}

// MChartView is one symbol's controls and its rendered chart.
type MChartView struct {
	Symbol    string         `json:"symbol"`
	Subheader string         `json:"subheader"`
	Params    MChartParams   `json:"params"`
	Points    []MChartPoint  `json:"points"`
	SVG       template.HTML  `json:"svg"`
	Slice     []MPriceRecord `json:"-"`
}

// MChartPoint is one plotted (date, value) pair.
type MChartPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// MDateBounds limits the date pickers.
type MDateBounds struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// MMarketStatus is the exchange status banner.
type MMarketStatus struct {
	Exchange       string    `json:"exchange"`
	Open           bool      `json:"open"`
	LastTradingDay time.Time `json:"last_trading_day"`
}

// -----------------------------------------------------------------------------
// WebSocket envelope
// -----------------------------------------------------------------------------

type MWsMessage struct {
	Type      string         `json:"type"` // "RENDER", "ERROR" or "SESSION_RESET"
	Output    *MRenderOutput `json:"output,omitempty"`
	Error     string         `json:"error,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Timestamp int64          `json:"timestamp"`
}
