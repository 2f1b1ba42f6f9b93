package models

import "time"

// -----------------------------------------------------------------------------
// Selection state sent by the client on every interaction
// -----------------------------------------------------------------------------

// MChartParams holds the controls of one symbol's chart.
type MChartParams struct {
	Field MPriceField `json:"field"`
	Start time.Time   `json:"start"`
	End   time.Time   `json:"end"`
}

// MSelection is the complete widget state of the dashboard.
type MSelection struct {
	Sectors []string                `json:"sectors"`
	Symbols []string                `json:"symbols"`
	Charts  map[string]MChartParams `json:"charts"` // keyed by symbol
}
