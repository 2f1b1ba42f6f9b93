package models

import (
	"fmt"
	"time"
)

// MPriceRecord is one daily OHLCV bar. Date is the trading day at UTC midnight.
type MPriceRecord struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// MSeries is the date-ordered history of one symbol.
type MSeries struct {
	Symbol  string         `json:"symbol"`
	Records []MPriceRecord `json:"records"`
}

// -----------------------------------------------------------------------------

// MPriceField names one column of an MPriceRecord.
type MPriceField string

const (
	FieldOpen   MPriceField = "Open"
	FieldClose  MPriceField = "Close"
	FieldHigh   MPriceField = "High"
	FieldLow    MPriceField = "Low"
	FieldVolume MPriceField = "Volume"
)

// PriceFields lists the selectable fields in display order.
var PriceFields = []MPriceField{FieldOpen, FieldClose, FieldHigh, FieldLow, FieldVolume}

// ParsePriceField accepts a field name as shown in the selector.
func ParsePriceField(s string) (MPriceField, error) {
	for _, f := range PriceFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown price field %q", s)
}

// Value extracts the field from a record.
func (f MPriceField) Value(r MPriceRecord) float64 {
	switch f {
	case FieldOpen:
		return r.Open
	case FieldClose:
		return r.Close
	case FieldHigh:
		return r.High
	case FieldLow:
		return r.Low
	case FieldVolume:
		return r.Volume
	}
	return 0
}
