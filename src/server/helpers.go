package server

import (
	"strings"
	"time"

	"index-dashboard/src/helpers"
	"index-dashboard/src/models"
	"index-dashboard/src/utils"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Wire form of a selection
// -----------------------------------------------------------------------------

// selectionRequest is what the page, the JSON API and websocket clients send.
// Dates are YYYY-MM-DD; empty values take the shell defaults.
type selectionRequest struct {
	Sectors []string                `json:"sectors"`
	Symbols []string                `json:"symbols"`
	Charts  map[string]chartRequest `json:"charts"`
}

type chartRequest struct {
	Field string `json:"field"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// -----------------------------------------------------------------------------

func (r selectionRequest) toSelection() (models.MSelection, error) {
	sel := models.MSelection{
		Sectors: compact(r.Sectors),
		Symbols: compact(r.Symbols),
		Charts:  make(map[string]models.MChartParams, len(r.Charts)),
	}
	for sym, cr := range r.Charts {
		params, err := chartParamsFromQuery(cr.Field, cr.Start, cr.End)
		if err != nil {
			return models.MSelection{}, err
		}
		sel.Charts[sym] = params
	}
	return sel, nil
}

// -----------------------------------------------------------------------------

// selectionFromQuery reads the page form: repeated sector and symbol values,
// plus field.SYM, start.SYM and end.SYM for each selected symbol.
func selectionFromQuery(c *gin.Context) (models.MSelection, error) {
	req := selectionRequest{
		Sectors: c.QueryArray("sector"),
		Symbols: c.QueryArray("symbol"),
		Charts:  make(map[string]chartRequest),
	}
	for _, sym := range compact(req.Symbols) {
		req.Charts[sym] = chartRequest{
			Field: c.Query("field." + sym),
			Start: c.Query("start." + sym),
			End:   c.Query("end." + sym),
		}
	}
	return req.toSelection()
}

// -----------------------------------------------------------------------------

func chartParamsFromQuery(field, start, end string) (models.MChartParams, error) {
	var p models.MChartParams
	var err error

	if field != "" {
		if p.Field, err = models.ParsePriceField(field); err != nil {
			return p, helpers.NewValidationError("%v", err)
		}
	}
	if p.Start, err = parseDate(start); err != nil {
		return p, err
	}
	if p.End, err = parseDate(end); err != nil {
		return p, err
	}
	return p, nil
}

// -----------------------------------------------------------------------------

// parseDate accepts YYYY-MM-DD or RFC 3339. Empty means unset.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(utils.DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return utils.TruncateToDate(t), nil
	}
	return time.Time{}, helpers.NewValidationError("invalid date %q, want YYYY-MM-DD", s)
}

// -----------------------------------------------------------------------------

func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
