package shell

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"index-dashboard/src/chart"
	"index-dashboard/src/helpers"
	"index-dashboard/src/interfaces"
	"index-dashboard/src/logger"
	"index-dashboard/src/models"
	"index-dashboard/src/reference"
	"index-dashboard/src/session"
	"index-dashboard/src/utils"
)

const (
	Title = "S&P 500 Stock Price App"

	PromptNoSectors = "No sectors have been selected. Use the side bar on the left side to select sectors."
	PromptNoSymbols = "Generate customized stock prices for companies by selecting symbols in the sidebar on the left. The prices are in (year-to-date) format."
)

// -----------------------------------------------------------------------------
// Shell
// -----------------------------------------------------------------------------

// Shell turns the complete widget state into the complete page state. Every
// interaction calls Render again from the top; only the reference table is
// carried between calls, through the session.
type Shell struct {
	Session  *session.Session
	Source   interfaces.ISeriesSource
	Renderer *chart.Renderer
	Calendar *utils.TradingCalendar
	MinDate  time.Time
	Logger   *logger.Logger

	// Now is the clock; tests pin it.
	Now func() time.Time
}

// -----------------------------------------------------------------------------

func NewShell(
	sess *session.Session,
	source interfaces.ISeriesSource,
	renderer *chart.Renderer,
	cal *utils.TradingCalendar,
	minDate time.Time,
	log *logger.Logger,
) *Shell {
	return &Shell{
		Session:  sess,
		Source:   source,
		Renderer: renderer,
		Calendar: cal,
		MinDate:  utils.TruncateToDate(minDate),
		Logger:   log,
		Now:      time.Now,
	}
}

// -----------------------------------------------------------------------------

// Render runs one pass: load (or reuse) the reference table, filter by the
// selected sectors, and if symbols are selected fetch their series and draw
// one chart each. A reference load failure fails the whole pass.
func (s *Shell) Render(ctx context.Context, sel models.MSelection) (*models.MRenderOutput, error) {
	now := s.Now()
	today := s.Today()

	table, err := s.Session.Table(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reference table: %w", err)
	}

	out := &models.MRenderOutput{
		Title:         Title,
		SessionID:     s.Session.ID(),
		Market:        utils.MarketStatus(s.Calendar, now),
		SectorOptions: reference.SectorOptions(table),
		DateBounds:    models.MDateBounds{Min: s.MinDate, Max: today},
		RenderedAt:    now.UTC(),
	}

	// Gate A: only an empty selection stops here; unknown sectors match no rows
	if len(sel.Sectors) == 0 {
		out.Prompt = PromptNoSectors
		return out, nil
	}
	out.SelectedSectors = reference.Restrict(sel.Sectors, out.SectorOptions)

	filtered := reference.FilterBySectors(table, sel.Sectors)
	rows, cols := filtered.Dimensions()
	out.Table = filtered
	out.TableDimension = fmt.Sprintf("Table dimension: %dx%d", rows, cols)
	out.SymbolOptions = reference.SymbolOptions(filtered)

	// Gate B
	out.SelectedSymbols = reference.Restrict(sel.Symbols, out.SymbolOptions)
	if len(out.SelectedSymbols) == 0 {
		out.Prompt = PromptNoSymbols
		return out, nil
	}

	series, err := s.Source.FetchSeries(ctx, out.SelectedSymbols)
	if err != nil {
		return nil, fmt.Errorf("fetch series: %w", err)
	}

	for _, sym := range out.SelectedSymbols {
		params := s.Params(sel.Charts[sym])
		data, ok := series[sym]
		if !ok {
			s.Logger.Debug("No series for %s, drawing empty chart", sym)
			data = models.MSeries{Symbol: sym}
		}

		rendered, err := s.Renderer.Render(data, params, chart.FormatSVG)
		if err != nil {
			s.Logger.Warning("Chart for %s: %v", sym, err)
		}

		out.Charts = append(out.Charts, models.MChartView{
			Symbol:    sym,
			Subheader: fmt.Sprintf("%s stock price for %s", params.Field, sym),
			Params:    params,
			Points:    rendered.Points,
			SVG:       template.HTML(rendered.Image),
			Slice:     rendered.Slice,
		})
	}

	return out, nil
}

// -----------------------------------------------------------------------------

// Today is the current calendar day at the exchange.
func (s *Shell) Today() time.Time {
	now := s.Now()
	if s.Calendar != nil && s.Calendar.Timezone != nil {
		now = now.In(s.Calendar.Timezone)
	}
	return utils.TruncateToDate(now)
}

// Params fills the defaults of one chart's controls: Open from the start of
// the year to today. Dates are clamped to [MinDate, today].
func (s *Shell) Params(p models.MChartParams) models.MChartParams {
	today := s.Today()

	if p.Field == "" {
		p.Field = models.FieldOpen
	}
	if p.Start.IsZero() {
		p.Start = utils.YearStart(today)
	}
	if p.End.IsZero() {
		p.End = today
	}
	p.Start = utils.ClampDate(p.Start, s.MinDate, today)
	p.End = utils.ClampDate(p.End, s.MinDate, today)
	return p
}

// -----------------------------------------------------------------------------

// Sectors lists the sector options of the reference table.
func (s *Shell) Sectors(ctx context.Context) ([]string, error) {
	table, err := s.Session.Table(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reference table: %w", err)
	}
	return reference.SectorOptions(table), nil
}

// -----------------------------------------------------------------------------

// Chart draws a single constituent outside of a page pass, for the image
// endpoint. Params get the same defaults and clamping as in Render.
func (s *Shell) Chart(ctx context.Context, symbol string, p models.MChartParams, format chart.Format) (chart.Rendered, error) {
	table, err := s.Session.Table(ctx)
	if err != nil {
		return chart.Rendered{}, fmt.Errorf("load reference table: %w", err)
	}
	if len(reference.Restrict([]string{symbol}, reference.SymbolOptions(table))) == 0 {
		return chart.Rendered{}, fmt.Errorf("%w: %s", helpers.ErrUnknownSymbol, symbol)
	}

	series, err := s.Source.FetchSeries(ctx, []string{symbol})
	if err != nil {
		return chart.Rendered{}, fmt.Errorf("fetch series: %w", err)
	}
	data, ok := series[symbol]
	if !ok {
		data = models.MSeries{Symbol: symbol}
	}

	rendered, err := s.Renderer.Render(data, s.Params(p), format)
	if err != nil {
		s.Logger.Warning("Chart for %s: %v", symbol, err)
	}
	return rendered, nil
}
