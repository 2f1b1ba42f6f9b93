package shell

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"index-dashboard/src/chart"
	"index-dashboard/src/helpers"
	"index-dashboard/src/logger"
	"index-dashboard/src/models"
	"index-dashboard/src/reference"
	"index-dashboard/src/reference/reftest"
	"index-dashboard/src/session"
	"index-dashboard/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logger.Logger {
	l := logger.NewLogger(nil, "test")
	l.SetOutput(io.Discard)
	return l
}

// pageSource serves the 500-row test page.
type pageSource struct {
	err error
}

func (p *pageSource) Load(ctx context.Context) (*models.MReferenceTable, error) {
	if p.err != nil {
		return nil, p.err
	}
	l := reference.NewLoader(models.MReferenceConfig{
		URL:            "http://reference.test/list",
		SymbolColumn:   "Symbol",
		SecurityColumn: "Security",
		SectorColumn:   "GICS Sector",
	}, nil, quietLogger())
	return l.Parse([]byte(reftest.Page(500)))
}

// seriesStub returns a fixed daily series for every symbol not in missing
// and records each call.
type seriesStub struct {
	mu      sync.Mutex
	calls   [][]string
	missing map[string]bool
	err     error
}

func (s *seriesStub) Name() string { return "stub" }

func (s *seriesStub) FetchSeries(ctx context.Context, symbols []string) (map[string]models.MSeries, error) {
	s.mu.Lock()
	s.calls = append(s.calls, append([]string(nil), symbols...))
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	out := make(map[string]models.MSeries)
	for _, sym := range symbols {
		if s.missing[sym] {
			continue
		}
		var recs []models.MPriceRecord
		for i := 0; i < 60; i++ {
			d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
			v := float64(10 + i)
			recs = append(recs, models.MPriceRecord{Date: d, Open: v, High: v + 1, Low: v - 1, Close: v + 0.5, Volume: 100 * v})
		}
		out[sym] = models.MSeries{Symbol: sym, Records: recs}
	}
	return out, nil
}

func newTestShell(ref *pageSource, src *seriesStub) *Shell {
	log := quietLogger()
	sess := session.NewSession(ref, log)
	sh := NewShell(sess, src, chart.NewRenderer(models.MChartConfig{Width: 480, Height: 200}),
		utils.GetCalendar(utils.DefaultMIC), time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), log)
	sh.Now = func() time.Time { return time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC) }
	return sh
}

const infoTech = "Information Technology"

// -----------------------------------------------------------------------------

func TestRender_NoSectors(t *testing.T) {
	src := &seriesStub{}
	sh := newTestShell(&pageSource{}, src)

	out, err := sh.Render(context.Background(), models.MSelection{})
	require.NoError(t, err)

	assert.Equal(t, PromptNoSectors, out.Prompt)
	assert.Nil(t, out.Table)
	assert.Empty(t, out.Charts)
	assert.Len(t, out.SectorOptions, 11)
	assert.Empty(t, src.calls)
	assert.Equal(t, Title, out.Title)
}

func TestRender_UnknownSectorMatchesNothing(t *testing.T) {
	src := &seriesStub{}
	sh := newTestShell(&pageSource{}, src)

	out, err := sh.Render(context.Background(), models.MSelection{Sectors: []string{"Crypto"}})
	require.NoError(t, err)

	require.NotNil(t, out.Table)
	assert.Empty(t, out.Table.Rows)
	assert.Equal(t, "Table dimension: 0x5", out.TableDimension)
	assert.Empty(t, out.SymbolOptions)
	assert.Equal(t, PromptNoSymbols, out.Prompt)
	assert.Empty(t, src.calls)
}

func TestRender_SectorWithoutSymbols(t *testing.T) {
	src := &seriesStub{}
	sh := newTestShell(&pageSource{}, src)

	out, err := sh.Render(context.Background(), models.MSelection{Sectors: []string{infoTech}})
	require.NoError(t, err)

	require.NotNil(t, out.Table)
	assert.Len(t, out.Table.Rows, 45)
	for _, row := range out.Table.Rows {
		assert.Equal(t, infoTech, row.Sector)
	}
	assert.Equal(t, "Table dimension: 45x5", out.TableDimension)
	assert.Len(t, out.SymbolOptions, 45)
	assert.Equal(t, PromptNoSymbols, out.Prompt)
	assert.Empty(t, out.Charts)
	assert.Empty(t, src.calls, "no price fetch without symbols")
}

func TestRender_OnePointChart(t *testing.T) {
	src := &seriesStub{}
	sh := newTestShell(&pageSource{}, src)
	sym := reftest.Symbol(7)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	out, err := sh.Render(context.Background(), models.MSelection{
		Sectors: []string{infoTech},
		Symbols: []string{sym},
		Charts:  map[string]models.MChartParams{sym: {Field: models.FieldHigh, Start: day, End: day}},
	})
	require.NoError(t, err)

	require.Len(t, out.Charts, 1)
	view := out.Charts[0]
	assert.Equal(t, "High stock price for "+sym, view.Subheader)
	require.Len(t, view.Points, 1)
	assert.Equal(t, day, view.Points[0].Date)
	assert.Equal(t, 11.0, view.Points[0].Value)
	assert.Contains(t, string(view.SVG), "<svg")
	assert.Empty(t, out.Prompt)
	assert.Equal(t, [][]string{{sym}}, src.calls)
}

func TestRender_SymbolMissingFromProvider(t *testing.T) {
	sym := reftest.Symbol(18)
	src := &seriesStub{missing: map[string]bool{sym: true}}
	sh := newTestShell(&pageSource{}, src)

	out, err := sh.Render(context.Background(), models.MSelection{
		Sectors: []string{infoTech},
		Symbols: []string{sym},
	})
	require.NoError(t, err)

	require.Len(t, out.Charts, 1)
	assert.Empty(t, out.Charts[0].Points)
	assert.Contains(t, string(out.Charts[0].SVG), "No data")
}

func TestRender_DefaultsAndClamping(t *testing.T) {
	sh := newTestShell(&pageSource{}, &seriesStub{})
	today := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	p := sh.Params(models.MChartParams{})
	assert.Equal(t, models.FieldOpen, p.Field)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, today, p.End)

	p = sh.Params(models.MChartParams{
		Field: models.FieldVolume,
		Start: time.Date(2001, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, models.FieldVolume, p.Field)
	assert.Equal(t, sh.MinDate, p.Start)
	assert.Equal(t, today, p.End)
}

func TestRender_SymbolsOutsideFilteredTableAreDropped(t *testing.T) {
	src := &seriesStub{}
	sh := newTestShell(&pageSource{}, src)

	out, err := sh.Render(context.Background(), models.MSelection{
		Sectors: []string{infoTech},
		Symbols: []string{reftest.Symbol(0), reftest.Symbol(7), "NOPE"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{reftest.Symbol(7)}, out.SelectedSymbols)
	assert.Equal(t, [][]string{{reftest.Symbol(7)}}, src.calls)
}

func TestRender_ReferenceUnavailable(t *testing.T) {
	sh := newTestShell(&pageSource{err: errors.New("dial tcp: refused")}, &seriesStub{})

	out, err := sh.Render(context.Background(), models.MSelection{Sectors: []string{infoTech}})
	assert.Error(t, err)
	assert.Nil(t, out)
}

func TestRender_FetchError(t *testing.T) {
	sh := newTestShell(&pageSource{}, &seriesStub{err: context.Canceled})

	_, err := sh.Render(context.Background(), models.MSelection{
		Sectors: []string{infoTech},
		Symbols: []string{reftest.Symbol(7)},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRender_TableReusedAcrossPasses(t *testing.T) {
	sh := newTestShell(&pageSource{}, &seriesStub{})

	first, err := sh.Render(context.Background(), models.MSelection{Sectors: []string{"Energy"}})
	require.NoError(t, err)
	second, err := sh.Render(context.Background(), models.MSelection{Sectors: []string{"Utilities"}})
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, first.SectorOptions, second.SectorOptions)
}

func TestChart_PNG(t *testing.T) {
	sh := newTestShell(&pageSource{}, &seriesStub{})

	out, err := sh.Chart(context.Background(), reftest.Symbol(3), models.MChartParams{Field: models.FieldClose}, chart.FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, chart.FormatPNG, out.Format)
	assert.NotEmpty(t, out.Image)
	// 2024-01-01 .. 2024-02-29 fall inside the default year-to-date window
	assert.Len(t, out.Points, 60)
}

func TestChart_UnknownSymbol(t *testing.T) {
	src := &seriesStub{}
	sh := newTestShell(&pageSource{}, src)

	_, err := sh.Chart(context.Background(), "NOPE", models.MChartParams{}, chart.FormatPNG)
	assert.ErrorIs(t, err, helpers.ErrUnknownSymbol)
	assert.Empty(t, src.calls)
}

func TestSectors(t *testing.T) {
	sh := newTestShell(&pageSource{}, &seriesStub{})

	sectors, err := sh.Sectors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, reftest.Sectors, sectors)
}
