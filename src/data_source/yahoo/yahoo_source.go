package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"index-dashboard/src/helpers"
	"index-dashboard/src/interfaces"
	"index-dashboard/src/logger"
	"index-dashboard/src/models"
	"index-dashboard/src/utils"

	"golang.org/x/sync/errgroup"
)

type YahooFinanceSource struct {
	Config  *models.MConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return "yahoo"
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(cfg *models.MConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *YahooFinanceSource {
	return &YahooFinanceSource{
		Config:  cfg,
		Network: netMgr,
		Logger:  log,
	}
}

// -----------------------------------------------------------------------------

// FetchSeries downloads the configured window (year-to-date daily bars by
// default) for every symbol, concurrently. A symbol that fails or has no
// bars is logged and left out of the result.
func (s *YahooFinanceSource) FetchSeries(ctx context.Context, symbols []string) (map[string]models.MSeries, error) {
	results := make(map[string]models.MSeries)
	if len(symbols) == 0 {
		return results, nil
	}

	var mu sync.Mutex
	var g errgroup.Group
	// a zero limit would block every Go call
	limit := s.Config.Network.ConcurrentRequests
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	seen := make(map[string]struct{}, len(symbols))
	for _, symbol := range symbols {
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}

		sym := symbol
		g.Go(func() error {
			series, err := s.fetchSymbolData(ctx, sym)
			if err != nil {
				s.Logger.Warning("No series for %s: %v", sym, err)
				return nil
			}
			mu.Lock()
			results[sym] = series
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.Logger.Info("YahooFinance: Fetched %d/%d symbols successfully", len(results), len(seen))
	return results, nil
}

// -----------------------------------------------------------------------------

// ProviderSymbol maps an index ticker to Yahoo's spelling: US share classes
// use a dash (BRK.B -> BRK-B), exchange suffixes are kept.
func ProviderSymbol(symbol string) string {
	if utils.MICForSymbol(symbol) != utils.DefaultMIC {
		return symbol
	}
	return strings.ReplaceAll(symbol, ".", "-")
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) fetchSymbolData(ctx context.Context, symbol string) (models.MSeries, error) {
	params := map[string]string{
		"range":                s.Config.DataSource.Range,
		"interval":             s.Config.DataSource.Interval,
		"includeAdjustedClose": "true",
		"includePrePost":       "false",
	}

	endpoint := strings.TrimRight(s.Config.DataSource.BaseURL, "/") + "/" + url.PathEscape(ProviderSymbol(symbol))

	respBytes, err := s.Network.Get(ctx, endpoint, params)
	if err != nil {
		return models.MSeries{}, helpers.NewDataSourceError(symbol, err)
	}

	return s.parseChartResponse(symbol, respBytes)
}

// -----------------------------------------------------------------------------

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string `json:"currency"`
				Symbol               string `json:"symbol"`
				ExchangeName         string `json:"exchangeName"`
				Gmtoffset            int    `json:"gmtoffset"`
				Timezone             string `json:"timezone"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				DataGranularity      string `json:"dataGranularity"`
				Range                string `json:"range"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					High   []*float64 `json:"high"` // pointers to handle null
					Low    []*float64 `json:"low"`
					Open   []*float64 `json:"open"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) parseChartResponse(symbol string, data []byte) (models.MSeries, error) {
	var resp YahooChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return models.MSeries{}, fmt.Errorf("json unmarshal failed: %w", err)
	}

	if resp.Chart.Error != nil {
		return models.MSeries{}, fmt.Errorf("yahoo api error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}

	if len(resp.Chart.Result) == 0 {
		return models.MSeries{}, fmt.Errorf("%w: no result in response for %s", helpers.ErrNoData, symbol)
	}

	result := resp.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return models.MSeries{}, fmt.Errorf("%w: empty chart for %s", helpers.ErrNoData, symbol)
	}

	quote := result.Indicators.Quote[0]
	n := len(result.Timestamp)
	if len(quote.Open) != n || len(quote.High) != n || len(quote.Low) != n || len(quote.Close) != n || len(quote.Volume) != n {
		return models.MSeries{}, fmt.Errorf("data alignment error for %s", symbol)
	}

	var adjClose []*float64
	if s.Config.DataSource.Adjusted() && len(result.Indicators.AdjClose) > 0 && len(result.Indicators.AdjClose[0].AdjClose) == n {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}

	loc := exchangeLocation(symbol, result.Meta.ExchangeTimezoneName, result.Meta.Gmtoffset)

	// One record per trading day; a later bar for the same day replaces an
	// earlier one (Yahoo appends the live bar to daily ranges).
	byDate := make(map[time.Time]models.MPriceRecord, n)
	for i, ts := range result.Timestamp {
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			continue
		}

		rec := models.MPriceRecord{
			Date:  utils.TruncateToDate(time.Unix(ts, 0).In(loc)),
			Open:  *quote.Open[i],
			High:  *quote.High[i],
			Low:   *quote.Low[i],
			Close: *quote.Close[i],
		}
		if quote.Volume[i] != nil {
			rec.Volume = *quote.Volume[i]
		}

		if adjClose != nil && adjClose[i] != nil && rec.Close > 0 {
			ratio := *adjClose[i] / rec.Close
			rec.Open *= ratio
			rec.High *= ratio
			rec.Low *= ratio
			rec.Close = *adjClose[i]
		}

		byDate[rec.Date] = rec
	}

	if len(byDate) == 0 {
		return models.MSeries{}, fmt.Errorf("%w: no valid bars for %s", helpers.ErrNoData, symbol)
	}

	records := make([]models.MPriceRecord, 0, len(byDate))
	for _, rec := range byDate {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	s.Logger.Debug("Fetched %s: %d bars [%s -> %s]", symbol, len(records),
		records[0].Date.Format(utils.DateLayout), records[len(records)-1].Date.Format(utils.DateLayout))

	return models.MSeries{Symbol: symbol, Records: records}, nil
}

// -----------------------------------------------------------------------------

// exchangeLocation resolves the zone trading days are counted in: the zone
// Yahoo reports, else its fixed offset, else the exchange calendar's zone.
func exchangeLocation(symbol, tzName string, gmtoffset int) *time.Location {
	if tzName != "" {
		if loc, err := time.LoadLocation(tzName); err == nil {
			return loc
		}
	}
	if gmtoffset != 0 {
		return time.FixedZone("exchange", gmtoffset)
	}
	return utils.GetCalendar(utils.MICForSymbol(symbol)).Timezone
}
