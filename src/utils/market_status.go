package utils

import (
	"strings"
	"time"

	"index-dashboard/src/models"
)

// MarketStatus reports whether the exchange is open at now and its most
// recent trading day, for the dashboard banner.
func MarketStatus(cal *TradingCalendar, now time.Time) models.MMarketStatus {
	return models.MMarketStatus{
		Exchange:       strings.ToUpper(cal.MIC),
		Open:           cal.IsOpenOnMinute(now),
		LastTradingDay: cal.LastTradingDay(now),
	}
}
