package notifier

import (
	"fmt"
	"math"
	"strings"
	"time"

	"CoinPulse/internal/model"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var magnitudes = []struct {
	limit  float64
	suffix string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
}

// FormatAmount renders a value in the given fiat currency: T/B/M suffixes for
// large values, grouped two-decimal display from 1 upwards and six decimals
// below 1. Zero renders as the currency's zero amount.
func FormatAmount(v float64, currency string) string {
	code := strings.ToUpper(currency)
	cur := money.GetCurrency(code)
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		if cur == nil {
			return "0.00 " + code
		}
		return money.New(0, code).Display()
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	for _, m := range magnitudes {
		if v >= m.limit {
			return sign + withSymbol(cur, code, fmt.Sprintf("%.2f%s", v/m.limit, m.suffix))
		}
	}
	if v >= 1 {
		if cur == nil {
			return sign + withSymbol(cur, code, decimal.NewFromFloat(v).StringFixed(2))
		}
		minor := decimal.NewFromFloat(v).Shift(int32(cur.Fraction)).Round(0).IntPart()
		return sign + money.New(minor, code).Display()
	}
	return sign + withSymbol(cur, code, fmt.Sprintf("%.6f", v))
}

// withSymbol places number into the currency's display template.
func withSymbol(cur *money.Currency, code, number string) string {
	if cur == nil || cur.Template == "" {
		return number + " " + code
	}
	s := strings.Replace(cur.Template, "1", number, 1)
	return strings.Replace(s, "$", cur.Grapheme, 1)
}

// FormatPercent renders a signed percentage with two decimals.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%+.2f%%", p)
}

func coinLine(c model.Coin, currency string) string {
	return fmt.Sprintf("%s <b>%s</b> %s (%s)", c.Logo, c.Symbol, FormatAmount(c.Price, currency), FormatPercent(c.Change24h))
}

// FormatCoins formats a titled list of coins, one per line.
func FormatCoins(title string, coins []model.Coin, currency string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>%s</b>\n\n", title))
	if len(coins) == 0 {
		b.WriteString("no coins")
		return b.String()
	}
	for i, c := range coins {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, coinLine(c, currency)))
	}
	return b.String()
}

// FormatWatchlist formats the watchlisted coins present in the market page.
func FormatWatchlist(coins []model.Coin, ids []string, currency string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⭐ <b>Watchlist</b> (%d)\n\n", len(ids)))
	if len(coins) == 0 {
		b.WriteString("no watched coins in the current market page")
		return b.String()
	}
	for _, c := range coins {
		b.WriteString(coinLine(c, currency))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatPortfolio formats the valued portfolio.
func FormatPortfolio(s model.PortfolioSummary, currency string) string {
	var b strings.Builder
	b.WriteString("💼 <b>Portfolio</b>\n\n")
	for _, p := range s.Positions {
		price := "price unavailable"
		if p.PriceKnown {
			price = "@ " + FormatAmount(p.Price, currency)
		}
		b.WriteString(fmt.Sprintf("%s %g %s\n", p.CoinID, p.Amount, price))
		b.WriteString(fmt.Sprintf("   value %s | P&L %s (%s)\n",
			FormatAmount(p.CurrentValue, currency), FormatAmount(p.PnL, currency), formatPnLPercent(p.PnLPercent)))
	}
	b.WriteString("  ─────────────────\n")
	b.WriteString(fmt.Sprintf("Total value: %s\n", FormatAmount(s.TotalValue, currency)))
	b.WriteString(fmt.Sprintf("Invested: %s\n", FormatAmount(s.TotalInvested, currency)))
	b.WriteString(fmt.Sprintf("Total P&L: %s", FormatAmount(s.TotalPnL, currency)))
	return b.String()
}

func formatPnLPercent(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return FormatPercent(*p)
}

// FormatStatus formats the sync state, global aggregates and feed health.
func FormatStatus(snap model.Snapshot, health []model.FeedStatus, currency string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📡 <b>Status</b>: %s\n", snap.State))
	if snap.LastUpdated.IsZero() {
		b.WriteString("Last update: never\n")
	} else {
		b.WriteString(fmt.Sprintf("Last update: %s\n", snap.LastUpdated.Format("2006-01-02 15:04:05")))
	}
	if g := snap.Global; g != nil {
		b.WriteString(fmt.Sprintf("Market cap: %s | Volume: %s\n",
			FormatAmount(g.TotalMarketCap, currency), FormatAmount(g.Volume24h, currency)))
		b.WriteString(fmt.Sprintf("BTC %.1f%% | ETH %.1f%%\n", g.BTCDominance, g.ETHDominance))
	}
	b.WriteString("\n")
	for _, h := range health {
		b.WriteString(fmt.Sprintf("%s: %s\n", h.Feed, feedLine(h)))
	}
	return b.String()
}

func feedLine(h model.FeedStatus) string {
	if h.ConsecutiveFailures == 0 {
		if h.LastSuccess.IsZero() {
			return "pending"
		}
		return "ok, " + h.LastSuccess.Format(time.TimeOnly)
	}
	return fmt.Sprintf("failing ×%d (%s)", h.ConsecutiveFailures, h.LastErrorKind)
}
