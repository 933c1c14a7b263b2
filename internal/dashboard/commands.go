package dashboard

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"CoinPulse/internal/notifier"
	"CoinPulse/internal/screener"
)

// topCount is how many coins /top and /find list.
const topCount = 10

// refreshTimeout bounds how long /refresh waits for the feeds.
const refreshTimeout = 20 * time.Second

const helpText = `Available commands:
• /portfolio
• /watchlist
• /top [market_cap|price|change]
• /find &lt;term&gt;
• /watch &lt;coin id&gt;
• /refresh
• /status`

// HandleCommand processes a chat command and returns a reply.
func (d *Dashboard) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Telegram appends @botname to commands in group chats.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]

	switch name {
	case "/portfolio":
		return notifier.FormatPortfolio(d.PortfolioSummary(), d.currency)
	case "/watchlist":
		return notifier.FormatWatchlist(d.WatchlistedCoins(), d.Watchlist(), d.currency)
	case "/top":
		key := string(screener.SortMarketCap)
		if len(args) > 0 {
			key = args[0]
		}
		return notifier.FormatCoins("Top by "+html.EscapeString(key), limit(d.FilteredSortedCoins("", key)), d.currency)
	case "/find":
		if len(args) == 0 {
			return "usage: /find &lt;term&gt;"
		}
		term := strings.Join(args, " ")
		return notifier.FormatCoins("Results for "+html.EscapeString(term), limit(d.FilteredSortedCoins(term, "")), d.currency)
	case "/watch":
		if len(args) != 1 {
			return "usage: /watch &lt;coin id&gt;"
		}
		id := strings.ToLower(args[0])
		if d.ToggleWatchlist(id) {
			return fmt.Sprintf("⭐ %s added to watchlist", html.EscapeString(id))
		}
		return fmt.Sprintf("%s removed from watchlist", html.EscapeString(id))
	case "/refresh":
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := d.RefreshNow(ctx); err != nil {
			return fmt.Sprintf("refresh still running: %v", err)
		}
		return notifier.FormatStatus(d.Snapshot(), d.Health(), d.currency)
	case "/status":
		return notifier.FormatStatus(d.Snapshot(), d.Health(), d.currency)
	default:
		return helpText
	}
}

func limit[T any](s []T) []T {
	if len(s) > topCount {
		return s[:topCount]
	}
	return s
}
