package collector

import (
	"fmt"
	"log"
	"math"
	"strings"
	"unicode/utf8"

	"CoinPulse/internal/model"

	"github.com/PaesslerAG/jsonpath"
)

// NormalizeCoin converts one provider record into a Coin.
func NormalizeCoin(raw RawCoin) (model.Coin, error) {
	if raw.ID == "" {
		return model.Coin{}, malformedErr("coin record without id")
	}
	if raw.Symbol == "" {
		return model.Coin{}, malformedErr("coin %q without symbol", raw.ID)
	}
	if raw.CurrentPrice == nil {
		return model.Coin{}, malformedErr("coin %q without current_price", raw.ID)
	}
	price := *raw.CurrentPrice
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return model.Coin{}, malformedErr("coin %q has invalid price %v", raw.ID, price)
	}

	symbol := strings.ToUpper(raw.Symbol)
	first, _ := utf8.DecodeRuneInString(symbol)

	c := model.Coin{
		ID:        raw.ID,
		Name:      raw.Name,
		Symbol:    symbol,
		Price:     price,
		Change24h: deref(raw.PriceChangePercentage24h),
		MarketCap: deref(raw.MarketCap),
		Volume:    deref(raw.TotalVolume),
		Sparkline: []float64{},
		Image:     raw.Image,
		Logo:      strings.ToUpper(string(first)),
	}
	if c.Name == "" {
		c.Name = c.ID
	}
	if raw.SparklineIn7d != nil {
		c.Sparkline = lastSamples(raw.SparklineIn7d.Price, model.MaxSparklinePoints)
	}
	return c, nil
}

// NormalizeMarkets converts a whole market page. Bad records and repeated
// ids are logged and skipped; the page is malformed only when no record
// survives.
func NormalizeMarkets(raws []RawCoin) ([]model.Coin, error) {
	coins := make([]model.Coin, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	var firstErr error
	for i, raw := range raws {
		c, err := NormalizeCoin(raw)
		if err != nil {
			log.Printf("[WARN] skip market record %d: %v", i, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("record %d: %w", i, err)
			}
			continue
		}
		if _, dup := seen[c.ID]; dup {
			log.Printf("[WARN] skip market record %d: duplicate coin id %q", i, c.ID)
			continue
		}
		seen[c.ID] = struct{}{}
		coins = append(coins, c)
	}
	if len(raws) > 0 && len(coins) == 0 {
		return nil, fmt.Errorf("no usable market records: %w", firstErr)
	}
	return coins, nil
}

// NormalizeGlobal extracts aggregates denominated in currency. Dominance
// entries may be missing and default to 0.
func NormalizeGlobal(raw RawGlobal, currency string) (*model.GlobalStats, error) {
	doc := map[string]any(raw)
	if _, ok := doc["data"].(map[string]any); !ok {
		return nil, malformedErr("global payload without data object")
	}
	cur := strings.ToLower(currency)

	mcap, err := jsonFloat(doc, "$.data.total_market_cap."+cur)
	if err != nil {
		return nil, err
	}
	vol, err := jsonFloat(doc, "$.data.total_volume."+cur)
	if err != nil {
		return nil, err
	}
	btc, err := jsonFloat(doc, "$.data.market_cap_percentage.btc")
	if err != nil {
		btc = 0
	}
	eth, err := jsonFloat(doc, "$.data.market_cap_percentage.eth")
	if err != nil {
		eth = 0
	}
	return &model.GlobalStats{
		TotalMarketCap: mcap,
		Volume24h:      vol,
		BTCDominance:   btc,
		ETHDominance:   eth,
	}, nil
}

func jsonFloat(doc map[string]any, path string) (float64, error) {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return 0, malformedErr("%s: %v", path, err)
	}
	// jsonpath may wrap a single match in a list
	if list, ok := v.([]any); ok && len(list) > 0 {
		v = list[0]
	}
	f, ok := v.(float64)
	if !ok {
		return 0, malformedErr("%s: not a number (%v)", path, v)
	}
	return f, nil
}

// lastSamples keeps the trailing n non-null samples in order.
func lastSamples(series []*float64, n int) []float64 {
	out := make([]float64, 0, len(series))
	for _, p := range series {
		if p != nil {
			out = append(out, *p)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
