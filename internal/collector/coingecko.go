package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public CoinGecko v3 API.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoFetcher implements Fetcher using the CoinGecko REST API.
type CoinGeckoFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewCoinGeckoFetcher creates a new fetcher with optional proxy support.
func NewCoinGeckoFetcher(baseURL, apiKey, proxyURL string) *CoinGeckoFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &CoinGeckoFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

// FetchMarkets requests the top coins by market cap with a 7-day sparkline.
func (f *CoinGeckoFetcher) FetchMarkets(ctx context.Context, q MarketQuery) ([]RawCoin, error) {
	params := url.Values{}
	params.Set("vs_currency", q.Currency)
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(q.PerPage))
	params.Set("page", "1")
	params.Set("sparkline", "true")
	params.Set("price_change_percentage", "24h")

	var coins []RawCoin
	if err := f.getJSON(ctx, f.BaseURL+"/coins/markets?"+params.Encode(), &coins); err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}
	return coins, nil
}

// FetchGlobal requests the whole-market aggregates.
func (f *CoinGeckoFetcher) FetchGlobal(ctx context.Context) (RawGlobal, error) {
	var doc RawGlobal
	if err := f.getJSON(ctx, f.BaseURL+"/global", &doc); err != nil {
		return nil, fmt.Errorf("fetch global: %w", err)
	}
	return doc, nil
}

func (f *CoinGeckoFetcher) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if f.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return networkErr("%v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkErr("read body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return networkErr("status %d, body: %s", resp.StatusCode, truncate(body, 256))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return malformedErr("decode: %v", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
