// Package yahoo provides an HTTP client for the Yahoo Finance quoteSummary API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fincompare/fincompare/internal/port/marketdata"
	"github.com/fincompare/fincompare/internal/resilience"
)

// quoteSummaryModules are the API modules that together cover the metric set
// the comparison tool reports.
const quoteSummaryModules = "price,assetProfile,summaryDetail,financialData"

// Client talks to the Yahoo Finance quoteSummary API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.Breaker
}

// NewClient creates a Yahoo Finance client. baseURL is the API host root
// (e.g. "https://query1.finance.yahoo.com").
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetBreaker attaches a circuit breaker to all outgoing HTTP calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// quoteSummaryEnvelope mirrors the quoteSummary response wrapper.
type quoteSummaryEnvelope struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	Price struct {
		ShortName          string     `json:"shortName"`
		MarketCap          *rawNumber `json:"marketCap"`
		RegularMarketPrice *rawNumber `json:"regularMarketPrice"`
	} `json:"price"`
	AssetProfile struct {
		Sector string `json:"sector"`
	} `json:"assetProfile"`
	SummaryDetail struct {
		TrailingPE    *rawNumber `json:"trailingPE"`
		DividendYield *rawNumber `json:"dividendYield"`
	} `json:"summaryDetail"`
	FinancialData struct {
		CurrentPrice  *rawNumber `json:"currentPrice"`
		RevenueGrowth *rawNumber `json:"revenueGrowth"`
		GrossMargins  *rawNumber `json:"grossMargins"`
		ProfitMargins *rawNumber `json:"profitMargins"`
	} `json:"financialData"`
}

// rawNumber is Yahoo's {raw, fmt} numeric wrapper.
type rawNumber struct {
	Raw *float64 `json:"raw"`
}

// CompanyInfo fetches the quoteSummary modules for a ticker and flattens them
// into the canonical field map. An unknown symbol yields an empty map and nil
// error; callers detect that by the missing "shortName" field.
func (c *Client) CompanyInfo(ctx context.Context, symbol string) (marketdata.Info, error) {
	path := "/v10/finance/quoteSummary/" + url.PathEscape(symbol) +
		"?modules=" + url.QueryEscape(quoteSummaryModules)

	data, notFound, err := c.doRequest(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("quote summary %s: %w", symbol, err)
	}
	if notFound {
		return marketdata.Info{}, nil
	}

	var envelope quoteSummaryEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal quote summary %s: %w", symbol, err)
	}
	if envelope.QuoteSummary.Error != nil || len(envelope.QuoteSummary.Result) == 0 {
		return marketdata.Info{}, nil
	}

	return flatten(envelope.QuoteSummary.Result[0]), nil
}

// flatten maps the module tree onto the flat field names the comparison
// tool extracts. Fields the source omits stay absent from the map.
func flatten(r quoteSummaryResult) marketdata.Info {
	info := marketdata.Info{}

	setString(info, "shortName", r.Price.ShortName)
	setString(info, "sector", r.AssetProfile.Sector)
	setNumber(info, "marketCap", r.Price.MarketCap)
	setNumber(info, "currentPrice", r.FinancialData.CurrentPrice)
	if !info.Has("currentPrice") {
		setNumber(info, "currentPrice", r.Price.RegularMarketPrice)
	}
	setNumber(info, "revenueGrowth", r.FinancialData.RevenueGrowth)
	setNumber(info, "grossMargins", r.FinancialData.GrossMargins)
	setNumber(info, "profitMargins", r.FinancialData.ProfitMargins)
	setNumber(info, "trailingPE", r.SummaryDetail.TrailingPE)
	setNumber(info, "dividendYield", r.SummaryDetail.DividendYield)

	return info
}

func setString(info marketdata.Info, key, value string) {
	if value != "" {
		info[key] = value
	}
}

func setNumber(info marketdata.Info, key string, n *rawNumber) {
	if n != nil && n.Raw != nil {
		info[key] = *n.Raw
	}
}

func (c *Client) doRequest(ctx context.Context, path string) (data []byte, notFound bool, err error) {
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		// Yahoo rejects requests without a browser-looking agent.
		req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; fincompare/1.0)")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode == http.StatusNotFound {
			notFound = true
			return nil
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("yahoo API error %d: %s", resp.StatusCode, string(body))
		}

		data = body
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.Execute(call); err != nil {
			return nil, false, err
		}
		return data, notFound, nil
	}

	if err := call(); err != nil {
		return nil, false, err
	}
	return data, notFound, nil
}
