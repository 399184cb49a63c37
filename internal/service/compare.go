package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fincompare/fincompare/internal/domain/compare"
	"github.com/fincompare/fincompare/internal/port/marketdata"
)

// CompareService fetches and juxtaposes financial metrics for two companies.
// It never returns a Go error: every failure mode is folded into the result's
// Error field so the model can surface it conversationally.
type CompareService struct {
	data marketdata.Provider
}

// NewCompareService creates a CompareService backed by the given provider.
func NewCompareService(data marketdata.Provider) *CompareService {
	return &CompareService{data: data}
}

// Compare looks up both tickers and extracts the fixed metric set per company,
// substituting "N/A" for anything the source does not report, plus a short
// line-by-line insight summary.
func (s *CompareService) Compare(ctx context.Context, ticker1, ticker2 string) compare.Result {
	if ticker1 == "" || ticker2 == "" {
		return compare.Result{Error: "Both ticker symbols must be provided."}
	}

	c1, err := s.data.CompanyInfo(ctx, ticker1)
	if err != nil {
		slog.Warn("company info lookup failed", "ticker", ticker1, "error", err)
		return compare.Result{Error: fmt.Sprintf("An unexpected error occurred: %v", err)}
	}
	c2, err := s.data.CompanyInfo(ctx, ticker2)
	if err != nil {
		slog.Warn("company info lookup failed", "ticker", ticker2, "error", err)
		return compare.Result{Error: fmt.Sprintf("An unexpected error occurred: %v", err)}
	}

	if !c1.Has("shortName") {
		return compare.Result{Error: fmt.Sprintf("Could not retrieve data for '%s'. Please check the ticker symbol.", ticker1)}
	}
	if !c2.Has("shortName") {
		return compare.Result{Error: fmt.Sprintf("Could not retrieve data for '%s'. Please check the ticker symbol.", ticker2)}
	}

	m1 := extractMetrics(c1)
	m2 := extractMetrics(c2)

	return compare.Result{
		Insight:  renderInsight(m1, m2),
		Company1: m1,
		Company2: m2,
	}
}

// extractMetrics copies the fixed metric set out of the raw field map,
// substituting the sentinel for anything missing.
func extractMetrics(info marketdata.Info) compare.Metrics {
	m := make(compare.Metrics, len(compare.MetricKeys))
	for _, key := range compare.MetricKeys {
		if info.Has(key) {
			m[key] = info[key]
		} else {
			m[key] = compare.NotAvailable
		}
	}
	return m
}

// renderInsight builds the plain-text summary juxtaposing both companies
// line by line.
func renderInsight(m1, m2 compare.Metrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v vs %v\n", m1["shortName"], m2["shortName"])
	fmt.Fprintf(&b, "Sector: %v | %v\n", m1["sector"], m2["sector"])
	fmt.Fprintf(&b, "Market Cap: %v | %v\n", m1["marketCap"], m2["marketCap"])
	fmt.Fprintf(&b, "Profit Margin: %v | %v\n", m1["profitMargins"], m2["profitMargins"])
	fmt.Fprintf(&b, "P/E Ratio: %v | %v\n", m1["trailingPE"], m2["trailingPE"])
	fmt.Fprintf(&b, "Dividend Yield: %v | %v\n", m1["dividendYield"], m2["dividendYield"])
	return b.String()
}
