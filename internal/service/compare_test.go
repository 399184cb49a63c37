package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fincompare/fincompare/internal/domain/compare"
	"github.com/fincompare/fincompare/internal/port/marketdata"
)

// fakeProvider serves canned company info maps keyed by ticker.
type fakeProvider struct {
	infos map[string]marketdata.Info
	err   error
}

func (p *fakeProvider) CompanyInfo(_ context.Context, symbol string) (marketdata.Info, error) {
	if p.err != nil {
		return nil, p.err
	}
	if info, ok := p.infos[symbol]; ok {
		return info, nil
	}
	return marketdata.Info{}, nil
}

func appleInfo() marketdata.Info {
	return marketdata.Info{
		"shortName":     "Apple Inc.",
		"sector":        "Technology",
		"marketCap":     3.4e12,
		"currentPrice":  228.5,
		"revenueGrowth": 0.061,
		"grossMargins":  0.462,
		"profitMargins": 0.266,
		"trailingPE":    34.2,
		"dividendYield": 0.0044,
	}
}

func microsoftInfo() marketdata.Info {
	return marketdata.Info{
		"shortName":     "Microsoft Corporation",
		"sector":        "Technology",
		"marketCap":     3.1e12,
		"currentPrice":  425.1,
		"revenueGrowth": 0.152,
		"grossMargins":  0.697,
		"profitMargins": 0.355,
		"trailingPE":    36.8,
		"dividendYield": 0.0071,
	}
}

func TestCompareSuccess(t *testing.T) {
	svc := NewCompareService(&fakeProvider{infos: map[string]marketdata.Info{
		"AAPL": appleInfo(),
		"MSFT": microsoftInfo(),
	}})

	res := svc.Compare(context.Background(), "AAPL", "MSFT")
	if res.Failed() {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Company1["shortName"] != "Apple Inc." {
		t.Errorf("expected Apple Inc., got %v", res.Company1["shortName"])
	}
	if res.Company2["shortName"] != "Microsoft Corporation" {
		t.Errorf("expected Microsoft Corporation, got %v", res.Company2["shortName"])
	}
	if len(res.Company1) != len(compare.MetricKeys) {
		t.Errorf("expected %d metrics, got %d", len(compare.MetricKeys), len(res.Company1))
	}
	if !strings.Contains(res.Insight, "Apple Inc. vs Microsoft Corporation") {
		t.Errorf("insight missing header: %q", res.Insight)
	}
	if !strings.Contains(res.Insight, "P/E Ratio: 34.2 | 36.8") {
		t.Errorf("insight missing P/E line: %q", res.Insight)
	}
}

func TestCompareMissingMetricUsesSentinel(t *testing.T) {
	thin := marketdata.Info{"shortName": "Thin Corp"}
	svc := NewCompareService(&fakeProvider{infos: map[string]marketdata.Info{
		"THIN": thin,
		"MSFT": microsoftInfo(),
	}})

	res := svc.Compare(context.Background(), "THIN", "MSFT")
	if res.Failed() {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Company1["sector"] != compare.NotAvailable {
		t.Errorf("expected N/A sector, got %v", res.Company1["sector"])
	}
	if res.Company1["trailingPE"] != compare.NotAvailable {
		t.Errorf("expected N/A trailingPE, got %v", res.Company1["trailingPE"])
	}
}

func TestCompareEmptyTicker(t *testing.T) {
	svc := NewCompareService(&fakeProvider{})

	for _, pair := range [][2]string{{"", "MSFT"}, {"AAPL", ""}, {"", ""}} {
		res := svc.Compare(context.Background(), pair[0], pair[1])
		if !res.Failed() {
			t.Errorf("expected error for pair %v", pair)
		}
		if res.Company1 != nil || res.Company2 != nil {
			t.Errorf("expected no partial metrics for pair %v", pair)
		}
	}
}

func TestCompareUnknownTicker(t *testing.T) {
	svc := NewCompareService(&fakeProvider{infos: map[string]marketdata.Info{
		"AAPL": appleInfo(),
	}})

	res := svc.Compare(context.Background(), "AAPL", "ZZZZZZ")
	if !res.Failed() {
		t.Fatal("expected error for unknown ticker")
	}
	if !strings.Contains(res.Error, "ZZZZZZ") {
		t.Errorf("error should name the ticker: %q", res.Error)
	}
	if res.Company1 != nil {
		t.Error("expected no partial metrics on failure")
	}
}

func TestCompareProviderFailure(t *testing.T) {
	svc := NewCompareService(&fakeProvider{err: errors.New("upstream unavailable")})

	res := svc.Compare(context.Background(), "AAPL", "MSFT")
	if !res.Failed() {
		t.Fatal("expected error when provider fails")
	}
	if !strings.Contains(res.Error, "unexpected error") {
		t.Errorf("expected wrapped provider error, got %q", res.Error)
	}
}
