// Package marketdata defines the market-data lookup port.
package marketdata

import "context"

// Info is the raw per-company field map reported by the data source.
// A usable record always carries a "shortName" entry.
type Info map[string]any

// Has reports whether the field is present with a non-nil value.
func (i Info) Has(key string) bool {
	v, ok := i[key]
	return ok && v != nil
}

// Provider looks up company information by stock ticker symbol.
type Provider interface {
	// CompanyInfo returns the field map for a ticker. A nil error with an
	// Info lacking "shortName" means the symbol resolved to no usable record.
	CompanyInfo(ctx context.Context, symbol string) (Info, error)
}
