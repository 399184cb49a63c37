// Package compare defines the company comparison result model.
package compare

// NotAvailable is the sentinel substituted for metrics the data source
// does not report for a company.
const NotAvailable = "N/A"

// MetricKeys is the fixed set of metrics extracted per company, keyed the
// way the upstream data source reports them.
var MetricKeys = []string{
	"shortName", "sector", "marketCap", "currentPrice",
	"revenueGrowth", "grossMargins", "profitMargins",
	"trailingPE", "dividendYield",
}

// Metrics maps a metric key to its reported value.
type Metrics map[string]any

// Result is the outcome of comparing two companies. Either Error is set
// (soft failure) or Insight plus both metric maps are populated.
type Result struct {
	Insight  string  `json:"insight,omitempty"`
	Company1 Metrics `json:"company1,omitempty"`
	Company2 Metrics `json:"company2,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Failed reports whether the comparison produced a soft error instead of data.
func (r Result) Failed() bool {
	return r.Error != ""
}
