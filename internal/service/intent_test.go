package service

import "testing"

func TestIsComparisonQuery(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Compare Apple and Microsoft", true},
		{"compare aapl to msft", true},
		{"Tesla versus Ford", true},
		{"GOOG vs AMZN", true},
		{"Is Apple better than Microsoft?", true},
		{"Which is worse, Intel or AMD?", true},
		{"What's the difference between Visa and Mastercard?", true},
		{"How does Tesla compare to Ford?", true},
		{"How do these two compare?", true},
		{"Which has higher margins, Costco or Walmart?", true},
		{"Nvidia's growth relative to AMD", true},
		{"Apple against Samsung", true},
		{"no comparison needed", true}, // known false positive, accepted
		{"What's the weather today?", false},
		{"Tell me about Apple", false},
		{"Hello", false},
		{"", false},
		{"versatile products", false}, // "vs" requires a word boundary
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := IsComparisonQuery(tt.text); got != tt.want {
				t.Errorf("IsComparisonQuery(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
