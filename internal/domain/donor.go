package domain

import "github.com/shopspring/decimal"

// NormalizedContribution is a single contribution reduced to the fields the
// aggregator needs. An empty Industry means the source carried none.
type NormalizedContribution struct {
	DonorName string
	Amount    decimal.Decimal
	Industry  string
}

// AggregatedDonor is the running total for one donor across a pipeline run.
type AggregatedDonor struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Industry string          `json:"industry"`
}
