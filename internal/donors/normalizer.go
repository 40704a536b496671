// Package donors turns raw Schedule A receipts into a ranked, classified donor
// list for one candidate.
package donors

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"fundwatch/internal/domain"
	"fundwatch/internal/providers/fec"
)

const (
	AnonymousDonor  = "Anonymous"
	UnknownIndustry = "Unknown Industry"
)

// Normalize reduces a raw contribution to a donor name, a non-negative amount
// and an optional industry. It never fails: unusable fields fall back to
// defaults.
func Normalize(raw fec.Contribution) domain.NormalizedContribution {
	name := trimmed(raw.ContributorName)
	if name == "" {
		name = AnonymousDonor
	}
	industry := trimmed(raw.ContributorEmployer)
	if industry == "" {
		industry = trimmed(raw.ContributorOccupation)
	}
	return domain.NormalizedContribution{
		DonorName: name,
		Amount:    parseAmount(raw.Amount),
		Industry:  industry,
	}
}

// NormalizeAll normalizes a page of contributions in order.
func NormalizeAll(raws []fec.Contribution) []domain.NormalizedContribution {
	out := make([]domain.NormalizedContribution, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw))
	}
	return out
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// parseAmount accepts a JSON number or a numeric JSON string. Anything else,
// and any negative value, is zero.
func parseAmount(raw json.RawMessage) decimal.Decimal {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return decimal.Zero
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero
		}
		text = strings.TrimSpace(s)
	}
	amount, err := decimal.NewFromString(text)
	if err != nil || amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
