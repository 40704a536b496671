package donors

import (
	"github.com/shopspring/decimal"

	"fundwatch/internal/domain"
)

type mockDonor struct {
	name     string
	amount   int64
	industry string
}

// mockData is a static example bundle served when the disclosure API cannot
// be used. Keys are FEC candidate ids.
var mockData = map[string][]mockDonor{
	"S4VT00033": { // Bernie Sanders
		{"University of California", 99548, "Education"},
		{"Alphabet Inc", 81255, "Technology"},
		{"Amazon.com", 62412, "Retail"},
		{"Microsoft Corp", 53241, "Technology"},
		{"Apple Inc", 45632, "Technology"},
		{"Kaiser Permanente", 41235, "Health"},
		{"US Government", 38756, "Government"},
		{"AT&T Inc", 32145, "Telecommunications"},
		{"State of California", 29876, "Government"},
		{"Walmart Inc", 26543, "Retail"},
	},
	"S2TX00312": { // Ted Cruz
		{"Club for Growth", 113456, "Conservative Policy"},
		{"Exxon Mobil", 98765, "Energy"},
		{"Goldman Sachs", 87654, "Finance/Insurance"},
		{"Koch Industries", 76543, "Energy"},
		{"Boeing Co", 65432, "Defense"},
		{"AT&T Inc", 54321, "Telecommunications"},
		{"Lockheed Martin", 43210, "Defense"},
		{"Chevron Corp", 32109, "Energy"},
		{"Bank of America", 21098, "Finance/Insurance"},
		{"Raytheon Technologies", 10987, "Defense"},
	},
	"S2MA00170": { // Elizabeth Warren
		{"EMILY's List", 105432, "Women's Issues"},
		{"Harvard University", 94321, "Education"},
		{"Alphabet Inc", 83210, "Technology"},
		{"Microsoft Corp", 72109, "Technology"},
		{"Apple Inc", 61098, "Technology"},
		{"Kaiser Permanente", 50987, "Health"},
		{"University of California", 49876, "Education"},
		{"Amazon.com", 38765, "Retail"},
		{"Walt Disney Co", 27654, "Entertainment"},
		{"Massachusetts General Hospital", 16543, "Health"},
	},
	"S2KY00012": { // Mitch McConnell
		{"Blackstone Group", 119876, "Finance/Insurance"},
		{"Kindred Healthcare", 108765, "Health"},
		{"UBS AG", 97654, "Finance/Insurance"},
		{"JPMorgan Chase & Co", 86543, "Finance/Insurance"},
		{"Humana Inc", 75432, "Health"},
		{"Altria Group", 64321, "Tobacco"},
		{"FedEx Corp", 53210, "Transportation"},
		{"General Electric", 42109, "Manufacturing"},
		{"Citigroup Inc", 31098, "Finance/Insurance"},
		{"Brown-Forman Corp", 20987, "Food & Beverage"},
	},
	"H8NY15148": { // Alexandria Ocasio-Cortez
		{"Alphabet Inc", 89765, "Technology"},
		{"University of California", 78654, "Education"},
		{"City University of New York", 67543, "Education"},
		{"Amazon.com", 56432, "Retail"},
		{"Apple Inc", 45321, "Technology"},
		{"Microsoft Corp", 34210, "Technology"},
		{"Kaiser Permanente", 23109, "Health"},
		{"New York University", 12098, "Education"},
		{"Columbia University", 10987, "Education"},
		{"Walt Disney Co", 9876, "Entertainment"},
	},
}

// MockDonors returns the bundled example list for a candidate, or an empty
// list when the candidate is not in the bundle.
func MockDonors(candidateID string) []domain.AggregatedDonor {
	rows := mockData[candidateID]
	out := make([]domain.AggregatedDonor, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.AggregatedDonor{
			Name:     r.name,
			Amount:   decimal.NewFromInt(r.amount),
			Industry: r.industry,
		})
	}
	return out
}
