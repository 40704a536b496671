package donors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"fundwatch/internal/domain"
)

const topDonorCount = 3

// Share is an amount attributed to a named bucket (an industry or a donor type).
type Share struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary is the narrative view of a donor list.
type Summary struct {
	Total             decimal.Decimal          `json:"total"`
	IndustryBreakdown []Share                  `json:"industryBreakdown"`
	DonorTypes        []Share                  `json:"donorTypes"`
	DominantIndustry  *Share                   `json:"dominantIndustry,omitempty"`
	TopDonors         []domain.AggregatedDonor `json:"topDonors"`
	Impact            string                   `json:"impact"`
}

const defaultImpact = "Political donations can significantly influence a politician's policy priorities and voting patterns. " +
	"Large donors often gain increased access to elected officials, potentially shaping legislation in ways that benefit their interests. " +
	"This can affect everything from healthcare costs and environmental regulations to tax policy and consumer protections that impact your daily life."

var industryImpacts = map[string]string{
	"Finance/Insurance": "The significant funding from the finance and insurance sector may influence the politician's stance on financial regulations, banking oversight, and tax policies affecting investment income. " +
		"This could impact consumer protections in financial services and the overall regulatory environment for Wall Street.",
	"Health": "With substantial backing from the healthcare industry, the politician may take positions on healthcare policy that align with industry interests. " +
		"This could affect healthcare costs, insurance coverage requirements, pharmaceutical pricing, and the structure of healthcare delivery systems.",
	"Energy": "Strong support from the energy sector suggests the politician may favor policies beneficial to these donors, potentially affecting environmental regulations, climate initiatives, and energy production subsidies.",
	"Technology": "Backing from tech companies may influence the politician's approach to internet regulation, data privacy laws, antitrust enforcement, and technology sector taxation.",
	"Defense": "Significant funding from defense contractors may lead the politician to support higher defense budgets and military interventions, shaping national security policy and military spending priorities.",
	SmallDonationsIndustry: "Most of this money arrives in small individual contributions. " +
		"A broad base of small donors tends to reduce the leverage of any single funder over the politician's positions.",
}

// ImpactText describes what a dominant industry may mean for constituents.
func ImpactText(industry string) string {
	if industry == "" {
		return defaultImpact
	}
	if text, ok := industryImpacts[industry]; ok {
		return text
	}
	return fmt.Sprintf("The significant funding from the %s sector may influence the politician's policy positions in ways that directly affect regulations, tax policies, and government priorities related to this industry.",
		strings.ToLower(industry))
}

// Summarize totals a sorted donor list by industry and donor type and picks
// the dominant industry. Donors without a known industry count toward the
// breakdown but never dominate.
func Summarize(donors []domain.AggregatedDonor, classifier *Classifier) Summary {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	total := decimal.Zero
	industries := newShareSet()
	types := newShareSet()
	for _, d := range donors {
		total = total.Add(d.Amount)
		industry := d.Industry
		if industry == "" {
			industry = UnknownIndustry
		}
		industries.add(industry, d.Amount)
		types.add(classifier.Classify(d.Name), d.Amount)
	}

	s := Summary{
		Total:             total,
		IndustryBreakdown: industries.sorted(),
		DonorTypes:        types.sorted(),
	}
	for _, share := range s.IndustryBreakdown {
		if share.Name == UnknownIndustry || !share.Amount.IsPositive() {
			continue
		}
		dominant := share
		s.DominantIndustry = &dominant
		break
	}
	if s.DominantIndustry != nil {
		s.Impact = ImpactText(s.DominantIndustry.Name)
	} else {
		s.Impact = ImpactText("")
	}
	n := topDonorCount
	if len(donors) < n {
		n = len(donors)
	}
	s.TopDonors = append([]domain.AggregatedDonor(nil), donors[:n]...)
	return s
}

type shareSet struct {
	index map[string]int
	items []Share
}

func newShareSet() *shareSet {
	return &shareSet{index: make(map[string]int)}
}

func (s *shareSet) add(name string, amount decimal.Decimal) {
	i, ok := s.index[name]
	if !ok {
		i = len(s.items)
		s.index[name] = i
		s.items = append(s.items, Share{Name: name, Amount: decimal.Zero})
	}
	s.items[i].Amount = s.items[i].Amount.Add(amount)
}

// sorted drops zero buckets and orders by amount descending, first seen first on ties.
func (s *shareSet) sorted() []Share {
	out := make([]Share, 0, len(s.items))
	for _, item := range s.items {
		if item.Amount.IsPositive() {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}
