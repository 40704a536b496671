package donors

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"fundwatch/internal/domain"
)

const (
	SmallDonationsName     = "Small Individual Donations"
	SmallDonationsIndustry = "Grassroots"
)

// Aggregator folds normalized contributions into per-donor totals. Amounts at
// or below the threshold go to a single small-dollar bucket instead. It is
// safe for concurrent use.
type Aggregator struct {
	mu        sync.Mutex
	threshold decimal.Decimal
	key       NameMatcher
	entries   map[string]*domain.AggregatedDonor
	order     []string
	small     decimal.Decimal
}

// NewAggregator returns an empty aggregator. A zero threshold disables the
// small-dollar bucket; a nil matcher means exact matching.
func NewAggregator(threshold decimal.Decimal, matcher NameMatcher) *Aggregator {
	if matcher == nil {
		matcher = ExactMatch
	}
	return &Aggregator{
		threshold: threshold,
		key:       matcher,
		entries:   make(map[string]*domain.AggregatedDonor),
		small:     decimal.Zero,
	}
}

// Add folds one contribution. The first non-empty industry seen for a donor
// sticks.
func (a *Aggregator) Add(c domain.NormalizedContribution) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.threshold.IsPositive() && c.Amount.LessThanOrEqual(a.threshold) {
		a.small = a.small.Add(c.Amount)
		return
	}
	k := a.key(c.DonorName)
	entry, ok := a.entries[k]
	if !ok {
		entry = &domain.AggregatedDonor{Name: c.DonorName, Amount: decimal.Zero}
		a.entries[k] = entry
		a.order = append(a.order, k)
	}
	entry.Amount = entry.Amount.Add(c.Amount)
	if entry.Industry == "" {
		entry.Industry = c.Industry
	}
}

// AddAll folds contributions in order.
func (a *Aggregator) AddAll(cs []domain.NormalizedContribution) {
	for _, c := range cs {
		a.Add(c)
	}
}

// Result returns every donor, plus the synthesized small-dollar bucket when
// it is non-zero, sorted by amount descending. Ties keep insertion order.
func (a *Aggregator) Result() ([]domain.AggregatedDonor, decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]domain.AggregatedDonor, 0, len(a.order)+1)
	for _, k := range a.order {
		out = append(out, *a.entries[k])
	}
	if a.small.IsPositive() {
		out = append(out, domain.AggregatedDonor{
			Name:     SmallDonationsName,
			Amount:   a.small,
			Industry: SmallDonationsIndustry,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out, a.small
}

// Aggregate runs a one-shot aggregation with exact name matching.
func Aggregate(cs []domain.NormalizedContribution, threshold decimal.Decimal) ([]domain.AggregatedDonor, decimal.Decimal) {
	agg := NewAggregator(threshold, ExactMatch)
	agg.AddAll(cs)
	return agg.Result()
}
