package donors

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundwatch/internal/domain"
	"fundwatch/internal/providers/fec"
)

func contribution(name string, amount int64, industry string) domain.NormalizedContribution {
	return domain.NormalizedContribution{DonorName: name, Amount: decimal.NewFromInt(amount), Industry: industry}
}

func strPtr(s string) *string { return &s }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  fec.Contribution
		want domain.NormalizedContribution
	}{
		{
			name: "employer wins over occupation",
			raw: fec.Contribution{
				ContributorName:       strPtr("DOE, JANE"),
				Amount:                json.RawMessage(`250.5`),
				ContributorEmployer:   strPtr("ACME"),
				ContributorOccupation: strPtr("ENGINEER"),
			},
			want: domain.NormalizedContribution{DonorName: "DOE, JANE", Amount: decimal.RequireFromString("250.5"), Industry: "ACME"},
		},
		{
			name: "occupation when employer blank",
			raw: fec.Contribution{
				ContributorName:       strPtr("ROE, RICHARD"),
				Amount:                json.RawMessage(`"40.00"`),
				ContributorEmployer:   strPtr("  "),
				ContributorOccupation: strPtr("RETIRED"),
			},
			want: domain.NormalizedContribution{DonorName: "ROE, RICHARD", Amount: decimal.NewFromInt(40), Industry: "RETIRED"},
		},
		{
			name: "missing name and amount",
			raw:  fec.Contribution{},
			want: domain.NormalizedContribution{DonorName: AnonymousDonor, Amount: decimal.Zero},
		},
		{
			name: "null amount",
			raw:  fec.Contribution{ContributorName: strPtr(""), Amount: json.RawMessage(`null`)},
			want: domain.NormalizedContribution{DonorName: AnonymousDonor, Amount: decimal.Zero},
		},
		{
			name: "negative amount is zero",
			raw:  fec.Contribution{ContributorName: strPtr("Refund"), Amount: json.RawMessage(`-75`)},
			want: domain.NormalizedContribution{DonorName: "Refund", Amount: decimal.Zero},
		},
		{
			name: "non-numeric amount is zero",
			raw:  fec.Contribution{ContributorName: strPtr("X"), Amount: json.RawMessage(`"n/a"`)},
			want: domain.NormalizedContribution{DonorName: "X", Amount: decimal.Zero},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			assert.Equal(t, tt.want.DonorName, got.DonorName)
			assert.True(t, tt.want.Amount.Equal(got.Amount), "amount = %s, want %s", got.Amount, tt.want.Amount)
			assert.Equal(t, tt.want.Industry, got.Industry)
		})
	}
}

func TestAggregateSortsDescending(t *testing.T) {
	donors, small := Aggregate([]domain.NormalizedContribution{
		contribution("A", 50, ""),
		contribution("B", 200, ""),
		contribution("C", 10, ""),
	}, decimal.Zero)

	require.Len(t, donors, 3)
	assert.Equal(t, []string{"B", "A", "C"}, names(donors))
	assert.True(t, donors[0].Amount.Equal(decimal.NewFromInt(200)))
	assert.True(t, small.IsZero())
}

func TestAggregateSmallDonationBucket(t *testing.T) {
	donors, small := Aggregate([]domain.NormalizedContribution{
		contribution("A", 50, "Retail"),
		contribution("B", 500, "Energy"),
		contribution("C", 10, ""),
	}, decimal.NewFromInt(200))

	require.Len(t, donors, 2)
	assert.Equal(t, "B", donors[0].Name)
	assert.True(t, donors[0].Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, SmallDonationsName, donors[1].Name)
	assert.Equal(t, SmallDonationsIndustry, donors[1].Industry)
	assert.True(t, donors[1].Amount.Equal(decimal.NewFromInt(60)))
	assert.True(t, small.Equal(decimal.NewFromInt(60)))
}

func TestAggregateThresholdIsInclusive(t *testing.T) {
	donors, small := Aggregate([]domain.NormalizedContribution{
		contribution("Exactly", 200, ""),
		contribution("Above", 201, ""),
	}, decimal.NewFromInt(200))

	assert.Equal(t, []string{"Above", SmallDonationsName}, names(donors))
	assert.True(t, small.Equal(decimal.NewFromInt(200)))
}

func TestAggregateConservesTotal(t *testing.T) {
	input := []domain.NormalizedContribution{
		contribution("A", 50, ""),
		contribution("B", 500, ""),
		contribution("A", 300, ""),
		contribution("C", 10, ""),
		contribution("D", 0, ""),
		contribution("B", 199, ""),
	}
	raw := decimal.Zero
	for _, c := range input {
		raw = raw.Add(c.Amount)
	}

	for _, threshold := range []int64{0, 50, 200, 1000} {
		donors, small := Aggregate(input, decimal.NewFromInt(threshold))
		perDonor := decimal.Zero
		all := decimal.Zero
		for _, d := range donors {
			all = all.Add(d.Amount)
			if d.Name != SmallDonationsName {
				perDonor = perDonor.Add(d.Amount)
			}
		}
		assert.True(t, perDonor.Add(small).Equal(raw), "threshold %d: %s + %s != %s", threshold, perDonor, small, raw)
		assert.True(t, all.Equal(raw), "threshold %d: listed total %s != %s", threshold, all, raw)
	}
}

func TestAggregateIndustryIsFirstWriteWins(t *testing.T) {
	first := []domain.NormalizedContribution{
		contribution("Acme", 300, "Energy"),
		contribution("Acme", 400, "Technology"),
	}
	second := []domain.NormalizedContribution{first[1], first[0]}

	a, _ := Aggregate(first, decimal.Zero)
	b, _ := Aggregate(second, decimal.Zero)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.True(t, a[0].Amount.Equal(b[0].Amount))
	assert.Equal(t, "Energy", a[0].Industry)
	assert.Equal(t, "Technology", b[0].Industry)
}

func TestAggregateIndustryFilledByLaterContribution(t *testing.T) {
	donors, _ := Aggregate([]domain.NormalizedContribution{
		contribution("Acme", 300, ""),
		contribution("Acme", 400, "Energy"),
	}, decimal.Zero)

	require.Len(t, donors, 1)
	assert.Equal(t, "Energy", donors[0].Industry)
}

func TestAggregateTiesKeepInsertionOrder(t *testing.T) {
	donors, _ := Aggregate([]domain.NormalizedContribution{
		contribution("Zeta", 100, ""),
		contribution("Alpha", 100, ""),
		contribution("Mid", 100, ""),
	}, decimal.Zero)

	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, names(donors))
}

func TestAggregateEmptyInput(t *testing.T) {
	donors, small := Aggregate(nil, decimal.NewFromInt(200))
	assert.Empty(t, donors)
	assert.True(t, small.IsZero())
}

func TestAggregatorNameMatching(t *testing.T) {
	input := []domain.NormalizedContribution{
		contribution("Apple Inc", 300, ""),
		contribution("Apple Inc.", 400, ""),
		contribution("apple  inc", 500, ""),
	}

	exact := NewAggregator(decimal.Zero, ExactMatch)
	exact.AddAll(input)
	donors, _ := exact.Result()
	assert.Len(t, donors, 3)

	folded := NewAggregator(decimal.Zero, FoldedMatch)
	folded.AddAll(input)
	donors, _ = folded.Result()
	require.Len(t, donors, 1)
	assert.Equal(t, "Apple Inc", donors[0].Name)
	assert.True(t, donors[0].Amount.Equal(decimal.NewFromInt(1200)))
}

func TestAggregatorConcurrentAdds(t *testing.T) {
	agg := NewAggregator(decimal.NewFromInt(10), nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				agg.Add(contribution("Donor", 20, ""))
				agg.Add(contribution("Small", 5, ""))
			}
		}()
	}
	wg.Wait()

	donors, small := agg.Result()
	require.Len(t, donors, 2)
	assert.True(t, donors[0].Amount.Equal(decimal.NewFromInt(16000)))
	assert.True(t, small.Equal(decimal.NewFromInt(4000)))
}

func TestMatcherByName(t *testing.T) {
	m, err := MatcherByName("")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", m("Apple Inc."))

	m, err = MatcherByName("Folded")
	require.NoError(t, err)
	assert.Equal(t, "apple inc", m("  Apple   Inc. "))

	_, err = MatcherByName("fuzzy")
	assert.Error(t, err)
}

func names(donors []domain.AggregatedDonor) []string {
	out := make([]string, 0, len(donors))
	for _, d := range donors {
		out = append(out, d.Name)
	}
	return out
}
