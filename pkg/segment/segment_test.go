package segment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel_Precedence(t *testing.T) {
	cases := map[string]string{
		"444": Champions,
		"443": LoyalCustomers,
		"414": LoyalCustomers, // le premier chiffre passe avant le troisième
		"411": LoyalCustomers,
		"143": FrequentBuyers,
		"344": FrequentBuyers,
		"314": BigSpenders,
		"114": BigSpenders,
		"333": Others,
		"111": Others,
	}
	for code, want := range cases {
		assert.Equal(t, want, Label(code), code)
	}
}

func TestLabel_TotalAndDeterministic(t *testing.T) {
	allowed := map[string]bool{}
	for _, l := range Labels() {
		allowed[l] = true
	}
	seen := map[string]bool{}
	for r := 1; r <= 4; r++ {
		for f := 1; f <= 4; f++ {
			for m := 1; m <= 4; m++ {
				code := fmt.Sprintf("%d%d%d", r, f, m)
				got := Label(code)
				assert.True(t, allowed[got], "%s -> %s", code, got)
				assert.Equal(t, got, Label(code))
				seen[got] = true
			}
		}
	}
	assert.Len(t, seen, 5)
}

func TestLabel_ShortCodeFallsBackToOthers(t *testing.T) {
	assert.Equal(t, Others, Label(""))
	assert.Equal(t, Others, Label("3"))
}

func TestLabels_PriorityOrder(t *testing.T) {
	assert.Equal(t, []string{Champions, LoyalCustomers, FrequentBuyers, BigSpenders, Others}, Labels())
}

func TestRules_ReturnsCopy(t *testing.T) {
	r := Rules()
	r[0].Label = "changed"
	assert.Equal(t, Champions, Label("444"))
}

func TestStrategyFor(t *testing.T) {
	s, ok := StrategyFor(Champions)
	assert.True(t, ok)
	assert.Equal(t, "Offer exclusive discounts & early product access.", s.Action)

	_, ok = StrategyFor(FrequentBuyers)
	assert.False(t, ok)
}

func TestUnmatched(t *testing.T) {
	labels, strats := Unmatched()
	assert.Equal(t, []string{FrequentBuyers, BigSpenders, Others}, labels)
	assert.Equal(t, []string{"Potential Loyalists", "At Risk", "Hibernating", "Lost Customers", "New Customers"}, strats)
}
