// Package segment associe un code RFM composite ("431") à un libellé marketing.
package segment

const (
	Champions      = "Champions"
	LoyalCustomers = "Loyal Customers"
	FrequentBuyers = "Frequent Buyers"
	BigSpenders    = "Big Spenders"
	Others         = "Others"
)

// Rule : un prédicat sur le code composite et le libellé associé.
type Rule struct {
	Label string
	Match func(code string) bool
}

func digitIs(pos int, d byte) func(string) bool {
	return func(code string) bool {
		return len(code) > pos && code[pos] == d
	}
}

// rules est évalué dans l'ordre ; la première règle qui matche gagne.
var rules = []Rule{
	{Label: Champions, Match: func(code string) bool { return code == "444" }},
	{Label: LoyalCustomers, Match: digitIs(0, '4')},
	{Label: FrequentBuyers, Match: digitIs(1, '4')},
	{Label: BigSpenders, Match: digitIs(2, '4')},
}

// Rules renvoie une copie de la table de priorité.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// Label renvoie le segment du code ; Others si aucune règle ne s'applique.
func Label(code string) string {
	for _, r := range rules {
		if r.Match(code) {
			return r.Label
		}
	}
	return Others
}

// Labels : ensemble fermé des libellés possibles, dans l'ordre de priorité.
func Labels() []string {
	out := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.Label)
	}
	return append(out, Others)
}
