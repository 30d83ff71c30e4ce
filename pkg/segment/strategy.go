package segment

import "strings"

// Strategy : segment "idéal" de la grille marketing et action suggérée.
type Strategy struct {
	Segment     string
	Description string
	Action      string
}

// Grille marketing d'origine. Plusieurs de ces segments ne sont jamais produits
// par Label (voir Unmatched) ; les deux listes sont conservées telles quelles.
var strategies = []Strategy{
	{"Champions", "frequent, recent & high spenders", "Offer exclusive discounts & early product access."},
	{"Loyal Customers", "buy regularly & spend well", "Reward with loyalty programs & thank-you offers."},
	{"Potential Loyalists", "could become champions soon", "Provide special offers to encourage more purchases."},
	{"At Risk", "used to buy often but not anymore", "Send win-back campaigns & personalized offers."},
	{"Hibernating", "low spenders & inactive", "Run awareness campaigns to re-engage."},
	{"Lost Customers", "haven’t purchased in a long time", "Offer steep discounts to bring them back."},
	{"New Customers", "recently joined", "Send welcome emails & first-purchase discounts."},
}

func Strategies() []Strategy {
	return append([]Strategy(nil), strategies...)
}

// StrategyFor renvoie la stratégie dont le nom correspond exactement au libellé calculé.
func StrategyFor(label string) (Strategy, bool) {
	for _, s := range strategies {
		if strings.EqualFold(s.Segment, label) {
			return s, true
		}
	}
	return Strategy{}, false
}

// Unmatched liste les écarts entre les deux ensembles :
// labels calculés sans stratégie, et stratégies sans segment calculé.
func Unmatched() (labelsWithoutStrategy, strategiesWithoutLabel []string) {
	computed := map[string]bool{}
	for _, l := range Labels() {
		computed[strings.ToLower(l)] = true
		if _, ok := StrategyFor(l); !ok {
			labelsWithoutStrategy = append(labelsWithoutStrategy, l)
		}
	}
	for _, s := range strategies {
		if !computed[strings.ToLower(s.Segment)] {
			strategiesWithoutLabel = append(strategiesWithoutLabel, s.Segment)
		}
	}
	return labelsWithoutStrategy, strategiesWithoutLabel
}
