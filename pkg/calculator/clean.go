package calculator

import (
	"strings"

	"rfm-segments/pkg/models"
)

// cancelMarker préfixe les numéros de facture d'annulation ("C536379").
const cancelMarker = "C"

// Clean retire les annulations et les lignes sans client.
// Un résultat vide n'est pas une erreur.
func Clean(txs []models.Transaction) ([]models.Transaction, models.CleanStats) {
	stats := models.CleanStats{Raw: len(txs)}
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if strings.HasPrefix(strings.TrimSpace(tx.InvoiceNo), cancelMarker) {
			stats.Cancelled++
			continue
		}
		if strings.TrimSpace(tx.CustomerID) == "" {
			stats.MissingCustomer++
			continue
		}
		out = append(out, tx)
	}
	stats.Kept = len(out)
	return out, stats
}
