package calculator

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"rfm-segments/pkg/models"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// ReferenceDate = dernière facture + 1 jour. Zéro si aucune transaction.
func ReferenceDate(txs []models.Transaction) time.Time {
	var last time.Time
	for _, tx := range txs {
		if tx.InvoiceDate.After(last) {
			last = tx.InvoiceDate
		}
	}
	if last.IsZero() {
		return last
	}
	return last.Add(day)
}

type customerAcc struct {
	latest   time.Time
	invoices map[string]struct{}
	total    decimal.Decimal
}

// Aggregate regroupe les lignes nettoyées par client.
// Sortie triée par CustomerID (voir sortByCustomerID) pour que deux exécutions donnent le même ordre.
func Aggregate(txs []models.Transaction, ref time.Time) []models.CustomerRFM {
	byCustomer := map[string]*customerAcc{}
	for _, tx := range txs {
		id := strings.TrimSpace(tx.CustomerID)
		acc, ok := byCustomer[id]
		if !ok {
			acc = &customerAcc{invoices: map[string]struct{}{}, total: decimal.Zero}
			byCustomer[id] = acc
		}
		if tx.InvoiceDate.After(acc.latest) {
			acc.latest = tx.InvoiceDate
		}
		acc.invoices[strings.TrimSpace(tx.InvoiceNo)] = struct{}{}
		acc.total = acc.total.Add(tx.LineTotal())
	}

	out := make([]models.CustomerRFM, 0, len(byCustomer))
	for id, acc := range byCustomer {
		out = append(out, models.CustomerRFM{
			CustomerID: id,
			Recency:    recencyDays(ref, acc.latest),
			Frequency:  len(acc.invoices),
			Monetary:   acc.total,
		})
	}
	sortByCustomerID(out)
	return out
}

// sortByCustomerID : ordre numérique si tous les identifiants sont des entiers ("9999" < "12346"),
// ordre lexical sinon.
func sortByCustomerID(records []models.CustomerRFM) {
	nums := make([]int64, len(records))
	numeric := true
	for i, r := range records {
		n, err := strconv.ParseInt(r.CustomerID, 10, 64)
		if err != nil {
			numeric = false
			break
		}
		nums[i] = n
	}
	if !numeric {
		sort.Slice(records, func(i, j int) bool { return records[i].CustomerID < records[j].CustomerID })
		return
	}
	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return nums[idx[a]] < nums[idx[b]] })
	sorted := make([]models.CustomerRFM, len(records))
	for pos, i := range idx {
		sorted[pos] = records[i]
	}
	copy(records, sorted)
}

// jours entiers, arrondis vers le bas, jamais négatifs
func recencyDays(ref, latest time.Time) int {
	d := ref.Sub(latest)
	if d < 0 {
		return 0
	}
	return int(d / day)
}
