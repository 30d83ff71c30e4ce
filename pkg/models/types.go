package models

import (
	"time"

	"github.com/shopspring/decimal"
)

/*
LOAD → types simples pour les lignes de facture lues depuis le fichier ou la base.
*/

// Transaction représente une ligne de facture brute (une ligne de l'export retail).
type Transaction struct {
	InvoiceNo   string
	StockCode   string
	Description string
	Quantity    int
	InvoiceDate time.Time
	UnitPrice   decimal.Decimal
	CustomerID  string // "" = identifiant client absent
	Country     string
}

// LineTotal = Quantity × UnitPrice
func (t Transaction) LineTotal() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// CleanStats compte les lignes écartées par le nettoyage.
type CleanStats struct {
	Raw             int
	Cancelled       int
	MissingCustomer int
	Kept            int
}

/*
COMPUTE → métriques par client
*/

// CustomerRFM contient les trois métriques RFM d'un client.
type CustomerRFM struct {
	CustomerID string
	Recency    int             // jours entre la date de référence et le dernier achat
	Frequency  int             // nombre de factures distinctes
	Monetary   decimal.Decimal // somme des LineTotal (peut être négative)
}

// ScoredCustomer = CustomerRFM + scores de quartile + code composite + segment.
type ScoredCustomer struct {
	CustomerRFM
	RScore   int
	FScore   int
	MScore   int
	RFMScore string // ex: "444"
	Segment  string
}

// Result est la sortie complète d'une exécution du pipeline.
type Result struct {
	RunID     string
	Reference time.Time // max(InvoiceDate) + 1 jour
	Stats     CleanStats
	Customers []ScoredCustomer
}

/*
CONFIG → paramètres passés au calcul
*/

// DegeneratePolicy décide du comportement quand les bornes de quartile se confondent.
type DegeneratePolicy string

const (
	DegenerateSpread DegeneratePolicy = "spread" // moins de bacs, scores étalés sur 1..4
	DegenerateFail   DegeneratePolicy = "fail"   // ErrDegenerateBins
)

// Config contient les paramètres de configuration passés à la fonction de calcul.
type Config struct {
	Degenerate DegeneratePolicy
	Verbose    bool // Flag pour activer les logs détaillés.
}
