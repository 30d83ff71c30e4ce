// Package sheet lit l'export de transactions (xlsx ou csv) en []models.Transaction.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"rfm-segments/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ErrMissingColumns : une ou plusieurs colonnes obligatoires sont absentes de l'en-tête.
var ErrMissingColumns = errors.New("colonnes obligatoires manquantes")

// ErrUnsupportedFormat : extension de fichier non gérée.
var ErrUnsupportedFormat = errors.New("format de fichier non supporté")

const (
	colInvoice  = "InvoiceNo"
	colCustomer = "CustomerID"
	colQuantity = "Quantity"
	colPrice    = "UnitPrice"
	colDate     = "InvoiceDate"
	colStock    = "StockCode"
	colDesc     = "Description"
	colCountry  = "Country"
)

var required = []string{colInvoice, colCustomer, colQuantity, colPrice, colDate}

// variantes rencontrées dans les exports "Online Retail" et "Online Retail II"
var aliases = map[string]string{
	"invoiceno":   colInvoice,
	"invoice":     colInvoice,
	"customerid":  colCustomer,
	"customer":    colCustomer,
	"quantity":    colQuantity,
	"qty":         colQuantity,
	"unitprice":   colPrice,
	"price":       colPrice,
	"invoicedate": colDate,
	"date":        colDate,
	"stockcode":   colStock,
	"description": colDesc,
	"country":     colCountry,
}

var dateLayouts = []string{
	time.DateTime,
	"2006-01-02 15:04",
	time.RFC3339,
	time.DateOnly,
	"1/2/2006 15:04",
	"1/2/06 15:04",
}

// Load choisit le lecteur selon l'extension (.xlsx, .xlsm, .csv).
func Load(path, sheetName string) ([]models.Transaction, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadXLSX(path, sheetName)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// LoadXLSX lit la feuille demandée (la première si sheetName est vide).
// Les dates sont lues en valeur brute (numéro de série Excel).
func LoadXLSX(path, sheetName string) ([]models.Transaction, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: aucune feuille", path)
		}
		sheetName = sheets[0]
	}
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("feuille %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("feuille %q vide: %w", sheetName, ErrMissingColumns)
	}
	return parseRows(rows[0], rows[1:])
}

// ReadCSV lit un export CSV avec en-tête.
func ReadCSV(r io.Reader) ([]models.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv vide: %w", ErrMissingColumns)
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return parseRows(header, records[1:])
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

// columnIndex associe chaque colonne canonique à sa position ; erreur si une colonne obligatoire manque.
func columnIndex(header []string) (map[string]int, error) {
	idx := map[string]int{}
	for i, h := range header {
		if canon, ok := aliases[normalizeHeader(h)]; ok {
			if _, dup := idx[canon]; !dup {
				idx[canon] = i
			}
		}
	}
	var missing []string
	for _, c := range required {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRows(header []string, rows [][]string) ([]models.Transaction, error) {
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	out := make([]models.Transaction, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		line := i + 2 // ligne 1 = en-tête
		if isBlank(row) {
			skipped++
			continue
		}
		cell := func(col string) string {
			j, ok := idx[col]
			if !ok || j >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[j])
		}

		qty, err := parseQuantity(cell(colQuantity))
		if err != nil {
			return nil, fmt.Errorf("ligne %d: %s %q: %w", line, colQuantity, cell(colQuantity), err)
		}
		price, err := decimal.NewFromString(cell(colPrice))
		if err != nil {
			return nil, fmt.Errorf("ligne %d: %s %q: %w", line, colPrice, cell(colPrice), err)
		}
		at, err := parseDate(cell(colDate))
		if err != nil {
			return nil, fmt.Errorf("ligne %d: %s %q: %w", line, colDate, cell(colDate), err)
		}

		out = append(out, models.Transaction{
			InvoiceNo:   normalizeID(cell(colInvoice)),
			StockCode:   cell(colStock),
			Description: cell(colDesc),
			Quantity:    qty,
			InvoiceDate: at,
			UnitPrice:   price,
			CustomerID:  normalizeID(cell(colCustomer)),
			Country:     cell(colCountry),
		})
	}
	if skipped > 0 {
		log.Printf("[DEBUG] %d ligne(s) vide(s) ignorée(s)", skipped)
	}
	return out, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseQuantity(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("quantité non entière")
	}
	return int(f), nil
}

// parseDate accepte un numéro de série Excel ou une date texte ; résultat en UTC.
func parseDate(s string) (time.Time, error) {
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return t.UTC(), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("date non reconnue")
}

// normalizeID : "17850.0" → "17850" (identifiants numériques relus comme flottants).
func normalizeID(s string) string {
	dot := strings.IndexByte(s, '.')
	if dot <= 0 || strings.Trim(s[dot+1:], "0") != "" {
		return s
	}
	for _, r := range s[:dot] {
		if r < '0' || r > '9' {
			return s
		}
	}
	return s[:dot]
}
