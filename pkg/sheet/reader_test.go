package sheet

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "retail.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadXLSX_OnlineRetailLayout(t *testing.T) {
	at := time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)
	path := writeWorkbook(t, [][]interface{}{
		{"InvoiceNo", "StockCode", "Description", "Quantity", "InvoiceDate", "UnitPrice", "CustomerID", "Country"},
		{"536365", "85123A", "WHITE HANGING HEART T-LIGHT HOLDER", 6, at, 2.55, 17850, "United Kingdom"},
		{"C536379", "D", "Discount", -1, at, 27.5, 14527, "United Kingdom"},
		{"536414", "22139", "", 56, at, 0, nil, "United Kingdom"},
	})

	txs, err := Load(path, "")
	require.NoError(t, err)
	require.Len(t, txs, 3)

	first := txs[0]
	assert.Equal(t, "536365", first.InvoiceNo)
	assert.Equal(t, "85123A", first.StockCode)
	assert.Equal(t, 6, first.Quantity)
	assert.Equal(t, "2.55", first.UnitPrice.String())
	assert.Equal(t, "17850", first.CustomerID)
	assert.Equal(t, "United Kingdom", first.Country)
	assert.WithinDuration(t, at, first.InvoiceDate, time.Second)

	assert.Equal(t, "C536379", txs[1].InvoiceNo)
	assert.Equal(t, -1, txs[1].Quantity)
	assert.Equal(t, "", txs[2].CustomerID)
}

func TestLoadXLSX_MissingColumns(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"InvoiceNo", "Quantity", "InvoiceDate"},
		{"536365", 6, time.Now()},
	})

	_, err := LoadXLSX(path, "")
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "CustomerID")
	assert.Contains(t, err.Error(), "UnitPrice")
}

func TestLoadXLSX_UnknownSheet(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{{"InvoiceNo"}})
	_, err := LoadXLSX(path, "Nope")
	assert.Error(t, err)
}

func TestReadCSV_RetailIIHeaders(t *testing.T) {
	in := "\ufeffInvoice,StockCode,Description,Quantity,InvoiceDate,Price,Customer ID,Country\n" +
		"489434,85048,LED LIGHT,12,12/1/2009 07:45,6.95,13085.0,United Kingdom\n" +
		"\n" +
		"489435,22350,CAT BOWL,12,2009-12-01 07:46:00,2.55,,United Kingdom\n"

	txs, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "489434", txs[0].InvoiceNo)
	assert.Equal(t, "13085", txs[0].CustomerID)
	assert.Equal(t, time.Date(2009, 12, 1, 7, 45, 0, 0, time.UTC), txs[0].InvoiceDate)
	assert.Equal(t, "", txs[1].CustomerID)
	assert.Equal(t, time.Date(2009, 12, 1, 7, 46, 0, 0, time.UTC), txs[1].InvoiceDate)
}

func TestReadCSV_MalformedCellReportsLine(t *testing.T) {
	in := "InvoiceNo,CustomerID,Quantity,UnitPrice,InvoiceDate\n" +
		"1,A,2,1.5,2011-01-01\n" +
		"2,B,two,1.5,2011-01-01\n"

	_, err := ReadCSV(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ligne 3")
	assert.Contains(t, err.Error(), "Quantity")
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load("retail.parquet", "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "17850", normalizeID("17850.0"))
	assert.Equal(t, "17850", normalizeID("17850"))
	assert.Equal(t, "17850.5", normalizeID("17850.5"))
	assert.Equal(t, "A1.0", normalizeID("A1.0"))
	assert.Equal(t, "", normalizeID(""))
}

func TestParseQuantity(t *testing.T) {
	n, err := parseQuantity("12.0")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = parseQuantity("1.5")
	assert.Error(t, err)
}
