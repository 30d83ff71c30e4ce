package calculator

import (
	"time"

	"rfm-segments/pkg/models"

	"github.com/shopspring/decimal"
)

var t0 = time.Date(2011, 12, 9, 12, 50, 0, 0, time.UTC)

func tx(invoice, customer string, qty int, price string, at time.Time) models.Transaction {
	return models.Transaction{
		InvoiceNo:   invoice,
		CustomerID:  customer,
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(price),
		InvoiceDate: at,
	}
}

func daysBefore(d int) time.Time {
	return t0.AddDate(0, 0, -d)
}
