package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"rfm-segments/pkg/models"

	"github.com/shopspring/decimal"

	_ "github.com/go-sql-driver/mysql"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Open DSN mariadb:// ou mysql:// → format MySQL driver
func Open(dsn string) (*sql.DB, string, error) {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, "", err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, redact(mysqlDSN), nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("dsn incomplet (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

// redact masque le mot de passe pour les logs.
func redact(mysqlDSN string) string {
	at := strings.LastIndex(mysqlDSN, "@")
	colon := strings.Index(mysqlDSN, ":")
	if at < 0 || colon < 0 || colon > at {
		return mysqlDSN
	}
	return mysqlDSN[:colon+1] + "***" + mysqlDSN[at:]
}

// LoadTransactions lit les lignes de facture d'une table au schéma "Online Retail".
// CustomerID NULL → "" (écarté ensuite par le nettoyage).
func LoadTransactions(ctx context.Context, db *sql.DB, tableName string) ([]models.Transaction, error) {
	if !tableNameRe.MatchString(tableName) {
		return nil, fmt.Errorf("table invalide")
	}

	q := fmt.Sprintf(`
		SELECT
			t.InvoiceNo,
			COALESCE(t.StockCode, '') AS stockCode,
			COALESCE(t.Description, '') AS description,
			t.Quantity,
			t.InvoiceDate,
			CAST(t.UnitPrice AS CHAR) AS unitPrice,
			t.CustomerID,
			COALESCE(t.Country, '') AS country
		FROM %s t
	`, tableName)

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	nullCustomers := 0
	for rows.Next() {
		tx, hasCustomer, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		if !hasCustomer {
			nullCustomers++
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Printf("[DEBUG] %s: lignes lues=%d, sans client=%d", tableName, len(out), nullCustomers)
	return out, nil
}

// rowScanner : *sql.Rows ou *sql.Row
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTransaction lit une ligne dans l'ordre des colonnes du SELECT de LoadTransactions.
func scanTransaction(sc rowScanner) (models.Transaction, bool, error) {
	var (
		tx       models.Transaction
		price    string
		customer sql.NullString
	)
	if err := sc.Scan(&tx.InvoiceNo, &tx.StockCode, &tx.Description, &tx.Quantity,
		&tx.InvoiceDate, &price, &customer, &tx.Country); err != nil {
		return models.Transaction{}, false, err
	}
	unit, err := decimal.NewFromString(price)
	if err != nil {
		return models.Transaction{}, false, fmt.Errorf("facture %s: prix %q: %w", tx.InvoiceNo, price, err)
	}
	tx.UnitPrice = unit
	tx.InvoiceDate = tx.InvoiceDate.UTC()
	if customer.Valid {
		tx.CustomerID = strings.TrimSpace(customer.String)
	}
	return tx, customer.Valid, nil
}
