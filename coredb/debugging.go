package coredb

import (
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"bukken.rehub.jp/internal/logging"
)

func PrintSimpleSchema(c *Client) error { // nolint:unused
	rows, err := c.DB.Query(`
		SELECT type, name, sql
		FROM sqlite_master
		WHERE type IN ('table', 'index', 'view', 'trigger')
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY type, name
	`)
	if err != nil {
		return err
	}
	defer logging.SafeCloseWithLogging(rows,
		slog.Default().With(slog.String("component", "debugging")),
		"database_rows")

	log.Println("DATABASE SCHEMA:")
	log.Println("----------------")

	for rows.Next() {
		var objType, objName, objSQL string
		if err := rows.Scan(&objType, &objName, &objSQL); err != nil {
			return err
		}
		log.Printf("%s: %s\n", strings.ToUpper(objType), objName)
		log.Printf("%s\n\n", objSQL)
	}

	return rows.Err()
}

// TableCounts returns the row count of every application table.
func (c *Client) TableCounts() (map[string]int, error) {
	counts := make(map[string]int)

	for _, table := range []string{
		"tenants",
		"customers",
		"buildings",
		"inquiries",
		"activity_logs",
		"access_grants",
		"message_drafts",
		"dismissed_pairs",
		"merge_records",
	} {
		var query string

		// This prevents SQL injection by ensuring the query string is always a constant.
		switch table {
		case "tenants":
			query = "SELECT COUNT(*) FROM tenants"
		case "customers":
			query = "SELECT COUNT(*) FROM customers"
		case "buildings":
			query = "SELECT COUNT(*) FROM buildings"
		case "inquiries":
			query = "SELECT COUNT(*) FROM inquiries"
		case "activity_logs":
			query = "SELECT COUNT(*) FROM activity_logs"
		case "access_grants":
			query = "SELECT COUNT(*) FROM access_grants"
		case "message_drafts":
			query = "SELECT COUNT(*) FROM message_drafts"
		case "dismissed_pairs":
			query = "SELECT COUNT(*) FROM dismissed_pairs"
		case "merge_records":
			query = "SELECT COUNT(*) FROM merge_records"
		default:
			continue
		}

		var count int
		if err := c.DB.QueryRow(query).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = count
	}

	return counts, nil
}

// DumpCustomer pretty-prints a customer row for interactive debugging.
func DumpCustomer(c Customer) string { // nolint:unused
	return spew.Sdump(c)
}
