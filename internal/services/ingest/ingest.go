// Package ingest turns uploaded case-file CSVs into transaction rows for
// the analytics engine. The transport layer hands it a raw reader; it hands
// back clean, fully populated transactions.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"finsentry/internal/models"
)

// ErrNoAmountColumn is returned when the upload has no recognizable amount
// column; nothing downstream can work without amounts.
var ErrNoAmountColumn = errors.New("csv has no amount column")

// ErrEmptyFile is returned for an upload without a header row.
var ErrEmptyFile = errors.New("csv file is empty")

// Result is a parsed upload. Skipped counts rows dropped for unparseable
// amounts; MissingTimestamps is set when the file carried no timestamp
// column and every row was stamped with the ingest time.
type Result struct {
	Transactions      []models.Transaction
	Skipped           int
	MissingTimestamps bool
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
}

// ParseCSV reads a case-file CSV. Header names are matched
// case-insensitively, ignoring underscores and spaces, so exports from
// different bank systems all land in the same shape. Rows missing optional
// fields get synthetic defaults; amounts and timestamps are never left
// empty downstream.
func ParseCSV(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return Result{}, ErrEmptyFile
	}
	if err != nil {
		return Result{}, fmt.Errorf("read header: %w", err)
	}

	cols := mapColumns(header)
	if _, ok := cols["amount"]; !ok {
		return Result{}, ErrNoAmountColumn
	}
	_, hasTimestamp := cols["timestamp"]

	now := time.Now()
	var result Result
	result.MissingTimestamps = !hasTimestamp
	rowNum := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("read row: %w", err)
		}
		rowNum++

		amount, err := strconv.ParseFloat(strings.TrimSpace(field(record, cols, "amount")), 64)
		if err != nil || amount < 0 {
			result.Skipped++
			continue
		}

		tx := models.Transaction{
			TransactionID:    field(record, cols, "transactionid"),
			CustomerID:       field(record, cols, "customerid"),
			AccountNumber:    field(record, cols, "accountnumber"),
			MerchantName:     field(record, cols, "merchantname"),
			MerchantCategory: field(record, cols, "merchantcategory"),
			PaymentMethod:    field(record, cols, "paymentmethod"),
			Amount:           amount,
			Location:         field(record, cols, "location"),
		}
		if tx.TransactionID == "" {
			tx.TransactionID = fmt.Sprintf("TXN_%06d", rowNum)
		}

		if hasTimestamp {
			tx.Timestamp = parseTimestamp(field(record, cols, "timestamp"), now)
		} else {
			tx.Timestamp = now
		}

		result.Transactions = append(result.Transactions, tx)
	}
	return result, nil
}

// mapColumns normalizes header names so "Transaction_ID", "transaction id"
// and "TransactionID" all resolve to the same column.
func mapColumns(header []string) map[string]int {
	aliases := map[string]string{
		"transactionid":    "transactionid",
		"txnid":            "transactionid",
		"id":               "transactionid",
		"customerid":       "customerid",
		"accountnumber":    "accountnumber",
		"account":          "accountnumber",
		"merchantname":     "merchantname",
		"merchant":         "merchantname",
		"merchantcategory": "merchantcategory",
		"category":         "merchantcategory",
		"paymentmethod":    "paymentmethod",
		"amount":           "amount",
		"location":         "location",
		"city":             "location",
		"timestamp":        "timestamp",
		"time":             "timestamp",
		"date":             "timestamp",
	}
	cols := make(map[string]int)
	for i, name := range header {
		key := strings.ToLower(name)
		key = strings.NewReplacer("_", "", " ", "", "-", "").Replace(key)
		if canonical, ok := aliases[key]; ok {
			if _, taken := cols[canonical]; !taken {
				cols[canonical] = i
			}
		}
	}
	return cols
}

func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseTimestamp(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return fallback
}
