package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	t.Run("standard export", func(t *testing.T) {
		csv := strings.Join([]string{
			"Transaction_ID,Customer_ID,Merchant_Name,Merchant_Category,Payment_Method,Amount,Location,Timestamp",
			"TXN_001,CUST_01,Big Bazaar,Grocery,UPI,450.50,Mumbai,2024-01-15 10:30:00",
			"TXN_002,CUST_02,Tanishq,Gold_Jewelry,RTGS,250000,Delhi,2024-01-15T23:45:00",
		}, "\n")

		result, err := ParseCSV(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, result.Transactions, 2)
		assert.Zero(t, result.Skipped)
		assert.False(t, result.MissingTimestamps)

		tx := result.Transactions[0]
		assert.Equal(t, "TXN_001", tx.TransactionID)
		assert.Equal(t, "CUST_01", tx.CustomerID)
		assert.Equal(t, "Big Bazaar", tx.MerchantName)
		assert.Equal(t, 450.50, tx.Amount)
		assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), tx.Timestamp)
	})

	t.Run("header aliases", func(t *testing.T) {
		csv := strings.Join([]string{
			"id,merchant,category,amount,city,date",
			"T1,Reliance,Retail,99.99,Pune,2024-02-01",
		}, "\n")

		result, err := ParseCSV(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, result.Transactions, 1)

		tx := result.Transactions[0]
		assert.Equal(t, "T1", tx.TransactionID)
		assert.Equal(t, "Reliance", tx.MerchantName)
		assert.Equal(t, "Retail", tx.MerchantCategory)
		assert.Equal(t, "Pune", tx.Location)
	})

	t.Run("bad amounts are skipped", func(t *testing.T) {
		csv := strings.Join([]string{
			"amount,customer_id",
			"100.0,C1",
			"not-a-number,C2",
			"-50,C3",
			"200.0,C4",
		}, "\n")

		result, err := ParseCSV(strings.NewReader(csv))
		require.NoError(t, err)
		assert.Len(t, result.Transactions, 2)
		assert.Equal(t, 2, result.Skipped)
	})

	t.Run("missing transaction ID is generated", func(t *testing.T) {
		csv := "amount\n55.5\n"
		result, err := ParseCSV(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, result.Transactions, 1)
		assert.Equal(t, "TXN_000001", result.Transactions[0].TransactionID)
	})

	t.Run("missing timestamp column", func(t *testing.T) {
		csv := "amount,customer_id\n100,C1\n"
		result, err := ParseCSV(strings.NewReader(csv))
		require.NoError(t, err)
		assert.True(t, result.MissingTimestamps)
		assert.False(t, result.Transactions[0].Timestamp.IsZero())
	})

	t.Run("no amount column", func(t *testing.T) {
		csv := "customer_id,location\nC1,Mumbai\n"
		_, err := ParseCSV(strings.NewReader(csv))
		assert.ErrorIs(t, err, ErrNoAmountColumn)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("unparseable timestamp falls back", func(t *testing.T) {
		csv := "amount,timestamp\n100,someday\n"
		result, err := ParseCSV(strings.NewReader(csv))
		require.NoError(t, err)
		assert.False(t, result.Transactions[0].Timestamp.IsZero())
	})
}
