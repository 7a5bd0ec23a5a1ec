package analytics

import (
	"fmt"
	"time"

	"finsentry/internal/models"
)

// tx builds a transaction for tests. Timestamps use a fixed base day so
// hour-dependent logic is predictable.
func tx(id, customer, merchant string, amount float64, ts time.Time) models.Transaction {
	return models.Transaction{
		TransactionID:    id,
		CustomerID:       customer,
		MerchantName:     merchant,
		MerchantCategory: "Retail",
		PaymentMethod:    models.PaymentMethodUPI,
		Amount:           amount,
		Location:         "Mumbai",
		Timestamp:        ts,
	}
}

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

// spread builds n transactions across customers and daytime hours with
// nothing anomalous about them.
func spread(n, customers int) []models.Transaction {
	txs := make([]models.Transaction, 0, n)
	for i := 0; i < n; i++ {
		txs = append(txs, tx(
			fmt.Sprintf("TXN_%03d", i),
			fmt.Sprintf("CUST_%02d", i%customers),
			fmt.Sprintf("MERCH_%02d", i%7),
			100+float64(i%13)*37.5,
			at(1+i%28, 9+i%9, i%60),
		))
	}
	return txs
}
