// Package synthetic generates deterministic Indian-banking transaction data
// for demos, load tests and the CLI data generator. It replaces the need for
// real bank exports during development.
package synthetic

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"time"

	"finsentry/internal/models"
)

var (
	// DefaultPaymentMethods covers the common Indian payment rails.
	DefaultPaymentMethods = []string{
		models.PaymentMethodUPI,
		models.PaymentMethodNEFT,
		models.PaymentMethodRTGS,
		models.PaymentMethodIMPS,
		models.PaymentMethodCard,
		models.PaymentMethodNetBanking,
	}

	// DefaultMerchantCategories mixes everyday and high-value categories.
	DefaultMerchantCategories = []string{
		"Retail", "Food", "Grocery", "Transport", "Healthcare",
		"Entertainment", "Investment", "Gold_Jewelry", "Real_Estate",
	}

	// DefaultLocations are the domestic cities used when none are given.
	DefaultLocations = []string{
		"Mumbai", "Delhi", "Bangalore", "Chennai", "Pune", "Hyderabad",
	}

	// SuspiciousLocations is the default high-risk pool.
	SuspiciousLocations = []string{"Border_Area", "Unknown", "Offshore"}
)

// Options controls the generated batch. Zero values fall back to sensible
// defaults; the same Options always produce the same transactions.
type Options struct {
	Count     int
	Seed      int64
	Customers int
	Start     time.Time
	SpanDays  int

	PaymentMethods     []string
	MerchantCategories []string
	Locations          []string
	HighRiskLocations  []string

	// HighRiskShare is the fraction of transactions placed at a
	// high-risk location; UnusualHourShare the fraction timestamped
	// between 00:00 and 05:00.
	HighRiskShare    float64
	UnusualHourShare float64

	// RoundAmountShare forces amounts that are exact multiples of 1000.
	RoundAmountShare float64
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.Count == 0 {
		out.Count = 500
	}
	if out.Customers == 0 {
		out.Customers = 50
	}
	if out.Start.IsZero() {
		out.Start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if out.SpanDays == 0 {
		out.SpanDays = 30
	}
	if len(out.PaymentMethods) == 0 {
		out.PaymentMethods = DefaultPaymentMethods
	}
	if len(out.MerchantCategories) == 0 {
		out.MerchantCategories = DefaultMerchantCategories
	}
	if len(out.Locations) == 0 {
		out.Locations = DefaultLocations
	}
	if len(out.HighRiskLocations) == 0 {
		out.HighRiskLocations = SuspiciousLocations
	}
	return out
}

// Generate produces a deterministic batch of transactions.
func Generate(opts Options) []models.Transaction {
	o := opts.withDefaults()
	rng := rand.New(rand.NewSource(o.Seed))

	txs := make([]models.Transaction, o.Count)
	for i := 0; i < o.Count; i++ {
		day := rng.Intn(o.SpanDays)
		var hour int
		if o.UnusualHourShare > 0 && rng.Float64() < o.UnusualHourShare {
			hour = rng.Intn(6) // 00:00-05:59
		} else {
			hour = 8 + rng.Intn(13) // business-ish hours
		}
		ts := o.Start.AddDate(0, 0, day).
			Add(time.Duration(hour)*time.Hour +
				time.Duration(rng.Intn(60))*time.Minute +
				time.Duration(rng.Intn(60))*time.Second)

		var location string
		if o.HighRiskShare > 0 && rng.Float64() < o.HighRiskShare {
			location = o.HighRiskLocations[rng.Intn(len(o.HighRiskLocations))]
		} else {
			location = o.Locations[rng.Intn(len(o.Locations))]
		}

		var amount float64
		if o.RoundAmountShare > 0 && rng.Float64() < o.RoundAmountShare {
			amount = float64(1+rng.Intn(200)) * 1000
		} else {
			// Exponential-ish spread with a floor, like real spend data.
			amount = 200 + rng.ExpFloat64()*2000
		}

		txs[i] = models.Transaction{
			TransactionID:    fmt.Sprintf("TXN_%06d", i+1),
			CustomerID:       fmt.Sprintf("CUST_%04d", rng.Intn(o.Customers)+1),
			MerchantName:     fmt.Sprintf("Merchant_%04d", rng.Intn(200)+1),
			MerchantCategory: o.MerchantCategories[rng.Intn(len(o.MerchantCategories))],
			PaymentMethod:    o.PaymentMethods[rng.Intn(len(o.PaymentMethods))],
			Amount:           math.Round(amount*100) / 100,
			Location:         location,
			Timestamp:        ts,
		}
	}
	return txs
}

// CSVHeader is the column order written by WriteCSV and accepted by the
// ingest service.
var CSVHeader = []string{
	"Transaction_ID", "Customer_ID", "Merchant_Name", "Merchant_Category",
	"Payment_Method", "Amount", "Location", "Timestamp",
}

// WriteCSV streams the batch as a case-file CSV.
func WriteCSV(w io.Writer, txs []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range txs {
		record := []string{
			txs[i].TransactionID,
			txs[i].CustomerID,
			txs[i].MerchantName,
			txs[i].MerchantCategory,
			txs[i].PaymentMethod,
			strconv.FormatFloat(txs[i].Amount, 'f', 2, 64),
			txs[i].Location,
			txs[i].Timestamp.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
