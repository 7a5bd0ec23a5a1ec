// Command datagen writes a synthetic transaction CSV for exercising the
// analysis pipeline without real case data.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"finsentry/internal/synthetic"
)

func main() {
	var (
		out          = flag.String("out", "", "output file (default stdout)")
		count        = flag.Int("count", 500, "number of transactions")
		seed         = flag.Int64("seed", 42, "random seed")
		customers    = flag.Int("customers", 50, "number of distinct customers")
		start        = flag.String("start", "2024-01-01", "start date (YYYY-MM-DD)")
		spanDays     = flag.Int("span", 30, "span of the generated window in days")
		riskShare    = flag.Float64("high-risk-share", 0.05, "fraction of transactions in high-risk locations")
		unusualShare = flag.Float64("unusual-hour-share", 0.05, "fraction of transactions at unusual hours")
		roundShare   = flag.Float64("round-share", 0.1, "fraction of round-amount transactions")
	)
	flag.Parse()

	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		log.Fatalf("invalid -start: %v", err)
	}

	txs := synthetic.Generate(synthetic.Options{
		Count:            *count,
		Seed:             *seed,
		Customers:        *customers,
		Start:            startDate,
		SpanDays:         *spanDays,
		HighRiskShare:    *riskShare,
		UnusualHourShare: *unusualShare,
		RoundAmountShare: *roundShare,
	})

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("create %s: %v", *out, err)
		}
		defer f.Close()
		w = f
	}

	if err := synthetic.WriteCSV(w, txs); err != nil {
		log.Fatalf("write CSV: %v", err)
	}

	if *out != "" {
		log.Printf("wrote %d transactions to %s", len(txs), *out)
	}
}
