package analytics

import (
	"fmt"
	"testing"
	"time"

	"finsentry/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeTemporal(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := AnalyzeTemporal(nil)
		assert.ErrorIs(t, err, ErrMissingData)
	})

	t.Run("unusual hour concentration flags HIGH", func(t *testing.T) {
		// 500 transactions, 100 of them between 00:00 and 05:00.
		txs := make([]models.Transaction, 0, 500)
		for i := 0; i < 400; i++ {
			txs = append(txs, tx(fmt.Sprintf("D%03d", i), fmt.Sprintf("C%d", i%5), "M1",
				500, at(1+i%28, 10+i%8, i%60)))
		}
		for i := 0; i < 100; i++ {
			txs = append(txs, tx(fmt.Sprintf("N%03d", i), fmt.Sprintf("C%d", i%5), "M1",
				500, at(1+i%28, i%6, i%60)))
		}

		result, err := AnalyzeTemporal(txs)
		require.NoError(t, err)
		require.NotNil(t, result.Temporal)

		assert.Equal(t, RiskHigh, result.RiskLevel)
		assert.InDelta(t, 20.0, result.Temporal.UnusualHourPercentage, 1e-9)

		var found bool
		for _, a := range result.Temporal.Anomalies {
			if a.Type == "unusual_hours" {
				found = true
				assert.Equal(t, RiskHigh, a.Severity)
			}
		}
		assert.True(t, found, "expected an unusual_hours anomaly")
	})

	t.Run("rapid succession pairs", func(t *testing.T) {
		base := at(1, 10, 0)
		txs := []models.Transaction{
			tx("T1", "C1", "M1", 100, base),
			tx("T2", "C1", "M1", 100, base.Add(30*time.Second)),
			tx("T3", "C1", "M1", 100, base.Add(10*time.Minute)),
		}

		result, err := AnalyzeTemporal(txs)
		require.NoError(t, err)

		require.Len(t, result.Temporal.RapidTransactions, 1)
		rapid := result.Temporal.RapidTransactions[0]
		assert.Equal(t, "T2", rapid.TransactionID)
		assert.InDelta(t, 30.0, rapid.GapSeconds, 1e-9)
	})

	t.Run("percentages stay in range", func(t *testing.T) {
		result, err := AnalyzeTemporal(spread(200, 10))
		require.NoError(t, err)

		for name, pct := range map[string]float64{
			"unusual":  result.Temporal.UnusualHourPercentage,
			"velocity": result.Temporal.VelocityAbusePercentage,
			"weekend":  result.Temporal.WeekendPercentage,
		} {
			assert.GreaterOrEqual(t, pct, 0.0, name)
			assert.LessOrEqual(t, pct, 100.0, name)
		}
	})

	t.Run("hourly stats have means", func(t *testing.T) {
		txs := []models.Transaction{
			tx("T1", "C1", "M1", 100, at(1, 10, 0)),
			tx("T2", "C1", "M1", 300, at(2, 10, 0)),
		}
		result, err := AnalyzeTemporal(txs)
		require.NoError(t, err)

		stats := result.Temporal.HourlyStats[10]
		assert.Equal(t, 2, stats.Count)
		assert.InDelta(t, 200.0, stats.Mean, 1e-9)
	})
}

func TestPythonWeekday(t *testing.T) {
	// 2024-01-01 was a Monday.
	assert.Equal(t, 0, pythonWeekday(at(1, 0, 0).Weekday()))
	assert.Equal(t, 5, pythonWeekday(at(6, 0, 0).Weekday()))
	assert.Equal(t, 6, pythonWeekday(at(7, 0, 0).Weekday()))
}
