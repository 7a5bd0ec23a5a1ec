package analytics

import (
	"fmt"
	"testing"

	"finsentry/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withLocation(txn models.Transaction, location string) models.Transaction {
	txn.Location = location
	return txn
}

func TestAnalyzeGeographic(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := AnalyzeGeographic(nil)
		assert.ErrorIs(t, err, ErrMissingData)
	})

	t.Run("missing location data", func(t *testing.T) {
		txs := spread(10, 3)
		for i := range txs {
			txs[i].Location = ""
		}

		result, err := AnalyzeGeographic(txs)
		require.NoError(t, err)
		require.NotNil(t, result.Geographic)

		assert.True(t, result.Geographic.MissingLocation)
		assert.Equal(t, RiskUnknown, result.RiskLevel)
		assert.NotEmpty(t, result.Recommendations)
	})

	t.Run("high risk location share flags HIGH", func(t *testing.T) {
		txs := make([]models.Transaction, 0, 20)
		for i := 0; i < 16; i++ {
			txs = append(txs, tx(fmt.Sprintf("T%02d", i), fmt.Sprintf("C%d", i%4), "M1", 100, at(1+i, 10, 0)))
		}
		for i := 0; i < 4; i++ {
			txs = append(txs, withLocation(
				tx(fmt.Sprintf("H%02d", i), fmt.Sprintf("C%d", i), "M1", 100, at(1+i, 11, 0)),
				"Border_Area"))
		}

		result, err := AnalyzeGeographic(txs)
		require.NoError(t, err)

		assert.Equal(t, RiskHigh, result.RiskLevel)
		assert.InDelta(t, 20.0, result.Geographic.HighRiskPercentage, 1e-9)

		var found bool
		for _, a := range result.Geographic.Anomalies {
			if a.Type == "high_risk_locations" {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("monotone in high risk share", func(t *testing.T) {
		build := func(highRisk int) []models.Transaction {
			txs := make([]models.Transaction, 0, 40)
			for i := 0; i < 40-highRisk; i++ {
				txs = append(txs, tx(fmt.Sprintf("T%02d", i), fmt.Sprintf("C%d", i%5), "M1", 100, at(1+i%28, 10, 0)))
			}
			for i := 0; i < highRisk; i++ {
				txs = append(txs, withLocation(
					tx(fmt.Sprintf("H%02d", i), fmt.Sprintf("C%d", i%5), "M1", 100, at(1+i%28, 11, 0)),
					"Offshore"))
			}
			return txs
		}

		prev := -1.0
		for _, n := range []int{0, 4, 8, 16, 32} {
			result, err := AnalyzeGeographic(build(n))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, result.Geographic.HighRiskPercentage, prev)
			prev = result.Geographic.HighRiskPercentage
		}
	})

	t.Run("cross border activity", func(t *testing.T) {
		txs := make([]models.Transaction, 0, 10)
		for i := 0; i < 7; i++ {
			txs = append(txs, tx(fmt.Sprintf("T%d", i), fmt.Sprintf("C%d", i%3), "M1", 100, at(1+i, 10, 0)))
		}
		for i := 0; i < 3; i++ {
			txs = append(txs, withLocation(
				tx(fmt.Sprintf("X%d", i), fmt.Sprintf("C%d", i), "M1", 100, at(1+i, 12, 0)),
				"Singapore"))
		}

		result, err := AnalyzeGeographic(txs)
		require.NoError(t, err)

		assert.InDelta(t, 30.0, result.Geographic.CrossBorderPercentage, 1e-9)
		var found bool
		for _, a := range result.Geographic.Anomalies {
			if a.Type == "cross_border_activity" {
				found = true
			}
		}
		assert.True(t, found)
	})
}

func TestIsHighRiskLocation(t *testing.T) {
	for _, loc := range []string{"Border_Area", "Unknown", "Offshore", "Tax_Haven"} {
		assert.True(t, IsHighRiskLocation(loc), loc)
	}
	assert.False(t, IsHighRiskLocation("Mumbai"))
}
