package analytics

import (
	"testing"

	"finsentry/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeNetwork(t *testing.T) {
	t.Run("empty input yields an empty graph", func(t *testing.T) {
		result, err := AnalyzeNetwork(nil)
		require.NoError(t, err)
		require.NotNil(t, result.Network)

		report := result.Network
		assert.Equal(t, 0, report.Metrics.TotalNodes)
		assert.Equal(t, 0, report.Metrics.TotalEdges)
		assert.Zero(t, report.Metrics.Density)
		assert.Empty(t, report.SuspiciousNodes)
		assert.Equal(t, 0, report.CommunitiesDetected)
		assert.Equal(t, RiskLow, result.RiskLevel)
	})

	t.Run("shared merchant component", func(t *testing.T) {
		txs := []models.Transaction{
			tx("T1", "C1", "M1", 100, at(1, 10, 0)),
			tx("T2", "C2", "M1", 200, at(1, 11, 0)),
			tx("T3", "C3", "M1", 300, at(1, 12, 0)),
		}

		result, err := AnalyzeNetwork(txs)
		require.NoError(t, err)
		require.NotNil(t, result.Network)

		report := result.Network
		assert.Equal(t, 4, report.Metrics.TotalNodes)
		assert.Equal(t, 3, report.Metrics.TotalEdges)
		// One undirected component of 4 nodes clears the size threshold.
		assert.Equal(t, 1, report.CommunitiesDetected)
		assert.Equal(t, KindNetwork, result.Kind)
	})

	t.Run("small components are not communities", func(t *testing.T) {
		txs := []models.Transaction{
			tx("T1", "C1", "M1", 100, at(1, 10, 0)),
			tx("T2", "C2", "M1", 200, at(1, 11, 0)),
			tx("T3", "C3", "M2", 300, at(1, 12, 0)),
		}

		result, err := AnalyzeNetwork(txs)
		require.NoError(t, err)
		// Components of size 3 and 2; neither exceeds the threshold.
		assert.Equal(t, 0, result.Network.CommunitiesDetected)
	})

	t.Run("suspicious nodes capped at ten", func(t *testing.T) {
		result, err := AnalyzeNetwork(spread(400, 40))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(result.Network.SuspiciousNodes), 10)
	})

	t.Run("risk level follows suspicious count", func(t *testing.T) {
		result, err := AnalyzeNetwork(spread(30, 4))
		require.NoError(t, err)
		assert.Contains(t, []RiskLevel{RiskLow, RiskMedium, RiskHigh}, result.RiskLevel)
	})

	t.Run("visualizations are stable", func(t *testing.T) {
		result, err := AnalyzeNetwork(spread(30, 4))
		require.NoError(t, err)
		assert.Equal(t, []string{"network_graph", "centrality_distribution", "community_detection"}, result.Visualizations)
	})
}
