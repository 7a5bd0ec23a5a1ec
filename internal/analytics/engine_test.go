package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineAnalyze(t *testing.T) {
	engine := New()

	t.Run("unknown kind", func(t *testing.T) {
		_, err := engine.Analyze(context.Background(), Kind("astrology"), spread(10, 2))
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := engine.Analyze(ctx, KindNetwork, spread(10, 2))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("every kind runs", func(t *testing.T) {
		txs := spread(120, 10)
		for _, kind := range Kinds {
			result, err := engine.Analyze(context.Background(), kind, txs)
			require.NoError(t, err, kind)
			assert.Equal(t, kind, result.Kind)
			assert.NotZero(t, result.GeneratedAt)
		}
	})
}

func TestComprehensiveReport(t *testing.T) {
	engine := New()

	t.Run("all modules succeed", func(t *testing.T) {
		report := engine.ComprehensiveReport(context.Background(), spread(150, 10))

		assert.Len(t, report.Results, len(Kinds))
		assert.Equal(t, len(Kinds), report.Summary.AnalysesCompleted)
		assert.Empty(t, report.Summary.ModuleFailures)
		assert.Equal(t, 150, report.Summary.TotalTransactions)
		assert.NotEqual(t, RiskUnknown, report.Summary.OverallRiskLevel)
	})

	t.Run("missing location keeps geographic but skips its score", func(t *testing.T) {
		txs := spread(150, 10)
		for i := range txs {
			txs[i].Location = ""
		}

		report := engine.ComprehensiveReport(context.Background(), txs)

		geo, ok := report.Results[KindGeographic]
		require.True(t, ok)
		assert.Equal(t, RiskUnknown, geo.RiskLevel)
		assert.True(t, geo.Geographic.MissingLocation)
		// The other modules still contribute a score.
		assert.NotEqual(t, RiskUnknown, report.Summary.OverallRiskLevel)
	})

	t.Run("empty input isolates module failures", func(t *testing.T) {
		report := engine.ComprehensiveReport(context.Background(), nil)

		// Network tolerates an empty table; the other modules fail and
		// are omitted without aborting it.
		require.Len(t, report.Results, 1)
		net, ok := report.Results[KindNetwork]
		require.True(t, ok)
		assert.Equal(t, RiskLow, net.RiskLevel)

		assert.Equal(t, 1, report.Summary.AnalysesCompleted)
		require.Len(t, report.Summary.ModuleFailures, len(Kinds)-1)
		for _, kind := range []Kind{KindTemporal, KindGeographic, KindBehavioral, KindPredictive} {
			require.Contains(t, report.Summary.ModuleFailures, kind)
			assert.Contains(t, report.Summary.ModuleFailures[kind], ErrMissingData.Error())
		}
		assert.Equal(t, RiskMedium, report.Summary.OverallRiskLevel)
	})

	t.Run("idempotent apart from timestamps", func(t *testing.T) {
		txs := spread(150, 10)
		first := engine.ComprehensiveReport(context.Background(), txs)
		second := engine.ComprehensiveReport(context.Background(), txs)

		require.Equal(t, len(first.Results), len(second.Results))
		for kind, a := range first.Results {
			b := second.Results[kind]
			a.GeneratedAt = b.GeneratedAt
			assert.Equal(t, a, b, kind)
		}
		assert.Equal(t, first.Summary.OverallRiskScore, second.Summary.OverallRiskScore)
	})

	t.Run("priority actions capped", func(t *testing.T) {
		report := engine.ComprehensiveReport(context.Background(), spread(400, 6))
		assert.LessOrEqual(t, len(report.Summary.PriorityActions), 5)
	})
}

func TestBucketRiskScore(t *testing.T) {
	assert.Equal(t, RiskCritical, BucketRiskScore(80))
	assert.Equal(t, RiskHigh, BucketRiskScore(60))
	assert.Equal(t, RiskMedium, BucketRiskScore(30))
	assert.Equal(t, RiskLow, BucketRiskScore(10))
}

func TestRiskLevelScore(t *testing.T) {
	assert.Equal(t, 25.0, RiskLow.Score())
	assert.Equal(t, 50.0, RiskMedium.Score())
	assert.Equal(t, 75.0, RiskHigh.Score())
	assert.Equal(t, 100.0, RiskCritical.Score())
	assert.Equal(t, 50.0, RiskUnknown.Score())
}
