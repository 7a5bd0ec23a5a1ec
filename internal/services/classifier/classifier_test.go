package classifier

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"finsentry/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTx(amount float64, hour int) models.Transaction {
	return models.Transaction{
		TransactionID:    "T1",
		CustomerID:       "C1",
		MerchantCategory: "Grocery",
		PaymentMethod:    models.PaymentMethodUPI,
		Amount:           amount,
		Location:         "Mumbai",
		Timestamp:        time.Date(2024, 1, 15, hour, 0, 0, 0, time.UTC),
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to default", func(t *testing.T) {
		svc, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		require.NoError(t, err)
		require.NotNil(t, svc)

		p := svc.Score(&models.Transaction{Amount: 100, Timestamp: time.Now()})
		assert.GreaterOrEqual(t, p.Probability, 0.0)
		assert.LessOrEqual(t, p.Probability, 1.0)
	})

	t.Run("reads model file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.json")
		data := `{"bias":-1,"threshold":0.6,"weights":{"log_amount":0.5},"amount_mean":7,"amount_scale":2}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		svc, err := Load(path)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("rejects malformed model", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestScore(t *testing.T) {
	svc := Default()

	t.Run("probability bounds", func(t *testing.T) {
		for _, amount := range []float64{1, 100, 10000, 10000000} {
			tx := sampleTx(amount, 12)
			p := svc.Score(&tx)
			assert.GreaterOrEqual(t, p.Probability, 0.0)
			assert.LessOrEqual(t, p.Probability, 1.0)
		}
	})

	t.Run("risk factors raise probability", func(t *testing.T) {
		safe := sampleTx(500, 12)
		risky := sampleTx(500, 2)
		risky.Location = "Border_Area"
		risky.PaymentMethod = models.PaymentMethodCashDeposit
		risky.MerchantCategory = "Gold_Jewelry"

		pSafe := svc.Score(&safe)
		pRisky := svc.Score(&risky)
		assert.Greater(t, pRisky.Probability, pSafe.Probability)
	})

	t.Run("risk level follows probability", func(t *testing.T) {
		tx := sampleTx(500, 12)
		p := svc.Score(&tx)
		assert.Contains(t, []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"}, p.RiskLevel)
	})

	t.Run("deterministic", func(t *testing.T) {
		tx := sampleTx(1234.56, 3)
		assert.Equal(t, svc.Score(&tx), svc.Score(&tx))
	})
}

func TestScoreBatch(t *testing.T) {
	svc := Default()

	txs := []models.Transaction{
		sampleTx(100, 12),
		sampleTx(500000, 2),
		sampleTx(250, 14),
	}

	summary := svc.ScoreBatch(txs)
	assert.Equal(t, 3, summary.Total)
	assert.Len(t, summary.Predictions, 3)

	flagged := 0
	for _, p := range summary.Predictions {
		if p.IsFraud {
			flagged++
		}
	}
	assert.Equal(t, flagged, summary.Flagged)
	assert.InDelta(t, float64(flagged)/3, summary.FraudRate, 1e-9)
}

func TestNewWithModelDefaults(t *testing.T) {
	svc := NewWithModel(Model{})
	assert.Equal(t, 0.5, svc.model.Threshold)
	assert.Equal(t, 1.0, svc.model.AmountScale)
}

func TestScoreBatchEmpty(t *testing.T) {
	summary := Default().ScoreBatch(nil)
	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.FraudRate)
}
