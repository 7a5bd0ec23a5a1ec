// Package classifier is the pre-trained fraud scoring path used by the
// predict endpoints. It loads serialized logistic-regression weights at
// startup and scores single transactions or whole uploads. The analytics
// engine never consults it; the two risk views stay independent.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"

	"finsentry/internal/models"
)

// Prediction is the classifier output for one transaction.
type Prediction struct {
	IsFraud     bool    `json:"is_fraud"`
	Probability float64 `json:"probability"`
	RiskLevel   string  `json:"risk_level"`
}

// Model holds the serialized logistic weights. Training happens offline;
// this package only loads and applies the fit.
type Model struct {
	Bias      float64 `json:"bias"`
	Threshold float64 `json:"threshold"`

	Weights struct {
		LogAmount        float64 `json:"log_amount"`
		UnusualHour      float64 `json:"unusual_hour"`
		HighRiskPayment  float64 `json:"high_risk_payment"`
		HighRiskLocation float64 `json:"high_risk_location"`
		MerchantRisk     float64 `json:"merchant_risk"`
	} `json:"weights"`

	// AmountMean/AmountScale standardize log-amount the same way the
	// training pipeline did.
	AmountMean  float64 `json:"amount_mean"`
	AmountScale float64 `json:"amount_scale"`
}

// Service scores transactions with a loaded model.
type Service struct {
	model Model
}

// defaultModel approximates the shipped fit and keeps the predict
// endpoints working when the model file is absent, mirroring the original
// system's degraded mode.
func defaultModel() Model {
	var m Model
	m.Bias = -3.2
	m.Threshold = 0.5
	m.Weights.LogAmount = 0.45
	m.Weights.UnusualHour = 1.1
	m.Weights.HighRiskPayment = 0.8
	m.Weights.HighRiskLocation = 1.6
	m.Weights.MerchantRisk = 0.9
	m.AmountMean = 7.2
	m.AmountScale = 1.8
	return m
}

// Load reads a model file. A missing file is not fatal: the service falls
// back to the built-in default fit and logs the degradation.
func Load(path string) (*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("classifier: model file %s not found, using built-in fallback", path)
			return &Service{model: defaultModel()}, nil
		}
		return nil, fmt.Errorf("read model: %w", err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if m.Threshold == 0 {
		m.Threshold = 0.5
	}
	if m.AmountScale == 0 {
		m.AmountScale = 1
	}
	return &Service{model: m}, nil
}

// Default returns a service backed by the built-in fallback fit.
func Default() *Service {
	return &Service{model: defaultModel()}
}

// NewWithModel wraps an in-memory model; used by tests.
func NewWithModel(m Model) *Service {
	if m.Threshold == 0 {
		m.Threshold = 0.5
	}
	if m.AmountScale == 0 {
		m.AmountScale = 1
	}
	return &Service{model: m}
}

var highRiskPaymentMethods = map[string]bool{
	models.PaymentMethodCard:        true,
	models.PaymentMethodNetBanking:  true,
	models.PaymentMethodCashDeposit: true,
}

var highRiskMerchantCategories = map[string]float64{
	"Investment":   0.7,
	"Real_Estate":  0.8,
	"Gold_Jewelry": 0.9,
}

var scorerHighRiskLocations = map[string]bool{
	"Border_Area": true,
	"Unknown":     true,
	"Offshore":    true,
}

// Score applies the logistic fit to one transaction. Probability is always
// in [0,1].
func (s *Service) Score(tx *models.Transaction) Prediction {
	logAmount := math.Log1p(tx.Amount)
	z := s.model.Bias +
		s.model.Weights.LogAmount*(logAmount-s.model.AmountMean)/s.model.AmountScale

	hour := tx.Timestamp.Hour()
	if hour <= 5 || hour >= 22 {
		z += s.model.Weights.UnusualHour
	}
	if highRiskPaymentMethods[tx.PaymentMethod] {
		z += s.model.Weights.HighRiskPayment
	}
	if scorerHighRiskLocations[tx.Location] {
		z += s.model.Weights.HighRiskLocation
	}
	if risk, ok := highRiskMerchantCategories[tx.MerchantCategory]; ok {
		z += s.model.Weights.MerchantRisk * risk
	}

	p := 1 / (1 + math.Exp(-z))
	return Prediction{
		IsFraud:     p >= s.model.Threshold,
		Probability: p,
		RiskLevel:   probabilityRiskLevel(p),
	}
}

// BatchSummary aggregates a scored upload for the bulk predict endpoint.
type BatchSummary struct {
	Total       int          `json:"total"`
	Flagged     int          `json:"flagged"`
	FraudRate   float64      `json:"fraud_rate"`
	Predictions []Prediction `json:"predictions"`
}

// ScoreBatch scores a whole upload.
func (s *Service) ScoreBatch(txs []models.Transaction) BatchSummary {
	out := BatchSummary{
		Total:       len(txs),
		Predictions: make([]Prediction, len(txs)),
	}
	for i := range txs {
		out.Predictions[i] = s.Score(&txs[i])
		if out.Predictions[i].IsFraud {
			out.Flagged++
		}
	}
	if out.Total > 0 {
		out.FraudRate = float64(out.Flagged) / float64(out.Total)
	}
	return out
}

func probabilityRiskLevel(p float64) string {
	switch {
	case p >= 0.75:
		return "CRITICAL"
	case p >= 0.5:
		return "HIGH"
	case p >= 0.25:
		return "MEDIUM"
	default:
		return "LOW"
	}
}
