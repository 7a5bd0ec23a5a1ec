package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"finsentry/internal/models"
)

// Fixed contract thresholds for the behavioral module.
const (
	outlierContamination   = 0.1
	outlierSeed            = 42
	minProfilesForOutliers = 6
	highVelocityPerDay     = 10.0
	roundAmountPctAlert    = 50.0
	lowDiversityMinTxCount = 5
	roundAmountUnit        = 1000.0
	maxAlertCustomers      = 10
)

// AnalyzeBehavioral derives a behavioral profile per customer, flags the
// most isolated ~10% as outliers when enough profiles exist, and raises
// rule-based alerts for velocity abuse, round-amount structuring and
// low-diversity automation patterns.
func AnalyzeBehavioral(txs []models.Transaction) (AnalyticsResult, error) {
	if len(txs) == 0 {
		return AnalyticsResult{}, fmt.Errorf("%w: customer identifiers", ErrMissingData)
	}

	profiles := BuildProfiles(txs)

	if len(profiles) >= minProfilesForOutliers {
		markOutliers(profiles)
	}

	var suspicious []BehavioralProfile
	for _, p := range profiles {
		if p.Outlier {
			suspicious = append(suspicious, p)
		}
	}

	alerts := behavioralAlerts(profiles)

	var recommendations []string
	for _, a := range alerts {
		if a.Severity == RiskHigh {
			recommendations = append(recommendations, "Immediate review required: "+a.Description)
		} else {
			recommendations = append(recommendations, "Enhanced monitoring: "+a.Description)
		}
	}
	if len(alerts) == 0 {
		recommendations = append(recommendations, "Behavioral patterns appear normal")
	}
	recommendations = append(recommendations,
		"Implement continuous behavioral monitoring",
		"Consider machine learning-based behavior prediction")

	return AnalyticsResult{
		Kind:            KindBehavioral,
		GeneratedAt:     time.Now(),
		RiskLevel:       anomalyRiskLevel(alerts),
		Visualizations:  []string{"behavior_clusters", "velocity_distribution", "diversity_matrix"},
		Recommendations: recommendations,
		Behavioral: &BehavioralReport{
			TotalCustomers:        len(profiles),
			SuspiciousCount:       len(suspicious),
			AlertCount:            len(alerts),
			Profiles:              profiles,
			SuspiciousCustomers:   suspicious,
			PaymentMethodStats:    categoryStats(txs, func(t *models.Transaction) string { return t.PaymentMethod }),
			MerchantCategoryStats: categoryStats(txs, func(t *models.Transaction) string { return t.MerchantCategory }),
			Alerts:                alerts,
		},
	}, nil
}

// BuildProfiles derives one BehavioralProfile per distinct customer,
// ordered by customer ID.
func BuildProfiles(txs []models.Transaction) []BehavioralProfile {
	byCustomer := make(map[string][]*models.Transaction)
	for i := range txs {
		id := txs[i].CustomerID
		if id == "" {
			continue
		}
		byCustomer[id] = append(byCustomer[id], &txs[i])
	}

	ids := make([]string, 0, len(byCustomer))
	for id := range byCustomer {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	profiles := make([]BehavioralProfile, 0, len(ids))
	for _, id := range ids {
		profiles = append(profiles, buildProfile(id, byCustomer[id]))
	}
	return profiles
}

func buildProfile(customerID string, txs []*models.Transaction) BehavioralProfile {
	count := len(txs)

	var total float64
	amounts := make([]float64, 0, count)
	hours := make([]float64, 0, count)
	locations := make(map[string]struct{})
	methods := make(map[string]struct{})
	roundCount := 0
	first, last := txs[0].Timestamp, txs[0].Timestamp

	for _, tx := range txs {
		total += tx.Amount
		amounts = append(amounts, tx.Amount)
		hours = append(hours, float64(tx.Timestamp.Hour()))
		if tx.Location != "" {
			locations[tx.Location] = struct{}{}
		}
		if tx.PaymentMethod != "" {
			methods[tx.PaymentMethod] = struct{}{}
		}
		if math.Mod(tx.Amount, roundAmountUnit) == 0 {
			roundCount++
		}
		if tx.Timestamp.Before(first) {
			first = tx.Timestamp
		}
		if tx.Timestamp.After(last) {
			last = tx.Timestamp
		}
	}

	mean := total / float64(count)
	cv := 0.0
	if mean > 0 {
		cv = sampleStdev(amounts) / mean
	}

	// Elapsed whole days between first and last activity; a single-day
	// burst still divides by one.
	spanDays := int(last.Sub(first).Hours() / 24)
	velocity := float64(count) / float64(max(spanDays, 1))

	return BehavioralProfile{
		CustomerID:             customerID,
		TransactionCount:       count,
		TotalAmount:            total,
		AvgAmount:              mean,
		AmountVariance:         cv,
		Velocity:               velocity,
		RoundAmountPercentage:  percentage(roundCount, count),
		LocationDiversity:      len(locations),
		PaymentMethodDiversity: len(methods),
		HourVariance:           sampleStdev(hours),
	}
}

// markOutliers normalizes the six derived features and runs the isolation
// forest, setting the Outlier flag in place.
func markOutliers(profiles []BehavioralProfile) {
	features := make([][]float64, len(profiles))
	for i, p := range profiles {
		features[i] = []float64{
			p.AmountVariance,
			p.Velocity,
			p.RoundAmountPercentage,
			float64(p.LocationDiversity),
			float64(p.PaymentMethodDiversity),
			p.HourVariance,
		}
	}

	var scaler StandardScaler
	normalized := scaler.FitTransform(features)

	forest := NewIsolationForest(outlierContamination, outlierSeed)
	flags := forest.FitPredict(normalized)
	for i := range profiles {
		profiles[i].Outlier = flags[i]
	}
}

func behavioralAlerts(profiles []BehavioralProfile) []Anomaly {
	var highVelocity, roundAmount, lowDiversity []string
	for _, p := range profiles {
		if p.Velocity > highVelocityPerDay {
			highVelocity = append(highVelocity, p.CustomerID)
		}
		if p.RoundAmountPercentage > roundAmountPctAlert {
			roundAmount = append(roundAmount, p.CustomerID)
		}
		if p.LocationDiversity <= 1 && p.PaymentMethodDiversity <= 1 && p.TransactionCount > lowDiversityMinTxCount {
			lowDiversity = append(lowDiversity, p.CustomerID)
		}
	}

	var alerts []Anomaly
	if len(highVelocity) > 0 {
		alerts = append(alerts, Anomaly{
			Type:        "high_velocity",
			Severity:    RiskHigh,
			Description: fmt.Sprintf("%d customers show high transaction velocity", len(highVelocity)),
			Customers:   capStrings(highVelocity, maxAlertCustomers),
		})
	}
	if len(roundAmount) > 0 {
		alerts = append(alerts, Anomaly{
			Type:        "round_amounts",
			Severity:    RiskMedium,
			Description: fmt.Sprintf("%d customers prefer round amounts (possible structuring)", len(roundAmount)),
			Customers:   capStrings(roundAmount, maxAlertCustomers),
		})
	}
	if len(lowDiversity) > 0 {
		alerts = append(alerts, Anomaly{
			Type:        "low_diversity",
			Severity:    RiskMedium,
			Description: fmt.Sprintf("%d customers show low behavioral diversity", len(lowDiversity)),
			Customers:   capStrings(lowDiversity, maxAlertCustomers),
		})
	}
	return alerts
}

func categoryStats(txs []models.Transaction, key func(*models.Transaction) string) map[string]CategoryStats {
	stats := make(map[string]CategoryStats)
	customers := make(map[string]map[string]struct{})
	for i := range txs {
		k := key(&txs[i])
		s := stats[k]
		s.Count++
		s.Sum += txs[i].Amount
		stats[k] = s
		if customers[k] == nil {
			customers[k] = make(map[string]struct{})
		}
		customers[k][txs[i].CustomerID] = struct{}{}
	}
	for k, s := range stats {
		s.Mean = s.Sum / float64(s.Count)
		s.UniqueCustomers = len(customers[k])
		stats[k] = s
	}
	return stats
}

// sampleStdev is the n-1 standard deviation; 0 for fewer than two points.
func sampleStdev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(n-1))
}

func capStrings(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
