package analytics

import (
	"fmt"
	"sort"
	"time"

	"finsentry/internal/models"
)

// Location sets and thresholds for the geographic module. Fixed contract
// values, mirrored from the investigation playbook.
var (
	highRiskLocations = map[string]bool{
		"Border_Area": true,
		"Unknown":     true,
		"Offshore":    true,
		"Tax_Haven":   true,
	}
	domesticLocations = map[string]bool{
		"Mumbai":    true,
		"Delhi":     true,
		"Bangalore": true,
		"Chennai":   true,
		"Pune":      true,
		"Hyderabad": true,
		"Kolkata":   true,
		"Ahmedabad": true,
	}
)

const (
	highRiskPctThreshold    = 10.0
	concentrationThreshold  = 0.5
	lowDiversityScore       = 0.05
	lowDiversityUniqueMax   = 5
	crossBorderPctThreshold = 20.0
	maxHighRiskSamples      = 50
	topLocationCount        = 5
)

// AnalyzeGeographic clusters activity by location and flags high-risk,
// concentrated or cross-border patterns. A dataset without any location
// data yields an explicit error-shaped result instead of a failure; this is
// the only module that short-circuits.
func AnalyzeGeographic(txs []models.Transaction) (AnalyticsResult, error) {
	if len(txs) == 0 {
		return AnalyticsResult{}, fmt.Errorf("%w: transaction locations", ErrMissingData)
	}
	if !hasLocationData(txs) {
		return AnalyticsResult{
			Kind:            KindGeographic,
			GeneratedAt:     time.Now(),
			RiskLevel:       RiskUnknown,
			Visualizations:  []string{},
			Recommendations: []string{"Ensure location data is available for geographic analysis"},
			Geographic:      &GeographicReport{MissingLocation: true},
		}, nil
	}

	total := len(txs)
	stats := make(map[string]LocationStats)
	customersPerLocation := make(map[string]map[string]struct{})
	counts := make(map[string]int)

	highRiskCount := 0
	crossBorderCount := 0
	highRiskByLocation := make(map[string]int)
	crossBorderByLocation := make(map[string]int)
	var highRiskSamples []TransactionRef

	for i := range txs {
		loc := txs[i].Location
		s := stats[loc]
		s.Count++
		s.Sum += txs[i].Amount
		stats[loc] = s
		counts[loc]++
		if customersPerLocation[loc] == nil {
			customersPerLocation[loc] = make(map[string]struct{})
		}
		customersPerLocation[loc][txs[i].CustomerID] = struct{}{}

		if highRiskLocations[loc] {
			highRiskCount++
			highRiskByLocation[loc]++
			if len(highRiskSamples) < maxHighRiskSamples {
				highRiskSamples = append(highRiskSamples, TransactionRef{
					TransactionID: txs[i].TransactionID,
					CustomerID:    txs[i].CustomerID,
					Location:      loc,
					Amount:        txs[i].Amount,
					Timestamp:     txs[i].Timestamp,
				})
			}
		}
		if !domesticLocations[loc] {
			crossBorderCount++
			crossBorderByLocation[loc]++
		}
	}
	for loc, s := range stats {
		s.Mean = s.Sum / float64(s.Count)
		s.UniqueCustomers = len(customersPerLocation[loc])
		stats[loc] = s
	}

	uniqueLocations := len(counts)
	highRiskPct := percentage(highRiskCount, total)
	crossBorderPct := percentage(crossBorderCount, total)
	diversity := 0.0
	if total > 0 {
		diversity = float64(uniqueLocations) / float64(total)
	}

	topLocations, topLocation, topCount := topNLocations(counts, topLocationCount)

	var anomalies []Anomaly
	if highRiskPct > highRiskPctThreshold {
		anomalies = append(anomalies, Anomaly{
			Type:        "high_risk_locations",
			Severity:    RiskHigh,
			Description: fmt.Sprintf("%.1f%% of transactions from high-risk locations", highRiskPct),
			Locations:   highRiskByLocation,
		})
	}
	if topCount > 0 && float64(topCount)/float64(total) > concentrationThreshold {
		anomalies = append(anomalies, Anomaly{
			Type:        "location_concentration",
			Severity:    RiskMedium,
			Description: fmt.Sprintf("Over 50%% of transactions concentrated in %s", topLocation),
			Score:       float64(topCount) / float64(total) * 100,
		})
	}
	if diversity < lowDiversityScore && uniqueLocations < lowDiversityUniqueMax {
		anomalies = append(anomalies, Anomaly{
			Type:        "low_diversity",
			Severity:    RiskMedium,
			Description: fmt.Sprintf("Low geographic diversity: only %d unique locations", uniqueLocations),
			Score:       diversity,
		})
	}
	if crossBorderPct > crossBorderPctThreshold {
		anomalies = append(anomalies, Anomaly{
			Type:        "cross_border_activity",
			Severity:    RiskHigh,
			Description: fmt.Sprintf("High cross-border activity: %.1f%% of transactions", crossBorderPct),
			Locations:   crossBorderByLocation,
		})
	}

	var recommendations []string
	for _, a := range anomalies {
		if a.Severity == RiskHigh {
			recommendations = append(recommendations, "Priority investigation: "+a.Description)
		} else {
			recommendations = append(recommendations, "Enhanced monitoring: "+a.Description)
		}
	}
	if len(anomalies) == 0 {
		recommendations = append(recommendations, "Geographic patterns appear normal - maintain standard monitoring")
	}
	recommendations = append(recommendations,
		"Consider implementing real-time location verification",
		"Cross-reference with known high-risk geographic zones")

	return AnalyticsResult{
		Kind:            KindGeographic,
		GeneratedAt:     time.Now(),
		RiskLevel:       anomalyRiskLevel(anomalies),
		Visualizations:  []string{"location_heatmap", "geographic_distribution", "risk_zones_map"},
		Recommendations: recommendations,
		Geographic: &GeographicReport{
			TotalLocations:        uniqueLocations,
			HighRiskPercentage:    highRiskPct,
			CrossBorderPercentage: crossBorderPct,
			DiversityScore:        diversity,
			AnomaliesDetected:     len(anomalies),
			LocationStats:         stats,
			TopLocations:          topLocations,
			Anomalies:             anomalies,
			HighRiskTransactions:  highRiskSamples,
		},
	}, nil
}

// IsHighRiskLocation reports whether a location is in the fixed high-risk
// set shared with the predictive scorer.
func IsHighRiskLocation(location string) bool {
	return highRiskLocations[location]
}

func hasLocationData(txs []models.Transaction) bool {
	for i := range txs {
		if txs[i].Location != "" {
			return true
		}
	}
	return false
}

// topNLocations returns the n most frequent locations with their counts,
// plus the single most frequent one. Ties break alphabetically so results
// are stable.
func topNLocations(counts map[string]int, n int) (map[string]int, string, int) {
	type locCount struct {
		loc   string
		count int
	}
	all := make([]locCount, 0, len(counts))
	for loc, c := range counts {
		all = append(all, locCount{loc, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].loc < all[j].loc
	})
	top := make(map[string]int)
	for i := 0; i < len(all) && i < n; i++ {
		top[all[i].loc] = all[i].count
	}
	if len(all) == 0 {
		return top, "", 0
	}
	return top, all[0].loc, all[0].count
}
