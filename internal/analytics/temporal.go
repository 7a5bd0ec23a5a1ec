package analytics

import (
	"fmt"
	"sort"
	"time"

	"finsentry/internal/models"
)

// Fixed contract thresholds for the temporal module.
const (
	unusualHourPctThreshold   = 15.0
	rapidSuccessionMaxGap     = 300.0 // seconds
	velocityAbusePctThreshold = 5.0
	weekendPctThreshold       = 40.0
	maxRapidSamples           = 20
)

func isUnusualHour(hour int) bool {
	return hour <= 5 || hour >= 22
}

// AnalyzeTemporal detects timing and velocity anomalies: off-hours
// activity, rapid-succession bursts and weekend-heavy behavior.
func AnalyzeTemporal(txs []models.Transaction) (AnalyticsResult, error) {
	if len(txs) == 0 {
		return AnalyticsResult{}, fmt.Errorf("%w: transaction timestamps", ErrMissingData)
	}

	total := len(txs)

	hourly := make(map[int]PeriodStats)
	daily := make(map[int]PeriodStats)
	monthly := make(map[int]PeriodStats)

	unusualCount := 0
	weekendCount := 0
	for i := range txs {
		ts := txs[i].Timestamp
		hour := ts.Hour()
		dow := pythonWeekday(ts.Weekday())
		accumulate(hourly, hour, txs[i].Amount)
		accumulate(daily, dow, txs[i].Amount)
		accumulate(monthly, int(ts.Month()), txs[i].Amount)
		if isUnusualHour(hour) {
			unusualCount++
		}
		if dow == 5 || dow == 6 {
			weekendCount++
		}
	}
	finalizeMeans(hourly)
	finalizeMeans(daily)
	finalizeMeans(monthly)

	// Rapid-succession pairs over the time-sorted table. Identical
	// timestamps are excluded; only strictly positive gaps count.
	ordered := make([]*models.Transaction, total)
	for i := range txs {
		ordered[i] = &txs[i]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	var rapid []RapidTransaction
	rapidCount := 0
	for i := 1; i < len(ordered); i++ {
		gap := ordered[i].Timestamp.Sub(ordered[i-1].Timestamp).Seconds()
		if gap > 0 && gap <= rapidSuccessionMaxGap {
			rapidCount++
			if len(rapid) < maxRapidSamples {
				rapid = append(rapid, RapidTransaction{
					TransactionID: ordered[i].TransactionID,
					CustomerID:    ordered[i].CustomerID,
					Amount:        ordered[i].Amount,
					Timestamp:     ordered[i].Timestamp,
					GapSeconds:    gap,
				})
			}
		}
	}

	unusualPct := percentage(unusualCount, total)
	rapidPct := percentage(rapidCount, total)
	weekendPct := percentage(weekendCount, total)

	var anomalies []Anomaly
	if unusualPct > unusualHourPctThreshold {
		anomalies = append(anomalies, Anomaly{
			Type:        "unusual_hours",
			Severity:    RiskHigh,
			Description: fmt.Sprintf("%.1f%% of transactions occur during unusual hours", unusualPct),
			Count:       unusualCount,
		})
	}
	if rapidPct > velocityAbusePctThreshold {
		anomalies = append(anomalies, Anomaly{
			Type:        "velocity_abuse",
			Severity:    RiskMedium,
			Description: fmt.Sprintf("%.1f%% of transactions show rapid succession patterns", rapidPct),
			Count:       rapidCount,
		})
	}
	if weekendPct > weekendPctThreshold {
		anomalies = append(anomalies, Anomaly{
			Type:        "weekend_activity",
			Severity:    RiskMedium,
			Description: fmt.Sprintf("High weekend activity: %.1f%% of transactions", weekendPct),
			Count:       weekendCount,
		})
	}

	var recommendations []string
	for _, a := range anomalies {
		if a.Severity == RiskHigh {
			recommendations = append(recommendations, "Immediate investigation required: "+a.Description)
		} else {
			recommendations = append(recommendations, "Monitor closely: "+a.Description)
		}
	}
	if len(anomalies) == 0 {
		recommendations = append(recommendations, "Temporal patterns appear normal - continue routine monitoring")
	}

	return AnalyticsResult{
		Kind:            KindTemporal,
		GeneratedAt:     time.Now(),
		RiskLevel:       anomalyRiskLevel(anomalies),
		Visualizations:  []string{"hourly_heatmap", "daily_patterns", "velocity_timeline"},
		Recommendations: recommendations,
		Temporal: &TemporalReport{
			TotalTransactions:       total,
			UnusualHourPercentage:   unusualPct,
			VelocityAbusePercentage: rapidPct,
			WeekendPercentage:       weekendPct,
			AnomaliesDetected:       len(anomalies),
			HourlyStats:             hourly,
			DailyStats:              daily,
			MonthlyStats:            monthly,
			Anomalies:               anomalies,
			RapidTransactions:       rapid,
		},
	}, nil
}

// pythonWeekday maps Go weekdays onto the Monday=0..Sunday=6 convention the
// thresholds were defined against.
func pythonWeekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func accumulate(m map[int]PeriodStats, key int, amount float64) {
	s := m[key]
	s.Count++
	s.Sum += amount
	m[key] = s
}

func finalizeMeans(m map[int]PeriodStats) {
	for k, s := range m {
		if s.Count > 0 {
			s.Mean = s.Sum / float64(s.Count)
		}
		m[k] = s
	}
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// anomalyRiskLevel applies the shared HIGH/MEDIUM/LOW rule: HIGH when any
// high-severity anomaly exists, MEDIUM when any anomaly exists at all.
func anomalyRiskLevel(anomalies []Anomaly) RiskLevel {
	for _, a := range anomalies {
		if a.Severity == RiskHigh {
			return RiskHigh
		}
	}
	if len(anomalies) > 0 {
		return RiskMedium
	}
	return RiskLow
}
