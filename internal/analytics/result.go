// Package analytics is the batch transaction analytics engine. It turns an
// immutable slice of transactions into structured risk findings: a money-flow
// graph with centrality ranking, temporal and geographic anomaly detection,
// per-customer behavioral profiling and a composite predictive risk score,
// merged into one executive summary.
//
// The package is pure computation. It performs no I/O, keeps no state between
// calls, and never mutates its input.
package analytics

import "time"

// Kind identifies one analysis module.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindTemporal   Kind = "temporal"
	KindGeographic Kind = "geographic"
	KindBehavioral Kind = "behavioral"
	KindPredictive Kind = "predictive"
)

// Kinds lists every analysis module in report order.
var Kinds = []Kind{KindNetwork, KindTemporal, KindGeographic, KindBehavioral, KindPredictive}

// RiskLevel is the ordinal risk classification shared by all modules.
type RiskLevel string

const (
	RiskUnknown  RiskLevel = "UNKNOWN"
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Score maps a risk level onto the 0-100 ordinal scale used by the
// executive summary. Unrecognized levels count as the midpoint.
func (r RiskLevel) Score() float64 {
	switch r {
	case RiskLow:
		return 25
	case RiskMedium:
		return 50
	case RiskHigh:
		return 75
	case RiskCritical:
		return 100
	default:
		return 50
	}
}

// BucketRiskScore converts a 0-100 score back to a risk level using the
// fixed four-tier thresholds.
func BucketRiskScore(score float64) RiskLevel {
	switch {
	case score >= 75:
		return RiskCritical
	case score >= 50:
		return RiskHigh
	case score >= 25:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Trend describes the direction of the predicted risk score over time.
type Trend string

const (
	TrendIncreasing       Trend = "INCREASING"
	TrendDecreasing       Trend = "DECREASING"
	TrendStable           Trend = "STABLE"
	TrendInsufficientData Trend = "INSUFFICIENT_DATA"
)

// Anomaly is one detected irregularity. The optional fields are populated
// depending on the anomaly type.
type Anomaly struct {
	Type        string         `json:"type"`
	Severity    RiskLevel      `json:"severity"`
	Description string         `json:"description"`
	Count       int            `json:"count,omitempty"`
	Score       float64        `json:"score,omitempty"`
	Locations   map[string]int `json:"locations,omitempty"`
	Customers   []string       `json:"customers,omitempty"`
}

// AnalyticsResult is the tagged output of one analysis module. Exactly one
// of the per-kind report pointers is non-nil, matching Kind. Results are
// immutable once produced.
type AnalyticsResult struct {
	Kind            Kind      `json:"analysis_type"`
	GeneratedAt     time.Time `json:"timestamp"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Visualizations  []string  `json:"visualizations"`
	Recommendations []string  `json:"recommendations"`

	Network    *NetworkReport    `json:"network,omitempty"`
	Temporal   *TemporalReport   `json:"temporal,omitempty"`
	Geographic *GeographicReport `json:"geographic,omitempty"`
	Behavioral *BehavioralReport `json:"behavioral,omitempty"`
	Predictive *PredictiveReport `json:"predictive,omitempty"`
}

// NetworkMetrics summarizes the money-flow graph.
type NetworkMetrics struct {
	TotalNodes        int     `json:"total_nodes"`
	TotalEdges        int     `json:"total_edges"`
	Density           float64 `json:"density"`
	AverageClustering float64 `json:"average_clustering"`
}

// SuspiciousNode is a graph entity flagged by centrality thresholds.
type SuspiciousNode struct {
	NodeID                string  `json:"node_id"`
	DegreeCentrality      float64 `json:"degree_centrality"`
	BetweennessCentrality float64 `json:"betweenness_centrality"`
	PageRank              float64 `json:"pagerank"`
	TotalConnections      int     `json:"total_connections"`
}

// GraphNode and GraphEdge are the serialized graph representation handed to
// downstream visualization; the engine itself renders nothing.
type GraphNode struct {
	ID     string `json:"id"`
	Degree int    `json:"degree"`
}

type GraphEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

type GraphExport struct {
	Nodes   []GraphNode    `json:"nodes"`
	Edges   []GraphEdge    `json:"edges"`
	Metrics NetworkMetrics `json:"metrics"`
}

// NetworkReport holds the centrality and community findings.
type NetworkReport struct {
	Metrics             NetworkMetrics   `json:"network_metrics"`
	SuspiciousEntities  int              `json:"suspicious_entities_count"`
	CommunitiesDetected int              `json:"communities_detected"`
	SuspiciousNodes     []SuspiciousNode `json:"suspicious_nodes"`
	Communities         [][]string       `json:"communities"`
	Graph               GraphExport      `json:"network_graph"`
}

// PeriodStats aggregates transaction amounts over one time bucket.
type PeriodStats struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
}

// RapidTransaction is a sample of a rapid-succession pair, keyed by the
// later transaction of the pair.
type RapidTransaction struct {
	TransactionID string    `json:"transaction_id"`
	CustomerID    string    `json:"customer_id"`
	Amount        float64   `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
	GapSeconds    float64   `json:"gap_seconds"`
}

// TemporalReport holds timing and velocity findings.
type TemporalReport struct {
	TotalTransactions       int                 `json:"total_transactions"`
	UnusualHourPercentage   float64             `json:"unusual_hour_percentage"`
	VelocityAbusePercentage float64             `json:"velocity_abuse_percentage"`
	WeekendPercentage       float64             `json:"weekend_activity_percentage"`
	AnomaliesDetected       int                 `json:"anomalies_detected"`
	HourlyStats             map[int]PeriodStats `json:"hourly_stats"`
	DailyStats              map[int]PeriodStats `json:"daily_stats"`
	MonthlyStats            map[int]PeriodStats `json:"monthly_stats"`
	Anomalies               []Anomaly           `json:"anomalies"`
	RapidTransactions       []RapidTransaction  `json:"rapid_transactions"`
}

// LocationStats aggregates transactions for a single location.
type LocationStats struct {
	Count           int     `json:"count"`
	Sum             float64 `json:"sum"`
	Mean            float64 `json:"mean"`
	UniqueCustomers int     `json:"unique_customers"`
}

// TransactionRef is a compact reference to an interesting transaction.
type TransactionRef struct {
	TransactionID string    `json:"transaction_id"`
	CustomerID    string    `json:"customer_id"`
	Location      string    `json:"location"`
	Amount        float64   `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}

// GeographicReport holds location-based findings. MissingLocation marks the
// error-summary case where the dataset carries no location column; every
// other field is zero-valued then.
type GeographicReport struct {
	MissingLocation       bool                     `json:"missing_location,omitempty"`
	TotalLocations        int                      `json:"total_locations"`
	HighRiskPercentage    float64                  `json:"high_risk_percentage"`
	CrossBorderPercentage float64                  `json:"cross_border_percentage"`
	DiversityScore        float64                  `json:"diversity_score"`
	AnomaliesDetected     int                      `json:"anomalies_detected"`
	LocationStats         map[string]LocationStats `json:"location_stats"`
	TopLocations          map[string]int           `json:"top_locations"`
	Anomalies             []Anomaly                `json:"geographic_anomalies"`
	HighRiskTransactions  []TransactionRef         `json:"high_risk_transactions"`
}

// BehavioralProfile is the derived behavior of one customer.
type BehavioralProfile struct {
	CustomerID             string  `json:"customer_id"`
	TransactionCount       int     `json:"transaction_count"`
	TotalAmount            float64 `json:"total_amount"`
	AvgAmount              float64 `json:"avg_amount"`
	AmountVariance         float64 `json:"amount_variance"`
	Velocity               float64 `json:"velocity"`
	RoundAmountPercentage  float64 `json:"round_amount_percentage"`
	LocationDiversity      int     `json:"location_diversity"`
	PaymentMethodDiversity int     `json:"payment_method_diversity"`
	HourVariance           float64 `json:"hour_variance"`
	Outlier                bool    `json:"outlier"`
}

// CategoryStats aggregates transactions per payment method or merchant
// category.
type CategoryStats struct {
	Count           int     `json:"count"`
	Sum             float64 `json:"sum"`
	Mean            float64 `json:"mean"`
	UniqueCustomers int     `json:"unique_customers"`
}

// BehavioralReport holds the per-customer profiling findings.
type BehavioralReport struct {
	TotalCustomers        int                      `json:"total_customers"`
	SuspiciousCount       int                      `json:"suspicious_customers_count"`
	AlertCount            int                      `json:"behavioral_alerts"`
	Profiles              []BehavioralProfile      `json:"customer_profiles"`
	SuspiciousCustomers   []BehavioralProfile      `json:"suspicious_customers"`
	PaymentMethodStats    map[string]CategoryStats `json:"payment_method_stats"`
	MerchantCategoryStats map[string]CategoryStats `json:"merchant_category_stats"`
	Alerts                []Anomaly                `json:"alerts"`
}

// ScoredTransaction is one transaction with its composite risk score.
type ScoredTransaction struct {
	TransactionID string    `json:"transaction_id"`
	CustomerID    string    `json:"customer_id"`
	Amount        float64   `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
	RiskScore     float64   `json:"predicted_risk_score"`
	RiskLevel     RiskLevel `json:"predicted_risk_level"`
}

// ModelMetrics are the advertised offline-evaluation metrics of the scoring
// model. They are fixed reference values, not recomputed per batch.
type ModelMetrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`
	AUCScore  float64 `json:"auc_score"`
}

// FuturePrediction projects the risk trend forward.
type FuturePrediction struct {
	Timeframe      string  `json:"timeframe"`
	RiskChange     float64 `json:"predicted_risk_change"`
	Recommendation string  `json:"recommendation"`
}

// PredictiveReport holds the composite risk scoring findings.
type PredictiveReport struct {
	TotalTransactions    int                 `json:"total_transactions_analyzed"`
	HighRiskCount        int                 `json:"high_risk_count"`
	AverageRiskScore     float64             `json:"average_risk_score"`
	RiskTrend            Trend               `json:"risk_trend"`
	RiskDistribution     map[RiskLevel]int   `json:"risk_distribution"`
	HighRiskTransactions []ScoredTransaction `json:"high_risk_transactions"`
	Metrics              ModelMetrics        `json:"model_metrics"`
	FuturePredictions    []FuturePrediction  `json:"future_predictions"`
	FeatureWeights       map[string]float64  `json:"feature_importance"`
}

// ExecutiveSummary merges the per-module results into one overall view.
// ModuleFailures records modules that errored and were omitted.
type ExecutiveSummary struct {
	AnalysisTimestamp    time.Time       `json:"analysis_timestamp"`
	TotalTransactions    int             `json:"total_transactions_analyzed"`
	AnalysesCompleted    int             `json:"analyses_completed"`
	OverallRiskScore     float64         `json:"overall_risk_score"`
	OverallRiskLevel     RiskLevel       `json:"overall_risk_level"`
	TotalRecommendations int             `json:"total_recommendations"`
	PriorityActions      []string        `json:"priority_actions"`
	ModuleFailures       map[Kind]string `json:"module_failures,omitempty"`
}

// Report is the output of a comprehensive engine run: every module that
// succeeded, plus the executive summary.
type Report struct {
	Results map[Kind]AnalyticsResult `json:"results"`
	Summary ExecutiveSummary         `json:"executive_summary"`
}
