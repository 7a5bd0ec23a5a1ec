package analytics

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"finsentry/internal/models"
)

const maxPriorityActions = 5

// Engine runs the analysis modules over an immutable transaction snapshot.
// It holds no mutable state, so one Engine can serve concurrent callers.
type Engine struct{}

// New returns an analytics engine.
func New() *Engine {
	return &Engine{}
}

type moduleFunc func([]models.Transaction) (AnalyticsResult, error)

func moduleFor(kind Kind) (moduleFunc, bool) {
	switch kind {
	case KindNetwork:
		return AnalyzeNetwork, true
	case KindTemporal:
		return AnalyzeTemporal, true
	case KindGeographic:
		return AnalyzeGeographic, true
	case KindBehavioral:
		return AnalyzeBehavioral, true
	case KindPredictive:
		return AnalyzePredictive, true
	default:
		return nil, false
	}
}

// Analyze runs a single module. A recovered panic surfaces as a
// ComputationError.
func (e *Engine) Analyze(ctx context.Context, kind Kind, txs []models.Transaction) (AnalyticsResult, error) {
	fn, ok := moduleFor(kind)
	if !ok {
		return AnalyticsResult{}, fmt.Errorf("unknown analysis kind %q", kind)
	}
	if err := ctx.Err(); err != nil {
		return AnalyticsResult{}, err
	}
	return runSafely(kind, fn, txs)
}

func runSafely(kind Kind, fn moduleFunc, txs []models.Transaction) (result AnalyticsResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ComputationError{Kind: kind, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return fn(txs)
}

// ComprehensiveReport runs every module concurrently over its own read-only
// view of the table and merges the results into an executive summary. A
// failing module is logged and omitted; it never aborts or cancels its
// siblings, and this method never returns an error for module failures.
func (e *Engine) ComprehensiveReport(ctx context.Context, txs []models.Transaction) Report {
	results := make(map[Kind]AnalyticsResult, len(Kinds))
	failures := make(map[Kind]string)
	var mu sync.Mutex

	var g errgroup.Group
	for _, kind := range Kinds {
		kind := kind
		g.Go(func() error {
			res, err := e.Analyze(ctx, kind, txs)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				merr := &ModuleError{Kind: kind, Err: err}
				log.Printf("analytics: %v", merr)
				failures[kind] = merr.Error()
				return nil
			}
			results[kind] = res
			return nil
		})
	}
	g.Wait()

	return Report{
		Results: results,
		Summary: buildExecutiveSummary(results, failures, len(txs)),
	}
}

// buildExecutiveSummary averages the per-module ordinal scores and gathers
// priority actions. Error-shaped results (risk UNKNOWN) contribute their
// recommendations but not a score.
func buildExecutiveSummary(results map[Kind]AnalyticsResult, failures map[Kind]string, totalTransactions int) ExecutiveSummary {
	var scores []float64
	var recommendations []string
	for _, kind := range Kinds {
		res, ok := results[kind]
		if !ok {
			continue
		}
		if res.RiskLevel != RiskUnknown {
			scores = append(scores, res.RiskLevel.Score())
		}
		recommendations = append(recommendations, res.Recommendations...)
	}

	overallScore := 0.0
	overallLevel := RiskUnknown
	if len(scores) > 0 {
		for _, s := range scores {
			overallScore += s
		}
		overallScore /= float64(len(scores))
		overallLevel = BucketRiskScore(overallScore)
	}

	var priority []string
	for _, rec := range recommendations {
		lower := strings.ToLower(rec)
		if strings.Contains(lower, "immediate") || strings.Contains(lower, "priority") {
			priority = append(priority, rec)
			if len(priority) == maxPriorityActions {
				break
			}
		}
	}

	summary := ExecutiveSummary{
		AnalysisTimestamp:    time.Now(),
		TotalTransactions:    totalTransactions,
		AnalysesCompleted:    len(results),
		OverallRiskScore:     overallScore,
		OverallRiskLevel:     overallLevel,
		TotalRecommendations: len(recommendations),
		PriorityActions:      priority,
	}
	if len(failures) > 0 {
		summary.ModuleFailures = failures
	}
	return summary
}
