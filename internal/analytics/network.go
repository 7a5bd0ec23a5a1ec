package analytics

import (
	"fmt"
	"sort"
	"time"

	"finsentry/internal/models"
)

// Fixed contract thresholds for the network module. They come from the
// investigation playbook and are deliberately not configurable.
const (
	suspiciousDegreeThreshold      = 0.10
	suspiciousBetweennessThreshold = 0.10
	suspiciousPageRankThreshold    = 0.05
	largeCommunitySize             = 3
	highDensityThreshold           = 0.3

	pageRankDamping = 0.85
	pageRankMaxIter = 100
	pageRankTol     = 1e-6
)

// AnalyzeNetwork builds the money-flow graph and ranks entities by
// centrality to surface likely hubs and mule accounts.
func AnalyzeNetwork(txs []models.Transaction) (AnalyticsResult, error) {
	g := BuildFlowGraph(txs)

	metrics := NetworkMetrics{
		TotalNodes:        g.NumNodes(),
		TotalEdges:        g.NumEdges(),
		Density:           g.Density(),
		AverageClustering: g.AverageClustering(),
	}

	var suspicious []SuspiciousNode
	var communities [][]string
	if g.NumNodes() > 0 {
		degree := g.DegreeCentrality()
		betweenness := g.BetweennessCentrality()
		pagerank := g.PageRank(pageRankDamping, pageRankMaxIter, pageRankTol)

		for _, node := range g.Nodes() {
			if degree[node] > suspiciousDegreeThreshold ||
				betweenness[node] > suspiciousBetweennessThreshold ||
				pagerank[node] > suspiciousPageRankThreshold {
				suspicious = append(suspicious, SuspiciousNode{
					NodeID:                node,
					DegreeCentrality:      degree[node],
					BetweennessCentrality: betweenness[node],
					PageRank:              pagerank[node],
					TotalConnections:      g.Degree(node),
				})
			}
		}
		sort.SliceStable(suspicious, func(i, j int) bool {
			si := suspicious[i].DegreeCentrality + suspicious[i].BetweennessCentrality + suspicious[i].PageRank
			sj := suspicious[j].DegreeCentrality + suspicious[j].BetweennessCentrality + suspicious[j].PageRank
			return si > sj
		})

		for _, comp := range g.ConnectedComponents() {
			if len(comp) > largeCommunitySize {
				communities = append(communities, comp)
			}
		}
	}

	var recommendations []string
	if len(suspicious) > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Investigate top %d high-centrality entities", min(5, len(suspicious))))
	}
	if len(communities) > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Analyze %d large transaction communities", len(communities)))
	}
	if metrics.Density > highDensityThreshold {
		recommendations = append(recommendations,
			"High network density indicates potential organized activity")
	}

	risk := RiskLow
	switch {
	case len(suspicious) > 10:
		risk = RiskHigh
	case len(suspicious) > 5:
		risk = RiskMedium
	}

	topNodes := suspicious
	if len(topNodes) > 10 {
		topNodes = topNodes[:10]
	}

	return AnalyticsResult{
		Kind:            KindNetwork,
		GeneratedAt:     time.Now(),
		RiskLevel:       risk,
		Visualizations:  []string{"network_graph", "centrality_distribution", "community_detection"},
		Recommendations: recommendations,
		Network: &NetworkReport{
			Metrics:             metrics,
			SuspiciousEntities:  len(suspicious),
			CommunitiesDetected: len(communities),
			SuspiciousNodes:     topNodes,
			Communities:         communities,
			Graph:               g.Export(),
		},
	}, nil
}
