package analytics

import (
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"finsentry/internal/models"
)

// FlowEdge is the aggregated money flow between one (source, target) pair.
// Repeated transactions accumulate into the same edge.
type FlowEdge struct {
	Source           string
	Target           string
	TotalAmount      float64
	TransactionCount int
	Timestamps       []time.Time
}

// FlowGraph is a weighted directed graph of money flow, customers to
// merchants. Nodes are kept in insertion order so traversals are
// deterministic for identical input.
type FlowGraph struct {
	nodes []string
	index map[string]int
	out   map[string]map[string]*FlowEdge
	in    map[string]map[string]*FlowEdge
	edges int
}

// NewFlowGraph returns an empty graph.
func NewFlowGraph() *FlowGraph {
	return &FlowGraph{
		index: make(map[string]int),
		out:   make(map[string]map[string]*FlowEdge),
		in:    make(map[string]map[string]*FlowEdge),
	}
}

// BuildFlowGraph constructs the entity graph for a transaction table. Input
// rows are never mutated.
func BuildFlowGraph(txs []models.Transaction) *FlowGraph {
	g := NewFlowGraph()
	for i := range txs {
		g.AddTransaction(&txs[i])
	}
	return g
}

// EntitySourceKey derives the graph key for the paying side of a
// transaction: the customer ID, or a stable hash of the account number when
// the ID is absent.
func EntitySourceKey(tx *models.Transaction) string {
	if tx.CustomerID != "" {
		return tx.CustomerID
	}
	return fmt.Sprintf("CUST_%d", stableHash(tx.AccountNumber))
}

// EntityTargetKey derives the graph key for the receiving side: the
// merchant name, or a stable hash of the merchant category.
func EntityTargetKey(tx *models.Transaction) string {
	if tx.MerchantName != "" {
		return tx.MerchantName
	}
	return fmt.Sprintf("MERCH_%d", stableHash(tx.MerchantCategory))
}

func stableHash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

func (g *FlowGraph) addNode(id string) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = len(g.nodes)
	g.nodes = append(g.nodes, id)
	g.out[id] = make(map[string]*FlowEdge)
	g.in[id] = make(map[string]*FlowEdge)
}

// AddTransaction accumulates one transaction into the graph.
func (g *FlowGraph) AddTransaction(tx *models.Transaction) {
	source := EntitySourceKey(tx)
	target := EntityTargetKey(tx)
	g.addNode(source)
	g.addNode(target)

	if e, ok := g.out[source][target]; ok {
		e.TotalAmount += tx.Amount
		e.TransactionCount++
		e.Timestamps = append(e.Timestamps, tx.Timestamp)
		return
	}
	e := &FlowEdge{
		Source:           source,
		Target:           target,
		TotalAmount:      tx.Amount,
		TransactionCount: 1,
		Timestamps:       []time.Time{tx.Timestamp},
	}
	g.out[source][target] = e
	g.in[target][source] = e
	g.edges++
}

// Nodes returns node IDs in insertion order.
func (g *FlowGraph) Nodes() []string { return g.nodes }

// NumNodes returns the node count.
func (g *FlowGraph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the count of distinct directed edges.
func (g *FlowGraph) NumEdges() int { return g.edges }

// Edge returns the aggregated edge between source and target, if any.
func (g *FlowGraph) Edge(source, target string) (*FlowEdge, bool) {
	e, ok := g.out[source][target]
	return e, ok
}

// Degree is the number of incident edges (in plus out) for a node.
func (g *FlowGraph) Degree(id string) int {
	return len(g.out[id]) + len(g.in[id])
}

// Successors returns the targets of a node's outgoing edges, sorted.
func (g *FlowGraph) Successors(id string) []string {
	return sortedKeys(g.out[id])
}

// Neighbors returns every node adjacent to id in the undirected
// projection, sorted.
func (g *FlowGraph) Neighbors(id string) []string {
	seen := make(map[string]struct{}, len(g.out[id])+len(g.in[id]))
	for t := range g.out[id] {
		seen[t] = struct{}{}
	}
	for s := range g.in[id] {
		seen[s] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Density is the directed graph density m / (n * (n-1)).
func (g *FlowGraph) Density() float64 {
	n := len(g.nodes)
	if n <= 1 {
		return 0
	}
	return float64(g.edges) / float64(n*(n-1))
}

// EdgesSorted returns every edge ordered by (source, target).
func (g *FlowGraph) EdgesSorted() []*FlowEdge {
	out := make([]*FlowEdge, 0, g.edges)
	for _, source := range g.nodes {
		for _, target := range sortedKeys(g.out[source]) {
			out = append(out, g.out[source][target])
		}
	}
	return out
}

// ConnectedComponents returns the components of the undirected projection,
// each sorted, largest first.
func (g *FlowGraph) ConnectedComponents() [][]string {
	visited := make(map[string]bool, len(g.nodes))
	var components [][]string
	for _, start := range g.nodes {
		if visited[start] {
			continue
		}
		var comp []string
		queue := []string{start}
		visited[start] = true
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			comp = append(comp, node)
			for _, next := range g.Neighbors(node) {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		sort.Strings(comp)
		components = append(components, comp)
	}
	sort.SliceStable(components, func(i, j int) bool {
		return len(components[i]) > len(components[j])
	})
	return components
}

// AverageClustering is the mean local clustering coefficient over the
// undirected projection. Nodes with fewer than two neighbors contribute 0.
func (g *FlowGraph) AverageClustering() float64 {
	n := len(g.nodes)
	if n == 0 {
		return 0
	}
	var total float64
	for _, node := range g.nodes {
		neighbors := g.Neighbors(node)
		k := len(neighbors)
		if k < 2 {
			continue
		}
		links := 0
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				if g.undirectedAdjacent(neighbors[i], neighbors[j]) {
					links++
				}
			}
		}
		total += 2 * float64(links) / float64(k*(k-1))
	}
	return total / float64(n)
}

func (g *FlowGraph) undirectedAdjacent(a, b string) bool {
	if _, ok := g.out[a][b]; ok {
		return true
	}
	_, ok := g.out[b][a]
	return ok
}

// Export serializes the graph for downstream visualization.
func (g *FlowGraph) Export() GraphExport {
	nodes := make([]GraphNode, 0, len(g.nodes))
	for _, id := range g.nodes {
		nodes = append(nodes, GraphNode{ID: id, Degree: g.Degree(id)})
	}
	edges := make([]GraphEdge, 0, g.edges)
	for _, e := range g.EdgesSorted() {
		edges = append(edges, GraphEdge{Source: e.Source, Target: e.Target, Weight: e.TotalAmount})
	}
	return GraphExport{
		Nodes: nodes,
		Edges: edges,
		Metrics: NetworkMetrics{
			TotalNodes: g.NumNodes(),
			TotalEdges: g.NumEdges(),
			Density:    g.Density(),
		},
	}
}

func sortedKeys(m map[string]*FlowEdge) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
