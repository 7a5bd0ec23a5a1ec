package analytics

import "math"

// DegreeCentrality returns degree / (n-1) per node, counting both incoming
// and outgoing edges.
func (g *FlowGraph) DegreeCentrality() map[string]float64 {
	out := make(map[string]float64, len(g.nodes))
	n := len(g.nodes)
	if n <= 1 {
		for _, id := range g.nodes {
			out[id] = 1
		}
		return out
	}
	scale := 1 / float64(n-1)
	for _, id := range g.nodes {
		out[id] = float64(g.Degree(id)) * scale
	}
	return out
}

// BetweennessCentrality computes shortest-path betweenness over the
// directed graph (Brandes' algorithm, unweighted, normalized by
// (n-1)(n-2)).
func (g *FlowGraph) BetweennessCentrality() map[string]float64 {
	bc := make(map[string]float64, len(g.nodes))
	for _, id := range g.nodes {
		bc[id] = 0
	}
	for _, s := range g.nodes {
		// BFS from s, accumulating path counts.
		var stack []string
		pred := make(map[string][]string, len(g.nodes))
		sigma := map[string]float64{s: 1}
		dist := map[string]int{s: 0}
		queue := []string{s}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, w := range g.Successors(v) {
				if _, seen := dist[w]; !seen {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					pred[w] = append(pred[w], v)
				}
			}
		}
		// Back-propagate dependencies.
		delta := make(map[string]float64, len(stack))
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range pred[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				bc[w] += delta[w]
			}
		}
	}
	n := len(g.nodes)
	if n > 2 {
		scale := 1 / (float64(n-1) * float64(n-2))
		for id := range bc {
			bc[id] *= scale
		}
	}
	return bc
}

// PageRank computes the damped random-walk importance of every node over
// amount-weighted edges. Dangling mass is redistributed uniformly.
func (g *FlowGraph) PageRank(damping float64, maxIter int, tol float64) map[string]float64 {
	n := len(g.nodes)
	rank := make(map[string]float64, n)
	if n == 0 {
		return rank
	}

	outWeight := make(map[string]float64, n)
	for _, id := range g.nodes {
		for _, e := range g.out[id] {
			outWeight[id] += e.TotalAmount
		}
	}

	base := 1 / float64(n)
	for _, id := range g.nodes {
		rank[id] = base
	}

	for iter := 0; iter < maxIter; iter++ {
		next := make(map[string]float64, n)
		var danglingMass float64
		for _, id := range g.nodes {
			if len(g.out[id]) == 0 || outWeight[id] == 0 {
				danglingMass += rank[id]
			}
		}
		for _, id := range g.nodes {
			next[id] = (1-damping)*base + damping*danglingMass*base
		}
		for _, source := range g.nodes {
			w := outWeight[source]
			if w == 0 {
				continue
			}
			share := damping * rank[source]
			for target, e := range g.out[source] {
				next[target] += share * e.TotalAmount / w
			}
		}
		var diff float64
		for _, id := range g.nodes {
			diff += math.Abs(next[id] - rank[id])
		}
		rank = next
		if diff < float64(n)*tol {
			break
		}
	}
	return rank
}
