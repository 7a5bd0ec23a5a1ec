package analytics

import (
	"math"
	"math/rand"
	"sort"
)

// IsolationForest is an unsupervised outlier detector: points isolated by
// few random recursive splits score high and are flagged. The seed is fixed
// by the caller so a given sample matrix always yields the same flags.
type IsolationForest struct {
	Trees         int
	SubsampleSize int
	Contamination float64
	Seed          int64
}

// NewIsolationForest returns a detector with the standard configuration
// used by the behavioral profiler.
func NewIsolationForest(contamination float64, seed int64) *IsolationForest {
	return &IsolationForest{
		Trees:         100,
		SubsampleSize: 256,
		Contamination: contamination,
		Seed:          seed,
	}
}

type isoNode struct {
	left, right *isoNode
	splitCol    int
	splitVal    float64
	size        int
}

// FitPredict scores every sample and flags the most isolated
// contamination-fraction of them. The returned slice holds true for
// outliers.
func (f *IsolationForest) FitPredict(samples [][]float64) []bool {
	n := len(samples)
	flags := make([]bool, n)
	if n == 0 {
		return flags
	}

	rng := rand.New(rand.NewSource(f.Seed))
	psi := f.SubsampleSize
	if psi > n {
		psi = n
	}
	maxDepth := int(math.Ceil(math.Log2(float64(psi))))

	trees := make([]*isoNode, f.Trees)
	for t := range trees {
		idx := rng.Perm(n)[:psi]
		sub := make([][]float64, psi)
		for i, j := range idx {
			sub[i] = samples[j]
		}
		trees[t] = buildIsoTree(sub, 0, maxDepth, rng)
	}

	norm := avgPathLength(psi)
	scores := make([]float64, n)
	for i, sample := range samples {
		var total float64
		for _, tree := range trees {
			total += pathLength(tree, sample, 0)
		}
		mean := total / float64(len(trees))
		scores[i] = math.Pow(2, -mean/norm)
	}

	// Flag the top contamination fraction, highest scores first. Ties
	// break on index so the result is deterministic.
	k := int(math.Ceil(f.Contamination * float64(n)))
	if k <= 0 {
		return flags
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	for i := 0; i < k && i < n; i++ {
		flags[order[i]] = true
	}
	return flags
}

func buildIsoTree(samples [][]float64, depth, maxDepth int, rng *rand.Rand) *isoNode {
	n := len(samples)
	if n <= 1 || depth >= maxDepth {
		return &isoNode{size: n}
	}
	cols := len(samples[0])
	col := rng.Intn(cols)

	lo, hi := samples[0][col], samples[0][col]
	for _, row := range samples[1:] {
		if row[col] < lo {
			lo = row[col]
		}
		if row[col] > hi {
			hi = row[col]
		}
	}
	if lo == hi {
		return &isoNode{size: n}
	}
	split := lo + rng.Float64()*(hi-lo)

	var left, right [][]float64
	for _, row := range samples {
		if row[col] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}
	return &isoNode{
		left:     buildIsoTree(left, depth+1, maxDepth, rng),
		right:    buildIsoTree(right, depth+1, maxDepth, rng),
		splitCol: col,
		splitVal: split,
		size:     n,
	}
}

func pathLength(node *isoNode, sample []float64, depth int) float64 {
	if node.left == nil {
		return float64(depth) + avgPathLength(node.size)
	}
	if sample[node.splitCol] < node.splitVal {
		return pathLength(node.left, sample, depth+1)
	}
	return pathLength(node.right, sample, depth+1)
}

// avgPathLength is the expected path length of an unsuccessful BST search
// over n points, the standard isolation-forest normalizer.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	h := math.Log(float64(n-1)) + 0.5772156649
	return 2*h - 2*float64(n-1)/float64(n)
}
