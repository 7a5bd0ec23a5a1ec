package analytics

import (
	"testing"

	"finsentry/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pathGraph() *FlowGraph {
	// A -> B -> C
	return BuildFlowGraph([]models.Transaction{
		tx("T1", "A", "B", 100, at(1, 10, 0)),
		tx("T2", "B", "C", 100, at(1, 11, 0)),
	})
}

func TestDegreeCentrality(t *testing.T) {
	t.Run("path graph", func(t *testing.T) {
		dc := pathGraph().DegreeCentrality()

		assert.InDelta(t, 0.5, dc["A"], 1e-9)
		assert.InDelta(t, 1.0, dc["B"], 1e-9)
		assert.InDelta(t, 0.5, dc["C"], 1e-9)
	})

	t.Run("single node convention", func(t *testing.T) {
		g := NewFlowGraph()
		g.addNode("A")
		dc := g.DegreeCentrality()
		assert.Equal(t, 1.0, dc["A"])
	})
}

func TestBetweennessCentrality(t *testing.T) {
	bc := pathGraph().BetweennessCentrality()

	// B is the only intermediary; normalized by (n-1)(n-2) = 2.
	assert.InDelta(t, 0.5, bc["B"], 1e-9)
	assert.InDelta(t, 0.0, bc["A"], 1e-9)
	assert.InDelta(t, 0.0, bc["C"], 1e-9)
}

func TestPageRank(t *testing.T) {
	t.Run("scores sum to one", func(t *testing.T) {
		g := BuildFlowGraph(spread(60, 8))
		pr := g.PageRank(0.85, 100, 1e-6)

		sum := 0.0
		for _, v := range pr {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-6)
	})

	t.Run("sink node attracts rank", func(t *testing.T) {
		// Everyone pays M1; M1 pays no one.
		g := BuildFlowGraph([]models.Transaction{
			tx("T1", "C1", "M1", 100, at(1, 10, 0)),
			tx("T2", "C2", "M1", 100, at(1, 10, 0)),
			tx("T3", "C3", "M1", 100, at(1, 10, 0)),
		})
		pr := g.PageRank(0.85, 100, 1e-6)

		require.NotEmpty(t, pr)
		for _, c := range []string{"C1", "C2", "C3"} {
			assert.Greater(t, pr["M1"], pr[c])
		}
	})

	t.Run("amount weighting shifts rank", func(t *testing.T) {
		// C1 splits flow between M1 and M2, heavily toward M1.
		g := BuildFlowGraph([]models.Transaction{
			tx("T1", "C1", "M1", 900, at(1, 10, 0)),
			tx("T2", "C1", "M2", 100, at(1, 10, 0)),
		})
		pr := g.PageRank(0.85, 100, 1e-6)
		assert.Greater(t, pr["M1"], pr["M2"])
	})
}
