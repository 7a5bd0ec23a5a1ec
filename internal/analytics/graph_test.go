package analytics

import (
	"testing"

	"finsentry/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFlowGraph(t *testing.T) {
	txs := []models.Transaction{
		tx("T1", "C1", "M1", 100, at(1, 10, 0)),
		tx("T2", "C1", "M1", 50, at(1, 11, 0)),
		tx("T3", "C2", "M1", 75, at(1, 12, 0)),
	}

	g := BuildFlowGraph(txs)

	assert.Equal(t, 3, g.NumNodes())
	assert.Equal(t, 2, g.NumEdges())

	edge, ok := g.Edge("C1", "M1")
	require.True(t, ok)
	assert.Equal(t, 150.0, edge.TotalAmount)
	assert.Equal(t, 2, edge.TransactionCount)
	assert.Len(t, edge.Timestamps, 2)

	assert.Equal(t, 1, g.Degree("C1"))
	assert.Equal(t, 2, g.Degree("M1"))
}

func TestEntityKeys(t *testing.T) {
	t.Run("customer id preferred", func(t *testing.T) {
		txn := tx("T1", "C1", "M1", 10, at(1, 10, 0))
		assert.Equal(t, "C1", EntitySourceKey(&txn))
		assert.Equal(t, "M1", EntityTargetKey(&txn))
	})

	t.Run("falls back to hashed account", func(t *testing.T) {
		txn := tx("T1", "", "", 10, at(1, 10, 0))
		txn.AccountNumber = "ACC123"
		txn.MerchantCategory = "Retail"

		source := EntitySourceKey(&txn)
		target := EntityTargetKey(&txn)
		assert.Contains(t, source, "CUST_")
		assert.Contains(t, target, "MERCH_")

		// Same inputs hash to the same key.
		assert.Equal(t, source, EntitySourceKey(&txn))
	})
}

func TestConnectedComponents(t *testing.T) {
	txs := []models.Transaction{
		tx("T1", "C1", "M1", 10, at(1, 10, 0)),
		tx("T2", "C2", "M1", 10, at(1, 10, 0)),
		tx("T3", "C3", "M2", 10, at(1, 10, 0)),
	}

	g := BuildFlowGraph(txs)
	comps := g.ConnectedComponents()

	require.Len(t, comps, 2)
	// Largest first.
	assert.Len(t, comps[0], 3)
	assert.Len(t, comps[1], 2)
	assert.ElementsMatch(t, []string{"C1", "C2", "M1"}, comps[0])
}

func TestDensity(t *testing.T) {
	t.Run("empty graph", func(t *testing.T) {
		g := NewFlowGraph()
		assert.Zero(t, g.Density())
	})

	t.Run("two nodes one edge", func(t *testing.T) {
		g := BuildFlowGraph([]models.Transaction{tx("T1", "C1", "M1", 10, at(1, 10, 0))})
		// Directed density: 1 edge of 2 possible.
		assert.InDelta(t, 0.5, g.Density(), 1e-9)
	})
}

func TestGraphDoesNotMutateInput(t *testing.T) {
	txs := []models.Transaction{tx("T1", "C1", "M1", 10, at(1, 10, 0))}
	before := txs[0]
	BuildFlowGraph(txs)
	assert.Equal(t, before, txs[0])
}
