package service

import (
	"testing"

	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/entity"
	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/tracker"

	"github.com/stretchr/testify/assert"
)

func pairWithLiquidity(pairAddress string, liquidityUSD float64) entity.Pair {
	return entity.Pair{
		PairAddress: pairAddress,
		Liquidity:   &entity.Liquidity{Usd: liquidityUSD},
	}
}

func TestClassifier_DefaultFloorIsStrictlyAboveZero(t *testing.T) {
	c := NewClassifier(tracker.NewSeenSet(), 0)

	assert.Equal(t, ClassBelowThreshold, c.Classify(pairWithLiquidity("p1", 0)))
	assert.Equal(t, ClassNew, c.Classify(pairWithLiquidity("p2", 0.01)))
}

func TestClassifier_NilLiquidityIsBelowThreshold(t *testing.T) {
	c := NewClassifier(tracker.NewSeenSet(), 0)

	assert.Equal(t, ClassBelowThreshold, c.Classify(entity.Pair{PairAddress: "p1"}))
}

func TestClassifier_ConfiguredMinimumIsInclusive(t *testing.T) {
	c := NewClassifier(tracker.NewSeenSet(), 1000)

	assert.Equal(t, ClassBelowThreshold, c.Classify(pairWithLiquidity("p1", 999.99)))
	assert.Equal(t, ClassNew, c.Classify(pairWithLiquidity("p2", 1000)))
	assert.Equal(t, ClassNew, c.Classify(pairWithLiquidity("p3", 5000)))
}

func TestClassifier_SeenPairIsDuplicate(t *testing.T) {
	seen := tracker.NewSeenSet()
	c := NewClassifier(seen, 0)

	pair := pairWithLiquidity("p1", 12500)
	assert.Equal(t, ClassNew, c.Classify(pair))

	c.MarkAlerted(pair.PairAddress)
	assert.Equal(t, ClassDuplicate, c.Classify(pair))
}

func TestClassifier_BelowThresholdIsNeverRecorded(t *testing.T) {
	seen := tracker.NewSeenSet()
	c := NewClassifier(seen, 0)

	// Ten observations with zero liquidity leave no trace.
	for i := 0; i < 10; i++ {
		assert.Equal(t, ClassBelowThreshold, c.Classify(pairWithLiquidity("p1", 0)))
	}
	assert.Equal(t, 0, seen.Len())

	// Crossing the floor later still yields exactly one New verdict.
	assert.Equal(t, ClassNew, c.Classify(pairWithLiquidity("p1", 3000)))
	c.MarkAlerted("p1")
	assert.Equal(t, ClassDuplicate, c.Classify(pairWithLiquidity("p1", 3000)))
}

func TestClassification_String(t *testing.T) {
	assert.Equal(t, "new", ClassNew.String())
	assert.Equal(t, "duplicate", ClassDuplicate.String())
	assert.Equal(t, "below_threshold", ClassBelowThreshold.String())
}
