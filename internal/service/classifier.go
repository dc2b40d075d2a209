package service

import (
	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/entity"
	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/tracker"
)

// Classification is the verdict for a single pair within a poll cycle.
type Classification int

const (
	// ClassNew marks a pair that crossed the liquidity floor for the first
	// time and has never been alerted.
	ClassNew Classification = iota
	// ClassDuplicate marks a pair that has already had an alert attempted.
	ClassDuplicate
	// ClassBelowThreshold marks a pair under the liquidity floor. Such
	// pairs are never recorded, so crossing the floor later still alerts
	// exactly once.
	ClassBelowThreshold
)

func (c Classification) String() string {
	switch c {
	case ClassNew:
		return "new"
	case ClassDuplicate:
		return "duplicate"
	case ClassBelowThreshold:
		return "below_threshold"
	default:
		return "unknown"
	}
}

// Classifier decides whether a pair represents a new liquidity event. It is
// the sole owner of the seen set; callers must classify and record pairs in
// the order they process them, which NewMonitor guarantees by keeping the
// classify-and-record stage single threaded.
type Classifier struct {
	seen *tracker.SeenSet

	// minLiquidityUSD zero means the default floor: strictly above $0.
	// A configured minimum is inclusive.
	minLiquidityUSD float64
}

// NewClassifier creates a classifier over the given seen set.
func NewClassifier(seen *tracker.SeenSet, minLiquidityUSD float64) *Classifier {
	return &Classifier{
		seen:            seen,
		minLiquidityUSD: minLiquidityUSD,
	}
}

// Classify evaluates one pair against the liquidity floor and the seen set.
func (c *Classifier) Classify(pair entity.Pair) Classification {
	liquidity := pair.LiquidityUSD()
	if c.minLiquidityUSD > 0 {
		if liquidity < c.minLiquidityUSD {
			return ClassBelowThreshold
		}
	} else if liquidity <= 0 {
		return ClassBelowThreshold
	}

	if c.seen.Contains(pair.PairAddress) {
		return ClassDuplicate
	}
	return ClassNew
}

// MarkAlerted records a pair in the seen set. It must be called only after
// an alert for the pair has been attempted, so the set never contains a
// pair without a corresponding send.
func (c *Classifier) MarkAlerted(pairID string) {
	c.seen.Record(pairID)
}
