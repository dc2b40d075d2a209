package service

import (
	"context"
	"sync"
	"time"

	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/client"
	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/entity"
	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/observability"
	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/tracker"

	"github.com/gagliardetto/solana-go"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	solanaChainID    = "solana"
	listingsCacheKey = "latestTokenProfiles"
)

// CycleStats summarizes one completed poll cycle.
type CycleStats struct {
	StartedAt        time.Time     `json:"startedAt"`
	Duration         time.Duration `json:"-"`
	DurationMillis   int64         `json:"durationMillis"`
	Listings         int           `json:"listings"`
	PairsChecked     int           `json:"pairsChecked"`
	AlertsSent       int           `json:"alertsSent"`
	DispatchFailures int           `json:"dispatchFailures"`
	FetchErrors      int           `json:"fetchErrors"`
	UsedCachedFeed   bool          `json:"usedCachedFeed"`
}

// MonitorOptions carries the tunables for a Monitor.
type MonitorOptions struct {
	ChainID              string
	PollInterval         time.Duration
	MaxConcurrentFetches int
	ListingsCacheTTL     time.Duration
}

// Monitor is the top-level control loop: fetch listings, fetch pairs,
// classify, dispatch, record, sleep, repeat. One cycle completes before the
// next begins; only the read-only pair fetches run concurrently.
type Monitor struct {
	feed       client.FeedClient
	classifier *Classifier
	dispatcher *Dispatcher
	seen       *tracker.SeenSet
	opts       MonitorOptions

	// lastGoodListings lets a cycle whose profile fetch failed transiently
	// still re-check the pairs of recently listed tokens.
	lastGoodListings *cache.Cache

	mu        sync.RWMutex
	lastCycle *CycleStats

	logger *zap.Logger
}

// NewMonitor wires the poll loop together.
func NewMonitor(
	feed client.FeedClient,
	classifier *Classifier,
	dispatcher *Dispatcher,
	seen *tracker.SeenSet,
	opts MonitorOptions,
	logger *zap.Logger,
) *Monitor {
	if opts.ChainID == "" {
		opts.ChainID = solanaChainID
	}
	if opts.MaxConcurrentFetches <= 0 {
		opts.MaxConcurrentFetches = 1
	}
	if opts.ListingsCacheTTL <= 0 {
		opts.ListingsCacheTTL = 5 * time.Minute
	}
	return &Monitor{
		feed:             feed,
		classifier:       classifier,
		dispatcher:       dispatcher,
		seen:             seen,
		opts:             opts,
		lastGoodListings: cache.New(opts.ListingsCacheTTL, 2*opts.ListingsCacheTTL),
		logger:           logger.Named("Monitor"),
	}
}

// Run executes poll cycles until ctx is canceled. The interval is measured
// start-of-cycle to start-of-cycle: the ticker keeps firing while a cycle
// runs, so a slow cycle delays the next tick rather than skipping work.
// Steady-state errors never escape a cycle; the only non-nil return is
// ctx.Err() on shutdown.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("Liquidity radar started, monitoring DEX Screener",
		zap.String("chainId", m.opts.ChainID),
		zap.Duration("pollInterval", m.opts.PollInterval))

	ticker := time.NewTicker(m.opts.PollInterval)
	defer ticker.Stop()

	for {
		stats := m.runCycle(ctx)
		m.logger.Info("Cycle complete",
			zap.Int("listings", stats.Listings),
			zap.Int("pairsChecked", stats.PairsChecked),
			zap.Int("alertsSent", stats.AlertsSent),
			zap.Int("fetchErrors", stats.FetchErrors),
			zap.Int("trackedPairs", m.seen.Len()),
			zap.Duration("took", stats.Duration))

		select {
		case <-ctx.Done():
			m.logger.Info("Liquidity radar stopping")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// LastCycle returns a copy of the most recent cycle's stats, if any cycle
// has completed yet.
func (m *Monitor) LastCycle() (CycleStats, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastCycle == nil {
		return CycleStats{}, false
	}
	return *m.lastCycle, true
}

// TrackedPairs returns the current seen set size.
func (m *Monitor) TrackedPairs() int {
	return m.seen.Len()
}

// runCycle performs one full fetch-classify-dispatch pass. Failures are
// contained: a listing whose pair fetch fails is skipped without affecting
// the others, and a failed profile fetch falls back to the last good
// listing snapshot when one is fresh enough.
func (m *Monitor) runCycle(ctx context.Context) CycleStats {
	stats := CycleStats{StartedAt: time.Now()}

	listings := m.fetchListings(ctx, &stats)
	stats.Listings = len(listings)

	if len(listings) > 0 {
		pairsByListing, fetchErrs := m.fetchPairs(ctx, listings)

		// Classification and recording stay strictly sequential, in
		// listing order, so the seen set has a single writer and a pair id
		// appearing twice in one cycle alerts at most once.
		for i, listing := range listings {
			if ctx.Err() != nil {
				break
			}
			if fetchErrs[i] != nil {
				stats.FetchErrors++
				observability.RecordFetchError("pairs")
				m.logger.Warn("Skipping listing for this cycle",
					zap.String("tokenAddress", listing.TokenAddress),
					zap.Error(fetchErrs[i]))
				continue
			}
			m.processPairs(ctx, listing, pairsByListing[i], &stats)
		}
	}

	stats.Duration = time.Since(stats.StartedAt)
	stats.DurationMillis = stats.Duration.Milliseconds()

	observability.RecordCycle(stats.Duration.Seconds(), time.Now().Unix())
	observability.UpdateSeenPairs(m.seen.Len())

	m.mu.Lock()
	m.lastCycle = &stats
	m.mu.Unlock()

	return stats
}

// fetchListings pulls the latest token profiles and filters them down to
// plausible candidates on the configured chain. On a transient failure it
// serves the last good snapshot instead, if the cache still holds one.
func (m *Monitor) fetchListings(ctx context.Context, stats *CycleStats) []entity.TokenProfile {
	profiles, err := m.feed.LatestTokenProfiles(ctx)
	if err != nil {
		stats.FetchErrors++
		observability.RecordFetchError("profiles")
		m.logger.Warn("Failed to fetch token profiles", zap.Error(err))

		cached, ok := m.lastGoodListings.Get(listingsCacheKey)
		if !ok {
			return nil
		}
		stats.UsedCachedFeed = true
		m.logger.Info("Reusing last good token profile snapshot")
		profiles = cached.([]entity.TokenProfile)
	} else {
		m.lastGoodListings.Set(listingsCacheKey, profiles, cache.DefaultExpiration)
	}

	listings := make([]entity.TokenProfile, 0, len(profiles))
	for _, p := range profiles {
		if p.ChainID != m.opts.ChainID || p.TokenAddress == "" {
			continue
		}
		if m.opts.ChainID == solanaChainID {
			if _, err := solana.PublicKeyFromBase58(p.TokenAddress); err != nil {
				m.logger.Warn("Dropping listing with malformed token address",
					zap.String("tokenAddress", p.TokenAddress))
				continue
			}
		}
		listings = append(listings, p)
	}

	m.logger.Debug("Token listings this cycle",
		zap.Int("total", len(profiles)),
		zap.Int("onChain", len(listings)))
	return listings
}

// fetchPairs retrieves the trading pairs for each listing, a bounded number
// of requests in flight at once. Results and errors are positional so the
// caller can process listings in their original order.
func (m *Monitor) fetchPairs(ctx context.Context, listings []entity.TokenProfile) ([][]entity.Pair, []error) {
	results := make([][]entity.Pair, len(listings))
	errs := make([]error, len(listings))

	var g errgroup.Group
	g.SetLimit(m.opts.MaxConcurrentFetches)

	for i, listing := range listings {
		i, listing := i, listing
		g.Go(func() error {
			pairs, err := m.feed.TokenPairs(ctx, listing.TokenAddress)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = pairs
			return nil
		})
	}
	// The goroutines report through errs, never through the group.
	_ = g.Wait()

	return results, errs
}

// processPairs classifies one listing's pairs and dispatches alerts for the
// new ones. A pair is recorded as seen only after its send was attempted,
// and regardless of delivery outcome, so it can never alert twice.
func (m *Monitor) processPairs(ctx context.Context, listing entity.TokenProfile, pairs []entity.Pair, stats *CycleStats) {
	for _, pair := range pairs {
		if pair.PairAddress == "" {
			continue
		}
		stats.PairsChecked++

		verdict := m.classifier.Classify(pair)
		observability.RecordClassification(verdict.String())
		if verdict != ClassNew {
			continue
		}

		msg := FormatAlert(pair, listing)
		if err := m.dispatcher.Send(ctx, msg); err != nil {
			stats.DispatchFailures++
			observability.RecordDispatchFailure()
			m.logger.Error("Dispatch failed, pair will not be retried",
				zap.String("pairAddress", pair.PairAddress),
				zap.Error(err))
		} else {
			stats.AlertsSent++
			observability.RecordAlertSent()
			m.logger.Info("New liquidity event alerted",
				zap.String("pairAddress", pair.PairAddress),
				zap.String("token", pair.BaseToken.Symbol),
				zap.String("dexId", pair.DexID),
				zap.Float64("liquidityUsd", pair.LiquidityUSD()))
		}
		m.classifier.MarkAlerted(pair.PairAddress)
	}
}
