package trending

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/rohankatakam/startrend/internal/models"
)

// Aggregator enriches search candidates with star growth.
// One Aggregator serves many batches; each Aggregate call gets its own RateLimitGuard.
type Aggregator struct {
	counter     *Counter
	cache       Cache
	flights     singleflight.Group
	concurrency int
	logger      *logrus.Logger
}

// NewAggregator creates an Aggregator. concurrency <= 1 processes candidates one at a time.
func NewAggregator(counter *Counter, cache Cache, concurrency int, logger *logrus.Logger) *Aggregator {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Aggregator{
		counter:     counter,
		cache:       cache,
		concurrency: concurrency,
		logger:      logger,
	}
}

// batchCounters is safe for concurrent use by the workers of one batch
type batchCounters struct {
	fetched   atomic.Int64
	cacheHits atomic.Int64
	skipped   atomic.Int64
}

type flightResult struct {
	growth models.StarGrowth
	cached bool
}

// Aggregate resolves growth for every candidate, sorts by growth descending
// (ties keep candidate order) and drops results below minIncreasedStars when it is positive.
// Upstream failures only degrade individual results.
func (a *Aggregator) Aggregate(ctx context.Context, candidates []models.Repository, w models.Window, minIncreasedStars int) ([]models.EnrichedResult, models.BatchStats) {
	stats := models.BatchStats{Candidates: len(candidates)}
	if len(candidates) == 0 {
		return []models.EnrichedResult{}, stats
	}

	var counters batchCounters
	growths := make([]models.StarGrowth, len(candidates))

	if a.concurrency == 1 {
		guard := NewRateLimitGuard(nil)
		for i, repo := range candidates {
			growths[i] = a.resolve(ctx, guard, repo, w, &counters)
		}
	} else {
		a.resolveParallel(ctx, candidates, w, growths, &counters)
	}

	results := make([]models.EnrichedResult, len(candidates))
	for i, repo := range candidates {
		results[i] = models.NewEnrichedResult(repo, growths[i])
		if results[i].Degraded {
			stats.Degraded++
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].IncreasedStars > results[j].IncreasedStars
	})

	if minIncreasedStars > 0 {
		kept := results[:0]
		for _, r := range results {
			if r.IncreasedStars >= minIncreasedStars {
				kept = append(kept, r)
			}
		}
		stats.Filtered = len(results) - len(kept)
		results = kept
	}

	stats.Fetched = int(counters.fetched.Load())
	stats.CacheHits = int(counters.cacheHits.Load())
	stats.Skipped = int(counters.skipped.Load())

	a.logger.WithFields(logrus.Fields{
		"candidates": stats.Candidates,
		"fetched":    stats.Fetched,
		"cache_hits": stats.CacheHits,
		"skipped":    stats.Skipped,
		"degraded":   stats.Degraded,
		"returned":   len(results),
	}).Info("aggregation finished")

	return results, stats
}

// resolveParallel runs up to a.concurrency fetches at once. The guard cancels the
// shared context, so a throttled fetch aborts its siblings and stops new ones.
func (a *Aggregator) resolveParallel(ctx context.Context, candidates []models.Repository, w models.Window, growths []models.StarGrowth, counters *batchCounters) {
	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	guard := NewRateLimitGuard(cancel)

	g, gctx := errgroup.WithContext(batchCtx)
	g.SetLimit(a.concurrency)

	for i, repo := range candidates {
		if guard.ShouldSkip() {
			growths[i] = a.skip(repo, w, counters)
			continue
		}
		i, repo := i, repo
		g.Go(func() error {
			growths[i] = a.resolve(gctx, guard, repo, w, counters)
			return nil
		})
	}
	_ = g.Wait()
}

// resolve applies guard, then cache, then counter for one candidate
func (a *Aggregator) resolve(ctx context.Context, guard *RateLimitGuard, repo models.Repository, w models.Window, counters *batchCounters) models.StarGrowth {
	if guard.ShouldSkip() {
		return a.skip(repo, w, counters)
	}

	key := NewCacheKey(repo.FullName, w)
	if growth, ok := a.cache.Get(key); ok {
		counters.cacheHits.Add(1)
		return growth
	}

	// Cache check and fetch run as one flight per key so concurrent batches never fetch the same window twice.
	ran := false
	v, _, _ := a.flights.Do(key.String(), func() (interface{}, error) {
		ran = true
		if growth, ok := a.cache.Get(key); ok {
			return flightResult{growth: growth, cached: true}, nil
		}
		return flightResult{growth: a.fetch(ctx, key, repo, w)}, nil
	})
	res := v.(flightResult)
	growth := res.growth

	// The flight ran under another batch's context. If that batch was cancelled
	// mid-fetch its Errored result says nothing about this one.
	if !ran && growth.Status == models.StatusErrored && ctx.Err() == nil {
		a.logger.WithField("repository", repo.FullName).Debug("shared fetch failed, retrying under this search")
		res = flightResult{growth: a.fetch(ctx, key, repo, w)}
		growth = res.growth
	}

	if res.cached {
		counters.cacheHits.Add(1)
	} else {
		counters.fetched.Add(1)
	}

	switch {
	case growth.Status == models.StatusRateLimited:
		if !guard.ShouldSkip() {
			a.logger.WithField("repository", repo.FullName).Warn("rate limit hit, skipping remaining repositories in this search")
		}
		guard.Trip()
	case growth.Status == models.StatusErrored && guard.ShouldSkip() && ctx.Err() != nil:
		// aborted by a sibling's rate limit rather than failing on its own
		growth.Status = models.StatusRateLimited
		growth.Count = 0
	}

	// a flight shared with another batch may carry that batch's identifiers
	growth.RepositoryID = repo.ID
	growth.FullName = repo.FullName
	return growth
}

// fetch counts one window and caches it unless ctx ended mid-count
func (a *Aggregator) fetch(ctx context.Context, key CacheKey, repo models.Repository, w models.Window) models.StarGrowth {
	growth := a.counter.Count(ctx, repo, w)
	if ctx.Err() == nil {
		a.cache.Put(key, growth)
	}
	return growth
}

func (a *Aggregator) skip(repo models.Repository, w models.Window, counters *batchCounters) models.StarGrowth {
	counters.skipped.Add(1)
	return models.StarGrowth{
		RepositoryID: repo.ID,
		FullName:     repo.FullName,
		WindowStart:  w.Start,
		WindowEnd:    w.End,
		Status:       models.StatusRateLimited,
	}
}
