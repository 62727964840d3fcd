package logs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/2beens/pushupstats/internal/pushups/analytics"
	"github.com/2beens/pushupstats/internal/telemetry/metrics"
	"github.com/2beens/pushupstats/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=stats_service_mocks_test.go -package=logs_test

const (
	summaryCacheTTLSeconds = 10 * 60
	MaxChartDays           = 366
	// freecache refuses entries over 1/1024 of its size, a summary is a few KB
	MinStatsCacheSizeBytes = 16 * 1024 * 1024
)

type goalProvider interface {
	Get(ctx context.Context) (int, error)
}

// StatsService computes analytics over the full log list. Summaries are memoized
// per day and goal until the next write invalidates them.
type StatsService struct {
	repo  logsRepo
	goals goalProvider
	cache *freecache.Cache
	// part of every cache key, bumped on Invalidate so a summary computed
	// before a write can never be stored under a live key
	generation atomic.Uint64
	metrics    *metrics.Manager
	loc        *time.Location
	// injectable clock, for tests
	NowFunc func() time.Time
}

func NewStatsService(
	repo logsRepo,
	goals goalProvider,
	cacheSizeBytes int,
	metricsManager *metrics.Manager,
	loc *time.Location,
) *StatsService {
	if loc == nil {
		loc = time.Local
	}
	if cacheSizeBytes < MinStatsCacheSizeBytes {
		cacheSizeBytes = MinStatsCacheSizeBytes
	}
	return &StatsService{
		repo:    repo,
		goals:   goals,
		cache:   freecache.NewCache(cacheSizeBytes),
		metrics: metricsManager,
		loc:     loc,
		NowFunc: time.Now,
	}
}

func (s *StatsService) Now() time.Time {
	return s.NowFunc().In(s.loc)
}

// Invalidate drops all memoized summaries. Called after every write to the log.
func (s *StatsService) Invalidate() {
	s.generation.Add(1)
	s.cache.Clear()
}

func (s *StatsService) Summary(ctx context.Context) (_ *analytics.Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := s.Now()
	generation := s.generation.Load()
	goal, err := s.goals.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}

	key := []byte(fmt.Sprintf("summary|%d|%s|%d", generation, analytics.DayKey(now, s.loc), goal))
	if cached, err := s.cache.Get(key); err == nil {
		var summary analytics.Summary
		if err := json.Unmarshal(cached, &summary); err == nil {
			s.cacheResult("hit")
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &summary, nil
		}
		log.Warnf("stats service, corrupted cached summary [%s], recomputing", key)
	}
	s.cacheResult("miss")

	records, err := s.repo.ListAll(ctx, ListParams{})
	if err != nil {
		return nil, fmt.Errorf("list all: %w", err)
	}

	summary := analytics.Summarize(records, goal, now)
	if summaryJson, err := json.Marshal(summary); err != nil {
		log.Errorf("stats service, marshal summary: %s", err)
	} else if err := s.cache.Set(key, summaryJson, summaryCacheTTLSeconds); err != nil {
		s.cacheResult("set_error")
		span.SetAttributes(attribute.Bool("cache.set_failed", true))
		log.Errorf("stats service, cache summary (%d bytes): %s", len(summaryJson), err)
	}

	return &summary, nil
}

// Chart returns a trailing window of daily totals. The week and month windows come from the summary.
func (s *StatsService) Chart(ctx context.Context, days int) ([]analytics.ChartBucket, error) {
	if days < 1 || days > MaxChartDays {
		return nil, fmt.Errorf("invalid chart window: %d", days)
	}

	switch days {
	case analytics.WeekWindow, analytics.MonthWindow:
		summary, err := s.Summary(ctx)
		if err != nil {
			return nil, err
		}
		if days == analytics.WeekWindow {
			return summary.Weekly, nil
		}
		return summary.Monthly, nil
	}

	goal, err := s.goals.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	records, err := s.repo.ListAll(ctx, ListParams{})
	if err != nil {
		return nil, fmt.Errorf("list all: %w", err)
	}
	return analytics.Bucketize(records, days, goal, s.Now()), nil
}

func (s *StatsService) cacheResult(result string) {
	if s.metrics != nil {
		s.metrics.CounterStatsCache.WithLabelValues(result).Inc()
	}
}
