package logs

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/2beens/pushupstats/internal/pushups/analytics"
	"github.com/2beens/pushupstats/internal/telemetry/tracing"
	"github.com/2beens/pushupstats/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=stats_handler_mocks_test.go -package=logs_test

type statsProvider interface {
	Summary(ctx context.Context) (*analytics.Summary, error)
	Chart(ctx context.Context, days int) ([]analytics.ChartBucket, error)
}

type StreakResponse struct {
	Streak      int  `json:"streak"`
	Goal        int  `json:"goal"`
	TodayTotal  int  `json:"todayTotal"`
	GoalReached bool `json:"goalReached"`
}

type StatsHandler struct {
	stats statsProvider
}

func NewStatsHandler(stats statsProvider) *StatsHandler {
	return &StatsHandler{
		stats: stats,
	}
}

func (handler *StatsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.stats.summary")
	defer span.End()

	summary, ok := handler.summary(ctx, w)
	if !ok {
		return
	}
	writeJSON(w, summary, "summary")
}

func (handler *StatsHandler) HandleStreak(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.stats.streak")
	defer span.End()

	summary, ok := handler.summary(ctx, w)
	if !ok {
		return
	}
	writeJSON(w, StreakResponse{
		Streak:      summary.Streak,
		Goal:        summary.Goal,
		TodayTotal:  summary.TodayTotal,
		GoalReached: summary.GoalReached,
	}, "streak")
}

func (handler *StatsHandler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.stats.records")
	defer span.End()

	summary, ok := handler.summary(ctx, w)
	if !ok {
		return
	}
	writeJSON(w, summary.Records, "records")
}

func (handler *StatsHandler) HandleVariations(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.stats.variations")
	defer span.End()

	summary, ok := handler.summary(ctx, w)
	if !ok {
		return
	}
	writeJSON(w, summary.Variations, "variations")
}

// HandleChart serves ?days=N daily totals, 7 when not set.
func (handler *StatsHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.stats.chart")
	defer span.End()

	days := analytics.WeekWindow
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		var err error
		days, err = strconv.Atoi(daysStr)
		if err != nil || days < 1 || days > MaxChartDays {
			http.Error(w, "invalid days parameter", http.StatusBadRequest)
			return
		}
	}

	buckets, err := handler.stats.Chart(ctx, days)
	if err != nil {
		log.Errorf("failed to get chart for %d days: %s", days, err)
		http.Error(w, "failed to get chart", http.StatusInternalServerError)
		return
	}
	writeJSON(w, buckets, "chart")
}

func (handler *StatsHandler) summary(ctx context.Context, w http.ResponseWriter) (*analytics.Summary, bool) {
	summary, err := handler.stats.Summary(ctx)
	if err != nil {
		log.Errorf("failed to get stats summary: %s", err)
		http.Error(w, "failed to get stats", http.StatusInternalServerError)
		return nil, false
	}
	return summary, true
}

func writeJSON(w http.ResponseWriter, v any, what string) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal %s: %s", what, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, b, http.StatusOK)
}
