package logs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/pushupstats/internal/pushups"
	"github.com/2beens/pushupstats/internal/pushups/analytics"
	"github.com/2beens/pushupstats/internal/telemetry/metrics"
	"github.com/2beens/pushupstats/internal/telemetry/tracing"
	"github.com/2beens/pushupstats/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=logs_test

type logsRepo interface {
	Add(ctx context.Context, record pushups.LogRecord) (*pushups.LogRecord, error)
	AddBatch(ctx context.Context, records []pushups.LogRecord) ([]pushups.LogRecord, error)
	Get(ctx context.Context, id string) (*pushups.LogRecord, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context, params ListParams) ([]pushups.LogRecord, error)
}

type statsInvalidator interface {
	Invalidate()
}

type AddLogRequest struct {
	Reps      int        `json:"reps"`
	Variation string     `json:"variation,omitempty"`
	LoggedAt  *time.Time `json:"loggedAt,omitempty"`
}

type AddLogResponse struct {
	pushups.LogRecord
	TodayTotal int `json:"todayTotal"`
}

type DeleteLogResponse struct {
	DeletedID string `json:"deletedId"`
}

type ListResponse struct {
	Logs  []pushups.LogRecord `json:"logs"`
	Total int                 `json:"total"`
	Reps  int                 `json:"reps"`
}

type TodayResponse struct {
	Date  string              `json:"date"`
	Logs  []pushups.LogRecord `json:"logs"`
	Total int                 `json:"total"`
}

type Handler struct {
	repo    logsRepo
	stats   statsInvalidator
	metrics *metrics.Manager
	loc     *time.Location
	// injectable clock, for tests
	NowFunc func() time.Time
}

func NewHandler(
	repo logsRepo,
	stats statsInvalidator,
	metricsManager *metrics.Manager,
	loc *time.Location,
) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		repo:    repo,
		stats:   stats,
		metrics: metricsManager,
		loc:     loc,
		NowFunc: time.Now,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.add")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var addReq AddLogRequest
	if err := json.NewDecoder(r.Body).Decode(&addReq); err != nil {
		log.Tracef("add pushups, unmarshal json params: %s", err)
		http.Error(w, "add pushups failed", http.StatusBadRequest)
		return
	}

	if !pushups.PlausibleReps(addReq.Reps) {
		http.Error(w, "error, reps must be between 1 and 500", http.StatusBadRequest)
		return
	}

	variation, ok := pushups.ParseVariation(addReq.Variation)
	if !ok {
		http.Error(w, "error, unknown variation", http.StatusBadRequest)
		return
	}

	now := handler.NowFunc().In(handler.loc)
	record := pushups.LogRecord{
		Reps:      addReq.Reps,
		LoggedAt:  now,
		Variation: variation,
	}
	if addReq.LoggedAt != nil && !addReq.LoggedAt.IsZero() {
		record.LoggedAt = *addReq.LoggedAt
	}

	added, err := handler.repo.Add(ctx, record)
	if err != nil {
		log.Errorf("failed to add pushups [%d %s]: %s", record.Reps, record.Variation.Label(), err)
		http.Error(w, "error, failed to add pushups", http.StatusInternalServerError)
		return
	}
	handler.stats.Invalidate()
	if handler.metrics != nil {
		handler.metrics.CounterSetsLogged.Inc()
	}

	todayLogs, err := handler.listDay(ctx, now)
	if err != nil {
		// the set is stored, the total is only informative
		log.Errorf("failed to get today's pushups: %s", err)
	}

	addedJson, err := json.Marshal(AddLogResponse{
		LogRecord:  *added,
		TodayTotal: sumReps(todayLogs),
	})
	if err != nil {
		log.Errorf("failed to marshal added pushups: %s", err)
		http.Error(w, "error, failed to add pushups", http.StatusInternalServerError)
		return
	}

	log.Debugf("pushups added: %s", addedJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	record, err := handler.repo.Get(ctx, id)
	if errors.Is(err, ErrLogNotFound) {
		http.Error(w, "pushups log not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to get pushups log %s: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	recordJson, err := json.Marshal(record)
	if err != nil {
		log.Errorf("failed to marshal pushups log: %s", err)
		http.Error(w, "failed to marshal pushups log", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, recordJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); errors.Is(err, ErrLogNotFound) {
		log.Debugf("pushups log %s not found", id)
		http.Error(w, "pushups log not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to delete pushups log %s: %s", id, err)
		http.Error(w, "pushups log not deleted", http.StatusInternalServerError)
		return
	}
	handler.stats.Invalidate()

	deleteRespJson, err := json.Marshal(DeleteLogResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

// HandleList lists logged sets, newest first. Optional from and to are inclusive calendar days (YYYY-MM-DD).
func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.list")
	defer span.End()

	params := ListParams{}
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.ParseInLocation(analytics.DayKeyLayout, fromStr, handler.loc)
		if err != nil {
			http.Error(w, "invalid from date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		params.From = &from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.ParseInLocation(analytics.DayKeyLayout, toStr, handler.loc)
		if err != nil {
			http.Error(w, "invalid to date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		// exclusive upper bound: start of the next day
		to = to.AddDate(0, 0, 1)
		params.To = &to
	}
	if params.From != nil && params.To != nil && !params.From.Before(*params.To) {
		http.Error(w, "from date must not be after to date", http.StatusBadRequest)
		return
	}

	records, err := handler.repo.ListAll(ctx, params)
	if err != nil {
		log.Errorf("list pushups error: %s", err)
		http.Error(w, "failed to get pushups", http.StatusInternalServerError)
		return
	}

	listJson, err := json.Marshal(ListResponse{
		Logs:  records,
		Total: len(records),
		Reps:  sumReps(records),
	})
	if err != nil {
		log.Errorf("marshal pushups list error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listJson, http.StatusOK)
}

func (handler *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.today")
	defer span.End()

	now := handler.NowFunc().In(handler.loc)
	records, err := handler.listDay(ctx, now)
	if err != nil {
		log.Errorf("list today's pushups error: %s", err)
		http.Error(w, "failed to get today's pushups", http.StatusInternalServerError)
		return
	}

	todayJson, err := json.Marshal(TodayResponse{
		Date:  analytics.DayKey(now, handler.loc),
		Logs:  records,
		Total: sumReps(records),
	})
	if err != nil {
		log.Errorf("marshal today's pushups error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, todayJson, http.StatusOK)
}

func (handler *Handler) listDay(ctx context.Context, day time.Time) ([]pushups.LogRecord, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, handler.loc)
	to := from.AddDate(0, 0, 1)
	return handler.repo.ListAll(ctx, ListParams{
		From: &from,
		To:   &to,
	})
}

func sumReps(records []pushups.LogRecord) int {
	total := 0
	for _, r := range records {
		total += r.Reps
	}
	return total
}
