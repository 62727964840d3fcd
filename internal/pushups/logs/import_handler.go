package logs

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/pushupstats/internal/pushups/history"
	"github.com/2beens/pushupstats/internal/telemetry/metrics"
	"github.com/2beens/pushupstats/internal/telemetry/tracing"
	"github.com/2beens/pushupstats/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// MaxImportBytes caps the pasted history accepted in one request.
const MaxImportBytes = 1 << 20

type ImportRequest struct {
	Text string `json:"text"`
}

type ImportResponse struct {
	SetsImported int      `json:"setsImported"`
	RepsImported int      `json:"repsImported"`
	Days         int      `json:"days"`
	Warnings     []string `json:"warnings"`
}

type ImportHandler struct {
	repo    logsRepo
	stats   statsInvalidator
	metrics *metrics.Manager
	loc     *time.Location
	// injectable clock, for tests
	NowFunc func() time.Time
}

func NewImportHandler(
	repo logsRepo,
	stats statsInvalidator,
	metricsManager *metrics.Manager,
	loc *time.Location,
) *ImportHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ImportHandler{
		repo:    repo,
		stats:   stats,
		metrics: metricsManager,
		loc:     loc,
		NowFunc: time.Now,
	}
}

// HandlePreview parses the pasted history and returns entries and warnings without storing anything.
func (handler *ImportHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.import.preview")
	defer span.End()

	text, err := readImportText(w, r)
	if err != nil {
		log.Tracef("import preview, read body: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := history.Parse(text, handler.NowFunc().In(handler.loc))
	span.SetAttributes(
		attribute.Int("entries", len(result.Entries)),
		attribute.Int("warnings", len(result.Warnings)),
	)

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal parse result: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusOK)
}

// HandleImport parses the pasted history and stores every recognized set.
func (handler *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.import")
	defer span.End()

	text, err := readImportText(w, r)
	if err != nil {
		log.Tracef("import, read body: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := history.Parse(text, handler.NowFunc().In(handler.loc))
	if handler.metrics != nil {
		handler.metrics.CounterParseWarnings.Add(float64(len(result.Warnings)))
	}

	resp := ImportResponse{
		Days:     countDays(result),
		Warnings: result.Warnings,
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}

	records := result.Records()
	if len(records) > 0 {
		stored, err := handler.repo.AddBatch(ctx, records)
		if err != nil {
			log.Errorf("failed to import %d sets: %s", len(records), err)
			http.Error(w, "error, failed to import pushups", http.StatusInternalServerError)
			return
		}
		handler.stats.Invalidate()

		resp.SetsImported = len(stored)
		resp.RepsImported = sumReps(stored)
		if handler.metrics != nil {
			handler.metrics.CounterSetsImported.Add(float64(len(stored)))
			handler.metrics.HistogramImportSize.Observe(float64(len(stored)))
		}
	}
	span.SetAttributes(attribute.Int("sets.imported", resp.SetsImported))

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("failed to marshal import response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Infof("imported %d sets / %d reps over %d days, %d warnings",
		resp.SetsImported, resp.RepsImported, resp.Days, len(resp.Warnings))
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

// readImportText accepts either a JSON {"text": ...} body or the raw pasted text.
func readImportText(w http.ResponseWriter, r *http.Request) (string, error) {
	if r.Body == nil {
		return "", errors.New("empty body")
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxImportBytes))
	if err != nil {
		return "", errors.New("failed to read body")
	}

	text := string(body)
	if strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		var importReq ImportRequest
		if err := json.Unmarshal(body, &importReq); err != nil {
			return "", errors.New("invalid json body")
		}
		text = importReq.Text
	}

	if strings.TrimSpace(text) == "" {
		return "", errors.New("nothing to import")
	}
	return text, nil
}

func countDays(result history.ParseResult) int {
	days := map[string]bool{}
	for _, e := range result.Entries {
		days[e.Date.Format(time.DateOnly)] = true
	}
	return len(days)
}
