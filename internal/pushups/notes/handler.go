package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/pushupstats/internal/telemetry/metrics"
	"github.com/2beens/pushupstats/internal/telemetry/tracing"
	"github.com/2beens/pushupstats/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=notes_test

type notesRepo interface {
	Upsert(ctx context.Context, date time.Time, content string) (*Note, error)
	Get(ctx context.Context, date time.Time) (*Note, error)
	Delete(ctx context.Context, date time.Time) error
	List(ctx context.Context) ([]Note, error)
}

type UpsertNoteRequest struct {
	Content string `json:"content"`
}

type ListResponse struct {
	Notes []Note `json:"notes"`
	Total int    `json:"total"`
}

type Handler struct {
	repo    notesRepo
	metrics *metrics.Manager
}

func NewHandler(repo notesRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (handler *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notes.upsert")
	defer span.End()

	date, ok := dateFromVars(w, r)
	if !ok {
		return
	}

	var upsertReq UpsertNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&upsertReq); err != nil {
		log.Tracef("upsert note, unmarshal json params: %s", err)
		http.Error(w, "invalid note request", http.StatusBadRequest)
		return
	}

	content := strings.TrimSpace(upsertReq.Content)
	if content == "" {
		http.Error(w, "error, content empty", http.StatusBadRequest)
		return
	}
	if len(content) > MaxContentLength {
		http.Error(w, fmt.Sprintf("error, content longer than %d", MaxContentLength), http.StatusBadRequest)
		return
	}

	note, err := handler.repo.Upsert(ctx, date, content)
	if err != nil {
		log.Errorf("failed to save note for %s: %s", date.Format(DateLayout), err)
		http.Error(w, "error, failed to save note", http.StatusInternalServerError)
		return
	}
	if handler.metrics != nil {
		handler.metrics.CounterNotes.Inc()
	}

	noteJson, err := json.Marshal(note)
	if err != nil {
		log.Errorf("failed to marshal note: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Debugf("note saved for %s", note.Date)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, noteJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notes.get")
	defer span.End()

	date, ok := dateFromVars(w, r)
	if !ok {
		return
	}

	note, err := handler.repo.Get(ctx, date)
	if errors.Is(err, ErrNoteNotFound) {
		http.Error(w, "note not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to get note for %s: %s", date.Format(DateLayout), err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	noteJson, err := json.Marshal(note)
	if err != nil {
		log.Errorf("failed to marshal note: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, noteJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notes.delete")
	defer span.End()

	date, ok := dateFromVars(w, r)
	if !ok {
		return
	}

	if err := handler.repo.Delete(ctx, date); errors.Is(err, ErrNoteNotFound) {
		http.Error(w, "note not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to delete note for %s: %s", date.Format(DateLayout), err)
		http.Error(w, "error, note not deleted, internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%s", date.Format(DateLayout)))
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notes.list")
	defer span.End()

	notes, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("list notes error: %s", err)
		http.Error(w, "failed to get notes", http.StatusInternalServerError)
		return
	}
	if notes == nil {
		notes = []Note{}
	}

	notesJson, err := json.Marshal(ListResponse{
		Notes: notes,
		Total: len(notes),
	})
	if err != nil {
		log.Errorf("marshal notes error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, notesJson, http.StatusOK)
}

func dateFromVars(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	dateStr := mux.Vars(r)["date"]
	if dateStr == "" {
		http.Error(w, "error, date empty", http.StatusBadRequest)
		return time.Time{}, false
	}
	date, err := ParseDate(dateStr)
	if err != nil {
		http.Error(w, "error, invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return time.Time{}, false
	}
	return date, true
}
