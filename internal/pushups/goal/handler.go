package goal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/pushupstats/internal/telemetry/tracing"
	"github.com/2beens/pushupstats/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=goal_test

type goalStore interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, goal int) error
}

type Goal struct {
	Goal int `json:"goal"`
}

type Handler struct {
	store goalStore
}

func NewHandler(store goalStore) *Handler {
	return &Handler{
		store: store,
	}
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goal.get")
	defer span.End()

	goal, err := handler.store.Get(ctx)
	if err != nil {
		log.Errorf("failed to get daily goal: %s", err)
		http.Error(w, "failed to get goal", http.StatusInternalServerError)
		return
	}

	goalJson, err := json.Marshal(Goal{Goal: goal})
	if err != nil {
		log.Errorf("failed to marshal daily goal: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, goalJson, http.StatusOK)
}

func (handler *Handler) HandleSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.goal.set")
	defer span.End()

	var goalReq Goal
	if err := json.NewDecoder(r.Body).Decode(&goalReq); err != nil {
		log.Tracef("set goal, unmarshal json params: %s", err)
		http.Error(w, "invalid goal request", http.StatusBadRequest)
		return
	}

	if err := handler.store.Set(ctx, goalReq.Goal); errors.Is(err, ErrInvalidGoal) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	} else if err != nil {
		log.Errorf("failed to set daily goal to %d: %s", goalReq.Goal, err)
		http.Error(w, "failed to set goal", http.StatusInternalServerError)
		return
	}

	log.Debugf("daily goal set to %d", goalReq.Goal)
	goalJson, err := json.Marshal(goalReq)
	if err != nil {
		log.Errorf("failed to marshal daily goal: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, goalJson, http.StatusOK)
}
