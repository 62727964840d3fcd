package goal

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/2beens/pushupstats/internal/pushups"
	"github.com/2beens/pushupstats/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
)

const goalKey = "pushups-daily-goal"

var ErrInvalidGoal = errors.New("goal must be a positive number of reps")

// Store keeps the user's daily goal in redis. An unset goal reads as pushups.DefaultDailyGoal.
type Store struct {
	redisClient *redis.Client
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{
		redisClient: redisClient,
	}
}

func (s *Store) Get(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.goal.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	val, err := s.redisClient.Get(ctx, goalKey).Result()
	if errors.Is(err, redis.Nil) {
		span.SetAttributes(attribute.Bool("default", true))
		return pushups.DefaultDailyGoal, nil
	} else if err != nil {
		return 0, fmt.Errorf("get goal: %w", err)
	}

	goal, err := strconv.Atoi(val)
	if err != nil || goal <= 0 {
		// a corrupted value should not break the stats, fall back to the default
		span.SetAttributes(attribute.String("corrupted", val))
		return pushups.DefaultDailyGoal, nil
	}

	return goal, nil
}

func (s *Store) Set(ctx context.Context, goal int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.goal.set")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("goal", goal))

	if goal <= 0 {
		return ErrInvalidGoal
	}

	if err := s.redisClient.Set(ctx, goalKey, goal, 0).Err(); err != nil {
		return fmt.Errorf("set goal: %w", err)
	}
	return nil
}
