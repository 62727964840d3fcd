package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/2beens/pushupstats/internal/telemetry/metrics"
	"github.com/2beens/pushupstats/pkg"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit allows allowedPerMin requests per minute for every client of the named route group.
// Rejected requests get 425 with a Retry-After header in whole seconds.
func RateLimit(
	rateLimiter RequestRateLimiter,
	routeGroup string,
	allowedPerMin int,
	metricsManager *metrics.Manager,
) func(next http.Handler) http.Handler {
	limit := redis_rate.PerMinute(allowedPerMin)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(routeGroup, r)
			res, err := rateLimiter.Allow(r.Context(), key, limit)
			if err != nil {
				log.WithField("key", key).Errorf("rate limit: %s", err)
				http.Error(w, "rate limit internal error", http.StatusInternalServerError)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimitedRequests.Inc()
			}
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			log.WithField("key", key).Warnf("rate limited => %s, retry after %ds", r.URL.Path, retryAfter)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, fmt.Sprintf("retry after %d seconds", retryAfter), http.StatusTooEarly)
		})
	}
}

func rateLimitKey(routeGroup string, r *http.Request) string {
	ip, err := pkg.ReadUserIP(r)
	if err != nil {
		ip = "unknown"
	}
	return "rl:" + routeGroup + ":" + ip
}
