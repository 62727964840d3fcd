package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/pushupstats/internal/auth"
	"github.com/2beens/pushupstats/internal/config"
	"github.com/2beens/pushupstats/internal/db"
	"github.com/2beens/pushupstats/internal/middleware"
	"github.com/2beens/pushupstats/internal/misc"
	"github.com/2beens/pushupstats/internal/pushups/goal"
	"github.com/2beens/pushupstats/internal/pushups/logs"
	pushupsmcp "github.com/2beens/pushupstats/internal/pushups/mcp"
	"github.com/2beens/pushupstats/internal/pushups/notes"
	"github.com/2beens/pushupstats/internal/telemetry/metrics"
	"github.com/2beens/pushupstats/internal/telemetry/tracing"
)

const sessionsCleanupInterval = 8 * time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string
	mcpSecret         string

	config        *config.Config
	loc           *time.Location
	dbPool        *pgxpool.Pool
	quotesManager *misc.QuotesManager

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     *config.Secrets
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	loc, err := params.Config.Location()
	if err != nil {
		return nil, err
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.Secrets.HoneycombEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if params.Config.MigrateOnStart {
		if err := db.Migrate(ctx, dbPool); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "pushups", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.Secrets.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(&auth.Admin{
		Username:     params.Secrets.AdminUsername,
		PasswordHash: params.Secrets.AdminPasswordHash,
	}, auth.DefaultTTL, rdb)
	go func() {
		ticker := time.NewTicker(sessionsCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				authService.ScanAndClean(ctx, now)
			}
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.Secrets.HoneycombEnabled, params.Secrets.OtelServiceName, rdb)
	if err != nil {
		return nil, err
	}

	quotesManager, err := misc.NewDefaultQuotesManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create quote manager: %w", err)
	}

	return &Server{
		config:        params.Config,
		loc:           loc,
		dbPool:        dbPool,
		quotesManager: quotesManager,
		versionInfo:   params.VersionInfo,
		mcpSecret:     params.Secrets.MCPSecret,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

// routeHandlers are all the handlers mounted on the main router.
type routeHandlers struct {
	logs    *logs.Handler
	imports *logs.ImportHandler
	stats   *logs.StatsHandler
	goal    *goal.Handler
	notes   *notes.Handler
	misc    *misc.Handler
	mcp     http.Handler
}

func (s *Server) routerSetup() *mux.Router {
	logsRepo := logs.NewRepo(s.dbPool)
	goalStore := goal.NewStore(s.redisClient)
	statsService := logs.NewStatsService(
		logsRepo,
		goalStore,
		s.config.StatsCacheSizeBytes(),
		s.metricsManager,
		s.loc,
	)

	mcpServer := pushupsmcp.NewServer(s.dbPool, logsRepo, statsService)

	handlers := routeHandlers{
		logs:    logs.NewHandler(logsRepo, statsService, s.metricsManager, s.loc),
		imports: logs.NewImportHandler(logsRepo, statsService, s.metricsManager, s.loc),
		stats:   logs.NewStatsHandler(statsService),
		goal:    goal.NewHandler(goalStore),
		notes:   notes.NewHandler(notes.NewRepo(s.dbPool), s.metricsManager),
		misc:    misc.NewHandler(s.quotesManager, s.versionInfo, s.authService),
		mcp:     otelhttp.NewHandler(pushupsmcp.NewHTTPHandler(mcpServer, s.mcpSecret), "mcp"),
	}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	setupRoutes(
		r,
		handlers,
		redis_rate.NewLimiter(s.redisClient),
		s.config,
		s.metricsManager,
	)

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func setupRoutes(
	r *mux.Router,
	h routeHandlers,
	rateLimiter middleware.RequestRateLimiter,
	cfg *config.Config,
	metricsManager *metrics.Manager,
) {
	h.misc.SetupRoutes(r, rateLimiter, cfg.LoginRateLimitAllowedPerMin, metricsManager)

	p := r.PathPrefix("/pushups").Subrouter()
	p.HandleFunc("", h.logs.HandleAdd).Methods("POST", "OPTIONS").Name("add-log")
	p.HandleFunc("/list", h.logs.HandleList).Methods("GET", "OPTIONS").Name("list-logs")
	p.HandleFunc("/today", h.logs.HandleToday).Methods("GET", "OPTIONS").Name("today")

	p.HandleFunc("/stats/summary", h.stats.HandleSummary).Methods("GET", "OPTIONS").Name("stats-summary")
	p.HandleFunc("/stats/streak", h.stats.HandleStreak).Methods("GET", "OPTIONS").Name("stats-streak")
	p.HandleFunc("/stats/records", h.stats.HandleRecords).Methods("GET", "OPTIONS").Name("stats-records")
	p.HandleFunc("/stats/variations", h.stats.HandleVariations).Methods("GET", "OPTIONS").Name("stats-variations")
	p.HandleFunc("/stats/chart", h.stats.HandleChart).Methods("GET", "OPTIONS").Name("stats-chart")

	// both import endpoints share one limit
	importLimit := middleware.RateLimit(rateLimiter, "import", cfg.ImportRateLimitAllowedPerMin, metricsManager)
	p.Handle("/import/preview", importLimit(http.HandlerFunc(h.imports.HandlePreview))).Methods("POST", "OPTIONS").Name("import-preview")
	p.Handle("/import", importLimit(http.HandlerFunc(h.imports.HandleImport))).Methods("POST", "OPTIONS").Name("import")

	p.HandleFunc("/goal", h.goal.HandleGet).Methods("GET", "OPTIONS").Name("get-goal")
	p.HandleFunc("/goal", h.goal.HandleSet).Methods("PUT", "OPTIONS").Name("set-goal")

	p.HandleFunc("/notes", h.notes.HandleList).Methods("GET", "OPTIONS").Name("list-notes")
	p.HandleFunc("/notes/{date}", h.notes.HandleGet).Methods("GET", "OPTIONS").Name("get-note")
	p.HandleFunc("/notes/{date}", h.notes.HandleUpsert).Methods("PUT", "OPTIONS").Name("upsert-note")
	p.HandleFunc("/notes/{date}", h.notes.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-note")

	// keep last, {id} matches everything above
	p.HandleFunc("/{id}", h.logs.HandleGet).Methods("GET", "OPTIONS").Name("get-log")
	p.HandleFunc("/{id}", h.logs.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-log")

	r.PathPrefix("/mcp").Handler(h.mcp).Methods("GET", "POST", "DELETE", "OPTIONS").Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
