package main

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/oaklinehq/scheduler/internal/handlers"
	"github.com/oaklinehq/scheduler/internal/outbox"
	"github.com/oaklinehq/scheduler/internal/permission"
	"github.com/oaklinehq/scheduler/internal/scheduling"
	"github.com/oaklinehq/scheduler/internal/storage"
	"github.com/oaklinehq/scheduler/libs/config"
	"github.com/oaklinehq/scheduler/libs/db"
	"github.com/oaklinehq/scheduler/libs/httpx"
	"github.com/oaklinehq/scheduler/libs/kafkax"
	"github.com/oaklinehq/scheduler/libs/otelx"
	"github.com/oaklinehq/scheduler/libs/runtime"
)

func main() {
	service := config.String("SERVICE_NAME", "scheduling-service")
	port, err := config.Port("PORT", "8085")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	jwtSecret, err := config.RequiredString("JWT_SECRET")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL, db.Options{MaxConns: int32(config.Int("DB_MAX_CONNS", 10))})
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	repo := storage.NewRepository(pool)
	svc := scheduling.NewService(repo, logger)
	perm := permission.NewDirectoryProvider(logger,
		permission.NewStoreProvider(repo),
		config.String("STAFF_DIRECTORY_GRPC_ADDR", ""))

	kafkaBrokers := config.String("KAFKA_BROKERS", "")
	outboxRepo := outbox.NewRepository(pool)
	publisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   kafkaBrokers,
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go publisher.Run(ctx)

	handler := handlers.NewSchedulingHandler(svc, perm, logger)

	mux := runtime.NewBaseMux(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(kafkaBrokers)},
	)

	// Slot discovery is public; everything else requires an authenticated
	// scheduler staff member.
	slots := http.Handler(http.HandlerFunc(handler.Slots))
	if redisAddr := config.String("REDIS_ADDR", ""); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       config.Int("REDIS_DB", 0),
		})
		limiter := httpx.NewRedisRateLimiter(rdb, config.Int("SLOTS_RATE_LIMIT_PER_MINUTE", 120), time.Minute, service)
		slots = limiter.Middleware(logger, true)(slots)
		logger.Info("slot query rate limiting enabled (redis)", "redis_addr", redisAddr)
	}
	mux.Handle("/api/v1/slots", slots)

	authed := handlers.WithAuth(jwtSecret)
	protect := func(h http.HandlerFunc) http.Handler { return authed(h) }
	mux.Handle("/api/v1/appointments", protect(handler.Create))
	mux.Handle("/api/v1/appointments/status", protect(handler.ChangeStatus))
	mux.Handle("/api/v1/appointments/reschedule", protect(handler.Reschedule))
	mux.Handle("/api/v1/appointments/no-show", protect(handler.NoShow))
	mux.Handle("/api/v1/appointments/update", protect(handler.Update))
	mux.Handle("/api/v1/appointments/history", protect(handler.History))
	mux.Handle("/api/v1/appointments/by-staff", protect(handler.StaffAppointments))
	mux.Handle("/api/v1/blockouts", protect(handler.CreateBlockOut))
	mux.Handle("/api/v1/blockouts/update", protect(handler.UpdateBlockOut))
	mux.Handle("/api/v1/blockouts/delete", protect(handler.DeleteBlockOut))

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(1<<20),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: config.List("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", httpx.RequestIDHeader},
			MaxAge:         10 * time.Minute,
		}),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "scheduling")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
