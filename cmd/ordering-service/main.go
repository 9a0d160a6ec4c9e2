package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	catalogapp "github.com/farmafacil/ordering/internal/catalog/application"
	catalogmem "github.com/farmafacil/ordering/internal/catalog/infrastructure/memory"
	clientapp "github.com/farmafacil/ordering/internal/client/application"
	clientmem "github.com/farmafacil/ordering/internal/client/infrastructure/memory"
	"github.com/farmafacil/ordering/internal/notification"
	orderapp "github.com/farmafacil/ordering/internal/order/application"
	orderhttp "github.com/farmafacil/ordering/internal/order/infrastructure/http"
	ordermem "github.com/farmafacil/ordering/internal/order/infrastructure/memory"
	payapp "github.com/farmafacil/ordering/internal/payment/application"
	paymem "github.com/farmafacil/ordering/internal/payment/infrastructure/memory"
	"github.com/farmafacil/ordering/pkg/idempotency"
	"github.com/farmafacil/ordering/pkg/logging"
	"github.com/farmafacil/ordering/pkg/shutdown"
	"github.com/farmafacil/ordering/pkg/tracing"
)

func main() {
	log := logging.New(slog.LevelInfo)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	httpAddr := env("HTTP_ADDR", ":8080")
	jaeger := env("JAEGER_URL", "http://localhost:14268/api/traces")
	redisAddr := env("REDIS_ADDR", "")

	tp, err := tracing.Init(ctx, "ordering-service", jaeger, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	// Idempotency keys live in redis when one is configured, in process
	// memory otherwise. The demo runs fine without redis.
	var idem idempotency.Store
	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		idem = idempotency.NewRedisStore(rdb, 10*time.Minute)
	} else {
		idem = idempotency.NewMemoryStore(10 * time.Minute)
	}

	catalog := catalogapp.NewService(catalogmem.NewRepository(catalogmem.Fixtures()), catalogmem.NewStatsStore())
	clients := clientapp.NewService(log, clientmem.NewRepository(), clientmem.NewSessionStore(), time.Second)
	methods := paymem.NewMethodDirectory(log, 500*time.Millisecond)

	gateway := payapp.NewGateway(log)
	terminal := payapp.NewTerminal(log)

	store := notification.NewMemoryStore()
	outbox := notification.NewOutbox(store)
	channel := notification.NewWhatsApp(log, 500*time.Millisecond)
	relay := notification.NewRelay(log, store, notification.NewDispatcher(log, channel, idem), "ordering-service-relay")

	repo := ordermem.NewRepository()
	orders := orderapp.NewService(log, repo, catalog, gateway, outbox)
	handler := orderhttp.NewHandler(log, orders, catalog, clients, methods, terminal, idem)

	r := chi.NewRouter()
	r.Mount("/", handler.Routes())
	srv := &http.Server{
		Addr:         httpAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		if err := relay.Run(ctx); err != nil {
			log.Error("relay stopped with error", "err", err)
		}
	}()

	go func() {
		log.Info("http listening", "addr", httpAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("ordering-service shutdown complete")
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
