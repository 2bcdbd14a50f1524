package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"paperqa/internal/app"
	"paperqa/internal/config"
	"paperqa/internal/contextutil"
	"paperqa/internal/queue"
	"paperqa/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := app.NewLogger(cfg).With("component", "worker")
	slog.SetDefault(logger)

	if err := run(cfg); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}
	slog.Info("Worker stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = contextutil.WithLogger(ctx, slog.Default())

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() {
		_ = client.Close()
	}()

	q := queue.NewRedisQueue(client, cfg.QueueName)
	if err := q.Ping(ctx); err != nil {
		// The worker loop backs off until Redis is reachable.
		slog.Warn("Redis not reachable at startup", "addr", cfg.RedisAddr, "error", err)
	} else {
		slog.Info("Connected to Redis", "addr", cfg.RedisAddr, "queue", q.Name())
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("Failed to close resources", "error", err)
		}
	}()

	notifier := worker.NewHTTPNotifier(cfg.CallbackURL, cfg.CallbackTimeout)
	w := worker.New(q, a.Manager, notifier,
		worker.WithRetryDelay(cfg.RetryDelay),
		worker.WithIngestTimeout(cfg.IngestTimeout),
		worker.WithMetrics(a.Metrics),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(gctx)
	})

	if cfg.WorkerMetricsPort != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.Metrics.Handler())
		srv := &http.Server{
			Addr:              ":" + cfg.WorkerMetricsPort,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			slog.Info("Serving worker metrics", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()

	releaseCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if rerr := a.ReleaseModel(releaseCtx); rerr != nil {
		slog.Warn("Failed to release local model", "error", rerr)
	}
	return err
}
