package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"review-processor/config"
	"review-processor/consumer"
	"review-processor/driver"
	"review-processor/driver/analysisapi"
	"review-processor/driver/reviewapi"
	"review-processor/handler"
	"review-processor/logger"
	"review-processor/repository"
	"review-processor/service"
)

func main() {
	log := logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	dbPool, err := driver.Init(ctx, cfg.Database)
	if err != nil {
		log.Error("failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	submissions := repository.NewSubmissionRepository(dbPool, log)
	reviews := repository.NewReviewRepository(dbPool, log)
	analyses := repository.NewAnalysisRepository(dbPool, log)
	recurring := repository.NewRecurringRepository(dbPool, log)

	upstream := reviewapi.New(cfg.Upstream, log)
	analysisClient := analysisapi.New(cfg.Analysis, log)

	fetcher := service.NewReviewFetcherService(upstream, cfg.Scraper, log)
	writer := service.NewReviewWriterService(reviews, log)
	analyzer := service.NewAnalyzerService(reviews, analysisClient, cfg.Scraper, log)
	processor := service.NewSubmissionProcessorService(submissions, analyses, fetcher, writer, analyzer, log)
	scheduler := service.NewRecurringSchedulerService(recurring, submissions, log)

	jobs := handler.NewJobHandler(submissions, processor, scheduler,
		cfg.Jobs.PendingPollInterval, cfg.Jobs.PendingBatchSize, log)
	if err := jobs.StartPendingSubmissionJob(ctx); err != nil {
		log.Error("failed to start pending submission job", "error", err)
		os.Exit(1)
	}
	if err := jobs.StartRecurringAnalysisJob(ctx); err != nil {
		log.Error("failed to start recurring analysis job", "error", err)
		os.Exit(1)
	}

	eventHandler := consumer.NewSubmissionEventHandler(processor, log)
	streamConsumer, err := consumer.NewConsumer(consumer.ConfigFrom(cfg.Consumer), eventHandler, log)
	if err != nil {
		log.Error("failed to create stream consumer", "error", err)
		os.Exit(1)
	}
	if err := streamConsumer.Start(ctx); err != nil {
		log.Error("failed to start stream consumer", "error", err)
		os.Exit(1)
	}

	health := handler.NewHealthHandler(dbPool, cfg.Upstream, log)
	if err := health.CheckDependencies(ctx); err != nil {
		log.Warn("dependency check failed at startup", "error", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := health.CheckHealth(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","service":"review-processor"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"review-processor"}`))
	})
	mux.HandleFunc("/health/dependencies", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := health.CheckDependencies(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"unhealthy","error":%q}`, err.Error())
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting review-processor server", "port", cfg.Server.Port)
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("http server stopped", "error", err)
	case sig := <-sigCh:
		log.Info("shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	streamConsumer.Stop()
	if err := jobs.Stop(); err != nil {
		log.Error("failed to stop jobs", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", "error", err)
	}

	log.Info("review-processor stopped")
}
