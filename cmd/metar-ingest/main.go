// Command metar-ingest consumes raw weather reports from NATS or Kafka,
// decodes them, stores the results and serves the REST API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"metar_parser/internal/api"
	"metar_parser/internal/config"
	"metar_parser/internal/feed"
	"metar_parser/internal/observability"
	_ "metar_parser/internal/parsers" // register all parsers via init()
	"metar_parser/internal/registry"
	"metar_parser/internal/storage"
)

// source is a running consumer.
type source interface {
	Run(ctx context.Context, h *feed.Handler) error
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("metar-ingest failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	stores, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Error("store close error", zap.Error(err))
		}
	}()

	var opts []feed.Option
	var sink *feed.KafkaSink
	if cfg.KafkaSinkTopic != "" {
		sink = feed.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaSinkTopic)
		opts = append(opts, feed.WithSink(sink))
		logger.Info("kafka sink enabled", zap.String("topic", cfg.KafkaSinkTopic))
	}

	reg := registry.Default()
	reg.Sort()
	handler := feed.NewHandler(reg, stores, logger, metrics, opts...)

	src, err := openSource(cfg, logger)
	if err != nil {
		return err
	}

	readers := api.Stores{Latest: stores, Search: stores, Counts: stores}
	router := api.NewServer(readers, api.Config{APIKeys: cfg.APIKeys}, logger).Router()
	router.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		logger.Info("http server starting", zap.String("addr", cfg.HTTPAddr), zap.Bool("auth", len(cfg.APIKeys) > 0))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()
	go func() {
		defer wg.Done()
		if err := src.Run(ctx, handler); err != nil {
			logger.Error("source error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}
	if err := src.Close(); err != nil {
		logger.Error("source close error", zap.Error(err))
	}
	wg.Wait()
	if sink != nil {
		if err := sink.Close(); err != nil {
			logger.Error("kafka sink close error", zap.Error(err))
		}
	}

	logger.Info("shutdown complete")
	return nil
}

func openSource(cfg *config.Config, logger *zap.Logger) (source, error) {
	switch cfg.Source {
	case config.SourceKafka:
		logger.Info("kafka source", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaSourceTopic))
		return feed.NewKafkaSource(cfg.KafkaBrokers, cfg.KafkaSourceTopic, cfg.KafkaGroupID, logger), nil
	default:
		logger.Info("nats source", zap.String("url", cfg.NATSURL), zap.String("subject", cfg.NATSSubject))
		src, err := feed.NewNATSSource(cfg.NATSURL, cfg.NATSSubject, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
}

// openStores opens every configured store. Each read goes to the first store
// that supports it, so PostgreSQL serves latest reports ahead of SQLite,
// SQLite serves search and stats, and ClickHouse serves station counts.
func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Multi, error) {
	var stores storage.Multi
	fail := func(err error) (storage.Multi, error) {
		_ = stores.Close()
		return nil, err
	}

	if cfg.Postgres.Host != "" {
		pg, err := storage.OpenPostgres(ctx, storage.PostgresConfig(cfg.Postgres))
		if err != nil {
			return fail(fmt.Errorf("postgres: %w", err))
		}
		stores = append(stores, pg)
		if err := pg.CreateSchema(ctx); err != nil {
			return fail(fmt.Errorf("postgres schema: %w", err))
		}
		logger.Info("postgres store enabled", zap.String("host", cfg.Postgres.Host))
	}

	if cfg.SQLitePath != "" {
		db, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return fail(fmt.Errorf("sqlite: %w", err))
		}
		stores = append(stores, db)
		logger.Info("sqlite store enabled", zap.String("path", cfg.SQLitePath))
	}

	if cfg.ClickHouse.Host != "" {
		ch, err := storage.OpenClickHouse(ctx, storage.ClickHouseConfig(cfg.ClickHouse))
		if err != nil {
			return fail(fmt.Errorf("clickhouse: %w", err))
		}
		stores = append(stores, ch)
		if err := ch.CreateSchema(ctx); err != nil {
			return fail(fmt.Errorf("clickhouse schema: %w", err))
		}
		logger.Info("clickhouse store enabled", zap.String("host", cfg.ClickHouse.Host))
	}

	if len(stores) == 0 {
		logger.Warn("no stores configured; decoded reports are not persisted")
	}
	return stores, nil
}
