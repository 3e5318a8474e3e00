package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quakewatch/quakewatch/internal/adapter"
	"github.com/quakewatch/quakewatch/internal/api/server"
	"github.com/quakewatch/quakewatch/internal/bridge"
	"github.com/quakewatch/quakewatch/internal/config"
	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/logger"
	"github.com/quakewatch/quakewatch/internal/messaging"
	"github.com/quakewatch/quakewatch/internal/providers/jetstream"
	"github.com/quakewatch/quakewatch/internal/store"
	"github.com/quakewatch/quakewatch/internal/tracker"
)

const shutdownTimeout = 10 * time.Second

func initLogger(opts *RootOptions, base config.BaseConfig, command string) error {
	err := logger.Initialize(logger.Config{
		Debug:     base.Debug || opts.Debug,
		SentryDSN: base.SentryDSN,
		Tags:      map[string]string{"command": command},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func jetstreamConfig(cfg config.NATSConfig) jetstream.Config {
	return jetstream.Config{
		URL:            cfg.URL,
		StreamName:     cfg.StreamName,
		ConsumerName:   cfg.ConsumerName,
		FilterSubject:  cfg.FilterSubject,
		MaxReconnects:  cfg.MaxReconnects,
		ReconnectWait:  cfg.ReconnectWait,
		ConnectionName: cfg.ConnectionName,
		AckWaitTimeout: cfg.AckWait,
		MaxDeliver:     cfg.MaxDeliver,
	}
}

func trackerConfig(cfg config.TrackerConfig) tracker.Config {
	return tracker.Config{
		CleanupIntervalEvents: cfg.CleanupIntervalEvents,
		RetentionShort:        cfg.RetentionShort,
		RetentionLong:         cfg.RetentionLong,
	}
}

func serverConfig(debug bool, cfg config.ServerConfig) server.Config {
	return server.Config{
		Debug:        debug,
		Host:         cfg.Host,
		Port:         cfg.Port,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}
}

// openStore connects to the event database. The returned close function is never nil.
func openStore(ctx context.Context, cfg config.DatabaseConfig, migrate bool) (store.Store, func(), error) {
	db, err := store.Open(ctx, cfg.DSN(), cfg.ConnectTimeout, nil)
	if err != nil {
		return nil, func() {}, err
	}

	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	if err := store.ConfigureConnectionPool(db, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime); err != nil {
		closeDB()
		return nil, func() {}, err
	}

	if migrate {
		if err := store.Migrate(db); err != nil {
			closeDB()
			return nil, func() {}, err
		}
	}

	logger.InfoCtx(ctx, "Connected to database", zap.String("host", cfg.Host), zap.String("dbname", cfg.DBName))
	return store.NewPGStore(db), closeDB, nil
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// trackerService wires a tracker to the notifier stream and serves its diagnostics
type trackerService struct {
	tracker tracker.Tracker
	bridge  bridge.Bridge
	server  *server.Server
	closeDB func()
}

func newTrackerService(
	ctx context.Context,
	debug bool,
	dbCfg config.DatabaseConfig,
	natsCfg config.NATSConfig,
	trackerCfg config.TrackerConfig,
	serverCfg config.ServerConfig,
) (*trackerService, error) {
	svc := &trackerService{closeDB: func() {}}

	var source store.Store
	if dbCfg.Enabled() {
		st, closeDB, err := openStore(ctx, dbCfg, false)
		if err != nil {
			return nil, err
		}
		source = st
		svc.closeDB = closeDB
	} else {
		logger.WarnCtx(ctx, "No database configured, records missed on the bus stay unresolved")
	}

	reg := newRegistry()
	svc.tracker = tracker.New(trackerConfig(trackerCfg), source, adapter.NewClock(), tracker.NewMetrics(reg))

	subscriber, err := jetstream.NewSubscriber(jetstreamConfig(natsCfg), adapter.NewNatsJetStream())
	if err != nil {
		svc.closeDB()
		return nil, err
	}

	tr := svc.tracker
	svc.bridge = bridge.NewBridge(subscriber, messaging.NewCodec(adapter.NewJSON()),
		bridge.SinkFunc(func(ctx context.Context, n domain.Notification) error {
			tr.Handle(ctx, n)
			return nil
		}))

	if serverCfg.Enabled {
		svc.server = server.New(serverConfig(debug, serverCfg), svc.tracker, reg)
	}

	return svc, nil
}

// run consumes notifications until ctx is canceled or the stream fails
func (s *trackerService) run(ctx context.Context) error {
	defer s.closeDB()
	defer s.bridge.Close()

	g, gctx := errgroup.WithContext(ctx)
	gctx, stop := context.WithCancel(gctx)
	defer stop()

	g.Go(func() error {
		// a stream that ends stops the server too
		defer stop()
		return s.bridge.Run(gctx)
	})

	if s.server != nil {
		g.Go(s.server.Start)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return s.server.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
