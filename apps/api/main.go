package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/tatame-app/tatame/apps/api/echo"
	"github.com/tatame-app/tatame/apps/di"
	"github.com/tatame-app/tatame/core"
	logsvc "github.com/tatame-app/tatame/services/logger"
	"github.com/tatame-app/tatame/services/metrics"
	"github.com/tatame-app/tatame/storage/database"
	inmemdb "github.com/tatame-app/tatame/storage/database/inmem"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tatame-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger, err := logsvc.NewLogger(conf)
	if err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}
	defer logger.Sync()

	repos, healthCheck, closeDB, err := setUpStorage(conf)
	if err != nil {
		logger.Error(fmt.Sprintf("setting up database: %v", err), err)
		return err
	}
	defer func() {
		if err := closeDB(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	validate, translator := di.NewValidation()
	svcs := di.NewServices(repos, validate, conf)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build), map[string]interface{}{"engine": conf.Database.Engine})
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	if conf.Server.DebugAddress != "" {
		go func() {
			if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
				logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()
	}

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:        conf,
		Logger:      logger,
		Svcs:        svcs,
		Translator:  translator,
		HealthCheck: healthCheck,
	})

	go server.Start()
	logger.Info("API listening", map[string]interface{}{"address": conf.Server.Address})

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)
		return err

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				return fmt.Errorf("could not force stop server: %w", err)
			}
		}
	}
	return nil
}

// setUpStorage opens the configured engine and returns its repositories with a health probe.
func setUpStorage(conf *core.Config) (di.Repositories, func(context.Context) error, func() error, error) {
	if conf.Database.Engine == "inmem" {
		db := inmemdb.NewDB()
		return di.NewMemRepositories(db), nil, func() error { return nil }, nil
	}

	db, err := setUpDB(conf)
	if err != nil {
		return di.Repositories{}, nil, nil, err
	}
	healthCheck := func(ctx context.Context) error {
		start := time.Now()
		err := database.StatusCheck(ctx, db)
		metrics.ObserveDBPing(time.Since(start))
		return err
	}
	return di.NewSQLRepositories(db), healthCheck, db.Close, nil
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
