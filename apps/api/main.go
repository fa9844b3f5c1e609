package main

import (
	"context"
	"expvar"
	"fmt"
	"io"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	echoapi "github.com/trezcool/campweek/apps/api/echo"
	"github.com/trezcool/campweek/core"
	"github.com/trezcool/campweek/core/camp"
	"github.com/trezcool/campweek/core/catalog"
	"github.com/trezcool/campweek/core/schedule"
	logsvc "github.com/trezcool/campweek/services/logger"
	"github.com/trezcool/campweek/storage/database"
	"github.com/trezcool/campweek/storage/database/dummy"
	"github.com/trezcool/campweek/storage/database/sqlx"
)

type stores struct {
	camps     camp.Repository
	schedules schedule.Repository
	closer    io.Closer
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	defer logger.Close()

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB
	st, err := setUpStores(conf, dbLogger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = st.closer.Close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	// set up services
	campSvc := camp.NewService(st.camps)
	schedSvc := schedule.NewService(st.schedules)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	camp.InitValidators(validate, translator)

	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	loader := catalog.NewLoader(campSvc, logger)
	sub, err := loader.Watch(appCtx)
	if sub == nil {
		logger.Fatal(fmt.Sprintf("watching catalog: %v", err), err)
	}
	defer sub.Stop()
	if err != nil {
		// the catalog stays in error state until the next change or a manual reload
		logger.Warn("initial catalog load failed", err)
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("store").Set(conf.Database.Store)
	expvar.Publish("catalog", expvar.Func(func() interface{} {
		snap := loader.Snapshot()
		return map[string]interface{}{"state": snap.State, "count": len(snap.Camps)}
	}))

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	sessions := schedule.NewSessions(conf.Session.TTL)
	go sessions.Expire(appCtx, conf.Session.SweepInterval)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			Loader:      loader,
			CampSvc:     campSvc,
			ScheduleSvc: schedSvc,
			Sessions:    sessions,
			Validate:    validate,
			Translator:  translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpStores(conf *core.Config, logger core.Logger) (*stores, error) {
	switch conf.Database.Store {
	case core.StoreMemory:
		db, err := dummydb.Open()
		if err != nil {
			return nil, err
		}
		st := &stores{
			camps:     dummydb.NewCampRepository(db),
			schedules: dummydb.NewScheduleRepository(db),
			closer:    closers{},
		}
		if conf.Catalog.SeedDemo {
			if err = dummydb.Seed(context.Background(), st.camps); err != nil {
				return nil, err
			}
		}
		return st, nil

	case core.StorePostgres:
		db, err := database.SetUp(conf)
		if err != nil {
			return nil, err
		}
		notifier, err := sqlxrepos.NewChangeNotifier(
			database.DSN(conf), conf.Catalog.Channel, conf.Catalog.MinReconnect, conf.Catalog.MaxReconnect, logger,
		)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return &stores{
			camps:     sqlxrepos.NewCampRepository(db, notifier),
			schedules: sqlxrepos.NewScheduleRepository(db),
			closer:    closers{notifier, db},
		}, nil
	}
	return nil, errors.Errorf("unknown store %q", conf.Database.Store)
}

type closers []io.Closer

func (cs closers) Close() error {
	var firstErr error
	for _, c := range cs {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
