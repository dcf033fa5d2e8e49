package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/angas/junegloom/calendar"
	"github.com/angas/junegloom/climate"
	"github.com/angas/junegloom/config"
	"github.com/angas/junegloom/database"
	"github.com/angas/junegloom/goes"
	"github.com/angas/junegloom/logging"
	"github.com/angas/junegloom/metrics"
	"github.com/angas/junegloom/notify"
	"github.com/angas/junegloom/source"
	"github.com/angas/junegloom/task"
	"github.com/angas/junegloom/www"
	"github.com/lmittmann/tint"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if err := calendar.SetGuiTimezone(cnfg.Gui.GetTimezone()); err != nil {
		panic(fmt.Sprintf("failed to set GUI timezone: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("junegloom is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	defer db.Close()

	logger := slog.New(logging.NewMultiHandler(
		consoleHandler,
		logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	var publisher *notify.Publisher
	if !cnfg.Mqtt.Enabled {
		logger.Info("mqtt disabled, dataset notices are not published")
	} else if isDevMode() {
		logger.Info("dev mode, skipping mqtt connection")
	} else {
		publisher = notify.New(
			cnfg.Mqtt.Host,
			cnfg.Mqtt.Port,
			cnfg.Mqtt.Username,
			cnfg.Mqtt.Password,
			cnfg.Mqtt.GetTopic())
		if err := publisher.Connect(); err != nil {
			panic(fmt.Sprintf("mqtt connection error: %v", err))
		}
		defer publisher.Disconnect()
	}

	// The first dataset is published while the tasks are created, before
	// there is a server to tell. server is assigned before any task runs
	// concurrently.
	var server *www.Server
	onBuilt := func(ds *climate.Dataset) {
		if server != nil {
			server.Notify(ds)
		}
		if publisher != nil {
			if err := publisher.Publish(notify.NoticeFrom(ds)); err != nil {
				logger.Error("failed to publish dataset notice", slog.Any("error", err))
			}
		}
	}

	m := metrics.NewMetrics()
	store := &climate.Store{}
	goesCache := &goes.Cache{}
	loader := source.NewLoader(
		logger.With("module", "source"),
		cnfg.Source.RawPath,
		cnfg.Source.ObservationsPath)

	tasks := task.NewTasks(db, loader, store, goesCache, m, cnfg, onBuilt)

	server, err = www.NewServer(db, store, goesCache, tasks, m, cnfg)
	if err != nil {
		panic(fmt.Sprintf("failed to create server: %v", err))
	}

	if isDevMode() {
		logger.Info("dev mode, skipping task scheduling")
	} else {
		if err := tasks.Run(ctx); err != nil {
			panic(fmt.Sprintf("failed to schedule tasks: %v", err))
		}
		defer tasks.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("main context done")
		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			cancel()
		}
	}()

	server.Run(ctx)
}

func isDevMode() bool {
	return strings.EqualFold(os.Getenv("APP_ENV"), "development")
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}
	if syncer, ok := logger.Handler().(interface{ Sync() error }); ok {
		if syncErr := syncer.Sync(); syncErr != nil {
			logger.Error("failed to flush logger", slog.Any("error", syncErr))
		}
	}

	time.Sleep(2 * time.Second)
	os.Exit(1)
}
