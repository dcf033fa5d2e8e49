package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/angas/junegloom/climate"
	"github.com/angas/junegloom/config"
	"github.com/angas/junegloom/database"
	"github.com/angas/junegloom/goes"
	"github.com/angas/junegloom/metrics"
	"github.com/angas/junegloom/source"
	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
)

const maintenanceRunAt = "30 2 * * *"

type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	logger          *slog.Logger
	sources         []string
	DatasetTask     func()
	GoesTask        func()
	MaintenanceTask func()
}

func NewTasks(
	db *database.Database,
	loader *source.Loader,
	store *climate.Store,
	goesCache *goes.Cache,
	m *metrics.Metrics,
	cnfg *config.AppConfig,
	onBuilt func(*climate.Dataset),
) *Tasks {
	logger := slog.Default().With("module", "tasks")
	clock := clockwork.NewRealClock()
	builder := climate.NewBuilder(
		logger.With(slog.String("task", "dataset")),
		climate.WithClock(clock),
		climate.WithRandomSource(climate.NewRandomSource(cnfg.Synthesis.Seed)))

	return &Tasks{
		cron:            cron.New(),
		cnfg:            cnfg,
		logger:          logger,
		sources:         loader.Paths(),
		DatasetTask:     NewDatasetTask(logger.With(slog.String("task", "dataset")), loader, db, builder, store, m, onBuilt),
		GoesTask:        NewGoesTask(logger.With(slog.String("task", "goes")), goes.New(cnfg.Goes.GetUrl()), goesCache, m, clock),
		MaintenanceTask: NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), db, cnfg),
	}
}

// Run schedules the tasks and, when enabled, starts watching the sources
// until ctx is done.
func (t *Tasks) Run(ctx context.Context) error {
	schedule := []struct {
		spec string
		f    func()
	}{
		{t.cnfg.Source.RunAt, t.DatasetTask},
		{t.cnfg.Goes.RunAt, t.GoesTask},
		{maintenanceRunAt, t.MaintenanceTask},
	}
	for _, s := range schedule {
		if _, err := t.cron.AddFunc(s.spec, s.f); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", s.spec, err)
		}
	}
	t.cron.Start()

	if t.cnfg.Source.GetWatch() && len(t.sources) > 0 {
		sw, err := NewSourceWatcher(t.logger.With(slog.String("task", "source_watcher")), t.sources, clockwork.NewRealClock(), t.DatasetTask)
		if err != nil {
			t.logger.Warn("source watching disabled", slog.Any("error", err))
		} else {
			go sw.Run(ctx)
		}
	}
	return nil
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
