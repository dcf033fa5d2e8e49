package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/angas/junegloom/calendar"
	"github.com/angas/junegloom/climate"
	"github.com/angas/junegloom/database"
	"github.com/angas/junegloom/metrics"
)

type BuildStore interface {
	SaveBuild(ctx context.Context, b database.BuildRow, days []database.BuildDayRow) error
	LatestBuild(ctx context.Context, checksum string) (database.BuildRow, bool, error)
	GetBuildDays(ctx context.Context, buildId string) ([]database.BuildDayRow, error)
}

type SourceLoader interface {
	Load() (*climate.Input, error)
}

type datasetRunner struct {
	logger  *slog.Logger
	loader  SourceLoader
	db      BuildStore
	builder *climate.Builder
	store   *climate.Store
	metrics *metrics.Metrics
	onBuilt func(*climate.Dataset)
	mu      sync.Mutex
}

// NewDatasetTask serves a dataset before returning: the stored build for
// the current sources when there is one, a fresh build otherwise. The
// returned func always builds anew.
func NewDatasetTask(
	logger *slog.Logger,
	loader SourceLoader,
	db BuildStore,
	builder *climate.Builder,
	store *climate.Store,
	m *metrics.Metrics,
	onBuilt func(*climate.Dataset),
) func() {
	r := &datasetRunner{
		logger:  logger,
		loader:  loader,
		db:      db,
		builder: builder,
		store:   store,
		metrics: m,
		onBuilt: onBuilt,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	r.startup(ctx)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		r.rebuild(ctx)
	}
}

func (r *datasetRunner) startup(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	in, err := r.loader.Load()
	if err != nil {
		r.logger.Error("failed to load sources, building from fallbacks", slog.Any("error", err))
		r.metrics.Builds.WithLabelValues("failed").Inc()
		r.publish(r.builder.Build(nil))
		return
	}

	if ds, err := r.restore(ctx, in); err != nil {
		r.logger.Warn("could not restore stored build", slog.Any("error", err))
	} else if ds != nil {
		r.metrics.Builds.WithLabelValues("restored").Inc()
		r.publish(ds)
		return
	}

	r.logger.Info("no stored build for current sources, building")
	r.buildAndSave(ctx, in)
}

func (r *datasetRunner) rebuild(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug("running dataset task...")

	in, err := r.loader.Load()
	if err != nil {
		r.logger.Error("dataset task error, keeping current dataset", slog.Any("error", err))
		r.metrics.Builds.WithLabelValues("failed").Inc()
		return
	}
	r.buildAndSave(ctx, in)

	r.logger.Info("dataset task done")
}

// restore returns nil without error when nothing is stored for in's checksum.
func (r *datasetRunner) restore(ctx context.Context, in *climate.Input) (*climate.Dataset, error) {
	row, found, err := r.db.LatestBuild(ctx, in.Checksum)
	if err != nil || !found {
		return nil, err
	}

	rows, err := r.db.GetBuildDays(ctx, row.Id)
	if err != nil {
		return nil, err
	}
	days, err := daysFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", row.Id, err)
	}

	return r.builder.Restore(in, row.Id, row.BuiltAt, row.RealDays, days)
}

func (r *datasetRunner) buildAndSave(ctx context.Context, in *climate.Input) {
	timer := time.Now()
	ds := r.builder.Build(in)

	if err := r.db.SaveBuild(ctx, buildRow(ds), dayRows(ds.Days)); err != nil {
		r.logger.Error("failed to save build", slog.String("id", ds.ID), slog.Any("error", err))
	}

	r.metrics.BuildDuration.Observe(time.Since(timer).Seconds())
	r.metrics.Builds.WithLabelValues("built").Inc()
	r.publish(ds)
}

func (r *datasetRunner) publish(ds *climate.Dataset) {
	r.store.Swap(ds)
	r.metrics.RealDays.Set(float64(ds.RealDays))
	r.metrics.Cities.Set(float64(len(ds.Cities.Records())))
	if r.onBuilt != nil {
		r.onBuilt(ds)
	}
}

func buildRow(ds *climate.Dataset) database.BuildRow {
	return database.BuildRow{
		Id:       ds.ID,
		BuiltAt:  ds.BuiltAt,
		Checksum: ds.Checksum,
		RealDays: ds.RealDays,
		Cities:   len(ds.Cities.Records()),
	}
}

func dayRows(days []climate.DailyRecord) []database.BuildDayRow {
	rows := make([]database.BuildDayRow, len(days))
	for i, d := range days {
		rows[i] = database.BuildDayRow{
			Date:      d.DateKey(),
			Morning:   d.Morning,
			Afternoon: d.Afternoon,
			Temp:      d.Temp,
			Solar:     d.Solar,
		}
	}
	return rows
}

func daysFromRows(rows []database.BuildDayRow) ([]climate.DailyRecord, error) {
	days := make([]climate.DailyRecord, len(rows))
	for i, row := range rows {
		date, err := calendar.ParseDateKey(row.Date)
		if err != nil {
			return nil, err
		}
		days[i] = climate.DailyRecord{
			Date:      date,
			Month:     int(date.Month()),
			Morning:   row.Morning,
			Afternoon: row.Afternoon,
			Temp:      row.Temp,
			Solar:     row.Solar,
		}
	}
	return days, nil
}
