package climate

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/angas/junegloom/calendar"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type Builder struct {
	logger *slog.Logger
	clock  clockwork.Clock
	rnd    RandomSource
	newID  func() string
}

type BuilderOption func(*Builder)

func WithClock(c clockwork.Clock) BuilderOption {
	return func(b *Builder) { b.clock = c }
}

func WithRandomSource(r RandomSource) BuilderOption {
	return func(b *Builder) { b.rnd = r }
}

func WithIDGenerator(f func() string) BuilderOption {
	return func(b *Builder) { b.newID = f }
}

func NewBuilder(logger *slog.Logger, opts ...BuilderOption) *Builder {
	b := &Builder{
		logger: logger,
		clock:  clockwork.NewRealClock(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.rnd == nil {
		b.rnd = NewRandomSource(nil)
	}
	return b
}

// Build runs aggregate, synthesize and cities over in. A nil input gives a
// dataset made entirely of fallbacks.
func (b *Builder) Build(in *Input) *Dataset {
	if in == nil {
		in = &Input{}
	}

	start := b.clock.Now()
	clim := AggregateAll(in.Historical, in.Future)
	days, realDays := SynthesizeDays(clim.Historical, in.Observations, b.rnd)
	ds := b.assemble(in, clim, days)
	ds.RealDays = realDays

	b.logger.Info("dataset built",
		slog.String("id", ds.ID),
		slog.Int("historicalRecords", len(in.Historical)),
		slog.Int("futureRecords", len(in.Future)),
		slog.Int("realDays", realDays),
		slog.Int("cities", ds.Cities.Len()),
		slog.Duration("elapsed", b.clock.Since(start)))
	return ds
}

// Restore rebuilds the deterministic parts from in and reuses a stored day
// series, so a restart does not draw new noise.
func (b *Builder) Restore(in *Input, id string, builtAt time.Time, realDays int, days []DailyRecord) (*Dataset, error) {
	if in == nil {
		in = &Input{}
	}
	if len(days) != calendar.DaysInYear {
		return nil, fmt.Errorf("stored build %s has %d days, want %d", id, len(days), calendar.DaysInYear)
	}
	for i, d := range days {
		if !d.Date.Equal(calendar.Day(i)) {
			return nil, fmt.Errorf("stored build %s: day %d is %s", id, i, d.DateKey())
		}
	}

	ds := b.assemble(in, AggregateAll(in.Historical, in.Future), days)
	ds.ID = id
	ds.BuiltAt = builtAt
	ds.RealDays = realDays
	ds.Restored = true

	b.logger.Info("dataset restored", slog.String("id", id), slog.Int("cities", ds.Cities.Len()))
	return ds, nil
}

func (b *Builder) assemble(in *Input, clim Climatology, days []DailyRecord) *Dataset {
	return &Dataset{
		ID:          b.newID(),
		BuiltAt:     b.clock.Now().UTC(),
		Checksum:    in.Checksum,
		Climatology: clim,
		Days:        days,
		Cities:      BuildCities(in.Cities, days),
	}
}

// Build is a one-shot build with a discarded log.
func Build(in *Input, rnd RandomSource) *Dataset {
	return NewBuilder(slog.New(slog.DiscardHandler), WithRandomSource(rnd)).Build(in)
}
