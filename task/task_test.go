package task

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/angas/junegloom/climate"
	"github.com/angas/junegloom/database"
	"github.com/angas/junegloom/goes"
	"github.com/angas/junegloom/metrics"
	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.DiscardHandler)

type fakeLoader struct {
	in  *climate.Input
	err error
}

func (l *fakeLoader) Load() (*climate.Input, error) {
	return l.in, l.err
}

func newTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "junegloom.db"))
	require.NoError(t, err)
	db.SetLogger(discard)
	t.Cleanup(db.Close)
	return db
}

func testInput(checksum string) *climate.Input {
	return &climate.Input{
		Checksum: checksum,
		Historical: []climate.RawMonthlyRecord{
			{Month: 6, Clt: 85, Tas: 291, Rsds: 230},
		},
		Cities: []climate.RawCityRecord{{City: "Malibu", Clt: 55, Tas: 289, Rsds: 220}},
	}
}

func newRunner(db BuildStore, loader SourceLoader, m *metrics.Metrics, built *[]*climate.Dataset) (*datasetRunner, *climate.Store) {
	store := &climate.Store{}
	return &datasetRunner{
		logger:  discard,
		loader:  loader,
		db:      db,
		builder: climate.NewBuilder(discard),
		store:   store,
		metrics: m,
		onBuilt: func(ds *climate.Dataset) { *built = append(*built, ds) },
	}, store
}

func TestDatasetStartupBuildsThenRestores(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	loader := &fakeLoader{in: testInput("sum-1")}

	m1 := metrics.NewMetricsForTesting()
	var built []*climate.Dataset
	r1, store1 := newRunner(db, loader, m1, &built)
	r1.startup(ctx)

	first := store1.Current()
	require.NotNil(t, first)
	assert.False(t, first.Restored)
	assert.Equal(t, "sum-1", first.Checksum)
	assert.Equal(t, []*climate.Dataset{first}, built)
	assert.Equal(t, 1.0, testutil.ToFloat64(m1.Builds.WithLabelValues("built")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m1.Cities))

	m2 := metrics.NewMetricsForTesting()
	r2, store2 := newRunner(db, loader, m2, &built)
	r2.startup(ctx)

	restored := store2.Current()
	require.NotNil(t, restored)
	assert.True(t, restored.Restored)
	assert.Equal(t, first.ID, restored.ID)
	assert.Equal(t, first.Days, restored.Days)
	assert.Equal(t, 1.0, testutil.ToFloat64(m2.Builds.WithLabelValues("restored")))
}

func TestDatasetStartupNewSourcesBuild(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	var built []*climate.Dataset

	r1, _ := newRunner(db, &fakeLoader{in: testInput("sum-1")}, metrics.NewMetricsForTesting(), &built)
	r1.startup(ctx)

	r2, store := newRunner(db, &fakeLoader{in: testInput("sum-2")}, metrics.NewMetricsForTesting(), &built)
	r2.startup(ctx)

	assert.False(t, store.Current().Restored)
	assert.NotEqual(t, built[0].ID, store.Current().ID)

	builds, err := db.GetBuilds(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, builds, 2)
}

func TestDatasetStartupLoadErrorServesFallback(t *testing.T) {
	m := metrics.NewMetricsForTesting()
	var built []*climate.Dataset
	r, store := newRunner(newTestDB(t), &fakeLoader{err: errors.New("bad json")}, m, &built)

	r.startup(context.Background())

	ds := store.Current()
	require.NotNil(t, ds)
	assert.Len(t, ds.Days, 365)
	assert.Zero(t, ds.Cities.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds.WithLabelValues("failed")))
}

func TestDatasetRebuild(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{in: testInput("sum-1")}
	m := metrics.NewMetricsForTesting()
	var built []*climate.Dataset
	r, store := newRunner(newTestDB(t), loader, m, &built)

	r.startup(ctx)
	first := store.Current()

	r.rebuild(ctx)
	second := store.Current()
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, built, 2)

	loader.err = errors.New("file truncated")
	r.rebuild(ctx)
	assert.Same(t, second, store.Current(), "a failed load keeps the current dataset")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds.WithLabelValues("failed")))
}

type brokenStore struct{ BuildStore }

func (brokenStore) SaveBuild(context.Context, database.BuildRow, []database.BuildDayRow) error {
	return errors.New("disk full")
}

func (brokenStore) LatestBuild(context.Context, string) (database.BuildRow, bool, error) {
	return database.BuildRow{}, false, errors.New("locked")
}

func TestDatasetServesEvenWhenStorageFails(t *testing.T) {
	var built []*climate.Dataset
	r, store := newRunner(brokenStore{}, &fakeLoader{in: testInput("x")}, metrics.NewMetricsForTesting(), &built)

	r.startup(context.Background())

	require.NotNil(t, store.Current())
	assert.Len(t, built, 1)
}

func TestDayRowsRoundTrip(t *testing.T) {
	ds := climate.Build(testInput("x"), nil)

	days, err := daysFromRows(dayRows(ds.Days))
	require.NoError(t, err)
	assert.Equal(t, ds.Days, days)

	_, err = daysFromRows([]database.BuildDayRow{{Date: "June 1"}})
	assert.Error(t, err)
}

type fakeFetcher struct {
	url string
	err error
}

func (f fakeFetcher) Latest(context.Context) (string, error) {
	return f.url, f.err
}

func TestRefreshGoes(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 6, 1, 15, 0, 0, 0, time.UTC))
	m := metrics.NewMetricsForTesting()
	var cache goes.Cache

	refreshGoes(ctx, discard, fakeFetcher{url: "https://x/a.gif"}, &cache, m, clock)
	loop, ok := cache.Get()
	require.True(t, ok)
	assert.Equal(t, goes.Loop{Url: "https://x/a.gif", FetchedAt: clock.Now()}, loop)

	refreshGoes(ctx, discard, fakeFetcher{err: goes.ErrNoLoop}, &cache, m, clock)
	refreshGoes(ctx, discard, fakeFetcher{err: errors.New("timeout")}, &cache, m, clock)

	loop, _ = cache.Get()
	assert.Equal(t, "https://x/a.gif", loop.Url, "failures keep the previous loop")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GoesFetches.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GoesFetches.WithLabelValues("empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GoesFetches.WithLabelValues("error")))
}

func TestDebouncer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	calls := make(chan struct{}, 10)
	d := &debouncer{clock: clock, delay: time.Second, f: func() { calls <- struct{}{} }}

	d.trigger()
	clock.Advance(500 * time.Millisecond)
	d.trigger()
	d.trigger()
	clock.Advance(500 * time.Millisecond)
	assert.Empty(t, calls)

	clock.Advance(500 * time.Millisecond)
	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("debounced func was not called")
	}

	clock.Advance(time.Hour)
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, calls)
}

func TestSourceWatcherRelevant(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "socal_data.js")
	require.NoError(t, os.WriteFile(raw, []byte("{}"), 0o644))

	sw, err := NewSourceWatcher(discard, []string{raw}, clockwork.NewFakeClock(), func() {})
	require.NoError(t, err)
	defer sw.watcher.Close()

	assert.True(t, sw.relevant(fsnotify.Event{Name: raw, Op: fsnotify.Write}))
	assert.True(t, sw.relevant(fsnotify.Event{Name: raw, Op: fsnotify.Create}))
	assert.False(t, sw.relevant(fsnotify.Event{Name: raw, Op: fsnotify.Chmod}))
	assert.False(t, sw.relevant(fsnotify.Event{Name: filepath.Join(dir, "other.js"), Op: fsnotify.Write}))
}
