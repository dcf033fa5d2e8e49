package task

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/angas/junegloom/goes"
	"github.com/angas/junegloom/metrics"
	"github.com/jonboulle/clockwork"
)

type LoopFetcher interface {
	Latest(ctx context.Context) (string, error)
}

// NewGoesTask refreshes the cached loop url. The first lookup runs in the
// background so start-up does not wait on NOAA.
func NewGoesTask(logger *slog.Logger, fetcher LoopFetcher, cache *goes.Cache, m *metrics.Metrics, clock clockwork.Clock) func() {
	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		refreshGoes(ctx, logger, fetcher, cache, m, clock)
	}

	if _, ok := cache.Get(); !ok {
		logger.Info("no GOES loop cached, fetching")
		go run()
	}

	return run
}

func refreshGoes(ctx context.Context, logger *slog.Logger, fetcher LoopFetcher, cache *goes.Cache, m *metrics.Metrics, clock clockwork.Clock) {
	logger.Debug("running goes task...")

	url, err := fetcher.Latest(ctx)
	switch {
	case errors.Is(err, goes.ErrNoLoop):
		m.GoesFetches.WithLabelValues("empty").Inc()
		logger.Warn("goes task found no loop, keeping previous")
		return
	case err != nil:
		m.GoesFetches.WithLabelValues("error").Inc()
		logger.Error("goes task error", slog.Any("error", err))
		return
	}

	m.GoesFetches.WithLabelValues("success").Inc()
	cache.Set(goes.Loop{Url: url, FetchedAt: clock.Now().UTC()})
	logger.Info("goes task done", slog.String("url", url))
}
