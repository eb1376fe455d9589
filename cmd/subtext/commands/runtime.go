package commands

import (
	"log/slog"

	"github.com/nats-io/nats.go"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/subtext/internal/batch"
	"git.home.luguber.info/inful/subtext/internal/config"
	"git.home.luguber.info/inful/subtext/internal/index"
	"git.home.luguber.info/inful/subtext/internal/metrics"
	"git.home.luguber.info/inful/subtext/internal/store"
	"git.home.luguber.info/inful/subtext/internal/worker"
)

// runtime holds the components shared by index and serve.
type runtime struct {
	cfg        *config.Config
	registry   *prom.Registry
	recorder   metrics.Recorder
	dispatcher *batch.Dispatcher
	store      *store.SQLiteStore
	conn       *nats.Conn
	indexer    *index.Indexer
}

func newRuntime(cfg *config.Config) (*runtime, error) {
	rt := &runtime{cfg: cfg, recorder: metrics.NoopRecorder{}}
	if cfg.Metrics.Enabled {
		rt.registry = metrics.NewRegistry()
		rt.recorder = metrics.NewPrometheusRecorder(rt.registry)
	}
	rt.dispatcher = newDispatcher(cfg, rt.recorder)

	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	rt.store = st

	opts := []index.Option{index.WithRecorder(rt.recorder)}
	if cfg.NATS.Enabled {
		conn, err := worker.Connect(cfg.NATS)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		rt.conn = conn
		opts = append(opts, index.WithPublisher(worker.NewEventPublisher(conn, cfg.NATS.EventsSubject)))
	}
	rt.indexer = index.New(st, rt.dispatcher, opts...)
	return rt, nil
}

func newDispatcher(cfg *config.Config, rec metrics.Recorder) *batch.Dispatcher {
	return batch.NewDispatcher(
		batch.WithConcurrency(cfg.Parser.Concurrency),
		batch.WithIsolation(cfg.Parser.IsolateFailures),
		batch.WithRecorder(rec),
	)
}

func (rt *runtime) Close() {
	if rt.conn != nil {
		if err := rt.conn.Drain(); err != nil {
			slog.Warn("NATS drain failed", "error", err)
		}
	}
	if err := rt.store.Close(); err != nil {
		slog.Warn("Store close failed", "error", err)
	}
}
