package daemon

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/subtext/internal/batch"
	"git.home.luguber.info/inful/subtext/internal/config"
	"git.home.luguber.info/inful/subtext/internal/index"
	"git.home.luguber.info/inful/subtext/internal/logfields"
	"git.home.luguber.info/inful/subtext/internal/store"
	"git.home.luguber.info/inful/subtext/internal/worker"
)

// Daemon keeps the store indexed and serves parse requests until stopped.
type Daemon struct {
	cfg        *config.Config
	store      store.Store
	dispatcher *batch.Dispatcher
	indexer    *index.Indexer
	source     index.Source
	worker     *worker.Worker
	registry   *prom.Registry
	logger     *slog.Logger

	// indexMu serializes index runs from the watcher, scheduler and startup.
	indexMu sync.Mutex

	startedAt time.Time
	lastRun   lastRun
	servers   []*http.Server
	watcher   *NoteWatcher
	scheduler *Scheduler
}

type lastRun struct {
	mu      sync.RWMutex
	at      time.Time
	summary index.Summary
	err     error
}

// Deps are the collaborators the daemon runs. Worker and Registry are
// optional.
type Deps struct {
	Store      store.Store
	Dispatcher *batch.Dispatcher
	Indexer    *index.Indexer
	Source     index.Source
	Worker     *worker.Worker
	Registry   *prom.Registry
	Logger     *slog.Logger
}

// New creates a Daemon.
func New(cfg *config.Config, deps Deps) *Daemon {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Daemon{
		cfg:        cfg,
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		indexer:    deps.Indexer,
		source:     deps.Source,
		worker:     deps.Worker,
		registry:   deps.Registry,
		logger:     logger,
	}
}

// Run starts every component, blocks until ctx is cancelled and then shuts
// everything down.
func (d *Daemon) Run(ctx context.Context) error {
	d.startedAt = time.Now()

	if d.worker != nil {
		if err := d.worker.Start(); err != nil {
			return err
		}
	}

	d.servers = append(d.servers, d.serve(d.cfg.Daemon.HTTPAddr, d.apiHandler()))
	if d.cfg.Metrics.Enabled && d.registry != nil && d.cfg.Metrics.Addr != d.cfg.Daemon.HTTPAddr {
		d.servers = append(d.servers, d.serve(d.cfg.Metrics.Addr, d.metricsHandler()))
	}

	d.Reindex(ctx)

	if d.cfg.Daemon.Watch {
		if _, ok := d.source.(index.DirSource); ok {
			w, err := NewNoteWatcher(d.cfg.Notes.Dir, d.cfg.Daemon.Debounce, d.handleChanges)
			if err != nil {
				d.shutdown()
				return err
			}
			if err := w.Start(ctx); err != nil {
				d.shutdown()
				return err
			}
			d.watcher = w
		} else {
			d.logger.Warn("File watching needs a directory source; relying on the reindex schedule",
				logfields.Source(d.source.Describe()))
		}
	}

	if d.cfg.Daemon.ReindexInterval > 0 {
		s, err := NewScheduler()
		if err != nil {
			d.shutdown()
			return err
		}
		if _, err := s.SchedulePeriodicReindex(ctx, d.cfg.Daemon.ReindexInterval, d.Reindex); err != nil {
			d.shutdown()
			return err
		}
		s.Start()
		d.scheduler = s
	}

	d.logger.Info("Daemon running", logfields.Addr(d.cfg.Daemon.HTTPAddr))
	<-ctx.Done()
	d.logger.Info("Daemon stopping")
	d.shutdown()
	return nil
}

// Reindex runs a full index of the configured source.
func (d *Daemon) Reindex(ctx context.Context) {
	d.indexMu.Lock()
	defer d.indexMu.Unlock()

	sum, err := d.indexer.Run(ctx, d.source)
	if err != nil {
		d.logger.Error("Index run failed", logfields.Error(err))
	}
	d.lastRun.mu.Lock()
	d.lastRun.at = time.Now()
	d.lastRun.summary = sum
	d.lastRun.err = err
	d.lastRun.mu.Unlock()
}

func (d *Daemon) serve(addr string, h http.Handler) *http.Server {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		d.logger.Info("HTTP server listening", logfields.Addr(addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.logger.Error("HTTP server failed", logfields.Addr(addr), logfields.Error(err))
		}
	}()
	return srv
}

func (d *Daemon) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if d.scheduler != nil {
		if err := d.scheduler.Stop(); err != nil {
			d.logger.Warn("Scheduler shutdown failed", logfields.Error(err))
		}
	}
	if d.watcher != nil {
		d.watcher.Stop()
	}
	if d.worker != nil {
		if err := d.worker.Stop(); err != nil {
			d.logger.Warn("Worker drain failed", logfields.Error(err))
		}
	}
	for _, srv := range d.servers {
		if err := srv.Shutdown(ctx); err != nil {
			d.logger.Warn("HTTP shutdown failed", logfields.Addr(srv.Addr), logfields.Error(err))
		}
	}
}
