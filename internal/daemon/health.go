package daemon

import (
	"context"
	"time"

	"git.home.luguber.info/inful/subtext/internal/version"
)

// HealthStatus represents the overall health of the daemon.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck is the result of one check.
type HealthCheck struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// HealthResponse is served on /healthz.
type HealthResponse struct {
	Status    HealthStatus  `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Uptime    string        `json:"uptime"`
	Version   string        `json:"version"`
	Documents int           `json:"documents"`
	Checks    []HealthCheck `json:"checks"`
}

// Health runs the store, worker and last-index checks. A failing store makes
// the daemon unhealthy; a disconnected worker or a failed last index run only
// degrades it.
func (d *Daemon) Health(ctx context.Context) HealthResponse {
	resp := HealthResponse{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now(),
		Version:   version.Version,
	}
	if !d.startedAt.IsZero() {
		resp.Uptime = time.Since(d.startedAt).Truncate(time.Second).String()
	}

	storeCheck := HealthCheck{Name: "store", Status: HealthStatusHealthy}
	if n, err := d.store.Count(ctx); err != nil {
		storeCheck.Status = HealthStatusUnhealthy
		storeCheck.Message = err.Error()
		resp.Status = HealthStatusUnhealthy
	} else {
		resp.Documents = n
	}
	resp.Checks = append(resp.Checks, storeCheck)

	if d.worker != nil {
		workerCheck := HealthCheck{Name: "worker", Status: HealthStatusHealthy}
		if !d.worker.Connected() {
			workerCheck.Status = HealthStatusDegraded
			workerCheck.Message = "NATS connection down"
		}
		resp.Checks = append(resp.Checks, workerCheck)
	}

	d.lastRun.mu.RLock()
	at, err := d.lastRun.at, d.lastRun.err
	d.lastRun.mu.RUnlock()
	indexCheck := HealthCheck{Name: "index", Status: HealthStatusHealthy}
	switch {
	case at.IsZero():
		indexCheck.Status = HealthStatusDegraded
		indexCheck.Message = "no index run yet"
	case err != nil:
		indexCheck.Status = HealthStatusDegraded
		indexCheck.Message = err.Error()
	default:
		indexCheck.Message = "last run " + at.UTC().Format(time.RFC3339)
	}
	resp.Checks = append(resp.Checks, indexCheck)

	for _, c := range resp.Checks {
		if c.Status == HealthStatusDegraded && resp.Status == HealthStatusHealthy {
			resp.Status = HealthStatusDegraded
		}
	}
	return resp
}
