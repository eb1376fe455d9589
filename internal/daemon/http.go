package daemon

import (
	"encoding/json"
	"io"
	"net/http"

	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
	"git.home.luguber.info/inful/subtext/internal/metrics"
	"git.home.luguber.info/inful/subtext/internal/subtext"
)

const maxRequestBytes = 32 << 20

func (d *Daemon) apiHandler() http.Handler {
	errs := errors.NewHTTPErrorAdapter(d.logger)
	mux := http.NewServeMux()

	mux.HandleFunc("POST /parse", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		if err != nil {
			errs.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryValidation, "failed to read request body").Build())
			return
		}
		out, err := d.dispatcher.HandlePayload(r.Context(), body)
		if err != nil {
			errs.WriteErrorResponse(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(out)
	})

	mux.HandleFunc("POST /format", func(w http.ResponseWriter, r *http.Request) {
		var doc subtext.Document
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&doc); err != nil {
			errs.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryValidation, "invalid document").Build())
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, subtext.Format(doc))
	})

	mux.HandleFunc("GET /notes/{id...}", func(w http.ResponseWriter, r *http.Request) {
		rec, err := d.store.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			errs.WriteErrorResponse(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":            rec.NoteID,
			"path":          rec.Path,
			"fingerprint":   rec.Fingerprint,
			"updatedAt":     rec.UpdatedAt,
			"parsedContent": rec.Document,
		})
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		resp := d.Health(r.Context())
		status := http.StatusOK
		if resp.Status == HealthStatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	})

	if d.cfg.Metrics.Enabled && d.registry != nil && d.cfg.Metrics.Addr == d.cfg.Daemon.HTTPAddr {
		mux.Handle("GET /metrics", metrics.HTTPHandler(d.registry))
	}
	return mux
}

func (d *Daemon) metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.HTTPHandler(d.registry))
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
