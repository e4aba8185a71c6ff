// Package health serves liveness and readiness probes for long-running
// refrain processes. /healthz reports that the process is up; /readyz runs
// the registered checks (config still loadable, engines built) and fails
// with 503 when any of them does.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// checkTimeout bounds a single readiness check.
const checkTimeout = 2 * time.Second

// Check probes one dependency and returns nil when it is usable. Checks
// must respect context cancellation.
type Check func(ctx context.Context) error

// Handler answers probe requests. Checks are fixed at construction; the
// handler itself carries no mutable state and is safe for concurrent use.
type Handler struct {
	names  []string
	checks map[string]Check
}

// New builds a Handler over the named checks. Checks run on every /readyz
// request in the order given.
func New() *Handler {
	return &Handler{checks: make(map[string]Check)}
}

// Add registers a named readiness check. Calling Add after the handler has
// been registered on a mux is a race; wire everything up first.
func (h *Handler) Add(name string, check Check) *Handler {
	if _, ok := h.checks[name]; !ok {
		h.names = append(h.names, name)
	}
	h.checks[name] = check
	return h
}

// Register mounts the probe routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("GET /readyz", h.readyz)
}

// probeResponse is the JSON body of both probes.
type probeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, probeResponse{Status: "ok"})
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	resp := probeResponse{Status: "ok", Checks: make(map[string]string, len(h.names))}
	status := http.StatusOK

	for _, name := range h.names {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := h.checks[name](ctx)
		cancel()
		if err != nil {
			resp.Checks[name] = "fail: " + err.Error()
			resp.Status = "fail"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
	}
}
