// Herbfinder - Plant Identification and Community Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/herbfinder

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthResponse is returned by the health probes.
type HealthResponse struct {
	Status   string  `json:"status"`
	Database string  `json:"database,omitempty"`
	Uptime   float64 `json:"uptime_seconds"`
}

// Root handles GET /.
//
// @Summary Liveness text
// @Tags Core
// @Produce plain
// @Success 200 {string} string "Herbfinder API is running"
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Herbfinder API is running"))
}

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of dependencies.
//
// @Summary Liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests. It reports 503 when the
// document store does not answer a ping within two seconds.
//
// @Summary Readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ready", Database: "connected", Uptime: time.Since(h.startTime).Seconds()}
	status := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		resp.Status = "not_ready"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, resp)
}
