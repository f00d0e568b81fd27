package api

import (
	"context"
	"net/http"

	respond "github.com/Clinton-Cochrane/mobile-grocery/internal/api/respond"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/listing"
)

// Reporter produces the live dependency report. listing.Coordinator implements it.
type Reporter interface {
	HealthCheck(ctx context.Context) listing.Report
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	reporter Reporter
	ready    func() bool
}

// NewHealthHandler reports live probes from reporter. ready is the background
// checker's aggregate; nil means always ready.
func NewHealthHandler(reporter Reporter, ready func() bool) *HealthHandler {
	if ready == nil {
		ready = func() bool { return true }
	}
	return &HealthHandler{reporter: reporter, ready: ready}
}

type healthResponse struct {
	listing.Report
	Ready bool `json:"ready"`
}

// CheckHealth always answers 200; the body carries per-dependency status.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, healthResponse{
		Report: h.reporter.HealthCheck(r.Context()),
		Ready:  h.ready(),
	})
}
