package handlers

import (
	"context"

	"github.com/maruel/admindash/internal/server/dto"
	"github.com/maruel/admindash/internal/storage/identity"
	"github.com/maruel/admindash/internal/storage/records"
)

// DashboardHandler serves the dashboard aggregates.
type DashboardHandler struct {
	svc *Services
	cfg *Config
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(svc *Services, cfg *Config) *DashboardHandler {
	return &DashboardHandler{svc: svc, cfg: cfg}
}

// Get returns the KPIs and chart series.
func (h *DashboardHandler) Get(_ context.Context, _ *identity.Account, _ *dto.DashboardRequest) (*dto.DashboardResponse, error) {
	s := records.Summarize(h.svc.User.All(), h.svc.Product.All(), h.cfg.now())
	return summaryToResponse(s), nil
}
