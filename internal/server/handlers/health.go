package handlers

import (
	"context"

	"github.com/maruel/admindash/internal/server/dto"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string
	GoVersion string
	Revision  string
	Dirty     bool
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	info BuildInfo
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(info BuildInfo) *HealthHandler {
	return &HealthHandler{info: info}
}

// Health handles health check requests.
func (h *HealthHandler) Health(ctx context.Context, req *dto.HealthRequest) (*dto.HealthResponse, error) {
	return &dto.HealthResponse{
		Status:    "ok",
		Version:   h.info.Version,
		GoVersion: h.info.GoVersion,
		Revision:  h.info.Revision,
		Dirty:     h.info.Dirty,
	}, nil
}
