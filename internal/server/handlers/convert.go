package handlers

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/maruel/admindash/internal/memdb"
	"github.com/maruel/admindash/internal/server/dto"
	"github.com/maruel/admindash/internal/storage"
	"github.com/maruel/admindash/internal/storage/entity"
	"github.com/maruel/admindash/internal/storage/identity"
	"github.com/maruel/admindash/internal/storage/records"
)

// --- Role conversions ---

func roleToDTO(r entity.UserRole) dto.UserRole {
	return dto.UserRole(r)
}

func roleFromDTO(r dto.UserRole) entity.UserRole {
	return entity.UserRole(r)
}

// --- Pagination ---

// pageParams turns the raw page and limit query values into a page number and
// a page size within the configured bounds.
func pageParams(p dto.ListParams, cfg storage.Pagination) (page, limit int) {
	page, ok := parseCount(p.Page)
	if !ok || page < 1 {
		page = 1
	}
	limit, ok = parseCount(p.Limit)
	switch {
	case !ok || limit == 0:
		limit = cfg.DefaultLimit
	case limit < 0:
		limit = 1
	case limit > cfg.MaxLimit:
		limit = cfg.MaxLimit
	}
	return page, limit
}

// parseCount parses a decimal integer. Values out of the int range saturate,
// so an oversized page lands past the end instead of on page 1.
func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if errors.Is(err, strconv.ErrRange) {
		if n < 0 {
			return math.MinInt, true
		}
		return math.MaxInt, true
	}
	return n, err == nil
}

// --- Entity to DTO conversions ---

func accountToResponse(a *identity.Account) *dto.AccountResponse {
	return &dto.AccountResponse{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
		Role:  roleToDTO(a.Role),
	}
}

func userToResponse(u *records.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      roleToDTO(u.Role),
		CreatedAt: dto.FormatTime(u.Created),
		UpdatedAt: dto.FormatTime(u.Modified),
	}
}

func productToResponse(p *records.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		CreatedAt:   dto.FormatTime(p.Created),
		UpdatedAt:   dto.FormatTime(p.Modified),
	}
}

func bucketsToDTO(buckets []records.Bucket) []dto.ChartPoint {
	out := make([]dto.ChartPoint, len(buckets))
	for i, b := range buckets {
		out[i] = dto.ChartPoint{Name: b.Label, Value: b.Value}
	}
	return out
}

func summaryToResponse(s *records.Summary) *dto.DashboardResponse {
	recent := make([]dto.ProductResponse, len(s.RecentProducts))
	for i, p := range s.RecentProducts {
		recent[i] = productToResponse(p)
	}
	return &dto.DashboardResponse{
		TotalUsers:         s.TotalUsers,
		TotalProducts:      s.TotalProducts,
		Revenue:            s.Revenue,
		CategoryCount:      s.CategoryCount,
		UsersByRole:        bucketsToDTO(s.UsersByRole),
		ProductsByCategory: bucketsToDTO(s.ProductsByCategory),
		RecentProducts:     recent,
		Signups:            bucketsToDTO(s.Signups),
		RevenueTrend:       bucketsToDTO(s.RevenueTrend),
	}
}

func columnsToResponse(cols []memdb.Column) []dto.ColumnResponse {
	out := make([]dto.ColumnResponse, len(cols))
	for i, c := range cols {
		out[i] = dto.ColumnResponse{
			Name:        c.Name,
			Type:        string(c.Type),
			Required:    c.Required,
			Description: c.Description,
		}
	}
	return out
}

// --- Error mapping ---

// recordError translates a record service error into an API error. resource
// names the record kind in "not found" messages.
func recordError(err error, resource, action string) error {
	switch {
	case errors.Is(err, records.ErrNotFound):
		return dto.NotFound(resource)
	case errors.Is(err, records.ErrEmailInUse):
		return dto.Conflict("Email already in use")
	default:
		return dto.InternalWithError("Failed to "+action, err)
	}
}
