package handlers

import (
	"context"
	"fmt"

	"github.com/maruel/admindash/internal/memdb"
	"github.com/maruel/admindash/internal/server/dto"
	"github.com/maruel/admindash/internal/storage/identity"
	"github.com/maruel/admindash/internal/storage/records"
)

// SchemaHandler describes the columns of each record kind.
type SchemaHandler struct {
	kinds map[string][]dto.ColumnResponse
}

// NewSchemaHandler creates a schema handler for the user and product kinds.
func NewSchemaHandler() (*SchemaHandler, error) {
	users, err := memdb.Columns[records.User]()
	if err != nil {
		return nil, fmt.Errorf("user columns: %w", err)
	}
	products, err := memdb.Columns[records.Product]()
	if err != nil {
		return nil, fmt.Errorf("product columns: %w", err)
	}
	return &SchemaHandler{kinds: map[string][]dto.ColumnResponse{
		"users":    columnsToResponse(users),
		"products": columnsToResponse(products),
	}}, nil
}

// Get returns the columns of the requested kind.
func (h *SchemaHandler) Get(_ context.Context, _ *identity.Account, req *dto.GetSchemaRequest) (*dto.GetSchemaResponse, error) {
	cols, ok := h.kinds[req.Kind]
	if !ok {
		return nil, dto.NotFound("Kind")
	}
	return &dto.GetSchemaResponse{Kind: req.Kind, Columns: cols}, nil
}
