// Handles product record CRUD requests.

package handlers

import (
	"context"
	"log/slog"

	"github.com/maruel/admindash/internal/server/dto"
	"github.com/maruel/admindash/internal/storage/identity"
	"github.com/maruel/admindash/internal/storage/records"
)

// ProductHandler handles product record requests.
type ProductHandler struct {
	svc *Services
	cfg *Config
}

// NewProductHandler creates a new product handler.
func NewProductHandler(svc *Services, cfg *Config) *ProductHandler {
	return &ProductHandler{svc: svc, cfg: cfg}
}

// List returns one page of products matching the optional search term.
func (h *ProductHandler) List(_ context.Context, _ *identity.Account, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error) {
	page, limit := pageParams(req.ListParams, h.cfg.Pagination)
	items, total := h.svc.Product.List(page, limit, req.Search)
	data := make([]dto.ProductResponse, len(items))
	for i, p := range items {
		data[i] = productToResponse(p)
	}
	return &dto.ListProductsResponse{Data: data, Total: total}, nil
}

// Get returns a single product.
func (h *ProductHandler) Get(_ context.Context, _ *identity.Account, req *dto.GetProductRequest) (*dto.ProductResponse, error) {
	p, err := h.svc.Product.Get(req.ID)
	if err != nil {
		return nil, recordError(err, "Product", "get product")
	}
	resp := productToResponse(p)
	return &resp, nil
}

// Create adds a product.
func (h *ProductHandler) Create(ctx context.Context, account *identity.Account, req *dto.CreateProductRequest) (*dto.CreatedProductResponse, error) {
	p, err := h.svc.Product.Create(records.ProductFields{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Value(),
		Category:    req.Category,
	})
	if err != nil {
		return nil, recordError(err, "Product", "create product")
	}
	slog.InfoContext(ctx, "Product created", "id", p.ID, "by", account.ID)
	return &dto.CreatedProductResponse{ProductResponse: productToResponse(p)}, nil
}

// Update changes the fields present in the request.
func (h *ProductHandler) Update(ctx context.Context, account *identity.Account, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if _, err := h.svc.Product.Get(req.ID); err != nil {
		return nil, recordError(err, "Product", "update product")
	}
	if err := req.ValidateFields(); err != nil {
		return nil, err
	}
	patch := records.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	}
	if req.Price != nil {
		v := req.Price.Value()
		patch.Price = &v
	}
	p, err := h.svc.Product.Update(req.ID, patch)
	if err != nil {
		return nil, recordError(err, "Product", "update product")
	}
	slog.InfoContext(ctx, "Product updated", "id", p.ID, "by", account.ID)
	resp := productToResponse(p)
	return &resp, nil
}

// Delete removes a product.
func (h *ProductHandler) Delete(ctx context.Context, account *identity.Account, req *dto.DeleteProductRequest) (*dto.EmptyResponse, error) {
	if !h.svc.Product.Delete(req.ID) {
		return nil, dto.NotFound("Product")
	}
	slog.InfoContext(ctx, "Product deleted", "id", req.ID, "by", account.ID)
	return &dto.EmptyResponse{}, nil
}
