// Handles user record CRUD requests.

package handlers

import (
	"context"
	"log/slog"

	"github.com/maruel/admindash/internal/server/dto"
	"github.com/maruel/admindash/internal/storage/identity"
	"github.com/maruel/admindash/internal/storage/records"
)

// UserHandler handles user record requests.
type UserHandler struct {
	svc *Services
	cfg *Config
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *Services, cfg *Config) *UserHandler {
	return &UserHandler{svc: svc, cfg: cfg}
}

// List returns one page of users matching the optional search term.
func (h *UserHandler) List(_ context.Context, _ *identity.Account, req *dto.ListUsersRequest) (*dto.ListUsersResponse, error) {
	page, limit := pageParams(req.ListParams, h.cfg.Pagination)
	items, total := h.svc.User.List(page, limit, req.Search)
	data := make([]dto.UserResponse, len(items))
	for i, u := range items {
		data[i] = userToResponse(u)
	}
	return &dto.ListUsersResponse{Data: data, Total: total}, nil
}

// Get returns a single user.
func (h *UserHandler) Get(_ context.Context, _ *identity.Account, req *dto.GetUserRequest) (*dto.UserResponse, error) {
	u, err := h.svc.User.Get(req.ID)
	if err != nil {
		return nil, recordError(err, "User", "get user")
	}
	resp := userToResponse(u)
	return &resp, nil
}

// Create adds a user.
func (h *UserHandler) Create(ctx context.Context, account *identity.Account, req *dto.CreateUserRequest) (*dto.CreatedUserResponse, error) {
	f := records.UserFields{Name: req.Name, Email: req.Email}
	if req.Role != nil {
		f.Role = roleFromDTO(*req.Role)
	}
	u, err := h.svc.User.Create(f)
	if err != nil {
		return nil, recordError(err, "User", "create user")
	}
	slog.InfoContext(ctx, "User created", "id", u.ID, "by", account.ID)
	return &dto.CreatedUserResponse{UserResponse: userToResponse(u)}, nil
}

// Update changes the fields present in the request.
func (h *UserHandler) Update(ctx context.Context, account *identity.Account, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if _, err := h.svc.User.Get(req.ID); err != nil {
		return nil, recordError(err, "User", "update user")
	}
	if err := req.ValidateFields(); err != nil {
		return nil, err
	}
	patch := records.UserPatch{Name: req.Name, Email: req.Email}
	if req.Role != nil {
		r := roleFromDTO(*req.Role)
		patch.Role = &r
	}
	u, err := h.svc.User.Update(req.ID, patch)
	if err != nil {
		return nil, recordError(err, "User", "update user")
	}
	slog.InfoContext(ctx, "User updated", "id", u.ID, "by", account.ID)
	resp := userToResponse(u)
	return &resp, nil
}

// Delete removes a user.
func (h *UserHandler) Delete(ctx context.Context, account *identity.Account, req *dto.DeleteUserRequest) (*dto.EmptyResponse, error) {
	if !h.svc.User.Delete(req.ID) {
		return nil, dto.NotFound("User")
	}
	slog.InfoContext(ctx, "User deleted", "id", req.ID, "by", account.ID)
	return &dto.EmptyResponse{}, nil
}
