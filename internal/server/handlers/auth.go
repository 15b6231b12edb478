// Handles operator authentication and session management.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maruel/admindash/internal/server/dto"
	"github.com/maruel/admindash/internal/server/reqctx"
	"github.com/maruel/admindash/internal/storage/identity"
)

// TokenExpiration is the lifetime of issued tokens and their sessions.
const TokenExpiration = 24 * time.Hour

// AuthHandler handles authentication requests.
type AuthHandler struct {
	svc *Services
	cfg *Config
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc *Services, cfg *Config) *AuthHandler {
	return &AuthHandler{svc: svc, cfg: cfg}
}

// Login handles account login and returns a JWT token.
func (h *AuthHandler) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	account, err := h.svc.Account.Authenticate(req.Email, req.Password)
	if err != nil {
		h.cfg.onLogin("failure")
		if !errors.Is(err, identity.ErrInvalidCredentials) {
			slog.WarnContext(ctx, "Login failed", "error", err)
		}
		return nil, dto.InvalidCredentials()
	}
	if n := h.svc.Session.CleanupExpired(0); n > 0 {
		slog.DebugContext(ctx, "Removed expired sessions", "count", n)
	}
	token, err := h.GenerateTokenWithSession(account, reqctx.ClientIP(ctx), reqctx.UserAgent(ctx), reqctx.CountryCode(ctx))
	if err != nil {
		h.cfg.onLogin("failure")
		if errors.Is(err, identity.ErrSessionQuotaExceeded) {
			return nil, dto.Forbidden("Too many active sessions")
		}
		return nil, dto.InternalWithError("Failed to generate token", err)
	}
	h.cfg.onLogin("success")
	slog.InfoContext(ctx, "Account logged in", "account_id", account.ID, "role", account.Role)
	return &dto.LoginResponse{Token: token, Account: accountToResponse(account)}, nil
}

// GenerateTokenWithSession creates a session and signs a JWT referencing it.
func (h *AuthHandler) GenerateTokenWithSession(account *identity.Account, clientIP, userAgent, countryCode string) (string, error) {
	now := h.cfg.now()
	expiresAt := now.Add(TokenExpiration)
	return h.svc.Session.Issue(account.ID, userAgent, clientIP, countryCode, expiresAt, h.cfg.Quotas.MaxSessionsPerAccount,
		func(session *identity.Session) (string, error) {
			claims := jwt.MapClaims{
				"sub":   account.ID,
				"email": account.Email,
				"role":  string(account.Role),
				"sid":   session.ID,
				"exp":   expiresAt.Unix(),
				"iat":   now.Unix(),
			}
			return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.cfg.JWTSecret)
		})
}

// Logout revokes the current session.
func (h *AuthHandler) Logout(ctx context.Context, _ *identity.Account, _ *dto.LogoutRequest) (*dto.LogoutResponse, error) {
	sessionID := reqctx.SessionID(ctx)
	if sessionID == "" {
		return &dto.LogoutResponse{Ok: true}, nil
	}
	if err := h.svc.Session.Revoke(sessionID); err != nil {
		slog.ErrorContext(ctx, "Failed to revoke session", "error", err, "session_id", sessionID)
		return nil, dto.InternalWithError("Failed to logout", err)
	}
	return &dto.LogoutResponse{Ok: true}, nil
}

// GetMe returns the current account info.
func (h *AuthHandler) GetMe(_ context.Context, account *identity.Account, _ *dto.GetMeRequest) (*dto.AccountResponse, error) {
	return accountToResponse(account), nil
}
