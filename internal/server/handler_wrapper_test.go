package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maruel/admindash/internal/server/dto"
	"github.com/maruel/admindash/internal/storage/entity"
	"github.com/maruel/admindash/internal/storage/identity"
	"github.com/maruel/admindash/internal/utils"
)

func TestPopulateParams(t *testing.T) {
	mux := http.NewServeMux()
	var got dto.ListUsersRequest
	var gotID dto.GetUserRequest
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		populateQueryParams(r, &got)
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		populatePathParams(r, &gotID)
	})
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users?page=2&limit=x&search=ann", nil))
	if got.Page != "2" || got.Limit != "x" || got.Search != "ann" {
		t.Errorf("query params = %+v", got.ListParams)
	}
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/42", nil))
	if gotID.ID != "42" {
		t.Errorf("path param = %q", gotID.ID)
	}
}

func TestWriteJSONResponse(t *testing.T) {
	tests := []struct {
		name       string
		write      func(w http.ResponseWriter)
		wantStatus int
		wantBody   string
	}{
		{
			"ok",
			func(w http.ResponseWriter) { writeJSONResponse(t.Context(), w, &dto.OkResponse{Ok: true}, nil) },
			http.StatusOK, `{"ok":true}` + "\n",
		},
		{
			"created",
			func(w http.ResponseWriter) {
				writeJSONResponse(t.Context(), w, &dto.CreatedUserResponse{UserResponse: dto.UserResponse{ID: "1"}}, nil)
			},
			http.StatusCreated, `{"id":"1","name":"","email":"","createdAt":"","updatedAt":""}` + "\n",
		},
		{
			"no content",
			func(w http.ResponseWriter) { writeJSONResponse(t.Context(), w, &dto.EmptyResponse{}, nil) },
			http.StatusNoContent, "",
		},
		{
			"api error",
			func(w http.ResponseWriter) { writeJSONResponse[dto.OkResponse](t.Context(), w, nil, dto.NotFound("User")) },
			http.StatusNotFound, `{"error":{"code":"NOT_FOUND","message":"User not found"}}` + "\n",
		},
		{
			"internal error hides cause",
			func(w http.ResponseWriter) {
				writeJSONResponse[dto.OkResponse](t.Context(), w, nil, dto.InternalWithError("Failed to list users", errors.New("disk on fire")))
			},
			http.StatusInternalServerError, `{"error":{"code":"INTERNAL_ERROR","message":"Failed to list users"}}` + "\n",
		},
		{
			"plain error",
			func(w http.ResponseWriter) { writeJSONResponse[dto.OkResponse](t.Context(), w, nil, errors.New("boom")) },
			http.StatusInternalServerError, `{"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}` + "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestValidateJWTAndSession(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	accounts := identity.NewAccountService()
	sessions := identity.NewSessionService(nil)
	account, err := accounts.Create("a@example.com", "pw", "A", entity.UserRoleViewer)
	if err != nil {
		t.Fatal(err)
	}
	session, err := sessions.Create(account.ID, "", "", "", time.Now().Add(time.Hour), 0)
	if err != nil {
		t.Fatal(err)
	}
	sign := func(method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	exp := time.Now().Add(time.Hour).Unix()
	valid := sign(jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": account.ID, "sid": session.ID, "exp": exp})
	if err := sessions.SetTokenHash(session.ID, utils.HashToken(valid)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"valid", "Bearer " + valid, nil},
		{"missing", "", errUnauthorized},
		{"basic scheme", "Basic abc", errInvalidAuthHdr},
		{"wrong secret", "Bearer " + sign(jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": account.ID, "sid": session.ID, "exp": exp}), errInvalidToken},
		{"unsigned", "Bearer " + sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"sub": account.ID, "sid": session.ID}), errInvalidToken},
		{"expired", "Bearer " + sign(jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": account.ID, "sid": session.ID, "exp": time.Now().Add(-time.Hour).Unix()}), errInvalidToken},
		{"unknown account", "Bearer " + sign(jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": "999", "sid": session.ID, "exp": exp}), errAccountNotFound},
		{"no session", "Bearer " + sign(jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": account.ID, "exp": exp}), errSessionIDRequired},
		{"other token for session", "Bearer " + sign(jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": account.ID, "sid": session.ID, "exp": exp + 1}), errSessionRevoked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequestWithContext(context.Background(), http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, sid, err := validateJWTAndSession(r, accounts, sessions, secret)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && (got.ID != account.ID || sid != session.ID) {
				t.Errorf("got account %q session %q", got.ID, sid)
			}
		})
	}
}
