// Provides middleware for standardizing HTTP handlers.

package server

import (
	"bytes"
	"context"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maruel/admindash/internal/server/dto"
	"github.com/maruel/admindash/internal/server/handlers"
	"github.com/maruel/admindash/internal/server/ratelimit"
	"github.com/maruel/admindash/internal/server/reqctx"
	"github.com/maruel/admindash/internal/storage/entity"
	"github.com/maruel/admindash/internal/storage/identity"
	"github.com/maruel/admindash/internal/utils"
)

// statusCoder is implemented by responses that are not answered with 200 OK.
type statusCoder interface {
	StatusCode() int
}

// addRequestMetadataToContext adds client IP, User-Agent and country to the
// context.
func addRequestMetadataToContext(ctx context.Context, r *http.Request, svc *handlers.Services, cfg *handlers.Config) context.Context {
	ip := clientIP(r, cfg)
	ctx = reqctx.WithClientIP(ctx, ip)
	ctx = reqctx.WithUserAgent(ctx, r.Header.Get("User-Agent"))
	if svc != nil {
		if cc := svc.GeoIP.CountryCode(ip); cc != "" {
			ctx = reqctx.WithCountryCode(ctx, cc)
		}
	}
	return ctx
}

// clientIP returns the request's client address, honoring proxy headers only
// when the configuration trusts them.
func clientIP(r *http.Request, cfg *handlers.Config) string {
	return reqctx.GetClientIP(r, cfg != nil && cfg.TrustProxyHeaders)
}

// checkRateLimit checks rate limit and wraps the response writer if needed.
// Returns the (possibly wrapped) writer and whether the request should proceed.
func checkRateLimit(w http.ResponseWriter, tier *ratelimit.Tier, identifier string) (http.ResponseWriter, bool) {
	if tier == nil {
		return w, true
	}
	key := ratelimit.BuildKey(tier.Scope, identifier, tier.Name)
	result := tier.Limiter.Allow(key)
	w = ratelimit.NewResponseWriter(w, result)
	if !result.Allowed {
		writeRateLimitError(w, result)
		return w, false
	}
	return w, true
}

// getRateLimitIdentifier returns the appropriate identifier for rate limiting based on scope.
func getRateLimitIdentifier(tier *ratelimit.Tier, account *identity.Account, r *http.Request, cfg *handlers.Config) string {
	if tier.Scope == ratelimit.ScopeAccount && account != nil {
		return account.ID
	}
	return clientIP(r, cfg)
}

// readAndDecodeBody reads the request body with size limit and decodes JSON into input.
// Returns false if an error occurred and was written to the response.
func readAndDecodeBody[In any](ctx context.Context, w http.ResponseWriter, r *http.Request, input *In, cfg *handlers.Config) bool {
	if cfg != nil && cfg.Quotas.MaxRequestBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, cfg.Quotas.MaxRequestBodyBytes)
	}

	body, err := io.ReadAll(r.Body)
	if err2 := r.Body.Close(); err == nil {
		err = err2
	}
	if err != nil {
		if maxBytesErr := checkMaxBytesError(err); maxBytesErr != nil {
			writeAPIError(w, dto.PayloadTooLarge(maxBytesErr.Limit))
			return false
		}
		slog.ErrorContext(ctx, "Failed to read request body", "err", err)
		writeBadRequestError(w, "Failed to read request body")
		return false
	}

	if len(bytes.TrimSpace(body)) > 0 {
		d := json.NewDecoder(bytes.NewReader(body))
		d.DisallowUnknownFields()
		if err := d.Decode(input); err != nil {
			slog.WarnContext(ctx, "Failed to decode request body", "err", err)
			writeBadRequestError(w, "Invalid request body")
			return false
		}
	}
	return true
}

// checkMaxBytesError checks if an error is a MaxBytesError and returns it, or nil.
func checkMaxBytesError(err error) *http.MaxBytesError {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return maxBytesErr
	}
	return nil
}

// writeJSONResponse writes a JSON response or error response.
func writeJSONResponse[Out any](ctx context.Context, w http.ResponseWriter, output *Out, err error) {
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := dto.ErrorCodeInternal
		message := "Internal server error"
		var details map[string]any

		var ewsErr dto.ErrorWithStatus
		if errors.As(err, &ewsErr) {
			statusCode = ewsErr.StatusCode()
			errorCode = ewsErr.Code()
			message = ewsErr.Message()
			details = ewsErr.Details()
		}

		if statusCode >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "Handler error", "err", err, "statusCode", statusCode, "code", errorCode, "request_id", reqctx.RequestID(ctx))
		} else {
			slog.DebugContext(ctx, "Handler error", "err", err, "statusCode", statusCode, "code", errorCode, "request_id", reqctx.RequestID(ctx))
		}
		writeErrorResponseWithCode(w, statusCode, errorCode, message, details)
		return
	}

	statusCode := http.StatusOK
	if sc, ok := any(output).(statusCoder); ok {
		statusCode = sc.StatusCode()
	}
	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(output); err != nil {
		slog.ErrorContext(ctx, "Failed to encode response", "err", err)
	}
}

// Wrap wraps a handler function to work as an http.Handler.
// The function must have signature: func(context.Context, *In) (*Out, error)
// where In can be unmarshalled from JSON and Out is a struct.
// Path parameters can be extracted by tagging struct fields with `path:"name"`
// and query parameters with `query:"name"`.
// *In must implement dto.Validatable.
//
// Example:
//
//	type GetUserRequest struct {
//	    ID string `path:"id"`
//	}
//
//	func (h *Handler) GetUser(ctx context.Context, req *GetUserRequest) (*Response, error)
func Wrap[In any, PtrIn interface {
	*In
	dto.Validatable
}, Out any](fn func(context.Context, PtrIn) (*Out, error), svc *handlers.Services, cfg *handlers.Config, limiters *ratelimit.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := addRequestMetadataToContext(r.Context(), r, svc, cfg)

		// Rate limit check for unauthenticated endpoints
		if tier := limiters.MatchUnauth(r.Method, r.URL.Path); tier != nil {
			var ok bool
			if w, ok = checkRateLimit(w, tier, clientIP(r, cfg)); !ok {
				return
			}
		}

		input := new(In)
		if !readAndDecodeBody(ctx, w, r, input, cfg) {
			return
		}

		populatePathParams(r, input)
		populateQueryParams(r, input)

		if err := PtrIn(input).Validate(); err != nil {
			handleValidationError(ctx, w, err)
			return
		}

		output, err := fn(ctx, PtrIn(input))
		writeJSONResponse(ctx, w, output, err)
	})
}

// WrapAuth wraps an authenticated handler function to work as an http.Handler.
// The account must hold at least requiredRole.
// The function must have signature: func(context.Context, *identity.Account, *In) (*Out, error)
// *In must implement dto.Validatable.
func WrapAuth[In any, PtrIn interface {
	*In
	dto.Validatable
}, Out any](
	fn func(context.Context, *identity.Account, PtrIn) (*Out, error),
	svc *handlers.Services,
	cfg *handlers.Config,
	requiredRole entity.UserRole,
	limiters *ratelimit.Config,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := addRequestMetadataToContext(r.Context(), r, svc, cfg)

		account, sessionID, err := validateJWTAndSession(r, svc.Account, svc.Session, cfg.JWTSecret)
		if err != nil {
			slog.DebugContext(ctx, "Authentication failed", "err", err)
			writeAPIError(w, dto.Unauthorized())
			return
		}
		ctx = reqctx.WithSessionID(ctx, sessionID)

		// Rate limit check for authenticated endpoints
		if tier := limiters.MatchAuth(r.Method, r.URL.Path); tier != nil {
			var ok bool
			if w, ok = checkRateLimit(w, tier, getRateLimitIdentifier(tier, account, r, cfg)); !ok {
				return
			}
		}

		if !account.Role.Satisfies(requiredRole) {
			writeAPIError(w, dto.Forbidden("Insufficient permissions"))
			return
		}

		input := new(In)
		if !readAndDecodeBody(ctx, w, r, input, cfg) {
			return
		}

		populatePathParams(r, input)
		populateQueryParams(r, input)

		if err := PtrIn(input).Validate(); err != nil {
			handleValidationError(ctx, w, err)
			return
		}

		output, err := fn(ctx, account, PtrIn(input))
		writeJSONResponse(ctx, w, output, err)
	})
}

var (
	errUnauthorized      = errors.New("unauthorized")
	errInvalidAuthHdr    = errors.New("invalid authorization header")
	errInvalidToken      = errors.New("invalid token")
	errInvalidClaims     = errors.New("invalid claims")
	errInvalidAccountID  = errors.New("invalid account ID in token")
	errAccountNotFound   = errors.New("account not found")
	errSessionIDRequired = errors.New("session ID missing from token")
	errSessionRevoked    = errors.New("session revoked")
)

// validateJWTAndSession extracts and validates the JWT token and its session
// from the request.
// Returns the account and session ID.
func validateJWTAndSession(r *http.Request, accounts *identity.AccountService, sessions *identity.SessionService, jwtSecret []byte) (*identity.Account, string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, "", errUnauthorized
	}

	scheme, tokenString, ok := strings.Cut(authHeader, " ")
	if !ok || scheme != "Bearer" || tokenString == "" {
		return nil, "", errInvalidAuthHdr
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, "", errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "", errInvalidClaims
	}

	accountID, ok := claims["sub"].(string)
	if !ok || accountID == "" {
		return nil, "", errInvalidAccountID
	}

	account, err := accounts.Get(accountID)
	if err != nil {
		return nil, "", errAccountNotFound
	}

	sessionID, ok := claims["sid"].(string)
	if !ok || sessionID == "" {
		return nil, "", errSessionIDRequired
	}
	valid, err := sessions.IsValid(sessionID, utils.HashToken(tokenString))
	if err != nil {
		return nil, "", errInvalidToken
	}
	if !valid {
		return nil, "", errSessionRevoked
	}

	return account, sessionID, nil
}

// populatePathParams extracts path parameters from the request and populates
// struct fields tagged with `path:"paramName"`.
func populatePathParams(r *http.Request, input any) {
	populateTagged(input, "path", r.PathValue)
}

// populateQueryParams extracts query parameters from the request and populates
// struct fields tagged with `query:"paramName"`.
func populateQueryParams(r *http.Request, input any) {
	query := r.URL.Query()
	populateTagged(input, "query", query.Get)
}

func populateTagged(input any, tagName string, lookup func(string) string) {
	val := reflect.ValueOf(input)
	if val.Kind() != reflect.Pointer {
		return // Skip if not a pointer
	}
	elem := val.Elem()
	if elem.Kind() != reflect.Struct {
		return // Skip if not a struct
	}
	setTaggedFields(elem, tagName, lookup)
}

// setTaggedFields descends into embedded structs such as dto.ListParams.
func setTaggedFields(elem reflect.Value, tagName string, lookup func(string) string) {
	typ := elem.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		fieldVal := elem.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			setTaggedFields(fieldVal, tagName, lookup)
			continue
		}
		tag := field.Tag.Get(tagName)
		if tag == "" || !fieldVal.CanSet() {
			continue
		}

		paramValue := lookup(tag)
		if paramValue == "" {
			continue
		}

		switch field.Type.Kind() {
		case reflect.String:
			fieldVal.SetString(paramValue)
		case reflect.Int:
			if intVal, err := strconv.Atoi(paramValue); err == nil {
				fieldVal.SetInt(int64(intVal))
			}
		default:
			// Try to use encoding.TextUnmarshaler interface for custom types
			if fieldVal.CanAddr() {
				if unmarshaler, ok := fieldVal.Addr().Interface().(encoding.TextUnmarshaler); ok {
					_ = unmarshaler.UnmarshalText([]byte(paramValue))
				}
			}
		}
	}
}

// handleValidationError writes a validation error response.
func handleValidationError(ctx context.Context, w http.ResponseWriter, err error) {
	statusCode := http.StatusBadRequest
	errorCode := dto.ErrorCodeValidationFailed
	message := err.Error()
	var details map[string]any

	var ewsErr dto.ErrorWithStatus
	if errors.As(err, &ewsErr) {
		statusCode = ewsErr.StatusCode()
		errorCode = ewsErr.Code()
		message = ewsErr.Message()
		details = ewsErr.Details()
	}

	slog.DebugContext(ctx, "Validation error", "err", err, "statusCode", statusCode, "code", errorCode)
	writeErrorResponseWithCode(w, statusCode, errorCode, message, details)
}

// writeBadRequestError writes a 400 Bad Request error response.
func writeBadRequestError(w http.ResponseWriter, message string) {
	writeErrorResponseWithCode(w, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message, nil)
}

// writeAPIError writes an error that carries its own status and code.
func writeAPIError(w http.ResponseWriter, err error) {
	var ewsErr dto.ErrorWithStatus
	if !errors.As(err, &ewsErr) {
		writeErrorResponseWithCode(w, http.StatusInternalServerError, dto.ErrorCodeInternal, "Internal server error", nil)
		return
	}
	writeErrorResponseWithCode(w, ewsErr.StatusCode(), ewsErr.Code(), ewsErr.Message(), ewsErr.Details())
}

// writeErrorResponseWithCode writes a detailed error response as JSON with code and details.
func writeErrorResponseWithCode(w http.ResponseWriter, statusCode int, code dto.ErrorCode, message string, details map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := dto.ErrorResponse{
		Error: dto.ErrorDetails{
			Code:    code,
			Message: message,
		},
		Details: details,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}

// writeRateLimitError writes a 429 rate limit error response.
func writeRateLimitError(w http.ResponseWriter, result ratelimit.Result) {
	writeAPIError(w, dto.RateLimitExceeded(int(result.RetryAfter.Seconds())))
}
