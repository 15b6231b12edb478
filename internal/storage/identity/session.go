// Handles active login sessions and token management.

package identity

import (
	"crypto/subtle"
	"errors"
	"iter"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/maruel/admindash/internal/memdb"
	"github.com/maruel/admindash/internal/utils"
	"github.com/maruel/ksid"
)

// maxDeviceInfo is the maximum stored length of Session.DeviceInfo in bytes.
const maxDeviceInfo = 200

// Session represents a login session.
type Session struct {
	memdb.Meta
	AccountID   string    `json:"account_id" jsonschema:"description=Account that owns this session"`
	TokenHash   string    `json:"token_hash" jsonschema:"description=SHA-256 hash of the JWT token"`
	DeviceInfo  string    `json:"device_info" jsonschema:"description=User-Agent at login"`
	IPAddress   string    `json:"ip_address" jsonschema:"description=Client IP address at login"`
	CountryCode string    `json:"country_code,omitempty" jsonschema:"description=ISO 3166-1 alpha-2 country code at login"`
	ExpiresAt   time.Time `json:"expires_at" jsonschema:"description=Session expiration timestamp"`
	RevokedAt   time.Time `json:"revoked_at,omitzero" jsonschema:"description=Revocation timestamp if revoked"`
}

// Clone returns a copy of the session.
func (s *Session) Clone() *Session {
	c := *s
	return &c
}

// SearchFields implements memdb.Row. Sessions are not searchable.
func (s *Session) SearchFields() []string {
	return nil
}

// Normalize implements memdb.Row.
func (s *Session) Normalize() {
	if len(s.DeviceInfo) > maxDeviceInfo {
		cut := maxDeviceInfo
		for cut > 0 && !utf8.RuneStart(s.DeviceInfo[cut]) {
			cut--
		}
		s.DeviceInfo = s.DeviceInfo[:cut]
	}
}

// active reports whether the session is neither revoked nor expired at now.
func (s *Session) active(now time.Time) bool {
	return s.RevokedAt.IsZero() && s.ExpiresAt.After(now)
}

// SessionService handles session management.
type SessionService struct {
	now   func() time.Time
	table *memdb.Table[*Session]
	// createMu serializes the quota check with the insert.
	createMu sync.Mutex
}

// NewSessionService creates an empty session service. Session IDs are ksids.
// now is the time source; nil means time.Now.
func NewSessionService(now func() time.Time) *SessionService {
	if now == nil {
		now = time.Now
	}
	table := memdb.NewTable[*Session](
		memdb.WithClock(now),
		memdb.WithIDGenerator(func(uint64) string { return ksid.NewID().String() }),
	)
	return &SessionService{now: now, table: table}
}

// Create creates a new session without a token hash. The session is not
// valid until SetTokenHash is called, so the ID can be embedded in the token
// first.
//
// maxSessions limits the number of active sessions per account. Use 0 to
// disable the limit.
func (s *SessionService) Create(accountID, deviceInfo, ipAddress, countryCode string, expiresAt time.Time, maxSessions int) (*Session, error) {
	if accountID == "" {
		return nil, errSessionAccountIDRequired
	}
	s.createMu.Lock()
	defer s.createMu.Unlock()
	if maxSessions > 0 {
		activeCount := 0
		for range s.ActiveByAccount(accountID) {
			activeCount++
		}
		if activeCount >= maxSessions {
			return nil, ErrSessionQuotaExceeded
		}
	}
	return s.table.Insert(&Session{
		AccountID:   accountID,
		DeviceInfo:  deviceInfo,
		IPAddress:   ipAddress,
		CountryCode: countryCode,
		ExpiresAt:   expiresAt,
	})
}

// Issue creates a session and binds it to the token returned by sign, which
// receives the new session. On any error after creation the session is
// revoked so it does not hold a slot of the quota.
func (s *SessionService) Issue(accountID, deviceInfo, ipAddress, countryCode string, expiresAt time.Time, maxSessions int, sign func(*Session) (string, error)) (string, error) {
	session, err := s.Create(accountID, deviceInfo, ipAddress, countryCode, expiresAt, maxSessions)
	if err != nil {
		return "", err
	}
	token, err := sign(session)
	switch {
	case err != nil:
	case token == "":
		err = errSessionTokenRequired
	default:
		err = s.SetTokenHash(session.ID, utils.HashToken(token))
	}
	if err != nil {
		if rerr := s.Revoke(session.ID); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return "", err
	}
	return token, nil
}

// SetTokenHash records the hash of the token issued for the session.
func (s *SessionService) SetTokenHash(id, tokenHash string) error {
	if tokenHash == "" {
		return errSessionTokenHashRequired
	}
	_, err := s.table.Update(id, func(session *Session) error {
		session.TokenHash = tokenHash
		return nil
	})
	if errors.Is(err, memdb.ErrNotFound) {
		return errSessionNotFound
	}
	return err
}

// Get retrieves a session by ID.
func (s *SessionService) Get(id string) (*Session, error) {
	session, ok := s.table.Get(id)
	if !ok {
		return nil, errSessionNotFound
	}
	return session, nil
}

// ActiveByAccount returns an iterator over the active (non-revoked,
// non-expired) sessions of an account.
func (s *SessionService) ActiveByAccount(accountID string) iter.Seq[*Session] {
	now := s.now()
	return func(yield func(*Session) bool) {
		for session := range s.table.All() {
			if session.AccountID == accountID && session.active(now) {
				if !yield(session) {
					return
				}
			}
		}
	}
}

// CountActive returns the number of active (non-revoked, non-expired) sessions.
func (s *SessionService) CountActive() int {
	now := s.now()
	count := 0
	for session := range s.table.All() {
		if session.active(now) {
			count++
		}
	}
	return count
}

// Revoke marks a session as revoked.
func (s *SessionService) Revoke(id string) error {
	_, err := s.table.Update(id, func(session *Session) error {
		if session.RevokedAt.IsZero() {
			session.RevokedAt = s.now()
		}
		return nil
	})
	if errors.Is(err, memdb.ErrNotFound) {
		return errSessionNotFound
	}
	return err
}

// IsValid reports whether a session is active and was issued for the token
// with the given hash.
func (s *SessionService) IsValid(id, tokenHash string) (bool, error) {
	session, ok := s.table.Get(id)
	if !ok {
		return false, errSessionNotFound
	}
	if !session.active(s.now()) || session.TokenHash == "" {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(session.TokenHash), []byte(tokenHash)) == 1, nil
}

// CleanupExpired removes sessions that have been expired for more than the
// given duration. Returns the number of removed sessions.
func (s *SessionService) CleanupExpired(olderThan time.Duration) int {
	cutoff := s.now().Add(-olderThan)
	var toDelete []string
	for session := range s.table.All() {
		if session.ExpiresAt.Before(cutoff) {
			toDelete = append(toDelete, session.ID)
		}
	}
	count := 0
	for _, id := range toDelete {
		if s.table.Delete(id) {
			count++
		}
	}
	return count
}

var (
	errSessionAccountIDRequired = errors.New("session account_id is required")
	errSessionTokenHashRequired = errors.New("session token_hash is required")
	errSessionTokenRequired     = errors.New("session token is required")
	errSessionNotFound          = errors.New("session not found")
	// ErrSessionQuotaExceeded is returned when an account has too many active sessions.
	ErrSessionQuotaExceeded = errors.New("maximum number of active sessions exceeded")
)
