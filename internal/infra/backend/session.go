package backend

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session holds the bearer token attached to every request.
type Session struct {
	mu    sync.RWMutex
	token string
	now   func() time.Time
}

func NewSession(token string) *Session {
	return &Session{token: token, now: time.Now}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear drops the token, e.g. after the backend answered 401.
func (s *Session) Clear() {
	s.Set("")
}

// Authenticated reports whether a token is present and not known to be expired.
// Tokens that are not JWTs are opaque to the client and count as valid.
func (s *Session) Authenticated() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	return !s.expired(token)
}

func (s *Session) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(s.now())
}
