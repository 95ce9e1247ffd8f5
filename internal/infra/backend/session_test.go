package backend

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "reporter",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString() = %v", err)
	}
	return s
}

func TestSessionAuthenticated(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"empty", "", false},
		{"opaque", "not-a-jwt", true},
		{"valid jwt", signedToken(t, time.Now().Add(time.Hour)), true},
		{"expired jwt", signedToken(t, time.Now().Add(-time.Minute)), false},
	}
	for _, tt := range tests {
		if got := NewSession(tt.token).Authenticated(); got != tt.want {
			t.Errorf("%s: Authenticated() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSessionClear(t *testing.T) {
	s := NewSession("tok")
	s.Clear()
	if s.Token() != "" || s.Authenticated() {
		t.Error("Clear() should drop the token")
	}
	s.Set("again")
	if !s.Authenticated() {
		t.Error("Set() should restore authentication")
	}
}
