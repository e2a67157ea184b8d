package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestTokenUserID(t *testing.T) {
	token := signed(t, jwt.MapClaims{"user_id": float64(42), "exp": time.Now().Add(time.Hour).Unix()})
	id, err := TokenUserID(token)
	if err != nil {
		t.Fatalf("TokenUserID() error = %v", err)
	}
	if id != 42 {
		t.Errorf("TokenUserID() = %d, want 42", id)
	}
}

func TestTokenUserIDMissingClaim(t *testing.T) {
	token := signed(t, jwt.MapClaims{"sub": "nope"})
	if _, err := TokenUserID(token); err == nil {
		t.Error("TokenUserID() error = nil for token without user_id")
	}
	if _, err := TokenUserID("not.a.token"); err == nil {
		t.Error("TokenUserID() error = nil for garbage input")
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	live := signed(t, jwt.MapClaims{"user_id": float64(1), "exp": now.Add(time.Hour).Unix()})
	dead := signed(t, jwt.MapClaims{"user_id": float64(1), "exp": now.Add(-time.Hour).Unix()})
	noExp := signed(t, jwt.MapClaims{"user_id": float64(1)})

	if TokenExpired(live, now) {
		t.Error("TokenExpired() = true for live token")
	}
	if !TokenExpired(dead, now) {
		t.Error("TokenExpired() = false for expired token")
	}
	if TokenExpired(noExp, now) {
		t.Error("TokenExpired() = true for token without exp")
	}
	if !TokenExpired("garbage", now) {
		t.Error("TokenExpired() = false for unparseable token")
	}
}
