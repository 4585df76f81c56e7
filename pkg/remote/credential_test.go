package remote

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessToken_Valid(t *testing.T) {
	tok := &AccessToken{Token: "t", ExpiresOn: time.Now().Add(time.Hour)}
	if !tok.Valid() {
		t.Error("Expected unexpired token to be valid")
	}

	expired := &AccessToken{Token: "t", ExpiresOn: time.Now().Add(-time.Minute)}
	if expired.Valid() {
		t.Error("Expected expired token to be invalid")
	}

	zero := &AccessToken{Token: "t"}
	if zero.Valid() {
		t.Error("Expected token without expiry to be invalid")
	}
}

func TestAccessToken_ExpiresIn(t *testing.T) {
	tok := &AccessToken{Token: "t", ExpiresOn: time.Now().Add(time.Hour)}
	if d := tok.ExpiresIn(); d <= 59*time.Minute || d > time.Hour {
		t.Errorf("Expected roughly an hour, got %s", d)
	}

	expired := &AccessToken{Token: "t", ExpiresOn: time.Now().Add(-time.Minute)}
	if d := expired.ExpiresIn(); d != 0 {
		t.Errorf("Expected 0 for expired token, got %s", d)
	}
}

func TestExpiryFromToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
		"aud": "https://svc.example.com",
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing test token failed: %v", err)
	}

	got := expiryFromToken(signed)
	if !got.Equal(exp) {
		t.Errorf("Expected expiry %s, got %s", exp, got)
	}
}

func TestExpiryFromToken_NotAJWT(t *testing.T) {
	if got := expiryFromToken("opaque-token"); !got.IsZero() {
		t.Errorf("Expected zero time for a non-JWT token, got %s", got)
	}
}

func TestExpiryFromToken_NoExpClaim(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"aud": "https://svc.example.com",
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing test token failed: %v", err)
	}

	if got := expiryFromToken(signed); !got.IsZero() {
		t.Errorf("Expected zero time without an exp claim, got %s", got)
	}
}
