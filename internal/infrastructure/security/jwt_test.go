package security

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	access, refresh, err := tm.Generate("user-1", "admin")
	if err != nil {
		t.Fatal(err)
	}

	if sub, err := tm.ValidateAccessToken(access); err != nil || sub != "user-1" {
		t.Errorf("access validation = (%q, %v)", sub, err)
	}
	if sub, err := tm.ValidateRefreshToken(refresh); err != nil || sub != "user-1" {
		t.Errorf("refresh validation = (%q, %v)", sub, err)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	access, refresh, err := tm.Generate("user-1", "user")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := tm.ValidateAccessToken(refresh); err == nil {
		t.Error("refresh token must not pass access validation")
	}
	if _, err := tm.ValidateRefreshToken(access); err == nil {
		t.Error("access token must not pass refresh validation")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", -time.Minute, time.Hour)

	access, _, err := tm.Generate("user-1", "user")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tm.ValidateAccessToken(access); err == nil {
		t.Error("expired access token must be rejected")
	}
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("segreto123")
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Compare(hash, "segreto123"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := h.Compare(hash, "sbagliata"); err == nil {
		t.Error("wrong password accepted")
	}
}
