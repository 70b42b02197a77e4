package jwt

import (
	"errors"
	"testing"
	"time"

	"clinic-scheduler/config"

	"github.com/google/uuid"
)

func newService(secret string) *JWTService {
	return NewJWTService(config.JWTConfig{Secret: secret, AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	svc := newService("secret")
	userID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(userID, "a@mail.com", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := svc.Parse(token, AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != userID || claims.RoleID != 4 || claims.TokenID != tokenID {
		t.Errorf("claims mismatch: %+v", claims)
	}
	if claims.Subject != userID.String() || claims.ID != tokenID {
		t.Errorf("registered claims mismatch: %+v", claims.RegisteredClaims)
	}
}

func TestParse_WrongType(t *testing.T) {
	svc := newService("secret")

	token, _, err := svc.GenerateRefreshToken(uuid.New(), "a@mail.com", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Parse(token, AccessToken); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("expected ErrWrongTokenType, got %v", err)
	}
	if _, err := svc.Parse(token, RefreshToken); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	token, _, err := newService("one").GenerateRefreshToken(uuid.New(), "a@mail.com", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := newService("two").Parse(token, RefreshToken); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestExpiry(t *testing.T) {
	svc := newService("secret")
	if svc.Expiry(AccessToken) != time.Minute || svc.Expiry(RefreshToken) != time.Hour {
		t.Errorf("unexpected expiries %v %v", svc.Expiry(AccessToken), svc.Expiry(RefreshToken))
	}
}
