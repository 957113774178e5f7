package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/portside-hq/portside-backend/pkg/config"
	"github.com/portside-hq/portside-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "portside-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	orgID := uuid.New()
	orgType := enums.OrganizationTypeShippingAgency
	payload := AccessTokenPayload{
		UserID:               uuid.New(),
		ActiveOrganizationID: &orgID,
		Role:                 enums.MemberRoleManager,
		OrganizationType:     &orgType,
	}

	signed, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != payload.UserID {
		t.Fatalf("expected user %s, got %s", payload.UserID, claims.UserID)
	}
	if claims.ActiveOrganizationID == nil || *claims.ActiveOrganizationID != orgID {
		t.Fatalf("expected organization %s, got %v", orgID, claims.ActiveOrganizationID)
	}
	if claims.Role != enums.MemberRoleManager {
		t.Fatalf("expected role %s, got %s", enums.MemberRoleManager, claims.Role)
	}
	if claims.OrganizationType == nil || *claims.OrganizationType != orgType {
		t.Fatalf("expected organization type %s, got %v", orgType, claims.OrganizationType)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestMintAccessTokenRejectsInvalidRole(t *testing.T) {
	t.Parallel()

	payload := AccessTokenPayload{UserID: uuid.New(), Role: enums.MemberRole("pirate")}
	if _, err := MintAccessToken(testJWTConfig(), time.Now(), payload); err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	payload := AccessTokenPayload{UserID: uuid.New(), Role: enums.MemberRoleMember}
	signed, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), payload)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to fail validation")
	}
	if _, err := ParseAccessTokenAllowExpired(cfg, signed); err != nil {
		t.Fatalf("expected expired parse to succeed, got %v", err)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.MemberRoleOwner})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	wrong := cfg
	wrong.Secret = "other-secret"
	if _, err := ParseAccessToken(wrong, signed); err == nil {
		t.Fatal("expected signature validation to fail")
	}
}
