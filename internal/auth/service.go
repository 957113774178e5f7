package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/portside-hq/portside-backend/internal/memberships"
	"github.com/portside-hq/portside-backend/internal/users"
	pkgAuth "github.com/portside-hq/portside-backend/pkg/auth"
	"github.com/portside-hq/portside-backend/pkg/auth/session"
	"github.com/portside-hq/portside-backend/pkg/config"
	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
	pkgerrors "github.com/portside-hq/portside-backend/pkg/errors"
	"github.com/portside-hq/portside-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, expiredAccessToken, refreshToken string) (*RefreshResponse, error)
	Logout(ctx context.Context, accessID string) error
	SwitchOrganization(ctx context.Context, claims *pkgAuth.AccessTokenClaims, req SwitchOrganizationRequest) (*SwitchOrganizationResponse, error)
}

type service struct {
	users       userRepository
	memberships membershipsRepository
	session     sessionManager
	jwtCfg      config.JWTConfig
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type membershipsRepository interface {
	ListUserOrganizations(ctx context.Context, userID uuid.UUID) ([]memberships.MembershipWithOrganization, error)
	GetMembership(ctx context.Context, userID, organizationID uuid.UUID) (*models.Membership, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo        userRepository
	MembershipsRepo membershipsRepository
	SessionManager  sessionManager
	JWTConfig       config.JWTConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.MembershipsRepo == nil {
		return nil, fmt.Errorf("memberships repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:       params.UserRepo,
		memberships: params.MembershipsRepo,
		session:     params.SessionManager,
		jwtCfg:      params.JWTConfig,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	rows, err := s.memberships.ListUserOrganizations(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list organizations")
	}
	if len(rows) == 0 && !user.IsPlatformAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now, err := s.recordLogin(ctx, user)
	if err != nil {
		return nil, err
	}

	orgs := make([]OrganizationSummary, 0, len(rows))
	for _, m := range rows {
		orgs = append(orgs, OrganizationSummary{
			ID:   m.OrganizationID,
			Name: m.OrganizationName,
			Type: m.OrganizationType,
			Role: m.Role,
		})
	}

	var activeOrgID *uuid.UUID
	var orgTypePtr *enums.OrganizationType
	role := enums.MemberRoleMember
	if len(rows) > 0 {
		primary := rows[0]
		id := primary.OrganizationID
		activeOrgID = &id
		role = primary.Role
		orgType := primary.OrganizationType
		orgTypePtr = &orgType
	}
	if user.IsPlatformAdmin {
		role = enums.MemberRoleOwner
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID:               user.ID,
		ActiveOrganizationID: activeOrgID,
		Role:                 role,
		OrganizationType:     orgTypePtr,
		IsPlatformAdmin:      user.IsPlatformAdmin,
		JTI:                  accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		Organizations: orgs,
		User:          users.FromModel(user),
	}, nil
}

// Refresh rotates the refresh token and mints a new access token carrying the
// same organization scope as the expiring one.
func (s *service) Refresh(ctx context.Context, expiredAccessToken, refreshToken string) (*RefreshResponse, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, expiredAccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:               claims.UserID,
		ActiveOrganizationID: claims.ActiveOrganizationID,
		Role:                 claims.Role,
		OrganizationType:     claims.OrganizationType,
		IsPlatformAdmin:      claims.IsPlatformAdmin,
		JTI:                  newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

// SwitchOrganization re-mints the token pair scoped to another organization
// the caller belongs to. The prior session is revoked.
func (s *service) SwitchOrganization(ctx context.Context, claims *pkgAuth.AccessTokenClaims, req SwitchOrganizationRequest) (*SwitchOrganizationResponse, error) {
	if claims == nil || claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if req.OrganizationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "organization_id is required")
	}

	membership, err := s.memberships.GetMembership(ctx, claims.UserID, req.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a member of organization")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load membership")
	}

	rows, err := s.memberships.ListUserOrganizations(ctx, claims.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list organizations")
	}
	var orgTypePtr *enums.OrganizationType
	for _, row := range rows {
		if row.OrganizationID == req.OrganizationID {
			orgType := row.OrganizationType
			orgTypePtr = &orgType
			break
		}
	}

	accessID := session.NewAccessID()
	orgID := req.OrganizationID
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:               claims.UserID,
		ActiveOrganizationID: &orgID,
		Role:                 membership.Role,
		OrganizationType:     orgTypePtr,
		IsPlatformAdmin:      claims.IsPlatformAdmin,
		JTI:                  accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}
	if err := s.session.Revoke(ctx, claims.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke prior session")
	}

	return &SwitchOrganizationResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) recordLogin(ctx context.Context, user *models.User) (time.Time, error) {
	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now
	return now, nil
}
