package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/portside-hq/portside-backend/internal/memberships"
	"github.com/portside-hq/portside-backend/internal/users"
	"github.com/portside-hq/portside-backend/pkg/config"
	"github.com/portside-hq/portside-backend/pkg/db"
	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
	pkgerrors "github.com/portside-hq/portside-backend/pkg/errors"
	"github.com/portside-hq/portside-backend/pkg/security"
)

// RegisterRequest contains the payload required for onboarding a new organization.
type RegisterRequest struct {
	FullName         string                 `json:"full_name" validate:"required"`
	Email            string                 `json:"email" validate:"required,email"`
	Password         string                 `json:"password" validate:"required,min=8"`
	OrganizationName string                 `json:"organization_name" validate:"required"`
	OrganizationType enums.OrganizationType `json:"organization_type" validate:"required"`
	ContactEmail     string                 `json:"contact_email" validate:"omitempty,email"`
	Phone            *string                `json:"phone,omitempty"`
	Country          *string                `json:"country,omitempty"`
	AcceptTOS        bool                   `json:"accept_tos"`
}

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !req.OrganizationType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid organization type")
	}
	if !req.AcceptTOS {
		return pkgerrors.New(pkgerrors.CodeValidation, "accept_tos must be true")
	}

	contactEmail := strings.ToLower(strings.TrimSpace(req.ContactEmail))
	if contactEmail == "" {
		contactEmail = email
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		membershipRepo := memberships.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FullName:     strings.TrimSpace(req.FullName),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		org := &models.Organization{
			Type:         req.OrganizationType,
			Name:         strings.TrimSpace(req.OrganizationName),
			ContactEmail: contactEmail,
			Phone:        req.Phone,
			Country:      req.Country,
		}
		if err := tx.WithContext(ctx).Create(org).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create organization")
		}

		if _, err := membershipRepo.CreateMembership(ctx, org.ID, user.ID, enums.MemberRoleOwner); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create membership")
		}

		return nil
	})
}
