package inbound

import (
	"context"
	"time"

	"github.com/verdeo/auth-service/domain/entity"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegisterIndividualRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2"`
}

type RegisterOrganizationRequest struct {
	Email       string             `json:"email" validate:"required,email"`
	Password    string             `json:"password" validate:"required,min=8"`
	Name        string             `json:"name" validate:"required,min=2"`
	PackageTier entity.PackageTier `json:"package_tier"`
}

// AuthResult is the caller-facing outcome of every successful auth operation.
// The profile fields are populated only for the matching kind.
type AuthResult struct {
	AccountID    int64              `json:"id"`
	Email        string             `json:"email"`
	Kind         entity.AccountKind `json:"kind"`
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
	CreatedAt    time.Time          `json:"created_at"`

	FullName         string             `json:"full_name,omitempty"`
	OrganizationName string             `json:"organization_name,omitempty"`
	PackageTier      entity.PackageTier `json:"package_tier,omitempty"`
}

type AuthUseCase interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	// LoginTyped additionally requires the account to be of expectedKind,
	// checked only after the password verified.
	LoginTyped(ctx context.Context, req LoginRequest, expectedKind entity.AccountKind) (*AuthResult, error)
	Refresh(ctx context.Context, req RefreshRequest) (*AuthResult, error)
	Logout(ctx context.Context, accountID int64) error
	RegisterIndividual(ctx context.Context, req RegisterIndividualRequest) (*AuthResult, error)
	RegisterOrganization(ctx context.Context, req RegisterOrganizationRequest) (*AuthResult, error)
}
