package outbound

import (
	"context"
	"errors"

	"github.com/verdeo/auth-service/domain/entity"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrProfileNotFound = errors.New("profile not found")
)

// AccountRepository persists accounts and their kind-specific profiles.
// Create assigns the account ID; a unique-constraint violation on email is
// surfaced as ErrDuplicateEmail so concurrent registrations resolve in the
// storage layer.
type AccountRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Account, error)
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	Create(ctx context.Context, account *entity.Account) error
	CreateIndividualProfile(ctx context.Context, profile *entity.IndividualProfile) error
	CreateOrganizationProfile(ctx context.Context, profile *entity.OrganizationProfile) error
	FindIndividualProfile(ctx context.Context, accountID int64) (*entity.IndividualProfile, error)
	FindOrganizationProfile(ctx context.Context, accountID int64) (*entity.OrganizationProfile, error)
}
