package outbound

import (
	"time"

	"github.com/verdeo/auth-service/domain/entity"
)

// TokenPurpose is the access|refresh discriminator embedded in a token,
// distinct from its signature validity.
type TokenPurpose string

const (
	TokenPurposeAccess  TokenPurpose = "access"
	TokenPurposeRefresh TokenPurpose = "refresh"
)

type TokenClaims struct {
	AccountID int64
	Kind      entity.AccountKind
	Purpose   TokenPurpose
	ExpiresAt time.Time
}

// TokenService mints and verifies signed, expiring tokens. Decode checks
// signature and expiry only; callers must check Purpose matches the intended
// use.
type TokenService interface {
	IssueAccessToken(accountID int64, kind entity.AccountKind) (string, error)
	IssueRefreshToken(accountID int64, kind entity.AccountKind) (string, error)
	IssuePair(accountID int64, kind entity.AccountKind) (access string, refresh string, err error)
	Decode(token string) (*TokenClaims, error)
}
