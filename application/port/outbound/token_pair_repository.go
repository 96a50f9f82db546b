package outbound

import (
	"context"
	"errors"

	"github.com/verdeo/auth-service/domain/entity"
)

var ErrTokenPairNotFound = errors.New("token pair not found")

// TokenPairRepository persists at most one (access, refresh) pair per account.
// Upsert overwrites both fields atomically; two concurrent upserts for the
// same account must never interleave into a mixed row. Delete is a no-op when
// no row exists.
type TokenPairRepository interface {
	Upsert(ctx context.Context, pair *entity.TokenPair) error
	FindByAccountID(ctx context.Context, accountID int64) (*entity.TokenPair, error)
	DeleteByAccountID(ctx context.Context, accountID int64) error
}
