package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/verdeo/auth-service/application/port/outbound"
	"github.com/verdeo/auth-service/domain/entity"
)

type tokenPairRepository struct {
	db querier
}

func NewTokenPairRepository(db querier) outbound.TokenPairRepository {
	return &tokenPairRepository{db: db}
}

// Upsert is a single statement, so concurrent writers for the same account
// resolve to last-writer-wins with no field mixing.
func (r *tokenPairRepository) Upsert(ctx context.Context, pair *entity.TokenPair) error {
	query := `
		INSERT INTO token_pairs (account_id, access_token, refresh_token, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id) DO UPDATE
		SET access_token = EXCLUDED.access_token,
		    refresh_token = EXCLUDED.refresh_token,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		pair.AccountID,
		pair.AccessToken,
		pair.RefreshToken,
		pair.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert token pair: %w", err)
	}
	return nil
}

func (r *tokenPairRepository) FindByAccountID(ctx context.Context, accountID int64) (*entity.TokenPair, error) {
	query := `
		SELECT account_id, access_token, refresh_token, updated_at
		FROM token_pairs
		WHERE account_id = $1
	`

	var pair entity.TokenPair
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&pair.AccountID,
		&pair.AccessToken,
		&pair.RefreshToken,
		&pair.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrTokenPairNotFound
		}
		return nil, fmt.Errorf("failed to find token pair: %w", err)
	}
	return &pair, nil
}

// DeleteByAccountID removes the stored pair; deleting an absent row is not an
// error.
func (r *tokenPairRepository) DeleteByAccountID(ctx context.Context, accountID int64) error {
	query := `DELETE FROM token_pairs WHERE account_id = $1`

	if _, err := r.db.ExecContext(ctx, query, accountID); err != nil {
		return fmt.Errorf("failed to delete token pair: %w", err)
	}
	return nil
}
