package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/verdeo/auth-service/application/port/outbound"
)

type unitOfWork struct {
	db *sql.DB
}

func NewUnitOfWork(db *sql.DB) outbound.UnitOfWork {
	return &unitOfWork{db: db}
}

// WithinTx binds fresh repositories to one transaction and commits only when
// fn succeeds. Rollback errors are ignored; the original error wins.
func (u *unitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, repos outbound.TxRepositories) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	repos := outbound.TxRepositories{
		Accounts:   NewAccountRepository(tx),
		TokenPairs: NewTokenPairRepository(tx),
	}

	if err := fn(ctx, repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
