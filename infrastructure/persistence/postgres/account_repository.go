package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/verdeo/auth-service/application/port/outbound"
	"github.com/verdeo/auth-service/domain/entity"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// querier is satisfied by both *sql.DB and *sql.Tx so the repositories work
// standalone and inside a unit of work.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

type accountRepository struct {
	db querier
}

func NewAccountRepository(db querier) outbound.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindByID(ctx context.Context, id int64) (*entity.Account, error) {
	query := `
		SELECT id, email, password_hash, kind, created_at
		FROM accounts
		WHERE id = $1
	`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	query := `
		SELECT id, email, password_hash, kind, created_at
		FROM accounts
		WHERE email = $1
	`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *accountRepository) scanAccount(row *sql.Row) (*entity.Account, error) {
	var account entity.Account
	var kind string

	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&kind,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	account.Kind, err = entity.ParseAccountKind(kind)
	if err != nil {
		return nil, fmt.Errorf("corrupt account row %d: %w", account.ID, err)
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	query := `
		INSERT INTO accounts (email, password_hash, kind, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		account.Email,
		account.PasswordHash,
		string(account.Kind),
		account.CreatedAt,
	).Scan(&account.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return outbound.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) CreateIndividualProfile(ctx context.Context, profile *entity.IndividualProfile) error {
	query := `
		INSERT INTO individual_profiles (account_id, full_name)
		VALUES ($1, $2)
	`

	if _, err := r.db.ExecContext(ctx, query, profile.AccountID, profile.FullName); err != nil {
		return fmt.Errorf("failed to create individual profile: %w", err)
	}
	return nil
}

func (r *accountRepository) CreateOrganizationProfile(ctx context.Context, profile *entity.OrganizationProfile) error {
	query := `
		INSERT INTO organization_profiles (account_id, name, package_tier)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.ExecContext(ctx, query, profile.AccountID, profile.Name, string(profile.PackageTier)); err != nil {
		return fmt.Errorf("failed to create organization profile: %w", err)
	}
	return nil
}

func (r *accountRepository) FindIndividualProfile(ctx context.Context, accountID int64) (*entity.IndividualProfile, error) {
	query := `
		SELECT account_id, full_name
		FROM individual_profiles
		WHERE account_id = $1
	`

	var profile entity.IndividualProfile
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&profile.AccountID, &profile.FullName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find individual profile: %w", err)
	}
	return &profile, nil
}

func (r *accountRepository) FindOrganizationProfile(ctx context.Context, accountID int64) (*entity.OrganizationProfile, error) {
	query := `
		SELECT account_id, name, package_tier
		FROM organization_profiles
		WHERE account_id = $1
	`

	var profile entity.OrganizationProfile
	var tier string
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&profile.AccountID, &profile.Name, &tier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find organization profile: %w", err)
	}

	profile.PackageTier, err = entity.ParsePackageTier(tier)
	if err != nil {
		return nil, fmt.Errorf("corrupt organization profile %d: %w", accountID, err)
	}
	return &profile, nil
}
