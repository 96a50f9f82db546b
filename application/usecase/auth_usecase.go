package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verdeo/auth-service/application/port/inbound"
	"github.com/verdeo/auth-service/application/port/outbound"
	"github.com/verdeo/auth-service/domain/apperror"
	"github.com/verdeo/auth-service/domain/entity"
	"github.com/verdeo/auth-service/domain/valueobject"
	"github.com/verdeo/auth-service/infrastructure/service/logger"
)

type contextKey string

const clientIPKey contextKey = "client_ip"

// WithClientIP stores the caller's IP so login throttling can key on it.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func clientIPFrom(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey).(string); ok && ip != "" {
		return ip
	}
	return "unknown"
}

// AuthUseCase coordinates credential verification, token issuance and the
// persisted token pair for login, refresh, logout and registration.
type AuthUseCase struct {
	accounts      outbound.AccountRepository
	tokenPairs    outbound.TokenPairRepository
	uow           outbound.UnitOfWork
	tokens        outbound.TokenService
	passwords     outbound.PasswordService
	limiter       outbound.RateLimiter
	logger        logger.Logger
	loginAttempts int
	loginWindow   time.Duration
}

func NewAuthUseCase(
	accounts outbound.AccountRepository,
	tokenPairs outbound.TokenPairRepository,
	uow outbound.UnitOfWork,
	tokens outbound.TokenService,
	passwords outbound.PasswordService,
	limiter outbound.RateLimiter,
	log logger.Logger,
	loginAttempts int,
	loginWindow time.Duration,
) inbound.AuthUseCase {
	return &AuthUseCase{
		accounts:      accounts,
		tokenPairs:    tokenPairs,
		uow:           uow,
		tokens:        tokens,
		passwords:     passwords,
		limiter:       limiter,
		logger:        log,
		loginAttempts: loginAttempts,
		loginWindow:   loginWindow,
	}
}

func (uc *AuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.AuthResult, error) {
	account, err := uc.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	access, refresh, err := uc.issueAndStore(ctx, account.ID, account.Kind)
	if err != nil {
		return nil, err
	}

	logger.LogAuthEvent(ctx, uc.logger, "login_successful", account.ID, true, map[string]interface{}{
		"kind": account.Kind,
	})

	return &inbound.AuthResult{
		AccountID:    account.ID,
		Email:        account.Email,
		Kind:         account.Kind,
		AccessToken:  access,
		RefreshToken: refresh,
		CreatedAt:    account.CreatedAt,
	}, nil
}

func (uc *AuthUseCase) LoginTyped(ctx context.Context, req inbound.LoginRequest, expectedKind entity.AccountKind) (*inbound.AuthResult, error) {
	account, err := uc.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// The kind check runs only after the password verified, so a wrong-kind
	// probe with bad credentials cannot distinguish the two cases.
	if account.Kind != expectedKind {
		logger.LogSecurityEvent(ctx, uc.logger, "login_wrong_account_kind", "LOW", map[string]interface{}{
			"account_id": account.ID,
			"expected":   expectedKind,
			"actual":     account.Kind,
		})
		return nil, apperror.WrongAccountKind(string(expectedKind))
	}

	access, refresh, err := uc.issueAndStore(ctx, account.ID, account.Kind)
	if err != nil {
		return nil, err
	}

	result := &inbound.AuthResult{
		AccountID:    account.ID,
		Email:        account.Email,
		Kind:         account.Kind,
		AccessToken:  access,
		RefreshToken: refresh,
		CreatedAt:    account.CreatedAt,
	}
	if err := uc.attachProfile(ctx, result); err != nil {
		return nil, err
	}

	logger.LogAuthEvent(ctx, uc.logger, "login_successful", account.ID, true, map[string]interface{}{
		"kind": account.Kind,
	})
	return result, nil
}

func (uc *AuthUseCase) Refresh(ctx context.Context, req inbound.RefreshRequest) (*inbound.AuthResult, error) {
	if req.RefreshToken == "" {
		return nil, apperror.Validation("refresh token is required")
	}

	claims, err := uc.tokens.Decode(req.RefreshToken)
	if err != nil {
		logger.LogSecurityEvent(ctx, uc.logger, "refresh_token_rejected", "MEDIUM", map[string]interface{}{
			"token": "[REDACTED]",
		})
		return nil, err
	}
	if claims.Purpose != outbound.TokenPurposeRefresh {
		logger.LogSecurityEvent(ctx, uc.logger, "refresh_with_wrong_purpose", "MEDIUM", map[string]interface{}{
			"account_id": claims.AccountID,
			"purpose":    claims.Purpose,
		})
		return nil, apperror.InvalidToken("token purpose is not refresh", nil)
	}

	// The token alone is authoritative: the account and the stored pair are
	// not re-checked, so an old pair is simply superseded by the new upsert.
	access, refresh, err := uc.issueAndStore(ctx, claims.AccountID, claims.Kind)
	if err != nil {
		return nil, err
	}

	logger.LogAuthEvent(ctx, uc.logger, "token_refresh_successful", claims.AccountID, true, nil)

	return &inbound.AuthResult{
		AccountID:    claims.AccountID,
		Kind:         claims.Kind,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, accountID int64) error {
	if err := uc.tokenPairs.DeleteByAccountID(ctx, accountID); err != nil {
		if errors.Is(err, outbound.ErrTokenPairNotFound) {
			logger.LogAuthEvent(ctx, uc.logger, "logout_without_session", accountID, true, nil)
			return nil
		}
		uc.logger.Error(ctx, "failed to delete token pair", err, map[string]interface{}{
			"account_id": accountID,
		})
		return apperror.StorageUnavailable(err)
	}

	logger.LogAuthEvent(ctx, uc.logger, "logout_successful", accountID, true, nil)
	return nil
}

func (uc *AuthUseCase) RegisterIndividual(ctx context.Context, req inbound.RegisterIndividualRequest) (*inbound.AuthResult, error) {
	creds, err := valueobject.NewCredentials(req.Email, req.Password)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := valueobject.ValidateDisplayName(req.FullName); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	account, err := uc.register(ctx, creds, entity.AccountKindIndividual, func(ctx context.Context, repos outbound.TxRepositories, accountID int64) error {
		return repos.Accounts.CreateIndividualProfile(ctx, &entity.IndividualProfile{
			AccountID: accountID,
			FullName:  req.FullName,
		})
	})
	if err != nil {
		return nil, err
	}

	account.FullName = req.FullName
	return account, nil
}

func (uc *AuthUseCase) RegisterOrganization(ctx context.Context, req inbound.RegisterOrganizationRequest) (*inbound.AuthResult, error) {
	creds, err := valueobject.NewCredentials(req.Email, req.Password)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := valueobject.ValidateDisplayName(req.Name); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	tier := req.PackageTier
	if tier == "" {
		tier = entity.PackageTierBasic
	}
	if !tier.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("unknown package tier: %q", tier))
	}

	account, err := uc.register(ctx, creds, entity.AccountKindOrganization, func(ctx context.Context, repos outbound.TxRepositories, accountID int64) error {
		return repos.Accounts.CreateOrganizationProfile(ctx, &entity.OrganizationProfile{
			AccountID:   accountID,
			Name:        req.Name,
			PackageTier: tier,
		})
	})
	if err != nil {
		return nil, err
	}

	account.OrganizationName = req.Name
	account.PackageTier = tier
	return account, nil
}

// register creates the account, its profile and the first token pair as one
// atomic unit; a failure at any step leaves no orphaned rows behind.
func (uc *AuthUseCase) register(
	ctx context.Context,
	creds *valueobject.Credentials,
	kind entity.AccountKind,
	createProfile func(ctx context.Context, repos outbound.TxRepositories, accountID int64) error,
) (*inbound.AuthResult, error) {
	hash, err := uc.passwords.HashPassword(creds.Password())
	if err != nil {
		return nil, apperror.Internal(err)
	}

	account := entity.NewAccount(creds.Email(), hash, kind)
	var access, refresh string

	err = uc.uow.WithinTx(ctx, func(ctx context.Context, repos outbound.TxRepositories) error {
		if err := repos.Accounts.Create(ctx, account); err != nil {
			return err
		}
		if err := createProfile(ctx, repos, account.ID); err != nil {
			return err
		}
		access, refresh, err = uc.tokens.IssuePair(account.ID, account.Kind)
		if err != nil {
			return err
		}
		return repos.TokenPairs.Upsert(ctx, entity.NewTokenPair(account.ID, access, refresh))
	})
	if err != nil {
		if errors.Is(err, outbound.ErrDuplicateEmail) {
			logger.LogAuthEvent(ctx, uc.logger, "registration_duplicate_email", 0, false, map[string]interface{}{
				"email": creds.Email(),
			})
			return nil, apperror.DuplicateEmail(creds.Email())
		}
		uc.logger.Error(ctx, "registration failed", err, map[string]interface{}{
			"email": creds.Email(),
			"kind":  kind,
		})
		return nil, apperror.StorageUnavailable(err)
	}

	logger.LogAuthEvent(ctx, uc.logger, "registration_successful", account.ID, true, map[string]interface{}{
		"kind": kind,
	})

	return &inbound.AuthResult{
		AccountID:    account.ID,
		Email:        account.Email,
		Kind:         account.Kind,
		AccessToken:  access,
		RefreshToken: refresh,
		CreatedAt:    account.CreatedAt,
	}, nil
}

// authenticate resolves the account and verifies the password, reporting the
// same failure for an unknown email and a wrong password.
func (uc *AuthUseCase) authenticate(ctx context.Context, email, password string) (*entity.Account, error) {
	if email == "" || password == "" {
		return nil, apperror.Validation("email and password are required")
	}

	ip := clientIPFrom(ctx)
	if uc.limiter != nil {
		allowed, err := uc.limiter.Allow(ctx, "login:ip:"+ip, uc.loginAttempts, uc.loginWindow)
		if err != nil {
			uc.logger.Error(ctx, "rate limit check failed", err, map[string]interface{}{"ip": ip})
		} else if !allowed {
			logger.LogSecurityEvent(ctx, uc.logger, "login_rate_limited", "HIGH", map[string]interface{}{
				"ip": ip,
			})
			return nil, apperror.TooManyAttempts()
		}
	}

	account, err := uc.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, outbound.ErrAccountNotFound) {
			logger.LogAuthEvent(ctx, uc.logger, "login_failed", 0, false, map[string]interface{}{
				"email": email,
				"ip":    ip,
			})
			return nil, apperror.InvalidCredentials()
		}
		uc.logger.Error(ctx, "failed to find account", err, map[string]interface{}{"email": email})
		return nil, apperror.StorageUnavailable(err)
	}

	if !uc.passwords.VerifyPassword(password, account.PasswordHash) {
		logger.LogAuthEvent(ctx, uc.logger, "login_failed", account.ID, false, map[string]interface{}{
			"ip": ip,
		})
		return nil, apperror.InvalidCredentials()
	}

	if uc.limiter != nil {
		if err := uc.limiter.Reset(ctx, "login:ip:"+ip); err != nil {
			uc.logger.Debug(ctx, "rate limit reset failed", map[string]interface{}{"ip": ip})
		}
	}
	return account, nil
}

// issueAndStore mints a fresh pair and overwrites the stored one, so the row
// always holds the latest valid pair for the account.
func (uc *AuthUseCase) issueAndStore(ctx context.Context, accountID int64, kind entity.AccountKind) (string, string, error) {
	access, refresh, err := uc.tokens.IssuePair(accountID, kind)
	if err != nil {
		uc.logger.Error(ctx, "failed to issue token pair", err, map[string]interface{}{
			"account_id": accountID,
		})
		return "", "", apperror.Internal(err)
	}

	if err := uc.tokenPairs.Upsert(ctx, entity.NewTokenPair(accountID, access, refresh)); err != nil {
		uc.logger.Error(ctx, "failed to store token pair", err, map[string]interface{}{
			"account_id": accountID,
		})
		return "", "", apperror.StorageUnavailable(err)
	}
	return access, refresh, nil
}

func (uc *AuthUseCase) attachProfile(ctx context.Context, result *inbound.AuthResult) error {
	switch result.Kind {
	case entity.AccountKindIndividual:
		profile, err := uc.accounts.FindIndividualProfile(ctx, result.AccountID)
		if err != nil {
			if errors.Is(err, outbound.ErrProfileNotFound) {
				return nil
			}
			return apperror.StorageUnavailable(err)
		}
		result.FullName = profile.FullName
	case entity.AccountKindOrganization:
		profile, err := uc.accounts.FindOrganizationProfile(ctx, result.AccountID)
		if err != nil {
			if errors.Is(err, outbound.ErrProfileNotFound) {
				return nil
			}
			return apperror.StorageUnavailable(err)
		}
		result.OrganizationName = profile.Name
		result.PackageTier = profile.PackageTier
	}
	return nil
}
